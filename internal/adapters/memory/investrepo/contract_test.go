package investrepo

import (
	"testing"
	"time"

	"github.com/chama-works/investments-api/internal/adapters/contracttest"
	memclock "github.com/chama-works/investments-api/internal/adapters/memory/clock"
	investrepoport "github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

func TestContract_InvestRepo(t *testing.T) {
	contracttest.RunInvestRepo(t, func(t *testing.T) (investrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(memclock.NewManualClock(time.Unix(1000, 0))), nil
	})
}
