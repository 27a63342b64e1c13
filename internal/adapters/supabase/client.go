// Package supabase implements investrepo.Repository on top of Supabase's PostgREST RPC endpoint.
// The stored procedures are the same ones the Postgres adapter calls directly.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chama-works/investments-api/internal/adapters/procwire"
	"github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

const maxResponseBytes = 1 << 20

type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// Client calls Postgres functions through {URL}/rest/v1/rpc/{fn}.
// It never retries: a failed call surfaces immediately.
type Client struct {
	restURL string
	anonKey string
	http    *http.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("supabase: URL is required")
	}
	if strings.TrimSpace(cfg.AnonKey) == "" {
		return nil, errors.New("supabase: anon key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		restURL: strings.TrimRight(cfg.URL, "/") + "/rest/v1",
		anonKey: cfg.AnonKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// RPC posts {"p": args} to fn and decodes the JSON result into out.
func (c *Client) RPC(ctx context.Context, fn string, args any, out any) error {
	body, err := json.Marshal(map[string]any{procwire.ArgName: args})
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.restURL+"/rpc/"+fn, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.anonKey)
	token := c.anonKey
	if t, ok := investrepo.AccessTokenFromContext(ctx); ok {
		token = t
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return investrepo.TransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return investrepo.TransportError(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode >= 400 {
		return parseError(respBody, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s result: %w", fn, err)
	}
	return nil
}

// parseError understands PostgREST's {code,message,details,hint} and the gateway's
// {error,error_description}. Every 5xx is a transport failure: procedure rejections map to 4xx
// in PostgREST, so a 5xx means the database or gateway is unavailable.
func parseError(body []byte, status int) error {
	var errResp struct {
		Code             string `json:"code"`
		Message          string `json:"message"`
		Details          string `json:"details"`
		Hint             string `json:"hint"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	decodeErr := json.Unmarshal(body, &errResp)
	msg := errResp.Message
	if msg == "" {
		msg = errResp.Error
	}
	if msg == "" {
		msg = errResp.ErrorDescription
	}

	if status >= 500 {
		if decodeErr == nil && msg != "" {
			return investrepo.TransportError(fmt.Errorf("supabase: status %d: %s", status, msg))
		}
		return investrepo.TransportError(fmt.Errorf("supabase: status %d", status))
	}
	if decodeErr != nil || (msg == "" && errResp.Code == "") {
		return &investrepo.RemoteError{Code: investrepo.CodeInvalidRequest, Message: strings.TrimSpace(string(body)), Status: status}
	}
	re := procwire.ServerError{
		SQLState: errResp.Code,
		Message:  msg,
		Detail:   errResp.Details,
		Hint:     errResp.Hint,
		Status:   status,
	}.Remote()
	if errResp.Code == "" && (status == http.StatusUnauthorized || status == http.StatusForbidden) {
		re.Code = investrepo.CodePermissionDenied
	}
	return re
}
