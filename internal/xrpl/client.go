// Package xrpl speaks the rippled JSON-RPC and websocket surface the engine
// needs: account lookups, server status, fee estimation, and signed Payment
// submission with validation wait.
package xrpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// QueryError reports either a transport failure or a ledger-side error token
// (actNotFound, txnNotFound, ...) for a single request.
type QueryError struct {
	Method  string
	Code    string
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xrpl %s: %v", e.Method, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("xrpl %s: %s %s", e.Method, e.Code, e.Message)
	}
	return fmt.Sprintf("xrpl %s: %s", e.Method, e.Code)
}

func (e *QueryError) Unwrap() error { return e.Err }

// NotFound reports whether the ledger answered but had no such object.
func (e *QueryError) NotFound() bool {
	return e.Code == "actNotFound" || e.Code == "txnNotFound"
}

// Client is a minimal rippled JSON-RPC client over HTTP.
type Client struct {
	url  string
	http *http.Client
}

// New builds a client against the given JSON-RPC endpoint.
func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// URL returns the configured endpoint.
func (c *Client) URL() string { return c.url }

type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
}

type rpcStatus struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

// Request performs one JSON-RPC round trip and returns the raw result object.
// rippled wraps every answer in {"result": {...}} with a status field.
func (c *Client) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	reqBody := rpcRequest{Method: method}
	if params != nil {
		reqBody.Params = []any{params}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &QueryError{Method: method, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, &QueryError{Method: method, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &QueryError{Method: method, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &QueryError{Method: method, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var envelope rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &QueryError{Method: method, Err: fmt.Errorf("decode response: %w", err)}
	}
	if envelope.Result == nil {
		return nil, &QueryError{Method: method, Err: fmt.Errorf("response missing result")}
	}

	var status rpcStatus
	if err := json.Unmarshal(envelope.Result, &status); err != nil {
		return nil, &QueryError{Method: method, Err: fmt.Errorf("decode status: %w", err)}
	}
	if status.Status == "error" {
		code := status.Error
		if code == "" {
			code = "unknownError"
		}
		return nil, &QueryError{Method: method, Code: code, Message: status.ErrorMessage}
	}
	return envelope.Result, nil
}

// Ping checks the endpoint responds at all.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Request(ctx, "ping", nil)
	return err
}
