package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"draftpad-cli/internal/session"
)

// ErrSessionExpired is returned by endpoint calls whose response was a 401.
// By the time a caller sees it, the pipeline has already torn the session
// down; the caller only needs to surface "please log in again".
var ErrSessionExpired = errors.New("session expired")

// Error is a business error reported by the backend (4xx with a detail
// message). The detail is surfaced verbatim to the user.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if strings.TrimSpace(e.Detail) == "" {
		return fmt.Sprintf("server error (status %d)", e.Status)
	}
	return e.Detail
}

// Client is the authenticated request pipeline. Every backend call,
// including the binary export fetch, goes through Do so the bearer-header
// convention and the 401 teardown are applied uniformly.
type Client struct {
	baseURL string
	http    *http.Client
	sess    *session.Session
}

func New(baseURL string, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
		sess:    sess,
	}
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Do issues a request against path with the stored credential injected as
// `Authorization: Bearer <token>`. Caller-supplied headers and body are
// preserved unchanged; the raw response is returned for the caller to
// inspect and parse.
//
// On a 401 response the credential is cleared and session subscribers are
// notified before the response is returned. This is an unconditional side
// effect, not an error: callers still receive the 401 response object and
// must tolerate teardown having already started.
func (c *Client) Do(ctx context.Context, method, path string, header http.Header, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if tok := c.sess.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.sess.Invalidate()
	}
	return resp, nil
}
