package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"draftpad-cli/internal/model"
)

// ErrInvalidCredentials is the generic login failure. The server's detail is
// intentionally not surfaced here; the auth flow shows a generic message.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Register creates a new account. The credentials travel as JSON; failures
// carry the server-reported detail (e.g. a duplicate username).
//
// Registration and login are unauthenticated exchanges: they bypass the
// bearer injection and the 401 teardown so a failed login can never tear
// down an existing session.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	return nil
}

// Login exchanges credentials for a bearer token. The token endpoint takes
// URL-encoded form data, not JSON; its contract differs from registration.
// The caller is responsible for storing the returned token in the session.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", ErrInvalidCredentials
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return "", errors.New("token response missing access_token")
	}
	return out.AccessToken, nil
}

// MyProjects lists the projects owned by the authenticated user.
func (c *Client) MyProjects(ctx context.Context) ([]model.ProjectSummary, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/projects/my", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var out []model.ProjectSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProject submits a creation request and returns the new project id.
// Section content is generated server-side; order_index is assigned from
// the submitted name order.
func (c *Client) CreateProject(ctx context.Context, title, docType string, sections []string) (int64, error) {
	body, err := json.Marshal(map[string]any{
		"title":    title,
		"doc_type": docType,
		"sections": sections,
	})
	if err != nil {
		return 0, err
	}
	resp, err := c.Do(ctx, http.MethodPost, "/projects/", jsonHeader(), bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return 0, err
	}
	var out struct {
		ProjectID int64 `json:"project_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.ProjectID, nil
}

// GetProject fetches a full project with its sections.
func (c *Client) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	resp, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var out model.Project
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSection submits a partial update (content, notes or feedback).
func (c *Client) UpdateSection(ctx context.Context, id int64, upd model.SectionUpdate) error {
	body, err := json.Marshal(upd)
	if err != nil {
		return err
	}
	resp, err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/sections/%d", id), jsonHeader(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// RefineSection asks the backend to generate a rewrite suggestion for one
// section. The result is a preview only: nothing is persisted server-side
// until the caller applies it through UpdateSection.
func (c *Client) RefineSection(ctx context.Context, sectionID int64, instruction string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"section_id":  sectionID,
		"instruction": instruction,
	})
	if err != nil {
		return "", err
	}
	resp, err := c.Do(ctx, http.MethodPost, "/refine/", jsonHeader(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	var out struct {
		PreviewContent string `json:"preview_content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.PreviewContent, nil
}

// ExportProject fetches the rendered document body for a project. The same
// bearer-header pipeline applies; the body is returned raw.
func (c *Client) ExportProject(ctx context.Context, id int64) ([]byte, error) {
	resp, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/export/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func jsonHeader() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return h
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		// Teardown already happened in Do.
		return ErrSessionExpired
	}
	return decodeError(resp)
}

func decodeError(resp *http.Response) error {
	var out struct {
		Detail string `json:"detail"`
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		_ = json.Unmarshal(b, &out)
	}
	return &Error{Status: resp.StatusCode, Detail: out.Detail}
}
