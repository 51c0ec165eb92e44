package remedy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gmckeown/incident-blaster/internal/config"
	"github.com/gmckeown/incident-blaster/internal/models"
)

// REST paths relative to the configured API base URL.
const (
	loginPath  = "/jwt/login"
	logoutPath = "/jwt/logout"
	entryPath  = "/arsys/v1/entry/"
)

// Session holds an authenticated connection to a Remedy server. A session is
// established once per run with Login and released with Logout; there is no
// re-authentication on token expiry.
type Session struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Login authenticates against the Remedy JWT endpoint and returns an
// authenticated session. Rejected credentials produce a *LoginError.
func Login(ctx context.Context, cfg *config.RestConfig, logger *slog.Logger) (*Session, error) {
	s := &Session{
		baseURL:    cfg.APIURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}

	logger.Info("logging in to Remedy", "url", cfg.APIURL, "user", cfg.Username)

	form := url.Values{}
	form.Set("username", cfg.Username)
	form.Set("password", cfg.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &LoginError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	token, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read login token: %w", err)
	}

	s.token = "AR-JWT " + string(token)
	return s, nil
}

// Logout asks the server to destroy the session token. The session must not
// be used after Logout returns.
func (s *Session) Logout(ctx context.Context) error {
	if s.token == "" {
		return fmt.Errorf("no active login session; cannot logout")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+logoutPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create logout request: %w", err)
	}
	req.Header.Set("Authorization", s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send logout request: %w", err)
	}
	defer resp.Body.Close()

	if err := s.checkResponse("logout", resp); err != nil {
		return err
	}

	s.token = ""
	s.logger.Info("logged out of Remedy")
	return nil
}

// CreateEntry creates an entry on the given form and returns the Location
// header of the new entry plus the entry values the server was asked to
// return via the returnFields projection.
func (s *Session) CreateEntry(ctx context.Context, form string, entry any, returnFields []string) (string, *models.EntryResponse, error) {
	body, err := json.Marshal(entry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal entry: %w", err)
	}

	endpoint := s.baseURL + entryPath + url.PathEscape(form)
	if len(returnFields) > 0 {
		params := url.Values{}
		params.Set("fields", fmt.Sprintf("values(%s)", strings.Join(returnFields, ",")))
		endpoint += "?" + params.Encode()
	}

	s.logger.Debug("creating entry", "form", form, "url", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if err := s.checkResponse("create entry", resp); err != nil {
		return "", nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read response: %w", err)
	}

	var entryResp models.EntryResponse
	if err := json.Unmarshal(respBody, &entryResp); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return resp.Header.Get("Location"), &entryResp, nil
}

// QueryEntries retrieves entries on a form matching a Remedy qualification,
// projected down to the requested fields.
func (s *Session) QueryEntries(ctx context.Context, form, qualification string, returnFields []string) (*models.QueryResponse, error) {
	params := url.Values{}
	params.Set("q", qualification)
	if len(returnFields) > 0 {
		params.Set("fields", fmt.Sprintf("values(%s)", strings.Join(returnFields, ",")))
	}
	endpoint := s.baseURL + entryPath + url.PathEscape(form) + "?" + params.Encode()

	s.logger.Debug("querying entries", "form", form, "qualification", qualification)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if err := s.checkResponse("query entries", resp); err != nil {
		return nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var queryResp models.QueryResponse
	if err := json.Unmarshal(respBody, &queryResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &queryResp, nil
}

// ModifyEntry updates fields on an existing entry identified by entryID.
func (s *Session) ModifyEntry(ctx context.Context, form string, values map[string]string, entryID string) error {
	body, err := json.Marshal(models.ModifyRequest{Values: values})
	if err != nil {
		return fmt.Errorf("failed to marshal modify payload: %w", err)
	}

	endpoint := s.baseURL + entryPath + url.PathEscape(form) + "/" + url.PathEscape(entryID)

	s.logger.Debug("modifying entry", "form", form, "entry_id", entryID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	return s.checkResponse("modify entry", resp)
}

// setHeaders sets common headers for authenticated entry API requests.
func (s *Session) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", s.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// checkResponse validates the HTTP response from Remedy.
func (s *Session) checkResponse(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)

	s.logger.Error("Remedy API error",
		"operation", op,
		"status_code", resp.StatusCode,
		"response", string(body),
	)

	return &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
}
