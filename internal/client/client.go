// Package client talks to the family health API on behalf of a session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redmonkez12/family-health-api/internal/domain"
	"github.com/redmonkez12/family-health-api/internal/session"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response decoded from the API's {error, code} body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s, HTTP %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Manager
}

func New(baseURL string, sess *session.Manager) *Client {
	return NewWithHTTPClient(baseURL, sess, nil)
}

func NewWithHTTPClient(baseURL string, sess *session.Manager, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: sess,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the body of a successful login.
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DeleteResponse carries the last known state of a deleted entity.
type DeleteResponse[T any] struct {
	Message string `json:"message"`
	Deleted T      `json:"deleted"`
}

func (c *Client) Register(ctx context.Context, email, password string) (domain.PublicUser, error) {
	var u domain.PublicUser
	err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{email, password}, &u)
	return u, err
}

// Login authenticates and hands the issued token to the session.
func (c *Client) Login(ctx context.Context, email, password string) (session.Identity, error) {
	var tok TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{email, password}, &tok); err != nil {
		return session.Identity{}, err
	}
	return c.session.Login(tok.Token)
}

func (c *Client) Me(ctx context.Context) (domain.PublicUser, error) {
	var u domain.PublicUser
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u)
	return u, err
}

func (c *Client) ListFamilyMembers(ctx context.Context) ([]domain.FamilyMember, error) {
	var members []domain.FamilyMember
	err := c.do(ctx, http.MethodGet, "/api/family-members", nil, &members)
	return members, err
}

func (c *Client) CreateFamilyMember(ctx context.Context, body any) (domain.FamilyMember, error) {
	var fm domain.FamilyMember
	err := c.do(ctx, http.MethodPost, "/api/family-members", body, &fm)
	return fm, err
}

func (c *Client) GetFamilyMember(ctx context.Context, id int64) (domain.FamilyMember, error) {
	var fm domain.FamilyMember
	err := c.do(ctx, http.MethodGet, familyMemberPath(id), nil, &fm)
	return fm, err
}

func (c *Client) UpdateFamilyMember(ctx context.Context, id int64, body any) (domain.FamilyMember, error) {
	var fm domain.FamilyMember
	err := c.do(ctx, http.MethodPatch, familyMemberPath(id), body, &fm)
	return fm, err
}

func (c *Client) DeleteFamilyMember(ctx context.Context, id int64) (DeleteResponse[domain.FamilyMember], error) {
	var res DeleteResponse[domain.FamilyMember]
	err := c.do(ctx, http.MethodDelete, familyMemberPath(id), nil, &res)
	return res, err
}

func familyMemberPath(id int64) string {
	return "/api/family-members/" + strconv.FormatInt(id, 10)
}

// do sends one request. The bearer token is attached whenever the session has
// one. An expired-token response logs the session out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.session.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp)
		if apiErr.Code == "TOKEN_EXPIRED" {
			_ = c.session.Logout()
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Code = body.Code
	}
	return apiErr
}
