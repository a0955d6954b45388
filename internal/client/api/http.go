package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

type httpClient struct {
	client *resty.Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

// NewHTTPClient constructs a REST implementation of Client against baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)

	return &httpClient{client: cli}
}

func (h *httpClient) setTokens(access, refresh string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.accessToken = access
	h.refreshToken = refresh
}

func (h *httpClient) tokens() (string, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.accessToken, h.refreshToken
}

// Logout drops both tokens. Subsequent authenticated calls fail with
// ErrUnauthorized until the next Login.
func (h *httpClient) Logout() {
	h.setTokens("", "")
}

func mapHTTPError(resp *resty.Response) error {
	switch {
	case resp.StatusCode() < 300:
		return nil
	case resp.StatusCode() == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode() == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("server returned %s: %s", resp.Status(), strings.TrimSpace(string(resp.Body())))
	}
}

func (h *httpClient) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password, "name": name}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/api/auth/register")
	if err != nil {
		return nil, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var result AuthResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("register decode: %w", err)
	}

	h.setTokens(result.AccessToken, result.RefreshToken)
	return &result, nil
}

func (h *httpClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/api/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var result AuthResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("login decode: %w", err)
	}

	h.setTokens(result.AccessToken, result.RefreshToken)
	return &result, nil
}

func (h *httpClient) refresh(ctx context.Context) error {
	_, refreshToken := h.tokens()
	if refreshToken == "" {
		return ErrUnauthorized
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		Post("/api/auth/refresh")
	if err != nil {
		return fmt.Errorf("refresh request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	var result AuthResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return fmt.Errorf("refresh decode: %w", err)
	}

	h.setTokens(result.AccessToken, result.RefreshToken)
	return nil
}

// authed performs an authenticated request. On the first 401 it refreshes
// the access token and retries once; a second 401 surfaces ErrUnauthorized.
func (h *httpClient) authed(ctx context.Context, do func(r *resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	access, _ := h.tokens()
	if access == "" {
		return nil, ErrUnauthorized
	}

	resp, err := do(h.client.R().SetContext(ctx).SetAuthToken(access))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		return resp, nil
	}

	if err := h.refresh(ctx); err != nil {
		return nil, err
	}
	access, _ = h.tokens()
	return do(h.client.R().SetContext(ctx).SetAuthToken(access))
}

func (h *httpClient) CreateCapsule(ctx context.Context, capsule *Capsule) (string, error) {
	resp, err := h.authed(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Content-Type", "application/json").
			SetBody(capsule).
			Post("/api/capsules")
	})
	if err != nil {
		return "", fmt.Errorf("create capsule request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("create capsule decode: %w", err)
	}
	return result.ID, nil
}

func (h *httpClient) ListCapsules(ctx context.Context) ([]*Capsule, error) {
	resp, err := h.authed(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/api/capsules")
	})
	if err != nil {
		return nil, fmt.Errorf("list capsules request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var result []*Capsule
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("list capsules decode: %w", err)
	}
	return result, nil
}

func (h *httpClient) GetCapsule(ctx context.Context, id string) (*Capsule, error) {
	resp, err := h.authed(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/api/capsules/" + id)
	})
	if err != nil {
		return nil, fmt.Errorf("get capsule request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var result Capsule
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("get capsule decode: %w", err)
	}
	return &result, nil
}

func (h *httpClient) UnlockCapsule(ctx context.Context, id string) error {
	resp, err := h.authed(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Post("/api/capsules/" + id + "/unlock")
	})
	if err != nil {
		return fmt.Errorf("unlock capsule request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpClient) CreateFileSlot(ctx context.Context, capsuleID string) (*FileSlot, error) {
	resp, err := h.authed(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Post("/api/capsules/" + capsuleID + "/files/slots")
	})
	if err != nil {
		return nil, fmt.Errorf("file slot request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var result FileSlot
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("file slot decode: %w", err)
	}
	return &result, nil
}

func (h *httpClient) CreateFile(ctx context.Context, file *File) (string, error) {
	resp, err := h.authed(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Content-Type", "application/json").
			SetBody(file).
			Post("/api/capsules/" + file.CapsuleID + "/files")
	})
	if err != nil {
		return "", fmt.Errorf("create file request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("create file decode: %w", err)
	}
	return result.ID, nil
}

func (h *httpClient) ListFiles(ctx context.Context, capsuleID string) ([]*File, error) {
	resp, err := h.authed(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/api/capsules/" + capsuleID + "/files")
	})
	if err != nil {
		return nil, fmt.Errorf("list files request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var result []*File
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("list files decode: %w", err)
	}
	return result, nil
}

// UploadBlob PUTs ciphertext to a presigned URL. The URL is absolute and
// already authorized, so no bearer token is attached.
func (h *httpClient) UploadBlob(ctx context.Context, url string, data []byte) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(data).
		Put(url)
	if err != nil {
		return fmt.Errorf("blob upload request: %w", err)
	}
	return mapHTTPError(resp)
}

// DownloadBlob GETs ciphertext from a presigned URL.
func (h *httpClient) DownloadBlob(ctx context.Context, url string) ([]byte, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("blob download request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}
