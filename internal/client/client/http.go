package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophstorage/internal/client/models"
	"github.com/dmitrijs2005/gophstorage/internal/logging"
	"golang.org/x/oauth2"
)

const maxErrorBody = 64 << 10

// HTTPClient talks to the storage backend's REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client. It is copied, never mutated.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			cp := *hc
			c.http = &cp
		}
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewHTTPClient builds a client for the API rooted at baseURL,
// e.g. "http://localhost:8080/api/v1".
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be an absolute http(s) URL", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http.Transport = &requestIDTransport{base: baseTransport(c.http.Transport), logger: c.logger}
	return c, nil
}

// Authorized returns a copy of c that sends "Authorization: Bearer <token>"
// with every request, asking ts for the token each time. If ts fails the
// request is not sent and the error is returned.
func (c *HTTPClient) Authorized(ts oauth2.TokenSource) *HTTPClient {
	hc := *c.http
	hc.Transport = &oauth2.Transport{Source: ts, Base: c.http.Transport}
	return &HTTPClient{baseURL: c.baseURL, http: &hc, logger: c.logger}
}

// BaseURL returns the API root this client was built for.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

type registerRequest struct {
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
	UserPassword string `json:"user_password"`
}

type loginRequest struct {
	UserEmail    string `json:"user_email"`
	UserPassword string `json:"user_password"`
}

func (c *HTTPClient) Register(ctx context.Context, name, email string, password []byte) (*models.User, error) {
	var resp struct {
		Message *models.User `json:"message"`
		User    *models.User `json:"user"`
	}

	req := registerRequest{UserName: name, UserEmail: email, UserPassword: string(password)}
	if err := c.doJSON(ctx, http.MethodPost, "/user/register", req, &resp); err != nil {
		return nil, err
	}

	switch {
	case resp.Message != nil:
		return resp.Message, nil
	case resp.User != nil:
		return resp.User, nil
	default:
		return &models.User{UserName: name, UserEmail: email}, nil
	}
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (string, *models.User, error) {
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}

	req := loginRequest{UserEmail: email, UserPassword: string(password)}
	if err := c.doJSON(ctx, http.MethodPost, "/user/login", req, &resp); err != nil {
		return "", nil, err
	}
	if resp.Token == "" {
		return "", nil, errors.New("login response carries no token")
	}

	return resp.Token, &resp.User, nil
}

func (c *HTTPClient) ListFiles(ctx context.Context) ([]models.StorageFile, error) {
	var resp struct {
		Success bool                 `json:"success"`
		Message string               `json:"message"`
		Data    []models.StorageFile `json:"data"`
		Count   int                  `json:"count"`
	}

	if err := c.doJSON(ctx, http.MethodGet, "/storage/files", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []models.StorageFile{}, nil
	}
	return resp.Data, nil
}

func (c *HTTPClient) UploadFile(ctx context.Context, file models.LocalFile, description string) (*models.UploadResult, error) {
	body, contentType, err := multipartBody(file, description)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/storage/upload", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	// The backend has answered both with an envelope and with a flat record.
	var resp struct {
		Success *bool                `json:"success"`
		Error   string               `json:"error"`
		Data    *models.UploadResult `json:"data"`
		models.UploadResult
	}
	status, err := c.exchange(req, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, &APIError{Status: status, Message: orDefault(resp.Error, "Failed to upload file")}
	}
	if resp.Data != nil {
		return resp.Data, nil
	}
	return &resp.UploadResult, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id string) error {
	var resp struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}

	req, err := c.newRequest(ctx, http.MethodDelete, "/storage/files/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	status, err := c.exchange(req, &resp)
	if err != nil {
		return err
	}
	if resp.Success != nil && !*resp.Success {
		return &APIError{Status: status, Message: orDefault(resp.Error, "Failed to delete file")}
	}
	return nil
}

func (c *HTTPClient) DownloadFile(ctx context.Context, id string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/storage/files/"+url.PathEscape(id)+"/download", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read download body: %w", err)
	}
	return data, nil
}

func (c *HTTPClient) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var resp struct {
		Success bool             `json:"success"`
		Message string           `json:"message"`
		Error   string           `json:"error"`
		Data    models.Dashboard `json:"data"`
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/storage/dashboard", nil)
	if err != nil {
		return nil, err
	}
	status, err := c.exchange(req, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: status, Message: orDefault(resp.Error, "Failed to fetch dashboard data")}
	}
	return &resp.Data, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// doJSON sends payload (if any) as JSON and decodes the answer into out.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	_, err = c.exchange(req, out)
	return err
}

// exchange sends req and decodes a JSON body into out. An empty body is fine.
func (c *HTTPClient) exchange(req *http.Request, out any) (int, error) {
	resp, err := c.send(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// send performs req and turns transport failures and non-2xx answers into
// errors. On success the caller owns resp.Body.
func (c *HTTPClient) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.mapTransportError(req.Context(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		apiErr := decodeAPIError(resp)
		c.logger.Warn(req.Context(), "api error",
			"method", req.Method, "path", req.URL.Path, "status", apiErr.Status, "error", apiErr.Message)
		return nil, apiErr
	}

	return resp, nil
}

func (c *HTTPClient) mapTransportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return ErrNotAuthenticated
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, Message: statusMessage(resp.StatusCode)}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(b) == 0 {
		return apiErr
	}

	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

func multipartBody(file models.LocalFile, description string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	h.Set("Content-Type", orDefault(file.ContentType, "application/octet-stream"))

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}

	if description != "" {
		if err := w.WriteField("description", description); err != nil {
			return nil, "", fmt.Errorf("write description: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
