package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/dmitrijs2005/tourgo/internal/netx"
	"github.com/dmitrijs2005/tourgo/internal/server/auth"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// HTTPClient is the Client implementation over the JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu        sync.Mutex
	publicKey string
	token     string
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *HTTPClient) call(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: unexpected response (status %d)", ErrUnavailable, resp.StatusCode)
	}

	switch env.Code {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrUnauthorized, env.Message)
	default:
		return &APIError{Code: env.Code, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// encrypt seals secret under the server public key, fetching it on first use.
func (c *HTTPClient) encrypt(ctx context.Context, secret []byte) (string, error) {
	c.mu.Lock()
	pem := c.publicKey
	c.mu.Unlock()

	if pem == "" {
		var out struct {
			PublicKey string `json:"publicKey"`
		}
		if err := c.call(ctx, http.MethodGet, "/api/users/public-key", nil, &out); err != nil {
			return "", err
		}
		pem = out.PublicKey

		c.mu.Lock()
		c.publicKey = pem
		c.mu.Unlock()
	}

	return auth.EncryptWithPublicKey(pem, secret)
}

func (c *HTTPClient) Register(ctx context.Context, username, name string, password, certify []byte) error {
	pw, err := c.encrypt(ctx, password)
	if err != nil {
		return err
	}
	cert, err := c.encrypt(ctx, certify)
	if err != nil {
		return err
	}

	return c.call(ctx, http.MethodPost, "/api/users/register", map[string]string{
		"username":          username,
		"name":              name,
		"password":          pw,
		"certifyCharacters": cert,
	}, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) error {
	pw, err := c.encrypt(ctx, password)
	if err != nil {
		return err
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/users/login", map[string]string{
		"username": username,
		"password": pw,
	}, &out); err != nil {
		return err
	}

	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return nil
}

func (c *HTTPClient) Logout() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

func (c *HTTPClient) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != ""
}

func (c *HTTPClient) requireSession() error {
	if !c.LoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*Profile, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var p Profile
	if err := c.call(ctx, http.MethodGet, "/api/users/get-user-info", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Follow(ctx context.Context, username string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	return c.call(ctx, http.MethodPost, "/api/follows/add-follow", map[string]string{"followName": username}, nil)
}

func (c *HTTPClient) Unfollow(ctx context.Context, username string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	return c.call(ctx, http.MethodPost, "/api/follows/remove-follow", map[string]string{"removeName": username}, nil)
}

func (c *HTTPClient) Inbox(ctx context.Context) (*InboxSummary, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var in InboxSummary
	if err := c.call(ctx, http.MethodGet, "/api/messages/get-unread-messages", nil, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (c *HTTPClient) Like(ctx context.Context, articleID string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	return c.call(ctx, http.MethodPost, "/api/likes/add-like", map[string]string{"article_id": articleID}, nil)
}

// UploadAvatar pushes the image at path to object storage through a presigned
// URL and records the resulting key as the profile avatar.
func (c *HTTPClient) UploadAvatar(ctx context.Context, path string) (string, error) {
	if err := c.requireSession(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	var up struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/media/upload-url", map[string]string{"kind": "avatar"}, &up); err != nil {
		return "", err
	}

	if err := netx.PutPresigned(ctx, c.http, up.URL, data); err != nil {
		return "", err
	}

	if err := c.call(ctx, http.MethodPost, "/api/users/set-avatar", map[string]string{"key": up.Key}, nil); err != nil {
		return "", err
	}
	return up.Key, nil
}
