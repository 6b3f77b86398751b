package strapi

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/strapi-go/internal/auth"
	"github.com/fivetwenty-io/strapi-go/internal/constants"
)

// Logger is the logging interface used throughout the client.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request is what the client hands to a Transport. URL is absolute.
type Request struct {
	Method  string
	URL     string
	Body    any
	Headers map[string]string
}

// Response is a completed HTTP exchange.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
}

// Transport performs HTTP requests. For a non-2xx status it returns the
// response together with an *HTTPError; when no response was received it
// returns the underlying network error.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// CredentialStore persists the signed-in session blob. Get returns
// ErrSessionNotFound for a missing key.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SessionStoreType selects the credential store backend.
type SessionStoreType string

// Credential store backends.
const (
	SessionStoreMemory SessionStoreType = "memory"
	SessionStoreFile   SessionStoreType = "file"
	SessionStoreNATS   SessionStoreType = "nats"
)

// Config configures a Client.
type Config struct {
	// URL is the API root, e.g. https://cms.example.com/api
	URL string

	// APIToken is sent as a bearer token until SetToken or a sign-in replaces it
	APIToken string

	// DisableNormalize returns payloads with their data/attributes envelopes intact
	DisableNormalize bool

	// Debug logs every read URL
	Debug bool

	// PersistSession saves signed-in sessions in the credential store
	PersistSession bool

	// Concurrency caps the parallel requests of bulk operations
	Concurrency int

	Logger          Logger
	Transport       Transport
	CredentialStore CredentialStore

	// Transport tuning, applied by strapiclient.New
	HTTPTimeout  time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	UserAgent    string

	// Credential store selection, applied by strapiclient.New
	SessionStore SessionStoreType
	SessionFile  string
	NATSURL      string
	NATSBucket   string
}

// Client is the entry point for collection queries and authentication.
type Client struct {
	url         string
	transport   Transport
	logger      Logger
	normalize   bool
	debug       bool
	concurrency int

	mutex sync.RWMutex
	token string

	auth *AuthClient
}

// NewClient creates a client from config. Transport is required; see
// strapiclient.New for a client with the default HTTP transport.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}

	if config.URL == "" {
		return nil, ErrURLRequired
	}

	if config.Transport == nil {
		return nil, ErrTransportRequired
	}

	logger := config.Logger
	if logger == nil {
		logger = &noopLogger{}
	}

	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	store := config.CredentialStore
	if store == nil {
		store = auth.NewMemoryStore()
	}

	client := &Client{
		url:         strings.TrimSuffix(config.URL, "/"),
		transport:   config.Transport,
		logger:      logger,
		normalize:   !config.DisableNormalize,
		debug:       config.Debug,
		concurrency: concurrency,
		token:       config.APIToken,
	}

	client.auth = &AuthClient{
		client:  client,
		store:   store,
		persist: config.PersistSession,
	}

	return client, nil
}

// From starts a query on collection with untyped entities.
func (c *Client) From(collection string) *QueryBuilder[map[string]any] {
	return From[map[string]any](c, collection)
}

// Auth returns the authentication client.
func (c *Client) Auth() *AuthClient {
	return c.auth
}

// APIURL returns the API root.
func (c *Client) APIURL() string {
	return c.url
}

// Logger returns the configured logger.
func (c *Client) Logger() Logger {
	return c.logger
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.token = token
}

// RemoveToken stops sending a bearer token.
func (c *Client) RemoveToken() {
	c.SetToken("")
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.token
}

// Close releases the credential store when it holds a connection.
func (c *Client) Close() {
	closer, ok := c.auth.store.(interface{ Close() })
	if ok {
		closer.Close()
	}
}

// NormalizeError maps err to an APIError naming this client's URL.
func (c *Client) NormalizeError(err error) *APIError {
	return NormalizeError(err, c.url)
}

func (c *Client) endpoint(path string) string {
	return c.url + "/" + strings.TrimPrefix(path, "/")
}

func (c *Client) do(ctx context.Context, method, url string, body any) ([]byte, error) {
	req := &Request{
		Method:  method,
		URL:     url,
		Body:    body,
		Headers: map[string]string{},
	}

	token := c.Token()
	if token != "" {
		req.Headers["Authorization"] = "Bearer " + token
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

type noopLogger struct{}

func (l *noopLogger) Debug(msg string, fields map[string]interface{}) {}
func (l *noopLogger) Info(msg string, fields map[string]interface{})  {}
func (l *noopLogger) Warn(msg string, fields map[string]interface{})  {}
func (l *noopLogger) Error(msg string, fields map[string]interface{}) {}
