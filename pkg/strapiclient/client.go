package strapiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/strapi-go/internal/auth"
	"github.com/fivetwenty-io/strapi-go/internal/constants"
	"github.com/fivetwenty-io/strapi-go/internal/http"
	"github.com/fivetwenty-io/strapi-go/internal/logging"
	"github.com/fivetwenty-io/strapi-go/pkg/strapi"
)

// ErrUnknownSessionStore is returned for an unsupported Config.SessionStore.
var ErrUnknownSessionStore = errors.New("unknown session store")

// New creates a client from config, filling in the transport, logger and
// credential store that are not set explicitly.
//
// Without a Logger, New initializes the process logger through logging.Init,
// at debug level when Debug is set. Init takes effect once per process, so a
// program that configures logging itself must call it before New.
func New(ctx context.Context, config *strapi.Config) (*strapi.Client, error) {
	if config == nil {
		return nil, strapi.ErrConfigRequired
	}

	if config.URL == "" {
		return nil, strapi.ErrURLRequired
	}

	resolved := *config
	resolved.URL = NormalizeURL(config.URL)

	if resolved.Logger == nil {
		logging.Init(logging.Config{Level: logLevel(resolved.Debug), Format: "text"})
		resolved.Logger = logging.New(nil)
	}

	if resolved.Transport == nil {
		resolved.Transport = newTransport(&resolved)
	}

	if resolved.CredentialStore == nil {
		store, err := newCredentialStore(&resolved)
		if err != nil {
			return nil, fmt.Errorf("creating credential store: %w", err)
		}

		resolved.CredentialStore = store
	}

	client, err := strapi.NewClient(&resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	if resolved.PersistSession && resolved.APIToken == "" {
		restoreSession(ctx, client)
	}

	return client, nil
}

// NewWithToken creates a client that sends token as bearer token.
func NewWithToken(ctx context.Context, url, token string) (*strapi.Client, error) {
	return New(ctx, &strapi.Config{
		URL:      url,
		APIToken: token,
	})
}

// NormalizeURL trims trailing slashes and defaults the scheme to https.
func NormalizeURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	return url
}

// logLevel is the level New initializes the process logger with when the
// caller has not done so already.
func logLevel(debug bool) string {
	if debug {
		return "DEBUG"
	}

	return "INFO"
}

func newTransport(config *strapi.Config) *http.Client {
	retryMax := constants.DefaultRetryMax
	if config.RetryMax > 0 {
		retryMax = config.RetryMax
	}

	waitMin := constants.DefaultRetryWaitMin
	if config.RetryWaitMin > 0 {
		waitMin = config.RetryWaitMin
	}

	waitMax := constants.DefaultRetryWaitMax
	if config.RetryWaitMax > 0 {
		waitMax = config.RetryWaitMax
	}

	opts := []http.Option{
		http.WithLogger(config.Logger),
		http.WithDebug(config.Debug),
		http.WithRetryConfig(retryMax, waitMin, waitMax),
		http.WithUserAgent(config.UserAgent),
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, http.WithTimeout(config.HTTPTimeout))
	}

	return http.NewClient(config.URL, opts...)
}

func newCredentialStore(config *strapi.Config) (strapi.CredentialStore, error) {
	switch config.SessionStore {
	case "", strapi.SessionStoreMemory:
		return auth.NewMemoryStore(), nil
	case strapi.SessionStoreFile:
		path := config.SessionFile
		if path == "" {
			defaultPath, err := auth.DefaultCredentialsPath()
			if err != nil {
				return nil, err
			}

			path = defaultPath
		}

		return auth.NewFileStore(path), nil
	case strapi.SessionStoreNATS:
		store, err := auth.NewNATSKVStore(&auth.NATSKVConfig{
			URL:    config.NATSURL,
			Bucket: config.NATSBucket,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}

		return store, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSessionStore, config.SessionStore)
	}
}

func restoreSession(ctx context.Context, client *strapi.Client) {
	_, err := client.Auth().RestoreSession(ctx)

	switch {
	case err == nil:
		client.Logger().Debug("restored session", nil)
	case errors.Is(err, strapi.ErrNoSession):
	case errors.Is(err, strapi.ErrSessionExpired):
		client.Logger().Info("stored session has expired", nil)
	default:
		client.Logger().Warn("failed to restore session", map[string]interface{}{"error": err.Error()})
	}
}
