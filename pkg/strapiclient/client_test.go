package strapiclient_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/fivetwenty-io/strapi-go/internal/auth"
	"github.com/fivetwenty-io/strapi-go/internal/logging"
	"github.com/fivetwenty-io/strapi-go/pkg/strapi"
	"github.com/fivetwenty-io/strapi-go/pkg/strapiclient"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config *strapi.Config
		err    error
	}{
		{name: "nil config", config: nil, err: strapi.ErrConfigRequired},
		{name: "empty url", config: &strapi.Config{}, err: strapi.ErrURLRequired},
		{
			name:   "unknown session store",
			config: &strapi.Config{URL: "cms.test", SessionStore: "redis"},
			err:    strapiclient.ErrUnknownSessionStore,
		},
		{
			name:   "nats without url",
			config: &strapi.Config{URL: "cms.test", SessionStore: strapi.SessionStoreNATS},
			err:    auth.ErrNATSURLRequired,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := strapiclient.New(context.Background(), tt.config)
			require.ErrorIs(t, err, tt.err)
			assert.Nil(t, client)
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"cms.example.com/api", "https://cms.example.com/api"},
		{"https://cms.example.com/api/", "https://cms.example.com/api"},
		{"http://localhost:1337/api//", "http://localhost:1337/api"},
		{" https://cms.example.com ", "https://cms.example.com"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, strapiclient.NormalizeURL(tt.input))
		})
	}
}

func TestNew_QueriesServer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/articles", request.URL.Path)
		assert.Equal(t, "fields[0]=title&filters[slug][$eq]=hello-world", request.URL.RawQuery)
		assert.Equal(t, "Bearer api-token", request.Header.Get("Authorization"))

		_, _ = writer.Write([]byte(`{
			"data": [{"id": 1, "attributes": {"title": "Hello"}}],
			"meta": {"pagination": {"page": 1, "pageSize": 25, "pageCount": 1, "total": 1}}
		}`))
	}))
	defer server.Close()

	client, err := strapiclient.NewWithToken(context.Background(), server.URL+"/api/", "api-token")
	require.NoError(t, err)

	defer client.Close()

	assert.Equal(t, server.URL+"/api", client.APIURL())

	resp := client.From("articles").Select("title").EqualTo("slug", "hello-world").Get(context.Background())
	require.Nil(t, resp.Error)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Hello", resp.Data[0]["title"])
	assert.Equal(t, 1, resp.Meta.Pagination.Total)
}

func TestNew_ConnectionFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	target := server.URL + "/api"
	server.Close()

	client, err := strapiclient.New(context.Background(), &strapi.Config{
		URL:          target,
		RetryMax:     1,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
	})
	require.NoError(t, err)

	resp := client.From("articles").Select().Get(context.Background())
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ECONNREFUSED", resp.Error.Code)
	assert.Equal(t, "the given url "+target+" is incorrect or invalid", resp.Error.Message)
}

func TestNew_PersistsSessionInFile(t *testing.T) {
	t.Parallel()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  3,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/auth/local":
			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "ada@example.com", body["identifier"])

			_ = json.NewEncoder(writer).Encode(map[string]any{
				"jwt":  token,
				"user": map[string]any{"id": 3, "username": "ada", "email": "ada@example.com"},
			})
		case "/api/users/me":
			if request.Header.Get("Authorization") != "Bearer "+token {
				writer.WriteHeader(http.StatusUnauthorized)

				return
			}

			_, _ = writer.Write([]byte(`{"id":3,"username":"ada"}`))
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	config := &strapi.Config{
		URL:            server.URL + "/api",
		PersistSession: true,
		SessionStore:   strapi.SessionStoreFile,
		SessionFile:    filepath.Join(t.TempDir(), "credentials.yml"),
	}

	first, err := strapiclient.New(context.Background(), config)
	require.NoError(t, err)
	assert.Empty(t, first.Token())

	signIn := first.Auth().SignIn(context.Background(), strapi.SignInCredentials{Email: "ada@example.com", Password: "pw"})
	require.Nil(t, signIn.Error)

	second, err := strapiclient.New(context.Background(), config)
	require.NoError(t, err)
	assert.Equal(t, token, second.Token())
	require.NotNil(t, second.Auth().User())
	assert.Equal(t, "ada", second.Auth().User().Username)

	me := second.Auth().GetMe(context.Background())
	require.Nil(t, me.Error)
	assert.Equal(t, int64(3), me.Data.ID)

	require.NoError(t, second.Auth().SignOut(context.Background()))

	third, err := strapiclient.New(context.Background(), config)
	require.NoError(t, err)
	assert.Empty(t, third.Token())
}

// TestNew_InitializesProcessLogger runs sequentially so it is the first call
// to initialize the process logger in this package.
func TestNew_InitializesProcessLogger(t *testing.T) {
	ctx := context.Background()

	client, err := strapiclient.New(ctx, &strapi.Config{URL: "http://cms.test/api", Debug: true})
	require.NoError(t, err)

	assert.IsType(t, &logging.Adapter{}, client.Logger())
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelDebug))
	assert.Same(t, logging.Get(), slog.Default())

	_, err = strapiclient.New(ctx, &strapi.Config{URL: "http://cms.test/api"})
	require.NoError(t, err)

	assert.True(t, logging.Get().Enabled(ctx, slog.LevelDebug))
}
