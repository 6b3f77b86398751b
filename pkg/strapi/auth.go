package strapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fivetwenty-io/strapi-go/internal/auth"
	"github.com/fivetwenty-io/strapi-go/internal/constants"
)

// AuthClient signs users in and out through the users-permissions endpoints.
// A successful sign-in installs the JWT as the client's bearer token.
type AuthClient struct {
	client  *Client
	store   CredentialStore
	persist bool

	mutex   sync.RWMutex
	session *Session
}

// SignIn authenticates with email (or username) and password.
func (a *AuthClient) SignIn(ctx context.Context, credentials SignInCredentials) *APIResponse[AuthData] {
	return a.authenticate(ctx, constants.EndpointSignIn, credentials)
}

// SignUp registers a user and signs them in.
func (a *AuthClient) SignUp(ctx context.Context, credentials SignUpCredentials) *APIResponse[AuthData] {
	return a.authenticate(ctx, constants.EndpointSignUp, credentials)
}

func (a *AuthClient) authenticate(ctx context.Context, endpoint string, body any) *APIResponse[AuthData] {
	respBody, err := a.client.do(ctx, http.MethodPost, a.client.endpoint(endpoint), body)
	if err != nil {
		return errorResponse[AuthData](a.client.NormalizeError(err))
	}

	resp := decodeResponse[AuthData](respBody, decodeOptions{})
	if resp.Error != nil {
		return resp
	}

	a.saveSession(ctx, resp.Data)

	return resp
}

// GetMe returns the authenticated user.
func (a *AuthClient) GetMe(ctx context.Context) *APIResponse[User] {
	respBody, err := a.client.do(ctx, http.MethodGet, a.client.endpoint(constants.EndpointMe), nil)
	if err != nil {
		return errorResponse[User](a.client.NormalizeError(err))
	}

	return decodeResponse[User](respBody, decodeOptions{})
}

// SignOut forgets the session, removes it from the credential store and stops
// sending the bearer token.
func (a *AuthClient) SignOut(ctx context.Context) error {
	a.mutex.Lock()
	a.session = nil
	a.mutex.Unlock()

	a.client.RemoveToken()

	err := a.store.Remove(ctx, constants.StorageKey)
	if err != nil {
		return fmt.Errorf("removing session: %w", err)
	}

	return nil
}

// Session returns a copy of the current session, or nil.
func (a *AuthClient) Session() *Session {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	if a.session == nil {
		return nil
	}

	session := *a.session

	return &session
}

// User returns the signed-in user, or nil.
func (a *AuthClient) User() *User {
	session := a.Session()
	if session == nil {
		return nil
	}

	return session.User
}

// RestoreSession loads a persisted session and installs its token. It returns
// ErrNoSession when nothing is stored and ErrSessionExpired, after removing
// the stale entry, when the token has expired.
func (a *AuthClient) RestoreSession(ctx context.Context) (*Session, error) {
	blob, err := a.store.Get(ctx, constants.StorageKey)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrNoSession
	}

	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	var stored storedSession

	err = json.Unmarshal([]byte(blob), &stored)
	if err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}

	if stored.CurrentSession == nil || stored.CurrentSession.AccessToken == "" {
		return nil, ErrNoSession
	}

	if stored.ExpiresAt > 0 && auth.IsExpired(time.Unix(stored.ExpiresAt, 0), constants.TokenExpirationBuffer) {
		removeErr := a.store.Remove(ctx, constants.StorageKey)
		if removeErr != nil {
			a.client.logger.Warn("failed to remove expired session", map[string]interface{}{"error": removeErr.Error()})
		}

		return nil, ErrSessionExpired
	}

	a.mutex.Lock()
	a.session = stored.CurrentSession
	a.mutex.Unlock()

	a.client.SetToken(stored.CurrentSession.AccessToken)

	return a.Session(), nil
}

func (a *AuthClient) saveSession(ctx context.Context, data AuthData) {
	user := data.User
	session := &Session{AccessToken: data.JWT, User: &user}

	expiresAt, err := auth.TokenExpiry(data.JWT)
	if err == nil {
		session.ExpiresAt = expiresAt.Unix()
	} else {
		a.client.logger.Debug("token expiry unavailable", map[string]interface{}{"error": err.Error()})
	}

	a.mutex.Lock()
	a.session = session
	a.mutex.Unlock()

	a.client.SetToken(data.JWT)

	if !a.persist {
		return
	}

	blob, err := json.Marshal(storedSession{CurrentSession: session, ExpiresAt: session.ExpiresAt})
	if err != nil {
		a.client.logger.Warn("failed to encode session", map[string]interface{}{"error": err.Error()})

		return
	}

	err = a.store.Set(ctx, constants.StorageKey, string(blob))
	if err != nil {
		a.client.logger.Warn("failed to persist session", map[string]interface{}{"error": err.Error()})
	}
}
