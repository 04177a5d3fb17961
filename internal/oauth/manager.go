package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nordsell/fortnox-slack-bot/internal/credentials"
	"github.com/nordsell/fortnox-slack-bot/internal/fortnox"
	serverhttp "github.com/nordsell/fortnox-slack-bot/internal/http"
	"github.com/nordsell/fortnox-slack-bot/internal/logger"
)

// Fortnox OAuth endpoints and the scopes the bot needs. account_type=service
// selects a service credential bound to a system user instead of a person.
const (
	DefaultAuthorizeURL = "https://apps.fortnox.se/oauth-v1/auth"
	DefaultTokenURL     = "https://apps.fortnox.se/oauth-v1/token"
	DefaultRedirectURI  = "http://localhost:33140/callback"
	DefaultListenAddr   = "localhost:33140"

	Scopes = "companyinformation article warehouse warehousecustomdocument"
)

// ErrReauthorizationRequired indicates the refresh token was rejected by
// Fortnox. There is no automatic fallback; an operator has to re-run the
// interactive authorize flow.
var ErrReauthorizationRequired = errors.New("refresh token rejected, re-run the authorize flow")

// CsrfError indicates the state returned on the authorization callback
// did not match the one generated for the flow. The code is discarded
// and no token exchange is attempted.
type CsrfError struct{}

func (e *CsrfError) Error() string {
	return "oauth: authorization state mismatch, aborting without exchanging the code"
}

// TokenResponse is the token endpoint's reply for both grant types
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// Manager drives the Fortnox token lifecycle: the one-time interactive
// authorization-code exchange and the periodic refresh exchange. Both
// persist the resulting access/refresh pair through the credential store,
// and a failed exchange never touches the stored pair.
type Manager struct {
	httpClient serverhttp.HTTPClient
	store      credentials.Store

	authorizeURL string
	tokenURL     string
	redirectURI  string
	listenAddr   string
}

// NewManager creates a token lifecycle manager backed by the given
// credential store.
func NewManager(store credentials.Store) *Manager {
	return &Manager{
		httpClient:   serverhttp.NewHTTPClient(),
		store:        store,
		authorizeURL: DefaultAuthorizeURL,
		tokenURL:     DefaultTokenURL,
		redirectURI:  DefaultRedirectURI,
		listenAddr:   DefaultListenAddr,
	}
}

// Refresh exchanges the stored refresh token for a new access/refresh
// pair and persists both together. A rejected refresh token surfaces as
// ErrReauthorizationRequired and leaves the stored pair untouched.
func (m *Manager) Refresh(ctx context.Context) (*TokenResponse, error) {
	creds, err := m.store.Load()
	if err != nil {
		return nil, fmt.Errorf("unable to load credentials: %w", err)
	}

	if creds.FortnoxRefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token stored", ErrReauthorizationRequired)
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", creds.FortnoxRefreshToken)

	tokens, err := m.exchange(ctx, creds, form)
	if err != nil {
		// An expired or revoked refresh token comes back as a 4xx from
		// the token endpoint. That needs an operator, not a retry.
		var remoteErr *fortnox.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.Status >= 400 && remoteErr.Status < 500 {
			return nil, fmt.Errorf("%w: status %d: %s", ErrReauthorizationRequired, remoteErr.Status, remoteErr.Body)
		}
		return nil, err
	}

	// Fortnox rotates the refresh token on every exchange; fall back to
	// the current one if the response omits it so the pair stays complete.
	newRefresh := tokens.RefreshToken
	if newRefresh == "" {
		newRefresh = creds.FortnoxRefreshToken
	}

	if err := m.store.SaveTokens(tokens.AccessToken, newRefresh); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed tokens: %w", err)
	}

	logger.Get().Info().Int("expires_in", tokens.ExpiresIn).Msg("Refreshed Fortnox access token")
	return tokens, nil
}

// exchange POSTs a grant to the token endpoint with HTTP basic auth and
// maps failures onto the error taxonomy.
func (m *Manager) exchange(ctx context.Context, creds *credentials.Credentials, form url.Values) (*TokenResponse, error) {
	if creds.FortnoxClientID == "" || creds.FortnoxClientSecret == "" {
		return nil, fmt.Errorf("client id or client secret missing from credentials")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("could not create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(creds.FortnoxClientID, creds.FortnoxClientSecret)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &fortnox.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &fortnox.TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &fortnox.RemoteError{Status: resp.StatusCode, Body: string(body)}
	}

	var tokens TokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("could not unmarshal token response: %w", err)
	}

	if tokens.AccessToken == "" {
		return nil, &fortnox.RemoteError{Status: resp.StatusCode, Body: "token response is missing access_token"}
	}

	return &tokens, nil
}
