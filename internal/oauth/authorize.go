package oauth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/nordsell/fortnox-slack-bot/internal/logger"
)

// authorizeTimeout bounds how long the flow waits for the operator to
// approve the integration in the browser.
const authorizeTimeout = 5 * time.Minute

// callbackResult carries what the authorization redirect delivered
type callbackResult struct {
	code  string
	state string
	err   error
}

// Authorize runs the one-time interactive authorization-code flow:
// start a local callback listener, hand the operator an authorization
// URL, wait for the redirect, verify the anti-forgery state, exchange
// the code and persist the resulting token pair.
//
// notify receives the authorization URL for presentation to the
// operator; pass nil to just log it.
func (m *Manager) Authorize(ctx context.Context, notify func(authURL string)) (*TokenResponse, error) {
	creds, err := m.store.Load()
	if err != nil {
		return nil, fmt.Errorf("unable to load credentials: %w", err)
	}
	if creds.FortnoxClientID == "" || creds.FortnoxClientSecret == "" {
		return nil, fmt.Errorf("client id or client secret missing from credentials")
	}

	state := uuid.NewString()
	authURL := m.buildAuthorizeURL(creds.FortnoxClientID, state)

	results := make(chan callbackResult, 1)
	server, err := m.startCallbackListener(results)
	if err != nil {
		return nil, err
	}
	defer server.Close()

	if notify != nil {
		notify(authURL)
	} else {
		logger.Get().Info().Str("url", authURL).Msg("Open the authorization URL in a browser")
	}

	var result callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authorizeTimeout):
		return nil, fmt.Errorf("timed out waiting for the authorization callback")
	case result = <-results:
	}

	return m.completeAuthorization(ctx, state, result)
}

// completeAuthorization verifies the callback against the generated
// state and performs the code exchange. On a state mismatch the code is
// never sent anywhere.
func (m *Manager) completeAuthorization(ctx context.Context, expectedState string, result callbackResult) (*TokenResponse, error) {
	if result.err != nil {
		return nil, result.err
	}
	if result.state != expectedState {
		return nil, &CsrfError{}
	}

	creds, err := m.store.Load()
	if err != nil {
		return nil, fmt.Errorf("unable to load credentials: %w", err)
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", result.code)
	form.Set("redirect_uri", m.redirectURI)

	tokens, err := m.exchange(ctx, creds, form)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	if tokens.RefreshToken == "" {
		return nil, fmt.Errorf("token response is missing refresh_token")
	}

	if err := m.store.SaveTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to persist tokens: %w", err)
	}

	logger.Get().Info().Int("expires_in", tokens.ExpiresIn).Msg("Authorization complete, tokens stored")
	return tokens, nil
}

// buildAuthorizeURL constructs the authorization URL the operator has to
// approve. access_type=offline requests a refresh token and
// account_type=service binds the grant to a system user.
func (m *Manager) buildAuthorizeURL(clientID, state string) string {
	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("redirect_uri", m.redirectURI)
	params.Set("scope", Scopes)
	params.Set("state", state)
	params.Set("access_type", "offline")
	params.Set("account_type", "service")
	params.Set("response_type", "code")

	return m.authorizeURL + "?" + params.Encode()
}

// startCallbackListener serves the OAuth redirect endpoint on the local
// callback address and delivers the first callback to results.
func (m *Manager) startCallbackListener(results chan<- callbackResult) (*http.Server, error) {
	listener, err := net.Listen("tcp", m.listenAddr)
	if err != nil {
		return nil, fmt.Errorf("could not listen on %s for the OAuth callback: %w", m.listenAddr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if errCode := query.Get("error"); errCode != "" {
			http.Error(w, "Authorization failed. You can close this window.", http.StatusBadRequest)
			select {
			case results <- callbackResult{err: fmt.Errorf("authorization denied: %s: %s", errCode, query.Get("error_description"))}:
			default:
			}
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Authorization received</h1><p>You can close this window and return to the terminal.</p></body></html>")

		select {
		case results <- callbackResult{code: query.Get("code"), state: query.Get("state")}:
		default:
		}
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Get().Error().Err(err).Msg("OAuth callback listener failed")
		}
	}()

	return server, nil
}
