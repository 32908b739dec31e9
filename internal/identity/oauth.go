package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/RuDeeVelops/ptIt-relo/internal/credential"
	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

// Keyring keys for the cached session.
const (
	tokenCredentialKey   = "oauth-token"
	accountCredentialKey = "oauth-account"
)

// signInTimeout bounds how long the loopback flow waits for the browser
// redirect before giving up.
const signInTimeout = 3 * time.Minute

// OAuthProvider signs the user in through an external OAuth2 provider
// using a local loopback redirect. The token and account profile are
// cached in the system keyring so restarts resume the session without
// a new browser round trip.
type OAuthProvider struct {
	*authState
	cfg     *oauth2.Config
	infoURL string
	openURL func(string) error
}

// NewOAuthProvider builds a provider from the app's OAuth configuration.
// openURL launches the user's browser at the consent page; pass nil to
// only print the URL (the caller decides how to surface it).
func NewOAuthProvider(cfg model.OAuthConfig, openURL func(string) error) *OAuthProvider {
	if openURL == nil {
		openURL = func(string) error { return nil }
	}
	return &OAuthProvider{
		authState: newAuthState(),
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: fmt.Sprintf("http://127.0.0.1:%d/callback", cfg.RedirectPort),
			Scopes:      cfg.Scopes,
		},
		infoURL: cfg.UserInfoURL,
		openURL: openURL,
	}
}

// Restore loads a cached session from the keyring, if any, and fires
// auth-change listeners with it. Call once at startup.
func (p *OAuthProvider) Restore() {
	raw, err := credential.Get(accountCredentialKey)
	if err != nil || raw == "" {
		return
	}
	var account Account
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		return
	}
	p.set(&account)
}

// SignIn runs the loopback OAuth2 flow: it opens the provider's consent
// page, waits for the redirect on the local port, exchanges the code, and
// fetches the account profile. A closed page or rejection surfaces as an
// AuthError; the caller stays on the sign-in screen.
func (p *OAuthProvider) SignIn(ctx context.Context) (*Account, error) {
	ctx, cancel := context.WithTimeout(ctx, signInTimeout)
	defer cancel()

	state, err := randomState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	code, err := p.waitForCode(ctx, state)
	if err != nil {
		return nil, &AuthError{Message: err.Error()}
	}

	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, &AuthError{Message: fmt.Sprintf("token exchange failed: %v", err)}
	}

	account, err := p.fetchAccount(ctx, token)
	if err != nil {
		return nil, &AuthError{Message: fmt.Sprintf("loading profile failed: %v", err)}
	}

	p.cacheSession(token, account)
	p.set(account)
	return account, nil
}

// SignOut clears the active session and the cached credentials.
func (p *OAuthProvider) SignOut() error {
	_ = credential.Delete(tokenCredentialKey)
	_ = credential.Delete(accountCredentialKey)
	p.set(nil)
	return nil
}

// waitForCode serves the loopback redirect endpoint and returns the
// authorization code for this flow's state parameter.
func (p *OAuthProvider) waitForCode(ctx context.Context, state string) (string, error) {
	ln, err := net.Listen("tcp", redirectAddr(p.cfg.RedirectURL))
	if err != nil {
		return "", fmt.Errorf("starting callback listener: %w", err)
	}
	defer ln.Close()

	type result struct {
		code string
		err  error
	}
	resultCh := make(chan result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			resultCh <- result{err: errors.New("state mismatch in callback")}
			return
		}
		if errMsg := q.Get("error"); errMsg != "" {
			fmt.Fprintln(w, "Sign-in was cancelled. You can close this window.")
			resultCh <- result{err: fmt.Errorf("provider rejected sign-in: %s", errMsg)}
			return
		}
		fmt.Fprintln(w, "Signed in. You can close this window and return to the terminal.")
		resultCh <- result{code: q.Get("code")}
	})

	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	defer srv.Close()

	authURL := p.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	if err := p.openURL(authURL); err != nil {
		return "", fmt.Errorf("opening browser: %w", err)
	}

	select {
	case <-ctx.Done():
		return "", errors.New("sign-in window closed or timed out")
	case res := <-resultCh:
		return res.code, res.err
	}
}

// fetchAccount loads the signed-in user's profile from the provider.
func (p *OAuthProvider) fetchAccount(ctx context.Context, token *oauth2.Token) (*Account, error) {
	client := p.cfg.Client(ctx, token)
	resp, err := client.Get(p.infoURL)
	if err != nil {
		return nil, fmt.Errorf("fetching user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info endpoint returned %d", resp.StatusCode)
	}

	// Accept both "sub" (OIDC) and "id" style profiles.
	var profile struct {
		Sub   string `json:"sub"`
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding user info: %w", err)
	}

	id := profile.Sub
	if id == "" {
		id = profile.ID
	}
	if id == "" {
		return nil, errors.New("provider returned no stable identifier")
	}

	return &Account{ID: id, Email: profile.Email, Name: profile.Name}, nil
}

// cacheSession stores the token and account in the keyring. Failures are
// ignored: worst case the user signs in again next launch.
func (p *OAuthProvider) cacheSession(token *oauth2.Token, account *Account) {
	if raw, err := json.Marshal(token); err == nil {
		_ = credential.Set(tokenCredentialKey, string(raw))
	}
	if raw, err := json.Marshal(account); err == nil {
		_ = credential.Set(accountCredentialKey, string(raw))
	}
}

// redirectAddr extracts host:port from the configured redirect URL.
func redirectAddr(redirectURL string) string {
	// RedirectURL is always built as http://127.0.0.1:<port>/callback.
	var port int
	fmt.Sscanf(redirectURL, "http://127.0.0.1:%d/callback", &port)
	return fmt.Sprintf("127.0.0.1:%d", port)
}

// randomState returns a hex-encoded random state parameter.
func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
