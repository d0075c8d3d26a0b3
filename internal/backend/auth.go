package backend

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenSource caches a bearer token obtained by signing the backend's
// login challenge, re-logging-in shortly before the token expires.
type tokenSource struct {
	client *Client
	signer MessageSigner

	mu     sync.Mutex
	cached string
	expiry time.Time
}

// expirySlack re-issues the login this long before the token's exp claim.
const expirySlack = 30 * time.Second

func newTokenSource(c *Client, s MessageSigner) *tokenSource {
	return &tokenSource{client: c, signer: s}
}

func (t *tokenSource) token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cached != "" && time.Now().Before(t.expiry.Add(-expirySlack)) {
		return t.cached, nil
	}

	token, err := t.login(ctx)
	if err != nil {
		return "", err
	}
	t.cached = token
	t.expiry = tokenExpiry(token)
	return token, nil
}

func (t *tokenSource) login(ctx context.Context) (string, error) {
	addr := t.signer.Address()

	var challenge struct {
		Message string `json:"message"`
	}
	if err := t.client.get(ctx, "/auth/challenge", queryValues("address", addr), &challenge); err != nil {
		return "", fmt.Errorf("fetching login challenge: %w", err)
	}

	sig, err := t.signer.SignMessage([]byte(challenge.Message))
	if err != nil {
		return "", fmt.Errorf("signing login challenge: %w", err)
	}

	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{
		"address":   addr,
		"message":   challenge.Message,
		"signature": "0x" + hex.EncodeToString(sig),
	}
	if err := t.client.post(ctx, "/auth/login", body, &resp); err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return resp.Token, nil
}

// tokenExpiry reads the exp claim without verifying the signature — the
// backend verifies; the client only needs to know when to re-login. An
// unparsable token gets a short fixed lifetime.
func tokenExpiry(token string) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Now().Add(5 * time.Minute)
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Now().Add(5 * time.Minute)
	}
	return exp.Time
}
