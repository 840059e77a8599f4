package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	fbauth "firebase.google.com/go/v4/auth"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// ErrInvalidCredentials is returned when the provider rejects an
// email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Firebase implements Provider on top of the Firebase Admin SDK. Since
// the Admin SDK cannot verify passwords, VerifyCredentials goes through
// the Identity Toolkit REST endpoint with the project's web API key.
type Firebase struct {
	client *fbauth.Client
	apiKey string
	httpc  *http.Client
}

// NewFirebase wraps an initialized Firebase auth client.
func NewFirebase(client *fbauth.Client, apiKey string) *Firebase {
	return &Firebase{client: client, apiKey: apiKey, httpc: http.DefaultClient}
}

func (f *Firebase) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&fbauth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)
	rec, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return rec.UID, nil
}

func (f *Firebase) VerifyCredentials(ctx context.Context, email, password string) (string, string, error) {
	body, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return "", "", fmt.Errorf("marshal sign-in request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signInEndpoint+"?key="+f.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpc.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", ErrInvalidCredentials
	}

	var out struct {
		LocalID string `json:"localId"`
		IDToken string `json:"idToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("decode sign-in response: %w", err)
	}
	return out.LocalID, out.IDToken, nil
}

func (f *Firebase) IssueToken(ctx context.Context, uid string) (string, error) {
	token, err := f.client.CustomToken(ctx, uid)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (f *Firebase) VerifyToken(ctx context.Context, token string) (string, error) {
	decoded, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("verify token: %w", err)
	}
	return decoded.UID, nil
}

func (f *Firebase) RevokeTokens(ctx context.Context, uid string) error {
	if err := f.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	return nil
}
