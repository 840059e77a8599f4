// Package users manages user account documents. Credential handling is
// delegated entirely to the auth provider; this service owns the user
// document and the bootstrap of its default favourite sets.
package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aryarobyy/to-do-list-be/internal/apperr"
	"github.com/aryarobyy/to-do-list-be/internal/auth"
	"github.com/aryarobyy/to-do-list-be/internal/models"
	"github.com/aryarobyy/to-do-list-be/internal/store"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrMissingCredentials = errors.New("email and password are required")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const usersCollection = "users"

// Favourite sets every new user starts with.
var defaultFavourites = []string{"Tomorrow", "Favourite"}

// Service coordinates the auth provider and the user documents.
type Service struct {
	st   store.Store
	auth auth.Provider
}

// NewService returns a user service over the given store and auth
// provider.
func NewService(st store.Store, provider auth.Provider) *Service {
	return &Service{st: st, auth: provider}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Username   string
	Image      string
	LastActive string
}

// UpdateInput carries a partial profile update. Id and email are
// immutable after registration and cannot appear here.
type UpdateInput struct {
	Name     *string
	Username *string
	Image    *string
}

func userPath(id string) string {
	return usersCollection + "/" + id
}

// Register creates the auth account, the user document and the default
// favourite sets, then returns the stored document and a fresh token.
// The three steps are not transactional: a failure after account
// creation leaves a partially-registered user to be reconciled later.
func (s *Service) Register(ctx context.Context, in RegisterInput) (map[string]any, string, error) {
	if in.Email == "" || in.Password == "" {
		return nil, "", ErrMissingCredentials
	}
	if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		return nil, "", ErrInvalidEmail
	}

	existing, err := s.st.Query(ctx, usersCollection, "email", "==", in.Email)
	if err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if len(existing) > 0 {
		return nil, "", ErrEmailExists
	}

	uid, err := s.auth.CreateAccount(ctx, in.Email, in.Password, in.Name)
	if err != nil {
		return nil, "", fmt.Errorf("create account: %w", err)
	}

	lastActive := in.LastActive
	if lastActive == "" {
		lastActive = time.Now().UTC().Format(time.RFC3339)
	}
	data := map[string]any{
		"id":         uid,
		"name":       in.Name,
		"username":   in.Username,
		"email":      in.Email,
		"image":      in.Image,
		"role":       int(models.RoleUser),
		"lastActive": lastActive,
		"createdAt":  store.ServerTimestamp,
	}
	if err := s.st.Set(ctx, userPath(uid), data, false); err != nil {
		return nil, "", fmt.Errorf("store user: %w", err)
	}

	for _, title := range defaultFavourites {
		fav := map[string]any{
			"noteId":    []string{},
			"createdAt": store.ServerTimestamp,
			"updatedAt": store.ServerTimestamp,
		}
		if err := s.st.Set(ctx, userPath(uid)+"/favourite/"+title, fav, false); err != nil {
			return nil, "", fmt.Errorf("store default favourite %q: %w", title, err)
		}
	}

	token, err := s.auth.IssueToken(ctx, uid)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	stored, err := s.st.Get(ctx, userPath(uid))
	if err != nil {
		return nil, "", fmt.Errorf("read back user: %w", err)
	}
	return stored, token, nil
}

// Login verifies the credentials against the auth provider and returns
// the user document plus the session token.
func (s *Service) Login(ctx context.Context, email, password string) (map[string]any, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return nil, "", ErrInvalidEmail
	}

	uid, token, err := s.auth.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, "", fmt.Errorf("verify credentials: %w", err)
	}

	doc, err := s.st.Get(ctx, userPath(uid))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", fmt.Errorf("user %q: %w", uid, apperr.ErrUnknownOwner)
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}
	return doc, token, nil
}

// Update applies the fields present in the input to an existing user
// document and returns the updated state.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (map[string]any, error) {
	if _, err := s.st.Get(ctx, userPath(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user %q: %w", id, apperr.ErrUnknownOwner)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	data := map[string]any{}
	if in.Name != nil {
		data["name"] = *in.Name
	}
	if in.Username != nil {
		data["username"] = *in.Username
	}
	if in.Image != nil {
		data["image"] = *in.Image
	}
	if len(data) > 0 {
		if err := s.st.Update(ctx, userPath(id), data); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	stored, err := s.st.Get(ctx, userPath(id))
	if err != nil {
		return nil, fmt.Errorf("read back user: %w", err)
	}
	return stored, nil
}

// GetByID returns the user document for the id.
func (s *Service) GetByID(ctx context.Context, id string) (map[string]any, error) {
	doc, err := s.st.Get(ctx, userPath(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user %q: %w", id, apperr.ErrUnknownOwner)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return doc, nil
}

// GetByEmail returns the user documents matching the email.
func (s *Service) GetByEmail(ctx context.Context, email string) ([]map[string]any, error) {
	return s.queryBy(ctx, "email", email)
}

// GetByUsername returns the user documents matching the username.
func (s *Service) GetByUsername(ctx context.Context, username string) ([]map[string]any, error) {
	return s.queryBy(ctx, "username", username)
}

func (s *Service) queryBy(ctx context.Context, field, value string) ([]map[string]any, error) {
	docs, err := s.st.Query(ctx, usersCollection, field, "==", value)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("user with %s %q: %w", field, value, apperr.ErrUnknownOwner)
	}
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		d.Data["id"] = d.ID
		out = append(out, d.Data)
	}
	return out, nil
}

// Logout stamps lastActive with the store's server time and revokes the
// user's refresh tokens. The two steps are not transactional.
func (s *Service) Logout(ctx context.Context, id string) error {
	if err := s.st.Update(ctx, userPath(id), map[string]any{"lastActive": store.ServerTimestamp}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("user %q: %w", id, apperr.ErrUnknownOwner)
		}
		return fmt.Errorf("stamp lastActive: %w", err)
	}
	if err := s.auth.RevokeTokens(ctx, id); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	return nil
}
