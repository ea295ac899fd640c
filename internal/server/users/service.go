// Package users contains the account business logic: registration, login,
// bearer-token resolution, and self-service profile, password, and avatar
// updates. The HTTP layer calls into Service and maps the returned sentinel
// errors onto status codes.
package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/saedev/sae-auth/internal/cryptox"
	"github.com/saedev/sae-auth/internal/server/auth"
	"github.com/saedev/sae-auth/internal/server/config"
	"github.com/saedev/sae-auth/internal/shared"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 50
	passwordMinLength = 6
)

// LoginResult bundles the issued access token with the user summary
// returned by a successful login.
type LoginResult struct {
	AccessToken string
	User        *Summary
}

type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

func validateUsername(username string) error {
	if len(username) < usernameMinLength || len(username) > usernameMaxLength {
		return fmt.Errorf("%w: username must be between %d and %d characters",
			shared.ErrorValidation, usernameMinLength, usernameMaxLength)
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	// reject addresses with display names ("A <a@b.c>") as well
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address", shared.ErrorValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < passwordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters",
			shared.ErrorValidation, passwordMinLength)
	}
	return nil
}

// Register creates a new account. Email and username are checked for
// conflicts before the insert; the unique indexes at the store settle any
// concurrent race the checks miss.
func (s *Service) Register(ctx context.Context, username, email, password string) (*PublicUser, error) {

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, shared.ErrorEmailTaken
	} else if !errors.Is(err, shared.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %w", shared.ErrorInternal, err)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, shared.ErrorUsernameTaken
	} else if !errors.Is(err, shared.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %w", shared.ErrorInternal, err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrorInternal, err)
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		// lost the insert race: surface the same conflict as the checks
		if errors.Is(err, shared.ErrorEmailTaken) || errors.Is(err, shared.ErrorUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrorInternal, err)
	}

	return created.PublicView(), nil
}

// Login verifies the credentials and issues an access token. An unknown
// email and a wrong password return the same error, so responses do not
// reveal which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil, shared.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrorInternal, err)
	}

	if !cryptox.CheckPassword(password, user.PasswordHash) {
		return nil, shared.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrorInternal, err)
	}

	return &LoginResult{AccessToken: token, User: user.LoginSummary()}, nil
}

// CurrentUser resolves a bearer token to the stored user record. It is the
// single authorization gate for every protected operation and performs
// exactly one store lookup. Missing, malformed, or expired tokens and
// tokens whose subject no longer exists all fail as unauthenticated; the
// token-expiry cause stays matchable via errors.Is.
func (s *Service) CurrentUser(ctx context.Context, tokenString string) (*User, error) {

	if tokenString == "" {
		return nil, shared.ErrorUnauthenticated
	}

	userID, err := auth.GetUserIDFromToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrorUnauthenticated, err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil, shared.ErrorUnauthenticated
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrorInternal, err)
	}

	return user, nil
}

// UpdateProfile applies the supplied username/email changes after
// re-checking uniqueness against all other users. Supplying neither field
// is a successful no-op that leaves updated_at untouched.
func (s *Service) UpdateProfile(ctx context.Context, user *User, username, email *string) (*PublicUser, error) {

	fields := map[string]any{}

	if username != nil {
		if err := validateUsername(*username); err != nil {
			return nil, err
		}
		other, err := s.repo.GetByUsername(ctx, *username)
		if err == nil && other.ID != user.ID {
			return nil, shared.ErrorUsernameTaken
		}
		if err != nil && !errors.Is(err, shared.ErrorNotFound) {
			return nil, fmt.Errorf("%w: %w", shared.ErrorInternal, err)
		}
		fields["username"] = *username
	}

	if email != nil {
		if err := validateEmail(*email); err != nil {
			return nil, err
		}
		other, err := s.repo.GetByEmail(ctx, *email)
		if err == nil && other.ID != user.ID {
			return nil, shared.ErrorEmailTaken
		}
		if err != nil && !errors.Is(err, shared.ErrorNotFound) {
			return nil, fmt.Errorf("%w: %w", shared.ErrorInternal, err)
		}
		fields["email"] = *email
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		if err := s.repo.UpdateFields(ctx, user.ID, fields); err != nil {
			if errors.Is(err, shared.ErrorEmailTaken) || errors.Is(err, shared.ErrorUsernameTaken) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", shared.ErrorInternal, err)
		}
	}

	updated, err := s.repo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrorInternal, err)
	}

	return updated.PublicView(), nil
}

// UpdatePassword replaces the stored password hash after verifying the
// current password.
func (s *Service) UpdatePassword(ctx context.Context, user *User, currentPassword, newPassword string) error {

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	if !cryptox.CheckPassword(currentPassword, user.PasswordHash) {
		return shared.ErrorIncorrectPassword
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrorInternal, err)
	}

	fields := map[string]any{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}
	if err := s.repo.UpdateFields(ctx, user.ID, fields); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrorInternal, err)
	}

	return nil
}

// UpdateAvatar overwrites the avatar. The payload is an opaque
// caller-supplied string (typically a base64 image); no size or format
// checks are applied.
func (s *Service) UpdateAvatar(ctx context.Context, user *User, avatar string) (string, error) {

	fields := map[string]any{
		"avatar":     avatar,
		"updated_at": time.Now().UTC(),
	}
	if err := s.repo.UpdateFields(ctx, user.ID, fields); err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrorInternal, err)
	}

	return avatar, nil
}
