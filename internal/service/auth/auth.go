package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/mykafka"
	"github.com/Skotchmaster/foodhub/internal/repo"
	pkghash "github.com/Skotchmaster/foodhub/pkg/hash"
	jwthelp "github.com/Skotchmaster/foodhub/pkg/jwt"
	"github.com/Skotchmaster/foodhub/pkg/logging"
	"github.com/Skotchmaster/foodhub/pkg/tokens"
)

const MinPasswordLen = 6

var (
	ErrValidation         = errors.New("validation error")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrDuplicateAccount   = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRoleMismatch       = errors.New("role mismatch")
	ErrNoSession          = errors.New("no session")
)

// RoleMismatchError is returned when the account exists under another role.
type RoleMismatchError struct {
	Actual models.Role
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("this account is registered as %s", e.Actual)
}

func (e *RoleMismatchError) Is(target error) bool { return target == ErrRoleMismatch }

type AuthService struct {
	Repo      *repo.GormRepo
	Secret    []byte
	TTL       time.Duration
	DemoMode  bool
	MockDelay time.Duration
	Producer  mykafka.Publisher
	Now       func() time.Time
}

type Session struct {
	Token     string       `json:"-"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) Signup(ctx context.Context, email, password, name string, role models.Role) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup", "role", role)

	email = repo.NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("%w: email and name are required", ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if len(password) < MinPasswordLen {
		return nil, ErrWeakPassword
	}

	pwHash, err := pkghash.HashPassword(password)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	user := &models.User{Email: email, Name: name, Role: role, PasswordHash: pwHash}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			l.Warn("signup_error", "status", 409, "reason", "duplicate account")
			return nil, ErrDuplicateAccount
		}
		l.Error("signup_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	s.publish(ctx, "user_signed_up", user)
	return s.establish(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string, role models.Role) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "role", role)

	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	if s.DemoMode {
		n, err := s.Repo.CountUsers(ctx)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			l.Warn("login_demo_fallback", "reason", "empty directory")
			return s.throwaway(ctx, email, password, role)
		}
	}

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkghash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}
	if user.Role != role {
		l.Warn("login_failed", "status", 403, "reason", "role mismatch", "actual", user.Role)
		return nil, &RoleMismatchError{Actual: user.Role}
	}

	s.publish(ctx, "user_logged_in", user)
	return s.establish(ctx, user)
}

// GoogleLogin stands in for a federated login: it waits MockDelay and always succeeds.
func (s *AuthService) GoogleLogin(ctx context.Context, role models.Role) (*Session, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	short := uuid.NewString()[:8]
	return s.throwaway(ctx, "google-"+short+"@users.foodhub.test", uuid.NewString(), role)
}

// ResetPassword never reveals whether the address is registered.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("password_reset_requested", "svc", "auth.reset")
	return nil
}

// Logout revokes the session behind token; unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Repo.RevokeSession(ctx, jwthelp.Sha256Hex(token))
}

// Restore maps any unusable token to ErrNoSession.
func (s *AuthService) Restore(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	claims, err := tokens.SessionClaimsFromToken(token, s.Secret)
	if err != nil {
		return nil, ErrNoSession
	}
	sess, err := s.Repo.FindSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	if sess.Revoked || sess.TokenHash != jwthelp.Sha256Hex(token) || s.now().Unix() >= sess.ExpiresAt {
		return nil, ErrNoSession
	}
	user, err := s.Repo.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: time.Unix(sess.ExpiresAt, 0), User: user}, nil
}

func (s *AuthService) throwaway(ctx context.Context, email, password string, role models.Role) (*Session, error) {
	email = repo.NormalizeEmail(email)
	if email == "" {
		email = "demo-" + uuid.NewString()[:8] + "@users.foodhub.test"
	}
	pwHash, err := pkghash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	name, _, _ := strings.Cut(email, "@")
	user := &models.User{Email: email, Name: name, Role: role, PasswordHash: pwHash}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil && !errors.Is(err, repo.ErrConflict) {
		return nil, err
	}
	return s.establish(ctx, user)
}

func (s *AuthService) establish(ctx context.Context, user *models.User) (*Session, error) {
	exp := s.now().Add(s.TTL)
	jti := jwthelp.NewJTI()
	token, err := tokens.SignSession(user.ID, string(user.Role), jti, exp, s.Secret)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateSession(ctx, &models.Session{
		ID:        jti,
		UserID:    user.ID,
		Role:      user.Role,
		TokenHash: jwthelp.Sha256Hex(token),
		ExpiresAt: exp.Unix(),
	}); err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) wait(ctx context.Context) error {
	if s.MockDelay <= 0 {
		return nil
	}
	t := time.NewTimer(s.MockDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AuthService) publish(ctx context.Context, typ string, user *models.User) {
	if s.Producer == nil {
		return
	}
	ev := mykafka.Event{Type: typ, OccurredAt: s.now().UTC(), Data: map[string]string{"user_id": user.ID, "role": string(user.Role)}}
	if err := s.Producer.PublishEvent(ctx, mykafka.TopicUsers, user.ID, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", mykafka.TopicUsers, "type", typ, "error", err)
	}
}
