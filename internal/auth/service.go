package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/optimapped/optimapped/internal/store"
)

// Providers recorded on accounts and users.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// MinPasswordLength is the shortest password SignUp accepts.
const MinPasswordLength = 6

var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken wraps store.ErrDuplicate.
	ErrEmailTaken = fmt.Errorf("email already in use: %w", store.ErrDuplicate)

	ErrWeakPassword   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrGoogleDisabled = errors.New("google sign-in is not configured")
)

// Service signs users in against the local account store.
type Service struct {
	accounts store.AccountRepo
	session  *Session
	google   *GoogleFlow
	log      *zap.Logger
	now      func() time.Time
	argon    argonParams
}

// Option configures a Service.
type Option func(*Service)

// WithGoogle enables "Continue with Google".
func WithGoogle(f *GoogleFlow) Option {
	return func(s *Service) { s.google = f }
}

func withArgon(p argonParams) Option {
	return func(s *Service) { s.argon = p }
}

func NewService(accounts store.AccountRepo, session *Session, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		accounts: accounts,
		session:  session,
		log:      log.Named("auth"),
		now:      time.Now,
		argon:    defaultArgon,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Session() *Session { return s.session }

// GoogleEnabled reports whether SignInWithGoogle can be used.
func (s *Service) GoogleEnabled() bool { return s.google != nil }

// SignUp creates a password account and signs it in.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	hash, err := hashPassword(password, s.argon)
	if err != nil {
		return nil, err
	}
	acct := &store.Account{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(name),
		Provider:     ProviderPassword,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.accounts.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.log.Info("account created", zap.String("uid", acct.ID))
	return s.signIn(acct), nil
}

// SignIn checks email and password and signs the account in.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, error) {
	acct, err := s.accounts.AccountByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if acct.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	ok, err := verifyPassword(password, acct.PasswordHash)
	if err != nil {
		s.log.Error("verify password", zap.String("uid", acct.ID), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return s.signIn(acct), nil
}

// SignInWithGoogle runs the browser flow and signs in the matching
// account, creating it on first use.
func (s *Service) SignInWithGoogle(ctx context.Context) (*User, error) {
	if s.google == nil {
		return nil, ErrGoogleDisabled
	}
	p, err := s.google.Run(ctx)
	if err != nil {
		return nil, err
	}

	acct, err := s.accounts.AccountByEmail(ctx, p.Email)
	switch {
	case err == nil:
		if err := s.accounts.UpdateProfile(ctx, acct.ID, p.Name, p.Picture); err != nil {
			s.log.Warn("update profile", zap.String("uid", acct.ID), zap.Error(err))
		} else {
			acct.DisplayName, acct.PhotoURL = p.Name, p.Picture
		}
	case store.IsNotFound(err):
		acct = &store.Account{
			ID:          uuid.NewString(),
			Email:       p.Email,
			DisplayName: p.Name,
			PhotoURL:    p.Picture,
			Provider:    ProviderGoogle,
			CreatedAt:   s.now(),
		}
		if err := s.accounts.CreateAccount(ctx, acct); err != nil {
			return nil, fmt.Errorf("create account: %w", err)
		}
	default:
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	u := s.signIn(acct)
	u.Provider = ProviderGoogle
	return u, nil
}

// Resume checks the restored session against the account store and
// signs out when the account no longer exists.
func (s *Service) Resume(ctx context.Context) *User {
	u := s.session.Current()
	if u == nil {
		return nil
	}
	acct, err := s.accounts.AccountByID(ctx, u.UID)
	if err != nil {
		if store.IsNotFound(err) {
			s.session.SignOut()
			return nil
		}
		s.log.Warn("resume session", zap.String("uid", u.UID), zap.Error(err))
		return u
	}
	u.Email, u.DisplayName, u.PhotoURL = acct.Email, acct.DisplayName, acct.PhotoURL
	return u
}

func (s *Service) SignOut() { s.session.SignOut() }

func (s *Service) signIn(a *store.Account) *User {
	u := &User{
		UID:         a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		PhotoURL:    a.PhotoURL,
		Provider:    a.Provider,
	}
	s.log.Info("signed in", zap.String("uid", u.UID), zap.String("provider", u.Provider))
	s.session.set(u)
	return u
}

func validEmail(e string) bool {
	local, domain, ok := strings.Cut(e, "@")
	return ok && local != "" && strings.Contains(domain, ".") && !strings.ContainsAny(e, " \t")
}
