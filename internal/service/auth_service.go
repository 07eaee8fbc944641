package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/mduret/dvdtheque-api/internal/auth"
	"github.com/mduret/dvdtheque-api/internal/config"
	"github.com/mduret/dvdtheque-api/internal/domain"
	"github.com/mduret/dvdtheque-api/internal/mail"
	"github.com/mduret/dvdtheque-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

const minPasswordLength = 8

const resetTokenTTL = time.Hour

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	tokens    *auth.TokenManager
	mailer    mail.Mailer
	cfg       *config.Config
}

func NewAuthService(userRepo repository.UserRepository, resetRepo repository.PasswordResetRepository, tokens *auth.TokenManager, mailer mail.Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		tokens:    tokens,
		mailer:    mailer,
		cfg:       cfg,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	User  *domain.User
	Token string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if !emailRegex.MatchString(input.Email) {
		return nil, domain.ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}

	// Fast path; the unique index on email closes the race this check leaves
	// open between two concurrent registrations.
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and issues a short-lived bearer token. The
// unknown-email and wrong-password branches return the same error so callers
// cannot probe which addresses have an account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// ForgotPassword starts the reset flow. Whether or not the email has an
// account, the caller gets the same answer: a nil error and no data. Even a
// mail delivery failure is only logged, so the response says nothing about
// account existence.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := s.resetRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	reset := &domain.PasswordReset{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
		CreatedAt: time.Now(),
	}

	if err := s.resetRepo.Create(ctx, reset); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.cfg.FrontendURL, token)
	if err := s.mailer.Send(ctx, user.Email,
		"Réinitialisation de votre mot de passe - Ma DVDthèque",
		resetEmailBody(resetURL)); err != nil {
		log.Printf("ERROR [AuthService.ForgotPassword] sending reset email: %v", err)
	}

	return nil
}

// ResetPassword consumes a reset token exactly once: the token row is deleted
// together with any of the user's expired tokens, so a replay finds nothing.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.ErrPasswordTooShort
	}

	now := time.Now()
	reset, err := s.resetRepo.GetValidByToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, reset.UserID, hash); err != nil {
		return err
	}

	if err := s.resetRepo.DeleteConsumed(ctx, reset.UserID, token, now); err != nil {
		return err
	}

	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func resetEmailBody(resetURL string) string {
	return fmt.Sprintf(`
<h2>Réinitialisation de mot de passe</h2>
<p>Vous avez demandé la réinitialisation de votre mot de passe.</p>
<p>Cliquez sur le lien ci-dessous pour choisir un nouveau mot de passe :</p>
<p><a href="%s">Réinitialiser mon mot de passe</a></p>
<p>Ce lien expire dans 1 heure.</p>
<p>Si vous n'avez pas fait cette demande, ignorez cet email.</p>
`, resetURL)
}
