package service

import (
	"github.com/mduret/dvdtheque-api/internal/auth"
	"github.com/mduret/dvdtheque-api/internal/config"
	"github.com/mduret/dvdtheque-api/internal/mail"
	"github.com/mduret/dvdtheque-api/internal/repository"
)

type Services struct {
	Auth *AuthService
	DVD  *DVDService
}

func NewServices(repos *repository.Repositories, tokens *auth.TokenManager, mailer mail.Mailer, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, repos.PasswordReset, tokens, mailer, cfg),
		DVD:  NewDVDService(repos.DVD),
	}
}
