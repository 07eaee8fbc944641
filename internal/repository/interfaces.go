package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mduret/dvdtheque-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type PasswordResetRepository interface {
	Create(ctx context.Context, reset *domain.PasswordReset) error
	// GetValidByToken returns the reset row matching token with an expiry
	// strictly after now.
	GetValidByToken(ctx context.Context, token string, now time.Time) (*domain.PasswordReset, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	// DeleteConsumed removes the used token along with any of the user's
	// tokens that have already expired.
	DeleteConsumed(ctx context.Context, userID uuid.UUID, token string, now time.Time) error
}

type DVDRepository interface {
	Create(ctx context.Context, dvd *domain.DVD) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.DVD, error)
	// List returns one page of the owner's records ordered by title. A
	// non-empty query filters on title, director and genre.
	List(ctx context.Context, ownerID uuid.UUID, query string, limit, offset int) ([]*domain.DVD, error)
	Count(ctx context.Context, ownerID uuid.UUID, query string) (int64, error)
	Update(ctx context.Context, dvd *domain.DVD) error
	// Delete reports how many rows matched, so callers can distinguish a
	// missing or foreign record.
	Delete(ctx context.Context, ownerID, id uuid.UUID) (int64, error)
}

type Repositories struct {
	User          UserRepository
	PasswordReset PasswordResetRepository
	DVD           DVDRepository
}
