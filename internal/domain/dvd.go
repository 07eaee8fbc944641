package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Cinema predates 1888 by nothing: the oldest surviving film is from that year.
const MinReleaseYear = 1888

// MaxReleaseYearAhead bounds how far in the future a release year may be,
// to allow pre-orders of announced titles.
const MaxReleaseYearAhead = 5

type DVD struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID          uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	Title           string         `json:"titre" gorm:"not null"`
	Director        string         `json:"realisateur"`
	Year            *int           `json:"annee"`
	Genre           string         `json:"genre"`
	DurationMinutes *int           `json:"duree"`
	Actors          datatypes.JSON `json:"acteurs"`
	Synopsis        string         `json:"synopsis"`
	Lent            bool           `json:"prete"`
	LentTo          string         `json:"preteA"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
