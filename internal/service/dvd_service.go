package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mduret/dvdtheque-api/internal/domain"
	"github.com/mduret/dvdtheque-api/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrDVDNotFound = errors.New("dvd not found")

const (
	defaultPageSize = 30
	maxPageSize     = 100
)

type DVDService struct {
	dvdRepo repository.DVDRepository
}

func NewDVDService(dvdRepo repository.DVDRepository) *DVDService {
	return &DVDService{dvdRepo: dvdRepo}
}

type DVDInput struct {
	Title           string
	Director        string
	Year            *int
	Genre           string
	DurationMinutes *int
	Actors          []string
	Synopsis        string
	Lent            bool
	LentTo          string
}

type DVDPage struct {
	Items      []*domain.DVD
	Total      int64
	Page       int
	TotalPages int
}

// List returns one page of the owner's collection. A non-empty query filters
// on title, director and genre. Page defaults to 1, limit to 30, and limit is
// clamped to 100 no matter what the caller asks for.
func (s *DVDService) List(ctx context.Context, ownerID uuid.UUID, query string, page, limit int) (*DVDPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := (page - 1) * limit

	items, err := s.dvdRepo.List(ctx, ownerID, query, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		// Zero rows leaves the slice nil, which would serialize as null
		// instead of the empty array clients expect.
		items = []*domain.DVD{}
	}

	total, err := s.dvdRepo.Count(ctx, ownerID, query)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &DVDPage{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (s *DVDService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.DVD, error) {
	dvd, err := s.dvdRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDVDNotFound
		}
		return nil, err
	}
	return dvd, nil
}

func (s *DVDService) Create(ctx context.Context, ownerID uuid.UUID, input DVDInput) (*domain.DVD, error) {
	if err := validateDVDInput(input); err != nil {
		return nil, err
	}

	dvd := &domain.DVD{
		ID:              uuid.New(),
		UserID:          ownerID,
		Title:           strings.TrimSpace(input.Title),
		Director:        input.Director,
		Year:            input.Year,
		Genre:           input.Genre,
		DurationMinutes: input.DurationMinutes,
		Actors:          marshalActors(input.Actors),
		Synopsis:        input.Synopsis,
		Lent:            input.Lent,
		LentTo:          input.LentTo,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.dvdRepo.Create(ctx, dvd); err != nil {
		return nil, err
	}
	return dvd, nil
}

func (s *DVDService) Update(ctx context.Context, ownerID, id uuid.UUID, input DVDInput) (*domain.DVD, error) {
	if err := validateDVDInput(input); err != nil {
		return nil, err
	}

	dvd, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	dvd.Title = strings.TrimSpace(input.Title)
	dvd.Director = input.Director
	dvd.Year = input.Year
	dvd.Genre = input.Genre
	dvd.DurationMinutes = input.DurationMinutes
	dvd.Actors = marshalActors(input.Actors)
	dvd.Synopsis = input.Synopsis
	dvd.Lent = input.Lent
	dvd.LentTo = input.LentTo
	dvd.UpdatedAt = time.Now()

	if err := s.dvdRepo.Update(ctx, dvd); err != nil {
		return nil, err
	}
	return dvd, nil
}

func (s *DVDService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	affected, err := s.dvdRepo.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDVDNotFound
	}
	return nil
}

func validateDVDInput(input DVDInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return domain.ErrTitleRequired
	}
	if input.Year != nil {
		maxYear := time.Now().Year() + domain.MaxReleaseYearAhead
		if *input.Year < domain.MinReleaseYear || *input.Year > maxYear {
			return domain.ErrInvalidYear
		}
	}
	if input.DurationMinutes != nil && *input.DurationMinutes < 1 {
		return domain.ErrInvalidDuration
	}
	return nil
}

func marshalActors(actors []string) datatypes.JSON {
	if actors == nil {
		actors = []string{}
	}
	data, _ := json.Marshal(actors)
	return datatypes.JSON(data)
}
