package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mduret/dvdtheque-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		name:     "Testeur",
		email:    fmt.Sprintf("testuser_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

// WithName sets the user's name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// LoginResponse matches the API login response
type LoginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"nom"`
		Email string `json:"email"`
	} `json:"user"`
}

// BuildAndAuthenticate creates a user in the database, logs in through the
// API and returns the user with a valid bearer token.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, rawPassword := b.Build(t, ts.DB.DB)

	reqBody := map[string]string{
		"email":    user.Email,
		"password": rawPassword,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to login user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return user, loginResp.Token
}

// DVDBuilder creates test DVDs with a builder pattern
type DVDBuilder struct {
	owner *domain.User
	title string
	year  *int
}

// NewDVDBuilder creates a new DVDBuilder with default values
func NewDVDBuilder() *DVDBuilder {
	return &DVDBuilder{
		title: fmt.Sprintf("Film %s", uuid.New().String()[:8]),
	}
}

// WithOwner sets the owning user
func (b *DVDBuilder) WithOwner(user *domain.User) *DVDBuilder {
	b.owner = user
	return b
}

// WithTitle sets the title
func (b *DVDBuilder) WithTitle(title string) *DVDBuilder {
	b.title = title
	return b
}

// WithYear sets the release year
func (b *DVDBuilder) WithYear(year int) *DVDBuilder {
	b.year = &year
	return b
}

// Build creates the DVD in the database
func (b *DVDBuilder) Build(t *testing.T, db *gorm.DB) *domain.DVD {
	t.Helper()

	if b.owner == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.owner = user
	}

	emptyJSON, _ := json.Marshal([]string{})
	dvd := &domain.DVD{
		ID:        uuid.New(),
		UserID:    b.owner.ID,
		Title:     b.title,
		Year:      b.year,
		Actors:    datatypes.JSON(emptyJSON),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(dvd).Error; err != nil {
		t.Fatalf("failed to create dvd: %v", err)
	}

	return dvd
}

// SeedDVDs creates count DVDs owned by user, titled so their order is stable.
func SeedDVDs(t *testing.T, db *gorm.DB, user *domain.User, count int) []*domain.DVD {
	t.Helper()

	dvds := make([]*domain.DVD, count)
	for i := 0; i < count; i++ {
		dvds[i] = NewDVDBuilder().
			WithOwner(user).
			WithTitle(fmt.Sprintf("Film %03d", i)).
			Build(t, db)
	}
	return dvds
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
