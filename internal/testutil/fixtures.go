package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/kanban-board/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	fullName string
	email    string
	password string
	inactive bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		fullName: "Test User " + suffix,
		email:    fmt.Sprintf("user_%s@example.com", suffix),
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithFullName(name string) *UserBuilder {
	b.fullName = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Inactive builds a deactivated account
func (b *UserBuilder) Inactive() *UserBuilder {
	b.inactive = true
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	// MinCost keeps the suite fast; production uses bcrypt.DefaultCost.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		FullName:      b.fullName,
		Email:         b.email,
		PasswordHash:  string(hashedPassword),
		Active:        true,
		SecurityStamp: uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if b.inactive {
		if err := db.Model(user).Update("active", false).Error; err != nil {
			t.Fatalf("failed to deactivate user: %v", err)
		}
		user.Active = false
	}

	return user, b.password
}

// BuildAndAuthenticate creates the user and logs in through the API
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	body, _ := json.Marshal(map[string]string{
		"email":    user.Email,
		"password": password,
	})
	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var envelope Envelope[AuthResponse]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return user, envelope.Data.AccessToken
}

// AuthResponse matches the API auth payload
type AuthResponse struct {
	User struct {
		ID       int64  `json:"id"`
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	} `json:"user"`
	AccessToken string `json:"accessToken"`
}

// Envelope matches the result envelope every endpoint responds with
type Envelope[T any] struct {
	Success      bool    `json:"success"`
	ErrorMessage *string `json:"errorMessage"`
	Data         *T      `json:"data"`
}

// CreateBoard inserts a board owned by owner, with the owner membership
func CreateBoard(t *testing.T, db *gorm.DB, owner *domain.User, title string) *domain.Board {
	t.Helper()

	board := &domain.Board{
		UserID:    owner.ID,
		Title:     title,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}
		return tx.Create(&domain.BoardMember{
			BoardID:  board.ID,
			UserID:   owner.ID,
			RoleCode: domain.RoleOwner,
			Active:   true,
		}).Error
	})
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	return board
}

// AddMember gives user an active membership with role
func AddMember(t *testing.T, db *gorm.DB, board *domain.Board, user *domain.User, role domain.Role) {
	t.Helper()

	member := &domain.BoardMember{
		BoardID:  board.ID,
		UserID:   user.ID,
		RoleCode: role,
		Active:   true,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to add member: %v", err)
	}
}

// CreateColumn inserts an active column
func CreateColumn(t *testing.T, db *gorm.DB, board *domain.Board, title string) *domain.BoardColumn {
	t.Helper()

	column := &domain.BoardColumn{BoardID: board.ID, Title: title, Active: true}
	if err := db.Create(column).Error; err != nil {
		t.Fatalf("failed to create column: %v", err)
	}
	return column
}

// CreateCard inserts an active card at order in column
func CreateCard(t *testing.T, db *gorm.DB, column *domain.BoardColumn, creator *domain.User, title string, order int) *domain.BoardCard {
	t.Helper()

	card := &domain.BoardCard{
		BoardID:       column.BoardID,
		BoardColumnID: column.ID,
		Title:         title,
		CreatedBy:     creator.ID,
		CreatedAt:     time.Now().UTC(),
		Active:        true,
		Order:         order,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create card: %v", err)
	}
	return card
}

// Deactivate flips the active flag of the row with id in table
func Deactivate(t *testing.T, db *gorm.DB, table string, id int64) {
	t.Helper()

	if err := db.Table(table).Where("id = ?", id).Update("active", false).Error; err != nil {
		t.Fatalf("failed to deactivate %s %d: %v", table, id, err)
	}
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

// Do sends an authenticated request and returns the response
func Do(t *testing.T, method, url string, body interface{}, token string) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(CreateAuthenticatedRequest(t, method, url, body, token))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
