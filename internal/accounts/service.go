// Package accounts manages the registered account directory and the single
// active session, both persisted through an injected store.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/quickcart-shop/quickcart/internal/events"
	"github.com/quickcart-shop/quickcart/internal/hash"
	"github.com/quickcart-shop/quickcart/internal/logging"
	"github.com/quickcart-shop/quickcart/internal/models"
	"github.com/quickcart-shop/quickcart/internal/storage"
)

var (
	ErrValidation         = errors.New("validation")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	Store    storage.Store
	Producer *events.Producer

	// mu guards directory and session read-modify-write cycles; handlers
	// may run concurrently even though each operation is synchronous.
	mu sync.Mutex
}

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginInput struct {
	EmailOrUsername string `json:"email_or_username"`
	Password        string `json:"password"`
	Remember        bool   `json:"remember"`
}

// Register validates the input in a fixed order and returns the reason of
// the first violated rule. On success the new account becomes the active
// session. The directory is not touched on any failure path.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, fmt.Errorf("all fields are required: %w", ErrValidation)
	}
	if len(in.Username) < 3 {
		return nil, fmt.Errorf("username must be at least 3 characters: %w", ErrValidation)
	}
	if !IsValidEmail(in.Email) {
		return nil, fmt.Errorf("invalid email format: %w", ErrValidation)
	}
	if _, ok := ClassifyPassword(in.Password); !ok {
		return nil, fmt.Errorf("password is too weak: %w", ErrValidation)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := s.directory(ctx)
	for _, a := range accounts {
		if a.Email == in.Email || a.Username == in.Username {
			return nil, fmt.Errorf("user already exists with this email or username: %w", ErrAlreadyExists)
		}
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := models.Account{
		ID:           strconv.FormatInt(time.Now().UnixNano(), 10),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: pwHash,
		CreatedAt:    time.Now().UTC(),
	}

	accounts = append(accounts, account)
	if err := s.Store.Set(ctx, storage.KeyAccounts, accounts); err != nil {
		return nil, fmt.Errorf("persist directory: %w", err)
	}
	if err := s.setSession(ctx, account, false); err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":     "user_registered",
		"user_id":  account.ID,
		"username": account.Username,
	})

	sanitized := account.WithoutHash()
	return &sanitized, nil
}

// Login resolves the identifier against usernames and emails. An unknown
// identifier and a wrong password return the identical error so the caller
// cannot tell which part was wrong.
func (s *Service) Login(ctx context.Context, in LoginInput) (*models.Account, error) {
	if in.EmailOrUsername == "" || in.Password == "" {
		return nil, fmt.Errorf("email/username and password are required: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var account *models.Account
	for _, a := range s.directory(ctx) {
		if a.Email == in.EmailOrUsername || a.Username == in.EmailOrUsername {
			account = &a
			break
		}
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if !hash.CheckPassword(account.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	if err := s.setSession(ctx, *account, in.Remember); err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":     "user_logged_in",
		"user_id":  account.ID,
		"username": account.Username,
		"remember": in.Remember,
	})

	sanitized := account.WithoutHash()
	return &sanitized, nil
}

// Logout clears the session and the remember flag in one step. A remembered
// session does not survive an explicit logout.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current models.Account
	hadSession := s.Store.Get(ctx, storage.KeySession, &current)

	if err := s.Store.Delete(ctx, storage.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if err := s.Store.Delete(ctx, storage.KeyRemember); err != nil {
		return fmt.Errorf("clear remember flag: %w", err)
	}

	if hadSession {
		s.publish(ctx, map[string]any{
			"type":     "user_logged_out",
			"user_id":  current.ID,
			"username": current.Username,
		})
	}
	return nil
}

// CurrentSession returns the active account, without password material, or
// false when nobody is signed in.
func (s *Service) CurrentSession(ctx context.Context) (*models.Account, bool) {
	var account models.Account
	if !s.Store.Get(ctx, storage.KeySession, &account) {
		return nil, false
	}
	sanitized := account.WithoutHash()
	return &sanitized, true
}

// Remembered reports the stored "keep me signed in" flag.
func (s *Service) Remembered(ctx context.Context) bool {
	var remember bool
	if !s.Store.Get(ctx, storage.KeyRemember, &remember) {
		return false
	}
	return remember
}

func (s *Service) directory(ctx context.Context) []models.Account {
	var accounts []models.Account
	s.Store.Get(ctx, storage.KeyAccounts, &accounts)
	return accounts
}

func (s *Service) setSession(ctx context.Context, account models.Account, remember bool) error {
	if err := s.Store.Set(ctx, storage.KeySession, account.WithoutHash()); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := s.Store.Set(ctx, storage.KeyRemember, remember); err != nil {
		return fmt.Errorf("persist remember flag: %w", err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, events.TopicUserEvents, fmt.Sprint(event["user_id"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
