package accounts

import (
	"context"
	"errors"
	"strings"

	"brickshare-backend/internal/domain"
	"brickshare-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid Email")
	ErrWeakPassword          = errors.New("Password does not meet requirements")
	ErrEmailTaken            = errors.New("Email already registered")
	ErrIncorrectPassword     = errors.New("Incorrect Password")
)

// Service creates and authenticates accounts.
type Service struct {
	DB *gorm.DB
	// AdminEmail: the account registered with this address gets the admin
	// role (the platform administrator who verifies properties, sets the fee
	// and withdraws it).
	AdminEmail string
}

// RegisterInput for account creation.
type RegisterInput struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if s.AdminEmail != "" && in.Email == s.AdminEmail {
		role = domain.RoleAdmin
	}

	account := domain.Account{
		Fullname:     strings.TrimSpace(in.Fullname),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Account
		if err := tx.Where("email = ?", in.Email).First(&existing).Error; err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Login finds the account by email and verifies the password.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var a domain.Account
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if a.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &a, nil
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Account, error) {
	var a domain.Account
	if err := s.DB.WithContext(ctx).Where("account_id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}
