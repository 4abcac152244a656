package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrWrongPassword   = errors.New("wrong password")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User, role domain.Role) (domain.User, domain.UserProfile, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthQRCodeRepository interface {
	CreateQRCode(ctx context.Context, qr domain.QRCode) (domain.QRCode, error)
}

type AuthService struct {
	repo   AuthUserRepository
	qrRepo AuthQRCodeRepository
}

func NewAuthService(repo AuthUserRepository, qrRepo AuthQRCodeRepository) *AuthService {
	return &AuthService{
		repo:   repo,
		qrRepo: qrRepo,
	}
}

// Signup creates the user, their profile and their permanent QR code. The
// QR code is global, one per user, issued once at signup.
func (s *AuthService) Signup(ctx context.Context, user domain.User, role domain.Role) (domain.User, domain.UserProfile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, domain.UserProfile{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}
	user.Password = string(hash)

	created, profile, err := s.repo.Create(ctx, user, role)
	if err != nil {
		if errors.Is(err, repository.ErrUserEmailExists) {
			return domain.User{}, domain.UserProfile{}, ErrUserEmailExists
		}
		return domain.User{}, domain.UserProfile{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	_, err = s.qrRepo.CreateQRCode(ctx, domain.QRCode{
		UserID:   created.ID,
		Token:    domain.NewQRToken(created.ID),
		IsActive: true,
	})
	if err != nil {
		return domain.User{}, domain.UserProfile{}, fmt.Errorf("s.qrRepo.CreateQRCode -> %w", err)
	}

	return created, profile, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}
