package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/repository"
)

var ErrProfileNotFound = repository.ErrProfileNotFound

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindProfileByUserID(ctx context.Context, userID uint) (domain.UserProfile, error)
}

type UserQRCodeRepository interface {
	FindQRCodeByUserID(ctx context.Context, userID uint) (domain.QRCode, error)
	CreateQRCode(ctx context.Context, qr domain.QRCode) (domain.QRCode, error)
}

type UserService struct {
	repo   UserRepository
	qrRepo UserQRCodeRepository
}

func NewUserService(repo UserRepository, qrRepo UserQRCodeRepository) *UserService {
	return &UserService{
		repo:   repo,
		qrRepo: qrRepo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (domain.UserProfile, error) {
	profile, err := s.repo.FindProfileByUserID(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("s.repo.FindProfileByUserID -> %w", err)
	}

	return profile, nil
}

// GetQRCode returns the user's scannable code, issuing one on first use for
// accounts that predate QR issuance at signup.
func (s *UserService) GetQRCode(ctx context.Context, userID uint) (domain.QRCode, error) {
	qr, err := s.qrRepo.FindQRCodeByUserID(ctx, userID)
	if err == nil {
		return qr, nil
	}
	if !errors.Is(err, repository.ErrQRCodeNotFound) {
		return domain.QRCode{}, fmt.Errorf("s.qrRepo.FindQRCodeByUserID -> %w", err)
	}

	created, err := s.qrRepo.CreateQRCode(ctx, domain.QRCode{
		UserID:   userID,
		Token:    domain.NewQRToken(userID),
		IsActive: true,
	})
	if err != nil {
		return domain.QRCode{}, fmt.Errorf("s.qrRepo.CreateQRCode -> %w", err)
	}

	return created, nil
}
