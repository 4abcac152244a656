package repository

import (
	"context"
	"fmt"

	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/repository/dao"
)

var ErrExcuseNotFound = dao.ErrExcuseNotFound

type ExcuseDAO interface {
	Insert(ctx context.Context, excuse dao.Excuse) (dao.Excuse, error)
	GetByID(ctx context.Context, id uint) (dao.Excuse, error)
	Update(ctx context.Context, excuse dao.Excuse) (dao.Excuse, error)
	ListActiveByEventAndUser(ctx context.Context, eventID, userID uint) ([]dao.Excuse, error)
	ListByEventAndUser(ctx context.Context, eventID, userID uint) ([]dao.Excuse, error)
	ListPending(ctx context.Context) ([]dao.Excuse, error)
}

type ExcuseRepository struct {
	dao ExcuseDAO
}

func NewExcuseRepository(dao ExcuseDAO) *ExcuseRepository {
	return &ExcuseRepository{
		dao: dao,
	}
}

func (r *ExcuseRepository) domainToDao(e domain.Excuse) dao.Excuse {
	return dao.Excuse{
		ID:          e.ID,
		EventID:     e.EventID,
		UserID:      e.UserID,
		Scope:       string(e.Scope),
		Reason:      e.Reason,
		ProofLink:   e.ProofLink,
		Status:      string(e.Status),
		ReviewedBy:  e.ReviewedBy,
		ReviewedAt:  e.ReviewedAt,
		ReviewNotes: e.ReviewNotes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (r *ExcuseRepository) daoToDomain(e dao.Excuse) domain.Excuse {
	return domain.Excuse{
		ID:          e.ID,
		EventID:     e.EventID,
		UserID:      e.UserID,
		Scope:       domain.ExcuseScope(e.Scope),
		Reason:      e.Reason,
		ProofLink:   e.ProofLink,
		Status:      domain.ExcuseStatus(e.Status),
		ReviewedBy:  e.ReviewedBy,
		ReviewedAt:  e.ReviewedAt,
		ReviewNotes: e.ReviewNotes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (r *ExcuseRepository) daosToDomain(excuses []dao.Excuse) []domain.Excuse {
	out := make([]domain.Excuse, len(excuses))
	for i, e := range excuses {
		out[i] = r.daoToDomain(e)
	}
	return out
}

func (r *ExcuseRepository) Create(ctx context.Context, excuse domain.Excuse) (domain.Excuse, error) {
	created, err := r.dao.Insert(ctx, dao.Excuse{
		EventID:   excuse.EventID,
		UserID:    excuse.UserID,
		Scope:     string(excuse.Scope),
		Reason:    excuse.Reason,
		ProofLink: excuse.ProofLink,
		Status:    string(domain.ExcusePending),
	})
	if err != nil {
		return domain.Excuse{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ExcuseRepository) GetByID(ctx context.Context, id uint) (domain.Excuse, error) {
	excuse, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Excuse{}, fmt.Errorf("r.dao.GetByID -> %w", err)
	}

	return r.daoToDomain(excuse), nil
}

func (r *ExcuseRepository) Update(ctx context.Context, excuse domain.Excuse) (domain.Excuse, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(excuse))
	if err != nil {
		return domain.Excuse{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ExcuseRepository) ListActiveByEventAndUser(ctx context.Context, eventID, userID uint) ([]domain.Excuse, error) {
	excuses, err := r.dao.ListActiveByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListActiveByEventAndUser -> %w", err)
	}

	return r.daosToDomain(excuses), nil
}

func (r *ExcuseRepository) ListByEventAndUser(ctx context.Context, eventID, userID uint) ([]domain.Excuse, error) {
	excuses, err := r.dao.ListByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEventAndUser -> %w", err)
	}

	return r.daosToDomain(excuses), nil
}

func (r *ExcuseRepository) ListPending(ctx context.Context) ([]domain.Excuse, error) {
	excuses, err := r.dao.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListPending -> %w", err)
	}

	return r.daosToDomain(excuses), nil
}
