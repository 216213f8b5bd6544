package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/gigmatch/internal/models"
	"github.com/yoockh/gigmatch/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	ListBySeeker(ctx context.Context, seekerID string) ([]models.Application, error)
	ListByBusiness(ctx context.Context, businessID string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
	// RejectOthers marks every other APPLIED application on the job REJECTED.
	RejectOthers(ctx context.Context, jobID, keepID string) (int64, error)
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, a *models.Application) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrConflict
	}
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("id = ?", id).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

func (r *applicationRepo) ListBySeeker(ctx context.Context, seekerID string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("seeker_id = ?", seekerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) ListByBusiness(ctx context.Context, businessID string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Seeker").
		Joins("JOIN job_posts ON job_posts.id = applications.job_id").
		Where("job_posts.business_id = ?", businessID).
		Order("applications.created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) RejectOthers(ctx context.Context, jobID, keepID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("job_id = ? AND id <> ? AND status = ?", jobID, keepID, models.StatusApplied).
		Update("status", models.StatusRejected)
	return res.RowsAffected, res.Error
}
