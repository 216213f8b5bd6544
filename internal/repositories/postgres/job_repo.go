package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/gigmatch/internal/models"
	"github.com/yoockh/gigmatch/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobRepository interface {
	GetByID(ctx context.Context, id string) (*models.JobPost, error)
	ListActive(ctx context.Context) ([]models.JobPost, error)
	ListByBusiness(ctx context.Context, businessID string) ([]models.JobPost, error)

	// Create and Update replace the required skills when skills is non-nil.
	Create(ctx context.Context, j *models.JobPost, skills []models.Skill) error
	Update(ctx context.Context, j *models.JobPost, skills *[]models.Skill) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.JobPost, error) {
	var j models.JobPost
	err := r.db.WithContext(ctx).
		Preload("RequiredSkills").
		Where("id = ?", id).
		Take(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &j, err
}

func (r *jobRepo) ListActive(ctx context.Context) ([]models.JobPost, error) {
	var rows []models.JobPost
	err := r.db.WithContext(ctx).
		Preload("RequiredSkills").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *jobRepo) ListByBusiness(ctx context.Context, businessID string) ([]models.JobPost, error) {
	var rows []models.JobPost
	err := r.db.WithContext(ctx).
		Preload("RequiredSkills").
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *jobRepo) Create(ctx context.Context, j *models.JobPost, skills []models.Skill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(j).Error; err != nil {
			return err
		}
		if len(skills) == 0 {
			j.RequiredSkills = []models.Skill{}
			return nil
		}
		if err := tx.Model(j).Association("RequiredSkills").Append(skills); err != nil {
			return err
		}
		j.RequiredSkills = skills
		return nil
	})
}

func (r *jobRepo) Update(ctx context.Context, j *models.JobPost, skills *[]models.Skill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).Save(j)
		if res.Error != nil {
			return res.Error
		}
		if skills == nil {
			return nil
		}
		if err := tx.Model(j).Association("RequiredSkills").Replace(*skills); err != nil {
			return err
		}
		j.RequiredSkills = *skills
		return nil
	})
}

func (r *jobRepo) SetActive(ctx context.Context, id string, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.JobPost{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for matches, applications and job_skills.
func (r *jobRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.JobPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
