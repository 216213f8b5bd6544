package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/gigmatch/internal/models"
	"github.com/yoockh/gigmatch/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetOrCreate(ctx context.Context, userID string) (*models.Profile, error)
	// Save writes scalar fields, and replaces the skill set when skills is
	// non-nil, in one transaction.
	Save(ctx context.Context, p *models.Profile, skills *[]models.Skill) error
	ListSeekerProfiles(ctx context.Context) ([]models.Profile, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]models.Profile, error)
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).
		Preload("Skills").
		Where("user_id = ?", userID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *profileRepo) GetOrCreate(ctx context.Context, userID string) (*models.Profile, error) {
	p := &models.Profile{
		UserID:      userID,
		IsAvailable: true,
		UpdatedAt:   time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit(clause.Associations).
		Create(p).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

func (r *profileRepo) Save(ctx context.Context, p *models.Profile, skills *[]models.Skill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(p).Error; err != nil {
			return err
		}
		if skills == nil {
			return nil
		}
		if err := tx.Model(p).Association("Skills").Replace(*skills); err != nil {
			return err
		}
		p.Skills = *skills
		return nil
	})
}

func (r *profileRepo) ListSeekerProfiles(ctx context.Context) ([]models.Profile, error) {
	var rows []models.Profile
	err := r.db.WithContext(ctx).
		Preload("Skills").
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.role = ?", models.RoleSeeker).
		Find(&rows).Error
	return rows, err
}

func (r *profileRepo) ListByUserIDs(ctx context.Context, userIDs []string) ([]models.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var rows []models.Profile
	err := r.db.WithContext(ctx).
		Preload("Skills").
		Where("user_id IN ?", userIDs).
		Find(&rows).Error
	return rows, err
}
