package postgres

import (
	"context"

	"github.com/yoockh/gigmatch/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository interface {
	Upsert(ctx context.Context, m *models.Match) error
	Delete(ctx context.Context, jobID, seekerID string) (bool, error)
	DeleteBySeeker(ctx context.Context, seekerID string) ([]string, error)

	// ListForSeeker returns matches on active jobs the seeker has not
	// applied to, best score first.
	ListForSeeker(ctx context.Context, seekerID string) ([]models.Match, error)
	// ListForJob returns matches whose seeker is currently available.
	ListForJob(ctx context.Context, jobID string) ([]models.Match, error)
}

type matchRepo struct {
	db *gorm.DB
}

func NewMatchRepo(db *gorm.DB) MatchRepository {
	return &matchRepo{db: db}
}

// Upsert only touches score on conflict so id, created_at and the notified
// flags of an existing row survive.
func (r *matchRepo) Upsert(ctx context.Context, m *models.Match) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}, {Name: "seeker_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score"}),
		}).
		Create(m).Error
}

func (r *matchRepo) Delete(ctx context.Context, jobID, seekerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("job_id = ? AND seeker_id = ?", jobID, seekerID).
		Delete(&models.Match{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *matchRepo) DeleteBySeeker(ctx context.Context, seekerID string) ([]string, error) {
	var rows []models.Match
	err := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "job_id"}}}).
		Where("seeker_id = ?", seekerID).
		Delete(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.JobID)
	}
	return ids, nil
}

func (r *matchRepo) ListForSeeker(ctx context.Context, seekerID string) ([]models.Match, error) {
	db := r.db.WithContext(ctx)
	applied := db.Model(&models.Application{}).
		Select("job_id").
		Where("seeker_id = ?", seekerID)

	var rows []models.Match
	err := db.
		Preload("Job.RequiredSkills").
		Joins("JOIN job_posts ON job_posts.id = matches.job_id").
		Where("matches.seeker_id = ?", seekerID).
		Where("job_posts.is_active = ?", true).
		Where("matches.job_id NOT IN (?)", applied).
		Order("matches.score DESC").
		Find(&rows).Error
	return rows, err
}

func (r *matchRepo) ListForJob(ctx context.Context, jobID string) ([]models.Match, error) {
	var rows []models.Match
	err := r.db.WithContext(ctx).
		Preload("Seeker").
		Joins("JOIN profiles ON profiles.user_id = matches.seeker_id").
		Where("matches.job_id = ?", jobID).
		Where("profiles.is_available = ?", true).
		Order("matches.score DESC").
		Find(&rows).Error
	return rows, err
}
