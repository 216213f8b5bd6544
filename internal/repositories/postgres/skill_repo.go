package postgres

import (
	"context"

	"github.com/yoockh/gigmatch/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SkillRepository interface {
	// GetOrCreate returns one skill per distinct normalized name, creating
	// the missing ones.
	GetOrCreate(ctx context.Context, names []string) ([]models.Skill, error)
	List(ctx context.Context, isCommon *bool) ([]models.Skill, error)
}

type skillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) SkillRepository {
	return &skillRepo{db: db}
}

func (r *skillRepo) GetOrCreate(ctx context.Context, names []string) ([]models.Skill, error) {
	seen := map[string]struct{}{}
	var norm []string
	for _, n := range names {
		n = models.NormalizeSkillName(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		norm = append(norm, n)
	}
	if len(norm) == 0 {
		return []models.Skill{}, nil
	}

	rows := make([]models.Skill, 0, len(norm))
	for _, n := range norm {
		rows = append(rows, models.Skill{Name: n})
	}

	// concurrent creators race on the unique name index; losers do nothing
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error; err != nil {
		return nil, err
	}

	var out []models.Skill
	err := r.db.WithContext(ctx).Where("name IN ?", norm).Order("name").Find(&out).Error
	return out, err
}

func (r *skillRepo) List(ctx context.Context, isCommon *bool) ([]models.Skill, error) {
	q := r.db.WithContext(ctx).Order("name")
	if isCommon != nil {
		q = q.Where("is_common = ?", *isCommon)
	}
	var out []models.Skill
	err := q.Find(&out).Error
	return out, err
}
