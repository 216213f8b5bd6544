package models

import "time"

// Match is derived by the matching engine, never authored by a user.
type Match struct {
	ID       string   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	JobID    string   `gorm:"column:job_id;type:uuid;uniqueIndex:uniq_match_job_seeker" json:"job_id"`
	Job      *JobPost `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	SeekerID string   `gorm:"column:seeker_id;type:uuid;uniqueIndex:uniq_match_job_seeker;index" json:"seeker_id"`
	Seeker   *User    `gorm:"foreignKey:SeekerID;references:ID;constraint:OnDelete:CASCADE" json:"seeker,omitempty"`

	Score     float64   `gorm:"column:score;default:0" json:"score"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`

	NotifiedSeeker   bool `gorm:"column:notified_seeker;default:false" json:"-"`
	NotifiedBusiness bool `gorm:"column:notified_business;default:false" json:"-"`

	SeekerProfile *Profile `gorm:"-" json:"seeker_profile,omitempty"`
}

func (Match) TableName() string { return "matches" }
