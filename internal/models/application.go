package models

import "time"

type ApplicationStatus string

const (
	StatusApplied  ApplicationStatus = "APPLIED"
	StatusAccepted ApplicationStatus = "ACCEPTED"
	StatusRejected ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type Application struct {
	ID       string   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	JobID    string   `gorm:"column:job_id;type:uuid;uniqueIndex:uniq_application_job_seeker" json:"job_id"`
	Job      *JobPost `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE" json:"job_details,omitempty"`
	SeekerID string   `gorm:"column:seeker_id;type:uuid;uniqueIndex:uniq_application_job_seeker;index" json:"seeker_id"`
	Seeker   *User    `gorm:"foreignKey:SeekerID;references:ID;constraint:OnDelete:CASCADE" json:"seeker,omitempty"`

	Status    ApplicationStatus `gorm:"column:status;type:varchar(20);default:APPLIED" json:"status"`
	CreatedAt time.Time         `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Application) TableName() string { return "applications" }
