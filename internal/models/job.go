package models

import (
	"time"

	"gorm.io/datatypes"
)

type JobPost struct {
	ID         string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	BusinessID string `gorm:"column:business_id;type:uuid;index" json:"business_id"`
	Business   *User  `gorm:"foreignKey:BusinessID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Title       string `gorm:"column:title;type:varchar(200)" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Address     string `gorm:"column:address;type:text" json:"address"`

	RequiredSkills []Skill `gorm:"many2many:job_skills;constraint:OnDelete:CASCADE" json:"required_skills"`

	Location  string   `gorm:"column:location;type:varchar(255)" json:"location"`
	Latitude  *float64 `gorm:"column:latitude" json:"latitude"`
	Longitude *float64 `gorm:"column:longitude" json:"longitude"`

	// same shape as Profile.Availability
	Requirements datatypes.JSONType[Availability] `gorm:"column:requirements;type:jsonb" json:"requirements"`
	PayPerDay    *int                             `gorm:"column:pay_per_day" json:"pay_per_day"`

	IsActive  bool      `gorm:"column:is_active;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (JobPost) TableName() string { return "job_posts" }
