package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Profile struct {
	UserID      string `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	User        *User  `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	PhoneNumber string `gorm:"column:phone_number;type:varchar(20)" json:"phone_number"`
	Bio         string `gorm:"column:bio;type:text" json:"bio"`

	Skills []Skill `gorm:"many2many:profile_skills;constraint:OnDelete:CASCADE" json:"skills"`

	// {"months": [...], "days": [...], "time_slots": [{"start","end"}]}
	Availability datatypes.JSONType[Availability] `gorm:"column:availability;type:jsonb" json:"availability"`

	Location  string         `gorm:"column:location;type:varchar(255)" json:"location"`
	Locations pq.StringArray `gorm:"column:locations;type:text[]" json:"locations"`
	Latitude  *float64       `gorm:"column:latitude" json:"latitude"`
	Longitude *float64       `gorm:"column:longitude" json:"longitude"`

	IsAvailable bool `gorm:"column:is_available;default:true" json:"is_available"`
	MinPay      *int `gorm:"column:min_pay" json:"min_pay"`
	MaxPay      *int `gorm:"column:max_pay" json:"max_pay"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// Usable reports whether the profile carries enough data to be matched.
func (p *Profile) Usable() bool {
	return strings.TrimSpace(p.Location) != ""
}
