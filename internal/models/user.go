package models

import "time"

type UserRole string

const (
	RoleSeeker   UserRole = "SEEKER"
	RoleBusiness UserRole = "BUSINESS"
)

func (r UserRole) Valid() bool {
	return r == RoleSeeker || r == RoleBusiness
}

type User struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"column:username;type:text;uniqueIndex" json:"username"`
	Email        string    `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	FirstName    string    `gorm:"column:first_name;type:varchar(150)" json:"first_name"`
	LastName     string    `gorm:"column:last_name;type:varchar(150)" json:"last_name"`
	PasswordHash string    `gorm:"column:password_hash;type:text" json:"-"`
	Role         UserRole  `gorm:"column:role;type:text;index" json:"role"` // SEEKER|BUSINESS
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (User) TableName() string { return "users" }
