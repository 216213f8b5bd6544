package models

import "strings"

type Skill struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"column:name;type:varchar(100);uniqueIndex" json:"name"`
	IsCommon bool   `gorm:"column:is_common;default:false" json:"is_common"`
}

func (Skill) TableName() string { return "skills" }

// NormalizeSkillName returns the identity form of a skill name.
func NormalizeSkillName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func SkillNames(skills []Skill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, s.Name)
	}
	return out
}
