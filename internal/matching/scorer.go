package matching

import (
	"strings"

	"github.com/yoockh/gigmatch/internal/models"
)

const (
	baseScore     = 10.0
	perSkillBonus = 5.0
	minPayBonus   = 5.0
	maxPayBonus   = 2.0
)

// Score rates how well profile fits job. Zero means a hard requirement is
// not met: location, at least one shared skill, months, days or time slots.
// Otherwise the score starts at 10 and grows with shared skills and with the
// job's pay landing inside the seeker's expectations.
func Score(job *models.JobPost, profile *models.Profile) float64 {
	if job == nil || profile == nil {
		return 0
	}

	if !locationMatches(job, profile) {
		return 0
	}

	shared := sharedSkills(job.RequiredSkills, profile.Skills)
	if len(job.RequiredSkills) > 0 && shared == 0 {
		return 0
	}

	req := job.Requirements.Data()
	avail := profile.Availability.Data()

	if !Contains(req.Months, avail.Months) {
		return 0
	}
	if !Contains(req.Days, avail.Days) {
		return 0
	}

	if len(req.TimeSlots) > 0 {
		if len(avail.TimeSlots) == 0 {
			return 0
		}
		if !SlotsFit(req.TimeSlots, avail.TimeSlots) {
			return 0
		}
	}

	score := baseScore + perSkillBonus*float64(shared)

	// a zero amount counts as unset on either side
	if pay := intValue(job.PayPerDay); pay != 0 {
		if lo := intValue(profile.MinPay); lo != 0 && pay >= lo {
			score += minPayBonus
		}
		if hi := intValue(profile.MaxPay); hi != 0 && pay <= hi {
			score += maxPayBonus
		}
	}
	return score
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func normalizeCity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func locationMatches(job *models.JobPost, profile *models.Profile) bool {
	city := normalizeCity(job.Location)
	if city == "" {
		return false
	}
	if normalizeCity(profile.Location) == city {
		return true
	}
	for _, loc := range profile.Locations {
		if normalizeCity(loc) == city {
			return true
		}
	}
	return false
}

// sharedSkills counts required skills the profile also has, by normalized name.
func sharedSkills(required, have []models.Skill) int {
	if len(required) == 0 || len(have) == 0 {
		return 0
	}
	own := make(map[string]struct{}, len(have))
	for _, s := range have {
		own[models.NormalizeSkillName(s.Name)] = struct{}{}
	}
	n := 0
	seen := make(map[string]struct{}, len(required))
	for _, s := range required {
		name := models.NormalizeSkillName(s.Name)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if _, ok := own[name]; ok {
			n++
		}
	}
	return n
}
