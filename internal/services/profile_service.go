package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/yoockh/gigmatch/internal/events"
	"github.com/yoockh/gigmatch/internal/models"
	pgrepo "github.com/yoockh/gigmatch/internal/repositories/postgres"
	"github.com/yoockh/gigmatch/internal/utils"
	"gorm.io/datatypes"
)

// NullableInt tells an absent field from an explicit null. Set is true
// whenever the field appeared in the body; a null Value clears it.
type NullableInt struct {
	Set   bool
	Value *int
}

func NewNullableInt(v int) NullableInt { return NullableInt{Set: true, Value: &v} }

func (n *NullableInt) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n NullableInt) negative() bool { return n.Value != nil && *n.Value < 0 }

// ProfileUpdate is a partial update; nil fields are left untouched.
// min_pay and max_pay can be cleared with an explicit null.
type ProfileUpdate struct {
	Skills       *[]string            `json:"skills"`
	Availability *models.Availability `json:"availability"`
	Location     *string              `json:"location"`
	Locations    *[]string            `json:"locations"`
	PhoneNumber  *string              `json:"phone_number"`
	Bio          *string              `json:"bio"`
	Latitude     *float64             `json:"latitude"`
	Longitude    *float64             `json:"longitude"`
	IsAvailable  *bool                `json:"is_available"`
	MinPay       NullableInt          `json:"min_pay"`
	MaxPay       NullableInt          `json:"max_pay"`
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID string, upd ProfileUpdate) (*models.Profile, error)
}

type profileService struct {
	profiles pgrepo.ProfileRepository
	skills   SkillService
	bus      events.Publisher
}

func NewProfileService(profiles pgrepo.ProfileRepository, skills SkillService, bus events.Publisher) ProfileService {
	return &profileService{profiles: profiles, skills: skills, bus: bus}
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.Get"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	p, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, userID string, upd ProfileUpdate) (*models.Profile, error) {
	const op = "ProfileService.Update"

	if upd.MinPay.negative() || upd.MaxPay.negative() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "pay must not be negative", nil)
	}

	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyProfileUpdate(p, upd)
	p.UpdatedAt = time.Now().UTC()

	var skills *[]models.Skill
	if upd.Skills != nil {
		resolved, err := s.skills.Resolve(ctx, *upd.Skills)
		if err != nil {
			return nil, err
		}
		skills = &resolved
	}

	if err := s.profiles.Save(ctx, p, skills); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
	}

	evs := []events.Event{{Kind: events.ProfileSaved, UserID: p.UserID}}
	if skills != nil {
		evs = append(evs, events.Event{Kind: events.ProfileSkillsChanged, UserID: p.UserID})
	}
	if err := events.PublishAll(ctx, s.bus, evs...); err != nil {
		return nil, utils.RefreshFailed(op, err)
	}
	return p, nil
}

func applyProfileUpdate(p *models.Profile, upd ProfileUpdate) {
	if upd.Availability != nil {
		p.Availability = datatypes.NewJSONType(*upd.Availability)
	}
	if upd.Location != nil {
		p.Location = strings.TrimSpace(*upd.Location)
	}
	if upd.Locations != nil {
		locs := make([]string, 0, len(*upd.Locations))
		for _, l := range *upd.Locations {
			if l = strings.TrimSpace(l); l != "" {
				locs = append(locs, l)
			}
		}
		p.Locations = locs
	}
	if upd.PhoneNumber != nil {
		p.PhoneNumber = strings.TrimSpace(*upd.PhoneNumber)
	}
	if upd.Bio != nil {
		p.Bio = *upd.Bio
	}
	if upd.Latitude != nil {
		p.Latitude = upd.Latitude
	}
	if upd.Longitude != nil {
		p.Longitude = upd.Longitude
	}
	if upd.IsAvailable != nil {
		p.IsAvailable = *upd.IsAvailable
	}
	if upd.MinPay.Set {
		p.MinPay = upd.MinPay.Value
	}
	if upd.MaxPay.Set {
		p.MaxPay = upd.MaxPay.Value
	}
}
