package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/yoockh/gigmatch/internal/logger"
	"github.com/yoockh/gigmatch/internal/models"
	"github.com/yoockh/gigmatch/internal/utils"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }

func newProfileSvc() (ProfileService, *memProfiles, *recordingBus, *memCache) {
	profiles := newMemProfiles()
	c := newMemCache()
	bus := &recordingBus{}
	skills := NewSkillService(newMemSkills(), c, logger.Discard())
	return NewProfileService(profiles, skills, bus), profiles, bus, c
}

func TestProfileUpdatePublishesEvents(t *testing.T) {
	svc, profiles, bus, c := newProfileSvc()
	ctx := context.Background()

	skills := []string{"plumbing", " Welding ", "PLUMBING"}
	p, err := svc.Update(ctx, "u1", ProfileUpdate{
		Skills:       &skills,
		Location:     strPtr(" Austin "),
		Locations:    &[]string{"Austin", " ", "Round Rock"},
		Availability: &models.Availability{Days: []string{"MON"}},
		MinPay:       NewNullableInt(80),
	})
	if err != nil {
		t.Fatal(err)
	}

	if p.Location != "Austin" || len(p.Locations) != 2 {
		t.Fatalf("location fields = %q %v", p.Location, p.Locations)
	}
	if got := models.SkillNames(profiles.byUser["u1"].Skills); len(got) != 2 || got[0] != "PLUMBING" || got[1] != "WELDING" {
		t.Fatalf("skills = %v", got)
	}
	if got := p.Availability.Data().Days; len(got) != 1 || got[0] != "MON" {
		t.Fatalf("availability = %+v", p.Availability.Data())
	}
	if got := bus.kinds(); got != "profile.saved,profile.skills_changed" {
		t.Fatalf("events = %s", got)
	}
	if !c.wasDeleted("skills:all") {
		t.Fatal("skill list cache not invalidated after resolve")
	}
}

func TestProfileUpdateWithoutSkills(t *testing.T) {
	svc, _, bus, _ := newProfileSvc()

	if _, err := svc.Update(context.Background(), "u1", ProfileUpdate{IsAvailable: boolPtr(false)}); err != nil {
		t.Fatal(err)
	}
	if got := bus.kinds(); got != "profile.saved" {
		t.Fatalf("events = %s", got)
	}
}

func TestProfileUpdateRejectsNegativePay(t *testing.T) {
	svc, profiles, bus, _ := newProfileSvc()

	_, err := svc.Update(context.Background(), "u1", ProfileUpdate{MaxPay: NewNullableInt(-1)})
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
	if profiles.saves != 0 || len(bus.events) != 0 {
		t.Fatal("rejected update must not write or publish")
	}
}

func TestProfileGetCreates(t *testing.T) {
	svc, profiles, _, _ := newProfileSvc()

	p, err := svc.Get(context.Background(), "u9")
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsAvailable || profiles.byUser["u9"] == nil {
		t.Fatalf("profile = %+v", p)
	}
}

func TestProfileUpdateClearsPay(t *testing.T) {
	svc, profiles, _, _ := newProfileSvc()
	ctx := context.Background()

	if _, err := svc.Update(ctx, "u1", ProfileUpdate{MinPay: NewNullableInt(80), MaxPay: NewNullableInt(150)}); err != nil {
		t.Fatal(err)
	}

	var upd ProfileUpdate
	if err := json.Unmarshal([]byte(`{"min_pay": null, "bio": "nights only"}`), &upd); err != nil {
		t.Fatal(err)
	}
	if !upd.MinPay.Set || upd.MinPay.Value != nil || upd.MaxPay.Set {
		t.Fatalf("decoded min_pay = %+v, max_pay = %+v", upd.MinPay, upd.MaxPay)
	}

	p, err := svc.Update(ctx, "u1", upd)
	if err != nil {
		t.Fatal(err)
	}
	if p.MinPay != nil {
		t.Fatalf("min_pay = %d, want cleared", *p.MinPay)
	}
	if stored := profiles.byUser["u1"]; stored.MaxPay == nil || *stored.MaxPay != 150 {
		t.Fatalf("max_pay = %v, want untouched 150", stored.MaxPay)
	}
}

func TestNullableIntDecode(t *testing.T) {
	var n NullableInt
	if err := json.Unmarshal([]byte(`"abc"`), &n); err == nil {
		t.Fatal("string accepted as pay")
	}
	if err := json.Unmarshal([]byte(`0`), &n); err != nil || n.Value == nil || *n.Value != 0 {
		t.Fatalf("zero = %+v, err = %v", n, err)
	}
}
