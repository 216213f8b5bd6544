package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAvailabilityUnmarshalLenient(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Availability
	}{
		{
			name: "well formed",
			in:   `{"months":["JAN"],"days":["MON","TUE"],"time_slots":[{"start":"09:00","end":"17:00"}]}`,
			want: Availability{
				Months:    []string{"JAN"},
				Days:      []string{"MON", "TUE"},
				TimeSlots: []TimeSlot{{Start: "09:00", End: "17:00"}},
			},
		},
		{
			name: "wrong shaped fields are dropped",
			in:   `{"months":"JAN","days":{"a":1},"time_slots":"all day"}`,
			want: Availability{},
		},
		{
			name: "scalar list items become strings",
			in:   `{"days":["MON",1,true,null,{"x":1}]}`,
			want: Availability{Days: []string{"MON", "1", "true"}},
		},
		{
			name: "bad slot endpoints are kept empty",
			in:   `{"time_slots":[{"start":900,"end":"17:00"},{"start":"08:00"},"x"]}`,
			want: Availability{TimeSlots: []TimeSlot{
				{Start: "", End: "17:00"},
				{Start: "08:00", End: ""},
				{},
			}},
		},
		{
			name: "not an object",
			in:   `[1,2,3]`,
			want: Availability{},
		},
		{
			name: "null",
			in:   `null`,
			want: Availability{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Availability
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAvailabilityUnmarshalInvalidJSON(t *testing.T) {
	var a Availability
	if err := a.UnmarshalJSON([]byte(`{"days":[`)); err == nil {
		t.Fatal("expected error for truncated json")
	}
}

func TestNormalizeSkillName(t *testing.T) {
	if got := NormalizeSkillName("  plumbing "); got != "PLUMBING" {
		t.Fatalf("got %q", got)
	}
}

func TestConversationPair(t *testing.T) {
	p1, k1 := ConversationPair("b", "a")
	p2, k2 := ConversationPair("a", "b")
	if k1 != k2 || !reflect.DeepEqual(p1, p2) || p1[0] != "a" {
		t.Fatalf("pair not order independent: %v %q / %v %q", p1, k1, p2, k2)
	}
	c := Conversation{Participants: p1}
	if !c.HasParticipant("b") || c.HasParticipant("c") {
		t.Fatal("HasParticipant")
	}
}

func TestProfileUsable(t *testing.T) {
	if (&Profile{Location: "  "}).Usable() {
		t.Fatal("blank location must not be usable")
	}
	if !(&Profile{Location: "Austin"}).Usable() {
		t.Fatal("located profile must be usable")
	}
}
