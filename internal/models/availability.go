package models

import (
	"errors"

	"github.com/tidwall/gjson"
)

// TimeSlot is a clock interval, both ends "HH:MM". End <= Start means the
// slot runs past midnight.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Availability is shared by seeker profiles (what they offer) and job posts
// (what they require).
type Availability struct {
	Months    []string   `json:"months"`
	Days      []string   `json:"days"`
	TimeSlots []TimeSlot `json:"time_slots"`
}

// UnmarshalJSON decodes field by field. A sub-field with the wrong shape is
// dropped instead of failing the whole record, and a slot whose endpoints are
// not strings is kept with empty endpoints so it can never fit.
func (a *Availability) UnmarshalJSON(b []byte) error {
	*a = Availability{}
	if !gjson.ValidBytes(b) {
		return errors.New("availability: invalid json")
	}
	root := gjson.ParseBytes(b)
	if !root.IsObject() {
		return nil
	}

	a.Months = stringList(root.Get("months"))
	a.Days = stringList(root.Get("days"))

	slots := root.Get("time_slots")
	if slots.IsArray() {
		for _, v := range slots.Array() {
			a.TimeSlots = append(a.TimeSlots, TimeSlot{
				Start: stringField(v, "start"),
				End:   stringField(v, "end"),
			})
		}
	}
	return nil
}

func stringList(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	var out []string
	for _, v := range r.Array() {
		switch v.Type {
		case gjson.String, gjson.Number, gjson.True, gjson.False:
			out = append(out, v.String())
		}
	}
	return out
}

func stringField(obj gjson.Result, key string) string {
	if !obj.IsObject() {
		return ""
	}
	v := obj.Get(key)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}
