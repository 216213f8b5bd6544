package matching

import (
	"strconv"
	"strings"

	"github.com/yoockh/gigmatch/internal/models"
)

// clockMinutes converts "HH:MM" to minutes since midnight.
func clockMinutes(s string) (int, bool) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// SlotFits reports whether the job slot lies inside the seeker slot. A slot
// whose end is not after its start crosses midnight. Any unparsable endpoint
// makes the slot unusable and the result false.
func SlotFits(job, seeker models.TimeSlot) bool {
	js, ok1 := clockMinutes(job.Start)
	je, ok2 := clockMinutes(job.End)
	ss, ok3 := clockMinutes(seeker.Start)
	se, ok4 := clockMinutes(seeker.End)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}

	jobWraps := je <= js
	seekerWraps := se <= ss

	switch {
	case !jobWraps && !seekerWraps:
		return js >= ss && je <= se
	case jobWraps && !seekerWraps:
		// a bounded offer can never cover midnight
		return false
	case !jobWraps && seekerWraps:
		// entirely before midnight, or entirely after it
		return js >= ss || je <= se
	default:
		return js >= ss && je <= se
	}
}

// SlotsFit reports whether every job slot fits at least one seeker slot.
func SlotsFit(jobSlots, seekerSlots []models.TimeSlot) bool {
	for _, j := range jobSlots {
		fit := false
		for _, s := range seekerSlots {
			if SlotFits(j, s) {
				fit = true
				break
			}
		}
		if !fit {
			return false
		}
	}
	return true
}
