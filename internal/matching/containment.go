package matching

import "strings"

// Contains reports whether every required value is offered by available,
// ignoring case. An empty requirement is always met, and so is an empty
// offer: a seeker who states nothing is treated as flexible.
func Contains(required, available []string) bool {
	if len(required) == 0 || len(available) == 0 {
		return true
	}

	offered := make(map[string]struct{}, len(available))
	for _, a := range available {
		offered[strings.ToLower(a)] = struct{}{}
	}
	for _, r := range required {
		if _, ok := offered[strings.ToLower(r)]; !ok {
			return false
		}
	}
	return true
}
