package models

// DefaultOrgan is substituted when a caller supplies no usable organ tag.
const DefaultOrgan = "leaf"

// validOrgans is the closed set of plant-part tags the identification
// providers accept.
var validOrgans = []string{"leaf", "flower", "fruit", "bark", "habit", "other"}

// ValidOrgans returns the accepted organ tags in their canonical order.
func ValidOrgans() []string {
	organs := make([]string, len(validOrgans))
	copy(organs, validOrgans)
	return organs
}

// IsValidOrgan reports whether tag is one of the accepted organ tags.
func IsValidOrgan(tag string) bool {
	for _, organ := range validOrgans {
		if tag == organ {
			return true
		}
	}
	return false
}

// NormalizeOrgans filters organs down to the accepted set, preserving order.
// When nothing survives the filter it returns the single default tag.
func NormalizeOrgans(organs []string) []string {
	var filtered []string
	for _, organ := range organs {
		if IsValidOrgan(organ) {
			filtered = append(filtered, organ)
		}
	}
	if len(filtered) == 0 {
		return []string{DefaultOrgan}
	}
	return filtered
}
