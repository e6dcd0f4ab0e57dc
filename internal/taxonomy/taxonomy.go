// internal/taxonomy/taxonomy.go

// Package taxonomy holds the fixed catalog of selectable symptoms and criteria.
package taxonomy

import "devscreen-workers/internal/models"

// Symptoms returns every symptom label flattened in taxonomy order.
func Symptoms() []string {
	var out []string
	for _, entry := range Categories() {
		out = append(out, entry.Symptoms...)
	}
	return out
}

// CategoryOf reports the category a symptom label belongs to.
func CategoryOf(symptom string) (string, bool) {
	for _, entry := range Categories() {
		for _, s := range entry.Symptoms {
			if s == symptom {
				return entry.Category, true
			}
		}
	}
	return "", false
}

// IsSymptom reports whether label is a known symptom.
func IsSymptom(label string) bool {
	_, ok := CategoryOf(label)
	return ok
}

// Canonicalize orders symptoms by their position in the taxonomy and drops
// duplicates. Labels not found in the taxonomy are returned separately, in
// the order first seen.
func Canonicalize(symptoms []string) (known []string, unknown []string) {
	selected := make(map[string]bool, len(symptoms))
	seenUnknown := make(map[string]bool)
	for _, s := range symptoms {
		if IsSymptom(s) {
			selected[s] = true
			continue
		}
		if !seenUnknown[s] {
			seenUnknown[s] = true
			unknown = append(unknown, s)
		}
	}

	for _, s := range Symptoms() {
		if selected[s] {
			known = append(known, s)
		}
	}
	return known, unknown
}

// ByCategory groups the given symptoms under their categories, keeping
// taxonomy order and omitting empty categories.
func ByCategory(symptoms []string) []models.TaxonomyEntry {
	selected := make(map[string]bool, len(symptoms))
	for _, s := range symptoms {
		selected[s] = true
	}

	var out []models.TaxonomyEntry
	for _, entry := range Categories() {
		var picked []string
		for _, s := range entry.Symptoms {
			if selected[s] {
				picked = append(picked, s)
			}
		}
		if len(picked) > 0 {
			out = append(out, models.TaxonomyEntry{Category: entry.Category, Symptoms: picked})
		}
	}
	return out
}
