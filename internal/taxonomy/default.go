// internal/taxonomy/default.go
package taxonomy

import "devscreen-workers/internal/models"

// Categories returns the built-in symptom taxonomy. A fresh slice is built on
// every call, so callers may modify the result freely.
func Categories() []models.TaxonomyEntry {
	return []models.TaxonomyEntry{
		{
			Category: "Social Interaction",
			Symptoms: []string{
				"Limited eye contact",
				"Difficulty with social reciprocity",
				"Lack of peer relationships",
				"Excessive social disinhibition",
				"Avoids social situations",
			},
		},
		{
			Category: "Communication",
			Symptoms: []string{
				"Delayed speech development",
				"Repetitive language",
				"Difficulty with conversation",
				"Speech articulation problems",
				"Lack of nonverbal communication",
				"Selective mutism (refusal to speak in certain situations)",
			},
		},
		{
			Category: "Behavior",
			Symptoms: []string{
				"Repetitive movements",
				"Intense focus on specific interests",
				"Resistance to change",
				"Impulsivity",
				"Aggressive outbursts",
				"Defiance of rules/authority",
				"Motor tics or vocal tics",
			},
		},
		{
			Category: "Emotional Regulation",
			Symptoms: []string{
				"Excessive anxiety or fear",
				"Persistent sadness",
				"Extreme mood swings",
				"Temper tantrums beyond age expectation",
				"Obsessive thoughts or compulsive behaviors",
				"Difficulty separating from caregivers",
			},
		},
		{
			Category: "Cognitive/Learning",
			Symptoms: []string{
				"Difficulty with reading/writing (dyslexia)",
				"Problems with math skills (dyscalculia)",
				"Poor memory or attention",
				"Delayed developmental milestones",
				"General intellectual impairment",
			},
		},
		{
			Category: "Motor Skills",
			Symptoms: []string{
				"Clumsiness or poor coordination",
				"Difficulty with fine motor tasks (e.g., writing)",
				"Sleepwalking or night terrors",
			},
		},
		{
			Category: "Sensory/Feeding",
			Symptoms: []string{
				"Sensory sensitivities (e.g., to noise, textures)",
				"Restricted food intake (picky eating beyond normal)",
				"Eating non-food items (pica)",
				"Regurgitation of food (rumination)",
			},
		},
		{
			Category: "Sleep",
			Symptoms: []string{
				"Difficulty falling/staying asleep",
				"Frequent nightmares",
				"Sleep terrors or sleepwalking",
			},
		},
	}
}

// Criteria returns the five criteria in the order they are rendered.
func Criteria() []models.CriterionSpec {
	return []models.CriterionSpec{
		{
			Key:   "ageOfOnsetMonths",
			Label: "Age of symptom onset (months)",
			Kind:  models.CriterionKindInteger,
			Min:   models.MinAgeOfOnsetMonths,
			Max:   models.MaxAgeOfOnsetMonths,
		},
		{
			Key:   "familyHistory",
			Label: "Family history of mental health or developmental disorders",
			Kind:  models.CriterionKindBoolean,
		},
		{
			Key:   "traumaExposure",
			Label: "Exposure to trauma or significant stress",
			Kind:  models.CriterionKindBoolean,
		},
		{
			Key:   "milestoneDelays",
			Label: "Developmental milestone delays",
			Kind:  models.CriterionKindBoolean,
		},
		{
			Key:   "severity",
			Label: "Severity of symptoms (1-10 scale)",
			Kind:  models.CriterionKindInteger,
			Min:   models.MinSeverity,
			Max:   models.MaxSeverity,
		},
	}
}
