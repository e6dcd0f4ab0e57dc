// internal/prompt/compiler.go

// Package prompt turns a Selection into the single user message sent to the model.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"devscreen-workers/internal/models"
	"devscreen-workers/internal/taxonomy"
)

const (
	header      = "Based on the following symptoms and criteria, predict the most likely early childhood developmental, emotional, or behavioral disorder:"
	instruction = "Provide a prediction with confidence level and brief explanation, including possible differential diagnoses."
)

// DisorderGroup is one line of the reference list appended to every prompt.
type DisorderGroup struct {
	Name      string
	Disorders string
}

// DisorderCatalog returns the reference disorder groups in prompt order.
func DisorderCatalog() []DisorderGroup {
	return []DisorderGroup{
		{"Neurodevelopmental", "ASD, ADHD, Intellectual Disability, Communication Disorders (Speech Sound, Language, Social Pragmatic), Specific Learning Disorders (Dyslexia, Dyscalculia), DCD, Tic Disorders (Tourette's)"},
		{"Emotional/Behavioral", "Separation Anxiety, GAD, Selective Mutism, Social Anxiety, ODD, CD, DMDD, OCD"},
		{"Mood", "MDD, Persistent Depressive Disorder, Bipolar Disorder"},
		{"Trauma/Stress", "RAD, DSED, PTSD, Adjustment Disorders"},
		{"Feeding/Eating", "ARFID, Pica, Rumination Disorder"},
		{"Sleep", "Insomnia, Nightmare Disorder, Sleep Arousal Disorders"},
		{"Other", "Sensory Processing Disorder, Childhood-Onset Schizophrenia"},
	}
}

// Compile renders sel as prompt text. It is pure: the same Selection always
// yields the same bytes. Symptoms are emitted in the order given and an empty
// list is not rejected here.
func Compile(sel models.Selection) string {
	var parts []string

	parts = append(parts, header, "")

	parts = append(parts, "Symptoms:")
	for _, s := range sel.Symptoms {
		parts = append(parts, "- "+s)
	}

	parts = append(parts, "", "Criteria:")
	for _, line := range CriteriaLines(sel.Criteria) {
		parts = append(parts, "- "+line)
	}

	parts = append(parts, "", "Possible disorders to consider:")
	for _, g := range DisorderCatalog() {
		parts = append(parts, fmt.Sprintf("- %s: %s", g.Name, g.Disorders))
	}

	parts = append(parts, instruction)

	return strings.Join(parts, "\n")
}

// CriteriaLines renders the five criteria as "label: value" in canonical order.
func CriteriaLines(c models.Criteria) []string {
	values := map[string]string{
		"ageOfOnsetMonths": strconv.Itoa(c.AgeOfOnsetMonths),
		"familyHistory":    formatBool(c.FamilyHistory),
		"traumaExposure":   formatBool(c.TraumaExposure),
		"milestoneDelays":  formatBool(c.MilestoneDelays),
		"severity":         strconv.Itoa(c.Severity),
	}

	specs := taxonomy.Criteria()
	lines := make([]string, 0, len(specs))
	for _, spec := range specs {
		lines = append(lines, spec.Label+": "+values[spec.Key])
	}
	return lines
}

// Booleans are rendered capitalised, as the model has always seen them.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
