package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devscreen-workers/internal/models"
)

// ==========================
// Fixtures
// ==========================

func exampleSelection() models.Selection {
	return models.Selection{
		Symptoms: []string{"Delayed speech development", "Repetitive language"},
		Criteria: models.Criteria{
			AgeOfOnsetMonths: 24,
			FamilyHistory:    true,
			TraumaExposure:   false,
			MilestoneDelays:  true,
			Severity:         7,
		},
	}
}

const examplePrompt = "Based on the following symptoms and criteria, predict the most likely early childhood developmental, emotional, or behavioral disorder:\n\n" +
	"Symptoms:\n" +
	"- Delayed speech development\n" +
	"- Repetitive language\n" +
	"\nCriteria:\n" +
	"- Age of symptom onset (months): 24\n" +
	"- Family history of mental health or developmental disorders: True\n" +
	"- Exposure to trauma or significant stress: False\n" +
	"- Developmental milestone delays: True\n" +
	"- Severity of symptoms (1-10 scale): 7\n" +
	"\nPossible disorders to consider:\n" +
	"- Neurodevelopmental: ASD, ADHD, Intellectual Disability, Communication Disorders (Speech Sound, Language, Social Pragmatic), Specific Learning Disorders (Dyslexia, Dyscalculia), DCD, Tic Disorders (Tourette's)\n" +
	"- Emotional/Behavioral: Separation Anxiety, GAD, Selective Mutism, Social Anxiety, ODD, CD, DMDD, OCD\n" +
	"- Mood: MDD, Persistent Depressive Disorder, Bipolar Disorder\n" +
	"- Trauma/Stress: RAD, DSED, PTSD, Adjustment Disorders\n" +
	"- Feeding/Eating: ARFID, Pica, Rumination Disorder\n" +
	"- Sleep: Insomnia, Nightmare Disorder, Sleep Arousal Disorders\n" +
	"- Other: Sensory Processing Disorder, Childhood-Onset Schizophrenia\n" +
	"Provide a prediction with confidence level and brief explanation, including possible differential diagnoses."

// ==========================
// Compile
// ==========================

func TestCompile_ExampleScenario(t *testing.T) {
	assert.Equal(t, examplePrompt, Compile(exampleSelection()))
}

func TestCompile_Deterministic(t *testing.T) {
	sel := exampleSelection()
	first := Compile(sel)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compile(sel))
	}
}

func TestCompile_PreservesCallerOrder(t *testing.T) {
	sel := exampleSelection()
	sel.Symptoms = []string{"Repetitive language", "Delayed speech development"}

	out := Compile(sel)
	assert.Less(t,
		strings.Index(out, "- Repetitive language"),
		strings.Index(out, "- Delayed speech development"))
}

func TestCompile_EmptySymptomsStillRenders(t *testing.T) {
	out := Compile(models.Selection{Criteria: models.DefaultCriteria()})

	assert.Contains(t, out, "Symptoms:\n\nCriteria:\n")
	assert.Contains(t, out, "- Age of symptom onset (months): 0\n")
	assert.Contains(t, out, "- Severity of symptoms (1-10 scale): 5\n")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestCompile_ExactlyFiveCriteriaLines(t *testing.T) {
	tests := []struct {
		name     string
		criteria models.Criteria
	}{
		{"defaults", models.DefaultCriteria()},
		{"all true", models.Criteria{AgeOfOnsetMonths: 120, FamilyHistory: true, TraumaExposure: true, MilestoneDelays: true, Severity: 10}},
		{"zero value", models.Criteria{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Compile(models.Selection{Symptoms: []string{"Impulsivity"}, Criteria: tt.criteria})

			start := strings.Index(out, "Criteria:\n")
			end := strings.Index(out, "\n\nPossible disorders to consider:")
			require.True(t, start >= 0 && end > start)

			block := strings.Split(out[start+len("Criteria:\n"):end], "\n")
			require.Len(t, block, 5)
			for i, spec := range []string{
				"Age of symptom onset (months): ",
				"Family history of mental health or developmental disorders: ",
				"Exposure to trauma or significant stress: ",
				"Developmental milestone delays: ",
				"Severity of symptoms (1-10 scale): ",
			} {
				assert.True(t, strings.HasPrefix(block[i], "- "+spec), block[i])
			}
		})
	}
}

func TestCriteriaLines_BooleanRendering(t *testing.T) {
	lines := CriteriaLines(models.Criteria{FamilyHistory: true})
	assert.Equal(t, "Family history of mental health or developmental disorders: True", lines[1])
	assert.Equal(t, "Exposure to trauma or significant stress: False", lines[2])
}

func TestDisorderCatalog(t *testing.T) {
	groups := DisorderCatalog()
	require.Len(t, groups, 7)
	assert.Equal(t, "Neurodevelopmental", groups[0].Name)
	assert.Equal(t, "Other", groups[6].Name)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkCompile(b *testing.B) {
	sel := exampleSelection()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Compile(sel)
	}
}
