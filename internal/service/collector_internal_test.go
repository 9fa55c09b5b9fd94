package service

import (
	"testing"

	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseConditions(t *testing.T) {
	t.Run("should default intensity to moderate", func(t *testing.T) {
		entries := parseConditions("diabetes")
		assert.Equal(t, []models.ConditionEntry{
			{Condition: "diabetes", Intensity: models.IntensityModerate},
		}, entries)
	})

	t.Run("should pick up an explicit intensity anywhere in the entry", func(t *testing.T) {
		entries := parseConditions("severe diabetes, hypertension mild")
		assert.Equal(t, []models.ConditionEntry{
			{Condition: "diabetes", Intensity: models.IntensitySevere},
			{Condition: "hypertension", Intensity: models.IntensityMild},
		}, entries)
	})

	t.Run("should split on commas and the word and", func(t *testing.T) {
		entries := parseConditions("I have asthma and mild arthritis")
		assert.Len(t, entries, 2)
		assert.Equal(t, "asthma", entries[0].Condition)
		assert.Equal(t, "arthritis", entries[1].Condition)
		assert.Equal(t, models.IntensityMild, entries[1].Intensity)
	})

	t.Run("should return nothing for filler-only input", func(t *testing.T) {
		assert.Empty(t, parseConditions("i have some"))
	})
}

func TestIsDecline(t *testing.T) {
	for _, answer := range []string{"no", "None", "nope", "No thanks.", " n/a "} {
		assert.True(t, isDecline(answer), "expected decline: %q", answer)
	}
	for _, answer := range []string{"italian", "not really sure", ""} {
		assert.False(t, isDecline(answer), "expected non-decline: %q", answer)
	}
}

func TestNumberParsing(t *testing.T) {
	t.Run("should find the first integer in free text", func(t *testing.T) {
		n, ok := firstInt("I'm 34 years old")
		assert.True(t, ok)
		assert.Equal(t, 34, n)
	})

	t.Run("should reject text without digits", func(t *testing.T) {
		_, ok := firstInt("twelve")
		assert.False(t, ok)
	})

	t.Run("should parse decimals", func(t *testing.T) {
		f, ok := firstFloat("about 172.5 cm")
		assert.True(t, ok)
		assert.InDelta(t, 172.5, f, 0.001)
	})
}

func TestNextMissingField(t *testing.T) {
	p := &models.PendingProfile{}
	assert.Equal(t, models.FieldName, nextMissingField(p))

	p.Name = "Ada"
	assert.Equal(t, models.FieldAge, nextMissingField(p))

	age := 34
	p.Age = &age
	height := 170.0
	p.HeightCM = &height
	weight := 65.0
	p.WeightKG = &weight
	assert.Equal(t, models.FieldMedicalConditions, nextMissingField(p))

	// "none" is a complete answer even though the list stays empty.
	p.ConditionsAnswered = true
	assert.Equal(t, models.FieldPrimaryCuisine, nextMissingField(p))

	p.PrimaryCuisine = "thai"
	assert.Equal(t, models.FieldSecondaryCuisine, nextMissingField(p))

	p.SecondaryResolved = true
	assert.Equal(t, models.ProfileField(""), nextMissingField(p))
}
