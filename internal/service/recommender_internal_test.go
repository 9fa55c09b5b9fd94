package service

import (
	"testing"

	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	t.Run("should take the first non-empty line", func(t *testing.T) {
		assert.Equal(t, "Pad Thai", summarize("\n\nPad Thai\nA rice noodle dish."))
	})

	t.Run("should strip markdown decoration", func(t *testing.T) {
		assert.Equal(t, "Pad Thai", summarize("## **Pad Thai**\nwith shrimp"))
		assert.Equal(t, "Pad Thai", summarize("- Pad Thai"))
	})

	t.Run("should return empty for blank output", func(t *testing.T) {
		assert.Equal(t, "", summarize("  \n\t\n"))
	})
}

func TestBuildCriteria(t *testing.T) {
	profile := &models.UserProfile{
		UserID: "u1", Name: "Ada", Age: 67, HeightCM: 160, WeightKG: 90,
		PrimaryCuisine: "italian", SecondaryCuisine: "greek",
		MedicalConditions: []models.MedicalCondition{
			{Condition: "arthritis", Intensity: models.IntensityMild},
			{Condition: "diabetes", Intensity: models.IntensitySevere},
			{Condition: "hypertension", Intensity: models.IntensityModerate},
		},
	}

	criteria := buildCriteria(profile)

	t.Run("should carry both cuisines", func(t *testing.T) {
		assert.Equal(t, "italian", criteria.Cuisine)
		assert.Equal(t, "greek", criteria.SecondaryCuisine)
	})

	t.Run("should order exclusions by severity", func(t *testing.T) {
		assert.Equal(t, []string{
			"avoid ingredients unsuitable for severe diabetes",
			"avoid ingredients unsuitable for moderate hypertension",
			"avoid ingredients unsuitable for mild arthritis",
		}, criteria.Exclusions)
	})

	t.Run("should derive guidance from BMI category and age", func(t *testing.T) {
		// 90kg at 160cm is obese
		assert.Contains(t, criteria.Guidance, "favor lower-calorie, high-fiber meals")
		assert.Contains(t, criteria.Guidance, "favor heart-healthy, easy-to-digest meals")
	})

	t.Run("should add no guidance for a normal BMI young adult", func(t *testing.T) {
		plain := buildCriteria(&models.UserProfile{
			UserID: "u2", Name: "Ben", Age: 25, HeightCM: 180, WeightKG: 72,
			PrimaryCuisine: "thai",
		})
		assert.Empty(t, plain.Guidance)
		assert.Empty(t, plain.Exclusions)
	})
}

func TestReportsRateLimit(t *testing.T) {
	assert.True(t, reportsRateLimit("I'm sorry, you have hit the rate limit."))
	assert.True(t, reportsRateLimit("The service is currently experiencing high demand."))
	assert.False(t, reportsRateLimit("Pad Thai is a great choice."))
}

func TestSearchQuery(t *testing.T) {
	query := searchQuery(models.RecommendationCriteria{
		Cuisine:          "thai",
		SecondaryCuisine: "vietnamese",
		Exclusions:       []string{"avoid ingredients unsuitable for severe diabetes"},
		Guidance:         []string{"favor lower-calorie, high-fiber meals"},
		ExcludeSummary:   "Pad Thai",
	})
	assert.Contains(t, query, "Find a thai recipe")
	assert.Contains(t, query, "(or vietnamese)")
	assert.Contains(t, query, "severe diabetes")
	assert.Contains(t, query, "different dish than: Pad Thai")
}
