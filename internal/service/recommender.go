package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/mealmind/backend/internal/models"
)

// MealRecommender turns a complete profile into one concrete meal
// suggestion. It tries the recipe search first and degrades to a
// model-only suggestion when the search fails; a repeat call after
// dissatisfaction must produce a materially different dish.
type MealRecommender struct {
	inference IInferenceClient
	tool      IToolClient
}

// NewMealRecommender creates a new MealRecommender instance. tool may
// be nil, in which case every suggestion is model-only.
func NewMealRecommender(inference IInferenceClient, tool IToolClient) *MealRecommender {
	return &MealRecommender{inference: inference, tool: tool}
}

// Recommend produces a suggestion for the profile. A non-nil prior is
// the recommendation the user just rejected; its summary is excluded.
func (r *MealRecommender) Recommend(ctx context.Context, profile *models.UserProfile, prior *models.Recommendation) (string, *models.Recommendation, error) {
	criteria := buildCriteria(profile)
	if prior != nil {
		criteria.ExcludeSummary = prior.Summary
	}

	source := models.RecommendationSourceModel
	recipe := ""
	if r.tool != nil {
		found, err := r.tool.SearchRecipe(ctx, criteria)
		if err != nil {
			log.Printf("recipe search unavailable for user %s, using model-only suggestion: %v", profile.UserID, err)
		} else {
			recipe = found
			source = models.RecommendationSourceTool
		}
	}

	reply, err := r.inference.Generate(ctx, recommendationPrompt(profile, criteria, recipe), nil, recommendationRequest(criteria))
	if err != nil {
		return "", nil, err
	}

	summary := summarize(reply)
	if summary == "" {
		return "", nil, fmt.Errorf("empty recommendation from inference API")
	}
	if prior != nil && strings.EqualFold(summary, prior.Summary) {
		return "", nil, fmt.Errorf("recommendation %q repeats the rejected suggestion", summary)
	}

	rec := &models.Recommendation{
		ID:        uuid.New().String(),
		Summary:   summary,
		Criteria:  criteria,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
	return reply, rec, nil
}

// buildCriteria derives structured suggestion criteria from the
// profile: cuisine preferences, condition exclusions ordered by
// severity, and general guidance from BMI category and age.
func buildCriteria(profile *models.UserProfile) models.RecommendationCriteria {
	criteria := models.RecommendationCriteria{
		Cuisine:          profile.PrimaryCuisine,
		SecondaryCuisine: profile.SecondaryCuisine,
	}

	conditions := append([]models.MedicalCondition(nil), profile.MedicalConditions...)
	sort.SliceStable(conditions, func(i, j int) bool {
		return severityRank(conditions[i].Intensity) > severityRank(conditions[j].Intensity)
	})
	for _, mc := range conditions {
		criteria.Exclusions = append(criteria.Exclusions,
			fmt.Sprintf("avoid ingredients unsuitable for %s %s", mc.Intensity, mc.Condition))
	}

	switch profile.BMICategory() {
	case models.BMIUnderweight:
		criteria.Guidance = append(criteria.Guidance, "favor calorie-dense, nutrient-rich meals")
	case models.BMIOverweight, models.BMIObese:
		criteria.Guidance = append(criteria.Guidance, "favor lower-calorie, high-fiber meals")
	}
	if profile.Age >= 60 {
		criteria.Guidance = append(criteria.Guidance, "favor heart-healthy, easy-to-digest meals")
	}

	return criteria
}

func severityRank(intensity string) int {
	switch intensity {
	case models.IntensitySevere:
		return 3
	case models.IntensityModerate:
		return 2
	case models.IntensityMild:
		return 1
	}
	return 0
}

func recommendationPrompt(profile *models.UserProfile, criteria models.RecommendationCriteria, recipe string) string {
	var b strings.Builder
	b.WriteString("You are a meal recommendation assistant. Suggest one specific meal for the user below. Start your reply with the dish name on its own line, then briefly explain why it fits.\n")
	fmt.Fprintf(&b, "User: %s, age %d", profile.Name, profile.Age)
	if category := profile.BMICategory(); category != "" {
		fmt.Fprintf(&b, ", BMI category %s", category)
	}
	b.WriteString(".\n")
	fmt.Fprintf(&b, "Preferred cuisine: %s", criteria.Cuisine)
	if criteria.SecondaryCuisine != "" {
		fmt.Fprintf(&b, " (also enjoys %s)", criteria.SecondaryCuisine)
	}
	b.WriteString(".\n")
	for _, exclusion := range criteria.Exclusions {
		fmt.Fprintf(&b, "Constraint: %s.\n", exclusion)
	}
	for _, guidance := range criteria.Guidance {
		fmt.Fprintf(&b, "Guidance: %s.\n", guidance)
	}
	if criteria.ExcludeSummary != "" {
		fmt.Fprintf(&b, "Do not suggest %q again; propose a clearly different dish.\n", criteria.ExcludeSummary)
	}
	if recipe != "" {
		b.WriteString("Base the suggestion on this recipe:\n")
		b.WriteString(recipe)
	}
	return b.String()
}

func recommendationRequest(criteria models.RecommendationCriteria) string {
	if criteria.ExcludeSummary != "" {
		return "That suggestion didn't work for me. Please suggest a different meal."
	}
	return "Please suggest a meal for me."
}

// summarize extracts the dish name: the first non-empty line of the
// reply, stripped of markdown decoration.
func summarize(reply string) string {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimLeft(line, "#*->• \t")
		line = strings.Trim(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
