package service

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/pageza/mealmind/backend/internal/models"
)

// ProfileCollector drives slot-filling: one profile field per turn,
// validated locally with no model calls. When every required field is
// valid it persists the profile and proposes the meal suggestion state.
type ProfileCollector struct {
	profiles IProfileService
}

// NewProfileCollector creates a new ProfileCollector instance
func NewProfileCollector(profiles IProfileService) *ProfileCollector {
	return &ProfileCollector{profiles: profiles}
}

type fieldStep struct {
	prompt  string
	clarify string
	// apply parses the answer into the pending profile; false means
	// invalid, re-ask without advancing.
	apply func(p *models.PendingProfile, answer string) bool
}

var fieldSteps = map[models.ProfileField]fieldStep{
	models.FieldName: {
		prompt:  "Let's set up your meal profile. What's your name?",
		clarify: "I didn't catch a name there. What should I call you?",
		apply: func(p *models.PendingProfile, answer string) bool {
			name := strings.TrimSpace(answer)
			if name == "" {
				return false
			}
			p.Name = name
			return true
		},
	},
	models.FieldAge: {
		prompt:  "How old are you?",
		clarify: "Please give your age as a number between 13 and 120.",
		apply: func(p *models.PendingProfile, answer string) bool {
			age, ok := firstInt(answer)
			if !ok || age < models.MinAge || age > models.MaxAge {
				return false
			}
			p.Age = &age
			return true
		},
	},
	models.FieldHeight: {
		prompt:  "What's your height in centimeters?",
		clarify: "Please give your height as a positive number of centimeters, like 172.",
		apply: func(p *models.PendingProfile, answer string) bool {
			height, ok := firstFloat(answer)
			if !ok || height <= 0 {
				return false
			}
			p.HeightCM = &height
			return true
		},
	},
	models.FieldWeight: {
		prompt:  "What's your weight in kilograms?",
		clarify: "Please give your weight as a positive number of kilograms, like 68.",
		apply: func(p *models.PendingProfile, answer string) bool {
			weight, ok := firstFloat(answer)
			if !ok || weight <= 0 {
				return false
			}
			p.WeightKG = &weight
			return true
		},
	},
	models.FieldMedicalConditions: {
		prompt:  `Any medical conditions I should keep in mind? List them with a severity (mild, moderate, severe), or say "none".`,
		clarify: `Please list your medical conditions, or say "none".`,
		apply: func(p *models.PendingProfile, answer string) bool {
			if isDecline(answer) {
				p.MedicalConditions = nil
				p.ConditionsAnswered = true
				return true
			}
			entries := parseConditions(answer)
			if len(entries) == 0 {
				return false
			}
			p.MedicalConditions = entries
			p.ConditionsAnswered = true
			return true
		},
	},
	models.FieldPrimaryCuisine: {
		prompt:  "What's your favorite cuisine?",
		clarify: "Please name a cuisine, like Italian or Thai.",
		apply: func(p *models.PendingProfile, answer string) bool {
			cuisine := strings.TrimSpace(answer)
			if cuisine == "" || isDecline(cuisine) {
				return false
			}
			p.PrimaryCuisine = cuisine
			return true
		},
	},
	models.FieldSecondaryCuisine: {
		prompt:  `Any second-choice cuisine? You can say "no" to skip.`,
		clarify: `Please name a second cuisine, or say "no" to skip.`,
		apply: func(p *models.PendingProfile, answer string) bool {
			if isDecline(answer) {
				p.SecondaryResolved = true
				return true
			}
			cuisine := strings.TrimSpace(answer)
			if cuisine == "" {
				return false
			}
			p.SecondaryCuisine = cuisine
			p.SecondaryResolved = true
			return true
		},
	},
}

// collectionOrder is the fixed field sequence for slot-filling.
var collectionOrder = []models.ProfileField{
	models.FieldName,
	models.FieldAge,
	models.FieldHeight,
	models.FieldWeight,
	models.FieldMedicalConditions,
	models.FieldPrimaryCuisine,
	models.FieldSecondaryCuisine,
}

// Handle processes one collection turn. A session entering collection
// has no next-missing-field pointer yet; the triggering message is not
// treated as an answer, the first missing field is asked instead.
func (c *ProfileCollector) Handle(ctx context.Context, state *models.SessionState, message string) (string, models.WorkflowState, error) {
	p := &state.PendingProfile

	if nextMissingField(p) == "" {
		// All fields were collected on a previous turn but the save
		// failed; retry before anything else.
		return c.persist(ctx, state)
	}

	if state.NextMissingField == "" {
		missing := nextMissingField(p)
		state.NextMissingField = missing
		return fieldSteps[missing].prompt, models.StateProfileCollection, nil
	}

	step := fieldSteps[state.NextMissingField]
	if !step.apply(p, message) {
		return step.clarify, models.StateProfileCollection, nil
	}

	missing := nextMissingField(p)
	if missing == "" {
		return c.persist(ctx, state)
	}
	state.NextMissingField = missing
	return fieldSteps[missing].prompt, models.StateProfileCollection, nil
}

func (c *ProfileCollector) persist(ctx context.Context, state *models.SessionState) (string, models.WorkflowState, error) {
	profile := buildProfile(state.UserID, &state.PendingProfile)
	if err := c.profiles.SaveProfile(ctx, profile); err != nil {
		log.Printf("failed to save profile for user %s: %v", state.UserID, err)
		return "I couldn't save your profile just now. Send any message and I'll try again.",
			models.StateProfileCollection, nil
	}
	state.PendingProfile = models.PendingProfile{}
	state.NextMissingField = ""
	return "", models.StateMealSuggestion, nil
}

// nextMissingField returns the first unanswered field in collection
// order, or "" when the pending profile is fully collected.
func nextMissingField(p *models.PendingProfile) models.ProfileField {
	switch {
	case p.Name == "":
		return models.FieldName
	case p.Age == nil:
		return models.FieldAge
	case p.HeightCM == nil:
		return models.FieldHeight
	case p.WeightKG == nil:
		return models.FieldWeight
	case !p.ConditionsAnswered:
		return models.FieldMedicalConditions
	case p.PrimaryCuisine == "":
		return models.FieldPrimaryCuisine
	case !p.SecondaryResolved:
		return models.FieldSecondaryCuisine
	}
	return ""
}

func buildProfile(userID string, p *models.PendingProfile) *models.UserProfile {
	profile := &models.UserProfile{
		UserID:           userID,
		Name:             p.Name,
		Age:              *p.Age,
		HeightCM:         *p.HeightCM,
		WeightKG:         *p.WeightKG,
		PrimaryCuisine:   p.PrimaryCuisine,
		SecondaryCuisine: p.SecondaryCuisine,
	}
	for i, entry := range p.MedicalConditions {
		profile.MedicalConditions = append(profile.MedicalConditions, models.MedicalCondition{
			Condition: entry.Condition,
			Intensity: entry.Intensity,
			Position:  i,
		})
	}
	return profile
}

var numberPattern = regexp.MustCompile(`-?\d+(\.\d+)?`)

func firstInt(s string) (int, bool) {
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

func firstFloat(s string) (float64, bool) {
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDecline(s string) bool {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(s), ".,!")) {
	case "no", "none", "nope", "nothing", "n/a", "na", "skip", "no thanks", "no thank you":
		return true
	}
	return false
}

var conditionFiller = map[string]bool{
	"i": true, "have": true, "a": true, "some": true, "my": true, "with": true,
}

// parseConditions splits a free-text answer into condition entries.
// Intensity words anywhere in an entry set its severity; unspecified
// severity defaults to moderate.
func parseConditions(answer string) []models.ConditionEntry {
	normalized := strings.ReplaceAll(strings.ToLower(answer), " and ", ",")
	var entries []models.ConditionEntry
	for _, part := range strings.Split(normalized, ",") {
		intensity := models.IntensityModerate
		var words []string
		for _, w := range strings.Fields(part) {
			w = strings.Trim(w, ".,;:()")
			switch {
			case models.ValidIntensity(w):
				intensity = w
			case conditionFiller[w] || w == "":
			default:
				words = append(words, w)
			}
		}
		if len(words) == 0 {
			continue
		}
		entries = append(entries, models.ConditionEntry{
			Condition: strings.Join(words, " "),
			Intensity: intensity,
		})
	}
	return entries
}
