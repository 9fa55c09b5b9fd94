package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowState identifies where a session sits in the conversation
// state machine. The orchestrator is the only writer of this value.
type WorkflowState string

const (
	StateIntentDetection   WorkflowState = "intent_detection"
	StateProfileCollection WorkflowState = "profile_collection"
	StateMealSuggestion    WorkflowState = "meal_suggestion"
	StateSatisfactionCheck WorkflowState = "satisfaction_check"
	StateNormalChat        WorkflowState = "normal_chat"
	StateRateLimited       WorkflowState = "rate_limited"
	StateTurnEnd           WorkflowState = "turn_end"
)

// Valid reports whether s is one of the enumerated workflow states.
func (s WorkflowState) Valid() bool {
	switch s {
	case StateIntentDetection, StateProfileCollection, StateMealSuggestion,
		StateSatisfactionCheck, StateNormalChat, StateRateLimited, StateTurnEnd:
		return true
	}
	return false
}

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentMealRequest     Intent = "meal_request"
	IntentNormalChat      Intent = "normal_chat"
	IntentRateLimitSignal Intent = "rate_limit_signal"
)

// Sentiment is the classified reaction to the last recommendation.
type Sentiment string

const (
	SentimentSatisfied    Sentiment = "satisfied"
	SentimentDissatisfied Sentiment = "dissatisfied"
)

// ProfileField names a slot in the profile collection schema.
type ProfileField string

const (
	FieldName              ProfileField = "name"
	FieldAge               ProfileField = "age"
	FieldHeight            ProfileField = "height"
	FieldWeight            ProfileField = "weight"
	FieldMedicalConditions ProfileField = "medical_conditions"
	FieldPrimaryCuisine    ProfileField = "primary_cuisine"
	FieldSecondaryCuisine  ProfileField = "secondary_cuisine"
)

// Exchange roles in the conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Exchange is one message of the bounded conversation history.
type Exchange struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConditionEntry is a medical condition captured during slot-filling,
// before it is persisted as a MedicalCondition row.
type ConditionEntry struct {
	Condition string `json:"condition"`
	Intensity string `json:"intensity"`
}

// PendingProfile is the partial profile built field by field during
// collection. Numeric fields are pointers so "not yet answered" is
// distinguishable from a zero value; optional fields deserialize to
// absent when missing.
type PendingProfile struct {
	Name              string           `json:"name,omitempty"`
	Age               *int             `json:"age,omitempty"`
	HeightCM          *float64         `json:"height_cm,omitempty"`
	WeightKG          *float64         `json:"weight_kg,omitempty"`
	MedicalConditions []ConditionEntry `json:"medical_conditions,omitempty"`
	// ConditionsAnswered records an explicit answer, including "none",
	// since an empty condition list is a valid complete answer.
	ConditionsAnswered bool   `json:"conditions_answered,omitempty"`
	PrimaryCuisine     string `json:"primary_cuisine,omitempty"`
	SecondaryCuisine   string `json:"secondary_cuisine,omitempty"`
	// SecondaryResolved is set once the user has either given a
	// secondary cuisine or declined one.
	SecondaryResolved bool `json:"secondary_resolved,omitempty"`
}

// Recommendation sources.
const (
	RecommendationSourceTool  = "tool"
	RecommendationSourceModel = "model"
)

// RecommendationCriteria is the structured input the recommender built
// the suggestion from, kept so a retry can exclude the prior result.
type RecommendationCriteria struct {
	Cuisine          string   `json:"cuisine"`
	SecondaryCuisine string   `json:"secondary_cuisine,omitempty"`
	Exclusions       []string `json:"exclusions,omitempty"`
	Guidance         []string `json:"guidance,omitempty"`
	ExcludeSummary   string   `json:"exclude_summary,omitempty"`
}

// Recommendation is the most recent meal suggestion for a session.
type Recommendation struct {
	ID        string                 `json:"id"`
	Summary   string                 `json:"summary"`
	Criteria  RecommendationCriteria `json:"criteria"`
	Source    string                 `json:"source"`
	CreatedAt time.Time              `json:"created_at"`
}

// SessionState is the durable per-session record passed into and
// returned from every turn. It is mutated only by the orchestrator
// between turns and persisted by the caller.
type SessionState struct {
	SessionID          string          `json:"session_id"`
	UserID             string          `json:"user_id"`
	WorkflowState      WorkflowState   `json:"workflow_state"`
	PendingProfile     PendingProfile  `json:"pending_profile"`
	NextMissingField   ProfileField    `json:"next_missing_field,omitempty"`
	LastRecommendation *Recommendation `json:"last_recommendation,omitempty"`
	History            []Exchange      `json:"history,omitempty"`
	TurnCount          int             `json:"turn_count"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// HistoryLimit bounds the stored conversation history.
const HistoryLimit = 20

// NewSessionState creates a fresh session for the given user.
func NewSessionState(userID string) *SessionState {
	now := time.Now().UTC()
	return &SessionState{
		SessionID:     uuid.New().String(),
		UserID:        userID,
		WorkflowState: StateIntentDetection,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AppendExchange records a message in the history, dropping the oldest
// entries beyond HistoryLimit.
func (s *SessionState) AppendExchange(role, content string) {
	s.History = append(s.History, Exchange{Role: role, Content: content})
	if len(s.History) > HistoryLimit {
		s.History = s.History[len(s.History)-HistoryLimit:]
	}
}

// RecentHistory returns up to n of the most recent exchanges.
func (s *SessionState) RecentHistory(n int) []Exchange {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	if len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// Clone returns a deep copy, so a failed turn can leave the stored
// session untouched.
func (s *SessionState) Clone() *SessionState {
	out := *s
	if s.PendingProfile.Age != nil {
		v := *s.PendingProfile.Age
		out.PendingProfile.Age = &v
	}
	if s.PendingProfile.HeightCM != nil {
		v := *s.PendingProfile.HeightCM
		out.PendingProfile.HeightCM = &v
	}
	if s.PendingProfile.WeightKG != nil {
		v := *s.PendingProfile.WeightKG
		out.PendingProfile.WeightKG = &v
	}
	out.PendingProfile.MedicalConditions = append([]ConditionEntry(nil), s.PendingProfile.MedicalConditions...)
	out.History = append([]Exchange(nil), s.History...)
	if s.LastRecommendation != nil {
		rec := *s.LastRecommendation
		rec.Criteria.Exclusions = append([]string(nil), s.LastRecommendation.Criteria.Exclusions...)
		rec.Criteria.Guidance = append([]string(nil), s.LastRecommendation.Criteria.Guidance...)
		out.LastRecommendation = &rec
	}
	return &out
}
