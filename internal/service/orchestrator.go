package service

import (
	"context"
	"errors"
	"log"

	"github.com/pageza/mealmind/backend/internal/models"
)

// Canned replies for turns that never reach the model.
const (
	RateLimitApology     = "I'm sorry, I'm receiving too many requests right now. Please try again in a moment."
	retryApology         = "Sorry, something went wrong on my end. Please send that again."
	satisfiedReply       = "Great, enjoy your meal! Ask me anytime you want another suggestion."
	noNewSuggestionReply = "No problem. Just ask whenever you'd like another meal idea."
)

// Orchestrator is the conversation state machine. It is the sole
// writer of the session's workflow state: each task only proposes the
// next state, and every turn executes exactly one transition out of
// the session's entry state.
type Orchestrator struct {
	intents      *IntentClassifier
	collector    *ProfileCollector
	recommender  *MealRecommender
	satisfaction *SatisfactionEvaluator
	chat         *ChatService
	profiles     IProfileService
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(
	intents *IntentClassifier,
	collector *ProfileCollector,
	recommender *MealRecommender,
	satisfaction *SatisfactionEvaluator,
	chat *ChatService,
	profiles IProfileService,
) *Orchestrator {
	return &Orchestrator{
		intents:      intents,
		collector:    collector,
		recommender:  recommender,
		satisfaction: satisfaction,
		chat:         chat,
		profiles:     profiles,
	}
}

// ProcessTurn runs one conversation turn and returns the assistant
// reply plus the session state to persist. The input state is never
// mutated: a failed turn returns a copy of the pre-turn state so the
// session resumes exactly where it was.
func (o *Orchestrator) ProcessTurn(ctx context.Context, state *models.SessionState, message string) (string, *models.SessionState) {
	working := state.Clone()

	reply, next, err := o.route(ctx, working, message)
	switch {
	case errors.Is(err, ErrRateLimited):
		limited := state.Clone()
		limited.WorkflowState = models.StateRateLimited
		return RateLimitApology, limited
	case err != nil:
		log.Printf("turn failed for session %s in state %s: %v", state.SessionID, state.WorkflowState, err)
		return retryApology, state.Clone()
	}

	working.WorkflowState = next
	working.AppendExchange(models.RoleUser, message)
	working.AppendExchange(models.RoleAssistant, reply)
	working.TurnCount++
	return reply, working
}

// route dispatches the message to the task owning the entry state.
func (o *Orchestrator) route(ctx context.Context, working *models.SessionState, message string) (string, models.WorkflowState, error) {
	switch entryState(working.WorkflowState) {
	case models.StateProfileCollection:
		reply, next, err := o.collector.Handle(ctx, working, message)
		if err != nil {
			return "", "", err
		}
		if next == models.StateMealSuggestion {
			return o.suggest(ctx, working, nil)
		}
		return reply, next, nil
	case models.StateSatisfactionCheck:
		return o.checkSatisfaction(ctx, working, message)
	default:
		return o.detectIntent(ctx, working, message)
	}
}

// entryState maps the persisted end-of-turn state to the state the
// next message enters. Only profile collection and satisfaction check
// wait for an answer; everything else starts a fresh turn at intent
// detection.
func entryState(s models.WorkflowState) models.WorkflowState {
	switch s {
	case models.StateProfileCollection, models.StateSatisfactionCheck:
		return s
	}
	return models.StateIntentDetection
}

func (o *Orchestrator) detectIntent(ctx context.Context, working *models.SessionState, message string) (string, models.WorkflowState, error) {
	switch o.intents.Classify(ctx, working, message) {
	case models.IntentRateLimitSignal:
		return "", "", ErrRateLimited
	case models.IntentMealRequest:
		profile, err := o.profiles.GetProfile(ctx, working.UserID)
		switch {
		case errors.Is(err, ErrProfileNotFound):
			return o.collector.Handle(ctx, working, message)
		case err != nil:
			return "", "", err
		case !profile.IsComplete():
			return o.collector.Handle(ctx, working, message)
		}
		return o.suggestWith(ctx, working, profile, nil)
	default:
		reply, err := o.chat.Reply(ctx, working, message)
		if err != nil {
			return "", "", err
		}
		return reply, models.StateTurnEnd, nil
	}
}

// suggest looks the profile up fresh and produces a recommendation.
// Stored profiles are never trusted from cache across turns.
func (o *Orchestrator) suggest(ctx context.Context, working *models.SessionState, prior *models.Recommendation) (string, models.WorkflowState, error) {
	profile, err := o.profiles.GetProfile(ctx, working.UserID)
	if errors.Is(err, ErrProfileNotFound) {
		// The profile vanished between turns; rebuild it from scratch.
		working.PendingProfile = models.PendingProfile{}
		working.NextMissingField = ""
		return o.collector.Handle(ctx, working, "")
	}
	if err != nil {
		return "", "", err
	}
	return o.suggestWith(ctx, working, profile, prior)
}

func (o *Orchestrator) suggestWith(ctx context.Context, working *models.SessionState, profile *models.UserProfile, prior *models.Recommendation) (string, models.WorkflowState, error) {
	reply, rec, err := o.recommender.Recommend(ctx, profile, prior)
	if err != nil {
		return "", "", err
	}
	working.LastRecommendation = rec
	return reply, models.StateSatisfactionCheck, nil
}

func (o *Orchestrator) checkSatisfaction(ctx context.Context, working *models.SessionState, message string) (string, models.WorkflowState, error) {
	result, err := o.satisfaction.Evaluate(ctx, message)
	if err != nil {
		return "", "", err
	}
	if result.Sentiment == models.SentimentSatisfied {
		return satisfiedReply, models.StateTurnEnd, nil
	}
	if !result.WantsNew {
		return noNewSuggestionReply, models.StateTurnEnd, nil
	}
	return o.suggest(ctx, working, working.LastRecommendation)
}
