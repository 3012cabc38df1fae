package model

import "time"

// Stage identifies one screen of the interview protocol
type Stage string

const (
	StageIntake            Stage = "intake"
	StageBriefing          Stage = "briefing"
	StageAttitudeDrill     Stage = "attitude_drill"
	StageRelevantDrill     Stage = "relevant_drill"
	StageDispositionSurvey Stage = "disposition_survey"
	StageComparisonDrill   Stage = "comparison_drill"
	StageNeutralDrill      Stage = "neutral_drill"
	StageFinalRehearsal    Stage = "final_rehearsal"
	StageComplete          Stage = "complete"
)

// RehearsalItem is one entry of the final combined rehearsal: a question
// paired with the answer the drill expects.
type RehearsalItem struct {
	Category Category `json:"category" bson:"category"`
	Ordinal  int      `json:"ordinal" bson:"ordinal"`
	Text     string   `json:"text" bson:"text"`
	Expected Answer   `json:"expected" bson:"expected"`
}

// InterviewSession holds all state accumulated while walking a single
// subject through the pre-test interview. The session is owned exclusively
// by one interview; it is discarded on reset.
type InterviewSession struct {
	ID    string `json:"id" bson:"_id,omitempty"`
	Stage Stage  `json:"stage" bson:"stage"`

	Case *CaseInfo `json:"case,omitempty" bson:"case,omitempty"`

	// Relevant questions instantiated once intake validates
	RelevantQuestions []string `json:"relevantQuestions,omitempty" bson:"relevantQuestions,omitempty"`

	// Disposition survey responses, one flag per bank item. Unanswered
	// items read as false.
	DispositionAnswers []bool `json:"dispositionAnswers,omitempty" bson:"dispositionAnswers,omitempty"`

	// Bank indices selected as comparison questions. Drawn when the survey
	// validates and kept while every drawn index is still answered yes;
	// re-drawn when the answers change out from under it, cleared by
	// backing past the survey or by reset.
	ComparisonIndices []int `json:"comparisonIndices,omitempty" bson:"comparisonIndices,omitempty"`

	// Final rehearsal items and their presentation order. The order is
	// regenerated on each entry into the final rehearsal stage and stays
	// stable while the stage is showing.
	Rehearsal      []RehearsalItem `json:"rehearsal,omitempty" bson:"rehearsal,omitempty"`
	RehearsalOrder []int           `json:"rehearsalOrder,omitempty" bson:"rehearsalOrder,omitempty"`

	// Assembled during the neutral-drill transition; immutable afterward
	QuestionSet *QuestionSet `json:"questionSet,omitempty" bson:"questionSet,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
