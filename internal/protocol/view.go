package protocol

import (
	"github.com/opsych/ophtheon/internal/model"
	"github.com/opsych/ophtheon/internal/question"
)

// StageView is what the console needs to render the session's current
// stage: the questions to show, in the order to show them.
type StageView struct {
	Stage     model.Stage `json:"stage"`
	CoreClaim string      `json:"coreClaim,omitempty"`

	Instruction string   `json:"instruction,omitempty"`
	Truth       string   `json:"truth,omitempty"`
	Relevant    []string `json:"relevant,omitempty"`
	Disposition []string `json:"disposition,omitempty"`
	Comparison  []string `json:"comparison,omitempty"`
	Neutral     []string `json:"neutral,omitempty"`

	// Rehearsal items in presented order (final rehearsal stage only)
	Rehearsal []model.RehearsalItem `json:"rehearsal,omitempty"`

	// QuestionSet is exposed once the interview completes
	QuestionSet *model.QuestionSet `json:"questionSet,omitempty"`
}

// Describe builds the view for the session's current stage
func Describe(s *model.InterviewSession) *StageView {
	v := &StageView{Stage: s.Stage}
	if s.Case != nil {
		v.CoreClaim = s.Case.CoreClaim
	}

	switch s.Stage {
	case model.StageAttitudeDrill:
		v.Instruction, v.Truth = question.AttitudeQuestions()
	case model.StageRelevantDrill:
		v.Relevant = s.RelevantQuestions
	case model.StageDispositionSurvey:
		v.Disposition = question.DispositionItems
	case model.StageComparisonDrill:
		for _, idx := range s.ComparisonIndices {
			v.Comparison = append(v.Comparison, question.DispositionItems[idx])
		}
	case model.StageNeutralDrill:
		if s.Case != nil {
			v.Neutral = question.NeutralQuestions(s.Case.Name, s.Case.Gender, s.Case.Age)
		}
	case model.StageFinalRehearsal:
		for _, pos := range s.RehearsalOrder {
			v.Rehearsal = append(v.Rehearsal, s.Rehearsal[pos])
		}
	case model.StageComplete:
		v.QuestionSet = s.QuestionSet
	}
	return v
}
