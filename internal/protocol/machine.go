// Package protocol implements the interview state machine: the ordered
// drill stages that collect case data, rehearse every question category
// with expected-polarity checking, and assemble the final question set.
package protocol

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/opsych/ophtheon/internal/config"
	"github.com/opsych/ophtheon/internal/model"
	"github.com/opsych/ophtheon/internal/question"
)

var (
	ErrAlreadyComplete = errors.New("interview already complete")
	ErrNoEarlierStage  = errors.New("no earlier stage to go back to")
	ErrNotComplete     = errors.New("interview not complete")
)

var validate = validator.New()

// ValidationError is a user-correctable rule violation: the stage re-enters
// with the message and nothing about the session changes.
type ValidationError struct {
	Stage   model.Stage `json:"stage"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func failStage(stage model.Stage, code, message string) error {
	return &ValidationError{Stage: stage, Code: code, Message: message}
}

// IntakeInput carries the intake form fields
type IntakeInput struct {
	Role            string `json:"role" validate:"required"`
	RoleLabel       string `json:"roleLabel"`
	OffenseCategory string `json:"offenseCategory" validate:"required"`
	OffenseType     string `json:"offenseType"`
	OffenseFree     string `json:"offenseFree"`
	Name            string `json:"name" validate:"required"`
	Gender          string `json:"gender" validate:"required"`
	Age             int    `json:"age" validate:"gte=18,lte=80"`
	SleepHours      int    `json:"sleepHours" validate:"gte=0,lte=24"`
	MedUse          bool   `json:"medUse"`
	MedDetail       string `json:"medDetail"`
	Alcohol         bool   `json:"alcohol"`
	Smoking         bool   `json:"smoking"`
	Caffeine        bool   `json:"caffeine"`
	Consent         bool   `json:"consent"`
}

// AdvanceInput carries the stage-specific input for a forward transition.
// Only the field for the session's current stage is consulted.
type AdvanceInput struct {
	Intake      *IntakeInput            `json:"intake,omitempty"`
	Attitude    map[string]model.Answer `json:"attitude,omitempty"` // keys "I", "SR"
	Relevant    []model.Answer          `json:"relevant,omitempty"`
	Disposition map[int]model.Answer    `json:"disposition,omitempty"`
	Comparison  []model.Answer          `json:"comparison,omitempty"`
	Neutral     []model.Answer          `json:"neutral,omitempty"`
	// Final answers follow the presented rehearsal order
	Final []model.Answer `json:"final,omitempty"`
}

// Machine drives one interview session through the protocol stages. The
// random source is injected so comparison selection and rehearsal shuffling
// are reproducible under test.
type Machine struct {
	cfg config.Protocol
	rng *rand.Rand
}

// NewMachine creates a machine with the given protocol parameters
func NewMachine(cfg config.Protocol, rng *rand.Rand) *Machine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Machine{cfg: cfg, rng: rng}
}

// stageRule is one row of the transition table
type stageRule struct {
	prev    model.Stage
	next    model.Stage
	advance func(m *Machine, s *model.InterviewSession, in *AdvanceInput) error
	onBack  func(m *Machine, s *model.InterviewSession)
}

var transitions = map[model.Stage]stageRule{
	model.StageIntake: {
		next:    model.StageBriefing,
		advance: (*Machine).advanceIntake,
	},
	model.StageBriefing: {
		prev: model.StageIntake,
		next: model.StageAttitudeDrill,
	},
	model.StageAttitudeDrill: {
		prev:    model.StageBriefing,
		next:    model.StageRelevantDrill,
		advance: (*Machine).advanceAttitude,
	},
	model.StageRelevantDrill: {
		prev:    model.StageAttitudeDrill,
		next:    model.StageDispositionSurvey,
		advance: (*Machine).advanceRelevant,
	},
	model.StageDispositionSurvey: {
		prev:    model.StageRelevantDrill,
		next:    model.StageComparisonDrill,
		advance: (*Machine).advanceDisposition,
		onBack: func(m *Machine, s *model.InterviewSession) {
			// Backing past the survey invalidates the drawn selection
			s.ComparisonIndices = nil
		},
	},
	model.StageComparisonDrill: {
		prev:    model.StageDispositionSurvey,
		next:    model.StageNeutralDrill,
		advance: (*Machine).advanceComparison,
	},
	model.StageNeutralDrill: {
		prev:    model.StageComparisonDrill,
		next:    model.StageFinalRehearsal,
		advance: (*Machine).advanceNeutral,
	},
	model.StageFinalRehearsal: {
		prev:    model.StageNeutralDrill,
		next:    model.StageComplete,
		advance: (*Machine).advanceFinal,
		onBack: func(m *Machine, s *model.InterviewSession) {
			// The set is reassembled when the neutral drill revalidates
			s.QuestionSet = nil
			s.Rehearsal = nil
			s.RehearsalOrder = nil
		},
	},
	model.StageComplete: {
		prev: model.StageFinalRehearsal,
	},
}

// NewSession creates a fresh session positioned at intake
func NewSession(id string) *model.InterviewSession {
	now := time.Now()
	return &model.InterviewSession{
		ID:        id,
		Stage:     model.StageIntake,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Advance validates the current stage against the input and, if every rule
// holds, mutates the session and moves it forward. On a ValidationError the
// session is untouched.
func (m *Machine) Advance(s *model.InterviewSession, in *AdvanceInput) error {
	if s.Stage == model.StageComplete {
		return ErrAlreadyComplete
	}
	rule, ok := transitions[s.Stage]
	if !ok {
		return fmt.Errorf("unknown stage %q", s.Stage)
	}
	if in == nil {
		in = &AdvanceInput{}
	}
	if rule.advance != nil {
		if err := rule.advance(m, s, in); err != nil {
			return err
		}
	}
	s.Stage = rule.next
	if s.Stage == model.StageFinalRehearsal {
		m.enterFinalRehearsal(s)
	}
	s.UpdatedAt = time.Now()
	return nil
}

// Back moves to the previous stage, discarding state that the backward
// transition invalidates.
func (m *Machine) Back(s *model.InterviewSession) error {
	rule, ok := transitions[s.Stage]
	if !ok {
		return fmt.Errorf("unknown stage %q", s.Stage)
	}
	if rule.prev == "" {
		return ErrNoEarlierStage
	}
	if rule.onBack != nil {
		rule.onBack(m, s)
	}
	s.Stage = rule.prev
	if s.Stage == model.StageFinalRehearsal {
		// Re-entry reshuffles the presentation order
		m.enterFinalRehearsal(s)
	}
	s.UpdatedAt = time.Now()
	return nil
}

func (m *Machine) advanceIntake(s *model.InterviewSession, in *AdvanceInput) error {
	f := in.Intake
	if f == nil {
		return failStage(model.StageIntake, "missing_input", "기본 정보를 입력해 주세요.")
	}
	if !f.Consent {
		return failStage(model.StageIntake, "consent_required",
			"검사에 동의하지 않으면 검사를 진행할 수 없습니다.")
	}

	offenseText := deriveOffenseText(f)
	if strings.TrimSpace(f.Name) == "" || offenseText == "" {
		return failStage(model.StageIntake, "missing_fields",
			"이름과 사건 정보는 반드시 입력해 주세요.")
	}
	if err := validate.Struct(f); err != nil {
		return failStage(model.StageIntake, "invalid_fields",
			"입력하신 기본 정보를 다시 확인해 주세요.")
	}

	role := model.Role(f.Role)
	if !role.Valid() {
		return failStage(model.StageIntake, "invalid_fields",
			"입력하신 기본 정보를 다시 확인해 주세요.")
	}
	s.Case = &model.CaseInfo{
		Role:            role,
		RoleLabel:       f.RoleLabel,
		OffenseCategory: f.OffenseCategory,
		OffenseType:     f.OffenseType,
		OffenseFree:     f.OffenseFree,
		OffenseText:     offenseText,
		CoreClaim:       question.CoreClaim(role, offenseText),
		Name:            strings.TrimSpace(f.Name),
		Gender:          f.Gender,
		Age:             f.Age,
		SleepHours:      f.SleepHours,
		MedUse:          f.MedUse,
		MedDetail:       f.MedDetail,
		Alcohol:         f.Alcohol,
		Smoking:         f.Smoking,
		Caffeine:        f.Caffeine,
		Consent:         true,
	}
	s.RelevantQuestions = question.RelevantQuestions(role, offenseText)
	return nil
}

// deriveOffenseText resolves the offense description: the selected subtype,
// or the free text for "기타", or empty when nothing usable was entered.
func deriveOffenseText(f *IntakeInput) string {
	if f.OffenseType != "" && f.OffenseType != "기타" {
		return f.OffenseType
	}
	return strings.TrimSpace(f.OffenseFree)
}

func (m *Machine) advanceAttitude(s *model.InterviewSession, in *AdvanceInput) error {
	ansI := in.Attitude["I"]
	ansSR := in.Attitude["SR"]
	if ansI == model.AnswerNone || ansSR == model.AnswerNone {
		return failStage(model.StageAttitudeDrill, "unanswered",
			"두 문항 모두에 대해 '예' 또는 '아니오'를 선택해 주세요.")
	}
	if ansI != model.AnswerYes || ansSR != model.AnswerYes {
		return failStage(model.StageAttitudeDrill, "polarity",
			"기초 질문 두 문항은 모두 '예'로 응답해야 검사를 진행할 수 있습니다.")
	}
	return nil
}

func (m *Machine) advanceRelevant(s *model.InterviewSession, in *AdvanceInput) error {
	if len(in.Relevant) != len(s.RelevantQuestions) {
		return failStage(model.StageRelevantDrill, "unanswered",
			"세 문항 모두에 대해 '예' 또는 '아니오'를 선택해 주세요.")
	}
	expected := m.cfg.ExpectedRelevant[s.Case.Role]
	for _, ans := range in.Relevant {
		if ans == model.AnswerNone {
			return failStage(model.StageRelevantDrill, "unanswered",
				"세 문항 모두에 대해 '예' 또는 '아니오'를 선택해 주세요.")
		}
		if ans != expected {
			return failStage(model.StageRelevantDrill, "polarity",
				relevantConflictMessage(s.Case.Role))
		}
	}
	return nil
}

func relevantConflictMessage(role model.Role) string {
	if role == model.RoleVictim {
		return "사건 관련 질문에 대한 응답이 앞서 입력한 피해 주장과 어긋납니다. " +
			"현재 응답은 검사의 전제와 맞지 않으므로, 검사관과 상의해 주세요."
	}
	return "사건 관련 질문에 '예'라고 응답하면 혐의를 인정하는 것으로 해석됩니다. " +
		"이 경우 거짓말탐지 검사의 대상이 될 수 없으므로, 검사관과 상의해 주세요."
}

func (m *Machine) advanceDisposition(s *model.InterviewSession, in *AdvanceInput) error {
	answers := make([]bool, question.BankSize())
	anyYes := false
	for idx, ans := range in.Disposition {
		if idx < 0 || idx >= question.BankSize() {
			return failStage(model.StageDispositionSurvey, "bad_index",
				"성향 설문 응답이 올바르지 않습니다.")
		}
		if ans == model.AnswerYes {
			answers[idx] = true
			anyYes = true
		}
	}
	if !anyYes {
		return failStage(model.StageDispositionSurvey, "no_yes_answers",
			"적어도 한 문항 이상 '예'로 응답해야 성향 질문을 만들 수 있습니다.")
	}

	s.DispositionAnswers = answers
	// A prior draw survives re-submission only while every drawn index is
	// still answered "yes"; otherwise it is re-drawn from the new yes-set.
	if !selectionCovered(s.ComparisonIndices, answers) {
		s.ComparisonIndices = nil
	}
	if len(s.ComparisonIndices) == 0 {
		s.ComparisonIndices = question.PickComparisonIndices(m.rng, answers, m.cfg.ComparisonCount)
	}
	return nil
}

// selectionCovered reports whether every drawn comparison index carries a
// "yes" in the survey responses.
func selectionCovered(indices []int, answers []bool) bool {
	for _, idx := range indices {
		if idx >= len(answers) || !answers[idx] {
			return false
		}
	}
	return true
}

func (m *Machine) advanceComparison(s *model.InterviewSession, in *AdvanceInput) error {
	if len(in.Comparison) != len(s.ComparisonIndices) {
		return failStage(model.StageComparisonDrill, "unanswered",
			"선택된 성향 질문 모두에 대해 '예' 또는 '아니오'를 선택해 주세요.")
	}
	for _, ans := range in.Comparison {
		if ans == model.AnswerNone {
			return failStage(model.StageComparisonDrill, "unanswered",
				"선택된 성향 질문 모두에 대해 '예' 또는 '아니오'를 선택해 주세요.")
		}
		if ans != model.AnswerNo {
			return failStage(model.StageComparisonDrill, "polarity",
				"성향 질문은 모두 '아니오'로 연습해야 합니다.")
		}
	}
	return nil
}

func (m *Machine) advanceNeutral(s *model.InterviewSession, in *AdvanceInput) error {
	neutral := question.NeutralQuestions(s.Case.Name, s.Case.Gender, s.Case.Age)
	if len(in.Neutral) != len(neutral) {
		return failStage(model.StageNeutralDrill, "unanswered",
			"세 문항 모두에 대해 '예' 또는 '아니오'를 선택해 주세요.")
	}
	for _, ans := range in.Neutral {
		if ans == model.AnswerNone {
			return failStage(model.StageNeutralDrill, "unanswered",
				"세 문항 모두에 대해 '예' 또는 '아니오'를 선택해 주세요.")
		}
		if ans != model.AnswerYes {
			return failStage(model.StageNeutralDrill, "polarity",
				"인적 사항 질문은 연습 단계에서 모두 '예'로 응답해야 합니다.")
		}
	}

	comparison := make([]string, 0, len(s.ComparisonIndices))
	for _, idx := range s.ComparisonIndices {
		comparison = append(comparison, question.DispositionItems[idx])
	}
	instruction, truth := question.AttitudeQuestions()
	s.QuestionSet = &model.QuestionSet{
		CoreClaim:   s.Case.CoreClaim,
		Instruction: instruction,
		Truth:       truth,
		Neutral:     neutral,
		Comparison:  comparison,
		Relevant:    s.RelevantQuestions,
	}
	return nil
}

// enterFinalRehearsal builds the combined rehearsal items and (re)draws the
// presentation order. Called on every entry into the stage, so the order is
// fresh per entry but stable within it.
func (m *Machine) enterFinalRehearsal(s *model.InterviewSession) {
	qs := s.QuestionSet
	expectedR := m.cfg.ExpectedRelevant[s.Case.Role]

	items := []model.RehearsalItem{
		{Category: model.CategoryInstruction, Ordinal: 1, Text: qs.Instruction, Expected: model.AnswerYes},
		{Category: model.CategoryTruth, Ordinal: 1, Text: qs.Truth, Expected: model.AnswerYes},
	}
	for i, q := range qs.Neutral {
		items = append(items, model.RehearsalItem{
			Category: model.CategoryNeutral, Ordinal: i + 1, Text: q, Expected: model.AnswerYes,
		})
	}
	for i, q := range qs.Comparison {
		items = append(items, model.RehearsalItem{
			Category: model.CategoryComparison, Ordinal: i + 1, Text: q, Expected: model.AnswerNo,
		})
	}
	for i, q := range qs.Relevant {
		items = append(items, model.RehearsalItem{
			Category: model.CategoryRelevant, Ordinal: i + 1, Text: q, Expected: expectedR,
		})
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	if m.cfg.ShuffleFinalRehearsal {
		m.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	s.Rehearsal = items
	s.RehearsalOrder = order
}

func (m *Machine) advanceFinal(s *model.InterviewSession, in *AdvanceInput) error {
	if len(in.Final) != len(s.RehearsalOrder) {
		return failStage(model.StageFinalRehearsal, "unanswered",
			"11개 질문 모두에 대해 '예' 또는 '아니오'를 선택해 주세요.")
	}

	mismatch := false
	relevantConflict := false
	for pos, ans := range in.Final {
		item := s.Rehearsal[s.RehearsalOrder[pos]]
		if ans == model.AnswerNone {
			return failStage(model.StageFinalRehearsal, "unanswered",
				"11개 질문 모두에 대해 '예' 또는 '아니오'를 선택해 주세요.")
		}
		if ans != item.Expected {
			mismatch = true
			if item.Category == model.CategoryRelevant {
				relevantConflict = true
			}
		}
	}
	if mismatch {
		if relevantConflict {
			return failStage(model.StageFinalRehearsal, "relevant_conflict",
				"사건 관련 질문(R)에 대한 응답이 앞서 입력한 주장 취지와 어긋납니다. "+
					"현재 응답은 검사의 전제와 맞지 않으므로, 검사관과 상의해 주세요.")
		}
		return failStage(model.StageFinalRehearsal, "polarity",
			"11문항은 설정된 규칙에 따라 응답해야 검사를 완료할 수 있습니다.")
	}
	return nil
}

// Export serializes the finalized question set. Only a complete session can
// be exported.
func (m *Machine) Export(s *model.InterviewSession) (string, error) {
	if s.Stage != model.StageComplete || s.QuestionSet == nil {
		return "", ErrNotComplete
	}
	return question.Serialize(s.QuestionSet), nil
}
