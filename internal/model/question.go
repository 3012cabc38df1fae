package model

// Category identifies a question's protocol category
type Category string

const (
	CategoryInstruction Category = "I"  // belief that only rehearsed material is asked
	CategoryTruth       Category = "SR" // commitment to answer truthfully
	CategoryNeutral     Category = "N"  // fact confirmation (name/gender/age)
	CategoryComparison  Category = "C"  // inverted disposition item
	CategoryRelevant    Category = "R"  // direct probe of the alleged act
)

// Answer is a recorded yes/no response. An unanswered item is represented by
// map absence or AnswerNone, never by AnswerNo.
type Answer string

const (
	AnswerNone Answer = ""
	AnswerYes  Answer = "yes"
	AnswerNo   Answer = "no"
)

// QuestionSet is the finalized protocol output. Neutral, Comparison and
// Relevant each hold exactly three questions once assembled; I and SR are
// singletons with fixed text. The set is immutable after assembly.
type QuestionSet struct {
	CoreClaim   string   `json:"coreClaim" bson:"coreClaim"`
	Instruction string   `json:"instruction" bson:"instruction"`
	Truth       string   `json:"truth" bson:"truth"`
	Neutral     []string `json:"neutral" bson:"neutral"`
	Comparison  []string `json:"comparison" bson:"comparison"`
	Relevant    []string `json:"relevant" bson:"relevant"`
}

// ByCategory returns the set's questions keyed by category code, in the
// shape the exam sequencer consumes.
func (qs *QuestionSet) ByCategory() map[Category][]string {
	return map[Category][]string{
		CategoryInstruction: {qs.Instruction},
		CategoryTruth:       {qs.Truth},
		CategoryNeutral:     qs.Neutral,
		CategoryComparison:  qs.Comparison,
		CategoryRelevant:    qs.Relevant,
	}
}

// ExamItem is one slot of the fixed 11-item presentation sequence
type ExamItem struct {
	Category Category `json:"category" bson:"category"`
	Ordinal  int      `json:"ordinal" bson:"ordinal"` // 1-based within its category
	Text     string   `json:"text" bson:"text"`
}
