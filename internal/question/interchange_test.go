package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsych/ophtheon/internal/model"
)

func sampleQuestionSet() *model.QuestionSet {
	return &model.QuestionSet{
		CoreClaim:   "저는 폭행한 사실이 없습니다.",
		Instruction: InstructionQuestion,
		Truth:       TruthQuestion,
		Neutral: []string{
			"당신의 이름은 홍길동 입니까?",
			"당신의 성별은 남성 입니까?",
			"당신의 나이는 35세 입니까?",
		},
		Comparison: []string{
			DispositionItems[0],
			DispositionItems[4],
			DispositionItems[9],
		},
		Relevant: []string{
			"당신은 그 당시 폭행한 사실이 있습니까?",
			"당신은 직접 폭행한 적이 있습니까?",
			"당신이 폭행한 것이 사실입니까?",
		},
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	qs := sampleQuestionSet()
	text := Serialize(qs)

	coreClaim, questions := Parse(text)

	assert.Equal(t, qs.CoreClaim, coreClaim)
	assert.Equal(t, []string{qs.Instruction}, questions[model.CategoryInstruction])
	assert.Equal(t, []string{qs.Truth}, questions[model.CategoryTruth])
	assert.Equal(t, qs.Neutral, questions[model.CategoryNeutral])
	assert.Equal(t, qs.Comparison, questions[model.CategoryComparison])
	assert.Equal(t, qs.Relevant, questions[model.CategoryRelevant])
}

func TestParseIgnoresUnmatchedLines(t *testing.T) {
	text := "메모: 이 파일은 수기로 편집되었음\n" +
		"[피검자의 핵심 주장]\n" +
		"\n" +
		"저는 절도한 사실이 없습니다.\n" +
		"\n" +
		"[최종 11문항 질문 세트]\n" +
		"I1. 질문 하나\n" +
		"X9. 알 수 없는 접두어\n" +
		"R1. 당신은 그 당시 절도한 사실이 있습니까?\n" +
		"그냥 텍스트\n"

	coreClaim, questions := Parse(text)

	assert.Equal(t, "저는 절도한 사실이 없습니다.", coreClaim)
	assert.Equal(t, []string{"질문 하나"}, questions[model.CategoryInstruction])
	assert.Equal(t, []string{"당신은 그 당시 절도한 사실이 있습니까?"}, questions[model.CategoryRelevant])
	assert.Empty(t, questions[model.CategoryComparison])
}

func TestParseDistinguishesSRFromRelevant(t *testing.T) {
	text := "SR1. 사실대로 답하겠습니까?\nR1. 관련 질문입니까?\n"

	_, questions := Parse(text)

	require.Len(t, questions[model.CategoryTruth], 1)
	require.Len(t, questions[model.CategoryRelevant], 1)
	assert.Equal(t, "사실대로 답하겠습니까?", questions[model.CategoryTruth][0])
	assert.Equal(t, "관련 질문입니까?", questions[model.CategoryRelevant][0])
}

func TestParseEmptyCoreClaimSection(t *testing.T) {
	text := "[피검자의 핵심 주장]\n" +
		"\n" +
		"[최종 11문항 질문 세트]\n" +
		"I1. 질문 하나\n"

	coreClaim, questions := Parse(text)

	assert.Empty(t, coreClaim)
	assert.Equal(t, []string{"질문 하나"}, questions[model.CategoryInstruction])
}

func TestParseMissingMarkers(t *testing.T) {
	coreClaim, questions := Parse("아무 형식도 아닌 텍스트")
	assert.Empty(t, coreClaim)
	for _, cat := range []model.Category{
		model.CategoryInstruction, model.CategoryTruth,
		model.CategoryNeutral, model.CategoryComparison, model.CategoryRelevant,
	} {
		assert.Empty(t, questions[cat])
	}
}
