package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsych/ophtheon/internal/model"
	"github.com/opsych/ophtheon/internal/question"
)

func fullQuestions() map[model.Category][]string {
	return map[model.Category][]string{
		model.CategoryInstruction: {"I-1"},
		model.CategoryTruth:       {"SR-1"},
		model.CategoryNeutral:     {"N-1", "N-2", "N-3"},
		model.CategoryComparison:  {"C-1", "C-2", "C-3"},
		model.CategoryRelevant:    {"R-1", "R-2", "R-3"},
	}
}

func TestBuildSequenceOrder(t *testing.T) {
	seq := BuildSequence(fullQuestions())
	require.Len(t, seq, SequenceLength)

	wantCats := []model.Category{
		model.CategoryInstruction, model.CategoryTruth,
		model.CategoryNeutral, model.CategoryComparison, model.CategoryRelevant,
		model.CategoryNeutral, model.CategoryComparison, model.CategoryRelevant,
		model.CategoryNeutral, model.CategoryComparison, model.CategoryRelevant,
	}
	for i, item := range seq {
		assert.Equal(t, wantCats[i], item.Category, "slot %d", i)
	}

	// Within-category consumption in list order
	assert.Equal(t, "N-1", seq[2].Text)
	assert.Equal(t, "C-1", seq[3].Text)
	assert.Equal(t, "R-1", seq[4].Text)
	assert.Equal(t, "N-2", seq[5].Text)
	assert.Equal(t, "R-3", seq[10].Text)
	assert.Equal(t, 3, seq[10].Ordinal)
}

func TestBuildSequencePlaceholders(t *testing.T) {
	questions := fullQuestions()
	questions[model.CategoryComparison] = []string{"C-1"}

	seq := BuildSequence(questions)
	require.Len(t, seq, SequenceLength)

	assert.Equal(t, "C-1", seq[3].Text)
	assert.Equal(t, "[C 질문이 부족합니다]", seq[6].Text)
	assert.Equal(t, "[C 질문이 부족합니다]", seq[9].Text)
	// Placeholder slots keep their ordinal
	assert.Equal(t, 2, seq[6].Ordinal)
	assert.Equal(t, 3, seq[9].Ordinal)
}

func TestBuildSequenceFromFileWithoutComparisons(t *testing.T) {
	text := "[피검자의 핵심 주장]\n" +
		"저는 폭행한 사실이 없습니다.\n" +
		"\n" +
		"[최종 11문항 질문 세트]\n" +
		"I1. 연습한 것만 질문한다는 것을 믿습니까?\n" +
		"SR1. 사실대로 대답하겠습니까?\n" +
		"N1. 이름이 맞습니까?\n" +
		"N2. 성별이 맞습니까?\n" +
		"N3. 나이가 맞습니까?\n" +
		"R1. 폭행한 사실이 있습니까?\n" +
		"R2. 직접 폭행한 적이 있습니까?\n" +
		"R3. 폭행한 것이 사실입니까?\n"

	_, questions := question.Parse(text)
	seq := BuildSequence(questions)

	require.Len(t, seq, SequenceLength)
	for _, slot := range []int{3, 6, 9} {
		assert.Equal(t, model.CategoryComparison, seq[slot].Category)
		assert.Equal(t, "[C 질문이 부족합니다]", seq[slot].Text)
	}
	assert.Equal(t, "이름이 맞습니까?", seq[2].Text)
	assert.Equal(t, "폭행한 사실이 있습니까?", seq[4].Text)
}

func TestBuildSequenceEmptyInput(t *testing.T) {
	seq := BuildSequence(map[model.Category][]string{})
	require.Len(t, seq, SequenceLength)
	for _, item := range seq {
		assert.Contains(t, item.Text, "질문이 부족합니다")
	}
}
