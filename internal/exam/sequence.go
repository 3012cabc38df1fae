// Package exam turns a parsed question set into the fixed 11-item
// presentation sequence and its timed narration schedule.
package exam

import (
	"fmt"

	"github.com/opsych/ophtheon/internal/model"
)

// sequencePattern is the fixed presentation order of the exam:
// I, SR, then three N/C/R triplets. Items within a category are consumed
// in list order.
var sequencePattern = []model.Category{
	model.CategoryInstruction,
	model.CategoryTruth,
	model.CategoryNeutral, model.CategoryComparison, model.CategoryRelevant,
	model.CategoryNeutral, model.CategoryComparison, model.CategoryRelevant,
	model.CategoryNeutral, model.CategoryComparison, model.CategoryRelevant,
}

// SequenceLength is the number of items in a full exam sequence
var SequenceLength = len(sequencePattern)

// BuildSequence interleaves the category-keyed question lists into the
// 11-slot exam sequence. A slot whose category has run out of questions
// gets a visible placeholder instead of failing the build, so the exam
// stays runnable for manual correction by the examiner.
func BuildSequence(questions map[model.Category][]string) []model.ExamItem {
	counters := map[model.Category]int{}
	seq := make([]model.ExamItem, 0, SequenceLength)

	for _, cat := range sequencePattern {
		idx := counters[cat]
		var text string
		if list := questions[cat]; idx < len(list) {
			text = list[idx]
		} else {
			text = fmt.Sprintf("[%s 질문이 부족합니다]", cat)
		}
		seq = append(seq, model.ExamItem{Category: cat, Ordinal: idx + 1, Text: text})
		counters[cat]++
	}
	return seq
}
