package question

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/opsych/ophtheon/internal/model"
)

// Section markers of the interchange text file. The exam stage consumes
// exactly this format, so the markers are part of the wire contract.
const (
	coreClaimMarker   = "[피검자의 핵심 주장]"
	questionSetMarker = "[최종 11문항 질문 세트]"
)

var lineRe = regexp.MustCompile(`^(I\d+|SR\d+|N\d+|C\d+|R\d+)\.\s*(.+)$`)

// serializeOrder fixes the category block order of the file
var serializeOrder = []model.Category{
	model.CategoryInstruction,
	model.CategoryTruth,
	model.CategoryNeutral,
	model.CategoryComparison,
	model.CategoryRelevant,
}

// Serialize renders a finalized question set as the interchange text file
// handed from the interview stage to the exam stage.
func Serialize(qs *model.QuestionSet) string {
	var b strings.Builder
	b.WriteString(coreClaimMarker + "\n")
	b.WriteString(qs.CoreClaim + "\n")
	b.WriteString("\n")
	b.WriteString(questionSetMarker + "\n")

	byCat := qs.ByCategory()
	for _, cat := range serializeOrder {
		for i, q := range byCat[cat] {
			fmt.Fprintf(&b, "%s%d. %s\n", cat, i+1, q)
		}
	}
	return b.String()
}

// Parse reads an interchange text file back into the core claim and the
// category-keyed question lists. Parsing is tolerant: unmatched lines are
// ignored and missing categories simply come back empty, so the exam stage
// can still run in degraded form.
func Parse(text string) (coreClaim string, questions map[model.Category][]string) {
	questions = map[model.Category][]string{
		model.CategoryInstruction: {},
		model.CategoryTruth:       {},
		model.CategoryNeutral:     {},
		model.CategoryComparison:  {},
		model.CategoryRelevant:    {},
	}

	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, coreClaimMarker) {
			// Core claim is the next non-empty line after the marker,
			// but never a line of the question-set section
			for _, follow := range lines[i+1:] {
				f := strings.TrimSpace(follow)
				if f == "" {
					continue
				}
				if !strings.HasPrefix(f, questionSetMarker) {
					coreClaim = f
				}
				break
			}
			break
		}
	}

	for _, raw := range lines {
		m := lineRe.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		code, text := m[1], strings.TrimSpace(m[2])

		var cat model.Category
		switch {
		case strings.HasPrefix(code, "SR"):
			cat = model.CategoryTruth
		default:
			cat = model.Category(code[:1])
		}
		questions[cat] = append(questions[cat], text)
	}

	return coreClaim, questions
}
