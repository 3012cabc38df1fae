// Package question holds the pure question-generation pieces of the
// protocol: sentence templates, the disposition item bank, comparison
// selection and the interchange text format.
package question

import (
	"fmt"
	"strings"

	"github.com/opsych/ophtheon/internal/model"
)

// Fixed attitude question texts, identical across all sessions
const (
	InstructionQuestion = "당신은 오늘 검사관이 연습한 것만 질문한다는 것을 믿습니까?"
	TruthQuestion       = "당신은 오늘 검사관이 묻는 질문에 사실대로 대답하겠습니까?"
)

// fallbackOffense substitutes for an empty offense description so the
// templates stay total functions.
const fallbackOffense = "해당 행위를"

func normalizeOffense(offenseText string) string {
	t := strings.TrimSpace(offenseText)
	if t == "" {
		return fallbackOffense
	}
	return t
}

// CoreClaim builds the subject's single-sentence core claim: a first-person
// denial for a suspect, a first-person accusation for a victim.
func CoreClaim(role model.Role, offenseText string) string {
	t := normalizeOffense(offenseText)
	if role == model.RoleVictim {
		return fmt.Sprintf("저는 %s 당한 사실이 있습니다.", t)
	}
	return fmt.Sprintf("저는 %s한 사실이 없습니다.", t)
}

// RelevantQuestions builds the three relevant (R) questions for the case.
// Three distinct phrasings, deterministic in input.
func RelevantQuestions(role model.Role, offenseText string) []string {
	t := normalizeOffense(offenseText)
	if role == model.RoleVictim {
		return []string{
			fmt.Sprintf("당신은 그 당시 %s 당한 사실이 있습니까?", t),
			fmt.Sprintf("당신은 직접 %s 당한 적이 있습니까?", t),
			fmt.Sprintf("당신이 %s 당한 것이 사실입니까?", t),
		}
	}
	return []string{
		fmt.Sprintf("당신은 그 당시 %s한 사실이 있습니까?", t),
		fmt.Sprintf("당신은 직접 %s한 적이 있습니까?", t),
		fmt.Sprintf("당신이 %s한 것이 사실입니까?", t),
	}
}

// NeutralQuestions builds the three neutral (N) fact-confirmation questions
func NeutralQuestions(name, gender string, age int) []string {
	return []string{
		fmt.Sprintf("당신의 이름은 %s 입니까?", name),
		fmt.Sprintf("당신의 성별은 %s 입니까?", gender),
		fmt.Sprintf("당신의 나이는 %d세 입니까?", age),
	}
}

// AttitudeQuestions returns the fixed I and SR questions
func AttitudeQuestions() (instruction, truth string) {
	return InstructionQuestion, TruthQuestion
}
