package question

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsych/ophtheon/internal/model"
)

func TestCoreClaim(t *testing.T) {
	tests := []struct {
		name    string
		role    model.Role
		offense string
		want    string
	}{
		{
			name:    "suspect denial",
			role:    model.RoleSuspect,
			offense: "폭행",
			want:    "저는 폭행한 사실이 없습니다.",
		},
		{
			name:    "victim accusation",
			role:    model.RoleVictim,
			offense: "폭행",
			want:    "저는 폭행 당한 사실이 있습니다.",
		},
		{
			name:    "empty offense falls back",
			role:    model.RoleSuspect,
			offense: "   ",
			want:    "저는 해당 행위를한 사실이 없습니다.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoreClaim(tt.role, tt.offense))
		})
	}
}

func TestRelevantQuestions(t *testing.T) {
	suspect := RelevantQuestions(model.RoleSuspect, "절도")
	assert.Len(t, suspect, 3)
	for _, q := range suspect {
		assert.Contains(t, q, "절도")
	}
	// Three distinct phrasings
	assert.NotEqual(t, suspect[0], suspect[1])
	assert.NotEqual(t, suspect[1], suspect[2])

	victim := RelevantQuestions(model.RoleVictim, "절도")
	assert.Len(t, victim, 3)
	for _, q := range victim {
		assert.Contains(t, q, "당한")
	}
}

func TestNeutralQuestions(t *testing.T) {
	neutral := NeutralQuestions("홍길동", "남성", 35)
	assert.Len(t, neutral, 3)
	assert.Contains(t, neutral[0], "홍길동")
	assert.Contains(t, neutral[1], "남성")
	assert.Contains(t, neutral[2], "35세")
}

func TestAttitudeQuestionsAreFixed(t *testing.T) {
	instruction, truth := AttitudeQuestions()
	assert.Equal(t, InstructionQuestion, instruction)
	assert.Equal(t, TruthQuestion, truth)
}
