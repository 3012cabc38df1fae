package exam

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsych/ophtheon/internal/model"
)

const (
	baseline = 30 * time.Second
	gap      = 15 * time.Second
)

func zeroClips(n int) []Clip {
	clips := make([]Clip, n)
	for i := range clips {
		clips[i] = Clip{Text: "질문"}
	}
	return clips
}

func TestBuildScheduleFixedStepping(t *testing.T) {
	seq := BuildSequence(fullQuestions())
	cues := BuildSchedule(seq, zeroClips(len(seq)), Clip{Text: OpeningText(baseline, gap)}, Clip{Text: ClosingText()}, baseline, gap)

	// opening + 11 questions + closing
	require.Len(t, cues, SequenceLength+2)

	assert.Equal(t, int64(0), cues[0].OffsetMS)
	assert.Equal(t, -1, cues[0].Slot)

	// Unknown clip durations degrade to fixed start-to-start stepping
	for i := 0; i < SequenceLength; i++ {
		want := baseline.Milliseconds() + int64(i)*gap.Milliseconds()
		assert.Equal(t, want, cues[i+1].OffsetMS, "question slot %d", i)
		assert.Equal(t, i, cues[i+1].Slot)
	}

	closing := cues[len(cues)-1]
	assert.Equal(t, -1, closing.Slot)
	assert.Equal(t, baseline.Milliseconds()+int64(SequenceLength)*gap.Milliseconds(), closing.OffsetMS)
}

func TestBuildScheduleUsesClipDurations(t *testing.T) {
	seq := BuildSequence(fullQuestions())
	clips := zeroClips(len(seq))
	for i := range clips {
		clips[i].Duration = 5 * time.Second
	}

	cues := BuildSchedule(seq, clips, Clip{}, Clip{}, baseline, gap)

	// Each question starts a full clip plus gap after the previous one
	assert.Equal(t, baseline.Milliseconds(), cues[1].OffsetMS)
	assert.Equal(t, baseline.Milliseconds()+(5+15)*1000, cues[2].OffsetMS)

	for i := 1; i < len(cues); i++ {
		prev := cues[i-1]
		assert.Greater(t, cues[i].OffsetMS, prev.OffsetMS)
		// No overlap with the previous clip's audio
		assert.GreaterOrEqual(t, cues[i].OffsetMS, prev.OffsetMS+prev.DurationMS)
	}
}

func TestBuildScheduleLongOpeningPushesFirstQuestion(t *testing.T) {
	seq := BuildSequence(fullQuestions())
	opening := Clip{Text: "긴 안내 문구", Duration: 40 * time.Second}

	cues := BuildSchedule(seq, zeroClips(len(seq)), opening, Clip{}, baseline, gap)

	// Opening outlasts the baseline; first question waits for it plus a gap
	assert.Equal(t, (40*time.Second + gap).Milliseconds(), cues[1].OffsetMS)
}

func TestOpeningTextNamesTimings(t *testing.T) {
	text := OpeningText(baseline, gap)
	assert.Contains(t, text, "30초")
	assert.Contains(t, text, "15초")
}

func TestNarrationCueSlots(t *testing.T) {
	seq := BuildSequence(fullQuestions())
	cues := BuildSchedule(seq, zeroClips(len(seq)), Clip{}, Clip{}, baseline, gap)

	var questionCues []model.NarrationCue
	for _, c := range cues {
		if c.Slot >= 0 {
			questionCues = append(questionCues, c)
		}
	}
	require.Len(t, questionCues, SequenceLength)
	for i, c := range questionCues {
		assert.Equal(t, i, c.Slot)
	}
}
