package exam

import (
	"fmt"
	"time"

	"github.com/opsych/ophtheon/internal/model"
)

const closingText = "검사가 종료되었습니다. 잠시 그대로 정면을 바라봐 주세요."

// openingText narrates the baseline instruction before the first question
func openingText(baseline, gap time.Duration) string {
	return fmt.Sprintf("약 %d초 이후 검사 질문이 시작됩니다. 질문과 질문 사이에는 %d초의 대기시간이 있습니다.",
		int(baseline.Seconds()), int(gap.Seconds()))
}

// Clip is a synthesized utterance with its known playback duration. A zero
// duration means the collaborator could not report one; scheduling then
// falls back to fixed start-to-start stepping.
type Clip struct {
	Text     string
	Duration time.Duration
	AudioRef string
}

// BuildSchedule lays the narration out on a timeline: the opening utterance
// at zero, the first question no earlier than the baseline period, then one
// question per slot separated by the configured gap. Offsets strictly
// increase and no two clips overlap.
func BuildSchedule(seq []model.ExamItem, clips []Clip, opening, closing Clip, baseline, gap time.Duration) []model.NarrationCue {
	cues := make([]model.NarrationCue, 0, len(seq)+2)

	cues = append(cues, model.NarrationCue{
		OffsetMS:   0,
		DurationMS: opening.Duration.Milliseconds(),
		Text:       opening.Text,
		Slot:       -1,
		AudioRef:   opening.AudioRef,
	})

	// First question is audible only after the baseline has elapsed and
	// the opening has finished, whichever is later.
	offset := baseline
	if opening.Duration > baseline {
		offset = opening.Duration + gap
	}

	for i, item := range seq {
		var clip Clip
		if i < len(clips) {
			clip = clips[i]
		} else {
			clip = Clip{Text: item.Text}
		}
		cues = append(cues, model.NarrationCue{
			OffsetMS:   offset.Milliseconds(),
			DurationMS: clip.Duration.Milliseconds(),
			Text:       clip.Text,
			Slot:       i,
			AudioRef:   clip.AudioRef,
		})
		offset += clip.Duration + gap
	}

	cues = append(cues, model.NarrationCue{
		OffsetMS:   offset.Milliseconds(),
		DurationMS: closing.Duration.Milliseconds(),
		Text:       closing.Text,
		Slot:       -1,
		AudioRef:   closing.AudioRef,
	})
	return cues
}

// OpeningText exposes the baseline instruction for synthesis
func OpeningText(baseline, gap time.Duration) string { return openingText(baseline, gap) }

// ClosingText exposes the termination utterance for synthesis
func ClosingText() string { return closingText }
