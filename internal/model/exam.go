package model

import "time"

// ExamStatus tracks the live-exam lifecycle
type ExamStatus string

const (
	ExamPreview  ExamStatus = "preview"  // imported, sequence built, not narrated
	ExamReady    ExamStatus = "ready"    // narration synthesized
	ExamRunning  ExamStatus = "running"  // cue schedule in progress
	ExamFinished ExamStatus = "finished"
)

// NarrationCue is one scheduled utterance of the exam narration. Offsets are
// measured from exam start and strictly increase; no two cues overlap.
type NarrationCue struct {
	OffsetMS   int64  `json:"offsetMs" bson:"offsetMs"`
	DurationMS int64  `json:"durationMs" bson:"durationMs"`
	Text       string `json:"text" bson:"text"`
	// Slot is -1 for the opening and closing utterances, otherwise the
	// 0-based index into the exam sequence.
	Slot     int    `json:"slot" bson:"slot"`
	AudioRef string `json:"audioRef,omitempty" bson:"audioRef,omitempty"`
}

// ExamSession is one live exam run built from an imported question set
type ExamSession struct {
	ID        string         `json:"id" bson:"_id,omitempty"`
	Status    ExamStatus     `json:"status" bson:"status"`
	CoreClaim string         `json:"coreClaim" bson:"coreClaim"`
	Sequence  []ExamItem     `json:"sequence" bson:"sequence"`
	Cues      []NarrationCue `json:"cues,omitempty" bson:"cues,omitempty"`

	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	StartedAt  *time.Time `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty" bson:"finishedAt,omitempty"`
}
