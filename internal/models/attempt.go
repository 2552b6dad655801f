package models

import "time"

// AttemptOutcome is how a finished level was judged.
type AttemptOutcome string

const (
	OutcomePassed AttemptOutcome = "passed"
	OutcomeFailed AttemptOutcome = "failed"
	// OutcomeFree marks a level below the unlock watermark, which is not timed.
	OutcomeFree AttemptOutcome = "free"
)

// LevelAttempt is one row of play history.
type LevelAttempt struct {
	ID           int64          `json:"id" msgpack:"id"`
	RunID        string         `json:"runId" msgpack:"runId"`
	Level        int            `json:"level" msgpack:"level"`
	LevelName    string         `json:"levelName" msgpack:"levelName"`
	TotalImages  int            `json:"totalImages" msgpack:"totalImages"`
	ElapsedMs    int64          `json:"elapsedMs" msgpack:"elapsedMs"`
	TimeToBeatMs int64          `json:"timeToBeatMs" msgpack:"timeToBeatMs"`
	Outcome      AttemptOutcome `json:"outcome" msgpack:"outcome"`
	RecordedAt   time.Time      `json:"recordedAt" msgpack:"recordedAt"`
}
