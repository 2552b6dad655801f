package models

// SessionState is the controller's top-level state.
type SessionState string

const (
	StateIdle            SessionState = "idle"
	StateReady           SessionState = "ready"
	StatePlaying         SessionState = "playing"
	StateLevelTransition SessionState = "level_transition"
	StateCompleted       SessionState = "completed"
)

// Choice is an answer to a prompt.
type Choice string

const (
	ChoiceContinue    Choice = "continue"
	ChoiceHome        Choice = "home"
	ChoiceRetry       Choice = "retry"
	ChoiceQuit        Choice = "quit"
	ChoiceAcknowledge Choice = "ok"
)

// PromptKind identifies which question the player is being asked.
type PromptKind string

const (
	PromptLevelUnlocked PromptKind = "level_unlocked"
	PromptLevelFailed   PromptKind = "level_failed"
	PromptGameCompleted PromptKind = "game_completed"
)

// Prompt is shown by the renderer while the session waits for a UserChoice.
type Prompt struct {
	Kind              PromptKind `json:"kind"`
	Message           string     `json:"message"`
	Choices           []Choice   `json:"choices"`
	ElapsedSeconds    float64    `json:"elapsedSeconds"`
	TimeToBeatSeconds float64    `json:"timeToBeatSeconds"`
}

// Allows reports whether c answers the prompt.
func (p *Prompt) Allows(c Choice) bool {
	for _, allowed := range p.Choices {
		if allowed == c {
			return true
		}
	}
	return false
}

// Overlay is the geometry the renderer needs to draw hotspots.
type Overlay struct {
	HotspotSize  int `json:"hotspotSize"`
	SourceWidth  int `json:"sourceWidth"`
	SourceHeight int `json:"sourceHeight"`
}

// SessionSnapshot is a read-only copy of the session for the renderer.
type SessionSnapshot struct {
	State                   SessionState   `json:"state"`
	RunID                   string         `json:"runId,omitempty"`
	Folder                  string         `json:"folder,omitempty"`
	Levels                  []LevelInfo    `json:"levels,omitempty"`
	NumLevels               int            `json:"numLevels"`
	TotalImages             int            `json:"totalImages"`
	CurrentLevel            int            `json:"currentLevel"`
	LevelName               string         `json:"levelName,omitempty"`
	LevelImageCount         int            `json:"levelImageCount"`
	CurrentImageNumber      int            `json:"currentImageNumber"`
	CurrentTotalImageNumber int            `json:"currentTotalImageNumber"`
	LevelToUnlock           int            `json:"levelToUnlock"`
	ElapsedSeconds          float64        `json:"elapsedSeconds"`
	Expected                *HotspotRecord `json:"expected,omitempty"`
	Prompt                  *Prompt        `json:"prompt,omitempty"`
	Overlay                 Overlay        `json:"overlay"`
	ShowReferenceCreator    bool           `json:"showReferenceCreator"`
	BaseStations            []string       `json:"baseStations"`
}
