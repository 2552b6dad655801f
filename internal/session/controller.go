// Package session runs the game state machine: level sequencing, progress
// counters, time-limit gating and robot power updates.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotspot-trainer/backend/internal/config"
	"github.com/hotspot-trainer/backend/internal/input"
	"github.com/hotspot-trainer/backend/internal/models"
	"github.com/hotspot-trainer/backend/internal/robot"
)

var (
	ErrInvalidTransition = errors.New("event not allowed in current state")
	ErrNoPrompt          = errors.New("no prompt is waiting for a choice")
	ErrInvalidChoice     = errors.New("choice does not answer the prompt")
	ErrBusy              = errors.New("a level is in play")
)

// ContentLoader validates content folders and loads single levels.
type ContentLoader interface {
	DiscoverLevels(root string) (*models.LevelSet, error)
	LoadLevel(dir string) (*models.Level, error)
}

// ProgressStore persists the unlock watermark.
type ProgressStore interface {
	SaveLevelToUnlock(level int) error
}

// AttemptRecorder keeps a row per finished level.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, attempt *models.LevelAttempt) error
}

// Settings are the resolved game rules.
type Settings struct {
	Trigger              models.UpgradeTrigger
	TimeLimitMultiplier  float64
	LevelToUnlock        int
	ShowReferenceCreator bool
	Overlay              models.Overlay
}

// NewSettings resolves game rules from the config section.
func NewSettings(g config.GameConfig) (Settings, error) {
	trigger, err := models.ParseUpgradeTrigger(g.UpgradeTrigger)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Trigger:              trigger,
		TimeLimitMultiplier:  g.TimeLimitMultiplier,
		LevelToUnlock:        g.LevelToUnlock,
		ShowReferenceCreator: g.ShowReferenceCreator,
		Overlay: models.Overlay{
			HotspotSize:  g.HotspotSize,
			SourceWidth:  g.SourceWidth,
			SourceHeight: g.SourceHeight,
		},
	}, nil
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithProgressStore persists the watermark whenever it moves.
func WithProgressStore(p ProgressStore) Option {
	return func(c *Controller) { c.progress = p }
}

// WithHistory records every level transition.
func WithHistory(h AttemptRecorder) Option {
	return func(c *Controller) { c.history = h }
}

// Controller is the session state machine. It is not safe for concurrent
// use; the Dispatcher serializes every call into it.
type Controller struct {
	settings Settings
	loader   ContentLoader
	power    *robot.PowerModel
	link     *robot.Link
	progress ProgressStore
	history  AttemptRecorder
	now      func() time.Time

	state         models.SessionState
	runID         string
	set           *models.LevelSet
	level         *models.Level
	currentLevel  int
	currentImage  int
	currentTotal  int
	levelToUnlock int
	startTime     time.Time
	prompt        *models.Prompt
}

// NewController creates a controller in the Idle state.
func NewController(settings Settings, loader ContentLoader, power *robot.PowerModel, opts ...Option) *Controller {
	c := &Controller{
		settings:      settings,
		loader:        loader,
		power:         power,
		now:           time.Now,
		state:         models.StateIdle,
		levelToUnlock: max(settings.LevelToUnlock, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() models.SessionState {
	return c.state
}

// Handle applies one event.
func (c *Controller) Handle(ev models.Event) error {
	switch e := ev.(type) {
	case models.SelectContent:
		return c.selectContent(e.Folder)
	case models.StartGame:
		return c.start()
	case models.MouseInput, models.KeyInput:
		return c.handleInput(ev)
	case models.TimerTick:
		return nil
	case models.UserChoice:
		return c.choose(e.Choice)
	case models.ReturnHome:
		return c.returnHome()
	}
	return fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
}

func (c *Controller) selectContent(folder string) error {
	if c.state != models.StateIdle && c.state != models.StateReady {
		return fmt.Errorf("%w: select content while %s", ErrInvalidTransition, c.state)
	}

	set, err := c.loader.DiscoverLevels(folder)
	if err != nil {
		fmt.Printf("[Session] content rejected: %v\n", err)
		c.clearContent()
		return err
	}

	c.set = set
	c.clampWatermark()
	c.resetCounters()
	if err := c.loadLevel(0); err != nil {
		c.clearContent()
		return err
	}
	c.state = models.StateReady
	fmt.Printf("[Session] content ready: %s (%d levels, unlock watermark %d)\n", folder, set.NumLevels(), c.levelToUnlock)
	return nil
}

func (c *Controller) start() error {
	if c.state != models.StateReady {
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, c.state)
	}
	c.runID = uuid.New().String()
	fmt.Printf("[Session %s] run started\n", c.runID[:8])
	return c.beginPlay()
}

// beginPlay puts the session on the first level with fresh counters and
// a fresh level timer.
func (c *Controller) beginPlay() error {
	c.resetCounters()
	if err := c.loadLevel(0); err != nil {
		c.clearContent()
		return err
	}
	c.prompt = nil
	c.startTime = c.now()
	c.state = models.StatePlaying

	if c.settings.Trigger == models.TriggerLevel {
		c.updatePower(c.levelProgress(0))
	}
	return c.checkLevelDone()
}

func (c *Controller) handleInput(ev models.Event) error {
	if c.state != models.StatePlaying {
		return fmt.Errorf("%w: input while %s", ErrInvalidTransition, c.state)
	}

	expected := c.level.Hotspots[c.currentImage]
	if !input.Matches(ev, expected) {
		fmt.Printf("[Session] input ignored at %s/%06d: %+v\n", c.level.Name, c.currentImage, ev)
		return nil
	}

	c.currentImage++
	c.currentTotal++
	if c.settings.Trigger == models.TriggerHotspot {
		c.updatePower(c.hotspotProgress())
	}
	return c.checkLevelDone()
}

func (c *Controller) checkLevelDone() error {
	if c.currentImage < c.level.ImageCount() {
		return nil
	}
	return c.finishLevel()
}

// finishLevel is the LevelTransition step. Only the level at the unlock
// watermark is timed; the others advance straight away.
func (c *Controller) finishLevel() error {
	c.state = models.StateLevelTransition
	levelTime := c.now().Sub(c.startTime)

	if c.settings.Trigger == models.TriggerLevel {
		c.updatePower(c.levelProgress(c.currentLevel))
	}

	timeToBeat := time.Duration(float64(c.currentTotal) * c.settings.TimeLimitMultiplier * float64(time.Second))
	last := c.currentLevel >= c.set.NumLevels()-1

	if c.currentLevel != c.levelToUnlock {
		c.recordAttempt(models.OutcomeFree, levelTime, 0)
		if last {
			c.complete(levelTime, timeToBeat)
			return nil
		}
		if err := c.loadLevel(c.currentLevel + 1); err != nil {
			c.clearContent()
			return err
		}
		c.currentImage = 0
		c.state = models.StatePlaying
		return c.checkLevelDone()
	}

	if levelTime > timeToBeat {
		c.recordAttempt(models.OutcomeFailed, levelTime, timeToBeat)
		fmt.Printf("[Session] level %d failed: %.1fs over %.1fs\n", c.currentLevel, levelTime.Seconds(), timeToBeat.Seconds())
		c.prompt = &models.Prompt{
			Kind:              models.PromptLevelFailed,
			Message:           fmt.Sprintf("You took %.1f seconds, the time to beat was %.1f seconds. Try again?", levelTime.Seconds(), timeToBeat.Seconds()),
			Choices:           []models.Choice{models.ChoiceRetry, models.ChoiceQuit},
			ElapsedSeconds:    levelTime.Seconds(),
			TimeToBeatSeconds: timeToBeat.Seconds(),
		}
		return nil
	}

	c.recordAttempt(models.OutcomePassed, levelTime, timeToBeat)
	if last {
		c.complete(levelTime, timeToBeat)
		return nil
	}

	c.levelToUnlock++
	c.saveWatermark()
	fmt.Printf("[Session] level %d beaten, watermark now %d\n", c.currentLevel, c.levelToUnlock)
	c.prompt = &models.Prompt{
		Kind:              models.PromptLevelUnlocked,
		Message:           fmt.Sprintf("Level %d unlocked in %.1f seconds (time to beat %.1f).", c.levelToUnlock+1, levelTime.Seconds(), timeToBeat.Seconds()),
		Choices:           []models.Choice{models.ChoiceContinue, models.ChoiceHome},
		ElapsedSeconds:    levelTime.Seconds(),
		TimeToBeatSeconds: timeToBeat.Seconds(),
	}
	return nil
}

func (c *Controller) complete(levelTime, timeToBeat time.Duration) {
	c.state = models.StateCompleted
	fmt.Printf("[Session] game completed, %d images\n", c.currentTotal)
	c.prompt = &models.Prompt{
		Kind:              models.PromptGameCompleted,
		Message:           fmt.Sprintf("Game completed in %.1f seconds (time to beat %.1f).", levelTime.Seconds(), timeToBeat.Seconds()),
		Choices:           []models.Choice{models.ChoiceAcknowledge, models.ChoiceHome},
		ElapsedSeconds:    levelTime.Seconds(),
		TimeToBeatSeconds: timeToBeat.Seconds(),
	}
}

func (c *Controller) choose(choice models.Choice) error {
	if c.prompt == nil {
		return ErrNoPrompt
	}
	if !c.prompt.Allows(choice) {
		return fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}

	switch choice {
	case models.ChoiceContinue, models.ChoiceRetry:
		return c.beginPlay()
	default:
		return c.returnHome()
	}
}

func (c *Controller) returnHome() error {
	c.prompt = nil
	if c.set == nil {
		c.state = models.StateIdle
		return nil
	}
	c.resetCounters()
	if err := c.loadLevel(0); err != nil {
		c.clearContent()
		return err
	}
	c.state = models.StateReady
	return nil
}

// ApplySettings swaps in new game rules. It is refused while a level is in
// play.
func (c *Controller) ApplySettings(g config.GameConfig) error {
	if c.state == models.StatePlaying || c.state == models.StateLevelTransition {
		return ErrBusy
	}
	settings, err := NewSettings(g)
	if err != nil {
		return err
	}
	mode, err := models.ParseUpgradeMode(g.UpgradeMode)
	if err != nil {
		return err
	}

	c.settings = settings
	c.power.Mode = mode
	c.power.MinPower = g.MinPowerToMove
	c.power.MaxPower = g.MaxPowerToMove
	c.levelToUnlock = max(settings.LevelToUnlock, 0)
	if c.set != nil {
		c.clampWatermark()
	}
	return nil
}

// ReplaceLink sends power through link from now on and returns the link
// it replaced so the caller can close it.
func (c *Controller) ReplaceLink(link *robot.Link) *robot.Link {
	old := c.link
	c.link = link
	c.power.SetTransmitter(link)
	return old
}

// Link returns the active base station link.
func (c *Controller) Link() *robot.Link {
	return c.link
}

// Level returns the resident level, or nil before content is selected.
func (c *Controller) Level() *models.Level {
	return c.level
}

// Snapshot returns a copy of the session for the renderer.
func (c *Controller) Snapshot() models.SessionSnapshot {
	snap := models.SessionSnapshot{
		State:                   c.state,
		RunID:                   c.runID,
		CurrentLevel:            c.currentLevel,
		CurrentImageNumber:      c.currentImage,
		CurrentTotalImageNumber: c.currentTotal,
		LevelToUnlock:           c.levelToUnlock,
		Overlay:                 c.settings.Overlay,
		ShowReferenceCreator:    c.settings.ShowReferenceCreator,
		BaseStations:            c.link.Names(),
	}
	if c.set != nil {
		snap.Folder = c.set.Root
		snap.Levels = append([]models.LevelInfo(nil), c.set.Levels...)
		snap.NumLevels = c.set.NumLevels()
		snap.TotalImages = c.set.TotalImages
	}
	if c.level != nil {
		snap.LevelName = c.level.Name
		snap.LevelImageCount = c.level.ImageCount()
	}
	switch {
	case c.state == models.StatePlaying:
		snap.ElapsedSeconds = c.now().Sub(c.startTime).Seconds()
		if c.currentImage < c.level.ImageCount() {
			rec := c.level.Hotspots[c.currentImage]
			snap.Expected = &rec
		}
	case c.prompt != nil:
		p := *c.prompt
		p.Choices = append([]models.Choice(nil), c.prompt.Choices...)
		snap.Prompt = &p
		snap.ElapsedSeconds = p.ElapsedSeconds
	}
	return snap
}

func (c *Controller) loadLevel(index int) error {
	info := c.set.Levels[index]
	level, err := c.loader.LoadLevel(info.Path)
	if err != nil {
		return fmt.Errorf("loading level %d: %w", index, err)
	}
	c.level = level
	c.currentLevel = index
	return nil
}

func (c *Controller) resetCounters() {
	c.currentLevel = 0
	c.currentImage = 0
	c.currentTotal = 0
}

func (c *Controller) clearContent() {
	c.set = nil
	c.level = nil
	c.prompt = nil
	c.resetCounters()
	c.state = models.StateIdle
}

// clampWatermark keeps the watermark inside the selected content.
func (c *Controller) clampWatermark() {
	clamped := min(max(c.levelToUnlock, 0), max(c.set.NumLevels()-1, 0))
	if clamped != c.levelToUnlock {
		fmt.Printf("[Session] unlock watermark %d clamped to %d\n", c.levelToUnlock, clamped)
		c.levelToUnlock = clamped
		c.saveWatermark()
	}
}

func (c *Controller) saveWatermark() {
	if c.progress == nil {
		return
	}
	if err := c.progress.SaveLevelToUnlock(c.levelToUnlock); err != nil {
		fmt.Printf("[Session] failed to persist watermark: %v\n", err)
	}
}

// hotspotProgress is run-wide progress in percent.
func (c *Controller) hotspotProgress() float64 {
	if c.set.TotalImages <= 1 {
		return 100
	}
	p := float64(c.currentTotal) / float64(c.set.TotalImages-1) * 100
	return min(max(p, 0), 100)
}

// levelProgress is the position of level among all levels in percent.
func (c *Controller) levelProgress(level int) float64 {
	n := c.set.NumLevels()
	if n <= 1 {
		return 100
	}
	return float64(level) / float64(n-1) * 100
}

// updatePower never fails the event: protocol errors only abort the one
// power update.
func (c *Controller) updatePower(progress float64) {
	if err := c.power.SetPower(progress); err != nil {
		fmt.Printf("[Session] power update at %.1f%% failed: %v\n", progress, err)
	}
}

func (c *Controller) recordAttempt(outcome models.AttemptOutcome, elapsed, timeToBeat time.Duration) {
	if c.history == nil {
		return
	}
	attempt := &models.LevelAttempt{
		RunID:        c.runID,
		Level:        c.currentLevel,
		LevelName:    c.level.Name,
		TotalImages:  c.currentTotal,
		ElapsedMs:    elapsed.Milliseconds(),
		TimeToBeatMs: timeToBeat.Milliseconds(),
		Outcome:      outcome,
		RecordedAt:   c.now(),
	}
	if err := c.history.RecordAttempt(context.Background(), attempt); err != nil {
		fmt.Printf("[Session] failed to record attempt: %v\n", err)
	}
}
