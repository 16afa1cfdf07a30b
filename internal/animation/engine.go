// Package animation decides how the active subtitle cue should render
// at a given playback time: which animation phase it is in and, for
// karaoke styles, which word is highlighted. The decision is a pure
// function of time and configuration so it can be recomputed at every
// playback tick, under irregular or skipped ticks, without drift.
package animation

import (
	"sort"

	"github.com/google/uuid"

	"clipgenius/editor-service/models"
)

// Phase is the animation state a cue is in at a given time.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseEntry
	PhaseSteady
	PhaseExit
)

func (p Phase) String() string {
	switch p {
	case PhaseEntry:
		return "entry"
	case PhaseSteady:
		return "steady"
	case PhaseExit:
		return "exit"
	default:
		return "none"
	}
}

// MarshalText renders the phase as its lowercase name for JSON payloads.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Durations in seconds for the supported entry/exit animation kinds.
// An empty or unknown kind means the animation is not configured.
var animationDurations = map[string]float64{
	"fade":   0.3,
	"pop":    0.25,
	"slide":  0.3,
	"bounce": 0.4,
}

// EntryDuration returns how long the given entry animation plays.
func EntryDuration(kind string) float64 {
	return animationDurations[kind]
}

// ExitDuration returns how long the given exit animation plays.
func ExitDuration(kind string) float64 {
	return animationDurations[kind]
}

// Frame is the render decision for one evaluation instant.
type Frame struct {
	CueID           uuid.UUID `json:"cue_id,omitempty"`
	Active          bool      `json:"active"`
	Phase           Phase     `json:"phase"`
	Restart         bool      `json:"restart"`
	LoopActive      bool      `json:"loop_active"`
	ActiveWordIndex int       `json:"active_word_index"`
}

// Engine tracks only the identity of the last active cue, used to
// detect the edge where the entry animation must replay. Everything
// else is recomputed from scratch each evaluation.
type Engine struct {
	lastCueID uuid.UUID
}

// New returns an engine with no active cue.
func New() *Engine {
	return &Engine{}
}

// Reset forgets the last active cue, forcing a restart signal on the
// next evaluation that finds one. Called after undo/redo and loads.
func (e *Engine) Reset() {
	e.lastCueID = uuid.Nil
}

// Evaluate computes the render decision at time t. cues must be sorted
// by start; the first cue containing t wins, so at most one cue is
// active even when cues overlap.
func (e *Engine) Evaluate(t float64, cues []models.SubtitleCue, style models.CaptionStyle) Frame {
	frame := Frame{Phase: PhaseNone, ActiveWordIndex: -1}

	active := activeCue(cues, t)
	if active == nil {
		e.lastCueID = uuid.Nil
		return frame
	}

	frame.Active = true
	frame.CueID = active.ID
	if active.ID != e.lastCueID {
		frame.Restart = true
		e.lastCueID = active.ID
	}

	frame.Phase = phaseAt(t, active, style)
	if frame.Phase == PhaseSteady && configured(style.AnimationLoop) {
		frame.LoopActive = true
	}

	if style.Karaoke && len(active.Words) > 0 {
		frame.ActiveWordIndex = activeWordIndex(active.Words, t)
	}
	return frame
}

// activeCue returns the first cue whose interval contains t. Ties on
// overlap go to the earliest start, which the sort order provides.
func activeCue(cues []models.SubtitleCue, t float64) *models.SubtitleCue {
	for i := range cues {
		if cues[i].Contains(t) {
			return &cues[i]
		}
	}
	return nil
}

func phaseAt(t float64, cue *models.SubtitleCue, style models.CaptionStyle) Phase {
	if !configured(style.AnimationIn) {
		return PhaseSteady
	}
	timeIntoCue := t - cue.Start
	timeToEnd := cue.End - t
	if timeIntoCue < EntryDuration(style.AnimationIn) {
		return PhaseEntry
	}
	if configured(style.AnimationOut) && timeToEnd < ExitDuration(style.AnimationOut) {
		return PhaseExit
	}
	return PhaseSteady
}

func configured(kind string) bool {
	return kind != "" && kind != "none"
}

// activeWordIndex returns the index of the word highlighted at t: the
// last word whose start is at or before t. A word keeps its highlight
// through gaps until the next word begins, which makes the index
// monotonic non-decreasing while t moves forward inside one cue.
// Returns -1 before the first word.
func activeWordIndex(words []models.Word, t float64) int {
	i := sort.Search(len(words), func(i int) bool { return words[i].Start > t })
	return i - 1
}
