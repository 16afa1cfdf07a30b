// Package session implements the pointer drag/resize state machine for
// the clip timeline. One continuous pointer-down → pointer-up
// interaction manipulates exactly one bound: a trim edge, the playhead,
// or a cue body/edge. Candidate times come from the timeline mapper;
// the per-target clamps live in the document store so the invariants
// stay centrally enforced.
package session

import (
	"errors"

	"github.com/google/uuid"

	"clipgenius/editor-service/internal/document"
	"clipgenius/editor-service/internal/timeline"
)

// State identifies the active drag session, if any.
type State int

const (
	Idle State = iota
	DraggingTrimStart
	DraggingTrimEnd
	DraggingPlayhead
	DraggingCue
	ResizingCue
)

func (s State) String() string {
	switch s {
	case DraggingTrimStart:
		return "dragging-trim-start"
	case DraggingTrimEnd:
		return "dragging-trim-end"
	case DraggingPlayhead:
		return "dragging-playhead"
	case DraggingCue:
		return "dragging-cue"
	case ResizingCue:
		return "resizing-cue"
	default:
		return "idle"
	}
}

// Edge names which cue edge a resize session grabbed.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

// TargetKind names what the pointer went down on.
type TargetKind string

const (
	TargetTrimStart TargetKind = "trim-start"
	TargetTrimEnd   TargetKind = "trim-end"
	TargetPlayhead  TargetKind = "playhead"
	TargetCueBody   TargetKind = "cue"
	TargetCueStart  TargetKind = "cue-start"
	TargetCueEnd    TargetKind = "cue-end"
)

// Target describes the pointer-down hit. Locked reflects the owning
// track's lock state as reported by the host.
type Target struct {
	Kind   TargetKind
	CueID  uuid.UUID
	Locked bool
}

// Pointer is one pointer sample in timeline-container coordinates.
type Pointer struct {
	ClientX      float64
	RectLeft     float64
	RectWidth    float64
	ScrollOffset float64
	Zoom         float64
}

var (
	// ErrSessionActive is returned when a pointer-down arrives while a
	// session is already running. Pointer capture makes targets
	// mutually exclusive, so this is a host protocol violation.
	ErrSessionActive = errors.New("drag session already active")
	// ErrTrackLocked is returned when the pointer goes down on a locked
	// track; no session is started.
	ErrTrackLocked = errors.New("track is locked")
	// ErrUnknownTarget is returned for a target kind the machine does
	// not recognize.
	ErrUnknownTarget = errors.New("unknown pointer target")
)

// Machine consumes pointer events and mutates the document through the
// store. Not safe for concurrent use; the owning editor serializes
// access.
type Machine struct {
	store *document.Store
	seek  func(t float64)

	state         State
	cueID         uuid.UUID
	edge          Edge
	pointerOffset float64
	moved         bool
}

// NewMachine creates an idle machine over the given store. seek is the
// playback collaborator's seek callback, invoked while the playhead is
// dragged; it may be nil.
func NewMachine(store *document.Store, seek func(t float64)) *Machine {
	return &Machine{store: store, seek: seek}
}

// State returns the current session state.
func (m *Machine) State() State { return m.state }

// PointerDown starts a session for the given target. A simple click on
// the track background is also routed here as a playhead target; the
// host decides click vs. drag and may follow up with zero move events.
func (m *Machine) PointerDown(target Target, p Pointer) error {
	if m.state != Idle {
		return ErrSessionActive
	}
	if target.Locked {
		return ErrTrackLocked
	}

	switch target.Kind {
	case TargetTrimStart:
		m.state = DraggingTrimStart
	case TargetTrimEnd:
		m.state = DraggingTrimEnd
	case TargetPlayhead:
		m.state = DraggingPlayhead
		m.emitSeek(m.candidate(p))
	case TargetCueBody:
		cue, ok := m.store.CueByID(target.CueID)
		if !ok {
			return document.ErrCueNotFound
		}
		m.state = DraggingCue
		m.cueID = cue.ID
		// Keep the grab point under the cursor for the whole drag.
		m.pointerOffset = m.candidate(p) - cue.Start
	case TargetCueStart, TargetCueEnd:
		if _, ok := m.store.CueByID(target.CueID); !ok {
			return document.ErrCueNotFound
		}
		m.state = ResizingCue
		m.cueID = target.CueID
		m.edge = EdgeStart
		if target.Kind == TargetCueEnd {
			m.edge = EdgeEnd
		}
	default:
		return ErrUnknownTarget
	}
	return nil
}

// PointerMove advances the active session with a new pointer sample.
// Moves while idle are ignored. A session whose cue has been deleted
// concurrently becomes a no-op until pointer-up.
func (m *Machine) PointerMove(p Pointer) {
	if m.state == Idle {
		return
	}
	candidate := m.candidate(p)

	switch m.state {
	case DraggingTrimStart:
		m.store.SetTrimStart(candidate)
		m.moved = true
	case DraggingTrimEnd:
		m.store.SetTrimEnd(candidate)
		m.moved = true
	case DraggingPlayhead:
		m.emitSeek(candidate)
	case DraggingCue:
		if m.store.MoveCue(m.cueID, candidate-m.pointerOffset) {
			m.moved = true
		}
	case ResizingCue:
		ok := false
		if m.edge == EdgeStart {
			ok = m.store.ResizeCueStart(m.cueID, candidate)
		} else {
			ok = m.store.ResizeCueEnd(m.cueID, candidate)
		}
		if ok {
			m.moved = true
		}
	}
}

// PointerUp ends the session and reports whether the document changed,
// which is the editor's signal to commit a history snapshot. Playhead
// drags never report a document change.
func (m *Machine) PointerUp() bool {
	committed := m.moved
	m.reset()
	return committed
}

// Cancel is the host-synthesized release for lost pointer-up events
// (focus loss, pointer capture broken). Same semantics as PointerUp.
func (m *Machine) Cancel() bool {
	return m.PointerUp()
}

func (m *Machine) candidate(p Pointer) float64 {
	return timeline.PositionToTime(p.ClientX, p.RectLeft, p.RectWidth, p.ScrollOffset, p.Zoom, m.store.Duration())
}

func (m *Machine) emitSeek(t float64) {
	if m.seek != nil {
		m.seek(t)
	}
}

func (m *Machine) reset() {
	m.state = Idle
	m.cueID = uuid.Nil
	m.edge = ""
	m.pointerOffset = 0
	m.moved = false
}
