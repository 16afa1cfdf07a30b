// Package editor owns the single-writer document handle for one open
// clip. All mutation flows through Editor methods behind one mutex, so
// a cue mutation is always visible atomically to the next animation
// evaluation, and exactly one history snapshot is committed per
// user-meaningful action: load seed, cue add/delete, field edit, style
// replace, and drag-session completion. Intermediate pointer moves
// mutate freely without snapshots.
package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"clipgenius/editor-service/internal/animation"
	"clipgenius/editor-service/internal/document"
	"clipgenius/editor-service/internal/history"
	"clipgenius/editor-service/internal/session"
	"clipgenius/editor-service/internal/timeline"
	"clipgenius/editor-service/models"
)

// Loader fetches a clip's stored document. Out-of-scope collaborator.
type Loader interface {
	LoadDocument(ctx context.Context, clipID uuid.UUID) (models.EditorDocument, error)
}

// Saver persists a clip's document. Out-of-scope collaborator; the
// editor surfaces failures and leaves local state untouched.
type Saver interface {
	SaveDocument(ctx context.Context, clipID uuid.UUID, doc models.EditorDocument) error
}

// Editor is the live editing session for one clip.
type Editor struct {
	mu sync.Mutex

	clipID   uuid.UUID
	store    *document.Store
	hist     *history.History
	machine  *session.Machine
	engine   *animation.Engine
	viewport timeline.Viewport
	playhead float64
	seekHook func(t float64)
	log      *logrus.Entry
}

// New opens an editor over a loaded document and seeds the history
// with one snapshot.
func New(clipID uuid.UUID, doc models.EditorDocument, log *logrus.Logger) *Editor {
	if log == nil {
		log = logrus.New()
	}
	e := &Editor{
		clipID:   clipID,
		store:    document.NewStore(doc.Duration),
		hist:     history.New(),
		engine:   animation.New(),
		viewport: timeline.DefaultViewport(),
		log:      log.WithField("clip_id", clipID),
	}
	e.store.Load(doc)
	e.machine = session.NewMachine(e.store, e.handleSeek)
	e.hist.Push(e.store.Snapshot())
	return e
}

// ClipID returns the clip this editor is bound to.
func (e *Editor) ClipID() uuid.UUID { return e.clipID }

// OnSeek registers the playback collaborator's seek callback. It is
// registered once at wiring time, not polled.
func (e *Editor) OnSeek(fn func(t float64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seekHook = fn
}

// handleSeek runs inside machine calls, which already hold e.mu.
func (e *Editor) handleSeek(t float64) {
	e.playhead = t
	if e.seekHook != nil {
		e.seekHook(t)
	}
}

// Document returns a deep copy of the current editable state.
func (e *Editor) Document() models.EditorDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Snapshot()
}

// Viewport returns the current timeline viewport.
func (e *Editor) Viewport() timeline.Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport
}

// SetViewport updates zoom (clamped) and scroll offset. Display state
// only: no snapshot is committed.
func (e *Editor) SetViewport(zoom, scrollOffset float64) timeline.Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport.SetZoom(zoom)
	e.viewport.SetScrollOffset(scrollOffset)
	return e.viewport
}

// AddCue inserts a cue with default bounds near the playhead and
// commits one snapshot.
func (e *Editor) AddCue(playhead float64, text string) models.SubtitleCue {
	e.mu.Lock()
	defer e.mu.Unlock()
	cue := e.store.AddCue(playhead, text)
	e.commit("cue added")
	return cue
}

// UpdateCue applies a field edit and commits one snapshot on success.
func (e *Editor) UpdateCue(id uuid.UUID, upd document.CueUpdate) (models.SubtitleCue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cue, err := e.store.UpdateCue(id, upd)
	if err != nil {
		return models.SubtitleCue{}, err
	}
	e.commit("cue updated")
	return cue, nil
}

// DeleteCue removes a cue and commits one snapshot on success.
func (e *Editor) DeleteCue(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.DeleteCue(id); err != nil {
		return err
	}
	e.commit("cue deleted")
	return nil
}

// SetStyle replaces the caption style wholesale and commits one
// snapshot.
func (e *Editor) SetStyle(style models.CaptionStyle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.SetStyle(style)
	e.commit("style replaced")
}

// Undo restores the previous snapshot atomically. Reports false at the
// earliest entry.
func (e *Editor) Undo() (models.EditorDocument, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, ok := e.hist.Undo()
	if !ok {
		return models.EditorDocument{}, false
	}
	e.store.Restore(doc)
	e.engine.Reset()
	e.log.Debug("undo applied")
	return e.store.Snapshot(), true
}

// Redo restores the next snapshot atomically. Reports false at the
// latest entry.
func (e *Editor) Redo() (models.EditorDocument, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, ok := e.hist.Redo()
	if !ok {
		return models.EditorDocument{}, false
	}
	e.store.Restore(doc)
	e.engine.Reset()
	e.log.Debug("redo applied")
	return e.store.Snapshot(), true
}

// CanUndo reports whether an undo target exists.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanUndo()
}

// CanRedo reports whether a redo target exists.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanRedo()
}

// PointerDown starts a drag session.
func (e *Editor) PointerDown(target session.Target, p session.Pointer) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.PointerDown(target, p)
}

// PointerMove advances the active drag session. The document mutates
// continuously; no snapshot is taken here.
func (e *Editor) PointerMove(p session.Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.machine.PointerMove(p)
}

// PointerUp ends the drag session, committing one snapshot if the
// session changed the document.
func (e *Editor) PointerUp() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.machine.PointerUp() {
		e.commit("drag session")
		return true
	}
	return false
}

// CancelPointer is the synthesized release for lost pointer-up events.
func (e *Editor) CancelPointer() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.machine.Cancel() {
		e.commit("drag session cancelled")
		return true
	}
	return false
}

// SessionState returns the drag machine's current state.
func (e *Editor) SessionState() session.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.State()
}

// Frame evaluates the animation engine at playback time t.
func (e *Editor) Frame(t float64) animation.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engine.Evaluate(t, e.store.Cues(), e.store.Style())
}

// Playhead returns the last seek target observed from playhead drags.
func (e *Editor) Playhead() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playhead
}

// Save persists the document through the collaborator. On failure the
// local state is untouched so the user can retry.
func (e *Editor) Save(ctx context.Context, saver Saver) error {
	e.mu.Lock()
	doc := e.store.Snapshot()
	e.mu.Unlock()

	if err := saver.SaveDocument(ctx, e.clipID, doc); err != nil {
		e.log.WithError(err).Warn("document save failed; local state unchanged")
		return fmt.Errorf("save clip %s: %w", e.clipID, err)
	}
	return nil
}

// ExportPayload builds the request handed to the render collaborator.
// The editor has no further responsibility once it is issued.
func (e *Editor) ExportPayload(includeSubtitles bool, outputFormatID string) models.ExportRequest {
	e.mu.Lock()
	doc := e.store.Snapshot()
	e.mu.Unlock()

	req := models.ExportRequest{
		IncludeSubtitles: includeSubtitles,
		OutputFormatID:   outputFormatID,
		Trim:             doc.Trim,
		Style:            doc.Style,
	}
	if includeSubtitles {
		req.Cues = doc.Cues
	}
	return req
}

// commit pushes one history snapshot. Callers hold e.mu.
func (e *Editor) commit(action string) {
	e.hist.Push(e.store.Snapshot())
	e.log.WithField("action", action).Debug("history snapshot committed")
}
