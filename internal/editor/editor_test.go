package editor

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"clipgenius/editor-service/internal/document"
	"clipgenius/editor-service/internal/session"
	"clipgenius/editor-service/models"
)

func openTestEditor(t *testing.T, duration float64) *Editor {
	t.Helper()
	return New(uuid.New(), models.EditorDocument{Duration: duration}, nil)
}

func pointerAt(tm, duration float64) session.Pointer {
	return session.Pointer{ClientX: (tm / duration) * 1000, RectWidth: 1000, Zoom: 1}
}

func TestUndoRestoresPreEditDocument(t *testing.T) {
	e := openTestEditor(t, 20)
	cue := e.AddCue(5, "hello")

	if _, err := e.UpdateCue(cue.ID, document.CueUpdate{Text: strPtr("edited")}); err != nil {
		t.Fatalf("UpdateCue: %v", err)
	}

	doc, ok := e.Undo()
	if !ok {
		t.Fatal("Undo reported no-op")
	}
	if doc.Cues[0].Text != "hello" {
		t.Errorf("after undo text = %q; want %q", doc.Cues[0].Text, "hello")
	}

	doc, ok = e.Redo()
	if !ok {
		t.Fatal("Redo reported no-op")
	}
	if doc.Cues[0].Text != "edited" {
		t.Errorf("after redo text = %q; want %q", doc.Cues[0].Text, "edited")
	}
}

func TestNewEditAfterUndoDropsRedo(t *testing.T) {
	e := openTestEditor(t, 20)
	e.AddCue(2, "a")
	e.AddCue(6, "b")

	if _, ok := e.Undo(); !ok {
		t.Fatal("Undo failed")
	}
	e.AddCue(10, "c")

	if e.CanRedo() {
		t.Error("redo target survived a new committed edit")
	}
}

func TestUndoAtSeedIsNoOp(t *testing.T) {
	e := openTestEditor(t, 20)
	// Only the load seed exists.
	if _, ok := e.Undo(); ok {
		t.Error("undo past the load seed succeeded")
	}
}

func TestDragSessionCommitsExactlyOneSnapshot(t *testing.T) {
	e := openTestEditor(t, 10)
	cue := e.AddCue(2, "x") // snapshot 2 (after seed)

	if err := e.PointerDown(session.Target{Kind: session.TargetCueBody, CueID: cue.ID}, pointerAt(2, 10)); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	// Many intermediate moves, then a single release.
	for _, tm := range []float64{3, 4, 5, 6, 7} {
		e.PointerMove(pointerAt(tm, 10))
	}
	if !e.PointerUp() {
		t.Fatal("drag session did not commit")
	}

	// One undo steps over the whole drag, back to the pre-drag cue.
	doc, ok := e.Undo()
	if !ok {
		t.Fatal("Undo failed")
	}
	if doc.Cues[0].Start != 2 {
		t.Errorf("after undo cue start = %v; want pre-drag 2", doc.Cues[0].Start)
	}
}

func TestDragWithoutMovementCommitsNothing(t *testing.T) {
	e := openTestEditor(t, 10)
	if err := e.PointerDown(session.Target{Kind: session.TargetTrimStart}, pointerAt(0, 10)); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if e.PointerUp() {
		t.Error("zero-move session reported a commit")
	}
	if e.CanUndo() {
		t.Error("snapshot committed for a zero-move session")
	}
}

type failingSaver struct{ err error }

func (f failingSaver) SaveDocument(ctx context.Context, clipID uuid.UUID, doc models.EditorDocument) error {
	return f.err
}

type recordingSaver struct{ saved *models.EditorDocument }

func (r recordingSaver) SaveDocument(ctx context.Context, clipID uuid.UUID, doc models.EditorDocument) error {
	*r.saved = doc
	return nil
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	e := openTestEditor(t, 10)
	e.AddCue(1, "keep me")
	before := e.Document()

	err := e.Save(context.Background(), failingSaver{err: errors.New("backend unreachable")})
	if err == nil {
		t.Fatal("save failure not surfaced")
	}
	after := e.Document()
	if len(after.Cues) != len(before.Cues) || after.Cues[0].Text != before.Cues[0].Text {
		t.Errorf("local state changed on failed save: %+v", after.Cues)
	}
}

func TestSaveEmitsCurrentDocument(t *testing.T) {
	e := openTestEditor(t, 10)
	e.AddCue(1, "persist me")

	var got models.EditorDocument
	if err := e.Save(context.Background(), recordingSaver{saved: &got}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(got.Cues) != 1 || got.Cues[0].Text != "persist me" {
		t.Errorf("saved document = %+v", got.Cues)
	}
}

func TestExportPayload(t *testing.T) {
	e := openTestEditor(t, 10)
	e.AddCue(1, "sub")

	with := e.ExportPayload(true, "vertical-1080")
	if !with.IncludeSubtitles || len(with.Cues) != 1 || with.OutputFormatID != "vertical-1080" {
		t.Errorf("payload with subtitles = %+v", with)
	}
	without := e.ExportPayload(false, "vertical-1080")
	if without.Cues != nil {
		t.Errorf("payload without subtitles still carries cues: %+v", without.Cues)
	}
}

func TestViewportIsDisplayStateOnly(t *testing.T) {
	e := openTestEditor(t, 10)
	v := e.SetViewport(9, 120)
	if v.Zoom != 4 {
		t.Errorf("zoom = %v; want clamped to 4", v.Zoom)
	}
	if v.ScrollOffset != 120 {
		t.Errorf("scroll = %v; want 120", v.ScrollOffset)
	}
	if e.CanUndo() {
		t.Error("viewport change committed a snapshot")
	}
}

func TestPlayheadDragUpdatesPlayheadAndHook(t *testing.T) {
	e := openTestEditor(t, 10)
	var hooked []float64
	e.OnSeek(func(tm float64) { hooked = append(hooked, tm) })

	if err := e.PointerDown(session.Target{Kind: session.TargetPlayhead}, pointerAt(3, 10)); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	e.PointerMove(pointerAt(7, 10))
	e.PointerUp()

	if math.Abs(e.Playhead()-7) > 1e-9 {
		t.Errorf("playhead = %v; want 7", e.Playhead())
	}
	if len(hooked) != 2 {
		t.Errorf("seek hook calls = %d; want 2", len(hooked))
	}
}

func strPtr(s string) *string { return &s }
