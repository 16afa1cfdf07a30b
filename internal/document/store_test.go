package document

import (
	"math"
	"sort"
	"testing"

	"github.com/google/uuid"

	"clipgenius/editor-service/models"
)

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func cuesSorted(cues []models.SubtitleCue) bool {
	return sort.SliceIsSorted(cues, func(i, j int) bool { return cues[i].Start < cues[j].Start })
}

func uniqueIDs(cues []models.SubtitleCue) bool {
	seen := make(map[uuid.UUID]bool, len(cues))
	for _, c := range cues {
		if seen[c.ID] {
			return false
		}
		seen[c.ID] = true
	}
	return true
}

func TestAddCue_DefaultBounds(t *testing.T) {
	tests := []struct {
		name      string
		duration  float64
		playhead  float64
		wantStart float64
		wantEnd   float64
	}{
		{name: "mid timeline", duration: 30, playhead: 10, wantStart: 10, wantEnd: 12},
		{name: "playhead before zero clamps", duration: 30, playhead: -2, wantStart: 0, wantEnd: 2},
		{name: "near the end shifts back", duration: 10, playhead: 9.5, wantStart: 8, wantEnd: 10},
		{name: "past the end clamps", duration: 10, playhead: 50, wantStart: 8, wantEnd: 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore(tc.duration)
			cue := s.AddCue(tc.playhead, "hello")
			if math.Abs(cue.Start-tc.wantStart) > 1e-9 || math.Abs(cue.End-tc.wantEnd) > 1e-9 {
				t.Errorf("AddCue bounds = [%v, %v]; want [%v, %v]", cue.Start, cue.End, tc.wantStart, tc.wantEnd)
			}
			if cue.ID == uuid.Nil {
				t.Error("AddCue returned a nil id")
			}
		})
	}
}

func TestStoreStaysSortedWithUniqueIDs(t *testing.T) {
	s := NewStore(60)
	a := s.AddCue(20, "a")
	s.AddCue(5, "b")
	c := s.AddCue(40, "c")

	if _, err := s.UpdateCue(c.ID, CueUpdate{Start: floatPtr(1), End: floatPtr(3)}); err != nil {
		t.Fatalf("UpdateCue: %v", err)
	}
	if err := s.DeleteCue(a.ID); err != nil {
		t.Fatalf("DeleteCue: %v", err)
	}
	s.AddCue(0.5, "d")

	cues := s.Cues()
	if !cuesSorted(cues) {
		t.Errorf("cues not sorted by start: %+v", cues)
	}
	if !uniqueIDs(cues) {
		t.Errorf("duplicate cue ids: %+v", cues)
	}
}

func TestUpdateCue_ClampsInvertedBounds(t *testing.T) {
	s := NewStore(20)
	cue := s.AddCue(5, "x")

	// end <= start is an invariant violation: clamp, never error.
	got, err := s.UpdateCue(cue.ID, CueUpdate{Start: floatPtr(8), End: floatPtr(6)})
	if err != nil {
		t.Fatalf("UpdateCue: %v", err)
	}
	if got.End <= got.Start {
		t.Errorf("bounds still inverted after clamp: [%v, %v]", got.Start, got.End)
	}
	if got.End-got.Start < MinCueDuration-1e-9 {
		t.Errorf("cue shorter than minimum: %v", got.End-got.Start)
	}
}

func TestUpdateCue_Missing(t *testing.T) {
	s := NewStore(20)
	if _, err := s.UpdateCue(uuid.New(), CueUpdate{Text: strPtr("nope")}); err != ErrCueNotFound {
		t.Errorf("err = %v; want ErrCueNotFound", err)
	}
}

func TestLoad_RepairsMalformedDocument(t *testing.T) {
	dup := uuid.New()
	doc := models.EditorDocument{
		Duration: 30,
		Trim:     models.TrimRange{Start: -5, End: 90},
		Cues: []models.SubtitleCue{
			{ID: dup, Start: 10, End: 8, Text: "inverted"},
			{ID: dup, Start: 2, End: 4, Text: "duplicate id", Words: []models.Word{
				{Text: "out", Start: 0, End: 1},     // clamps to cue start
				{Text: "bad", Start: 3.5, End: 3.5}, // zero length, dropped
				{Text: "ok", Start: 2.5, End: 3},
			}},
		},
	}

	s := NewStore(0)
	s.Load(doc)

	cues := s.Cues()
	if !cuesSorted(cues) || !uniqueIDs(cues) {
		t.Fatalf("loaded cues not normalized: %+v", cues)
	}
	for _, c := range cues {
		if c.End <= c.Start {
			t.Errorf("cue %s still inverted: [%v, %v]", c.Text, c.Start, c.End)
		}
		for _, w := range c.Words {
			if w.Start < c.Start || w.End > c.End || w.End <= w.Start {
				t.Errorf("word %q outside cue or empty: [%v, %v] in [%v, %v]", w.Text, w.Start, w.End, c.Start, c.End)
			}
		}
	}

	trim := s.Trim()
	if trim.Start != 0 || trim.End != 30 {
		t.Errorf("invalid trim not reset: %+v", trim)
	}
	if s.Style().FontName == "" {
		t.Error("zero-value style not replaced with defaults")
	}
}

func TestTrimClamps(t *testing.T) {
	s := NewStore(10)
	s.SetTrimStart(3)

	// Dragging the end toward 1s must stop at start + minimum.
	for _, candidate := range []float64{8, 5, 3.6, 3.5, 2, 1, -4} {
		s.SetTrimEnd(candidate)
		trim := s.Trim()
		if trim.End < trim.Start+MinTrimDuration-1e-9 {
			t.Fatalf("SetTrimEnd(%v) broke minimum: %+v", candidate, trim)
		}
	}
	if got := s.Trim().End; math.Abs(got-3.5) > 1e-9 {
		t.Errorf("trim end = %v; want 3.5", got)
	}

	s.SetTrimEnd(100)
	if got := s.Trim().End; got != 10 {
		t.Errorf("trim end = %v; want capped at duration 10", got)
	}

	s.SetTrimStart(-3)
	if got := s.Trim().Start; got != 0 {
		t.Errorf("trim start = %v; want floored at 0", got)
	}
	s.SetTrimStart(99)
	trim := s.Trim()
	if trim.Start > trim.End-MinTrimDuration+1e-9 {
		t.Errorf("trim start overran end: %+v", trim)
	}
}

func TestMoveCuePreservesDurationAndWords(t *testing.T) {
	s := NewStore(20)
	cue := s.AddCue(5, "x")
	if _, err := s.UpdateCue(cue.ID, CueUpdate{Words: &[]models.Word{
		{Text: "a", Start: 5, End: 5.5},
		{Text: "b", Start: 5.5, End: 7},
	}}); err != nil {
		t.Fatalf("UpdateCue: %v", err)
	}

	if !s.MoveCue(cue.ID, 10) {
		t.Fatal("MoveCue reported missing cue")
	}
	got, _ := s.CueByID(cue.ID)
	if math.Abs(got.Duration()-2) > 1e-9 {
		t.Errorf("duration changed on move: %v", got.Duration())
	}
	if got.Start != 10 || got.End != 12 {
		t.Errorf("bounds = [%v, %v]; want [10, 12]", got.Start, got.End)
	}
	if math.Abs(got.Words[0].Start-10) > 1e-9 || math.Abs(got.Words[1].End-12) > 1e-9 {
		t.Errorf("words did not shift with cue: %+v", got.Words)
	}

	// Moving past the end clamps so the cue still fits.
	s.MoveCue(cue.ID, 100)
	got, _ = s.CueByID(cue.ID)
	if got.Start != 18 || got.End != 20 {
		t.Errorf("bounds after clamped move = [%v, %v]; want [18, 20]", got.Start, got.End)
	}
}

func TestResizeCueClamps(t *testing.T) {
	s := NewStore(10)
	cue := s.AddCue(4, "x") // [4, 6]

	s.ResizeCueStart(cue.ID, 7) // past the end
	got, _ := s.CueByID(cue.ID)
	if math.Abs(got.Start-(got.End-MinCueDuration)) > 1e-9 {
		t.Errorf("resize start overran: [%v, %v]", got.Start, got.End)
	}

	s.ResizeCueEnd(cue.ID, 50)
	got, _ = s.CueByID(cue.ID)
	if got.End != 10 {
		t.Errorf("resize end = %v; want capped at duration", got.End)
	}

	if s.ResizeCueStart(uuid.New(), 1) {
		t.Error("resize on missing cue reported success")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := NewStore(15)
	s.AddCue(2, "one")
	s.AddCue(7, "two")
	s.SetTrimStart(1)

	snap := s.Snapshot()
	s.AddCue(10, "three")
	s.SetTrimEnd(5)

	s.Restore(snap)
	got := s.Snapshot()
	if len(got.Cues) != 2 {
		t.Fatalf("restored %d cues; want 2", len(got.Cues))
	}
	if got.Trim != snap.Trim {
		t.Errorf("trim = %+v; want %+v", got.Trim, snap.Trim)
	}

	// The snapshot must be isolated from later store mutations.
	s.AddCue(12, "four")
	if len(snap.Cues) != 2 {
		t.Errorf("snapshot aliased live state: %d cues", len(snap.Cues))
	}
}
