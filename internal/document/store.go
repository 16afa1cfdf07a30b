// Package document owns the editable state of one clip: the ordered
// subtitle cues, the caption style and the trim bounds. Every mutation
// goes through the store so the timeline invariants (cues sorted by
// start, unique ids, minimum durations, bounds inside the source
// duration) are enforced in one place. Out-of-range values are clamped
// to the nearest valid value, never surfaced as errors.
package document

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"clipgenius/editor-service/internal/timeline"
	"clipgenius/editor-service/models"
)

const (
	// MinTrimDuration is the smallest clip the trim handles can select.
	MinTrimDuration = 0.5
	// MinCueDuration is the smallest interval a cue edge can be resized to.
	MinCueDuration = 0.1
	// DefaultCueLength is the length of a freshly added cue.
	DefaultCueLength = 2.0
)

// ErrCueNotFound is returned when an operation references a cue id that
// is not (or no longer) in the store.
var ErrCueNotFound = errors.New("cue not found")

// Store holds one clip's editable document. It is not safe for
// concurrent use; the owning editor serializes access.
type Store struct {
	cues     []models.SubtitleCue
	style    models.CaptionStyle
	trim     models.TrimRange
	duration float64
}

// NewStore creates an empty document for a source of the given
// duration, with the trim range spanning the whole source.
func NewStore(duration float64) *Store {
	if duration < 0 {
		duration = 0
	}
	return &Store{
		style:    models.DefaultCaptionStyle(),
		trim:     models.TrimRange{Start: 0, End: duration},
		duration: duration,
	}
}

// Load replaces the store contents with a loaded document, repairing
// malformed data instead of refusing to load: cues with inverted bounds
// get the default length, duplicate ids get fresh ones, word timings
// are clamped into their parent cue and re-sorted, and the cue list is
// re-sorted by start.
func (s *Store) Load(doc models.EditorDocument) {
	s.duration = doc.Duration
	if s.duration < 0 {
		s.duration = 0
	}

	s.style = doc.Style
	if s.style.FontName == "" {
		s.style = models.DefaultCaptionStyle()
	}

	s.trim = doc.Trim
	if s.trim.Start < 0 || s.trim.End > s.duration || s.trim.End-s.trim.Start < MinTrimDuration {
		s.trim = models.TrimRange{Start: 0, End: s.duration}
	}

	seen := make(map[uuid.UUID]bool, len(doc.Cues))
	s.cues = s.cues[:0]
	for _, c := range doc.Cues {
		cue := c.Clone()
		if cue.ID == uuid.Nil || seen[cue.ID] {
			cue.ID = uuid.New()
		}
		seen[cue.ID] = true
		if cue.End <= cue.Start {
			cue.End = cue.Start + DefaultCueLength
		}
		cue.Words = normalizeWords(cue.Words, cue.Start, cue.End)
		s.cues = append(s.cues, cue)
	}
	s.sortCues()
}

// normalizeWords clamps word intervals into [start, end], drops words
// with non-positive length and returns the list sorted by start.
func normalizeWords(words []models.Word, start, end float64) []models.Word {
	if len(words) == 0 {
		return nil
	}
	out := make([]models.Word, 0, len(words))
	for _, w := range words {
		w.Start = timeline.Clamp(w.Start, start, end)
		w.End = timeline.Clamp(w.End, start, end)
		if w.End <= w.Start {
			continue
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() models.EditorDocument {
	return models.EditorDocument{
		Cues:     models.CloneCues(s.cues),
		Style:    s.style,
		Trim:     s.trim,
		Duration: s.duration,
	}
}

// Restore atomically replaces the store contents with a snapshot taken
// earlier by Snapshot. Used by undo/redo.
func (s *Store) Restore(doc models.EditorDocument) {
	s.cues = models.CloneCues(doc.Cues)
	s.style = doc.Style
	s.trim = doc.Trim
	s.duration = doc.Duration
}

// Duration returns the source media duration in seconds.
func (s *Store) Duration() float64 { return s.duration }

// Style returns the current caption style.
func (s *Store) Style() models.CaptionStyle { return s.style }

// SetStyle replaces the caption style wholesale.
func (s *Store) SetStyle(st models.CaptionStyle) { s.style = st }

// Trim returns the current trim range.
func (s *Store) Trim() models.TrimRange { return s.trim }

// Cues returns a deep copy of the cue list, sorted by start.
func (s *Store) Cues() []models.SubtitleCue {
	return models.CloneCues(s.cues)
}

// CueByID returns a copy of the cue with the given id.
func (s *Store) CueByID(id uuid.UUID) (models.SubtitleCue, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.cues[i].Clone(), true
	}
	return models.SubtitleCue{}, false
}

// AddCue inserts a new cue with default bounds near the playhead and
// returns it.
func (s *Store) AddCue(playhead float64, text string) models.SubtitleCue {
	start := playhead
	if s.duration > 0 {
		start = timeline.Clamp(playhead, 0, s.duration)
	} else if start < 0 {
		start = 0
	}
	end := start + DefaultCueLength
	if s.duration > 0 && end > s.duration {
		end = s.duration
		start = timeline.Clamp(end-DefaultCueLength, 0, end)
		if end-start < MinCueDuration {
			end = start + MinCueDuration
		}
	}
	cue := models.SubtitleCue{ID: uuid.New(), Start: start, End: end, Text: text}
	s.cues = append(s.cues, cue)
	s.sortCues()
	return cue
}

// CueUpdate carries a partial edit to a cue's fields. Nil fields are
// left untouched.
type CueUpdate struct {
	Start *float64
	End   *float64
	Text  *string
	Words *[]models.Word
}

// UpdateCue applies a field edit to a cue. Bounds are clamped so the
// cue keeps at least MinCueDuration and stays inside [0, duration].
func (s *Store) UpdateCue(id uuid.UUID, upd CueUpdate) (models.SubtitleCue, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.SubtitleCue{}, ErrCueNotFound
	}
	cue := &s.cues[i]

	start, end := cue.Start, cue.End
	if upd.Start != nil {
		start = *upd.Start
	}
	if upd.End != nil {
		end = *upd.End
	}
	maxEnd := end
	if s.duration > 0 {
		maxEnd = s.duration
	}
	end = timeline.Clamp(end, MinCueDuration, maxEnd)
	start = timeline.Clamp(start, 0, end-MinCueDuration)
	cue.Start, cue.End = start, end

	if upd.Text != nil {
		cue.Text = *upd.Text
	}
	if upd.Words != nil {
		cue.Words = normalizeWords(*upd.Words, cue.Start, cue.End)
	} else {
		cue.Words = normalizeWords(cue.Words, cue.Start, cue.End)
	}

	out := cue.Clone()
	s.sortCues()
	return out, nil
}

// DeleteCue removes a cue by id.
func (s *Store) DeleteCue(id uuid.UUID) error {
	i := s.indexOf(id)
	if i < 0 {
		return ErrCueNotFound
	}
	s.cues = append(s.cues[:i], s.cues[i+1:]...)
	return nil
}

// MoveCue shifts a cue so that its start lands on newStart, preserving
// its duration and keeping it inside [0, duration]. Reports false when
// the cue no longer exists.
func (s *Store) MoveCue(id uuid.UUID, newStart float64) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	cue := &s.cues[i]
	length := cue.Duration()
	maxStart := s.duration - length
	if maxStart < 0 {
		maxStart = 0
	}
	shifted := timeline.Clamp(newStart, 0, maxStart)
	delta := shifted - cue.Start
	cue.Start = shifted
	cue.End = shifted + length
	for j := range cue.Words {
		cue.Words[j].Start += delta
		cue.Words[j].End += delta
	}
	s.sortCues()
	return true
}

// ResizeCueStart drags a cue's leading edge to candidate, clamped so
// the cue keeps at least MinCueDuration. Reports false when the cue no
// longer exists.
func (s *Store) ResizeCueStart(id uuid.UUID, candidate float64) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	cue := &s.cues[i]
	cue.Start = timeline.Clamp(candidate, 0, cue.End-MinCueDuration)
	cue.Words = normalizeWords(cue.Words, cue.Start, cue.End)
	s.sortCues()
	return true
}

// ResizeCueEnd drags a cue's trailing edge to candidate, clamped so the
// cue keeps at least MinCueDuration and stays inside the source.
func (s *Store) ResizeCueEnd(id uuid.UUID, candidate float64) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	cue := &s.cues[i]
	maxEnd := candidate
	if s.duration > 0 {
		maxEnd = s.duration
	}
	cue.End = timeline.Clamp(candidate, cue.Start+MinCueDuration, maxEnd)
	cue.Words = normalizeWords(cue.Words, cue.Start, cue.End)
	return true
}

// SetTrimStart moves the trim start toward candidate, keeping at least
// MinTrimDuration before the trim end and never going below zero.
func (s *Store) SetTrimStart(candidate float64) {
	limit := s.trim.End - MinTrimDuration
	if candidate > limit {
		candidate = limit
	}
	if candidate < 0 {
		candidate = 0
	}
	s.trim.Start = candidate
}

// SetTrimEnd moves the trim end toward candidate, keeping at least
// MinTrimDuration after the trim start and never exceeding duration.
func (s *Store) SetTrimEnd(candidate float64) {
	limit := s.trim.Start + MinTrimDuration
	if candidate < limit {
		candidate = limit
	}
	if s.duration > 0 && candidate > s.duration {
		candidate = s.duration
	}
	s.trim.End = candidate
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i := range s.cues {
		if s.cues[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) sortCues() {
	sort.SliceStable(s.cues, func(i, j int) bool { return s.cues[i].Start < s.cues[j].Start })
}
