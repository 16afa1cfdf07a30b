package models

import "github.com/google/uuid"

// Word is a single word inside a subtitle cue with its own timing window,
// used for karaoke-style per-word highlighting.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SubtitleCue represents one subtitle entry on the clip timeline.
// Start and End are in seconds relative to the source video.
type SubtitleCue struct {
	ID    uuid.UUID `json:"id"`
	Start float64   `json:"start"`
	End   float64   `json:"end"`
	Text  string    `json:"text"`
	Words []Word    `json:"words,omitempty"` // optional word-level timings
}

// Duration returns the length of the cue in seconds.
func (c SubtitleCue) Duration() float64 {
	return c.End - c.Start
}

// Contains reports whether t falls inside the cue's interval.
func (c SubtitleCue) Contains(t float64) bool {
	return t >= c.Start && t <= c.End
}

// Clone returns a deep copy of the cue, including its word list.
func (c SubtitleCue) Clone() SubtitleCue {
	out := c
	if c.Words != nil {
		out.Words = make([]Word, len(c.Words))
		copy(out.Words, c.Words)
	}
	return out
}

// CloneCues deep-copies a cue slice.
func CloneCues(cues []SubtitleCue) []SubtitleCue {
	if cues == nil {
		return nil
	}
	out := make([]SubtitleCue, len(cues))
	for i, c := range cues {
		out[i] = c.Clone()
	}
	return out
}
