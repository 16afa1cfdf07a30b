package models

// TrimRange is the sub-interval of the source media selected for the
// final clip, bounded by [0, duration].
type TrimRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// EditorDocument is the full editable state of one clip: its subtitle
// cues, caption style, trim bounds and source duration. It is the unit
// the editor loads, saves and snapshots for undo/redo.
type EditorDocument struct {
	Cues     []SubtitleCue `json:"cues"`
	Style    CaptionStyle  `json:"style"`
	Trim     TrimRange     `json:"trim"`
	Duration float64       `json:"duration"`
}

// Clone returns a deep copy of the document.
func (d EditorDocument) Clone() EditorDocument {
	out := d
	out.Cues = CloneCues(d.Cues)
	return out
}

// ExportRequest is what the editor emits toward the render collaborator
// when the user exports a clip. The editor's responsibility ends once
// the request is issued.
type ExportRequest struct {
	IncludeSubtitles bool          `json:"include_subtitles"`
	OutputFormatID   string        `json:"output_format_id"`
	Trim             TrimRange     `json:"trim"`
	Cues             []SubtitleCue `json:"cues,omitempty"`
	Style            CaptionStyle  `json:"style"`
}
