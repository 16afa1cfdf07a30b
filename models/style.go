package models

// CaptionStyle is the document-wide subtitle styling and animation
// configuration. It is replaced wholesale on every style edit or
// template application.
type CaptionStyle struct {
	FontName        string `json:"font_name"`
	FontSize        int    `json:"font_size"`
	PrimaryColor    string `json:"primary_color"`
	OutlineColor    string `json:"outline_color"`
	HighlightColor  string `json:"highlight_color"`
	OutlineWidth    int    `json:"outline_width"`
	ShadowSize      int    `json:"shadow_size"`
	MarginV         int    `json:"margin_v"`
	Karaoke         bool   `json:"karaoke"`
	ScaleEmphasis   bool   `json:"scale_emphasis"`
	Uppercase       bool   `json:"uppercase"`
	Background      bool   `json:"background"`
	BackgroundColor string `json:"background_color,omitempty"`

	// Animation selectors. Empty string or "none" means the animation
	// is not configured.
	AnimationIn   string `json:"animation_in,omitempty"`
	AnimationOut  string `json:"animation_out,omitempty"`
	AnimationLoop string `json:"animation_loop,omitempty"`
}

// DefaultCaptionStyle returns the style applied to freshly loaded clips
// that have no stored style yet.
func DefaultCaptionStyle() CaptionStyle {
	return CaptionStyle{
		FontName:       "Arial",
		FontSize:       36,
		PrimaryColor:   "&HFFFFFF",
		OutlineColor:   "&H000000",
		HighlightColor: "&H00FFFF",
		OutlineWidth:   2,
		MarginV:        80,
	}
}
