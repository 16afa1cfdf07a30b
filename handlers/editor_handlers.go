package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"clipgenius/editor-service/internal/document"
	"clipgenius/editor-service/internal/editor"
	"clipgenius/editor-service/internal/timeline"
	"clipgenius/editor-service/models"
	"clipgenius/editor-service/utils"
)

// openEditor resolves the clipId path param and returns the open (or
// freshly loaded) editor for it. A nil editor means the error response
// has already been written.
func (h *ApplicationHandler) openEditor(c *fiber.Ctx) (*editor.Editor, error) {
	clipID, err := uuid.Parse(c.Params("clipId"))
	if err != nil {
		return nil, utils.RespondWithError(c, fiber.StatusBadRequest, "invalid clip ID format")
	}

	ed, err := h.Editors.GetOrOpen(c.Context(), clipID, h.Documents)
	if err != nil {
		h.Log.WithError(err).WithField("clip_id", clipID).Error("could not load editor document")
		return nil, utils.RespondWithError(c, fiber.StatusBadGateway, fmt.Sprintf("could not load clip document: %v", err))
	}
	return ed, nil
}

// editorState is the response body shared by most editor endpoints.
type editorState struct {
	Document models.EditorDocument `json:"document"`
	Viewport timeline.Viewport     `json:"viewport"`
	CanUndo  bool                  `json:"can_undo"`
	CanRedo  bool                  `json:"can_redo"`
	Session  string                `json:"session"`
}

func (h *ApplicationHandler) state(ed *editor.Editor) editorState {
	return editorState{
		Document: ed.Document(),
		Viewport: ed.Viewport(),
		CanUndo:  ed.CanUndo(),
		CanRedo:  ed.CanRedo(),
		Session:  ed.SessionState().String(),
	}
}

// GetEditorData opens the editor for a clip and returns its document.
// GET /api/v1/clips/:clipId/editor
func (h *ApplicationHandler) GetEditorData(c *fiber.Ctx) error {
	ed, err := h.openEditor(c)
	if ed == nil {
		return err
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, h.state(ed))
}

// SaveEditorData persists the current document. The local document is
// untouched whether the save succeeds or fails.
// PUT /api/v1/clips/:clipId/editor
func (h *ApplicationHandler) SaveEditorData(c *fiber.Ctx) error {
	ed, err := h.openEditor(c)
	if ed == nil {
		return err
	}
	if err := ed.Save(c.Context(), h.Documents); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadGateway, fmt.Sprintf("save failed, local edits kept: %v", err))
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"saved": true})
}

// CloseEditor discards the in-memory editor for a clip.
// DELETE /api/v1/clips/:clipId/editor
func (h *ApplicationHandler) CloseEditor(c *fiber.Ctx) error {
	clipID, err := uuid.Parse(c.Params("clipId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid clip ID format")
	}
	h.Editors.Close(clipID)
	return c.SendStatus(fiber.StatusNoContent)
}

// AddCuePayload creates a cue near the playhead.
type AddCuePayload struct {
	Playhead float64 `json:"playhead" validate:"gte=0"`
	Text     string  `json:"text"`
}

// AddCue inserts a new cue and commits one history snapshot.
// POST /api/v1/clips/:clipId/editor/cues
func (h *ApplicationHandler) AddCue(c *fiber.Ctx) error {
	ed, err := h.openEditor(c)
	if ed == nil {
		return err
	}

	var payload AddCuePayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse JSON: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}
	if payload.Text == "" {
		payload.Text = "New subtitle"
	}

	cue := ed.AddCue(payload.Playhead, payload.Text)
	return utils.RespondWithJSON(c, fiber.StatusCreated, cue)
}

// UpdateCuePayload carries a partial cue edit. Omitted fields are left
// untouched; out-of-range times are clamped, not rejected.
type UpdateCuePayload struct {
	Start *float64       `json:"start,omitempty" validate:"omitempty,gte=0"`
	End   *float64       `json:"end,omitempty" validate:"omitempty,gt=0"`
	Text  *string        `json:"text,omitempty"`
	Words *[]models.Word `json:"words,omitempty"`
}

// UpdateCue applies a field edit to one cue.
// PATCH /api/v1/clips/:clipId/editor/cues/:cueId
func (h *ApplicationHandler) UpdateCue(c *fiber.Ctx) error {
	ed, err := h.openEditor(c)
	if ed == nil {
		return err
	}
	cueID, err := uuid.Parse(c.Params("cueId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid cue ID format")
	}

	var payload UpdateCuePayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse JSON: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	cue, err := ed.UpdateCue(cueID, document.CueUpdate{
		Start: payload.Start,
		End:   payload.End,
		Text:  payload.Text,
		Words: payload.Words,
	})
	if err == document.ErrCueNotFound {
		return utils.RespondWithError(c, fiber.StatusNotFound, "cue not found")
	}
	if err != nil {
		h.Log.WithError(err).Error("cue update failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not update cue")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, cue)
}

// DeleteCue removes one cue.
// DELETE /api/v1/clips/:clipId/editor/cues/:cueId
func (h *ApplicationHandler) DeleteCue(c *fiber.Ctx) error {
	ed, err := h.openEditor(c)
	if ed == nil {
		return err
	}
	cueID, err := uuid.Parse(c.Params("cueId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid cue ID format")
	}
	if err := ed.DeleteCue(cueID); err == document.ErrCueNotFound {
		return utils.RespondWithError(c, fiber.StatusNotFound, "cue not found")
	} else if err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not delete cue")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateStylePayload replaces the caption style wholesale. Bounds
// mirror the editor UI's ranges.
type UpdateStylePayload struct {
	FontName        string `json:"font_name" validate:"required"`
	FontSize        int    `json:"font_size" validate:"gte=12,lte=100"`
	PrimaryColor    string `json:"primary_color" validate:"required"`
	OutlineColor    string `json:"outline_color" validate:"required"`
	HighlightColor  string `json:"highlight_color" validate:"required"`
	OutlineWidth    int    `json:"outline_width" validate:"gte=0,lte=10"`
	ShadowSize      int    `json:"shadow_size" validate:"gte=0,lte=10"`
	MarginV         int    `json:"margin_v" validate:"gte=0,lte=500"`
	Karaoke         bool   `json:"karaoke"`
	ScaleEmphasis   bool   `json:"scale_emphasis"`
	Uppercase       bool   `json:"uppercase"`
	Background      bool   `json:"background"`
	BackgroundColor string `json:"background_color"`
	AnimationIn     string `json:"animation_in" validate:"omitempty,oneof=none fade pop slide bounce"`
	AnimationOut    string `json:"animation_out" validate:"omitempty,oneof=none fade pop slide bounce"`
	AnimationLoop   string `json:"animation_loop" validate:"omitempty,oneof=none pulse wiggle glow"`
}

// UpdateStyle replaces the document style and commits one snapshot.
// PUT /api/v1/clips/:clipId/editor/style
func (h *ApplicationHandler) UpdateStyle(c *fiber.Ctx) error {
	ed, err := h.openEditor(c)
	if ed == nil {
		return err
	}

	var payload UpdateStylePayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse JSON: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	ed.SetStyle(models.CaptionStyle{
		FontName:        payload.FontName,
		FontSize:        payload.FontSize,
		PrimaryColor:    payload.PrimaryColor,
		OutlineColor:    payload.OutlineColor,
		HighlightColor:  payload.HighlightColor,
		OutlineWidth:    payload.OutlineWidth,
		ShadowSize:      payload.ShadowSize,
		MarginV:         payload.MarginV,
		Karaoke:         payload.Karaoke,
		ScaleEmphasis:   payload.ScaleEmphasis,
		Uppercase:       payload.Uppercase,
		Background:      payload.Background,
		BackgroundColor: payload.BackgroundColor,
		AnimationIn:     payload.AnimationIn,
		AnimationOut:    payload.AnimationOut,
		AnimationLoop:   payload.AnimationLoop,
	})
	return utils.RespondWithJSON(c, fiber.StatusOK, ed.Document().Style)
}

// Undo steps the document back one committed edit.
// POST /api/v1/clips/:clipId/editor/undo
func (h *ApplicationHandler) Undo(c *fiber.Ctx) error {
	ed, err := h.openEditor(c)
	if ed == nil {
		return err
	}
	doc, changed := ed.Undo()
	if !changed {
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"changed": false})
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"changed": true, "document": doc})
}

// Redo steps the document forward one committed edit.
// POST /api/v1/clips/:clipId/editor/redo
func (h *ApplicationHandler) Redo(c *fiber.Ctx) error {
	ed, err := h.openEditor(c)
	if ed == nil {
		return err
	}
	doc, changed := ed.Redo()
	if !changed {
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"changed": false})
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"changed": true, "document": doc})
}

// UpdateViewportPayload sets the timeline display state.
type UpdateViewportPayload struct {
	Zoom         float64 `json:"zoom" validate:"gt=0"`
	ScrollOffset float64 `json:"scroll_offset"`
}

// UpdateViewport sets zoom and scroll. Zoom outside [0.5, 4] is
// clamped; viewport changes never enter history.
// PUT /api/v1/clips/:clipId/editor/viewport
func (h *ApplicationHandler) UpdateViewport(c *fiber.Ctx) error {
	ed, err := h.openEditor(c)
	if ed == nil {
		return err
	}
	var payload UpdateViewportPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse JSON: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}
	v := ed.SetViewport(payload.Zoom, payload.ScrollOffset)
	return utils.RespondWithJSON(c, fiber.StatusOK, v)
}

// GetFrame evaluates the animation engine at playback time t.
// GET /api/v1/clips/:clipId/editor/frame?t=2.5
func (h *ApplicationHandler) GetFrame(c *fiber.Ctx) error {
	ed, err := h.openEditor(c)
	if ed == nil {
		return err
	}
	t, err := strconv.ParseFloat(c.Query("t", "0"), 64)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid playback time")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, ed.Frame(t))
}
