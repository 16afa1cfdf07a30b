package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"clipgenius/editor-service/internal/document"
	"clipgenius/editor-service/internal/session"
	"clipgenius/editor-service/utils"
)

// PointerTargetPayload names what the pointer went down on.
type PointerTargetPayload struct {
	Kind   string `json:"kind" validate:"required,oneof=trim-start trim-end playhead cue cue-start cue-end"`
	CueID  string `json:"cue_id,omitempty"`
	Locked bool   `json:"locked"`
}

// PointerEventPayload is one pointer sample from the host UI. Target
// is required for "down" events only.
type PointerEventPayload struct {
	Event        string                `json:"event" validate:"required,oneof=down move up cancel"`
	Target       *PointerTargetPayload `json:"target,omitempty"`
	ClientX      float64               `json:"client_x"`
	RectLeft     float64               `json:"rect_left"`
	RectWidth    float64               `json:"rect_width"`
	ScrollOffset float64               `json:"scroll_offset"`
	Zoom         float64               `json:"zoom"`
}

func (p PointerEventPayload) pointer() session.Pointer {
	zoom := p.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return session.Pointer{
		ClientX:      p.ClientX,
		RectLeft:     p.RectLeft,
		RectWidth:    p.RectWidth,
		ScrollOffset: p.ScrollOffset,
		Zoom:         zoom,
	}
}

// PointerEvent feeds the drag/resize state machine. Exactly one
// session runs at a time; a second "down" is rejected, and "cancel" is
// the host-synthesized release for lost pointer-up events.
// POST /api/v1/clips/:clipId/editor/pointer
func (h *ApplicationHandler) PointerEvent(c *fiber.Ctx) error {
	ed, err := h.openEditor(c)
	if ed == nil {
		return err
	}

	var payload PointerEventPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse JSON: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	switch payload.Event {
	case "down":
		if payload.Target == nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "down event requires a target")
		}
		target := session.Target{
			Kind:   session.TargetKind(payload.Target.Kind),
			Locked: payload.Target.Locked,
		}
		if payload.Target.CueID != "" {
			cueID, err := uuid.Parse(payload.Target.CueID)
			if err != nil {
				return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid cue ID format")
			}
			target.CueID = cueID
		}
		switch err := ed.PointerDown(target, payload.pointer()); err {
		case nil:
		case session.ErrSessionActive:
			return utils.RespondWithError(c, fiber.StatusConflict, "a drag session is already active")
		case session.ErrTrackLocked:
			return utils.RespondWithError(c, fiber.StatusLocked, "track is locked")
		case document.ErrCueNotFound:
			return utils.RespondWithError(c, fiber.StatusNotFound, "cue not found")
		default:
			return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
		}
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"session": ed.SessionState().String()})

	case "move":
		ed.PointerMove(payload.pointer())
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
			"session": ed.SessionState().String(),
			"trim":    ed.Document().Trim,
		})

	case "up":
		committed := ed.PointerUp()
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"committed": committed})

	default: // cancel
		committed := ed.CancelPointer()
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"committed": committed})
	}
}
