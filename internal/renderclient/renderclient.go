// Package renderclient wraps the HTTP client for the render sidecar,
// the collaborator that actually cuts, captions and encodes clips. The
// editor's responsibility ends once a render request is issued; this
// client performs no retries.
package renderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"clipgenius/editor-service/models"
)

// Client talks to the render service.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

// New creates a client for the render service at baseURL.
func New(baseURL string, log *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Minute},
		log:     log,
	}
}

// RenderRequest is the wire payload for one export.
type RenderRequest struct {
	ClipID           uuid.UUID            `json:"clip_id"`
	TrimStart        float64              `json:"trim_start"`
	TrimEnd          float64              `json:"trim_end"`
	IncludeSubtitles bool                 `json:"include_subtitles"`
	Cues             []models.SubtitleCue `json:"cues,omitempty"`
	Style            models.CaptionStyle  `json:"style"`
	OutputFormatID   string               `json:"output_format_id"`
}

// RenderResponse is the sidecar's reference to the rendered artifact.
type RenderResponse struct {
	OutputURL string  `json:"output_url"`
	Duration  float64 `json:"duration"`
}

// RenderClip submits one export to the sidecar and returns the artifact
// reference.
func (c *Client) RenderClip(ctx context.Context, req RenderRequest) (*RenderResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode render request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build render request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.WithFields(logrus.Fields{
		"clip_id": req.ClipID,
		"format":  req.OutputFormatID,
	}).Info("submitting render request")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("render request for clip %s: %w", req.ClipID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("render service returned %d for clip %s: %s", resp.StatusCode, req.ClipID, string(msg))
	}

	var out RenderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode render response for clip %s: %w", req.ClipID, err)
	}
	return &out, nil
}
