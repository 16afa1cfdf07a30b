package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"clipgenius/editor-service/internal/renderclient"
	"clipgenius/editor-service/models"
)

// JobTypeExportClip tags export records in the status table.
const JobTypeExportClip = "EXPORT_CLIP"

// ExportClipJob renders one clip through the render sidecar and tracks
// progress in the status store.
type ExportClipJob struct {
	jobID   string
	clipID  uuid.UUID
	request models.ExportRequest
	render  *renderclient.Client
	status  *StatusStore
	log     *logrus.Logger
}

// ExportPayload is the input_payload stored with the job record.
type ExportPayload struct {
	ClipID           uuid.UUID `json:"clip_id"`
	IncludeSubtitles bool      `json:"include_subtitles"`
	OutputFormatID   string    `json:"output_format_id"`
	TrimStart        float64   `json:"trim_start"`
	TrimEnd          float64   `json:"trim_end"`
}

// NewExportClipJob creates the job for an already-created status
// record.
func NewExportClipJob(jobID string, clipID uuid.UUID, request models.ExportRequest, render *renderclient.Client, status *StatusStore, log *logrus.Logger) *ExportClipJob {
	return &ExportClipJob{
		jobID:   jobID,
		clipID:  clipID,
		request: request,
		render:  render,
		status:  status,
		log:     log,
	}
}

// ID returns the job's status-record id.
func (j *ExportClipJob) ID() string { return j.jobID }

// Execute submits the render request and records the outcome. The
// render is not retried on failure; the failed record is what the
// client sees when polling.
func (j *ExportClipJob) Execute() error {
	if err := j.status.Update(j.jobID, StatusProcessing, nil, ""); err != nil {
		j.log.WithError(err).WithField("job_id", j.jobID).Warn("could not mark job processing")
	}

	resp, err := j.render.RenderClip(context.Background(), renderclient.RenderRequest{
		ClipID:           j.clipID,
		TrimStart:        j.request.Trim.Start,
		TrimEnd:          j.request.Trim.End,
		IncludeSubtitles: j.request.IncludeSubtitles,
		Cues:             j.request.Cues,
		Style:            j.request.Style,
		OutputFormatID:   j.request.OutputFormatID,
	})
	if err != nil {
		if uerr := j.status.Update(j.jobID, StatusFailed, nil, err.Error()); uerr != nil {
			j.log.WithError(uerr).WithField("job_id", j.jobID).Error("could not mark job failed")
		}
		return fmt.Errorf("export clip %s: %w", j.clipID, err)
	}

	if err := j.status.Update(j.jobID, StatusCompleted, resp, ""); err != nil {
		return fmt.Errorf("record export result for clip %s: %w", j.clipID, err)
	}
	return nil
}
