package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"clipgenius/editor-service/internal/jobs"
	"clipgenius/editor-service/internal/worker"
	"clipgenius/editor-service/utils"
)

// ExportClipPayload selects what the rendered artifact includes.
type ExportClipPayload struct {
	IncludeSubtitles bool   `json:"include_subtitles"`
	OutputFormatID   string `json:"output_format_id" validate:"required"`
}

// ExportClip queues an asynchronous export of the clip's current
// document. The editor's responsibility ends once the job is queued;
// progress is polled through GetJobStatus.
// POST /api/v1/clips/:clipId/export
func (h *ApplicationHandler) ExportClip(c *fiber.Ctx) error {
	ed, err := h.openEditor(c)
	if ed == nil {
		return err
	}
	clipID := ed.ClipID()

	var payload ExportClipPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse JSON: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	request := ed.ExportPayload(payload.IncludeSubtitles, payload.OutputFormatID)

	jobID, err := h.Jobs.Create(jobs.JobTypeExportClip, jobs.ExportPayload{
		ClipID:           clipID,
		IncludeSubtitles: request.IncludeSubtitles,
		OutputFormatID:   request.OutputFormatID,
		TrimStart:        request.Trim.Start,
		TrimEnd:          request.Trim.End,
	})
	if err != nil {
		h.Log.WithError(err).WithField("clip_id", clipID).Error("could not create export job record")
		return utils.RespondWithError(c, fiber.StatusBadGateway, "could not create export job")
	}

	job := jobs.NewExportClipJob(jobID, clipID, request, h.Render, h.Jobs, h.Log)
	if err := h.Dispatcher.Submit(job); err == worker.ErrQueueFull {
		if uerr := h.Jobs.Update(jobID, jobs.StatusFailed, nil, "export queue full"); uerr != nil {
			h.Log.WithError(uerr).WithField("job_id", jobID).Error("could not mark job failed")
		}
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "export queue is full, try again later")
	} else if err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not queue export job")
	}

	return utils.RespondWithJSON(c, fiber.StatusAccepted, fiber.Map{"job_id": jobID})
}

// ListJobs returns the most recent export jobs, newest first.
// GET /api/v1/jobs?limit=20
func (h *ApplicationHandler) ListJobs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	records, err := h.Jobs.List(limit)
	if err != nil {
		h.Log.WithError(err).Error("could not list job records")
		return utils.RespondWithError(c, fiber.StatusBadGateway, "could not list jobs")
	}
	if records == nil {
		records = []jobs.StatusRecord{}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, records)
}

// GetJobStatus reports one export job's progress.
// GET /api/v1/jobs/:jobId
func (h *ApplicationHandler) GetJobStatus(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if _, err := uuid.Parse(jobID); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid job ID format")
	}

	record, err := h.Jobs.Get(jobID)
	if err != nil {
		h.Log.WithError(err).WithField("job_id", jobID).Error("could not fetch job record")
		return utils.RespondWithError(c, fiber.StatusBadGateway, "could not fetch job status")
	}
	if record == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "job not found")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, record)
}
