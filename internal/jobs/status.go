// Package jobs defines the asynchronous export job and its status
// records, persisted through Supabase so clients can poll progress.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

// Job lifecycle states stored in editor_job_statuses.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

const statusTable = "editor_job_statuses"

// StatusRecord maps one row of editor_job_statuses. Pointer and
// RawMessage fields cover the nullable/jsonb columns.
type StatusRecord struct {
	JobID         string          `json:"job_id"`
	JobType       string          `json:"job_type"`
	Status        string          `json:"status"`
	InputPayload  json.RawMessage `json:"input_payload,omitempty"`
	OutputDetails json.RawMessage `json:"output_details,omitempty"`
	ErrorMessage  *string         `json:"error_message,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at,omitempty"`
}

// StatusStore reads and writes job status records.
type StatusStore struct {
	db  *supa.Client
	log *logrus.Logger
}

// NewStatusStore wraps an initialized Supabase client.
func NewStatusStore(db *supa.Client, log *logrus.Logger) *StatusStore {
	return &StatusStore{db: db, log: log}
}

// Create inserts a PENDING record with a fresh job id and returns it.
func (s *StatusStore) Create(jobType string, inputPayload interface{}) (string, error) {
	jobID := uuid.NewString()

	payload, err := json.Marshal(inputPayload)
	if err != nil {
		return "", fmt.Errorf("encode job payload: %w", err)
	}

	record := StatusRecord{
		JobID:        jobID,
		JobType:      jobType,
		Status:       StatusPending,
		InputPayload: payload,
	}
	_, _, err = s.db.From(statusTable).
		Insert(record, false, "", "minimal", "").
		Execute()
	if err != nil {
		return "", fmt.Errorf("insert job record: %w", err)
	}

	s.log.WithFields(logrus.Fields{"job_id": jobID, "job_type": jobType}).Info("job record created")
	return jobID, nil
}

// Update moves a record to a new status, optionally attaching output
// details or an error message.
func (s *StatusStore) Update(jobID, status string, outputDetails interface{}, errorMessage string) error {
	update := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if outputDetails != nil {
		out, err := json.Marshal(outputDetails)
		if err != nil {
			return fmt.Errorf("encode job output: %w", err)
		}
		update["output_details"] = json.RawMessage(out)
	}
	if errorMessage != "" {
		update["error_message"] = errorMessage
	}

	_, _, err := s.db.From(statusTable).
		Update(update, "minimal", "").
		Eq("job_id", jobID).
		Execute()
	if err != nil {
		return fmt.Errorf("update job record %s: %w", jobID, err)
	}

	s.log.WithFields(logrus.Fields{"job_id": jobID, "status": status}).Info("job record updated")
	return nil
}

// List returns the most recent job records, newest first.
func (s *StatusStore) List(limit int) ([]StatusRecord, error) {
	var records []StatusRecord
	data, _, err := s.db.From(statusTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list job records: %w", err)
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode job records: %w", err)
	}
	return records, nil
}

// Get fetches one job record by id.
func (s *StatusStore) Get(jobID string) (*StatusRecord, error) {
	var records []StatusRecord
	data, _, err := s.db.From(statusTable).
		Select("*", "", false).
		Eq("job_id", jobID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetch job record %s: %w", jobID, err)
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode job record %s: %w", jobID, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}
