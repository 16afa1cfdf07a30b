// Package persistence is the storage collaborator for editor
// documents, backed by Supabase/PostgREST. The editor core never talks
// to it directly; handlers pass it in through the editor's Loader and
// Saver interfaces.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"

	"clipgenius/editor-service/models"
)

const (
	documentsTable = "clip_documents"
	clipsTable     = "clips"
)

// DocumentStore loads and saves clip documents.
type DocumentStore struct {
	db  *supa.Client
	log *logrus.Logger
}

// NewDocumentStore wraps an initialized Supabase client.
func NewDocumentStore(db *supa.Client, log *logrus.Logger) *DocumentStore {
	return &DocumentStore{db: db, log: log}
}

// documentRow maps one row of clip_documents. Cues and style are
// stored as jsonb.
type documentRow struct {
	ClipID    uuid.UUID       `json:"clip_id"`
	Cues      json.RawMessage `json:"cues"`
	Style     json.RawMessage `json:"style"`
	TrimStart float64         `json:"trim_start"`
	TrimEnd   float64         `json:"trim_end"`
	Duration  float64         `json:"duration"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
}

// clipRow is the slice of the clips table the store needs when no
// document row exists yet.
type clipRow struct {
	ID       uuid.UUID `json:"id"`
	Duration float64   `json:"duration"`
}

// LoadDocument fetches the stored document for a clip. When no row
// exists yet it returns an empty document with the clip's duration and
// default style; malformed stored fields fall back to zero values and
// are repaired by the document store on load.
func (s *DocumentStore) LoadDocument(ctx context.Context, clipID uuid.UUID) (models.EditorDocument, error) {
	var rows []documentRow
	data, _, err := s.db.From(documentsTable).
		Select("*", "", false).
		Eq("clip_id", clipID.String()).
		Execute()
	if err != nil {
		return models.EditorDocument{}, fmt.Errorf("fetch document for clip %s: %w", clipID, err)
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return models.EditorDocument{}, fmt.Errorf("decode document rows for clip %s: %w", clipID, err)
	}

	if len(rows) == 0 {
		return s.emptyDocument(clipID)
	}

	row := rows[0]
	doc := models.EditorDocument{
		Trim:     models.TrimRange{Start: row.TrimStart, End: row.TrimEnd},
		Duration: row.Duration,
	}
	if len(row.Cues) > 0 {
		if err := json.Unmarshal(row.Cues, &doc.Cues); err != nil {
			// Malformed stored cues: load without them rather than
			// refusing the whole document.
			s.log.WithError(err).WithField("clip_id", clipID).Warn("discarding malformed stored cues")
			doc.Cues = nil
		}
	}
	if len(row.Style) > 0 {
		if err := json.Unmarshal(row.Style, &doc.Style); err != nil {
			s.log.WithError(err).WithField("clip_id", clipID).Warn("discarding malformed stored style")
			doc.Style = models.DefaultCaptionStyle()
		}
	}
	return doc, nil
}

// emptyDocument builds a fresh document for a clip that has never been
// edited, pulling the duration from the clips table.
func (s *DocumentStore) emptyDocument(clipID uuid.UUID) (models.EditorDocument, error) {
	var clips []clipRow
	data, _, err := s.db.From(clipsTable).
		Select("id,duration", "", false).
		Eq("id", clipID.String()).
		Execute()
	if err != nil {
		return models.EditorDocument{}, fmt.Errorf("fetch clip %s: %w", clipID, err)
	}
	if err := json.Unmarshal(data, &clips); err != nil {
		return models.EditorDocument{}, fmt.Errorf("decode clip %s: %w", clipID, err)
	}
	if len(clips) == 0 {
		return models.EditorDocument{}, fmt.Errorf("clip %s not found", clipID)
	}

	return models.EditorDocument{
		Style:    models.DefaultCaptionStyle(),
		Trim:     models.TrimRange{Start: 0, End: clips[0].Duration},
		Duration: clips[0].Duration,
	}, nil
}

// SaveDocument upserts the document row for a clip.
func (s *DocumentStore) SaveDocument(ctx context.Context, clipID uuid.UUID, doc models.EditorDocument) error {
	cues, err := json.Marshal(doc.Cues)
	if err != nil {
		return fmt.Errorf("encode cues for clip %s: %w", clipID, err)
	}
	style, err := json.Marshal(doc.Style)
	if err != nil {
		return fmt.Errorf("encode style for clip %s: %w", clipID, err)
	}

	row := documentRow{
		ClipID:    clipID,
		Cues:      cues,
		Style:     style,
		TrimStart: doc.Trim.Start,
		TrimEnd:   doc.Trim.End,
		Duration:  doc.Duration,
		UpdatedAt: time.Now(),
	}

	_, _, err = s.db.From(documentsTable).
		Insert(row, true, "clip_id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("upsert document for clip %s: %w", clipID, err)
	}

	s.log.WithField("clip_id", clipID).Info("clip document saved")
	return nil
}
