package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"clipgenius/editor-service/internal/editor"
	"clipgenius/editor-service/internal/jobs"
	"clipgenius/editor-service/internal/persistence"
	"clipgenius/editor-service/internal/renderclient"
	"clipgenius/editor-service/internal/worker"
)

// validate is shared across handlers; validator.Validate is safe for
// concurrent use.
var validate = validator.New()

// ApplicationHandler holds the shared dependencies for all handlers.
type ApplicationHandler struct {
	Log        *logrus.Logger
	Documents  *persistence.DocumentStore
	Editors    *editor.Registry
	Dispatcher *worker.Dispatcher
	Render     *renderclient.Client
	Jobs       *jobs.StatusStore
}

// NewApplicationHandler wires the handler dependencies.
func NewApplicationHandler(
	log *logrus.Logger,
	documents *persistence.DocumentStore,
	editors *editor.Registry,
	dispatcher *worker.Dispatcher,
	render *renderclient.Client,
	jobStatuses *jobs.StatusStore,
) *ApplicationHandler {
	return &ApplicationHandler{
		Log:        log,
		Documents:  documents,
		Editors:    editors,
		Dispatcher: dispatcher,
		Render:     render,
		Jobs:       jobStatuses,
	}
}
