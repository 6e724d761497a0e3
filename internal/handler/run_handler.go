package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"feedgen/internal/domain"
)

// RunTracker starts and reports background generation runs.
type RunTracker interface {
	Start() (*domain.Run, error)
	Get(id uuid.UUID) (*domain.Run, error)
}

// RunHandler handles generation run endpoints.
type RunHandler struct {
	tracker RunTracker
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(tracker RunTracker) *RunHandler {
	return &RunHandler{tracker: tracker}
}

// Start handles POST /api/v1/runs
// @Summary      Start a generation run
// @Description  Starts a background run over every input row that has no generated result yet
// @Tags         runs
// @Produce      json
// @Success      202 {object} APIResponse{data=domain.Run}
// @Failure      409 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Router       /runs [post]
func (h *RunHandler) Start(c *gin.Context) {
	run, err := h.tracker.Start()
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, run)
}

// Get handles GET /api/v1/runs/:id
// @Summary      Get run status
// @Description  Returns the status of a generation run and its summary once finished
// @Tags         runs
// @Produce      json
// @Param        id path string true "Run ID"
// @Success      200 {object} APIResponse{data=domain.Run}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Router       /runs/{id} [get]
func (h *RunHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid run ID")
		return
	}

	run, err := h.tracker.Get(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, run)
}
