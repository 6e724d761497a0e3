package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"feedgen/internal/domain"
	"feedgen/internal/service"
)

// ResultHandler handles generated-row review endpoints.
type ResultHandler struct {
	approvals service.ApprovalService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(approvals service.ApprovalService) *ResultHandler {
	return &ResultHandler{approvals: approvals}
}

// ApprovalRequest lists the item IDs to approve or unapprove.
type ApprovalRequest struct {
	ItemIDs []string `json:"item_ids" binding:"required"`
}

// List handles GET /api/v1/results
// @Summary      List generated rows
// @Description  Lists generated results with optional status and approval filters
// @Tags         results
// @Produce      json
// @Param        status query string false "SUCCESS, NON_COMPLIANT or FAILED"
// @Param        approved query bool false "Filter by approval"
// @Param        offset query int false "Pagination offset" default(0)
// @Param        limit query int false "Pagination limit" default(50)
// @Success      200 {object} APIResponse{data=[]domain.GenerationResult,meta=PagMeta}
// @Failure      400 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Router       /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	var status domain.GenerationStatus
	if s := c.Query("status"); s != "" {
		parsed, ok := domain.ValidGenerationStatuses[strings.ToUpper(s)]
		if !ok {
			RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "status must be one of SUCCESS, NON_COMPLIANT, FAILED")
			return
		}
		status = parsed
	}

	var approved *bool
	if a := c.Query("approved"); a != "" {
		v, err := strconv.ParseBool(a)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_APPROVED", "approved must be true or false")
			return
		}
		approved = &v
	}

	results, err := h.approvals.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	filtered := make([]*domain.GenerationResult, 0, len(results))
	for _, r := range results {
		if status != "" && r.Status != status {
			continue
		}
		if approved != nil && r.Approved != *approved {
			continue
		}
		filtered = append(filtered, r)
	}

	offset, limit := parsePagination(c)
	page := filtered[min(offset, len(filtered)):min(offset+limit, len(filtered))]
	RespondPaginated(c, page, PagMeta{Total: len(filtered), Offset: offset, Limit: limit})
}

// Approve handles POST /api/v1/results/approve
// @Summary      Approve rows
// @Description  Marks generated rows for export. Failed rows are skipped.
// @Tags         results
// @Accept       json
// @Produce      json
// @Param        request body ApprovalRequest true "Item IDs"
// @Success      200 {object} APIResponse
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Router       /results/approve [post]
func (h *ResultHandler) Approve(c *gin.Context) {
	h.setApproval(c, true)
}

// Unapprove handles POST /api/v1/results/unapprove
// @Summary      Unapprove rows
// @Description  Removes the export mark from generated rows
// @Tags         results
// @Accept       json
// @Produce      json
// @Param        request body ApprovalRequest true "Item IDs"
// @Success      200 {object} APIResponse
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Router       /results/unapprove [post]
func (h *ResultHandler) Unapprove(c *gin.Context) {
	h.setApproval(c, false)
}

func (h *ResultHandler) setApproval(c *gin.Context, approve bool) {
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	update := h.approvals.Unapprove
	if approve {
		update = h.approvals.Approve
	}
	n, err := update(c.Request.Context(), req.ItemIDs)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": n})
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
