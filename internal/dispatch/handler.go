package dispatch

import (
	"fmt"
	"net/http"
	"strconv"

	"dialer_backend/platform/httpkit"
	"dialer_backend/platform/phone"
	"dialer_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler exposes the dispatch trigger and the explicit lead logging endpoint.
type Handler struct {
	svc   *Service
	store LeadStore
	val   *validator.Validator
}

// NewHandler creates the dispatch handler.
func NewHandler(svc *Service, store LeadStore, val *validator.Validator) *Handler {
	return &Handler{svc: svc, store: store, val: val}
}

// HandleSync handles POST /api/v1/dispatch?limit=N.
// A missing or non-positive limit falls back to the configured default.
func (h *Handler) HandleSync(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	placed, err := h.svc.Sync(c.Request.Context(), limit)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, SyncResponse{
		Placed:  placed,
		Message: fmt.Sprintf("Called %d leads", placed),
	})
}

// HandleLogLead handles POST /api/v1/leads/log.
// The store layer is the last line of validation; its rejection surfaces
// as a failure.
func (h *Handler) HandleLogLead(c *gin.Context) {
	var req LogLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead payload", nil)
		return
	}

	req.Phone = phone.NormalizeE164(req.Phone)
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead payload", err.Error())
		return
	}

	lead, err := h.store.Insert(c.Request.Context(), req.toCreateParams())
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to log lead", nil)
		return
	}

	httpkit.JSON(c, http.StatusCreated, gin.H{"id": lead.ID.String()})
}
