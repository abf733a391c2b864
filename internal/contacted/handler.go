package contacted

import (
	"net/http"
	"strconv"

	"dialer_backend/platform/httpkit"
	"dialer_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// Handler exposes the operator listing endpoint.
type Handler struct {
	repo *Repository
	log  *logger.Logger
}

// NewHandler creates the contacted-leads handler.
func NewHandler(repo *Repository, log *logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// HandleList handles GET /api/v1/contacted?page=&pageSize=.
func (h *Handler) HandleList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	leads, err := h.repo.List(c.Request.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		h.log.DatabaseError("list contacted leads", err)
		httpkit.Error(c, http.StatusInternalServerError, "failed to list contacted leads", nil)
		return
	}

	total, err := h.repo.Count(c.Request.Context())
	if err != nil {
		h.log.DatabaseError("count contacted leads", err)
		httpkit.Error(c, http.StatusInternalServerError, "failed to list contacted leads", nil)
		return
	}

	items := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toLeadResponse(lead))
	}

	httpkit.OK(c, ListResponse{Items: items, Total: total})
}
