package medication

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/rx-admin/internal/handler"
	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/internal/service/medication"
	"github.com/jwalitptl/rx-admin/pkg/httputil"
)

type Handler struct {
	service medication.MedicationService
}

func NewHandler(service medication.MedicationService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	medications := r.Group("/medications", middleware...)
	{
		medications.GET("", h.ListMedications)
		medications.GET("/:id", h.GetMedication)
	}
}

func (h *Handler) ListMedications(c *gin.Context) {
	page, err := handler.PageParams(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	filters, fe := model.ParseMedicationFilters(c.Request.URL.Query())
	if err := handler.FilterError(fe); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	medications, count, err := h.service.ListMedications(c.Request.Context(), filters, page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPage(c, medications, count, page)
}

func (h *Handler) GetMedication(c *gin.Context) {
	id, err := handler.ParseID(c, "medication")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	m, err := h.service.GetMedication(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, m)
}
