package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/rx-admin/internal/handler"
	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/internal/service/patient"
	"github.com/jwalitptl/rx-admin/pkg/httputil"
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	patients := r.Group("/patients", middleware...)
	{
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
	}
}

func (h *Handler) ListPatients(c *gin.Context) {
	page, err := handler.PageParams(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	filters, fe := model.ParsePatientFilters(c.Request.URL.Query())
	if err := handler.FilterError(fe); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	patients, count, err := h.service.ListPatients(c.Request.Context(), filters, page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPage(c, patients, count, page)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := handler.ParseID(c, "patient")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}
