package prescription

import (
	"encoding/json"
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/rx-admin/internal/handler"
	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/internal/service/prescription"
	"github.com/jwalitptl/rx-admin/pkg/errors"
	"github.com/jwalitptl/rx-admin/pkg/httputil"
)

type Handler struct {
	service prescription.PrescriptionService
}

func NewHandler(service prescription.PrescriptionService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.GET("", h.ListPrescriptions)
		prescriptions.POST("", h.CreatePrescription)
		prescriptions.GET("/:id", h.GetPrescription)
		prescriptions.PUT("/:id", h.UpdatePrescription)
		prescriptions.PATCH("/:id", h.PatchPrescription)
		prescriptions.DELETE("/:id", h.DeletePrescription)
	}
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	page, err := handler.PageParams(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	filters, fe := model.ParsePrescriptionFilters(c.Request.URL.Query())
	if err := handler.FilterError(fe); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	prescriptions, count, err := h.service.ListPrescriptions(c.Request.Context(), filters, page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPage(c, prescriptions, count, page)
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	var in model.PrescriptionInput
	if err := bindJSON(c, &in); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p, err := h.service.CreatePrescription(c.Request.Context(), in)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, p)
}

func (h *Handler) GetPrescription(c *gin.Context) {
	id, err := handler.ParseID(c, "prescription")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p, err := h.service.GetPrescription(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	id, err := handler.ParseID(c, "prescription")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	var in model.PrescriptionInput
	if err := bindJSON(c, &in); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p, err := h.service.UpdatePrescription(c.Request.Context(), id, in)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) PatchPrescription(c *gin.Context) {
	id, err := handler.ParseID(c, "prescription")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	var patch model.PrescriptionPatch
	if err := bindJSON(c, &patch); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p, err := h.service.PatchPrescription(c.Request.Context(), id, patch)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) DeletePrescription(c *gin.Context) {
	id, err := handler.ParseID(c, "prescription")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.DeletePrescription(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithNoContent(c)
}

// bindJSON decodes the body, reporting type mismatches against the field
func bindJSON(c *gin.Context, dst interface{}) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) && typeErr.Field != "" {
		return errors.FieldError(typeErr.Field, "incorrect type, expected "+typeErr.Type.String())
	}
	return errors.BadRequest("malformed JSON body", err)
}
