package handler

import (
	"context"
	"net/http"

	"montagehub_backend/internal/montages/repository"
	"montagehub_backend/internal/montages/service"
	"montagehub_backend/internal/montages/transport"
	"montagehub_backend/platform/httpkit"
	"montagehub_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReconcileEnqueuer hands a checklist repair pass to the background worker.
type ReconcileEnqueuer interface {
	EnqueueChecklistReconcile(ctx context.Context) error
}

type Handler struct {
	svc      *service.Service
	validate *validator.Validator
	enqueue  ReconcileEnqueuer
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates the montage handler. enqueue may be nil; reconcile requests
// then run inline instead of on the worker.
func New(svc *service.Service, validate *validator.Validator, enqueue ReconcileEnqueuer) *Handler {
	return &Handler{svc: svc, validate: validate, enqueue: enqueue}
}

// RegisterRoutes wires the viewer-scoped montage endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Board)
	rg.GET("/board", h.Board)
	rg.GET("/stages", h.Stages)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/checklist", h.GetChecklist)
	rg.POST("/:id/checklist/:itemId/complete", h.CompleteChecklistItem)
	rg.POST("/:id/checklist/:itemId/attachment", h.AttachToChecklistItem)
}

// RegisterOfficeRoutes wires the endpoints that mutate the pipeline. The
// group is expected to carry an admin/office role requirement.
func (h *Handler) RegisterOfficeRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.PUT("/:id/assign", h.Assign)
	rg.POST("/:id/schedule", h.Schedule)
	rg.DELETE("/:id", h.Delete)
}

// RegisterAdminRoutes wires maintenance endpoints.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/reconcile-checklists", h.ReconcileChecklists)
}

func viewerFrom(c *gin.Context) service.Viewer {
	identity := httpkit.MustGetIdentity(c)
	return service.Viewer{UserID: identity.UserID(), Roles: identity.Roles()}
}

func (h *Handler) Board(c *gin.Context) {
	query := service.BoardQuery{
		View:         c.Query("view"),
		Stage:        c.Query("stage"),
		Sort:         c.Query("sort"),
		UrgentOnly:   c.Query("urgent") == "true",
		PaymentsOnly: c.Query("payments") == "true",
	}

	result, err := h.svc.Board(c.Request.Context(), viewerFrom(c), query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToBoardResponse(result.Columns, result.Alerts, result.GeneratedAt))
}

func (h *Handler) Stages(c *gin.Context) {
	httpkit.OK(c, transport.ToStageResponses(h.svc.Stages()))
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateMontageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	m, err := h.svc.CreateMontage(c.Request.Context(), service.CreateMontageInput{
		ClientName:                 req.ClientName,
		ClientPhone:                req.ClientPhone,
		Address:                    req.Address,
		InstallerID:                req.InstallerID,
		MeasurerID:                 req.MeasurerID,
		ArchitectID:                req.ArchitectID,
		ScheduledInstallationAt:    req.ScheduledInstallationAt,
		ForecastedInstallationDate: req.ForecastedInstallationDate,
		MaterialStatus:             req.MaterialStatus,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToMontageResponse(m, nil))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	m, err := h.svc.GetMontage(c.Request.Context(), viewerFrom(c), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToMontageResponse(m, h.svc.AlertsFor(c.Request.Context(), m)))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateMontageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	m, err := h.svc.UpdateMontage(c.Request.Context(), id, service.UpdateMontageInput{
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		Address:        req.Address,
		MaterialStatus: req.MaterialStatus,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToMontageResponse(m, h.svc.AlertsFor(c.Request.Context(), m)))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	m, err := h.svc.ChangeStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToMontageResponse(m, h.svc.AlertsFor(c.Request.Context(), m)))
}

func (h *Handler) Assign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	m, err := h.svc.UpdateMontage(c.Request.Context(), id, service.UpdateMontageInput{
		InstallerID: repository.NullableUUID{Set: true, Value: req.InstallerID},
		MeasurerID:  repository.NullableUUID{Set: true, Value: req.MeasurerID},
		ArchitectID: repository.NullableUUID{Set: true, Value: req.ArchitectID},
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToMontageResponse(m, h.svc.AlertsFor(c.Request.Context(), m)))
}

func (h *Handler) Schedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	m, err := h.svc.UpdateMontage(c.Request.Context(), id, service.UpdateMontageInput{
		ScheduledInstallationAt:    repository.NullableTime{Set: true, Value: req.ScheduledInstallationAt},
		ForecastedInstallationDate: repository.NullableTime{Set: true, Value: req.ForecastedInstallationDate},
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToMontageResponse(m, h.svc.AlertsFor(c.Request.Context(), m)))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteMontage(c.Request.Context(), id)) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetChecklist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	items, err := h.svc.GetChecklist(c.Request.Context(), viewerFrom(c), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToChecklistItemResponses(items))
}

func (h *Handler) CompleteChecklistItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	item, err := h.svc.CompleteChecklistItem(c.Request.Context(), viewerFrom(c), id, itemID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToChecklistItemResponse(item))
}

func (h *Handler) AttachToChecklistItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	item, err := h.svc.AttachToChecklistItem(c.Request.Context(), viewerFrom(c), id, itemID, req.AttachmentRef)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToChecklistItemResponse(item))
}

func (h *Handler) ReconcileChecklists(c *gin.Context) {
	ctx := c.Request.Context()

	if h.enqueue != nil {
		if err := h.enqueue.EnqueueChecklistReconcile(ctx); err == nil {
			httpkit.JSON(c, http.StatusAccepted, gin.H{"status": "queued"})
			return
		}
		// Queue unreachable. Run the pass inline rather than failing the call.
	}

	report, err := h.svc.ReconcileChecklists(ctx)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, report)
}
