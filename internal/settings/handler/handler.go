package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"montagehub_backend/internal/settings/service"
	"montagehub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// maxSettingBytes bounds a single setting payload. Templates are small; a
// megabyte is already generous.
const maxSettingBytes = 1 << 20

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListKeys)
	rg.GET("/:key", h.Get)
	rg.PUT("/:key", h.Set)
}

func (h *Handler) ListKeys(c *gin.Context) {
	httpkit.OK(c, gin.H{"keys": h.svc.Keys()})
}

func (h *Handler) Get(c *gin.Context) {
	raw, err := h.svc.Get(c.Request.Context(), c.Param("key"))
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) Set(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSettingBytes+1))
	if err != nil || len(raw) == 0 || len(raw) > maxSettingBytes {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.svc.Set(c.Request.Context(), c.Param("key"), raw); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"key": c.Param("key"), "value": json.RawMessage(raw)})
}
