package handler

import (
	"net/http"

	"montagehub_backend/internal/montages/domain"
	"montagehub_backend/internal/people/repository"
	"montagehub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var assignableRoles = map[string]bool{
	domain.RoleInstaller: true,
	domain.RoleMeasurer:  true,
	domain.RoleArchitect: true,
	domain.RoleOffice:    true,
	domain.RoleAdmin:     true,
}

type Handler struct {
	repo repository.Reader
}

func New(repo repository.Reader) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
}

func (h *Handler) List(c *gin.Context) {
	role := c.Query("role")
	if role != "" && !assignableRoles[role] {
		httpkit.Error(c, http.StatusBadRequest, "unknown role filter", nil)
		return
	}

	persons, err := h.repo.List(c.Request.Context(), role)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, persons)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	person, err := h.repo.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, person)
}
