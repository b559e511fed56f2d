package resource

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"potterystudio/internal/pkg/response"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ListResources godoc
// @Summary List bookable resources for a studio
// @Description Public list of active resources. Staff may pass include_inactive=true.
// @Tags OpenStudio
// @Produce json
// @Param studio_id query integer true "Studio ID"
// @Success 200 {array} Resource
// @Router /open-studio/resources [get]
func (h *Handler) ListResources(c *gin.Context) {
	studioID, err := strconv.ParseInt(c.Query("studio_id"), 10, 64)
	if err != nil || studioID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "studio_id is required")
		return
	}

	includeInactive := c.Query("include_inactive") == "true" && c.GetString("role") == "staff"

	resources, err := h.repo.List(c.Request.Context(), studioID, includeInactive)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load resources")
		return
	}
	response.Success(c, http.StatusOK, resources)
}

type createResourceRequest struct {
	StudioID int64  `json:"studio_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gte=1"`
}

// CreateResource godoc
// @Summary Create a resource
// @Tags Staff
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body createResourceRequest true "Resource"
// @Success 201 {object} Resource
// @Router /staff/resources [post]
func (h *Handler) CreateResource(c *gin.Context) {
	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res := &Resource{
		StudioID: req.StudioID,
		Name:     req.Name,
		Quantity: req.Quantity,
		IsActive: true,
	}
	if err := h.repo.Create(c.Request.Context(), res); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create resource")
		return
	}
	response.Success(c, http.StatusCreated, res)
}

type updateResourceRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gte=1"`
}

// UpdateResource godoc
// @Summary Update name/quantity of a resource
// @Tags Staff
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path integer true "Resource ID"
// @Param body body updateResourceRequest true "Fields"
// @Success 200 {object} Resource
// @Router /staff/resources/{id} [patch]
func (h *Handler) UpdateResource(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid resource id")
		return
	}

	var req updateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res := &Resource{ID: id, Name: req.Name, Quantity: req.Quantity}
	if err := h.repo.Update(c.Request.Context(), res); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "resource not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update resource")
		return
	}

	updated, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to reload resource")
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// DeactivateResource godoc
// @Summary Soft-deactivate a resource
// @Tags Staff
// @Security BearerAuth
// @Param id path integer true "Resource ID"
// @Success 200 {object} map[string]interface{}
// @Router /staff/resources/{id} [delete]
func (h *Handler) DeactivateResource(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid resource id")
		return
	}

	if err := h.repo.Deactivate(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "resource not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to deactivate resource")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deactivated": true})
}
