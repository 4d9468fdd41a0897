package programs

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/tenancy"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/response"
)

// Handler handles program HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListPublic handles GET /:orgSlug/programs. Active programs only.
func (h *Handler) ListPublic(c *gin.Context) {
	tc := tenancy.FromGin(c)
	programs, err := h.repo.ListActive(c.Request.Context(), tc.OrgID, 100)
	if err != nil {
		h.logger.Error("list public programs failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to list programs")
		return
	}
	response.OK(c, programs)
}

// List handles GET /:orgSlug/tools/programs.
func (h *Handler) List(c *gin.Context) {
	tc := tenancy.FromGin(c)
	programs, err := h.repo.List(c.Request.Context(), tc.OrgID)
	if err != nil {
		h.logger.Error("list programs failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to list programs")
		return
	}
	response.OK(c, programs)
}

// UpsertRequest is the body for program create and update.
type UpsertRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	AgeGroup    string `json:"age_group"`
	Season      string `json:"season"`
	IsActive    *bool  `json:"is_active"`
	SortIndex   int    `json:"sort_index"`
}

func (req *UpsertRequest) validate() map[string]string {
	fields := map[string]string{}
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 1 || len(req.Name) > 255 {
		fields["name"] = "must be 1–255 characters"
	}
	return fields
}

// Create handles POST /:orgSlug/tools/programs.
func (h *Handler) Create(c *gin.Context) {
	tc := tenancy.FromGin(c)
	var body UpsertRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "name required")
		return
	}
	if fields := body.validate(); len(fields) > 0 {
		response.UnprocessableEntity(c, "validation failed", fields)
		return
	}
	isActive := true
	if body.IsActive != nil {
		isActive = *body.IsActive
	}
	p := &models.Program{
		OrgID:       tc.OrgID,
		Name:        body.Name,
		Description: strings.TrimSpace(body.Description),
		AgeGroup:    strings.TrimSpace(body.AgeGroup),
		Season:      strings.TrimSpace(body.Season),
		IsActive:    isActive,
		SortIndex:   body.SortIndex,
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		h.logger.Error("create program failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to create program")
		return
	}
	response.Created(c, p)
}

// Update handles PUT /:orgSlug/tools/programs/:programID.
func (h *Handler) Update(c *gin.Context) {
	tc := tenancy.FromGin(c)
	id, err := uuid.Parse(c.Param("programID"))
	if err != nil {
		response.NotFound(c, "program not found")
		return
	}
	var body UpsertRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "name required")
		return
	}
	if fields := body.validate(); len(fields) > 0 {
		response.UnprocessableEntity(c, "validation failed", fields)
		return
	}
	p, err := h.repo.GetByID(c.Request.Context(), tc.OrgID, id)
	if err != nil {
		response.Internal(c, "failed to load program")
		return
	}
	if p == nil {
		response.NotFound(c, "program not found")
		return
	}
	p.Name = body.Name
	p.Description = strings.TrimSpace(body.Description)
	p.AgeGroup = strings.TrimSpace(body.AgeGroup)
	p.Season = strings.TrimSpace(body.Season)
	if body.IsActive != nil {
		p.IsActive = *body.IsActive
	}
	p.SortIndex = body.SortIndex
	if err := h.repo.Update(c.Request.Context(), p); err != nil {
		h.logger.Error("update program failed", zap.Error(err), zap.String("program_id", p.ID.String()))
		response.Internal(c, "failed to update program")
		return
	}
	response.OK(c, p)
}

// Delete handles DELETE /:orgSlug/tools/programs/:programID.
func (h *Handler) Delete(c *gin.Context) {
	tc := tenancy.FromGin(c)
	id, err := uuid.Parse(c.Param("programID"))
	if err != nil {
		response.NotFound(c, "program not found")
		return
	}
	deleted, err := h.repo.Delete(c.Request.Context(), tc.OrgID, id)
	if err != nil {
		h.logger.Error("delete program failed", zap.Error(err), zap.String("program_id", id.String()))
		response.Internal(c, "failed to delete program")
		return
	}
	if !deleted {
		response.NotFound(c, "program not found")
		return
	}
	response.NoContent(c)
}
