package announcements

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/tenancy"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/response"
)

// Handler handles announcement HTTP endpoints.
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

// ListPublic handles GET /:orgSlug/announcements.
func (h *Handler) ListPublic(c *gin.Context) {
	tc := tenancy.FromGin(c)
	items, err := h.repo.ListPublished(c.Request.Context(), tc.OrgID, 50)
	if err != nil {
		h.logger.Error("list public announcements failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to list announcements")
		return
	}
	response.OK(c, items)
}

// List handles GET /:orgSlug/tools/announcements.
func (h *Handler) List(c *gin.Context) {
	tc := tenancy.FromGin(c)
	items, err := h.repo.List(c.Request.Context(), tc.OrgID)
	if err != nil {
		h.logger.Error("list announcements failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to list announcements")
		return
	}
	response.OK(c, items)
}

// UpsertRequest is the body for announcement create and update.
type UpsertRequest struct {
	Title       string `json:"title" binding:"required"`
	Body        string `json:"body" binding:"required"`
	IsPublished *bool  `json:"is_published"`
}

func (req *UpsertRequest) validate() map[string]string {
	fields := map[string]string{}
	req.Title = strings.TrimSpace(req.Title)
	if len(req.Title) < 1 || len(req.Title) > 255 {
		fields["title"] = "must be 1–255 characters"
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		fields["body"] = "body required"
	}
	return fields
}

// Create handles POST /:orgSlug/tools/announcements.
func (h *Handler) Create(c *gin.Context) {
	tc := tenancy.FromGin(c)
	var body UpsertRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "title and body required")
		return
	}
	if fields := body.validate(); len(fields) > 0 {
		response.UnprocessableEntity(c, "validation failed", fields)
		return
	}
	a := &models.Announcement{OrgID: tc.OrgID, Title: body.Title, Body: body.Body}
	if body.IsPublished != nil {
		a.IsPublished = *body.IsPublished
	}
	if err := h.repo.Create(c.Request.Context(), a); err != nil {
		h.logger.Error("create announcement failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to create announcement")
		return
	}
	response.Created(c, a)
}

// Update handles PUT /:orgSlug/tools/announcements/:announcementID.
func (h *Handler) Update(c *gin.Context) {
	tc := tenancy.FromGin(c)
	id, err := uuid.Parse(c.Param("announcementID"))
	if err != nil {
		response.NotFound(c, "announcement not found")
		return
	}
	var body UpsertRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "title and body required")
		return
	}
	if fields := body.validate(); len(fields) > 0 {
		response.UnprocessableEntity(c, "validation failed", fields)
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), tc.OrgID, id)
	if err != nil {
		response.Internal(c, "failed to load announcement")
		return
	}
	if a == nil {
		response.NotFound(c, "announcement not found")
		return
	}
	a.Title = body.Title
	a.Body = body.Body
	if body.IsPublished != nil {
		a.IsPublished = *body.IsPublished
	}
	if err := h.repo.Update(c.Request.Context(), a); err != nil {
		h.logger.Error("update announcement failed", zap.Error(err), zap.String("announcement_id", a.ID.String()))
		response.Internal(c, "failed to update announcement")
		return
	}
	response.OK(c, a)
}

// Delete handles DELETE /:orgSlug/tools/announcements/:announcementID.
func (h *Handler) Delete(c *gin.Context) {
	tc := tenancy.FromGin(c)
	id, err := uuid.Parse(c.Param("announcementID"))
	if err != nil {
		response.NotFound(c, "announcement not found")
		return
	}
	deleted, err := h.repo.Delete(c.Request.Context(), tc.OrgID, id)
	if err != nil {
		h.logger.Error("delete announcement failed", zap.Error(err), zap.String("announcement_id", id.String()))
		response.Internal(c, "failed to delete announcement")
		return
	}
	if !deleted {
		response.NotFound(c, "announcement not found")
		return
	}
	response.NoContent(c)
}
