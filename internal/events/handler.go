package events

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/tenancy"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/response"
)

// Handler handles event HTTP endpoints.
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

// ListPublic handles GET /:orgSlug/events. Upcoming public events.
func (h *Handler) ListPublic(c *gin.Context) {
	tc := tenancy.FromGin(c)
	events, err := h.repo.ListUpcoming(c.Request.Context(), tc.OrgID, 100)
	if err != nil {
		h.logger.Error("list public events failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, events)
}

// List handles GET /:orgSlug/tools/events.
func (h *Handler) List(c *gin.Context) {
	tc := tenancy.FromGin(c)
	events, err := h.repo.List(c.Request.Context(), tc.OrgID)
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, events)
}

// UpsertRequest is the body for event create and update.
type UpsertRequest struct {
	Title    string     `json:"title" binding:"required"`
	Location string     `json:"location"`
	StartsAt time.Time  `json:"starts_at" binding:"required"`
	EndsAt   *time.Time `json:"ends_at"`
	IsPublic *bool      `json:"is_public"`
}

func (req *UpsertRequest) validate() map[string]string {
	fields := map[string]string{}
	req.Title = strings.TrimSpace(req.Title)
	if len(req.Title) < 1 || len(req.Title) > 255 {
		fields["title"] = "must be 1–255 characters"
	}
	if req.StartsAt.IsZero() {
		fields["starts_at"] = "start time required"
	}
	if req.EndsAt != nil && !req.EndsAt.After(req.StartsAt) {
		fields["ends_at"] = "must be after the start time"
	}
	return fields
}

// Create handles POST /:orgSlug/tools/events.
func (h *Handler) Create(c *gin.Context) {
	tc := tenancy.FromGin(c)
	var body UpsertRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "title and starts_at required")
		return
	}
	if fields := body.validate(); len(fields) > 0 {
		response.UnprocessableEntity(c, "validation failed", fields)
		return
	}
	isPublic := true
	if body.IsPublic != nil {
		isPublic = *body.IsPublic
	}
	e := &models.Event{
		OrgID:    tc.OrgID,
		Title:    body.Title,
		Location: strings.TrimSpace(body.Location),
		StartsAt: body.StartsAt,
		EndsAt:   body.EndsAt,
		IsPublic: isPublic,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		h.logger.Error("create event failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, e)
}

// Update handles PUT /:orgSlug/tools/events/:eventID.
func (h *Handler) Update(c *gin.Context) {
	tc := tenancy.FromGin(c)
	id, err := uuid.Parse(c.Param("eventID"))
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	var body UpsertRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "title and starts_at required")
		return
	}
	if fields := body.validate(); len(fields) > 0 {
		response.UnprocessableEntity(c, "validation failed", fields)
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), tc.OrgID, id)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	if e == nil {
		response.NotFound(c, "event not found")
		return
	}
	e.Title = body.Title
	e.Location = strings.TrimSpace(body.Location)
	e.StartsAt = body.StartsAt
	e.EndsAt = body.EndsAt
	if body.IsPublic != nil {
		e.IsPublic = *body.IsPublic
	}
	if err := h.repo.Update(c.Request.Context(), e); err != nil {
		h.logger.Error("update event failed", zap.Error(err), zap.String("event_id", e.ID.String()))
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, e)
}

// Delete handles DELETE /:orgSlug/tools/events/:eventID.
func (h *Handler) Delete(c *gin.Context) {
	tc := tenancy.FromGin(c)
	id, err := uuid.Parse(c.Param("eventID"))
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	deleted, err := h.repo.Delete(c.Request.Context(), tc.OrgID, id)
	if err != nil {
		h.logger.Error("delete event failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to delete event")
		return
	}
	if !deleted {
		response.NotFound(c, "event not found")
		return
	}
	response.NoContent(c)
}
