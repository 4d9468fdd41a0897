package pages

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/permissions"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/tenancy"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/response"
)

var pageSlugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// Handler serves the public site renderer and the page builder tooling.
type Handler struct {
	repo     *Repository
	runtime  *RuntimeLoader
	resolver *tenancy.Resolver
	logger   *zap.Logger
}

// NewHandler creates a pages handler.
func NewHandler(repo *Repository, runtime *RuntimeLoader, resolver *tenancy.Resolver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, runtime: runtime, resolver: resolver, logger: logger}
}

// RenderHome handles GET /:orgSlug. The home page renders even when no row
// exists; its layout is synthesized from defaults.
func (h *Handler) RenderHome(c *gin.Context) {
	h.renderPage(c, models.PageKeyHome)
}

// RenderPage handles GET /:orgSlug/pages/:pageSlug.
func (h *Handler) RenderPage(c *gin.Context) {
	h.renderPage(c, strings.ToLower(c.Param("pageSlug")))
}

func (h *Handler) renderPage(c *gin.Context, pageSlug string) {
	tc := tenancy.FromGin(c)
	blockCtx := BlockContext{OrgName: tc.OrgName, OrgSlug: tc.OrgSlug}

	page, err := h.repo.GetBySlug(c.Request.Context(), tc.OrgID, pageSlug)
	if err != nil {
		h.logger.Error("load page failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()), zap.String("page", pageSlug))
		response.Internal(c, "failed to load page")
		return
	}
	// Only home renders without a published row.
	if pageSlug != models.PageKeyHome && (page == nil || !page.IsPublished) {
		response.NotFound(c, "page not found")
		return
	}

	var raw json.RawMessage
	title := tc.OrgName
	if page != nil {
		raw = page.Layout
		if page.Title != "" {
			title = page.Title
		}
	}
	blocks := NormalizeLayout(pageSlug, raw, blockCtx)

	canEdit := h.callerCanEdit(c)
	isEditing := canEdit && c.Query("edit") == "1"

	rt := h.runtime.Load(c.Request.Context(), tc.OrgID, blocks)
	response.OK(c, gin.H{
		"org": gin.H{
			"slug":           tc.OrgSlug,
			"name":           tc.OrgName,
			"branding":       tc.Branding,
			"governing_body": tc.GoverningBody,
		},
		"page": gin.H{
			"slug":  pageSlug,
			"title": title,
		},
		"blocks":     RenderLayout(blocks, blockCtx, rt, isEditing),
		"can_edit":   canEdit,
		"is_editing": isEditing,
	})
}

// callerCanEdit attempts an auth-mode resolve without aborting; a public
// visitor simply gets can_edit=false.
func (h *Handler) callerCanEdit(c *gin.Context) bool {
	authCtx, err := h.resolver.ResolveGin(c, tenancy.ModeAuth)
	if err != nil || authCtx == nil {
		return false
	}
	return authCtx.Permissions.Has(permissions.PagesWrite)
}

// List handles GET /:orgSlug/tools/pages.
func (h *Handler) List(c *gin.Context) {
	tc := tenancy.FromGin(c)
	pages, err := h.repo.List(c.Request.Context(), tc.OrgID)
	if err != nil {
		h.logger.Error("list pages failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to list pages")
		return
	}
	// Strip layouts from the listing; editors fetch them per page.
	for i := range pages {
		pages[i].Layout = nil
	}
	response.OK(c, pages)
}

// CreateRequest is the body for POST /:orgSlug/tools/pages.
type CreateRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Title     string `json:"title" binding:"required"`
	SortIndex int    `json:"sort_index"`
}

// Create handles POST /:orgSlug/tools/pages.
func (h *Handler) Create(c *gin.Context) {
	tc := tenancy.FromGin(c)
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "slug and title required")
		return
	}
	body.Slug = strings.ToLower(strings.TrimSpace(body.Slug))
	fields := map[string]string{}
	if !pageSlugRegex.MatchString(body.Slug) {
		fields["slug"] = "must be lowercase letters, numbers, hyphens only"
	}
	body.Title = strings.TrimSpace(body.Title)
	if len(body.Title) < 1 || len(body.Title) > 255 {
		fields["title"] = "must be 1–255 characters"
	}
	if len(fields) > 0 {
		response.UnprocessableEntity(c, "validation failed", fields)
		return
	}
	page, err := h.repo.Create(c.Request.Context(), tc.OrgID, body.Slug, body.Title, body.SortIndex)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique") {
			response.Conflict(c, "a page with this slug already exists")
			return
		}
		h.logger.Error("create page failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to create page")
		return
	}
	response.Created(c, page)
}

// GetForEdit handles GET /:orgSlug/tools/pages/:pageSlug. Returns the
// normalized layout plus the available block types so the editor never sees
// raw persisted JSON.
func (h *Handler) GetForEdit(c *gin.Context) {
	tc := tenancy.FromGin(c)
	pageSlug := strings.ToLower(c.Param("pageSlug"))
	blockCtx := BlockContext{OrgName: tc.OrgName, OrgSlug: tc.OrgSlug}

	page, err := h.repo.GetBySlug(c.Request.Context(), tc.OrgID, pageSlug)
	if err != nil {
		response.Internal(c, "failed to load page")
		return
	}
	if page == nil && pageSlug != models.PageKeyHome {
		response.NotFound(c, "page not found")
		return
	}

	var raw json.RawMessage
	title := tc.OrgName
	if page != nil {
		raw = page.Layout
		if page.Title != "" {
			title = page.Title
		}
	}
	blocks := NormalizeLayout(pageSlug, raw, blockCtx)

	available := make([]gin.H, 0, len(registeredTypes))
	for _, t := range registeredTypes {
		def, _ := Lookup(t)
		available = append(available, gin.H{"type": t, "default_config": def.Default(blockCtx)})
	}
	response.OK(c, gin.H{
		"page": gin.H{
			"slug":         pageSlug,
			"title":        title,
			"is_published": page != nil && page.IsPublished,
		},
		"blocks":          blocks,
		"available_types": available,
	})
}

// PublishRequest is the body for PUT /:orgSlug/tools/pages/:pageSlug. The
// blocks array replaces the layout wholesale.
type PublishRequest struct {
	Title  string          `json:"title"`
	Blocks json.RawMessage `json:"blocks" binding:"required"`
}

// Publish handles PUT /:orgSlug/tools/pages/:pageSlug. The submitted layout
// is normalized before persisting so stored layouts are always valid.
func (h *Handler) Publish(c *gin.Context) {
	tc := tenancy.FromGin(c)
	pageSlug := strings.ToLower(c.Param("pageSlug"))
	if !pageSlugRegex.MatchString(pageSlug) {
		response.NotFound(c, "page not found")
		return
	}
	var body PublishRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "blocks required")
		return
	}
	blockCtx := BlockContext{OrgName: tc.OrgName, OrgSlug: tc.OrgSlug}
	blocks := NormalizeLayout(pageSlug, body.Blocks, blockCtx)
	layout, err := MarshalLayout(blocks)
	if err != nil {
		response.Internal(c, "failed to encode layout")
		return
	}

	title := strings.TrimSpace(body.Title)
	if title == "" {
		if existing, _ := h.repo.GetBySlug(c.Request.Context(), tc.OrgID, pageSlug); existing != nil {
			title = existing.Title
		}
	}
	if title == "" {
		title = tc.OrgName
	}

	page, err := h.repo.Publish(c.Request.Context(), tc.OrgID, pageSlug, title, layout)
	if err != nil {
		h.logger.Error("publish page failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()), zap.String("page", pageSlug))
		response.Internal(c, "failed to publish page")
		return
	}
	response.OK(c, page)
}

// Delete handles DELETE /:orgSlug/tools/pages/:pageSlug. The home page cannot
// be deleted.
func (h *Handler) Delete(c *gin.Context) {
	tc := tenancy.FromGin(c)
	pageSlug := strings.ToLower(c.Param("pageSlug"))
	if pageSlug == models.PageKeyHome {
		response.Conflict(c, "the home page cannot be deleted")
		return
	}
	deleted, err := h.repo.Delete(c.Request.Context(), tc.OrgID, pageSlug)
	if err != nil {
		h.logger.Error("delete page failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()), zap.String("page", pageSlug))
		response.Internal(c, "failed to delete page")
		return
	}
	if !deleted {
		response.NotFound(c, "page not found")
		return
	}
	response.NoContent(c)
}
