package sponsors

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/tenancy"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/response"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/storage"
)

// Handler handles sponsor HTTP endpoints.
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a sponsors handler. s3 may be nil when asset storage is
// disabled; logo uploads then answer 503.
func NewHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, s3: s3, logger: logger}
}

type sponsorView struct {
	models.Sponsor
	LogoURL string `json:"logo_url,omitempty"`
}

func (h *Handler) view(c *gin.Context, s models.Sponsor) sponsorView {
	v := sponsorView{Sponsor: s}
	if s.LogoPath != "" && h.s3 != nil {
		if url, err := h.s3.ResolveURL(c.Request.Context(), s.LogoPath); err == nil {
			v.LogoURL = url
		}
	}
	return v
}

func (h *Handler) views(c *gin.Context, sponsors []models.Sponsor) []sponsorView {
	out := make([]sponsorView, 0, len(sponsors))
	for _, s := range sponsors {
		out = append(out, h.view(c, s))
	}
	return out
}

// ListPublic handles GET /:orgSlug/sponsors. Published sponsors in carousel
// order.
func (h *Handler) ListPublic(c *gin.Context) {
	tc := tenancy.FromGin(c)
	sponsors, err := h.repo.ListPublished(c.Request.Context(), tc.OrgID)
	if err != nil {
		h.logger.Error("list public sponsors failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to list sponsors")
		return
	}
	response.OK(c, h.views(c, sponsors))
}

// List handles GET /:orgSlug/tools/sponsors.
func (h *Handler) List(c *gin.Context) {
	tc := tenancy.FromGin(c)
	sponsors, err := h.repo.List(c.Request.Context(), tc.OrgID)
	if err != nil {
		h.logger.Error("list sponsors failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to list sponsors")
		return
	}
	response.OK(c, h.views(c, sponsors))
}

// UpsertRequest is the body for sponsor create and update.
type UpsertRequest struct {
	Name        string `json:"name" binding:"required"`
	Tier        string `json:"tier"`
	WebsiteURL  string `json:"website_url"`
	IsPublished *bool  `json:"is_published"`
	SortIndex   int    `json:"sort_index"`
}

func (req *UpsertRequest) validate() map[string]string {
	fields := map[string]string{}
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 1 || len(req.Name) > 255 {
		fields["name"] = "must be 1–255 characters"
	}
	req.WebsiteURL = strings.TrimSpace(req.WebsiteURL)
	if req.WebsiteURL != "" && !strings.HasPrefix(req.WebsiteURL, "http://") && !strings.HasPrefix(req.WebsiteURL, "https://") {
		fields["website_url"] = "must start with http:// or https://"
	}
	req.Tier = strings.ToLower(strings.TrimSpace(req.Tier))
	return fields
}

// Create handles POST /:orgSlug/tools/sponsors.
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
	s := &models.Sponsor{
		OrgID:      tc.OrgID,
		Name:       body.Name,
		Tier:       body.Tier,
		WebsiteURL: body.WebsiteURL,
		SortIndex:  body.SortIndex,
	}
	if body.IsPublished != nil {
		s.IsPublished = *body.IsPublished
	}
	if err := h.repo.Create(c.Request.Context(), s); err != nil {
		h.logger.Error("create sponsor failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to create sponsor")
		return
	}
	response.Created(c, h.view(c, *s))
}

// Update handles PUT /:orgSlug/tools/sponsors/:sponsorID.
func (h *Handler) Update(c *gin.Context) {
	tc := tenancy.FromGin(c)
	id, err := uuid.Parse(c.Param("sponsorID"))
	if err != nil {
		response.NotFound(c, "sponsor not found")
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
	s, err := h.repo.GetByID(c.Request.Context(), tc.OrgID, id)
	if err != nil {
		response.Internal(c, "failed to load sponsor")
		return
	}
	if s == nil {
		response.NotFound(c, "sponsor not found")
		return
	}
	s.Name = body.Name
	s.Tier = body.Tier
	s.WebsiteURL = body.WebsiteURL
	if body.IsPublished != nil {
		s.IsPublished = *body.IsPublished
	}
	s.SortIndex = body.SortIndex
	if err := h.repo.Update(c.Request.Context(), s); err != nil {
		h.logger.Error("update sponsor failed", zap.Error(err), zap.String("sponsor_id", s.ID.String()))
		response.Internal(c, "failed to update sponsor")
		return
	}
	response.OK(c, h.view(c, *s))
}

// UploadLogo handles POST /:orgSlug/tools/sponsors/:sponsorID/logo. Accepts a
// multipart "file", stores it, and points the sponsor at the new key.
func (h *Handler) UploadLogo(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "asset storage is not configured")
		return
	}
	tc := tenancy.FromGin(c)
	id, err := uuid.Parse(c.Param("sponsorID"))
	if err != nil {
		response.NotFound(c, "sponsor not found")
		return
	}
	s, err := h.repo.GetByID(c.Request.Context(), tc.OrgID, id)
	if err != nil {
		response.Internal(c, "failed to load sponsor")
		return
	}
	if s == nil {
		response.NotFound(c, "sponsor not found")
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file required")
		return
	}
	if file.Size > storage.MaxAssetFileSize {
		response.BadRequest(c, "file too large")
		return
	}
	if !storage.ValidateAssetFileType(file.Header.Get("Content-Type"), file.Filename) {
		response.BadRequest(c, "unsupported file type")
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Internal(c, "failed to read file")
		return
	}
	defer src.Close()

	oldKey := s.LogoPath
	key := storage.SponsorKey(tc.OrgID.String(), s.ID.String(), file.Filename)
	if _, err := h.s3.Upload(c.Request.Context(), h.s3.AssetsBucket(), key,
		storage.ContentTypeForFilename(file.Filename), src, file.Size, true); err != nil {
		h.logger.Error("sponsor logo upload failed", zap.Error(err), zap.String("sponsor_id", s.ID.String()))
		response.Internal(c, "failed to store file")
		return
	}
	s.LogoPath = key
	if err := h.repo.Update(c.Request.Context(), s); err != nil {
		response.Internal(c, "failed to update sponsor")
		return
	}
	if oldKey != "" && oldKey != key {
		if err := h.s3.DeleteAsset(c.Request.Context(), oldKey); err != nil {
			h.logger.Warn("delete replaced logo failed", zap.Error(err), zap.String("key", oldKey))
		}
	}
	response.OK(c, h.view(c, *s))
}

// Delete handles DELETE /:orgSlug/tools/sponsors/:sponsorID. Removes the
// stored logo as well.
func (h *Handler) Delete(c *gin.Context) {
	tc := tenancy.FromGin(c)
	id, err := uuid.Parse(c.Param("sponsorID"))
	if err != nil {
		response.NotFound(c, "sponsor not found")
		return
	}
	s, err := h.repo.GetByID(c.Request.Context(), tc.OrgID, id)
	if err != nil {
		response.Internal(c, "failed to load sponsor")
		return
	}
	if s == nil {
		response.NotFound(c, "sponsor not found")
		return
	}
	deleted, err := h.repo.Delete(c.Request.Context(), tc.OrgID, id)
	if err != nil {
		h.logger.Error("delete sponsor failed", zap.Error(err), zap.String("sponsor_id", id.String()))
		response.Internal(c, "failed to delete sponsor")
		return
	}
	if !deleted {
		response.NotFound(c, "sponsor not found")
		return
	}
	if s.LogoPath != "" && h.s3 != nil {
		if err := h.s3.DeleteAsset(c.Request.Context(), s.LogoPath); err != nil {
			h.logger.Warn("delete sponsor logo failed", zap.Error(err), zap.String("key", s.LogoPath))
		}
	}
	response.NoContent(c)
}
