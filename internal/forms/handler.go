package forms

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/tenancy"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/response"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/utils"
)

var formSlugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// honeypotField is a hidden form input real users never fill. A non-empty
// value marks the submission as bot traffic; it is accepted and discarded so
// the bot learns nothing.
const honeypotField = "website"

// Handler handles form builder, submission review, and public submit
// endpoints.
type Handler struct {
	repo    *Repository
	limiter *SubmissionLimiter
	logger  *zap.Logger
}

// NewHandler creates a forms handler.
func NewHandler(repo *Repository, limiter *SubmissionLimiter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, limiter: limiter, logger: logger}
}

// List handles GET /:orgSlug/tools/forms.
func (h *Handler) List(c *gin.Context) {
	tc := tenancy.FromGin(c)
	items, err := h.repo.List(c.Request.Context(), tc.OrgID)
	if err != nil {
		h.logger.Error("list forms failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to list forms")
		return
	}
	response.OK(c, items)
}

// CreateRequest is the body for POST /:orgSlug/tools/forms.
type CreateRequest struct {
	Slug        string             `json:"slug" binding:"required"`
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Fields      []models.FormField `json:"fields"`
}

// Create handles POST /:orgSlug/tools/forms.
func (h *Handler) Create(c *gin.Context) {
	tc := tenancy.FromGin(c)
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "slug and name required")
		return
	}
	body.Slug = strings.ToLower(strings.TrimSpace(body.Slug))
	fields := map[string]string{}
	if !formSlugRegex.MatchString(body.Slug) {
		fields["slug"] = "must be lowercase letters, numbers, hyphens only"
	}
	body.Name = strings.TrimSpace(body.Name)
	if len(body.Name) < 1 || len(body.Name) > 255 {
		fields["name"] = "must be 1–255 characters"
	}
	for k, v := range ValidateSchema(body.Fields) {
		fields[k] = v
	}
	if len(fields) > 0 {
		response.UnprocessableEntity(c, "validation failed", fields)
		return
	}

	schema, err := json.Marshal(body.Fields)
	if err != nil {
		response.Internal(c, "failed to encode fields")
		return
	}
	form, err := h.repo.Create(c.Request.Context(), tc.OrgID, body.Slug, body.Name, strings.TrimSpace(body.Description), schema)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique") {
			response.Conflict(c, "a form with this slug already exists")
			return
		}
		h.logger.Error("create form failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to create form")
		return
	}
	response.Created(c, form)
}

// Get handles GET /:orgSlug/tools/forms/:formSlug. Returns the form with its
// latest published version, if any.
func (h *Handler) Get(c *gin.Context) {
	tc := tenancy.FromGin(c)
	form, ok := h.loadForm(c, tc)
	if !ok {
		return
	}
	version, err := h.repo.LatestVersion(c.Request.Context(), form.ID)
	if err != nil {
		response.Internal(c, "failed to load form version")
		return
	}
	response.OK(c, gin.H{"form": form, "latest_version": version})
}

// UpdateRequest is the body for PATCH /:orgSlug/tools/forms/:formSlug.
// Omitted fields keep their current value. Changing fields edits the working
// draft only; submissions keep validating against the published version.
type UpdateRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Fields      *[]models.FormField `json:"fields"`
}

// Update handles PATCH /:orgSlug/tools/forms/:formSlug.
func (h *Handler) Update(c *gin.Context) {
	tc := tenancy.FromGin(c)
	form, ok := h.loadForm(c, tc)
	if !ok {
		return
	}
	var body UpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if len(name) < 1 || len(name) > 255 {
			response.UnprocessableEntity(c, "validation failed", map[string]string{"name": "must be 1–255 characters"})
			return
		}
		form.Name = name
	}
	if body.Description != nil {
		form.Description = strings.TrimSpace(*body.Description)
	}
	if body.Fields != nil {
		if errs := ValidateSchema(*body.Fields); len(errs) > 0 {
			response.UnprocessableEntity(c, "validation failed", errs)
			return
		}
		schema, err := json.Marshal(*body.Fields)
		if err != nil {
			response.Internal(c, "failed to encode fields")
			return
		}
		form.Fields = schema
	}
	if err := h.repo.Update(c.Request.Context(), form); err != nil {
		h.logger.Error("update form failed", zap.Error(err), zap.String("form_id", form.ID.String()))
		response.Internal(c, "failed to update form")
		return
	}
	response.OK(c, form)
}

// Delete handles DELETE /:orgSlug/tools/forms/:formSlug.
func (h *Handler) Delete(c *gin.Context) {
	tc := tenancy.FromGin(c)
	form, ok := h.loadForm(c, tc)
	if !ok {
		return
	}
	deleted, err := h.repo.Delete(c.Request.Context(), tc.OrgID, form.ID)
	if err != nil {
		h.logger.Error("delete form failed", zap.Error(err), zap.String("form_id", form.ID.String()))
		response.Internal(c, "failed to delete form")
		return
	}
	if !deleted {
		response.NotFound(c, "form not found")
		return
	}
	response.NoContent(c)
}

// Publish handles POST /:orgSlug/tools/forms/:formSlug/publish. Snapshots the
// working schema as the next immutable version and opens the form to public
// submissions.
func (h *Handler) Publish(c *gin.Context) {
	tc := tenancy.FromGin(c)
	form, ok := h.loadForm(c, tc)
	if !ok {
		return
	}
	fields, err := ParseFields(form.Fields)
	if err != nil {
		response.UnprocessableEntity(c, "validation failed", map[string]string{"fields": "stored schema is invalid"})
		return
	}
	if len(fields) == 0 {
		response.UnprocessableEntity(c, "validation failed", map[string]string{"fields": "add at least one field before publishing"})
		return
	}
	if errs := ValidateSchema(fields); len(errs) > 0 {
		response.UnprocessableEntity(c, "validation failed", errs)
		return
	}
	version, err := h.repo.PublishVersion(c.Request.Context(), tc.OrgID, form.ID, form.Fields)
	if err != nil {
		h.logger.Error("publish form failed", zap.Error(err), zap.String("form_id", form.ID.String()))
		response.Internal(c, "failed to publish form")
		return
	}
	response.OK(c, gin.H{"form_id": form.ID, "version": version})
}

// ListSubmissions handles GET /:orgSlug/tools/forms/:formSlug/submissions.
// Supports ?status=new|reviewed|archived.
func (h *Handler) ListSubmissions(c *gin.Context) {
	tc := tenancy.FromGin(c)
	form, ok := h.loadForm(c, tc)
	if !ok {
		return
	}
	status := c.Query("status")
	switch status {
	case "", models.SubmissionStatusNew, models.SubmissionStatusReviewed, models.SubmissionStatusArchived:
	default:
		response.BadRequest(c, "unknown status filter")
		return
	}
	subs, err := h.repo.ListSubmissions(c.Request.Context(), tc.OrgID, form.ID, status)
	if err != nil {
		h.logger.Error("list submissions failed", zap.Error(err), zap.String("form_id", form.ID.String()))
		response.Internal(c, "failed to list submissions")
		return
	}
	response.OK(c, subs)
}

// UpdateSubmissionStatus handles
// PATCH /:orgSlug/tools/forms/:formSlug/submissions/:submissionID.
func (h *Handler) UpdateSubmissionStatus(c *gin.Context) {
	tc := tenancy.FromGin(c)
	submissionID, err := uuid.Parse(c.Param("submissionID"))
	if err != nil {
		response.NotFound(c, "submission not found")
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "status required")
		return
	}
	switch body.Status {
	case models.SubmissionStatusNew, models.SubmissionStatusReviewed, models.SubmissionStatusArchived:
	default:
		response.UnprocessableEntity(c, "validation failed", map[string]string{"status": "must be new, reviewed, or archived"})
		return
	}
	updated, err := h.repo.UpdateSubmissionStatus(c.Request.Context(), tc.OrgID, submissionID, body.Status)
	if err != nil {
		response.Internal(c, "failed to update submission")
		return
	}
	if !updated {
		response.NotFound(c, "submission not found")
		return
	}
	response.OK(c, gin.H{"id": submissionID, "status": body.Status})
}

// ExportCSV handles GET /:orgSlug/tools/forms/:formSlug/export.csv. Streams
// every submission of the form as CSV.
func (h *Handler) ExportCSV(c *gin.Context) {
	tc := tenancy.FromGin(c)
	form, ok := h.loadForm(c, tc)
	if !ok {
		return
	}
	subs, err := h.repo.ListSubmissions(c.Request.Context(), tc.OrgID, form.ID, "")
	if err != nil {
		h.logger.Error("export submissions failed", zap.Error(err), zap.String("form_id", form.ID.String()))
		response.Internal(c, "failed to export submissions")
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+form.Slug+`-submissions.csv"`)
	c.Status(http.StatusOK)
	if err := WriteSubmissionsCSV(c.Writer, form, subs); err != nil {
		h.logger.Error("write csv failed", zap.Error(err), zap.String("form_id", form.ID.String()))
	}
}

// SubmitRequest is the public submission body. The honeypot input rides
// alongside the answers object.
type SubmitRequest struct {
	Answers  map[string]interface{} `json:"answers"`
	Honeypot string                 `json:"website"`
}

// Submit handles POST /:orgSlug/forms/:formSlug/submit. This is the one
// anonymous write endpoint; it answers in plain embed-widget JSON rather
// than the API envelope.
func (h *Handler) Submit(c *gin.Context) {
	tc := tenancy.FromGin(c)
	formSlug := strings.ToLower(c.Param("formSlug"))

	form, err := h.repo.GetBySlug(c.Request.Context(), tc.OrgID, formSlug)
	if err != nil {
		h.logger.Error("load form failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()), zap.String("form", formSlug))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "something went wrong"})
		return
	}
	if form == nil || !form.IsPublished {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "form not found"})
		return
	}
	version, err := h.repo.LatestVersion(c.Request.Context(), form.ID)
	if err != nil || version == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "form not found"})
		return
	}

	var body SubmitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid submission"})
		return
	}

	// Bots that fill the honeypot get a success and no stored row.
	if strings.TrimSpace(body.Honeypot) != "" {
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Thanks! Your submission has been received."})
		return
	}

	ipHash := utils.HashClientIP(c.ClientIP())
	if !h.limiter.Allow(c.Request.Context(), tc.OrgID, form.ID, ipHash) {
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "too many submissions, please try again later"})
		return
	}

	fields, err := ParseFields(version.Fields)
	if err != nil {
		h.logger.Error("published schema unreadable", zap.Error(err), zap.String("form_id", form.ID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "something went wrong"})
		return
	}
	doc, fieldErrs := ValidateAnswers(fields, body.Answers)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": "validation failed", "errors": fieldErrs})
		return
	}

	if _, err := h.repo.InsertSubmission(c.Request.Context(), tc.OrgID, form.ID, version.ID, doc); err != nil {
		h.logger.Error("insert submission failed", zap.Error(err), zap.String("form_id", form.ID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "something went wrong"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Thanks! Your submission has been received."})
}

// loadForm resolves :formSlug for tools endpoints, answering 404 itself when
// absent.
func (h *Handler) loadForm(c *gin.Context, tc *tenancy.Context) (*models.Form, bool) {
	formSlug := strings.ToLower(c.Param("formSlug"))
	form, err := h.repo.GetBySlug(c.Request.Context(), tc.OrgID, formSlug)
	if err != nil {
		response.Internal(c, "failed to load form")
		return nil, false
	}
	if form == nil {
		response.NotFound(c, "form not found")
		return nil, false
	}
	return form, true
}
