// Package pages implements the site page builder: a registry of typed
// blocks, layout normalization of persisted JSON, and render/edit endpoints
// that share one render path.
package pages

import (
	"encoding/json"

	"github.com/google/uuid"
)

// BlockType tags a block definition in the registry.
type BlockType string

const (
	BlockHero             BlockType = "hero"
	BlockSubhero          BlockType = "subhero"
	BlockCTAGrid          BlockType = "cta_grid"
	BlockCTACard          BlockType = "cta_card"
	BlockSchedulePreview  BlockType = "schedule_preview"
	BlockProgramCatalog   BlockType = "program_catalog"
	BlockSponsorsCarousel BlockType = "sponsors_carousel"
	BlockAnnouncements    BlockType = "announcements"
	BlockEmbedForm        BlockType = "embed_form"
)

// BlockContext carries the org facts block defaults and renders are seeded
// with. It is derived from the resolved tenancy context.
type BlockContext struct {
	OrgName string
	OrgSlug string
}

// Block is one typed, ordered unit of page content. ID is stable across
// reorders; Config is the type's sanitized config struct.
type Block struct {
	ID     uuid.UUID   `json:"id"`
	Type   BlockType   `json:"type"`
	Config interface{} `json:"config"`
}

// maxListLimit bounds the item count any list-style block may request.
const maxListLimit = 24

// HeroConfig is the full-width banner at the top of a page.
type HeroConfig struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	ImagePath string `json:"image_path"`
	CTALabel  string `json:"cta_label"`
	CTAHref   string `json:"cta_href"`
}

func defaultHero(ctx BlockContext) HeroConfig {
	return HeroConfig{
		Title:    ctx.OrgName,
		Subtitle: "Welcome to " + ctx.OrgName,
		CTALabel: "Get Involved",
		CTAHref:  "/" + ctx.OrgSlug + "/programs",
	}
}

func sanitizeHero(raw json.RawMessage, ctx BlockContext) HeroConfig {
	cfg := defaultHero(ctx)
	var in struct {
		Title     *string `json:"title"`
		Subtitle  *string `json:"subtitle"`
		ImagePath *string `json:"image_path"`
		CTALabel  *string `json:"cta_label"`
		CTAHref   *string `json:"cta_href"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &in)
	}
	if in.Title != nil && *in.Title != "" {
		cfg.Title = *in.Title
	}
	if in.Subtitle != nil {
		cfg.Subtitle = *in.Subtitle
	}
	if in.ImagePath != nil {
		cfg.ImagePath = *in.ImagePath
	}
	if in.CTALabel != nil {
		cfg.CTALabel = *in.CTALabel
	}
	if in.CTAHref != nil {
		cfg.CTAHref = *in.CTAHref
	}
	return cfg
}

// SubheroConfig is a secondary banner with heading and body copy.
type SubheroConfig struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

func defaultSubhero(ctx BlockContext) SubheroConfig {
	return SubheroConfig{
		Heading: "About " + ctx.OrgName,
		Body:    "Tell visitors what your organization is all about.",
	}
}

func sanitizeSubhero(raw json.RawMessage, ctx BlockContext) SubheroConfig {
	cfg := defaultSubhero(ctx)
	var in struct {
		Heading *string `json:"heading"`
		Body    *string `json:"body"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &in)
	}
	if in.Heading != nil && *in.Heading != "" {
		cfg.Heading = *in.Heading
	}
	if in.Body != nil {
		cfg.Body = *in.Body
	}
	return cfg
}

// CTACardConfig is one call-to-action card, standalone or inside a grid.
type CTACardConfig struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Href  string `json:"href"`
	Icon  string `json:"icon"`
}

func defaultCTACard(ctx BlockContext) CTACardConfig {
	return CTACardConfig{
		Title: "Join " + ctx.OrgName,
		Body:  "Find a program that fits.",
		Href:  "/" + ctx.OrgSlug + "/programs",
	}
}

func sanitizeCTACard(raw json.RawMessage, ctx BlockContext) CTACardConfig {
	cfg := defaultCTACard(ctx)
	var in struct {
		Title *string `json:"title"`
		Body  *string `json:"body"`
		Href  *string `json:"href"`
		Icon  *string `json:"icon"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &in)
	}
	if in.Title != nil && *in.Title != "" {
		cfg.Title = *in.Title
	}
	if in.Body != nil {
		cfg.Body = *in.Body
	}
	if in.Href != nil {
		cfg.Href = *in.Href
	}
	if in.Icon != nil {
		cfg.Icon = *in.Icon
	}
	return cfg
}

// CTAGridConfig is a heading plus a row of CTA cards. Cards sanitize
// individually; a malformed card degrades alone, not the whole grid.
type CTAGridConfig struct {
	Heading string          `json:"heading"`
	Cards   []CTACardConfig `json:"cards"`
}

func defaultCTAGrid(ctx BlockContext) CTAGridConfig {
	return CTAGridConfig{
		Heading: "Get Started",
		Cards: []CTACardConfig{
			{Title: "Programs", Body: "Browse our programs.", Href: "/" + ctx.OrgSlug + "/programs"},
			{Title: "Schedule", Body: "See upcoming events.", Href: "/" + ctx.OrgSlug + "/events"},
			{Title: "Contact", Body: "Get in touch with us.", Href: "/" + ctx.OrgSlug + "/pages/contact"},
		},
	}
}

func sanitizeCTAGrid(raw json.RawMessage, ctx BlockContext) CTAGridConfig {
	cfg := defaultCTAGrid(ctx)
	var in struct {
		Heading *string           `json:"heading"`
		Cards   []json.RawMessage `json:"cards"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &in)
	}
	if in.Heading != nil && *in.Heading != "" {
		cfg.Heading = *in.Heading
	}
	if in.Cards != nil {
		cards := make([]CTACardConfig, 0, len(in.Cards))
		for _, rawCard := range in.Cards {
			cards = append(cards, sanitizeCTACard(rawCard, ctx))
		}
		cfg.Cards = cards
	}
	return cfg
}

// SchedulePreviewConfig shows the next upcoming public events.
type SchedulePreviewConfig struct {
	Heading string `json:"heading"`
	Limit   int    `json:"limit"`
}

func defaultSchedulePreview(ctx BlockContext) SchedulePreviewConfig {
	return SchedulePreviewConfig{Heading: "Upcoming Events", Limit: 5}
}

func sanitizeSchedulePreview(raw json.RawMessage, ctx BlockContext) SchedulePreviewConfig {
	cfg := defaultSchedulePreview(ctx)
	var in struct {
		Heading *string `json:"heading"`
		Limit   *int    `json:"limit"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &in)
	}
	if in.Heading != nil && *in.Heading != "" {
		cfg.Heading = *in.Heading
	}
	if in.Limit != nil && *in.Limit > 0 && *in.Limit <= maxListLimit {
		cfg.Limit = *in.Limit
	}
	return cfg
}

// ProgramCatalogConfig lists the org's active programs.
type ProgramCatalogConfig struct {
	Heading string `json:"heading"`
	Limit   int    `json:"limit"`
}

func defaultProgramCatalog(ctx BlockContext) ProgramCatalogConfig {
	return ProgramCatalogConfig{Heading: "Our Programs", Limit: 12}
}

func sanitizeProgramCatalog(raw json.RawMessage, ctx BlockContext) ProgramCatalogConfig {
	cfg := defaultProgramCatalog(ctx)
	var in struct {
		Heading *string `json:"heading"`
		Limit   *int    `json:"limit"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &in)
	}
	if in.Heading != nil && *in.Heading != "" {
		cfg.Heading = *in.Heading
	}
	if in.Limit != nil && *in.Limit > 0 && *in.Limit <= maxListLimit {
		cfg.Limit = *in.Limit
	}
	return cfg
}

// SponsorsCarouselConfig shows published sponsor logos.
type SponsorsCarouselConfig struct {
	Heading string `json:"heading"`
}

func defaultSponsorsCarousel(ctx BlockContext) SponsorsCarouselConfig {
	return SponsorsCarouselConfig{Heading: "Our Sponsors"}
}

func sanitizeSponsorsCarousel(raw json.RawMessage, ctx BlockContext) SponsorsCarouselConfig {
	cfg := defaultSponsorsCarousel(ctx)
	var in struct {
		Heading *string `json:"heading"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &in)
	}
	if in.Heading != nil && *in.Heading != "" {
		cfg.Heading = *in.Heading
	}
	return cfg
}

// AnnouncementsConfig shows the latest published announcements.
type AnnouncementsConfig struct {
	Heading string `json:"heading"`
	Limit   int    `json:"limit"`
}

func defaultAnnouncements(ctx BlockContext) AnnouncementsConfig {
	return AnnouncementsConfig{Heading: "News", Limit: 3}
}

func sanitizeAnnouncements(raw json.RawMessage, ctx BlockContext) AnnouncementsConfig {
	cfg := defaultAnnouncements(ctx)
	var in struct {
		Heading *string `json:"heading"`
		Limit   *int    `json:"limit"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &in)
	}
	if in.Heading != nil && *in.Heading != "" {
		cfg.Heading = *in.Heading
	}
	if in.Limit != nil && *in.Limit > 0 && *in.Limit <= maxListLimit {
		cfg.Limit = *in.Limit
	}
	return cfg
}

// EmbedFormConfig embeds one of the org's published forms by slug.
type EmbedFormConfig struct {
	Heading  string `json:"heading"`
	FormSlug string `json:"form_slug"`
}

func defaultEmbedForm(ctx BlockContext) EmbedFormConfig {
	return EmbedFormConfig{Heading: "Contact Us"}
}

func sanitizeEmbedForm(raw json.RawMessage, ctx BlockContext) EmbedFormConfig {
	cfg := defaultEmbedForm(ctx)
	var in struct {
		Heading  *string `json:"heading"`
		FormSlug *string `json:"form_slug"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &in)
	}
	if in.Heading != nil && *in.Heading != "" {
		cfg.Heading = *in.Heading
	}
	if in.FormSlug != nil {
		cfg.FormSlug = *in.FormSlug
	}
	return cfg
}
