package pages

import (
	"encoding/json"
	"time"
)

// RuntimeData is the published org content injected into block renders:
// sponsors, programs, announcements, events, and embeddable forms. Loaded
// once per page render for exactly the block types the layout contains.
type RuntimeData struct {
	Sponsors      []SponsorItem
	Programs      []ProgramItem
	Announcements []AnnouncementItem
	Events        []EventItem
	Forms         map[string]*FormItem // keyed by form slug
}

// SponsorItem is a sponsor projected for display.
type SponsorItem struct {
	Name       string `json:"name"`
	Tier       string `json:"tier,omitempty"`
	WebsiteURL string `json:"website_url,omitempty"`
	LogoURL    string `json:"logo_url,omitempty"`
}

// ProgramItem is a program projected for display.
type ProgramItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AgeGroup    string `json:"age_group,omitempty"`
	Season      string `json:"season,omitempty"`
}

// AnnouncementItem is an announcement projected for display.
type AnnouncementItem struct {
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// EventItem is an event projected for display.
type EventItem struct {
	Title    string     `json:"title"`
	Location string     `json:"location,omitempty"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
}

// FormItem is an embeddable form's public projection.
type FormItem struct {
	Slug   string          `json:"slug"`
	Name   string          `json:"name"`
	Fields json.RawMessage `json:"fields"`
}

// RenderLayout renders each block through its registered renderer. The same
// path serves the public page and the editor canvas; isEditing toggles minor
// editor affordances only, never content.
func RenderLayout(blocks []Block, ctx BlockContext, rt *RuntimeData, isEditing bool) []map[string]interface{} {
	if rt == nil {
		rt = &RuntimeData{}
	}
	views := make([]map[string]interface{}, 0, len(blocks))
	for _, b := range blocks {
		def, ok := Lookup(b.Type)
		if !ok {
			continue
		}
		views = append(views, def.Render(b, ctx, rt, isEditing))
	}
	return views
}

func baseView(b Block) map[string]interface{} {
	return map[string]interface{}{
		"id":   b.ID,
		"type": b.Type,
	}
}

func renderHero(b Block, ctx BlockContext, rt *RuntimeData, isEditing bool) map[string]interface{} {
	cfg, _ := b.Config.(HeroConfig)
	v := baseView(b)
	v["title"] = cfg.Title
	v["subtitle"] = cfg.Subtitle
	v["image_path"] = cfg.ImagePath
	v["cta_label"] = cfg.CTALabel
	v["cta_href"] = cfg.CTAHref
	return v
}

func renderSubhero(b Block, ctx BlockContext, rt *RuntimeData, isEditing bool) map[string]interface{} {
	cfg, _ := b.Config.(SubheroConfig)
	v := baseView(b)
	v["heading"] = cfg.Heading
	v["body"] = cfg.Body
	return v
}

func renderCTAGrid(b Block, ctx BlockContext, rt *RuntimeData, isEditing bool) map[string]interface{} {
	cfg, _ := b.Config.(CTAGridConfig)
	v := baseView(b)
	v["heading"] = cfg.Heading
	v["cards"] = cfg.Cards
	return v
}

func renderCTACard(b Block, ctx BlockContext, rt *RuntimeData, isEditing bool) map[string]interface{} {
	cfg, _ := b.Config.(CTACardConfig)
	v := baseView(b)
	v["card"] = cfg
	return v
}

func renderSchedulePreview(b Block, ctx BlockContext, rt *RuntimeData, isEditing bool) map[string]interface{} {
	cfg, _ := b.Config.(SchedulePreviewConfig)
	v := baseView(b)
	v["heading"] = cfg.Heading
	v["events"] = limitEvents(rt.Events, cfg.Limit)
	return v
}

func renderProgramCatalog(b Block, ctx BlockContext, rt *RuntimeData, isEditing bool) map[string]interface{} {
	cfg, _ := b.Config.(ProgramCatalogConfig)
	v := baseView(b)
	v["heading"] = cfg.Heading
	v["programs"] = limitPrograms(rt.Programs, cfg.Limit)
	return v
}

func renderSponsorsCarousel(b Block, ctx BlockContext, rt *RuntimeData, isEditing bool) map[string]interface{} {
	cfg, _ := b.Config.(SponsorsCarouselConfig)
	v := baseView(b)
	v["heading"] = cfg.Heading
	v["sponsors"] = emptyIfNilSponsors(rt.Sponsors)
	return v
}

func renderAnnouncements(b Block, ctx BlockContext, rt *RuntimeData, isEditing bool) map[string]interface{} {
	cfg, _ := b.Config.(AnnouncementsConfig)
	v := baseView(b)
	v["heading"] = cfg.Heading
	v["items"] = limitAnnouncements(rt.Announcements, cfg.Limit)
	return v
}

func renderEmbedForm(b Block, ctx BlockContext, rt *RuntimeData, isEditing bool) map[string]interface{} {
	cfg, _ := b.Config.(EmbedFormConfig)
	v := baseView(b)
	v["heading"] = cfg.Heading
	v["form_slug"] = cfg.FormSlug
	form := rt.Forms[cfg.FormSlug]
	v["form"] = form
	if isEditing && form == nil {
		v["editor_note"] = "select a published form"
	}
	return v
}

func limitEvents(items []EventItem, limit int) []EventItem {
	if items == nil {
		return []EventItem{}
	}
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func limitPrograms(items []ProgramItem, limit int) []ProgramItem {
	if items == nil {
		return []ProgramItem{}
	}
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func limitAnnouncements(items []AnnouncementItem, limit int) []AnnouncementItem {
	if items == nil {
		return []AnnouncementItem{}
	}
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func emptyIfNilSponsors(items []SponsorItem) []SponsorItem {
	if items == nil {
		return []SponsorItem{}
	}
	return items
}
