package pages

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/storage"
)

// Content sources for runtime block data. Each domain repository satisfies
// its slice; the loader only queries the sources the layout actually needs.
type (
	SponsorSource interface {
		ListPublished(ctx context.Context, orgID uuid.UUID) ([]models.Sponsor, error)
	}
	ProgramSource interface {
		ListActive(ctx context.Context, orgID uuid.UUID, limit int) ([]models.Program, error)
	}
	AnnouncementSource interface {
		ListPublished(ctx context.Context, orgID uuid.UUID, limit int) ([]models.Announcement, error)
	}
	EventSource interface {
		ListUpcoming(ctx context.Context, orgID uuid.UUID, limit int) ([]models.Event, error)
	}
	FormSource interface {
		GetPublishedBySlug(ctx context.Context, orgID uuid.UUID, slug string) (*models.Form, error)
	}
)

// RuntimeLoader batches the content queries behind a page render. Failures
// degrade to empty data with a log line; a missing sponsor list must not 500
// a public page.
type RuntimeLoader struct {
	sponsors      SponsorSource
	programs      ProgramSource
	announcements AnnouncementSource
	events        EventSource
	forms         FormSource
	s3            *storage.S3
	logger        *zap.Logger
}

// NewRuntimeLoader creates a runtime data loader. s3 may be nil; sponsor
// logo paths then pass through unresolved.
func NewRuntimeLoader(sponsors SponsorSource, programs ProgramSource, announcements AnnouncementSource, events EventSource, forms FormSource, s3 *storage.S3, logger *zap.Logger) *RuntimeLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuntimeLoader{
		sponsors:      sponsors,
		programs:      programs,
		announcements: announcements,
		events:        events,
		forms:         forms,
		s3:            s3,
		logger:        logger,
	}
}

// Load gathers runtime data for the block types present in blocks. Limits
// take the maximum across blocks of the same type so one query serves all.
func (l *RuntimeLoader) Load(ctx context.Context, orgID uuid.UUID, blocks []Block) *RuntimeData {
	rt := &RuntimeData{Forms: map[string]*FormItem{}}

	needSponsors := false
	programLimit, announcementLimit, eventLimit := 0, 0, 0
	formSlugs := map[string]struct{}{}

	for _, b := range blocks {
		switch cfg := b.Config.(type) {
		case SponsorsCarouselConfig:
			needSponsors = true
		case ProgramCatalogConfig:
			if cfg.Limit > programLimit {
				programLimit = cfg.Limit
			}
		case AnnouncementsConfig:
			if cfg.Limit > announcementLimit {
				announcementLimit = cfg.Limit
			}
		case SchedulePreviewConfig:
			if cfg.Limit > eventLimit {
				eventLimit = cfg.Limit
			}
		case EmbedFormConfig:
			if cfg.FormSlug != "" {
				formSlugs[cfg.FormSlug] = struct{}{}
			}
		}
	}

	if needSponsors && l.sponsors != nil {
		list, err := l.sponsors.ListPublished(ctx, orgID)
		if err != nil {
			l.logger.Warn("load sponsors failed", zap.Error(err), zap.String("org_id", orgID.String()))
		}
		rt.Sponsors = make([]SponsorItem, 0, len(list))
		for _, s := range list {
			rt.Sponsors = append(rt.Sponsors, SponsorItem{
				Name:       s.Name,
				Tier:       s.Tier,
				WebsiteURL: s.WebsiteURL,
				LogoURL:    l.resolveURL(ctx, s.LogoPath),
			})
		}
	}

	if programLimit > 0 && l.programs != nil {
		list, err := l.programs.ListActive(ctx, orgID, programLimit)
		if err != nil {
			l.logger.Warn("load programs failed", zap.Error(err), zap.String("org_id", orgID.String()))
		}
		rt.Programs = make([]ProgramItem, 0, len(list))
		for _, p := range list {
			rt.Programs = append(rt.Programs, ProgramItem{
				Name:        p.Name,
				Description: p.Description,
				AgeGroup:    p.AgeGroup,
				Season:      p.Season,
			})
		}
	}

	if announcementLimit > 0 && l.announcements != nil {
		list, err := l.announcements.ListPublished(ctx, orgID, announcementLimit)
		if err != nil {
			l.logger.Warn("load announcements failed", zap.Error(err), zap.String("org_id", orgID.String()))
		}
		rt.Announcements = make([]AnnouncementItem, 0, len(list))
		for _, a := range list {
			rt.Announcements = append(rt.Announcements, AnnouncementItem{
				Title:       a.Title,
				Body:        a.Body,
				PublishedAt: a.PublishedAt,
			})
		}
	}

	if eventLimit > 0 && l.events != nil {
		list, err := l.events.ListUpcoming(ctx, orgID, eventLimit)
		if err != nil {
			l.logger.Warn("load events failed", zap.Error(err), zap.String("org_id", orgID.String()))
		}
		rt.Events = make([]EventItem, 0, len(list))
		for _, e := range list {
			rt.Events = append(rt.Events, EventItem{
				Title:    e.Title,
				Location: e.Location,
				StartsAt: e.StartsAt,
				EndsAt:   e.EndsAt,
			})
		}
	}

	if l.forms != nil {
		for slug := range formSlugs {
			f, err := l.forms.GetPublishedBySlug(ctx, orgID, slug)
			if err != nil {
				l.logger.Warn("load embedded form failed", zap.Error(err), zap.String("org_id", orgID.String()), zap.String("form_slug", slug))
				continue
			}
			if f == nil {
				continue
			}
			rt.Forms[slug] = &FormItem{Slug: f.Slug, Name: f.Name, Fields: f.Fields}
		}
	}

	return rt
}

func (l *RuntimeLoader) resolveURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	if l.s3 == nil {
		return key
	}
	url, err := l.s3.ResolveURL(ctx, key)
	if err != nil {
		return key
	}
	return url
}
