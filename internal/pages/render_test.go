package pages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

func TestRenderLayoutSharedPath(t *testing.T) {
	blocks := DefaultLayout(models.PageKeyHome, testCtx)
	rt := &RuntimeData{}

	public := RenderLayout(blocks, testCtx, rt, false)
	editing := RenderLayout(blocks, testCtx, rt, true)

	require.Len(t, public, len(blocks))
	for i, v := range public {
		assert.Equal(t, blocks[i].ID, v["id"])
		assert.Equal(t, blocks[i].Type, v["type"])
		// Same renderer serves both; content keys must match.
		assert.Equal(t, v["title"], editing[i]["title"])
	}
}

func TestRenderSchedulePreviewAppliesLimit(t *testing.T) {
	b, ok := NewBlock(BlockSchedulePreview, testCtx)
	require.True(t, ok)
	cfg := b.Config.(SchedulePreviewConfig)
	cfg.Limit = 2
	b.Config = cfg

	events := make([]EventItem, 5)
	for i := range events {
		events[i] = EventItem{Title: "Game", StartsAt: time.Now()}
	}
	v := renderSchedulePreview(b, testCtx, &RuntimeData{Events: events}, false)
	assert.Len(t, v["events"], 2)
}

func TestRenderListsEmptyNotNil(t *testing.T) {
	sp, _ := NewBlock(BlockSchedulePreview, testCtx)
	pc, _ := NewBlock(BlockProgramCatalog, testCtx)
	sc, _ := NewBlock(BlockSponsorsCarousel, testCtx)
	an, _ := NewBlock(BlockAnnouncements, testCtx)
	rt := &RuntimeData{}

	assert.NotNil(t, renderSchedulePreview(sp, testCtx, rt, false)["events"])
	assert.NotNil(t, renderProgramCatalog(pc, testCtx, rt, false)["programs"])
	assert.NotNil(t, renderSponsorsCarousel(sc, testCtx, rt, false)["sponsors"])
	assert.NotNil(t, renderAnnouncements(an, testCtx, rt, false)["items"])
}

func TestRenderEmbedFormMissingForm(t *testing.T) {
	b, _ := NewBlock(BlockEmbedForm, testCtx)
	cfg := b.Config.(EmbedFormConfig)
	cfg.FormSlug = "registration"
	b.Config = cfg
	rt := &RuntimeData{Forms: map[string]*FormItem{}}

	public := renderEmbedForm(b, testCtx, rt, false)
	assert.Nil(t, public["form"])
	_, hasNote := public["editor_note"]
	assert.False(t, hasNote, "public render carries no editor affordances")

	editing := renderEmbedForm(b, testCtx, rt, true)
	assert.NotEmpty(t, editing["editor_note"])
}

func TestRenderEmbedFormResolved(t *testing.T) {
	b, _ := NewBlock(BlockEmbedForm, testCtx)
	cfg := b.Config.(EmbedFormConfig)
	cfg.FormSlug = "registration"
	b.Config = cfg
	rt := &RuntimeData{Forms: map[string]*FormItem{
		"registration": {Slug: "registration", Name: "Registration"},
	}}

	v := renderEmbedForm(b, testCtx, rt, false)
	form, ok := v["form"].(*FormItem)
	require.True(t, ok)
	assert.Equal(t, "Registration", form.Name)
}

func TestRenderLayoutSkipsUnknownTypes(t *testing.T) {
	blocks := []Block{{Type: BlockType("video_wall")}}
	views := RenderLayout(blocks, testCtx, nil, false)
	assert.Empty(t, views)
}
