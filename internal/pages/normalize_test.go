package pages

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

var testCtx = BlockContext{OrgName: "Tigers Youth Soccer", OrgSlug: "tigers"}

func TestNormalizeNilLayoutSynthesizesHomeDefault(t *testing.T) {
	blocks := NormalizeLayout(models.PageKeyHome, nil, testCtx)
	require.Len(t, blocks, 3)
	assert.Equal(t, BlockHero, blocks[0].Type)
	assert.Equal(t, BlockSubhero, blocks[1].Type)
	assert.Equal(t, BlockCTAGrid, blocks[2].Type)
	for _, b := range blocks {
		assert.NotEqual(t, uuid.Nil, b.ID)
	}
}

func TestNormalizeNilLayoutOtherPage(t *testing.T) {
	blocks := NormalizeLayout("contact", nil, testCtx)
	require.Len(t, blocks, 1)
	assert.Equal(t, BlockHero, blocks[0].Type)
}

func TestNormalizeJSONNullAndGarbage(t *testing.T) {
	for _, raw := range []string{"null", "{broken", `"a string"`, "42"} {
		blocks := NormalizeLayout(models.PageKeyHome, json.RawMessage(raw), testCtx)
		assert.Len(t, blocks, 3, "input %q falls back to the default layout", raw)
	}
}

func TestNormalizeDropsUnknownTypesKeepsOrder(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":"` + uuid.NewString() + `","type":"hero","config":{}},
		{"id":"` + uuid.NewString() + `","type":"video_wall","config":{}},
		{"id":"` + uuid.NewString() + `","type":"announcements","config":{}},
		{"id":"` + uuid.NewString() + `","type":"subhero","config":{}}
	]`)
	blocks := NormalizeLayout(models.PageKeyHome, raw, testCtx)
	require.Len(t, blocks, 3)
	assert.Equal(t, BlockHero, blocks[0].Type)
	assert.Equal(t, BlockAnnouncements, blocks[1].Type)
	assert.Equal(t, BlockSubhero, blocks[2].Type)
}

func TestNormalizeKeepsStableIDs(t *testing.T) {
	id := uuid.New()
	raw := json.RawMessage(`[{"id":"` + id.String() + `","type":"hero","config":{"title":"Hello"}}]`)
	blocks := NormalizeLayout(models.PageKeyHome, raw, testCtx)
	require.Len(t, blocks, 1)
	assert.Equal(t, id, blocks[0].ID)
}

func TestNormalizeRegeneratesBadIDs(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":"not-a-uuid","type":"hero","config":{}},
		{"id":"","type":"subhero","config":{}},
		{"id":"00000000-0000-0000-0000-000000000000","type":"cta_grid","config":{}}
	]`)
	blocks := NormalizeLayout(models.PageKeyHome, raw, testCtx)
	require.Len(t, blocks, 3)
	for _, b := range blocks {
		assert.NotEqual(t, uuid.Nil, b.ID)
	}
}

func TestNormalizePreservesReorder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	raw := json.RawMessage(`[
		{"id":"` + b.String() + `","type":"subhero","config":{}},
		{"id":"` + a.String() + `","type":"hero","config":{}}
	]`)
	blocks := NormalizeLayout(models.PageKeyHome, raw, testCtx)
	require.Len(t, blocks, 2)
	assert.Equal(t, b, blocks[0].ID)
	assert.Equal(t, a, blocks[1].ID)
}

func TestSanitizeIdempotentForAllTypes(t *testing.T) {
	for _, bt := range RegisteredTypes() {
		def, ok := Lookup(bt)
		require.True(t, ok)

		once := def.Sanitize(nil, testCtx)
		raw, err := json.Marshal(once)
		require.NoError(t, err)
		twice := def.Sanitize(raw, testCtx)
		assert.Equal(t, once, twice, "sanitize must be idempotent for %s", bt)
	}
}

func TestSanitizeTotalForAllTypes(t *testing.T) {
	inputs := []json.RawMessage{nil, json.RawMessage(`{}`), json.RawMessage(`{"limit":-5}`),
		json.RawMessage(`[1,2,3]`), json.RawMessage(`"garbage"`), json.RawMessage(`{"title":""}`)}
	for _, bt := range RegisteredTypes() {
		def, ok := Lookup(bt)
		require.True(t, ok)
		for _, in := range inputs {
			cfg := def.Sanitize(in, testCtx)
			assert.NotNil(t, cfg, "sanitize(%s, %s) must return a config", bt, in)
		}
	}
}

func TestSanitizeHeroMergesDefaults(t *testing.T) {
	cfg := sanitizeHero(json.RawMessage(`{"title":"","subtitle":"Custom sub"}`), testCtx)
	assert.Equal(t, testCtx.OrgName, cfg.Title, "empty title falls back to default")
	assert.Equal(t, "Custom sub", cfg.Subtitle)
}

func TestSanitizeListLimitsClamped(t *testing.T) {
	cfg := sanitizeAnnouncements(json.RawMessage(`{"limit":999}`), testCtx)
	assert.Equal(t, defaultAnnouncements(testCtx).Limit, cfg.Limit, "over-limit keeps default")

	cfg = sanitizeAnnouncements(json.RawMessage(`{"limit":0}`), testCtx)
	assert.Equal(t, defaultAnnouncements(testCtx).Limit, cfg.Limit)

	cfg = sanitizeAnnouncements(json.RawMessage(`{"limit":7}`), testCtx)
	assert.Equal(t, 7, cfg.Limit)
}

func TestSanitizeCTAGridCardsIndividually(t *testing.T) {
	cfg := sanitizeCTAGrid(json.RawMessage(`{"cards":[{"title":"Join"},{"bogus":true}]}`), testCtx)
	require.Len(t, cfg.Cards, 2)
	assert.Equal(t, "Join", cfg.Cards[0].Title)
	assert.NotEmpty(t, cfg.Cards[1].Title, "malformed card falls back to card defaults")
}

func TestNewBlockUnknownType(t *testing.T) {
	_, ok := NewBlock(BlockType("video_wall"), testCtx)
	assert.False(t, ok)
}

func TestMarshalRoundTrip(t *testing.T) {
	blocks := DefaultLayout(models.PageKeyHome, testCtx)
	raw, err := MarshalLayout(blocks)
	require.NoError(t, err)

	again := NormalizeLayout(models.PageKeyHome, raw, testCtx)
	require.Len(t, again, len(blocks))
	for i := range blocks {
		assert.Equal(t, blocks[i].ID, again[i].ID)
		assert.Equal(t, blocks[i].Type, again[i].Type)
		assert.Equal(t, blocks[i].Config, again[i].Config)
	}
}
