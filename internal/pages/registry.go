package pages

import (
	"encoding/json"
)

// Definition bundles a block type's pure functions: default factory,
// sanitizer, and renderer. Editing is fully controlled by the page editor on
// the client; the server exposes Default and Sanitize so the editor and the
// public page share one config model.
type Definition struct {
	Type     BlockType
	Default  func(BlockContext) interface{}
	Sanitize func(json.RawMessage, BlockContext) interface{}
	Render   func(Block, BlockContext, *RuntimeData, bool) map[string]interface{}
}

// registeredTypes is the closed set of block types, in editor display order.
var registeredTypes = []BlockType{
	BlockHero,
	BlockSubhero,
	BlockCTAGrid,
	BlockCTACard,
	BlockSchedulePreview,
	BlockProgramCatalog,
	BlockSponsorsCarousel,
	BlockAnnouncements,
	BlockEmbedForm,
}

// RegisteredTypes returns the closed set of block types.
func RegisteredTypes() []BlockType {
	out := make([]BlockType, len(registeredTypes))
	copy(out, registeredTypes)
	return out
}

// Lookup returns the definition for a block type. The switch is exhaustive
// over the closed set; adding a type without a case here fails loudly in
// tests, not silently at render time.
func Lookup(t BlockType) (Definition, bool) {
	switch t {
	case BlockHero:
		return Definition{
			Type:     t,
			Default:  func(ctx BlockContext) interface{} { return defaultHero(ctx) },
			Sanitize: func(raw json.RawMessage, ctx BlockContext) interface{} { return sanitizeHero(raw, ctx) },
			Render:   renderHero,
		}, true
	case BlockSubhero:
		return Definition{
			Type:     t,
			Default:  func(ctx BlockContext) interface{} { return defaultSubhero(ctx) },
			Sanitize: func(raw json.RawMessage, ctx BlockContext) interface{} { return sanitizeSubhero(raw, ctx) },
			Render:   renderSubhero,
		}, true
	case BlockCTAGrid:
		return Definition{
			Type:     t,
			Default:  func(ctx BlockContext) interface{} { return defaultCTAGrid(ctx) },
			Sanitize: func(raw json.RawMessage, ctx BlockContext) interface{} { return sanitizeCTAGrid(raw, ctx) },
			Render:   renderCTAGrid,
		}, true
	case BlockCTACard:
		return Definition{
			Type:     t,
			Default:  func(ctx BlockContext) interface{} { return defaultCTACard(ctx) },
			Sanitize: func(raw json.RawMessage, ctx BlockContext) interface{} { return sanitizeCTACard(raw, ctx) },
			Render:   renderCTACard,
		}, true
	case BlockSchedulePreview:
		return Definition{
			Type:     t,
			Default:  func(ctx BlockContext) interface{} { return defaultSchedulePreview(ctx) },
			Sanitize: func(raw json.RawMessage, ctx BlockContext) interface{} { return sanitizeSchedulePreview(raw, ctx) },
			Render:   renderSchedulePreview,
		}, true
	case BlockProgramCatalog:
		return Definition{
			Type:     t,
			Default:  func(ctx BlockContext) interface{} { return defaultProgramCatalog(ctx) },
			Sanitize: func(raw json.RawMessage, ctx BlockContext) interface{} { return sanitizeProgramCatalog(raw, ctx) },
			Render:   renderProgramCatalog,
		}, true
	case BlockSponsorsCarousel:
		return Definition{
			Type:     t,
			Default:  func(ctx BlockContext) interface{} { return defaultSponsorsCarousel(ctx) },
			Sanitize: func(raw json.RawMessage, ctx BlockContext) interface{} { return sanitizeSponsorsCarousel(raw, ctx) },
			Render:   renderSponsorsCarousel,
		}, true
	case BlockAnnouncements:
		return Definition{
			Type:     t,
			Default:  func(ctx BlockContext) interface{} { return defaultAnnouncements(ctx) },
			Sanitize: func(raw json.RawMessage, ctx BlockContext) interface{} { return sanitizeAnnouncements(raw, ctx) },
			Render:   renderAnnouncements,
		}, true
	case BlockEmbedForm:
		return Definition{
			Type:     t,
			Default:  func(ctx BlockContext) interface{} { return defaultEmbedForm(ctx) },
			Sanitize: func(raw json.RawMessage, ctx BlockContext) interface{} { return sanitizeEmbedForm(raw, ctx) },
			Render:   renderEmbedForm,
		}, true
	}
	return Definition{}, false
}
