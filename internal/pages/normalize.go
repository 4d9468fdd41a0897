package pages

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

// persistedBlock is one entry of the stored layout array. Config stays raw
// until the type's sanitizer interprets it.
type persistedBlock struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config"`
}

// NormalizeLayout turns persisted (possibly stale or malformed) layout JSON
// into a valid ordered block list. Nil or unparseable input synthesizes the
// page key's default layout. Entries with an unregistered type are dropped;
// everything else keeps its id and position with a sanitized config. Never
// returns an error: malformed data degrades, it does not fail a render.
func NormalizeLayout(pageKey string, raw json.RawMessage, ctx BlockContext) []Block {
	if len(raw) == 0 || string(raw) == "null" {
		return DefaultLayout(pageKey, ctx)
	}
	var persisted []persistedBlock
	if err := json.Unmarshal(raw, &persisted); err != nil {
		return DefaultLayout(pageKey, ctx)
	}
	blocks := make([]Block, 0, len(persisted))
	for _, pb := range persisted {
		def, ok := Lookup(BlockType(pb.Type))
		if !ok {
			// Unknown type: a newer client published a block this build does
			// not know. The raw JSON stays stored; it is only omitted here.
			continue
		}
		id, err := uuid.Parse(pb.ID)
		if err != nil || id == uuid.Nil {
			id = uuid.New()
		}
		blocks = append(blocks, Block{
			ID:     id,
			Type:   def.Type,
			Config: def.Sanitize(pb.Config, ctx),
		})
	}
	return blocks
}

// DefaultLayout synthesizes the block list served when a page has never been
// published. The home page gets the full landing treatment; other pages
// start with a hero.
func DefaultLayout(pageKey string, ctx BlockContext) []Block {
	switch pageKey {
	case models.PageKeyHome:
		return []Block{
			newBlock(BlockHero, ctx),
			newBlock(BlockSubhero, ctx),
			newBlock(BlockCTAGrid, ctx),
		}
	default:
		return []Block{newBlock(BlockHero, ctx)}
	}
}

// NewBlock creates a block of the given type with its default config. ok is
// false for unregistered types.
func NewBlock(t BlockType, ctx BlockContext) (Block, bool) {
	def, ok := Lookup(t)
	if !ok {
		return Block{}, false
	}
	return Block{ID: uuid.New(), Type: t, Config: def.Default(ctx)}, true
}

func newBlock(t BlockType, ctx BlockContext) Block {
	b, _ := NewBlock(t, ctx)
	return b
}

// MarshalLayout serializes an ordered block list for persistence. Array
// order is render order; there is no separate sort key.
func MarshalLayout(blocks []Block) (json.RawMessage, error) {
	return json.Marshal(blocks)
}
