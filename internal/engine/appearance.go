package engine

// Appearance captures the flat colour a renderer uses for an entity kind.
type Appearance struct {
	Kind  Kind
	Color string
}

// DefaultAppearances enumerates the built-in entity colours.
var DefaultAppearances = map[Kind]Appearance{
	KindSurface:    {Kind: KindSurface, Color: "#5d9b3d"},
	KindFill:       {Kind: KindFill, Color: "#d47b4a"},
	KindTrunk:      {Kind: KindTrunk, Color: "#643214"},
	KindLeaf:       {Kind: KindLeaf, Color: "#32c81e"},
	KindCreature:   {Kind: KindCreature, Color: "#3c3c46"},
	KindProjectile: {Kind: KindProjectile, Color: "#f0f0e6"},
	KindAvatar:     {Kind: KindAvatar, Color: "#e03c3c"},
}

// ApplyAppearance copies the preset colour for the body's kind. Bodies of an
// unknown kind keep whatever colour they already carry.
func ApplyAppearance(b *Body) {
	if b == nil {
		return
	}
	if preset, ok := DefaultAppearances[b.Kind]; ok {
		b.Color = preset.Color
	}
}
