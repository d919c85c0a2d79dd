package canvas

// VisionRanges are a token's sight distances in feet. Bright and Dim
// are nullable: nil means unlimited. Dark defaults to 0 (no
// darkvision).
type VisionRanges struct {
	BrightFt *float64 `json:"brightFt"`
	DimFt    *float64 `json:"dimFt"`
	DarkFt   float64  `json:"darkFt"`
}

// Equal compares two range tuples exactly, treating nil (unlimited) as
// distinct from any finite value.
func (v VisionRanges) Equal(o VisionRanges) bool {
	return floatPtrEqual(v.BrightFt, o.BrightFt) &&
		floatPtrEqual(v.DimFt, o.DimFt) &&
		v.DarkFt == o.DarkFt
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func ftPtr(v float64) *float64 { return &v }

// Clone returns a copy with its own pointers, so edits to one tuple
// never reach the other.
func (v VisionRanges) Clone() VisionRanges {
	if v.BrightFt != nil {
		v.BrightFt = ftPtr(*v.BrightFt)
	}
	if v.DimFt != nil {
		v.DimFt = ftPtr(*v.DimFt)
	}
	return v
}

// VisionPreset maps a symbolic key to a concrete range tuple.
type VisionPreset struct {
	Key    string
	Label  string
	Ranges VisionRanges
}

// visionPresets is the fixed preset table. Order matters: MatchPreset
// returns the first exact match.
var visionPresets = []VisionPreset{
	{Key: "normal", Label: "Normal vision", Ranges: VisionRanges{}},
	{Key: "darkvision60", Label: "Darkvision 60 ft", Ranges: VisionRanges{DarkFt: 60}},
	{Key: "darkvision120", Label: "Darkvision 120 ft", Ranges: VisionRanges{DarkFt: 120}},
	{Key: "blindsight60", Label: "Blindsight 60 ft", Ranges: VisionRanges{BrightFt: ftPtr(60), DimFt: ftPtr(60), DarkFt: 60}},
	{Key: "truesight120", Label: "Truesight 120 ft", Ranges: VisionRanges{BrightFt: ftPtr(120), DimFt: ftPtr(120), DarkFt: 120}},
}

// Presets returns the preset table for selector UIs.
func Presets() []VisionPreset {
	out := make([]VisionPreset, len(visionPresets))
	copy(out, visionPresets)
	return out
}

// PresetRanges looks up a preset's tuple by key. The returned tuple
// owns its pointers, so editing it cannot corrupt the preset table.
func PresetRanges(key string) (VisionRanges, bool) {
	for _, p := range visionPresets {
		if p.Key == key {
			return p.Ranges.Clone(), true
		}
	}
	return VisionRanges{}, false
}

// MatchPreset scans the preset table for an exact tuple match and
// returns the first hit, or "" if the ranges match no preset. It never
// mutates anything; it exists purely to keep a selector control in
// sync. A manual edit of any single field therefore clears the implied
// selection without an explicit "custom" state.
func MatchPreset(v VisionRanges) (string, bool) {
	for _, p := range visionPresets {
		if p.Ranges.Equal(v) {
			return p.Key, true
		}
	}
	return "", false
}

// LightType is a light-source archetype carrying default radii and
// color.
type LightType string

const (
	LightTorch   LightType = "torch"
	LightLantern LightType = "lantern"
	LightCandle  LightType = "candle"
)

// LightDefaults holds the per-type placement defaults.
type LightDefaults struct {
	BrightFt float64
	DimFt    float64
	Color    string
}

var lightDefaults = map[LightType]LightDefaults{
	LightTorch:   {BrightFt: 20, DimFt: 40, Color: "#ff9933"},
	LightLantern: {BrightFt: 30, DimFt: 60, Color: "#ffd27f"},
	LightCandle:  {BrightFt: 5, DimFt: 10, Color: "#ffc58f"},
}

// DefaultsFor returns the placement defaults for a light type, falling
// back to torch for unknown types.
func DefaultsFor(t LightType) LightDefaults {
	if d, ok := lightDefaults[t]; ok {
		return d
	}
	return lightDefaults[LightTorch]
}

// Badge is the halo indicator state rendered on a token, a pure
// function of whether the token carries a light and whether it is lit.
type Badge int

const (
	BadgeNone Badge = iota
	BadgeUnlit
	BadgeLit
)

// BadgeState derives the badge for a (hasLight, active) pair.
func BadgeState(hasLight, active bool) Badge {
	switch {
	case !hasLight:
		return BadgeNone
	case active:
		return BadgeLit
	default:
		return BadgeUnlit
	}
}
