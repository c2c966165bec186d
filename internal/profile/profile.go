package profile

import "github.com/AnyUserName/blurhash-cli/blurhash"

// Profile defines placeholder generation parameters for a class of assets.
type Profile struct {
	Name string

	// ComponentsX/ComponentsY are the DCT components along the longer and
	// shorter image side respectively; see Components.
	ComponentsX int
	ComponentsY int

	// WorkSize bounds the longer side of the image handed to the encoder.
	// 0 encodes at full resolution.
	WorkSize int

	Punch float64

	PreviewWidth  int    // width of the rendered placeholder preview
	PreviewFormat string // "png", "jpeg" or "gif"
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:          "default",
		ComponentsX:   4,
		ComponentsY:   3,
		Punch:         blurhash.DefaultPunch,
		PreviewWidth:  32,
		PreviewFormat: "png",
	},
	"fast": {
		Name:          "fast",
		ComponentsX:   4,
		ComponentsY:   3,
		WorkSize:      64,
		Punch:         blurhash.DefaultPunch,
		PreviewWidth:  32,
		PreviewFormat: "png",
	},
	"detailed": {
		Name:          "detailed",
		ComponentsX:   6,
		ComponentsY:   6,
		WorkSize:      256,
		Punch:         1.2,
		PreviewWidth:  64,
		PreviewFormat: "png",
	},
	"square": {
		Name:          "square",
		ComponentsX:   4,
		ComponentsY:   4,
		Punch:         blurhash.DefaultPunch,
		PreviewWidth:  32,
		PreviewFormat: "jpeg",
	},
	"minimal": {
		Name:          "minimal",
		ComponentsX:   3,
		ComponentsY:   3,
		WorkSize:      32,
		Punch:         blurhash.DefaultPunch,
		PreviewWidth:  16,
		PreviewFormat: "gif",
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profiles in a stable order.
func Names() []string {
	return []string{"default", "fast", "detailed", "square", "minimal"}
}

// Components orients the profile's component counts to the image: the
// larger count goes along the longer side.  Square images keep the
// profile order.
func (p Profile) Components(width, height int) (cx, cy int) {
	hi, lo := max(p.ComponentsX, p.ComponentsY), min(p.ComponentsX, p.ComponentsY)
	switch {
	case width > height:
		return hi, lo
	case height > width:
		return lo, hi
	default:
		return p.ComponentsX, p.ComponentsY
	}
}

// PreviewSize returns the preview dimensions for an image, preserving its
// aspect ratio.  The preview is never larger than the source.
func (p Profile) PreviewSize(width, height int) (w, h int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	w = min(p.PreviewWidth, width)
	if w <= 0 {
		w = min(32, width)
	}
	h = max(int(float64(height)*float64(w)/float64(width)+0.5), 1)
	return w, h
}
