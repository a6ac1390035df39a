package trellis

import (
	"encoding/json"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// AtlasRegion is a named sub-rectangle of an atlas page, ready to assign to
// an element's Texture and ImageRect.
type AtlasRegion struct {
	Texture *Texture
	Rect    IntRect
}

// Atlas holds one or more skin atlas pages and a map of named regions.
// UI skins typically pack every widget image into a single page so batches
// across widgets merge.
type Atlas struct {
	Pages   []*Texture
	regions map[string]atlasEntry
}

type atlasEntry struct {
	page int
	rect IntRect
}

// Region returns the region for the given name. If the name doesn't exist,
// it logs a warning (debug stderr) and returns a 1x1 magenta placeholder.
func (a *Atlas) Region(name string) AtlasRegion {
	if e, ok := a.regions[name]; ok {
		return AtlasRegion{Texture: a.Pages[e.page], Rect: e.rect}
	}
	debugLog("atlas region %q not found, using magenta placeholder", name)
	return AtlasRegion{Texture: magentaTexture(), Rect: IntRect{0, 0, 1, 1}}
}

// Apply assigns a named region to an element's texture fields.
func (a *Atlas) Apply(e *Element, name string) {
	region := a.Region(name)
	e.Texture = region.Texture
	e.ImageRect = region.Rect
}

// magenta placeholder singleton (no sync.Once — trellis is single-threaded)
var magentaPlaceholder *Texture

func magentaTexture() *Texture {
	if magentaPlaceholder == nil {
		img := ebiten.NewImage(1, 1)
		img.Fill(colorToRGBA(Color{R: 1, B: 1, A: 1}))
		magentaPlaceholder = &Texture{Image: img, Width: 1, Height: 1}
	}
	return magentaPlaceholder
}

// LoadAtlas parses TexturePacker JSON data and associates the given page
// textures. Supports both the hash format (single "frames" object) and the
// array format ("textures" array with per-page frame lists). Trimming and
// rotation are not supported for UI skins; trimmed or rotated frames are an
// error.
func LoadAtlas(jsonData []byte, pages []*Texture) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("trellis: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]atlasEntry),
	}

	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("trellis: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	for name, e := range atlas.regions {
		if e.page >= len(pages) {
			return nil, fmt.Errorf("trellis: atlas region %q references page %d, only %d pages given",
				name, e.page, len(pages))
		}
	}
	return atlas, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
	Trimmed bool     `json:"trimmed"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, pageIndex int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("trellis: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		entry, err := frameToEntry(name, f, pageIndex)
		if err != nil {
			return err
		}
		atlas.regions[name] = entry
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("trellis: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			entry, err := frameToEntry(name, f, i)
			if err != nil {
				return err
			}
			atlas.regions[name] = entry
		}
	}
	return nil
}

func frameToEntry(name string, f jsonFrame, page int) (atlasEntry, error) {
	if f.Rotated || f.Trimmed {
		return atlasEntry{}, fmt.Errorf("trellis: atlas region %q is rotated or trimmed; repack the skin with trimming and rotation disabled", name)
	}
	return atlasEntry{
		page: page,
		rect: IntRect{f.Frame.X, f.Frame.Y, f.Frame.X + f.Frame.W, f.Frame.Y + f.Frame.H},
	}, nil
}
