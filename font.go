package trellis

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Glyph describes one rune in a font atlas: its texel rectangle, the offset
// from the pen position to the glyph's top-left, and the pen advance.
type Glyph struct {
	Rect    IntRect
	OffsetX int
	OffsetY int
	Advance int
}

// FontFace is a rasterized font at one size: a glyph atlas texture plus
// per-rune metrics. Shaping and rasterizing happen elsewhere; the UI only
// turns these metrics into quads. Glyph atlases are usually alpha-only
// textures, which selects the alpha-map shader variant at submission.
type FontFace struct {
	Texture    *Texture
	Glyphs     map[rune]Glyph
	Kerning    map[[2]rune]int
	LineHeight int
}

// Glyph looks up the metrics for a rune, falling back to '?' and then to the
// space glyph for runes the face does not cover.
func (f *FontFace) Glyph(r rune) (Glyph, bool) {
	if g, ok := f.Glyphs[r]; ok {
		return g, true
	}
	if g, ok := f.Glyphs['?']; ok {
		return g, true
	}
	g, ok := f.Glyphs[' ']
	return g, ok
}

// KerningFor returns the kerning adjustment between two runes.
func (f *FontFace) KerningFor(prev, next rune) int {
	if f.Kerning == nil {
		return 0
	}
	return f.Kerning[[2]rune{prev, next}]
}

// MeasureText returns the pixel size of text laid out with this face.
// Newlines start new rows.
func (f *FontFace) MeasureText(text string) IntVec2 {
	var size IntVec2
	if len(text) > 0 {
		size.Y = f.LineHeight
	}
	rowWidth := 0
	var prev rune
	for _, r := range text {
		if r == '\n' {
			if rowWidth > size.X {
				size.X = rowWidth
			}
			rowWidth = 0
			size.Y += f.LineHeight
			prev = 0
			continue
		}
		if g, ok := f.Glyph(r); ok {
			rowWidth += g.Advance + f.KerningFor(prev, r)
		}
		prev = r
	}
	if rowWidth > size.X {
		size.X = rowWidth
	}
	return size
}

// --- BMFont loading ---

// LoadBMFont parses BMFont .fnt text-format data into a FontFace backed by
// the given atlas texture. Multi-page fonts are not supported; all glyphs
// must reference page 0.
func LoadBMFont(fntData []byte, texture *Texture) (*FontFace, error) {
	if texture == nil {
		return nil, fmt.Errorf("trellis: LoadBMFont requires an atlas texture")
	}
	f := &FontFace{
		Texture: texture,
		Glyphs:  make(map[rune]Glyph),
	}

	scanner := bufio.NewScanner(bytes.NewReader(fntData))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tag, rest := splitTag(line)
		fields := parseFields(rest)

		switch tag {
		case "common":
			if v, ok := fields["lineHeight"]; ok {
				f.LineHeight, _ = strconv.Atoi(v)
			}

		case "char":
			id := fieldInt(fields, "id")
			x := fieldInt(fields, "x")
			y := fieldInt(fields, "y")
			w := fieldInt(fields, "width")
			h := fieldInt(fields, "height")
			if page := fieldInt(fields, "page"); page != 0 {
				return nil, fmt.Errorf("trellis: .fnt char %d references page %d; single-page fonts only", id, page)
			}
			f.Glyphs[rune(id)] = Glyph{
				Rect:    IntRect{x, y, x + w, y + h},
				OffsetX: fieldInt(fields, "xoffset"),
				OffsetY: fieldInt(fields, "yoffset"),
				Advance: fieldInt(fields, "xadvance"),
			}

		case "kerning":
			if f.Kerning == nil {
				f.Kerning = make(map[[2]rune]int)
			}
			first := rune(fieldInt(fields, "first"))
			second := rune(fieldInt(fields, "second"))
			f.Kerning[[2]rune{first, second}] = fieldInt(fields, "amount")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("trellis: error reading .fnt data: %w", err)
	}

	if f.LineHeight == 0 {
		return nil, fmt.Errorf("trellis: .fnt data missing common lineHeight")
	}
	if len(f.Glyphs) == 0 {
		return nil, fmt.Errorf("trellis: .fnt data has no char definitions")
	}
	return f, nil
}

// splitTag splits a BMFont line into its tag and the rest of the line.
func splitTag(line string) (string, string) {
	idx := strings.IndexByte(line, ' ')
	if idx == -1 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

// parseFields parses "key=value key=value ..." into a map.
func parseFields(s string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Fields(s) {
		eq := strings.IndexByte(part, '=')
		if eq == -1 {
			continue
		}
		key := part[:eq]
		val := part[eq+1:]
		// Strip quotes from values like face="Arial"
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}
		fields[key] = val
	}
	return fields
}

func fieldInt(fields map[string]string, key string) int {
	v, _ := strconv.Atoi(fields[key])
	return v
}

// --- TTF rasterization ---

// ttfAtlasWidth is the shelf width glyphs pack into. Skins rarely need more
// than one or two shelves at UI sizes.
const ttfAtlasWidth = 512

// LoadTTFFont rasterizes a TrueType font at the given size into a glyph
// atlas via Ebitengine's text/v2 and returns a FontFace covering the given
// runes. An empty charset covers printable ASCII. Must be called after the
// Ebitengine context exists (from Update or Draw, or before RunGame only on
// platforms that allow early image creation).
func LoadTTFFont(ttfData []byte, size float64, charset string) (*FontFace, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("trellis: failed to parse TTF data: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}

	metrics := face.Metrics()
	lineHeight := int(math.Ceil(metrics.HAscent + metrics.HDescent + metrics.HLineGap))

	if charset == "" {
		var b strings.Builder
		for r := rune(' '); r <= '~'; r++ {
			b.WriteRune(r)
		}
		charset = b.String()
	}

	// Shelf-pack the glyph cells, then rasterize into the atlas.
	type cell struct {
		r    rune
		x, y int
		w    int
	}
	var cells []cell
	penX, penY := 0, 0
	for _, r := range charset {
		w := int(math.Ceil(text.Advance(string(r), face)))
		if w <= 0 {
			w = 1
		}
		if penX+w+1 > ttfAtlasWidth {
			penX = 0
			penY += lineHeight + 1
		}
		cells = append(cells, cell{r: r, x: penX, y: penY, w: w})
		penX += w + 1
	}
	atlasH := penY + lineHeight + 1

	img := ebiten.NewImage(ttfAtlasWidth, atlasH)
	texture := &Texture{Image: img, Width: ttfAtlasWidth, Height: atlasH, AlphaOnly: true}

	f := &FontFace{
		Texture:    texture,
		Glyphs:     make(map[rune]Glyph, len(cells)),
		LineHeight: lineHeight,
	}
	for _, c := range cells {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(c.x), float64(c.y))
		text.Draw(img, string(c.r), face, op)
		f.Glyphs[c.r] = Glyph{
			Rect:    IntRect{c.x, c.y, c.x + c.w, c.y + lineHeight},
			Advance: c.w,
		}
	}
	return f, nil
}
