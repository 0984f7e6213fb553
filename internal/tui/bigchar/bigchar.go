// Package bigchar renders CJK text as large block art using half-block characters.
package bigchar

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrNoFont is returned when none of the candidate font files can be used.
var ErrNoFont = errors.New("no CJK font found")

// FontPaths are the system fonts tried by Default. Each must cover both
// Hangul and kana.
var FontPaths = []string{
	// macOS
	"/System/Library/Fonts/AppleSDGothicNeo.ttc",
	"/System/Library/Fonts/ヒラギノ角ゴシック W3.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	// Linux
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/google-noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	// Windows
	"C:\\Windows\\Fonts\\malgun.ttf",
	"C:\\Windows\\Fonts\\YuGothM.ttc",
}

// Renderer draws glyphs from one font face. It is safe for concurrent use.
type Renderer struct {
	face font.Face

	mu    sync.Mutex
	cache map[cacheKey]string
}

type cacheKey struct {
	r          rune
	cols, rows int
}

// New creates a renderer over face. A nil face renders nothing.
func New(face font.Face) *Renderer {
	return &Renderer{face: face, cache: make(map[cacheKey]string)}
}

// Load parses the first usable font among paths.
func Load(fs afero.Fs, paths ...string) (*Renderer, error) {
	for _, path := range paths {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			continue
		}
		face, err := parseFace(data)
		if err != nil {
			continue
		}
		return New(face), nil
	}
	return nil, ErrNoFont
}

func parseFace(data []byte) (font.Face, error) {
	opts := &opentype.FaceOptions{Size: 64, DPI: 72}

	// Try parsing as font collection first
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		if fnt, err := coll.Font(0); err == nil {
			return opentype.NewFace(fnt, opts)
		}
	}

	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return opentype.NewFace(fnt, opts)
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
)

// Default returns a renderer over the first system font found in FontPaths.
// When there is none the renderer is unavailable.
func Default() *Renderer {
	defaultOnce.Do(func() {
		r, err := Load(afero.NewOsFs(), FontPaths...)
		if err != nil {
			r = New(nil)
		}
		defaultRenderer = r
	})
	return defaultRenderer
}

// Available reports whether the renderer has a font.
func (r *Renderer) Available() bool {
	return r != nil && r.face != nil
}

// Text renders every rune of s side by side, each glyph cols wide and rows
// tall, separated by one blank column. It returns "" when the font is
// missing or lacks any of the glyphs, so callers can fall back to plain text.
func (r *Renderer) Text(s string, cols, rows int) string {
	if !r.Available() || s == "" || cols <= 0 || rows <= 0 {
		return ""
	}

	var glyphs [][]string
	for _, ch := range s {
		g := r.Glyph(ch, cols, rows)
		if g == "" {
			return ""
		}
		glyphs = append(glyphs, strings.Split(g, "\n"))
	}

	lines := make([]string, rows)
	for row := range rows {
		parts := make([]string, len(glyphs))
		for i, g := range glyphs {
			parts[i] = g[row]
		}
		lines[row] = strings.Join(parts, " ")
	}
	return strings.Join(lines, "\n")
}

// Glyph renders one rune, cached per size.
func (r *Renderer) Glyph(ch rune, cols, rows int) string {
	if !r.Available() {
		return ""
	}

	key := cacheKey{ch, cols, rows}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[key]; ok {
		return cached
	}

	rendered := r.render(ch, cols, rows)
	r.cache[key] = rendered
	return rendered
}

func (r *Renderer) render(ch rune, cols, rows int) string {
	bounds, _, ok := r.face.GlyphBounds(ch)
	if !ok {
		return ""
	}
	glyphWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()

	// Add padding around the glyph
	padding := 4
	srcWidth := max(glyphWidth+padding*2, 64)
	srcHeight := max(glyphHeight+padding*2, 64)

	srcImg := image.NewGray(image.Rect(0, 0, srcWidth, srcHeight))
	draw.Draw(srcImg, srcImg.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	x := (srcWidth-glyphWidth)/2 - bounds.Min.X.Floor()
	y := srcHeight - padding - bounds.Max.Y.Ceil()

	d := &font.Drawer{
		Dst:  srcImg,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(string(ch))

	// rows*2 because each cell holds two pixels
	scaled := scaleDown(srcImg, cols, rows*2)
	return imageToHalfBlocks(scaled, cols, rows)
}

// scaleDown scales a grayscale image using area averaging
func scaleDown(src *image.Gray, dstWidth, dstHeight int) *image.Gray {
	srcWidth := src.Bounds().Max.X
	srcHeight := src.Bounds().Max.Y

	dst := image.NewGray(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for dy := range dstHeight {
		for dx := range dstWidth {
			sx1 := int(float64(dx) * xRatio)
			sy1 := int(float64(dy) * yRatio)
			sx2 := min(int(float64(dx+1)*xRatio), srcWidth)
			sy2 := min(int(float64(dy+1)*yRatio), srcHeight)

			var sum, count int
			for sy := sy1; sy < sy2; sy++ {
				for sx := sx1; sx < sx2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					count++
				}
			}
			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}

	return dst
}

// threshold is the brightness above which a half cell is drawn.
const threshold = 40

func imageToHalfBlocks(img *image.Gray, cols, rows int) string {
	var b strings.Builder

	for row := range rows {
		for col := range cols {
			topOn := brightness(img, col, row*2) > threshold
			bottomOn := brightness(img, col, row*2+1) > threshold

			switch {
			case topOn && bottomOn:
				b.WriteRune('█')
			case topOn:
				b.WriteRune('▀')
			case bottomOn:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if row < rows-1 {
			b.WriteRune('\n')
		}
	}

	return b.String()
}

func brightness(img *image.Gray, x, y int) uint8 {
	if x < 0 || y < 0 || x >= img.Bounds().Max.X || y >= img.Bounds().Max.Y {
		return 0
	}
	return img.GrayAt(x, y).Y
}
