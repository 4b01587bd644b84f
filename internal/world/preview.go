package world

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"sideworld/internal/engine"
)

const (
	previewScale = 0.25
	// previewTop is the world y drawn at the top edge, high enough for birds.
	previewTop = -240.0
)

// EntitySource lists live entities overlapping a horizontal range.
type EntitySource interface {
	InRange(minX, maxX float64) []engine.Entity
}

// drawOrder mirrors the layer ordering: terrain first, objects last.
var drawOrder = map[engine.Kind]int{
	engine.KindFill:       0,
	engine.KindSurface:    1,
	engine.KindTrunk:      2,
	engine.KindLeaf:       3,
	engine.KindCreature:   4,
	engine.KindProjectile: 5,
	engine.KindAvatar:     6,
}

// SaveWindowPreview renders a side view PNG of everything inside the window
// span and returns the written path.
func SaveWindowPreview(w *Window, source EntitySource, outputDir string) (string, error) {
	if w == nil || source == nil {
		return "", fmt.Errorf("window preview needs a window and an entity source")
	}
	xStart, xEnd := w.Span()
	worldHeight := float64(w.cfg.World.ViewportHeight) + float64(w.cfg.Terrain.Depth*w.cfg.World.BlockSize) - previewTop
	width := int(math.Ceil(float64(xEnd-xStart+1) * previewScale))
	height := int(math.Ceil(worldHeight * previewScale))
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid preview size %dx%d", width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	background := color.NRGBA{R: 135, G: 190, B: 235, A: 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	entities := source.InRange(float64(xStart), float64(xEnd+1))
	sort.SliceStable(entities, func(i, j int) bool {
		return drawOrder[entities[i].Body().Kind] < drawOrder[entities[j].Body().Kind]
	})

	origin := mgl64.Vec2{float64(xStart), previewTop}
	for _, e := range entities {
		b := e.Body()
		if b.Opacity <= 0 {
			continue
		}
		col := blend(resolveColor(b), background, b.Opacity)
		lo := b.Pos.Sub(origin).Mul(previewScale)
		hi := b.Max().Sub(origin).Mul(previewScale)
		rect := []image.Point{
			{X: int(lo.X()), Y: int(lo.Y())},
			{X: int(math.Ceil(hi.X())), Y: int(lo.Y())},
			{X: int(math.Ceil(hi.X())), Y: int(math.Ceil(hi.Y()))},
			{X: int(lo.X()), Y: int(math.Ceil(hi.Y()))},
		}
		fillPolygon(img, rect, col)
	}

	if err := ensurePreviewDir(outputDir); err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("window_%d.png", w.Index()))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create preview: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return path, nil
}

func resolveColor(b *engine.Body) color.NRGBA {
	if b.Color != "" {
		if col, ok := parseHexColor(b.Color); ok {
			return col
		}
	}
	if appearance, ok := engine.DefaultAppearances[b.Kind]; ok {
		if col, ok := parseHexColor(appearance.Color); ok {
			return col
		}
	}
	return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
}

func parseHexColor(value string) (color.NRGBA, bool) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(trimmed) != 6 {
		return color.NRGBA{}, false
	}
	var rgb [3]uint8
	for i := range rgb {
		v, err := strconv.ParseUint(trimmed[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, false
		}
		rgb[i] = uint8(v)
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, true
}

// blend mixes fg over bg by alpha in [0, 1].
func blend(fg, bg color.NRGBA, alpha float64) color.NRGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*alpha + float64(b)*(1-alpha)))
	}
	return color.NRGBA{R: mix(fg.R, bg.R), G: mix(fg.G, bg.G), B: mix(fg.B, bg.B), A: 255}
}

func fillPolygon(img *image.NRGBA, pts []image.Point, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	bounds := img.Bounds()
	minY = max(minY, bounds.Min.Y)
	maxY = min(maxY, bounds.Max.Y-1)
	xs := make([]int, 0, len(pts))
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for i := range pts {
			j := (i + 1) % len(pts)
			x1, y1 := pts[i].X, pts[i].Y
			x2, y2 := pts[j].X, pts[j].Y
			if y1 == y2 || y < min(y1, y2) || y >= max(y1, y2) {
				continue
			}
			xs = append(xs, x1+(y-y1)*(x2-x1)/(y2-y1))
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xStart := max(xs[i], bounds.Min.X)
			xEnd := min(xs[i+1], bounds.Max.X-1)
			for x := xStart; x <= xEnd; x++ {
				img.SetNRGBA(x, y, col)
			}
		}
	}
}

func ensurePreviewDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("preview directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preview dir: %w", err)
	}
	return nil
}
