// Package render rasterizes packed pages into images.
package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"go.uber.org/zap"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// ImageLoader provides the pixels for an item's source.
type ImageLoader interface {
	Load(source string) (image.Image, error)
}

// FileLoader decodes sources as image files on disk.
type FileLoader struct{}

func (FileLoader) Load(source string) (image.Image, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	return img, nil
}

// placeholderColors cycle through placed items for visual distinction.
var placeholderColors = []color.RGBA{
	{R: 76, G: 175, B: 80, A: 255},  // green
	{R: 33, G: 150, B: 243, A: 255}, // blue
	{R: 255, G: 152, B: 0, A: 255},  // orange
	{R: 156, G: 39, B: 176, A: 255}, // purple
	{R: 0, G: 188, B: 212, A: 255},  // cyan
	{R: 244, G: 67, B: 54, A: 255},  // red
	{R: 255, G: 235, B: 59, A: 255}, // yellow
	{R: 121, G: 85, B: 72, A: 255},  // brown
}

// PlaceholderLoader returns a solid swatch per source instead of reading
// files, for layout previews. The top band is darker so rotation shows.
type PlaceholderLoader struct {
	mu     sync.Mutex
	colors map[string]color.RGBA
}

func (pl *PlaceholderLoader) Load(source string) (image.Image, error) {
	pl.mu.Lock()
	if pl.colors == nil {
		pl.colors = map[string]color.RGBA{}
	}
	c, ok := pl.colors[source]
	if !ok {
		c = placeholderColors[len(pl.colors)%len(placeholderColors)]
		pl.colors[source] = c
	}
	pl.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	dark := color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 255}
	draw.Draw(img, image.Rect(0, 0, 64, 16), &image.Uniform{C: dark}, image.Point{}, draw.Src)
	return img, nil
}

// PixelRect converts a page-unit rectangle to pixels. Fractional pixels are
// truncated.
func PixelRect(r model.Region, dpi float64) image.Rectangle {
	x := int(r.X * dpi)
	y := int(r.Y * dpi)
	return image.Rect(x, y, x+int(r.Width*dpi), y+int(r.Height*dpi))
}

// RenderPage draws every placement of the page onto a white canvas at the
// given resolution. Rotated items are turned 90 degrees counter-clockwise
// before scaling.
func RenderPage(page model.PageResult, dpi float64, loader ImageLoader) (*image.RGBA, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: dpi %g", model.ErrInvalidDimension, dpi)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, int(page.Width*dpi), int(page.Height*dpi)))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for _, p := range page.Placements {
		src, err := loader.Load(p.Item.Source)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", p.Item.Source, err)
		}
		if p.Item.Rotated {
			src = Rotate90(src)
		}
		dst := PixelRect(p.Rect(), dpi)
		if dst.Empty() {
			continue
		}
		draw.CatmullRom.Scale(canvas, dst, src, src.Bounds(), draw.Over, nil)
	}

	return canvas, nil
}

// Rotate90 returns a copy of img turned 90 degrees counter-clockwise.
func Rotate90(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(y-b.Min.Y, b.Max.X-1-x, img.At(x, y))
		}
	}
	return out
}

// PageFileName returns the 1-based raster file name for a page index.
func PageFileName(index int) string {
	return fmt.Sprintf("page_%d.png", index+1)
}

// Renderer writes page rasters to disk.
type Renderer struct {
	DPI     float64
	Workers int
	Loader  ImageLoader
	logger  *zap.Logger
}

func NewRenderer(dpi float64, workers int, loader ImageLoader, logger *zap.Logger) *Renderer {
	if workers < 1 {
		workers = 1
	}
	if loader == nil {
		loader = FileLoader{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{DPI: dpi, Workers: workers, Loader: loader, logger: logger}
}

// WritePages renders each page of the layout to dir as page_<n>.png and
// returns the paths in page order. Up to Workers pages render at once; the
// first error aborts the remaining work.
func (r *Renderer) WritePages(layout model.Layout, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	paths := make([]string, len(layout.Pages))
	errs := make([]error, len(layout.Pages))
	jobs := make(chan int)

	var (
		wg     sync.WaitGroup
		failMu sync.Mutex
		failed bool
	)
	for w := 0; w < r.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				failMu.Lock()
				skip := failed
				failMu.Unlock()
				if skip {
					continue
				}

				path := filepath.Join(dir, PageFileName(i))
				if err := r.writePage(layout.Pages[i], path); err != nil {
					errs[i] = fmt.Errorf("page %d: %w", i+1, err)
					failMu.Lock()
					failed = true
					failMu.Unlock()
					continue
				}
				paths[i] = path
				r.logger.Debug("wrote page", zap.Int("page", i+1), zap.String("path", path))
			}
		}()
	}

	for i := range layout.Pages {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	r.logger.Info("rendered pages", zap.Int("pages", len(paths)), zap.Float64("dpi", r.DPI))
	return paths, nil
}

func (r *Renderer) writePage(page model.PageResult, path string) error {
	img, err := RenderPage(page, r.DPI, r.Loader)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
