package importer

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// SupportedExtensions lists the image file extensions picked up by ScanDirectory.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// IsSupported reports whether the file name has a supported image extension.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ScanDirectory measures every supported image directly inside dir. Files are
// visited in name order so that repeated runs pack identically. Files that
// cannot be decoded are reported and skipped.
func ScanDirectory(dir string, defaultDPI float64) ImportResult {
	result := ImportResult{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read directory: %v", err))
		return result
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsSupported(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		item, err := MeasureImage(path, defaultDPI)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		result.Items = append(result.Items, item)
	}

	if len(names) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("No supported images in %s", dir))
	}
	return result
}

// MeasureImage reads the pixel size and print density of an image and returns
// an item sized in inches. Images without a recorded density use defaultDPI.
func MeasureImage(path string, defaultDPI float64) (model.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Item{}, err
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, densityProbeSize)
	header, _ := br.Peek(densityProbeSize)
	header = append([]byte(nil), header...)

	cfg, _, err := image.DecodeConfig(br)
	if err != nil {
		return model.Item{}, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return model.Item{}, fmt.Errorf("%w: image is %dx%d pixels", model.ErrInvalidDimension, cfg.Width, cfg.Height)
	}

	dpiX, dpiY, ok := readDensity(header)
	if !ok {
		dpiX, dpiY = defaultDPI, defaultDPI
	}
	if dpiX <= 0 || dpiY <= 0 {
		return model.Item{}, fmt.Errorf("%w: density %gx%g", model.ErrInvalidDimension, dpiX, dpiY)
	}

	return model.NewItem(path, float64(cfg.Width)/dpiX, float64(cfg.Height)/dpiY), nil
}

// densityProbeSize bounds how much of the file is searched for density metadata.
const densityProbeSize = 64 * 1024

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// readDensity extracts the print density in dots per inch from a PNG pHYs
// chunk or a JPEG JFIF header. Other formats report ok=false.
func readDensity(header []byte) (dpiX, dpiY float64, ok bool) {
	switch {
	case bytes.HasPrefix(header, pngSignature):
		return pngDensity(header[len(pngSignature):])
	case len(header) > 2 && header[0] == 0xFF && header[1] == 0xD8:
		return jfifDensity(header[2:])
	}
	return 0, 0, false
}

// pngDensity walks the chunk list until pHYs or image data is reached.
func pngDensity(b []byte) (float64, float64, bool) {
	const metersPerInch = 0.0254
	r := bytes.NewReader(b)
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return 0, 0, false
		}
		length := binary.BigEndian.Uint32(hdr[:4])
		typ := string(hdr[4:8])
		if typ == "IDAT" || typ == "IEND" {
			return 0, 0, false
		}
		if typ == "pHYs" && length == 9 {
			var data [9]byte
			if _, err := io.ReadFull(r, data[:]); err != nil {
				return 0, 0, false
			}
			// Unit 1 is pixels per meter; unit 0 only gives an aspect ratio
			if data[8] != 1 {
				return 0, 0, false
			}
			x := float64(binary.BigEndian.Uint32(data[0:4])) * metersPerInch
			y := float64(binary.BigEndian.Uint32(data[4:8])) * metersPerInch
			return x, y, x > 0 && y > 0
		}
		// Skip data and CRC
		if _, err := r.Seek(int64(length)+4, io.SeekCurrent); err != nil {
			return 0, 0, false
		}
	}
}

// jfifDensity reads the APP0 JFIF segment, which must precede image data.
func jfifDensity(b []byte) (float64, float64, bool) {
	for len(b) >= 4 {
		if b[0] != 0xFF {
			return 0, 0, false
		}
		marker := b[1]
		length := int(binary.BigEndian.Uint16(b[2:4]))
		if length < 2 || len(b) < 2+length {
			return 0, 0, false
		}
		seg := b[4 : 2+length]
		if marker == 0xE0 && len(seg) >= 12 && bytes.HasPrefix(seg, []byte("JFIF\x00")) {
			units := seg[7]
			x := float64(binary.BigEndian.Uint16(seg[8:10]))
			y := float64(binary.BigEndian.Uint16(seg[10:12]))
			switch units {
			case 1: // dots per inch
			case 2: // dots per centimeter
				x, y = x*2.54, y*2.54
			default:
				return 0, 0, false
			}
			return x, y, x > 0 && y > 0
		}
		// Start of scan: no more headers
		if marker == 0xDA {
			return 0, 0, false
		}
		b = b[2+length:]
	}
	return 0, 0, false
}
