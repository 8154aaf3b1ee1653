// Package raster opens and saves still images by file extension.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	cfg "github.com/1F47E/go-textreel/pkg/config"
)

var ErrUnsupported = errors.New("unsupported image format")

type format struct {
	decode func(f *os.File) (image.Image, error)
	encode func(f *os.File, img image.Image) error
}

var formats = map[string]format{
	".png": {
		decode: func(f *os.File) (image.Image, error) { return png.Decode(f) },
		encode: func(f *os.File, img image.Image) error { return png.Encode(f, img) },
	},
	".jpg": {
		decode: func(f *os.File) (image.Image, error) { return jpeg.Decode(f) },
		encode: func(f *os.File, img image.Image) error {
			return jpeg.Encode(f, img, &jpeg.Options{Quality: cfg.JPEGQuality})
		},
	},
	".bmp": {
		decode: func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
		encode: func(f *os.File, img image.Image) error { return bmp.Encode(f, img) },
	},
	".tif": {
		decode: func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
		encode: func(f *os.File, img image.Image) error {
			return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
		},
	},
	// read only
	".gif": {
		decode: func(f *os.File) (image.Image, error) { return gif.Decode(f) },
	},
	".webp": {
		decode: func(f *os.File) (image.Image, error) { return webp.Decode(f) },
	},
}

// Extensions lists every extension Open understands
var Extensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff", ".webp"}

func lookup(path string) (format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpeg":
		ext = ".jpg"
	case ".tiff":
		ext = ".tif"
	}
	f, ok := formats[ext]
	return f, ok
}

func IsImage(path string) bool {
	_, ok := lookup(path)
	return ok
}

// CanSave reports whether Save can write path's extension
func CanSave(path string) bool {
	f, ok := lookup(path)
	return ok && f.encode != nil
}

func Open(path string) (image.Image, error) {
	fm, ok := lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := fm.decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func Save(img image.Image, path string) error {
	fm, ok := lookup(path)
	if !ok || fm.encode == nil {
		return fmt.Errorf("%w: cannot save %s", ErrUnsupported, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = fm.encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
