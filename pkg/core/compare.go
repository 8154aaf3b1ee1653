package core

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	cfg "github.com/1F47E/go-textreel/pkg/config"
	"github.com/1F47E/go-textreel/pkg/raster"
	"github.com/1F47E/go-textreel/pkg/storage"
)

// fps survives as a decimal string, allow for the rounding of the container
const frameRateTolerance = 1e-3

// encode + decode + compare
func (c *Core) CompareImage(path string) (bool, error) {
	tmpDir, err := storage.CreateTempDir()
	if err != nil {
		return false, err
	}
	defer os.RemoveAll(tmpDir)

	name := storage.TrimExt(path)
	text := filepath.Join(tmpDir, name+cfg.FrameExt)
	out := filepath.Join(tmpDir, name+"."+cfg.DefaultImageFormat)
	if err = c.EncodeImage(path, text); err != nil {
		return false, err
	}
	if err = c.DecodeImage(text, out); err != nil {
		return false, err
	}

	a, err := raster.Open(path)
	if err != nil {
		return false, err
	}
	b, err := raster.Open(out)
	if err != nil {
		return false, err
	}
	if err = compareImages(a, b); err != nil {
		return false, err
	}
	return true, nil
}

// disassemble + assemble + compare every frame of the source with the rebuilt video
func (c *Core) CompareVideo(path string) (bool, error) {
	tmpDir, err := storage.CreateTempDir()
	if err != nil {
		return false, err
	}
	defer os.RemoveAll(tmpDir)

	framesDir := filepath.Join(tmpDir, storage.TrimExt(path)+cfg.FramesDirSuffix)
	out := filepath.Join(tmpDir, storage.TrimExt(path)+cfg.ReconstructedSuffix+cfg.DefaultVideoExt)

	n, err := c.Disassemble(path, framesDir)
	if err != nil {
		return false, err
	}
	m, err := c.Assemble(framesDir, out)
	if err != nil {
		return false, err
	}
	if n != m {
		return false, fmt.Errorf("Frame count mismatch: %d disassembled, %d assembled", n, m)
	}

	if err = c.compareVideos(path, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Core) compareVideos(pathA, pathB string) error {
	a, err := c.video.Open(c.ctx, pathA)
	if err != nil {
		return err
	}
	defer a.Close()
	b, err := c.video.Open(c.ctx, pathB)
	if err != nil {
		return err
	}
	defer b.Close()

	if a.Width() != b.Width() || a.Height() != b.Height() {
		return fmt.Errorf("Resolution mismatch: %dx%d vs %dx%d", a.Width(), a.Height(), b.Width(), b.Height())
	}
	if math.Abs(a.FrameRate()-b.FrameRate()) > frameRateTolerance*a.FrameRate() {
		return fmt.Errorf("Frame rate mismatch: %v vs %v", a.FrameRate(), b.FrameRate())
	}

	// both sources reuse their frame buffers, compare before reading on
	for i := 0; ; i++ {
		fa, errA := a.Next(c.ctx)
		fb, errB := b.Next(c.ctx)
		if errA == io.EOF && errB == io.EOF {
			return nil
		}
		if errA == io.EOF || errB == io.EOF {
			return fmt.Errorf("Frame count mismatch at frame %d", i)
		}
		if errA != nil {
			return errA
		}
		if errB != nil {
			return errB
		}
		if err = compareImages(fa, fb); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
}

// Compare pixels before and after the round trip, alpha is not part of the encoding
func compareImages(a, b image.Image) error {
	ba, bb := a.Bounds(), b.Bounds()
	if ba.Dx() != bb.Dx() || ba.Dy() != bb.Dy() {
		return fmt.Errorf("Images are not the same size: %dx%d vs %dx%d", ba.Dx(), ba.Dy(), bb.Dx(), bb.Dy())
	}
	for y := 0; y < ba.Dy(); y++ {
		for x := 0; x < ba.Dx(); x++ {
			ca := color.NRGBAModel.Convert(a.At(ba.Min.X+x, ba.Min.Y+y)).(color.NRGBA)
			cb := color.NRGBAModel.Convert(b.At(bb.Min.X+x, bb.Min.Y+y)).(color.NRGBA)
			if ca.R != cb.R || ca.G != cb.G || ca.B != cb.B {
				return fmt.Errorf("Images are not the same at pixel %d,%d", x, y)
			}
		}
	}
	return nil
}
