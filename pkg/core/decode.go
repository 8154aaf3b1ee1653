package core

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"

	"github.com/1F47E/go-textreel/pkg/codec"
	"github.com/1F47E/go-textreel/pkg/logger"
	"github.com/1F47E/go-textreel/pkg/meta"
	"github.com/1F47E/go-textreel/pkg/raster"
	"github.com/1F47E/go-textreel/pkg/storage"
	"github.com/1F47E/go-textreel/pkg/video"
)

// DecodeImage reads frame text from src and saves it as an image, format by dst extension
func (c *Core) DecodeImage(src, dst string) error {
	log := logger.Log.WithField("scope", "core decode image")

	if !raster.CanSave(dst) {
		return fmt.Errorf("%w: cannot save %s", raster.ErrUnsupported, dst)
	}
	img, err := readFrame(src)
	if err != nil {
		return fmt.Errorf("Error decoding %s: %w", src, err)
	}
	log.Debugf("Decoded %s: %dx%d", src, img.Rect.Dx(), img.Rect.Dy())

	if err = raster.Save(img, dst); err != nil {
		return fmt.Errorf("Error saving image: %w", err)
	}
	log.Infof("Image decoded and saved to: %s", dst)
	return nil
}

// 1. read metadata, list frames in natural order
// 2. open the sink with the lossless profiles
// 3. decode frames one by one and append them to the sink
func (c *Core) Assemble(source, videoSink string) (int, error) {
	log := logger.Log.WithField("scope", "core assemble")

	md, err := meta.Read(storage.MetadataPath(source))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("%w in %s", ErrMissingMetadata, source)
	}
	if err != nil {
		return 0, fmt.Errorf("Error reading metadata: %w", err)
	}

	framesList, err := storage.ScanFrames(source)
	if err != nil {
		return 0, fmt.Errorf("Error scanning frames: %w", err)
	}
	if len(framesList) == 0 {
		return 0, fmt.Errorf("%w in %s", ErrEmptySequence, source)
	}
	log.Infof("Assembling %d frames, %s", len(framesList), md.Print())

	sink, err := c.video.Create(c.ctx, videoSink, video.Spec{
		Width:     md.Width,
		Height:    md.Height,
		FrameRate: md.FrameRate,
		Profiles:  video.LosslessProfiles,
	})
	if err != nil {
		return 0, wrapKind(err, video.ErrSink)
	}

	c.progress.Reset(len(framesList), "Assembling... ")
	for i, path := range framesList {
		if err = c.ctx.Err(); err != nil {
			_ = sink.Close()
			return i, err
		}

		img, err := readFrame(path)
		if err == nil && (img.Rect.Dx() != md.Width || img.Rect.Dy() != md.Height) {
			err = fmt.Errorf("%w: frame is %dx%d, metadata says %dx%d", codec.ErrFormat, img.Rect.Dx(), img.Rect.Dy(), md.Width, md.Height)
		}
		if err != nil {
			_ = sink.Close()
			return i, &FrameDecodeError{Index: i, Path: path, Err: err}
		}

		if err = sink.Write(img); err != nil {
			_ = sink.Close()
			return i, fmt.Errorf("Error writing frame %d: %w", i, wrapKind(err, video.ErrSink))
		}
		log.Debugf("Processed frame %d/%d", i+1, len(framesList))
		c.progress.Add(1)
	}

	if err = sink.Close(); err != nil {
		return len(framesList), wrapKind(err, video.ErrSink)
	}
	c.progress.Finish()

	log.Infof("Reconstructed %d frames into %s", len(framesList), videoSink)
	return len(framesList), nil
}

func readFrame(path string) (*image.RGBA, error) {
	var img *image.RGBA
	err := storage.ReadFile(path, func(r io.Reader) error {
		var err error
		img, err = codec.DecodeFrame(r)
		return err
	})
	return img, err
}
