package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/1F47E/go-textreel/pkg/codec"
	"github.com/1F47E/go-textreel/pkg/logger"
	"github.com/1F47E/go-textreel/pkg/meta"
	"github.com/1F47E/go-textreel/pkg/raster"
	"github.com/1F47E/go-textreel/pkg/storage"
	"github.com/1F47E/go-textreel/pkg/video"
)

// EncodeImage writes the image at src as frame text to dst
func (c *Core) EncodeImage(src, dst string) error {
	log := logger.Log.WithField("scope", "core encode image")

	img, err := raster.Open(src)
	if err != nil {
		return fmt.Errorf("Error opening image: %w", err)
	}
	b := img.Bounds()
	log.Debugf("Encoding %s (%dx%d) to %s", src, b.Dx(), b.Dy(), dst)

	err = storage.WriteFile(dst, func(w io.Writer) error {
		return codec.EncodeFrame(w, img)
	})
	if err != nil {
		return fmt.Errorf("Error writing frame text: %w", err)
	}
	log.Infof("Image encoded and saved to: %s", dst)
	return nil
}

// 1. open the video and write the metadata record
// 2. encode frames one by one in order, one text file per frame
// 3. stop at the first error, frames written so far stay on disk
func (c *Core) Disassemble(videoSource, destination string) (int, error) {
	log := logger.Log.WithField("scope", "core disassemble")

	src, err := c.video.Open(c.ctx, videoSource)
	if err != nil {
		return 0, wrapKind(err, video.ErrSource)
	}
	defer src.Close()

	md, err := meta.New(src.Width(), src.Height(), src.FrameRate())
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", video.ErrSource, videoSource, err)
	}
	log.Infof("Processing video: %s, %s, frames: ~%d", videoSource, md.Print(), src.FrameCount())

	// leftover frames would end up in the next assemble
	frames, err := storage.ScanFrames(destination)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("Error scanning destination: %w", err)
	}
	if len(frames) > 0 {
		return 0, fmt.Errorf("%w: %s has %d frame files", ErrDestinationNotEmpty, destination, len(frames))
	}

	if err = storage.CreateContainerDir(destination); err != nil {
		return 0, err
	}
	if err = md.Write(storage.MetadataPath(destination)); err != nil {
		return 0, fmt.Errorf("Error writing metadata: %w", err)
	}

	c.progress.Reset(src.FrameCount(), "Disassembling... ")
	frameCnt := 0
	for {
		// cancel only between frames
		if err = c.ctx.Err(); err != nil {
			return frameCnt, err
		}
		img, err := src.Next(c.ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return frameCnt, fmt.Errorf("Error reading frame %d: %w", frameCnt, err)
		}
		if b := img.Bounds(); b.Dx() != md.Width || b.Dy() != md.Height {
			return frameCnt, fmt.Errorf("%w: frame %d is %dx%d, video is %dx%d", video.ErrSource, frameCnt, b.Dx(), b.Dy(), md.Width, md.Height)
		}

		path := storage.FramePath(destination, frameCnt)
		err = storage.WriteFile(path, func(w io.Writer) error {
			return codec.EncodeFrame(w, img)
		})
		if err != nil {
			return frameCnt, fmt.Errorf("Error writing frame %d: %w", frameCnt, err)
		}
		log.Debugf("Processed frame %d -> %s", frameCnt, path)
		c.progress.Add(1)
		frameCnt++
	}
	c.progress.Finish()

	log.Infof("Video processing complete! %d frames saved to %s", frameCnt, destination)
	return frameCnt, nil
}
