// Package video is the media side of the frame sequence: it reads frames out of
// a video file and writes frames into a new one. The core only sees the
// Capability, Source and Sink interfaces.
package video

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrSource is returned when a video cannot be opened for reading.
	ErrSource = errors.New("cannot open video source")
	// ErrSink is returned when a video cannot be created or written.
	ErrSink = errors.New("cannot write video sink")
	// ErrNoLosslessProfile means none of the requested encoders is available.
	ErrNoLosslessProfile = errors.New("no lossless encoding profile available")
)

// Source is a finite, single pass, ordered run of frames.
type Source interface {
	Width() int
	Height() int
	FrameRate() float64
	// FrameCount is an estimate from the container, 0 when unknown.
	FrameCount() int
	// Next returns io.EOF after the last frame. The image is only valid
	// until the following call.
	Next(ctx context.Context) (image.Image, error)
	Close() error
}

type Sink interface {
	Write(img image.Image) error
	Close() error
}

// Spec configures a new sink. Profiles are tried in order.
type Spec struct {
	Width     int
	Height    int
	FrameRate float64
	Profiles  []Profile
}

type Capability interface {
	Open(ctx context.Context, path string) (Source, error)
	Create(ctx context.Context, path string, spec Spec) (Sink, error)
}
