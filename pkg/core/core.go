// Package core drives the conversions: single images to frame text and back,
// and videos to frame sequences and back.
//
// A frame sequence is a directory holding metadata.txt ("width,height,fps")
// and one frame text file per video frame, named frame_0000.txt, frame_0001.txt
// and so on. Work is sequential, one frame at a time in index order. The core
// never deletes its inputs and never rolls back frames already written.
// Two runs writing into the same directory at once are not arbitrated.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	p "github.com/1F47E/go-textreel/pkg/core/progress"
	"github.com/1F47E/go-textreel/pkg/video"
)

var (
	ErrMissingMetadata = errors.New("metadata record not found")
	ErrEmptySequence   = errors.New("no frames found")
	// a disassemble target already holds frames of another run, they are never removed
	ErrDestinationNotEmpty = errors.New("destination already holds frames")
)

// FrameDecodeError points at the frame of a sequence that could not be decoded
type FrameDecodeError struct {
	Index int
	Path  string
	Err   error
}

func (e *FrameDecodeError) Error() string {
	return fmt.Sprintf("frame %d (%s): %v", e.Index, e.Path, e.Err)
}

func (e *FrameDecodeError) Unwrap() error {
	return e.Err
}

type Core struct {
	ctx      context.Context
	video    video.Capability
	progress *p.Progress
}

// NewCore wires the video capability; progress bars go to progressOut (nil hides them)
func NewCore(ctx context.Context, vc video.Capability, progressOut io.Writer) *Core {
	return &Core{
		ctx:      ctx,
		video:    vc,
		progress: p.New(progressOut),
	}
}

// make sure capability errors carry their kind
func wrapKind(err, kind error) error {
	if err == nil || errors.Is(err, kind) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
