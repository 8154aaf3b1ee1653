package core

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/1F47E/go-textreel/pkg/video"
)

// in memory video capability, videos are keyed by path

type memVideo struct {
	width, height int
	fps           float64
	frames        []*image.RGBA
	// when set, Next fails with err instead of handing out frame errAt
	err   error
	errAt int
}

type memCapability struct {
	videos    map[string]*memVideo
	specs     []video.Spec
	createErr error
	// called before frame i is handed out
	onNext func(i int)
}

func newMemCapability() *memCapability {
	return &memCapability{videos: make(map[string]*memVideo)}
}

func (m *memCapability) Open(ctx context.Context, path string) (video.Source, error) {
	v, ok := m.videos[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", video.ErrSource, path)
	}
	return &memSource{v: v, onNext: m.onNext}, nil
}

func (m *memCapability) Create(ctx context.Context, path string, spec video.Spec) (video.Sink, error) {
	m.specs = append(m.specs, spec)
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &memSink{cap: m, path: path, v: &memVideo{width: spec.Width, height: spec.Height, fps: spec.FrameRate}}, nil
}

type memSource struct {
	v      *memVideo
	i      int
	onNext func(i int)
}

func (s *memSource) Width() int         { return s.v.width }
func (s *memSource) Height() int        { return s.v.height }
func (s *memSource) FrameRate() float64 { return s.v.fps }
func (s *memSource) FrameCount() int    { return len(s.v.frames) }
func (s *memSource) Close() error       { return nil }

func (s *memSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.i >= len(s.v.frames) {
		return nil, io.EOF
	}
	if s.onNext != nil {
		s.onNext(s.i)
	}
	if s.v.err != nil && s.i == s.v.errAt {
		return nil, s.v.err
	}
	img := s.v.frames[s.i]
	s.i++
	return img, nil
}

type memSink struct {
	cap    *memCapability
	path   string
	v      *memVideo
	closed bool
}

func (s *memSink) Write(img image.Image) error {
	cp := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(cp, cp.Rect, img, img.Bounds().Min, draw.Src)
	s.v.frames = append(s.v.frames, cp)
	return nil
}

func (s *memSink) Close() error {
	s.closed = true
	s.cap.videos[s.path] = s.v
	return nil
}

// synthetic clip, every pixel of every frame differs
func testClip(w, h, frames int, fps float64) *memVideo {
	v := &memVideo{width: w, height: h, fps: fps}
	for f := 0; f < frames; f++ {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.SetRGBA(x, y, color.RGBA{
					R: uint8(f*85 + x*60),
					G: uint8(255 - f*40 - y*70),
					B: uint8((f*w*h + y*w + x) * 23),
					A: 0xff,
				})
			}
		}
		v.frames = append(v.frames, img)
	}
	return v
}
