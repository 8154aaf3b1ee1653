package video

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const encodersOut = `Encoders:
 V..... = Video
 A..... = Audio
 S..... = Subtitle
 .F.... = Frame-level multithreading
 ------
 V....D a64multi             Multicolor charset for Commodore 64 (codec a64_multicolor)
 V....D ffv1                 FFmpeg video codec #1
 V..... libx264rgb           libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 RGB (codec h264)
 A....D aac                  AAC (Advanced Audio Coding)
`

func TestParseEncoders(t *testing.T) {
	got := ParseEncoders(encodersOut)
	assert.True(t, got["ffv1"])
	assert.True(t, got["libx264rgb"])
	assert.True(t, got["aac"])
	// legend rows are not encoders
	assert.False(t, got["="])
	assert.False(t, got["Video"])
	assert.Len(t, got, 4)
}

func TestSelectProfile(t *testing.T) {
	both := map[string]bool{"ffv1": true, "libx264rgb": true}
	testCases := []struct {
		name      string
		available map[string]bool
		ext       string
		want      string
		fallback  bool
		ok        bool
	}{
		{name: "preferred", available: both, ext: ".mkv", want: "ffv1", ok: true},
		{name: "upper case ext", available: both, ext: ".MKV", want: "ffv1", ok: true},
		{name: "fallback", available: map[string]bool{"libx264rgb": true}, ext: ".mkv", want: "x264rgb", fallback: true, ok: true},
		{name: "muxer without ffv1", available: both, ext: ".mp4", want: "x264rgb", fallback: true, ok: true},
		{name: "none", available: map[string]bool{"mpeg4": true}, ext: ".mkv", ok: false},
		{name: "no lossless muxer", available: both, ext: ".webm", ok: false},
		{name: "mp4 without x264", available: map[string]bool{"ffv1": true}, ext: ".mp4", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, fallback, ok := SelectProfile(tc.available, LosslessProfiles, tc.ext)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.fallback, fallback)
			assert.Equal(t, tc.want, p.Name)
		})
	}
}

func TestCheckFrameCount(t *testing.T) {
	assert.NoError(t, checkFrameCount(3, 3))
	// unknown count, nothing to compare against
	assert.NoError(t, checkFrameCount(2, 0))
	// estimates may undercount
	assert.NoError(t, checkFrameCount(4, 3))

	err := checkFrameCount(2, 5)
	require.ErrorIs(t, err, ErrSource)
	assert.ErrorContains(t, err, "2 of 5")
}

func TestSinkArgs(t *testing.T) {
	args := sinkArgs("out.mkv", Spec{Width: 2, Height: 3, FrameRate: 29.97}, ProfileFFV1)
	assert.Equal(t, []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", "2x3",
		"-framerate", "29.97",
		"-i", "pipe:0",
		"-c:v", "ffv1", "-level", "3", "-pix_fmt", "bgr0",
		"out.mkv",
	}, args)
}

func TestFillRGB24(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 1))
	rgba.SetRGBA(0, 0, color.RGBA{1, 2, 3, 0xff})
	rgba.SetRGBA(1, 0, color.RGBA{4, 5, 6, 0xff})

	nrgba := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	nrgba.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 0xff})
	nrgba.SetNRGBA(1, 0, color.NRGBA{4, 5, 6, 0xff})

	want := []byte{1, 2, 3, 4, 5, 6}
	for _, img := range []image.Image{rgba, nrgba, rgba.SubImage(rgba.Bounds())} {
		dst := make([]byte, 6)
		fillRGB24(dst, img)
		assert.Equal(t, want, dst)
	}

	// sub image with an offset origin
	big := image.NewRGBA(image.Rect(0, 0, 3, 2))
	big.SetRGBA(1, 1, color.RGBA{7, 8, 9, 0xff})
	big.SetRGBA(2, 1, color.RGBA{10, 11, 12, 0xff})
	dst := make([]byte, 6)
	fillRGB24(dst, big.SubImage(image.Rect(1, 1, 3, 2)))
	assert.Equal(t, []byte{7, 8, 9, 10, 11, 12}, dst)
}

func TestCreateRejectsBadSpec(t *testing.T) {
	f := &FFmpeg{Bin: "ffmpeg-does-not-exist"}
	_, err := f.Create(context.Background(), "out.mkv", Spec{Width: 0, Height: 2, FrameRate: 30})
	require.ErrorIs(t, err, ErrSink)

	_, err = f.Create(context.Background(), "out.mkv", Spec{Width: 2, Height: 2, FrameRate: 30})
	require.ErrorIs(t, err, ErrSink)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := NewFFmpeg().Open(context.Background(), "/definitely/not/here.mp4")
	require.ErrorIs(t, err, ErrSource)
}
