package codec

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGrid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x*37 + y*11) % 256),
				G: uint8((x*5 + y*53) % 256),
				B: uint8((x*y + 200) % 256),
				A: 0xff,
			})
		}
	}
	return img
}

func TestEncodeFrameText(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{0, 0, 0, 0xff})
	img.SetRGBA(1, 0, color.RGBA{255, 255, 255, 0xff})
	img.SetRGBA(0, 1, color.RGBA{127, 10, 9, 0xff})
	img.SetRGBA(1, 1, color.RGBA{250, 251, 1, 0xff})

	got, err := EncodeFrameString(img)
	require.NoError(t, err)
	assert.Equal(t, "A0A0A0 Z5Z5Z5 \nM7B0A9 Z0Z1A1 \n", got)
}

func TestEncodeFrameDropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 10})

	got, err := EncodeFrameString(img)
	require.NoError(t, err)
	assert.Equal(t, "U0K0F0 \n", got)
}

func TestEncodeFrameEmpty(t *testing.T) {
	_, err := EncodeFrameString(image.NewRGBA(image.Rect(0, 0, 0, 3)))
	assert.ErrorIs(t, err, ErrDomain)
}

func TestFrameRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		w, h int
	}{
		{name: "1x1", w: 1, h: 1},
		{name: "2x2", w: 2, h: 2},
		{name: "wide", w: 17, h: 1},
		{name: "tall", w: 1, h: 13},
		{name: "rect", w: 31, h: 9},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := newGrid(tc.w, tc.h)
			text, err := EncodeFrameString(src)
			require.NoError(t, err)
			assert.Equal(t, tc.h, strings.Count(text, "\n"))

			got, err := DecodeFrameString(text)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), got.Bounds())
			assert.Equal(t, src.Pix, got.Pix)
		})
	}
}

func TestEncodeFrameOffsetBounds(t *testing.T) {
	src := newGrid(4, 4)
	sub := src.SubImage(image.Rect(1, 1, 3, 4))

	text, err := EncodeFrameString(sub)
	require.NoError(t, err)
	got, err := DecodeFrameString(text)
	require.NoError(t, err)

	require.Equal(t, image.Rect(0, 0, 2, 3), got.Bounds())
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, src.RGBAAt(x+1, y+1), got.RGBAAt(x, y))
		}
	}
}

func TestDecodeFrameLenient(t *testing.T) {
	// no trailing spaces, crlf endings and blank lines are all accepted
	text := "\nA0A0A0  Z5Z5Z5\r\n\n   \nM7M7M7 B0B0B0"
	got, err := DecodeFrameString(text)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 2, 2), got.Bounds())
	assert.Equal(t, color.RGBA{255, 255, 255, 0xff}, got.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{10, 10, 10, 0xff}, got.RGBAAt(1, 1))
}

func TestDecodeFrameErrors(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		errText string
	}{
		{name: "empty", text: "", errText: "no pixel rows"},
		{name: "only blanks", text: "\n  \n\t\n", errText: "no pixel rows"},
		{name: "ragged rows", text: "A0A0A0 A0A0A0 \nA0A0A0 \n", errText: "line 2 has 1 pixels"},
		{name: "longer second row", text: "A0A0A0 \nA0A0A0 A0A0A0 \n", errText: "line 2 has 2 pixels"},
		{name: "short token", text: "A0A0A0 A0A0A \n", errText: "line 1, pixel 2"},
		{name: "bad char", text: "A0A0A0 \na0A0A0 \n", errText: "line 2, pixel 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeFrameString(tc.text)
			require.ErrorIs(t, err, ErrFormat)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}
