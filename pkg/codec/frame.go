package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	cfg "github.com/1F47E/go-textreel/pkg/config"
)

// EncodeFrame writes img as frame text.
// Every pixel token is followed by a single space and every row ends with "\n".
func EncodeFrame(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("%w: empty frame %dx%d", ErrDomain, b.Dx(), b.Dy())
	}

	bw := bufio.NewWriter(w)
	line := make([]byte, 0, b.Dx()*(PixelTokenLen+1)+1)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		line = line[:0]
		for x := b.Min.X; x < b.Max.X; x++ {
			// alpha is dropped, channels are taken straight (not premultiplied)
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			line = AppendPixel(line, c.R, c.G, c.B)
			line = append(line, ' ')
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("writing row %d: %w", y-b.Min.Y, err)
		}
	}
	return bw.Flush()
}

func EncodeFrameString(img image.Image) (string, error) {
	var sb strings.Builder
	if err := EncodeFrame(&sb, img); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// DecodeFrame parses frame text into an opaque RGBA image.
// Blank lines are skipped, the first row defines the width and the row count
// defines the height.
func DecodeFrame(r io.Reader) (*image.RGBA, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), cfg.MaxLineSize)

	var (
		pix    []byte
		width  int
		height int
		lineNo int
	)
	for sc.Scan() {
		lineNo++
		tokens := bytes.Fields(sc.Bytes())
		if len(tokens) == 0 {
			continue
		}
		if height == 0 {
			width = len(tokens)
		} else if len(tokens) != width {
			return nil, fmt.Errorf("%w: line %d has %d pixels, first row has %d", ErrFormat, lineNo, len(tokens), width)
		}
		for col, tok := range tokens {
			r, g, b, err := decodePixel(tok)
			if err != nil {
				return nil, fmt.Errorf("line %d, pixel %d: %w", lineNo, col+1, err)
			}
			pix = append(pix, r, g, b, 0xff)
		}
		height++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading frame text: %w", err)
	}
	if height == 0 {
		return nil, fmt.Errorf("%w: no pixel rows", ErrFormat)
	}

	return &image.RGBA{
		Pix:    pix,
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

func DecodeFrameString(s string) (*image.RGBA, error) {
	return DecodeFrame(strings.NewReader(s))
}
