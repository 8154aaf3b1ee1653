// Package codec maps pixels to fixed width text tokens and frames to text grids.
//
// A channel value v in [0,255] is written as two characters: the letter
// 'A'+v/10 followed by the digit v%10, so 0 is "A0", 127 is "M7" and 255 is
// "Z5". A pixel is its red, green and blue tokens glued together.
package codec

import "fmt"

const (
	ChannelTokenLen = 2
	PixelTokenLen   = 3 * ChannelTokenLen

	maxChannel = 255
)

func EncodeChannel(v int) (string, error) {
	if v < 0 || v > maxChannel {
		return "", fmt.Errorf("%w: channel value %d, want 0..%d", ErrDomain, v, maxChannel)
	}
	return string(appendChannel(make([]byte, 0, ChannelTokenLen), uint8(v))), nil
}

func DecodeChannel(token string) (int, error) {
	if len(token) != ChannelTokenLen {
		return 0, fmt.Errorf("%w: channel token %q has length %d, want %d", ErrFormat, token, len(token), ChannelTokenLen)
	}
	v, ok := decodeChannel(token[0], token[1])
	if !ok {
		return 0, fmt.Errorf("%w: bad channel token %q", ErrFormat, token)
	}
	return int(v), nil
}

func EncodePixel(r, g, b int) (string, error) {
	buf := make([]byte, 0, PixelTokenLen)
	for _, v := range [3]int{r, g, b} {
		if v < 0 || v > maxChannel {
			return "", fmt.Errorf("%w: channel value %d, want 0..%d", ErrDomain, v, maxChannel)
		}
		buf = appendChannel(buf, uint8(v))
	}
	return string(buf), nil
}

func DecodePixel(token string) (r, g, b uint8, err error) {
	return decodePixel(token)
}

func decodePixel[T string | []byte](token T) (r, g, b uint8, err error) {
	if len(token) != PixelTokenLen {
		return 0, 0, 0, fmt.Errorf("%w: pixel token %q has length %d, want %d", ErrFormat, token, len(token), PixelTokenLen)
	}
	var ok bool
	if r, ok = decodeChannel(token[0], token[1]); !ok {
		return 0, 0, 0, fmt.Errorf("%w: bad red channel in pixel token %q", ErrFormat, token)
	}
	if g, ok = decodeChannel(token[2], token[3]); !ok {
		return 0, 0, 0, fmt.Errorf("%w: bad green channel in pixel token %q", ErrFormat, token)
	}
	if b, ok = decodeChannel(token[4], token[5]); !ok {
		return 0, 0, 0, fmt.Errorf("%w: bad blue channel in pixel token %q", ErrFormat, token)
	}
	return r, g, b, nil
}

// AppendPixel appends the 6 character token of the pixel to dst.
func AppendPixel(dst []byte, r, g, b uint8) []byte {
	dst = appendChannel(dst, r)
	dst = appendChannel(dst, g)
	return appendChannel(dst, b)
}

func appendChannel(dst []byte, v uint8) []byte {
	return append(dst, 'A'+v/10, '0'+v%10)
}

// "Z6".."Z9" are well formed characters but do not fit a byte
func decodeChannel(hi, lo byte) (uint8, bool) {
	if hi < 'A' || hi > 'Z' || lo < '0' || lo > '9' {
		return 0, false
	}
	v := int(hi-'A')*10 + int(lo-'0')
	if v > maxChannel {
		return 0, false
	}
	return uint8(v), true
}
