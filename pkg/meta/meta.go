package meta

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/1F47E/go-textreel/pkg/codec"
	"github.com/1F47E/go-textreel/pkg/logger"
)

const fieldsCount = 3

// Metadata is the record stored next to the frames of a sequence
type Metadata struct {
	Width     int
	Height    int
	FrameRate float64
}

func New(width, height int, frameRate float64) (Metadata, error) {
	m := Metadata{Width: width, Height: height, FrameRate: frameRate}
	if !m.IsOk() {
		return Metadata{}, fmt.Errorf("%w: metadata %s", codec.ErrDomain, m.Print())
	}
	return m, nil
}

// METADATA parsing
func Parse(record string) (Metadata, error) {
	log := logger.Log.WithField("scope", "meta parser")
	log.Debugf("Parsing metadata: %q", record)

	fields := strings.Split(strings.TrimSpace(record), ",")
	if len(fields) != fieldsCount {
		return Metadata{}, fmt.Errorf("%w: metadata %q has %d fields, want %d", codec.ErrFormat, record, len(fields), fieldsCount)
	}
	width, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: metadata width %q", codec.ErrFormat, fields[0])
	}
	height, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: metadata height %q", codec.ErrFormat, fields[1])
	}
	fps, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: metadata frame rate %q", codec.ErrFormat, fields[2])
	}

	m := Metadata{Width: width, Height: height, FrameRate: fps}
	if !m.IsOk() {
		return Metadata{}, fmt.Errorf("%w: metadata %q is out of range", codec.ErrFormat, record)
	}
	return m, nil
}

func (m *Metadata) IsOk() bool {
	if m.Width > 0 && m.Height > 0 && m.FrameRate > 0 && !math.IsInf(m.FrameRate, 0) {
		return true
	}
	return false
}

func (m *Metadata) Print() string {
	return fmt.Sprintf("Resolution: %dx%d, FPS: %.2f", m.Width, m.Height, m.FrameRate)
}

// Format renders the single line record "width,height,fps".
// Integral rates keep a ".0" so files match the ones written by the old tool.
func (m *Metadata) Format() string {
	return fmt.Sprintf("%d,%d,%s", m.Width, m.Height, formatRate(m.FrameRate))
}

func Read(path string) (Metadata, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, err
	}
	return Parse(string(b))
}

func (m *Metadata) Write(path string) error {
	return os.WriteFile(path, []byte(m.Format()), 0o644)
}

func formatRate(fps float64) string {
	s := strconv.FormatFloat(fps, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
