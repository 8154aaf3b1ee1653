package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	vidio "github.com/AlexEidt/Vidio"

	"github.com/1F47E/go-textreel/pkg/logger"
)

// FFmpeg reads videos through Vidio and writes them by piping raw rgb24
// frames into an ffmpeg process. Both need ffmpeg (and ffprobe) in PATH.
type FFmpeg struct {
	Bin string
	// Vidio exits the process on ctrl+c once decoding starts.
	// When set, interrupts go back to this channel after that.
	Signals chan<- os.Signal
}

// StopSignals are the signals Vidio takes over
var StopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{Bin: "ffmpeg"}
}

func (f *FFmpeg) Open(ctx context.Context, path string) (Source, error) {
	log := logger.Log.WithField("scope", "video source")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err := vidio.NewVideo(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSource, path, err)
	}
	if v.Width() <= 0 || v.Height() <= 0 {
		v.Close()
		return nil, fmt.Errorf("%w: %s: no video stream", ErrSource, path)
	}

	// vidio decodes straight into the RGBA pixel buffer
	frame := image.NewRGBA(image.Rect(0, 0, v.Width(), v.Height()))
	if err = v.SetFrameBuffer(frame.Pix); err != nil {
		v.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrSource, path, err)
	}
	log.Debugf("Opened %s: %dx%d, %.2f fps, ~%d frames", path, v.Width(), v.Height(), v.FPS(), v.Frames())

	return &vidioSource{video: v, frame: frame, signals: f.Signals}, nil
}

type vidioSource struct {
	video   *vidio.Video
	frame   *image.RGBA
	signals chan<- os.Signal
	read    int
	started bool
}

func (s *vidioSource) Width() int         { return s.video.Width() }
func (s *vidioSource) Height() int        { return s.video.Height() }
func (s *vidioSource) FrameRate() float64 { return s.video.FPS() }
func (s *vidioSource) FrameCount() int    { return s.video.Frames() }

func (s *vidioSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ok := s.video.Read()
	if !s.started {
		s.started = true
		reclaimSignals(s.signals)
	}
	if !ok {
		// ctrl+c reaches the decoder process too
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := checkFrameCount(s.read, s.video.Frames()); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	s.read++
	return s.frame, nil
}

// Read reports a broken decoder the same way as the end of the video,
// a container frame count tells them apart when there is one
func checkFrameCount(read, expected int) error {
	if expected > 0 && read < expected {
		return fmt.Errorf("%w: decoding stopped after %d of %d frames", ErrSource, read, expected)
	}
	return nil
}

// Vidio registers its own exit handler on the first Read, drop it and
// hand the signals back to ch
func reclaimSignals(ch chan<- os.Signal) {
	if ch == nil {
		return
	}
	signal.Reset(StopSignals...)
	signal.Notify(ch, StopSignals...)
}

func (s *vidioSource) Close() error {
	s.video.Close()
	return nil
}

func (f *FFmpeg) Create(ctx context.Context, path string, spec Spec) (Sink, error) {
	log := logger.Log.WithField("scope", "video sink")
	if spec.Width <= 0 || spec.Height <= 0 || spec.FrameRate <= 0 {
		return nil, fmt.Errorf("%w: bad sink size %dx%d at %v fps", ErrSink, spec.Width, spec.Height, spec.FrameRate)
	}
	profiles := spec.Profiles
	if len(profiles) == 0 {
		profiles = LosslessProfiles
	}

	out, err := exec.CommandContext(ctx, f.Bin, "-hide_banner", "-encoders").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: listing ffmpeg encoders: %v", ErrSink, err)
	}
	p, fallback, ok := SelectProfile(ParseEncoders(string(out)), profiles, filepath.Ext(path))
	if !ok {
		return nil, fmt.Errorf("%w: %w for %s (tried %s)", ErrSink, ErrNoLosslessProfile, path, profileNames(profiles))
	}
	if fallback {
		log.Warnf("Profile %s is not available for %s, falling back to %s", profiles[0].Name, path, p.Name)
	}

	args := sinkArgs(path, spec, p)
	log.Debugf("Running ffmpeg command: %s %s", f.Bin, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, f.Bin, args...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: creating stdin pipe: %v", ErrSink, err)
	}
	if err = cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting ffmpeg: %v", ErrSink, err)
	}

	return &ffmpegSink{
		cmd:    cmd,
		stdin:  stdin,
		stderr: stderr,
		width:  spec.Width,
		height: spec.Height,
		buf:    make([]byte, spec.Width*spec.Height*3),
	}, nil
}

type ffmpegSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	width  int
	height int
	buf    []byte
	closed bool
}

func (s *ffmpegSink) Write(img image.Image) error {
	if s.closed {
		return fmt.Errorf("%w: write after close", ErrSink)
	}
	b := img.Bounds()
	if b.Dx() != s.width || b.Dy() != s.height {
		return fmt.Errorf("%w: frame is %dx%d, video is %dx%d", ErrSink, b.Dx(), b.Dy(), s.width, s.height)
	}
	fillRGB24(s.buf, img)
	if _, err := s.stdin.Write(s.buf); err != nil {
		return fmt.Errorf("%w: writing frame: %v %s", ErrSink, err, strings.TrimSpace(s.stderr.String()))
	}
	return nil
}

func (s *ffmpegSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("%w: ffmpeg: %v %s", ErrSink, err, strings.TrimSpace(s.stderr.String()))
	}
	return nil
}

func sinkArgs(path string, spec Spec, p Profile) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", spec.Width, spec.Height),
		"-framerate", strconv.FormatFloat(spec.FrameRate, 'f', -1, 64),
		"-i", "pipe:0",
	}
	args = append(args, p.args()...)
	return append(args, path)
}

// packs img row by row as r,g,b bytes, dst must hold w*h*3
func fillRGB24(dst []byte, img image.Image) {
	b := img.Bounds()
	i := 0
	if rgba, ok := img.(*image.RGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := rgba.Pix[rgba.PixOffset(b.Min.X, y):]
			for x := 0; x < b.Dx(); x++ {
				dst[i], dst[i+1], dst[i+2] = row[4*x], row[4*x+1], row[4*x+2]
				i += 3
			}
		}
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst[i], dst[i+1], dst[i+2] = c.R, c.G, c.B
			i += 3
		}
	}
}

func profileNames(profiles []Profile) string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
