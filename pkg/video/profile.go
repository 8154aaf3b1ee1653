package video

import (
	"bufio"
	"strings"
)

// Profile is an ffmpeg encoder setup that keeps 8 bit RGB exactly
type Profile struct {
	Name   string
	Codec  string
	PixFmt string
	Args   []string
	// file extensions whose muxer takes this codec
	Containers []string
}

var (
	ProfileFFV1 = Profile{
		Name:       "ffv1",
		Codec:      "ffv1",
		PixFmt:     "bgr0",
		Args:       []string{"-level", "3"},
		Containers: []string{".mkv", ".avi", ".nut"},
	}
	// h.264 in rgb with qp 0 is lossless too, unlike plain avc1
	ProfileX264RGB = Profile{
		Name:       "x264rgb",
		Codec:      "libx264rgb",
		PixFmt:     "rgb24",
		Args:       []string{"-qp", "0", "-preset", "veryslow"},
		Containers: []string{".mkv", ".mp4", ".mov", ".avi", ".nut"},
	}

	// preferred first
	LosslessProfiles = []Profile{ProfileFFV1, ProfileX264RGB}
)

func (p Profile) args() []string {
	args := []string{"-c:v", p.Codec}
	args = append(args, p.Args...)
	return append(args, "-pix_fmt", p.PixFmt)
}

// ParseEncoders reads the table printed by "ffmpeg -encoders".
//
//	V....D ffv1                 FFmpeg video codec #1
func ParseEncoders(out string) map[string]bool {
	encoders := make(map[string]bool)
	sc := bufio.NewScanner(strings.NewReader(out))
	table := false
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		// the legend ends with a dashed line
		if !table {
			table = len(fields) > 0 && strings.HasPrefix(fields[0], "---")
			continue
		}
		if len(fields) >= 2 {
			encoders[fields[1]] = true
		}
	}
	return encoders
}

// Fits reports whether the muxer for a file with extension ext takes the codec
func (p Profile) Fits(ext string) bool {
	for _, c := range p.Containers {
		if strings.EqualFold(c, ext) {
			return true
		}
	}
	return false
}

// SelectProfile returns the first profile whose codec is available and fits
// the container ext. fallback is true when it is not the first one asked for.
func SelectProfile(available map[string]bool, profiles []Profile, ext string) (p Profile, fallback bool, ok bool) {
	for i, p := range profiles {
		if available[p.Codec] && p.Fits(ext) {
			return p, i > 0, true
		}
	}
	return Profile{}, false, false
}
