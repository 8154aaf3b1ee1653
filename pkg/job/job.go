package job

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cfg "github.com/1F47E/go-textreel/pkg/config"
	"github.com/1F47E/go-textreel/pkg/logger"
	"github.com/1F47E/go-textreel/pkg/raster"
	"github.com/1F47E/go-textreel/pkg/storage"
)

// Job is one conversion, source to destination
type Job struct {
	Source      string
	Destination string
}

func (j *Job) Print() string {
	return fmt.Sprintf("Job: %s -> %s", j.Source, j.Destination)
}

// Plan pairs every input with its output.
// path is a file or a dir; for a dir every file with one of exts is taken in natural order.
// out is the destination file for a single input or the destination dir for a dir,
// empty out writes next to the source with dstExt.
func Plan(path, out string, exts []string, dstExt string) ([]Job, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		dst := out
		if dst == "" {
			dst = replaceExt(path, dstExt)
		}
		return []Job{{Source: path, Destination: dst}}, nil
	}

	files, err := storage.ListFiles(path, exts...)
	if err != nil {
		return nil, err
	}
	outDir := out
	if outDir == "" {
		outDir = path
	} else if err = os.MkdirAll(outDir, os.ModePerm); err != nil {
		return nil, err
	}

	jobs := make([]Job, 0, len(files))
	for _, f := range files {
		// a frames dir also holds its metadata record
		if filepath.Base(f) == cfg.MetadataFilename {
			continue
		}
		jobs = append(jobs, Job{
			Source:      f,
			Destination: filepath.Join(outDir, storage.TrimExt(f)+dstExt),
		})
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("No files to convert in %s", path)
	}
	return jobs, nil
}

// PlanEncode plans images to frame text
func PlanEncode(path, out string) ([]Job, error) {
	return Plan(path, out, raster.Extensions, cfg.FrameExt)
}

// PlanDecode plans frame text to images of the given format (png, jpg, bmp, tiff)
func PlanDecode(path, out, format string) ([]Job, error) {
	ext := "." + strings.TrimPrefix(strings.ToLower(format), ".")
	if !raster.CanSave("x" + ext) {
		return nil, fmt.Errorf("%w: %s", raster.ErrUnsupported, format)
	}
	return Plan(path, out, []string{cfg.FrameExt}, ext)
}

// Run processes jobs one by one and stops at the first error.
// With removeSource each source is deleted right after its own job succeeds.
func Run(ctx context.Context, jobs []Job, fn func(j Job) error, removeSource bool) (int, error) {
	log := logger.Log.WithField("scope", "job runner")
	for i, j := range jobs {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		log.Debug(j.Print())
		if err := fn(j); err != nil {
			return i, fmt.Errorf("%s: %w", j.Source, err)
		}
		if removeSource {
			if err := os.Remove(j.Source); err != nil {
				return i + 1, fmt.Errorf("Error removing %s: %w", j.Source, err)
			}
			log.Debugf("Removed %s", j.Source)
		}
	}
	return len(jobs), nil
}

// FramesDir is where a video is disassembled by default: clip.mp4 -> clip_frames
func FramesDir(videoPath string) string {
	return filepath.Join(filepath.Dir(videoPath), storage.TrimExt(videoPath)+cfg.FramesDirSuffix)
}

// ReconstructedPath is where a frames dir is assembled by default: clip_frames -> clip_reconstructed.mkv
func ReconstructedPath(framesDir string) string {
	dir := filepath.Clean(framesDir)
	name := strings.TrimSuffix(filepath.Base(dir), cfg.FramesDirSuffix)
	return filepath.Join(filepath.Dir(dir), name+cfg.ReconstructedSuffix+cfg.DefaultVideoExt)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
