// All files related functions
package storage

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	cfg "github.com/1F47E/go-textreel/pkg/config"
	"github.com/1F47E/go-textreel/pkg/natsort"
)

func CreateContainerDir(dir string) error {
	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return fmt.Errorf("Error creating frames dir %s: %w", dir, err)
	}
	return nil
}

func MetadataPath(dir string) string {
	return filepath.Join(dir, cfg.MetadataFilename)
}

// FramePath names frame idx as frame_0000.txt.
// Past 9999 the name just grows, natural order still holds.
func FramePath(dir string, idx int) string {
	name := fmt.Sprintf("%s%0*d%s", cfg.FramePrefix, cfg.FrameIndexWidth, idx, cfg.FrameExt)
	return filepath.Join(dir, name)
}

// ScanFrames lists every non metadata .txt file at the container root in natural order.
// An empty list is not an error here.
func ScanFrames(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, file := range files {
		name := file.Name()
		if !isFile(dir, file) || name == cfg.MetadataFilename {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), cfg.FrameExt) {
			names = append(names, name)
		}
	}
	natsort.Sort(names)

	filesList := make([]string, len(names))
	for i, name := range names {
		filesList[i] = filepath.Join(dir, name)
	}
	return filesList, nil
}

// regular files and links to them, a dangling link counts as a file
// so that reading it reports the broken path
func isFile(dir string, file fs.DirEntry) bool {
	if file.Type()&fs.ModeSymlink == 0 {
		return file.Type().IsRegular()
	}
	info, err := os.Stat(filepath.Join(dir, file.Name()))
	if err != nil {
		return true
	}
	return info.Mode().IsRegular()
}

// ListFiles returns regular files in dir with one of exts (case insensitive), natural order
func ListFiles(dir string, exts ...string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, file := range files {
		if !isFile(dir, file) {
			continue
		}
		ext := filepath.Ext(file.Name())
		for _, e := range exts {
			if strings.EqualFold(ext, e) {
				names = append(names, file.Name())
				break
			}
		}
	}
	natsort.Sort(names)
	for i, name := range names {
		names[i] = filepath.Join(dir, name)
	}
	return names, nil
}

// WriteFile hands a buffered writer to fn and moves the result to path once fn
// and the flush succeed. Until then the data lives in a hidden temp file next to
// path, so path is either absent, the old content or the complete new one.
func WriteFile(path string, fn func(w io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+cfg.TmpFileSuffix)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	bw := bufio.NewWriter(f)
	if err = fn(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// CreateTemp makes 0600 files
	if err = os.Chmod(f.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadFile opens path and hands a buffered reader to fn
func ReadFile(path string, fn func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(bufio.NewReader(f))
}

func CreateTempDir() (string, error) {
	return os.MkdirTemp("", cfg.PathTmpPattern)
}

// TrimExt returns the file name without dir and extension
func TrimExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
