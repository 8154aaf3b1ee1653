package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/urfave/cli"

	cfg "github.com/1F47E/go-textreel/pkg/config"
	"github.com/1F47E/go-textreel/pkg/core"
	"github.com/1F47E/go-textreel/pkg/job"
	"github.com/1F47E/go-textreel/pkg/logger"
	"github.com/1F47E/go-textreel/pkg/raster"
	"github.com/1F47E/go-textreel/pkg/video"
)

var app = cli.NewApp()
var log = logger.Log

// cancelled on ctrl+c, conversions stop at the next frame boundary
var ctx context.Context

// shared with the video reader, which has to take interrupts back from Vidio
var sigs = make(chan os.Signal, 1)

var (
	outFlag = cli.StringFlag{
		Name:  "out, o",
		Usage: "output file or dir, next to the input by default",
	}
	removeFlag = cli.BoolFlag{
		Name:  "remove-source",
		Usage: "delete every input after it was converted successfully",
	}
	formatFlag = cli.StringFlag{
		Name:  "format, f",
		Value: cfg.DefaultImageFormat,
		Usage: "image format to decode into: png, jpg, bmp, tiff",
	}
)

func init() {
	app.Name = "textreel"
	app.Usage = "An image and video to text converter"
	app.UsageText = "textreel [global options] command [command options] path"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		// DEBUG=1 is read by the logger itself
		cli.BoolFlag{Name: "debug", Usage: "debug logs, same as DEBUG=1"},
		cli.BoolFlag{Name: "quiet, q", Usage: "only warnings and errors, no progress bars"},
	}
	app.Before = func(c *cli.Context) error {
		if c.Bool("quiet") {
			logger.SetQuiet()
		} else {
			logger.SetDebug(c.Bool("debug"))
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "encode",
			Aliases:   []string{"e"},
			Usage:     "Encode an image, or every image in a dir, to text",
			ArgsUsage: "image|dir",
			Flags:     []cli.Flag{outFlag, removeFlag},
			Action: func(c *cli.Context) error {
				filename, err := getFilename(c)
				if err != nil {
					return err
				}
				jobs, err := job.PlanEncode(filename, c.String("out"))
				if err != nil {
					return err
				}
				cr := newCore(c)
				n, err := job.Run(ctx, jobs, func(j job.Job) error {
					return cr.EncodeImage(j.Source, j.Destination)
				}, c.Bool("remove-source"))
				log.Infof("Encoded %d/%d images", n, len(jobs))
				return err
			},
		},
		{
			Name:      "decode",
			Aliases:   []string{"d"},
			Usage:     "Decode a text file, or every text file in a dir, to an image",
			ArgsUsage: "file.txt|dir",
			Flags:     []cli.Flag{outFlag, formatFlag, removeFlag},
			Action: func(c *cli.Context) error {
				filename, err := getFilename(c)
				if err != nil {
					return err
				}
				jobs, err := job.PlanDecode(filename, c.String("out"), c.String("format"))
				if err != nil {
					return err
				}
				cr := newCore(c)
				n, err := job.Run(ctx, jobs, func(j job.Job) error {
					return cr.DecodeImage(j.Source, j.Destination)
				}, c.Bool("remove-source"))
				log.Infof("Decoded %d/%d images", n, len(jobs))
				return err
			},
		},
		{
			Name:      "disassemble",
			Aliases:   []string{"x"},
			Usage:     "Split a video into a dir of text frames",
			ArgsUsage: "video",
			Flags:     []cli.Flag{outFlag},
			Action: func(c *cli.Context) error {
				filename, err := getFilename(c)
				if err != nil {
					return err
				}
				out := c.String("out")
				if out == "" {
					out = job.FramesDir(filename)
				}
				n, err := newCore(c).Disassemble(filename, out)
				if err != nil {
					return fmt.Errorf("Error processing video (%d frames written): %w", n, err)
				}
				log.Infof("Successfully disassembled %d frames into %s", n, out)
				return nil
			},
		},
		{
			Name:      "assemble",
			Aliases:   []string{"a"},
			Usage:     "Rebuild a video from a dir of text frames",
			ArgsUsage: "frames_dir",
			Flags:     []cli.Flag{outFlag},
			Action: func(c *cli.Context) error {
				dir, err := getFilename(c)
				if err != nil {
					return err
				}
				out := c.String("out")
				if out == "" {
					out = job.ReconstructedPath(dir)
				}
				n, err := newCore(c).Assemble(dir, out)
				if err != nil {
					return fmt.Errorf("Error reconstructing video: %w", err)
				}
				log.Infof("Success! Reconstructed %d frames into %s", n, out)
				return nil
			},
		},
		{
			Name:      "test",
			Aliases:   []string{"t"},
			Usage:     "Run a round trip on an image or a video and compare the result",
			ArgsUsage: "image|video",
			Action: func(c *cli.Context) error {
				filename, err := getFilename(c)
				if err != nil {
					return err
				}
				cr := newCore(c)
				var same bool
				if raster.IsImage(filename) {
					same, err = cr.CompareImage(filename)
				} else {
					same, err = cr.CompareVideo(filename)
				}
				if err != nil {
					return fmt.Errorf("Error comparing: %w", err)
				}
				if !same {
					return fmt.Errorf("Files are different")
				}
				log.Info("Files are the same")
				return nil
			},
		},
	}
}

func newCore(c *cli.Context) *core.Core {
	var progressOut io.Writer = os.Stderr
	if c.GlobalBool("quiet") {
		progressOut = nil
	}
	vc := video.NewFFmpeg()
	vc.Signals = sigs
	return core.NewCore(ctx, vc, progressOut)
}

func getFilename(c *cli.Context) (string, error) {
	f := c.Args().Get(0)
	if f == "" {
		return "", fmt.Errorf("Filename is required")
	}
	return f, nil
}

// first ctrl+c cancels ctx, a second one kills the process
func watchSignals(cancel context.CancelFunc) {
	<-sigs
	log.Warn("Interrupted, stopping after the current frame")
	signal.Stop(sigs)
	cancel()
}

func main() {
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	signal.Notify(sigs, video.StopSignals...)
	go watchSignals(cancel)

	err := app.Run(os.Args)
	if err != nil {
		cancel()
		log.Fatal(err)
	}
}
