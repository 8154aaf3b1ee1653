package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Progress wraps a bar that is recreated for every stage
type Progress struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func New(out io.Writer) *Progress {
	if out == nil {
		out = io.Discard
	}
	p := &Progress{out: out}
	p.Reset(-1, "") // init as spinner
	return p
}

func (p *Progress) Spinner(desc string) {
	_ = p.bar.Clear()
	p.Reset(-1, desc)
	_ = p.bar.RenderBlank()
}

// Reset starts a new bar, max <= 0 means unknown total and renders a spinner
func (p *Progress) Reset(max int, desc string) {
	if max <= 0 {
		max = -1
	}
	p.bar = progressCreate(p.out, max, desc)
}

func (p *Progress) Add(n int) {
	_ = p.bar.Add(n)
}

func (p *Progress) Finish() {
	_ = p.bar.Finish()
}

func progressCreate(out io.Writer, max int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]/[reset]",
			SaucerHead:    "[green]/[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
