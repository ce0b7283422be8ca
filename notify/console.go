package notify

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
)

// Console prints a coloured toast line.
type Console struct {
	Out io.Writer
}

func (c Console) Notify(_ context.Context, e Event) error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	paint := color.New(color.FgGreen, color.Bold)
	mark := "✔"
	if e.Failed() {
		paint = color.New(color.FgRed, color.Bold)
		mark = "✘"
	}
	_, err := paint.Fprintf(out, "%s %s\n", mark, e.Text())
	return err
}
