package cli

import (
	"fmt"
	"io"

	"github.com/ZanzyTHEbar/shatag-go/shatag/integrity"
	"github.com/ZanzyTHEbar/shatag-go/shatag/ports"
)

// Terminal writes status lines to stdout and errors to stderr
type Terminal struct {
	stdout io.Writer
	stderr io.Writer
}

var _ ports.Interactor = (*Terminal)(nil)

// NewTerminal creates a Terminal
func NewTerminal(stdout, stderr io.Writer) *Terminal {
	return &Terminal{stdout: stdout, stderr: stderr}
}

func (t *Terminal) Output(message string) {
	fmt.Fprintln(t.stdout, message)
}

func (t *Terminal) Warning(message string) {
	fmt.Fprintf(t.stderr, "Warning: %s\n", message)
}

func (t *Terminal) Error(message string, err error) {
	if err == nil {
		fmt.Fprintf(t.stderr, "Error: %s\n", message)
		return
	}
	fmt.Fprintf(t.stderr, "Error: %s: %s\n", message, err)
}

// reportResult prints the status line for res and, for outdated and corrupt
// files, the stored and actual records:
//
//	<outdated> foo.txt
//	 stored: faa28bfa6332264571f28b4131b0673f0d55a31a2ccf5c873c435c235647bf76 1560177189.769244818
//	 actual: dc9fe2260fd6748b29532be0ca2750a50f9eca82046b15497f127eba6dda90e8 1560177334.020775051
//
// quiet 1 hides <ok>, quiet 2 also hides <outdated>. <corrupt> always prints.
func reportResult(out ports.Interactor, path string, res integrity.Result, quiet int) {
	switch res.State {
	case integrity.StateOK:
		if quiet < 1 {
			out.Output(fmt.Sprintf("<ok> %s", path))
		}
		return
	case integrity.StateOutdated:
		if quiet >= 2 {
			return
		}
	case integrity.StateCorrupt:
		out.Error(fmt.Sprintf("corrupt file %q", path), nil)
	default:
		return
	}

	out.Output(fmt.Sprintf("<%s> %s", res.State, path))
	out.Output(fmt.Sprintf(" stored: %s", res.Stored))
	out.Output(fmt.Sprintf(" actual: %s", res.Actual))
}
