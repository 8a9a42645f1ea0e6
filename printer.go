package optargs

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Printer is the user-facing output sink handed to dispatch handlers.
// User-visible output goes to STDERR by default, keeping STDOUT free for
// machine-consumable command output; tests redirect it to a buffer.
type Printer struct {
	out io.Writer
}

func NewPrinter() *Printer {
	return &Printer{out: os.Stderr}
}

// Redirect points the printer at a different writer.
func (p *Printer) Redirect(writer io.Writer) {
	p.out = writer
}

func (p *Printer) Print(msg ...any) {
	_, _ = fmt.Fprint(p.out, msg...)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) Println(msg ...any) {
	_, _ = fmt.Fprintln(p.out, msg...)
}

// Usage prints the rendered usage text carried by a [UsageError] and reports
// whether it did. Non-usage errors are left for the caller, so a main
// function can end with:
//
//	if err := d.Dispatch("run", nil); err != nil {
//		if !d.Printer().Usage(err) {
//			d.Printer().Println(err)
//		}
//		if !optargs.IsHelp(err) {
//			os.Exit(1)
//		}
//	}
func (p *Printer) Usage(err error) bool {
	var ue *UsageError
	if !errors.As(err, &ue) || ue.Usage == "" {
		return false
	}
	p.Println(ue.Usage)
	return true
}
