package optargs

import (
	"bufio"
	"io"
	"os"
	"slices"
	"strings"
)

const (
	UseCommand  = "$use"  // Pushes a set of sub-commands onto the interactive invocation stack.
	BackCommand = "$back" // Pops the last entry from the interactive invocation stack.
)

var (
	InteractiveFlag         = "-i"                     // InteractiveFlag is the first argument that triggers [Dispatcher.RespondInteractive].
	InteractiveQuitCommands = []string{"quit", "exit"} // InteractiveQuitCommands leave interactive mode.
)

// RespondInteractive runs an interactive "shell" over the command tree when
// the [InteractiveFlag] is the first process argument. Each input line is
// tokenized on whitespace and dispatched under the given entry-point name;
// usage failures and help requests are printed without leaving the loop.
// Returns false when interactive mode was not requested.
//
// Deep trees are navigated with the [UseCommand] to push a sub-command
// prefix onto the invocation stack, and [BackCommand] to pop it again.
func (d *Dispatcher) RespondInteractive(name string) bool {
	args := os.Args[1:]
	if len(args) == 0 || args[0] != InteractiveFlag {
		return false
	}
	if err := d.interactiveLoop(name, os.Stdin); err != nil {
		d.printer.Println("error running command interactively:", err)
	}
	return true
}

func (d *Dispatcher) interactiveLoop(name string, in io.Reader) error {
	var stack [][]string
	prefix := func() []string {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}
	p := d.printer
	p.Printf("Running %q interactively. Enter %s to leave.\n", d.root.name,
		strings.Join(InteractiveQuitCommands, " or "))
	p.Printf("Use %s with one or more sub-commands to push them onto the invocation stack, and %s to pop and return.\n",
		UseCommand, BackCommand)
	scanner := bufio.NewScanner(in)
	for {
		if pre := prefix(); len(pre) > 0 {
			p.Printf("%s %s> ", d.root.name, strings.Join(pre, " "))
		} else {
			p.Printf("%s> ", d.root.name)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case UseCommand:
			if len(fields) == 1 {
				p.Println("nothing to push")
				continue
			}
			stack = append(stack, append(slices.Clone(prefix()), fields[1:]...))
			continue
		case BackCommand:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		}
		if len(fields) == 1 && slices.Contains(InteractiveQuitCommands, fields[0]) {
			return nil
		}
		tokens := append(slices.Clone(prefix()), fields...)
		if err := d.Dispatch(name, tokens); err != nil {
			if !p.Usage(err) {
				p.Println(err)
			}
		}
	}
}
