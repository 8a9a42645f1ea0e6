package optargs

import (
	"errors"
	"fmt"
)

// Kind distinguishes the failure classes surfaced by this package.
type Kind uint8

const (
	// KindDeclaration marks a registration-time programmer error. These are
	// raised while the command tree is being built and should abort startup.
	KindDeclaration Kind = iota + 1
	// KindParse marks an end-user mistake on the command line: an unexpected
	// option or argument, a value the declared type rejects, an unknown
	// sub-command, or a missing required declaration.
	KindParse
	// KindHelp marks an explicit help request. It travels through the same
	// error channel so callers can print the usage text and exit zero.
	KindHelp
)

func (k Kind) String() string {
	switch k {
	case KindDeclaration:
		return "declaration error"
	case KindParse:
		return "parse error"
	case KindHelp:
		return "help requested"
	default:
		return "usage error"
	}
}

// UsageError is the single structured failure type raised by declaration,
// parsing, and dispatch. It carries a machine-distinguishable [Kind] and the
// fully rendered usage text, so a caller can present Usage unmodified.
type UsageError struct {
	Kind    Kind
	Usage   string
	wrapped error
}

func (e *UsageError) Error() string {
	if e.wrapped == nil {
		return e.Kind.String()
	}
	return e.wrapped.Error()
}

// Is matches any *UsageError, or one of a specific Kind when the target
// carries a non-zero Kind.
func (e *UsageError) Is(err error) bool {
	other, ok := err.(*UsageError)
	if !ok {
		return false
	}
	return other.Kind == 0 || other.Kind == e.Kind
}

func (e *UsageError) Unwrap() error {
	return e.wrapped
}

// NewUsageError creates a [UsageError] of the given kind. The format and args
// parameters are passed to [fmt.Errorf] to create the underlying error, so %w
// wrapping works. Usage may be empty when no command node is available to
// render, such as a failure while decoding an external tree definition.
func NewUsageError(kind Kind, usage, format string, args ...any) *UsageError {
	return &UsageError{Kind: kind, Usage: usage, wrapped: fmt.Errorf(format, args...)}
}

// IsDeclErr reports whether err is a declaration-time failure.
func IsDeclErr(err error) bool { return isKind(err, KindDeclaration) }

// IsParseErr reports whether err is a parse-time failure.
func IsParseErr(err error) bool { return isKind(err, KindParse) }

// IsHelp reports whether err is an explicit help request. Callers typically
// print the usage text and exit zero instead of treating it as a failure.
func IsHelp(err error) bool { return isKind(err, KindHelp) }

func isKind(err error, k Kind) bool {
	var ue *UsageError
	if !errors.As(err, &ue) {
		return false
	}
	return ue.Kind == k
}

func declErr(c *Cmd, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &UsageError{Kind: KindDeclaration, Usage: c.render(renderMode{}, err.Error()), wrapped: err}
}

func parseErr(c *Cmd, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &UsageError{Kind: KindParse, Usage: c.render(renderMode{}, err.Error()), wrapped: err}
}

func helpErr(c *Cmd) error {
	return &UsageError{
		Kind:    KindHelp,
		Usage:   c.render(renderMode{help: true}, ""),
		wrapped: fmt.Errorf("help requested"),
	}
}
