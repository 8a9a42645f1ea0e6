package optargs

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// Type identifies the logical value type of a declared option or argument.
// The set is closed: declaring with a Type outside this enumeration fails at
// registration time.
type Type uint8

const (
	// Bool is a self-contained flag taking no value token. Repeated
	// occurrences keep the last one.
	Bool Type = iota + 1
	// Counter is a self-contained flag that increments an integer for every
	// occurrence. Option-only.
	Counter
	// Str takes one token verbatim.
	Str
	// Int takes one token and requires it to parse as an integer. A
	// fractional token like "3.14" is rejected.
	Int
	// Num takes one token and requires it to parse as a float.
	Num
	// ArrayRef takes one token per occurrence and appends each to a string
	// list.
	ArrayRef
	// HashRef takes one "key=value" token per occurrence and inserts each
	// pair into a string map.
	HashRef
	// SubCmd marks an argument slot whose token selects a child command
	// instead of being converted to a value. Argument-only.
	SubCmd
)

func (t Type) String() string {
	switch t {
	case Bool:
		return "Bool"
	case Counter:
		return "Counter"
	case Str:
		return "Str"
	case Int:
		return "Int"
	case Num:
		return "Num"
	case ArrayRef:
		return "ArrayRef"
	case HashRef:
		return "HashRef"
	case SubCmd:
		return "SubCmd"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// counterIncrement is the Set value pflag's count type interprets as "no
// explicit value given, increment by one".
const counterIncrement = "+1"

// typeSpec describes how one logical type binds command line tokens. Token
// coercion and accumulation are delegated to pflag value slots: registering a
// slot in a [flag.FlagSet] and driving [flag.FlagSet.Set] gives typed
// parsing, append/merge behavior on repeats, and coercion errors in one
// place.
type typeSpec struct {
	takesValue bool
	optOnly    bool
	argOnly    bool
	greedyOK   bool
	register   func(fs *flag.FlagSet, name, comment string)
	value      func(fs *flag.FlagSet, name string) (any, error)
}

var typeSpecs = map[Type]typeSpec{
	Bool: {
		register: func(fs *flag.FlagSet, name, comment string) { fs.Bool(name, false, comment) },
		value:    func(fs *flag.FlagSet, name string) (any, error) { return fs.GetBool(name) },
	},
	Counter: {
		optOnly:  true,
		register: func(fs *flag.FlagSet, name, comment string) { fs.Count(name, comment) },
		value:    func(fs *flag.FlagSet, name string) (any, error) { return fs.GetCount(name) },
	},
	Str: {
		takesValue: true,
		greedyOK:   true,
		register:   func(fs *flag.FlagSet, name, comment string) { fs.String(name, "", comment) },
		value:      func(fs *flag.FlagSet, name string) (any, error) { return fs.GetString(name) },
	},
	Int: {
		takesValue: true,
		register:   func(fs *flag.FlagSet, name, comment string) { fs.Int(name, 0, comment) },
		value:      func(fs *flag.FlagSet, name string) (any, error) { return fs.GetInt(name) },
	},
	Num: {
		takesValue: true,
		register:   func(fs *flag.FlagSet, name, comment string) { fs.Float64(name, 0, comment) },
		value:      func(fs *flag.FlagSet, name string) (any, error) { return fs.GetFloat64(name) },
	},
	ArrayRef: {
		takesValue: true,
		greedyOK:   true,
		register:   func(fs *flag.FlagSet, name, comment string) { fs.StringArray(name, nil, comment) },
		value:      func(fs *flag.FlagSet, name string) (any, error) { return fs.GetStringArray(name) },
	},
	HashRef: {
		takesValue: true,
		greedyOK:   true,
		register:   func(fs *flag.FlagSet, name, comment string) { fs.StringToString(name, nil, comment) },
		value:      func(fs *flag.FlagSet, name string) (any, error) { return fs.GetStringToString(name) },
	},
	// SubCmd has no value slot. The matcher resolves its token against the
	// current node's children instead of coercing it.
	SubCmd: {
		argOnly: true,
	},
}

func typeOf(t Type) (typeSpec, error) {
	ts, ok := typeSpecs[t]
	if !ok {
		return typeSpec{}, fmt.Errorf("unknown type %s", t)
	}
	return ts, nil
}

// checkLiteral verifies a literal default against its declared type, so a
// mismatch is rejected when the tree is built rather than discovered in a
// parse result.
func checkLiteral(t Type, v any) error {
	var ok bool
	switch t {
	case Bool:
		_, ok = v.(bool)
	case Counter, Int:
		_, ok = v.(int)
	case Str:
		_, ok = v.(string)
	case Num:
		_, ok = v.(float64)
	case ArrayRef:
		_, ok = v.([]string)
	case HashRef:
		_, ok = v.(map[string]string)
	case SubCmd:
		_, ok = v.(string)
	}
	if !ok {
		return fmt.Errorf("default value %v (%T) does not match type %s", v, v, t)
	}
	return nil
}
