package header

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidName is returned for symbol names that would not compile.
var ErrInvalidName = errors.New("invalid symbol name")

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Names the emitted declarations can't use: C11 keywords and the types the
// header refers to.
var reserved = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "struct": true, "switch": true, "typedef": true, "union": true,
	"unsigned": true, "void": true, "volatile": true, "while": true,
	"_Alignas": true, "_Alignof": true, "_Atomic": true, "_Bool": true, "_Complex": true,
	"_Generic": true, "_Imaginary": true, "_Noreturn": true, "_Static_assert": true,
	"_Thread_local": true,

	// Types used by the emitted header itself.
	"GFXimage": true, "uint8_t": true,
}

// ValidName checks name can be used as the symbol name: a C identifier that
// isn't a keyword or a type used by the header. Its upper cased include guard
// is then a valid macro name too.
// Names are rejected rather than sanitized, so the symbol is always the one asked for.
func ValidName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case !identifier.MatchString(name):
		return fmt.Errorf("%w: %q is not a C identifier", ErrInvalidName, name)
	case reserved[name]:
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}
	return nil
}
