// Package errs defines the error taxonomy shared by every layer of the
// spelling engine: the language model, the dictionary backends, and the
// speller/suggest pipelines.
//
// Errors carry a Kind so callers can branch on category (errors.Is against
// an *Error built with the same Kind, see Error.Is) while the message retains file/position
// context added by the nearest file-reading frame.
package errs

import "fmt"

// Kind classifies an error without binding callers to its exact message.
type Kind int

const (
	_ Kind = iota
	IO
	BadFileFormat
	UnknownLanguage
	LanguageMismatch
	UnknownEncoding
	EncodingConversionFailed
	InvalidWord
	InvalidFlag
	BadValue
	UnknownKey
	CantChangeValue
	MismatchedSoundslike
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "IO"
	case BadFileFormat:
		return "BadFileFormat"
	case UnknownLanguage:
		return "UnknownLanguage"
	case LanguageMismatch:
		return "LanguageMismatch"
	case UnknownEncoding:
		return "UnknownEncoding"
	case EncodingConversionFailed:
		return "EncodingConversionFailed"
	case InvalidWord:
		return "InvalidWord"
	case InvalidFlag:
		return "InvalidFlag"
	case BadValue:
		return "BadValue"
	case UnknownKey:
		return "UnknownKey"
	case CantChangeValue:
		return "CantChangeValue"
	case MismatchedSoundslike:
		return "MismatchedSoundslike"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the concrete error type returned by every package in this
// module. Path and Line are optional file-position annotations added by
// the frame that was reading a file when the error occurred.
type Error struct {
	Kind Kind
	Msg  string
	Path string
	Line int
	err  error // wrapped cause, if any
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s: %s at %s:%d", e.Kind, e.Msg, e.Path, e.Line)
	case e.Path != "":
		return fmt.Sprintf("%s: %s at %s", e.Kind, e.Msg, e.Path)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same Kind, allowing
// errors.Is(err, errs.New(errs.BadFileFormat, "")) style sentinel checks.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error with the given kind and message.
func New(kind Kind, msg string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(msg, args...)}
}

// Wrap builds an *Error that wraps cause, preserving it for errors.Unwrap.
func Wrap(kind Kind, cause error, msg string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(msg, args...), err: cause}
}

// At annotates an error with the file position it was discovered at,
// following the "nearest file-reading frame" propagation rule: the
// innermost call that knows the path and line decorates the error; outer
// frames pass it through unchanged.
func (e *Error) At(path string, line int) *Error {
	if e.Path == "" {
		e.Path = path
	}
	if e.Line == 0 {
		e.Line = line
	}
	return e
}

// InvalidWordReason enumerates the specific reasons check_if_valid rejects
// a word, per §7 of the language model design.
type InvalidWordReason int

const (
	ReasonEmpty InvalidWordReason = iota
	ReasonNoLetters
	ReasonIllegalLeading
	ReasonIllegalTrailing
	ReasonIllegalMiddle
)

// InvalidWordErr builds an InvalidWord error for the given reason, embedding
// the offending character when one applies.
func InvalidWordErr(reason InvalidWordReason, ch byte) *Error {
	var msg string
	switch reason {
	case ReasonEmpty:
		msg = "word is empty"
	case ReasonNoLetters:
		msg = "word contains no letters"
	case ReasonIllegalLeading:
		msg = fmt.Sprintf("illegal leading character %q", ch)
	case ReasonIllegalTrailing:
		msg = fmt.Sprintf("illegal trailing character %q", ch)
	case ReasonIllegalMiddle:
		msg = fmt.Sprintf("illegal middle character %q", ch)
	default:
		msg = "invalid word"
	}
	return New(InvalidWord, "%s", msg)
}
