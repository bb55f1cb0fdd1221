package cbor

import "strconv"

const resumableDefault = false

func quoteStr(s string) string { return strconv.Quote(s) }

var (
	// ErrEndOfBuffer is returned when the source slice is too short to
	// contain the next item's header or payload.
	ErrEndOfBuffer error = errEndOfBuffer{}

	// ErrMalformedEncoding is returned for reserved additional-information
	// values (28, 29, 30) and for a map finalized with an odd item count.
	ErrMalformedEncoding error = errMalformedEncoding{}

	// ErrNotImplemented is returned for indefinite-length items (AI 31).
	// Indefinite length is an explicit non-goal of this codec.
	ErrNotImplemented error = errNotImplemented{}

	// ErrNotAllowed is returned for reserved simple values (24..31 outside
	// the False/True/Null/Undefined set) and for a Tag whose closure wrote
	// more or fewer than exactly one item.
	ErrNotAllowed error = errNotAllowed{}

	// ErrUTF8 is returned when a text-string item's bytes are not valid
	// UTF-8.
	ErrUTF8 error = errUTF8{}

	// ErrAI is returned when additional-information bits do not match any
	// recognized encoding for the item being parsed.
	ErrAI error = errAI{}

	// ErrKeyNotPresent is returned by map lookup when no pair's key equals
	// the search key.
	ErrKeyNotPresent error = errKeyNotPresent{}

	// ErrValueNotPresent is returned by map lookup when the scan reaches a
	// key with no paired value after it (the map has an odd number of
	// items), whether or not that key matches.
	ErrValueNotPresent error = errValueNotPresent{}

	// ErrFailedPredicate is returned by WithPred when the supplied
	// predicate rejects an otherwise successfully parsed value.
	ErrFailedPredicate error = errFailedPredicate{}

	// ErrEofExpected is returned when a decoder expected the cursor to be
	// exhausted but bytes remained.
	ErrEofExpected error = errEofExpected{}

	// ErrBadDateTime is returned when a tag-0 item's text is not a valid
	// RFC 3339 date-time, or a tag-1 item's value is not a UInt/NInt/float.
	ErrBadDateTime error = errBadDateTime{}

	// ErrMaxDepthExceeded is returned when nested containers exceed the
	// recursion limit, guarding against adversarially deep input.
	ErrMaxDepthExceeded error = errMaxDepthExceeded{}

	// ErrNonCanonical is returned by a Cursor with strict mode enabled
	// when an item's header uses a wider integer/length/float encoding
	// than its value requires.
	ErrNonCanonical error = errNonCanonical{}
)

// ErrorCode is the flat 32-bit identifier space external callers use
// when carrying one of this package's errors across a foreign ABI. The
// codec itself only ever produces the short-buffer, bad-format,
// bad-state and not-implemented members; the rest of the space belongs
// to those callers.
type ErrorCode uint32

// Wire identifiers for the errors this package can produce.
const (
	CodeSuccess        ErrorCode = 0
	CodeGeneric        ErrorCode = 0xF0090000
	CodeBadFormat      ErrorCode = 0xF0090003
	CodeShortBuffer    ErrorCode = 0xF009000B
	CodeBadState       ErrorCode = 0xF009000F
	CodeNotImplemented ErrorCode = 0xF0000004
)

// CodeOf maps err to its wire identifier: CodeSuccess for nil, the
// error's own Code() when it has one, and CodeGeneric for everything
// else.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeSuccess
	}
	if c, ok := err.(interface{ Code() ErrorCode }); ok {
		return c.Code()
	}
	return CodeGeneric
}

// Error is the interface satisfied by all errors originating from this
// package.
type Error interface {
	error

	// Resumable reports whether the error leaves the cursor/buffer in a
	// state from which decoding could continue, as opposed to indicating
	// the stream itself is unrecoverably malformed.
	Resumable() bool
}

// Resumable reports whether e is a package Error and, if so, whether it is
// resumable. Errors from other packages are treated as non-resumable.
func Resumable(e error) bool {
	if e, ok := e.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

type errEndOfBuffer struct{}

func (errEndOfBuffer) Error() string   { return "cbor: buffer insufficient to process the next item" }
func (errEndOfBuffer) Resumable() bool { return false }
func (errEndOfBuffer) Code() ErrorCode { return CodeShortBuffer }

type errMalformedEncoding struct{}

func (errMalformedEncoding) Error() string   { return "cbor: encoding is illegal or unsupported" }
func (errMalformedEncoding) Resumable() bool { return false }
func (errMalformedEncoding) Code() ErrorCode { return CodeBadFormat }

type errNotImplemented struct{}

func (errNotImplemented) Error() string   { return "cbor: protocol feature not supported" }
func (errNotImplemented) Resumable() bool { return false }
func (errNotImplemented) Code() ErrorCode { return CodeNotImplemented }

type errNotAllowed struct{}

func (errNotAllowed) Error() string   { return "cbor: type or value not allowed here" }
func (errNotAllowed) Resumable() bool { return true }

type errUTF8 struct{}

func (errUTF8) Error() string   { return "cbor: text string contains invalid UTF-8" }
func (errUTF8) Resumable() bool { return false }
func (errUTF8) Code() ErrorCode { return CodeBadFormat }

type errAI struct{}

func (errAI) Error() string   { return "cbor: item has an unexpected additional-information encoding" }
func (errAI) Resumable() bool { return false }
func (errAI) Code() ErrorCode { return CodeBadFormat }

type errKeyNotPresent struct{}

func (errKeyNotPresent) Error() string   { return "cbor: map does not contain the requested key" }
func (errKeyNotPresent) Resumable() bool { return true }

type errValueNotPresent struct{}

func (errValueNotPresent) Error() string   { return "cbor: map does not contain a value for the found key" }
func (errValueNotPresent) Resumable() bool { return false }

type errFailedPredicate struct{}

func (errFailedPredicate) Error() string   { return "cbor: value failed predicate" }
func (errFailedPredicate) Resumable() bool { return true }

type errEofExpected struct{}

func (errEofExpected) Error() string   { return "cbor: expected end of buffer" }
func (errEofExpected) Resumable() bool { return true }
func (errEofExpected) Code() ErrorCode { return CodeBadState }

type errBadDateTime struct{}

func (errBadDateTime) Error() string   { return "cbor: bad date/time value" }
func (errBadDateTime) Resumable() bool { return true }

type errMaxDepthExceeded struct{}

func (errMaxDepthExceeded) Error() string   { return "cbor: max container nesting depth exceeded" }
func (errMaxDepthExceeded) Resumable() bool { return false }

type errNonCanonical struct{}

func (errNonCanonical) Error() string   { return "cbor: item is well-formed but not canonically encoded" }
func (errNonCanonical) Resumable() bool { return true }

// OutOfRangeError is returned when a decoded magnitude does not fit the
// requested host width, or when a host value does not fit the CBOR width
// being targeted (only reachable for values wider than 64 bits).
type OutOfRangeError struct {
	Value         int64 // the value that did not fit, when representable as int64
	FailedBitsize int   // the bit size that could not hold it
}

func (e OutOfRangeError) Error() string {
	return "cbor: " + strconv.FormatInt(e.Value, 10) + " does not fit a " + strconv.Itoa(e.FailedBitsize) + "-bit value"
}

// Resumable is always true for OutOfRangeError.
func (e OutOfRangeError) Resumable() bool { return true }

// IncompatibleTypeError is returned when a conversion is attempted against
// a Value whose Kind does not support it.
type IncompatibleTypeError struct {
	Want Type // type expected by the conversion
	Got  Type // type actually encoded
}

func (e IncompatibleTypeError) Error() string {
	return "cbor: attempted to convert " + quoteStr(e.Got.String()) + " as " + quoteStr(e.Want.String())
}

// Resumable is always true for IncompatibleTypeError.
func (e IncompatibleTypeError) Resumable() bool { return true }

// ExpectedTypeError is returned by a matcher/combinator when the next item
// does not have the requested shape.
type ExpectedTypeError struct {
	Want string
}

func (e ExpectedTypeError) Error() string {
	return "cbor: expected " + e.Want
}

// Resumable is always true for ExpectedTypeError: one item was consumed and
// the cursor can continue from the next one.
func (e ExpectedTypeError) Resumable() bool { return true }

// ExpectedTagError is returned when a tag was matched but its number did
// not equal the one requested.
type ExpectedTagError struct {
	Want uint64
	Got  uint64
}

func (e ExpectedTagError) Error() string {
	return "cbor: expected tag " + strconv.FormatUint(e.Want, 10) + "; got " + strconv.FormatUint(e.Got, 10)
}

// Resumable is always true for ExpectedTagError.
func (e ExpectedTagError) Resumable() bool { return true }

// RangeUnderflowError is returned by Range when fewer than min repetitions
// of a parser succeeded before the first failure.
type RangeUnderflowError struct {
	Got int
}

func (e RangeUnderflowError) Error() string {
	return "cbor: range underflow, matched only " + strconv.Itoa(e.Got) + " item(s)"
}

// Resumable is always true for RangeUnderflowError.
func (e RangeUnderflowError) Resumable() bool { return true }
