package vtreplay

import "fmt"

// UnsupportedSgrError describes an SGR parameter (CSI ... m) with no known
// translation to a CSS rule. HTMLRenderer does not return it: it logs the
// unsupported parameter, drops it, and continues.
type UnsupportedSgrError struct {
	Param string
}

func (e *UnsupportedSgrError) Error() string {
	return fmt.Sprintf("vtreplay: unsupported sgr parameter %q", e.Param)
}

// UnsupportedCsiError is returned by the line builder for an erase-in-line
// (CSI K) whose parameter is neither empty nor "0". CSI sequences with other
// final bytes the line builder does not interpret are stored as opaque
// elements instead.
type UnsupportedCsiError struct {
	Final        byte
	Intermediate string
	Params       string
}

func (e *UnsupportedCsiError) Error() string {
	return fmt.Sprintf("vtreplay: unsupported csi sequence %s%s%c", e.Params, e.Intermediate, e.Final)
}

// PrefixViolationError is returned when a line feed or an insert-blank
// (CSI @) arrives while the write cursor is below prefix_start, violating
// the line builder's "never rewrite the opaque prefix" invariant. Cursor
// movement (BS, CSI D) is clamped at prefix_start instead.
type PrefixViolationError struct {
	Cursor      int
	PrefixStart int
}

func (e *PrefixViolationError) Error() string {
	return fmt.Sprintf("vtreplay: cursor %d would move before prefix_start %d", e.Cursor, e.PrefixStart)
}

// OscOverflowError describes an OSC string that exceeds the session
// detector's maximum buffered length without terminating. SessionDetector
// does not return it: it logs it as a warning and truncates the string.
type OscOverflowError struct {
	Limit int
}

func (e *OscOverflowError) Error() string {
	return fmt.Sprintf("vtreplay: osc string exceeded %d bytes without terminator", e.Limit)
}

// UnsupportedInputFormatError is returned by the asciinema loader when a
// recording's header or frame format cannot be parsed.
type UnsupportedInputFormatError struct {
	Reason string
}

func (e *UnsupportedInputFormatError) Error() string {
	return fmt.Sprintf("vtreplay: unsupported input format: %s", e.Reason)
}

// LineError wraps an error encountered while processing a specific input
// line, attaching the line number for diagnostics. Mirrors the job driver's
// policy of reporting the offending line alongside a parser error.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("vtreplay: line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
