package vtreplay

// This file collects the capability interfaces the VT500 parser dispatches
// to, each paired with a Noop default so callers only implement the slots
// they actually care about.

// TerminalOutputHandler receives print and execute actions: ordinary
// printable glyphs and C0/C1 control functions respectively.
type TerminalOutputHandler interface {
	// Print is called for each printable byte, including the high-range
	// 0xA0-0xFF bytes: those are looked up as 0x20-0x7F but passed here
	// unchanged.
	Print(b byte)
	// Execute is called for each C0/C1 control function (BS, TAB, CR, LF, BEL, ...).
	Execute(b byte)
}

// NoopTerminalOutputHandler discards all print/execute callbacks.
type NoopTerminalOutputHandler struct{}

func (NoopTerminalOutputHandler) Print(b byte)   {}
func (NoopTerminalOutputHandler) Execute(b byte) {}

// ControlSequenceHandler receives completed escape and CSI sequences, each
// carrying the ParseContext accumulated over the sequence's lifetime
// (private marker, intermediate bytes, parameter string, final byte).
type ControlSequenceHandler interface {
	EscDispatch(ctx *ParseContext)
	CSIDispatch(ctx *ParseContext)
}

// NoopControlSequenceHandler discards all esc/csi dispatch callbacks.
type NoopControlSequenceHandler struct{}

func (NoopControlSequenceHandler) EscDispatch(ctx *ParseContext) {}
func (NoopControlSequenceHandler) CSIDispatch(ctx *ParseContext) {}

// DCSHandler receives a device control string: Hook selects the handler that
// will receive Put per body byte and the terminating Unhook, mirroring the
// reference parser's dc_string_handler indirection (Hook usually just
// returns the receiver itself, but may delegate to a nested handler keyed on
// the sequence's final byte).
type DCSHandler interface {
	Hook(ctx *ParseContext) DCSHandler
	Put(b byte)
	Unhook()
}

// NoopDCSHandler discards all DCS callbacks and selects itself as the string handler.
type NoopDCSHandler struct{}

func (h NoopDCSHandler) Hook(ctx *ParseContext) DCSHandler { return h }
func (NoopDCSHandler) Put(b byte)                          {}
func (NoopDCSHandler) Unhook()                              {}

// OSCHandler receives an operating-system-command string a byte at a time,
// between a Start/End pair.
type OSCHandler interface {
	Start()
	Put(b byte)
	End()
}

// NoopOSCHandler discards all OSC callbacks.
type NoopOSCHandler struct{}

func (NoopOSCHandler) Start()     {}
func (NoopOSCHandler) Put(b byte) {}
func (NoopOSCHandler) End()       {}
