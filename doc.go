// Package vtreplay converts recorded terminal sessions into richly
// formatted HTML transcripts, with embedded interactive replays for
// editor (Vim) sub-sessions.
//
// # Quick Start
//
// The package exposes a streaming pipeline, not a single entry-point
// function: callers wire together a [Parser], a [SessionDetector], and
// an [HTMLRenderer] (plus an [AsciinemaPipeline] when the input is an
// asciinema recording rather than a raw byte log):
//
//	parser := vtreplay.NewParser()
//	detector := vtreplay.NewSessionDetector(parser, "")
//	renderer := vtreplay.NewHTMLRenderer(out, vtreplay.MyDracula, true, "session")
//	parser.Output = renderer
//	detector.InnerControl = renderer
//	detector.Listener = renderer
//	renderer.WriteIntro()
//	// feed lines: detector.ParseLine(line)
//	renderer.Finish()
//
// # Architecture
//
// Six components make up the pipeline, each depending only on the ones
// before it:
//
//   - [Parser] is a byte-driven state machine implementing the DEC-ANSI
//     VT500 parser: it turns a byte stream into print/execute/esc_dispatch/
//     csi_dispatch/hook/put/unhook/osc_start/osc_put/osc_end callbacks on
//     four capability interfaces.
//   - [SessionDetector] wraps a Parser, inspecting every dispatched
//     control sequence and OSC string to recognize shell-prompt
//     boundaries and Vim enter/exit, without consuming the Parser's
//     public handler slots.
//   - [LogicalLine] accumulates a single line of output under
//     cursor-editing control codes (BS, TAB, CR, LF, and the CSI
//     @/C/D/K/P/X family), used both for normal terminal output and for
//     the shell's own command-line echo.
//   - [HTMLRenderer] consumes a SessionDetector's events plus the
//     raw print/execute/csi_dispatch stream, translating SGR parameters
//     into CSS spans via [SpanStack] and writing one `<div class="cmd-row">`
//     per shell command.
//   - [AsciinemaPipeline] drives an asciinema [Recording]'s frames
//     through a SessionDetector, slicing out the frames between a
//     vim_start and vim_end into a re-timed [EditorSubSession].
//   - [HopAlign] time-aligns two asciinema recordings and returns the
//     attention-switch timestamps between them, for review-mode pages
//     that show two transcripts side by side.
//
// # Capability Objects
//
// Rather than a single monolithic handler interface, Parser exposes four
// narrow capabilities — [TerminalOutputHandler], [ControlSequenceHandler],
// [DCSHandler], [OSCHandler] — each with a Noop default
// (NoopTerminalOutputHandler, NoopControlSequenceHandler, NoopDCSHandler,
// NoopOSCHandler) so a caller only implements the slots it cares about.
// [SessionDetector] composes above the parser by installing itself as the
// control-sequence and OSC handler and forwarding every event to an inner
// handler (InnerControl, InnerOSC) after inspecting it — so an application
// can still receive raw CSI dispatches through the detector without losing
// session-level events.
//
// # Colors
//
// Three named 16-color schemes are bundled — [Dracula], [MyDracula],
// [TangoDark] — plus [DefaultPalette256], which expands any of them into
// the standard 256-color terminal palette (16 named colors, a 216-color
// RGB cube, 24 grayscale steps) used as the indexed-color fallback for
// SGR "38;5;n" / "48;5;n".
//
// # Error Handling
//
// The parser fails fast: an [UnmappedInputError] is returned immediately
// and the caller is expected to abort the input loop, typically wrapping
// it with the offending line number. Renderer-side problems are not fatal:
// HTMLRenderer logs an unsupported SGR code and skips it, logs and drops a
// CSI that [LogicalLine] rejects with [UnsupportedCsiError], and discards
// the [PrefixViolationError] a line feed can return, then carries on with
// the file. [OscOverflowError] is a warn-and-truncate condition as well.
//
// # Thread Safety
//
// Every component in this package is single-threaded and pull-driven: the
// caller supplies bytes or frames synchronously and none of the types here
// perform their own I/O or spawn goroutines. Concurrent jobs (e.g.
// converting several recordings at once) should each use their own Parser/
// SessionDetector/HTMLRenderer set; nothing is shared across instances.
//
// # Supported ANSI Sequences
//
// Parser implements the full fourteen-state VT500 transition table, so any
// well-formed ESC/CSI/DCS/OSC/SOS/PM/APC sequence parses correctly even
// when the higher layers do not assign it semantics. HTMLRenderer
// explicitly interprets SGR codes 0, 1, 4, 5, 7, 22, 24, 27, 30-39, 40-49,
// 90-97, 100-107; cursor-editing CSIs @, C, D, K, P, X are interpreted by
// [LogicalLine]. Device status reports (CSI n) and device attribute
// queries (CSI c, CSI 0c) are discarded, as is every CSI inside a vim
// session; all other CSIs are carried through the line as opaque elements
// for later inspection.
package vtreplay
