package vtreplay

// LineElement is the tagged union held by a LogicalLine: either a printable
// code point or an opaque CSI sequence carried through for later rendering.
// Mirrors terminal2html.py's LineBuilder, which stores either an int code
// point or a ('CSI', [...]) tuple in the same slice.
type LineElement struct {
	// IsCSI distinguishes the two variants. When false, Rune holds the
	// printable code point; when true, the CSI fields are populated.
	IsCSI bool
	Rune  rune

	CSIPrivate      byte
	CSIParams       string
	CSIIntermediate string
	CSIFinal        byte
}

// LogicalLine accumulates a single line of output under BS/TAB/CR/LF and
// cursor-editing CSI control codes. PrefixStart marks the floor below which
// the cursor may never move — the opaque prefix written by a previous
// builder pass (e.g. the shell's own prompt text).
type LogicalLine struct {
	elements    []LineElement
	cursor      int
	prefixStart int
}

// NewLogicalLine returns an empty LogicalLine with no prefix protection.
func NewLogicalLine() *LogicalLine {
	return &LogicalLine{}
}

// Reset clears the line and resets the cursor and prefix floor to zero.
func (l *LogicalLine) Reset() {
	l.elements = l.elements[:0]
	l.cursor = 0
	l.prefixStart = 0
}

// SetPrefixStart freezes the current printable length as the floor the
// cursor may not move below; used when the command-line builder switches
// into "accept command-line edits" mode on prompt_active.
func (l *LogicalLine) SetPrefixStart(n int) {
	l.prefixStart = n
}

// PrefixStart returns the current prefix floor.
func (l *LogicalLine) PrefixStart() int {
	return l.prefixStart
}

// Cursor returns the current cursor index into the element slice.
func (l *LogicalLine) Cursor() int {
	return l.cursor
}

// printableSize returns the summed display width of the elements that are
// not opaque CSI tuples, i.e. the terminal columns the line occupies.
func (l *LogicalLine) printableSize() int {
	n := 0
	for _, e := range l.elements {
		if !e.IsCSI {
			n += runeWidth(e.Rune)
		}
	}
	return n
}

// PrintableSize is the exported form of printableSize.
func (l *LogicalLine) PrintableSize() int {
	return l.printableSize()
}

// Text renders the printable elements back to a string, skipping opaque CSI
// tuples, in element order.
func (l *LogicalLine) Text() string {
	var runes []rune
	for _, e := range l.elements {
		if !e.IsCSI {
			runes = append(runes, e.Rune)
		}
	}
	return string(runes)
}

// Elements returns the line's elements in order. The returned slice aliases
// internal state and must not be mutated.
func (l *LogicalLine) Elements() []LineElement {
	return l.elements
}

// Print appends or overwrites the element at the cursor with a printable
// rune, advancing the cursor by one, mirroring LineBuilder.print's
// insert-or-overwrite behavior.
func (l *LogicalLine) Print(r rune) {
	el := LineElement{Rune: r}
	if l.cursor >= len(l.elements) {
		l.elements = append(l.elements, el)
	} else {
		l.elements[l.cursor] = el
	}
	l.cursor++
}

// Execute applies a C0 control function: BS decrements the cursor (never
// below prefixStart), TAB is treated as printable, CR resets the cursor to
// prefixStart, LF appends a line-feed element and advances.
func (l *LogicalLine) Execute(b byte) error {
	switch b {
	case 0x08: // BS
		if l.cursor > l.prefixStart {
			l.cursor--
		}
	case 0x09: // TAB
		l.Print(rune(b))
	case 0x0D: // CR
		l.cursor = l.prefixStart
	case 0x0A: // LF
		if l.cursor < l.prefixStart {
			return &PrefixViolationError{Cursor: l.cursor, PrefixStart: l.prefixStart}
		}
		l.elements = append(l.elements, LineElement{Rune: rune(b)})
		l.cursor++
	}
	return nil
}

// insertAt inserts el at index i, shifting subsequent elements right.
func (l *LogicalLine) insertAt(i int, el LineElement) {
	l.elements = append(l.elements, LineElement{})
	copy(l.elements[i+1:], l.elements[i:])
	l.elements[i] = el
}

// CSI applies a cursor-editing control sequence (one of the supported
// final bytes) or else stores it as an opaque element. SGR ('m') sequences
// are appended as opaque elements unless ignoreSGR is set, in which case
// they are dropped (HTMLRenderer sets it for the command line and leaves it
// unset for the term line, whose SGR elements it translates on flush).
func (l *LogicalLine) CSI(ctx *ParseContext, ignoreSGR bool) error {
	final := ctx.Final
	params := ctx.ParamString()

	switch final {
	case '@': // insert blank characters
		if l.cursor < l.prefixStart {
			return &PrefixViolationError{Cursor: l.cursor, PrefixStart: l.prefixStart}
		}
		n := csiCount(params)
		for ; n > 0; n-- {
			l.insertAt(l.cursor, LineElement{Rune: ' '})
		}
	case 'C': // cursor forward
		n := csiCount(params)
		for ; n > 0; n-- {
			if l.cursor >= len(l.elements) {
				l.elements = append(l.elements, LineElement{Rune: ' '})
			}
			l.cursor++
		}
	case 'D': // cursor backward
		n := csiCount(params)
		for ; n > 0 && l.cursor > l.prefixStart; n-- {
			l.cursor--
		}
	case 'K': // erase in line
		if params == "" || params == "0" {
			l.elements = l.elements[:l.cursor]
		} else {
			return &UnsupportedCsiError{Final: final, Params: params, Intermediate: ctx.IntermediateString()}
		}
	case 'P': // delete character
		n := csiCount(params)
		end := l.cursor + n
		if end > len(l.elements) {
			end = len(l.elements)
		}
		l.elements = append(l.elements[:l.cursor], l.elements[end:]...)
	case 'X': // erase character
		n := csiCount(params)
		for i := 0; i < n && l.cursor+i < len(l.elements); i++ {
			l.elements[l.cursor+i] = LineElement{Rune: ' '}
		}
	case 'm':
		if !ignoreSGR {
			l.appendOpaqueCSI(ctx)
		}
	default:
		l.appendOpaqueCSI(ctx)
	}
	return nil
}

func (l *LogicalLine) appendOpaqueCSI(ctx *ParseContext) {
	el := LineElement{
		IsCSI:           true,
		CSIPrivate:      ctx.PrivateFlag,
		CSIParams:       ctx.ParamString(),
		CSIIntermediate: ctx.IntermediateString(),
		CSIFinal:        ctx.Final,
	}
	if l.cursor >= len(l.elements) {
		l.elements = append(l.elements, el)
	} else {
		l.elements[l.cursor] = el
	}
	l.cursor++
}

// csiCount parses a CSI numeric parameter, defaulting to 1 when empty, per
// ECMA-48's default-parameter convention.
func csiCount(params string) int {
	if params == "" {
		return 1
	}
	n := 0
	for _, c := range params {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return 1
	}
	return n
}
