package vtreplay

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

var htmlEscapes = map[rune]string{
	'&': "&amp;",
	'>': "&gt;",
	'<': "&lt;",
	'"': "&quot;",
}

// HTMLRenderer consumes a SessionDetector's session events plus the raw
// print/execute/csi_dispatch stream and writes a single HTML document,
// maintaining the span stack and translating SGR parameters to CSS
// classes/styles. It implements TerminalOutputHandler, ControlSequenceHandler
// (installed as a SessionDetector's InnerControl) and SessionEventListener.
type HTMLRenderer struct {
	out      io.Writer
	palette  Palette
	darkBg   bool
	title    string

	chapters map[int]string
	suppress map[int]bool
	review   bool

	spans      SpanStack
	termLine   *LogicalLine
	cmdLine    *LogicalLine
	inPrompt   bool
	inVim      bool
	blockCount int

	Logger *slog.Logger
}

// NewHTMLRenderer constructs a renderer writing to out with the given
// palette and background mode, mirroring HtmlDocumentCreator.__init__.
func NewHTMLRenderer(out io.Writer, palette Palette, darkBg bool, title string) *HTMLRenderer {
	r := &HTMLRenderer{
		out:      out,
		palette:  palette,
		darkBg:   darkBg,
		title:    title,
		chapters: make(map[int]string),
		suppress: make(map[int]bool),
		termLine: NewLogicalLine(),
		cmdLine:  NewLogicalLine(),
		Logger:   slog.Default(),
	}
	return r
}

// SetChapters installs the command-index → heading map used to emit <h3>
// chapter anchors.
func (r *HTMLRenderer) SetChapters(ch map[int]string) { r.chapters = ch }

// SetSuppress installs the set of command-block indices whose output
// (including the prompt and command line) should be discarded entirely.
func (r *HTMLRenderer) SetSuppress(idx []int) {
	r.suppress = make(map[int]bool, len(idx))
	for _, i := range idx {
		r.suppress[i] = true
	}
}

// SetReview toggles review mode (frame-timestamp debug elements and visible
// sub-session dumps).
func (r *HTMLRenderer) SetReview(review bool) { r.review = review }

// BlockCount returns the index of the command block currently open, for a
// driver wiring AsciinemaPipeline to this renderer's block numbering.
func (r *HTMLRenderer) BlockCount() int { return r.blockCount }

// WriteIntro writes the document's opening <html>/<head>/<style>/<body> and
// the first command block's <pre>, translating the palette into the CSS
// color-class table keyed by the "f<n>"/"b<n>"/"ef<n>"/"eb<n>" class names
// terminal2html.py's HTML_INTRO template defines.
func (r *HTMLRenderer) WriteIntro() {
	fg, bg := ForegroundBackground(r.palette, r.darkBg)
	table256 := DefaultPalette256(r.palette)

	fmt.Fprintf(r.out, "<html>\n<head>\n<meta http-equiv=\"Content-Type\" content=\"text/html; charset=utf-8\"/>\n<title>%s</title>\n<style type=\"text/css\">\n", htmlEscapeString(r.title))
	fmt.Fprintf(r.out, "h1 { text-align: center; color: #f0f5f5; }\nh2 { text-align: center; color: #f0f5f5; }\npre { white-space: pre-wrap; }\n")
	for i := 0; i < 16; i++ {
		c := r.palette.Colors[i]
		fmt.Fprintf(r.out, ".f%d { color: %s; }\n.b%d { background-color: %s; }\n", i, rgbaHex(c), i, rgbaHex(c))
	}
	for i := 16; i < 256; i++ {
		c := table256[i]
		fmt.Fprintf(r.out, ".ef%d { color: %s; }\n.eb%d { background-color: %s; }\n", i, rgbaHex(c), i, rgbaHex(c))
	}
	fmt.Fprintf(r.out, ".bold { font-weight: bold; }\n.underline { text-decoration: underline; }\n")
	for i := 0; i < 8; i++ {
		bright := r.palette.Colors[i+8]
		fmt.Fprintf(r.out, ".f%d > .bold, .bold > .f%d { color: %s; }\n", i, i, rgbaHex(bright))
	}
	bf := BoldForeground(r.palette, r.darkBg, true)
	fmt.Fprintf(r.out, "body > pre > .bold { color: %s; }\n", rgbaHex(bf))
	fmt.Fprintf(r.out, ".blink { text-decoration: blink; }\n")
	fmt.Fprintf(r.out, ".reverse { color: %s; background-color: %s; }\n", rgbaHex(r.palette.Colors[0]), rgbaHex(r.palette.Colors[7]))
	fmt.Fprintf(r.out, ".vim-session { color: #9696cc; }\n")
	fmt.Fprintf(r.out, "</style>\n</head>\n<body style=\"color:%s;background-color:%s;\">\n<h1>%s</h1>\n<pre>\n", rgbaHex(fg), rgbaHex(bg), htmlEscapeString(r.title))
}

// Finish writes the closing </pre></body></html>.
func (r *HTMLRenderer) Finish() {
	io.WriteString(r.out, "\n</pre>\n</body>\n</html>\n")
}

func (r *HTMLRenderer) suppressed() bool {
	return r.suppress[r.blockCount]
}

// --- TerminalOutputHandler ---

// Print routes a printable byte to the command line (inside a prompt), the
// vim marker pass-through (discarded while in vim), or the term line.
func (r *HTMLRenderer) Print(b byte) {
	if r.suppressed() {
		return
	}
	switch {
	case r.inPrompt:
		r.cmdLine.Print(rune(b))
	case r.inVim:
		// editor output is replayed from its own sub-recording, not printed here.
	default:
		r.termLine.Print(rune(b))
	}
}

// Execute routes a C0/C1 control byte the same way Print does, flushing the
// term line to the document on LF.
func (r *HTMLRenderer) Execute(b byte) {
	if r.suppressed() {
		return
	}
	switch {
	case r.inPrompt:
		r.cmdLine.Execute(b)
	case r.inVim:
	case b == 0x0A:
		r.termLine.Execute(b)
		r.flushTermLine()
	default:
		r.termLine.Execute(b)
	}
}

func (r *HTMLRenderer) flushTermLine() {
	for _, el := range r.termLine.Elements() {
		if el.IsCSI {
			r.writeSGR(el.CSIParams)
		} else {
			r.writeRune(el.Rune)
		}
	}
	r.termLine.Reset()
}

func (r *HTMLRenderer) writeRune(rn rune) {
	if esc, ok := htmlEscapes[rn]; ok {
		io.WriteString(r.out, esc)
		return
	}
	io.WriteString(r.out, string(rn))
}

// --- ControlSequenceHandler (installed as SessionDetector.InnerControl) ---

// EscDispatch is not used by the renderer directly; SessionDetector handles
// keypad-mode tracking itself.
func (r *HTMLRenderer) EscDispatch(ctx *ParseContext) {}

// CSIDispatch routes every CSI, SGR ('m') included, to whichever LogicalLine
// is active; SGR kept in the term line is translated into span open/close
// HTML when that line is flushed. Device status reports and device
// attribute queries are discarded, as is everything inside a vim session.
func (r *HTMLRenderer) CSIDispatch(ctx *ParseContext) {
	if r.suppressed() {
		return
	}
	if ctx.Final == 'n' {
		return // device status report: discard
	}
	if ctx.Final == 'c' && (ctx.ParamString() == "" || ctx.ParamString() == "0") {
		return // device attributes: discard
	}

	switch {
	case r.inPrompt:
		if err := r.cmdLine.CSI(ctx, true); err != nil {
			r.Logger.Warn("discarding command-line csi", "err", err)
		}
	case r.inVim:
	default:
		// SGR is stored as an opaque element alongside the printable runes
		// it decorates, rather than written straight to out, so flushTermLine
		// can translate it at the point in the line it actually occurred.
		if err := r.termLine.CSI(ctx, false); err != nil {
			r.Logger.Warn("discarding term-line csi", "err", err)
		}
	}
}

// writeSGR translates one SGR parameter group into span open/close writes.
func (r *HTMLRenderer) writeSGR(param string) {
	if param == "" || param == "0" || param == "00" {
		io.WriteString(r.out, r.spans.CloseAll())
		return
	}

	params := strings.Split(param, ";")

	if params[0] == "38" || params[0] == "48" {
		r.writeIndexedOrRGB(params)
		return
	}

	var toOpen []span
	for _, p := range params {
		n, err := strconv.Atoi(p)
		if err != nil {
			r.Logger.Warn("unsupported sgr parameter", "param", p)
			continue
		}
		switch {
		case n >= 30 && n <= 37:
			toOpen = append([]span{{kind: spanForeground, class: "f" + strconv.Itoa(n-30)}}, toOpen...)
		case n >= 40 && n <= 47:
			toOpen = append([]span{{kind: spanBackground, class: "b" + strconv.Itoa(n-40)}}, toOpen...)
		case n >= 90 && n <= 97:
			toOpen = append([]span{{kind: spanForeground, class: "ef" + strconv.Itoa(8+n-90)}}, toOpen...)
		case n >= 100 && n <= 107:
			toOpen = append([]span{{kind: spanBackground, class: "eb" + strconv.Itoa(8+n-100)}}, toOpen...)
		case n == 1:
			toOpen = append(toOpen, span{kind: spanBold, class: "bold"})
		case n == 4:
			toOpen = append(toOpen, span{kind: spanUnderline, class: "underline"})
		case n == 5:
			toOpen = append(toOpen, span{class: "blink"})
		case n == 7:
			toOpen = append(toOpen, span{kind: spanReverse, class: "reverse"})
		case n == 22:
			io.WriteString(r.out, r.spans.CloseOne(spanBold))
		case n == 24:
			io.WriteString(r.out, r.spans.CloseOne(spanUnderline))
		case n == 27:
			io.WriteString(r.out, r.spans.CloseOne(spanReverse))
		case n == 39:
			io.WriteString(r.out, r.spans.CloseOne(spanForeground))
		case n == 49:
			io.WriteString(r.out, r.spans.CloseOne(spanBackground))
		default:
			r.Logger.Warn("unsupported sgr code", "code", n)
		}
	}
	for _, sp := range toOpen {
		io.WriteString(r.out, r.spans.Open(sp))
	}
}

func (r *HTMLRenderer) writeIndexedOrRGB(params []string) {
	if len(params) != 3 && len(params) != 5 && len(params) != 6 {
		r.Logger.Warn("sgr 38/48 with unsupported parameter count", "params", strings.Join(params, ";"))
		return
	}
	fg := params[0] == "38"
	indicator := params[1]
	if indicator == "5" {
		idx := params[2]
		kind := spanForeground
		class := "ef" + idx
		if !fg {
			kind = spanBackground
			class = "eb" + idx
		}
		io.WriteString(r.out, r.spans.Open(span{kind: kind, class: class}))
		return
	}
	rC, gC, bC := params[len(params)-3], params[len(params)-2], params[len(params)-1]
	var style string
	kind := spanForeground
	if fg {
		style = "color:rgb(" + rC + "," + gC + "," + bC + ")"
	} else {
		kind = spanBackground
		style = "background-color:rgb(" + rC + "," + gC + "," + bC + ")"
	}
	io.WriteString(r.out, r.spans.Open(span{kind: kind, style: style}))
}

// --- SessionEventListener ---

// PromptStart closes all open spans, closes the current block's <pre>, emits
// a "cmd N" comment in review mode and the chapter heading if one is set,
// and opens a new block. No hop link is written.
func (r *HTMLRenderer) PromptStart() {
	r.blockCount++
	if r.suppress[r.blockCount] {
		return
	}
	io.WriteString(r.out, r.spans.CloseAll())
	io.WriteString(r.out, "\n</pre>\n")
	if r.review {
		fmt.Fprintf(r.out, "<!-- cmd %d -->\n", r.blockCount)
	}
	if heading, ok := r.chapters[r.blockCount]; ok {
		fmt.Fprintf(r.out, "<h3 id=\"c%d\">%s</h3>\n", r.blockCount, htmlEscapeString(heading))
	}
	fmt.Fprintf(r.out, "<div class=\"cmd-row\" id=\"c%d\">\n<pre>\n", r.blockCount)
}

// PromptActive flushes any buffered normal-output line, starts an empty
// command line, and switches into command-line edit mode. The command
// line's prefix start is its own printable length after the reset, which is
// 0: the flushed prompt text is not carried into it and is not protected as
// a prefix region.
func (r *HTMLRenderer) PromptActive() {
	if r.suppressed() {
		return
	}
	r.flushTermLine()
	r.cmdLine.Reset()
	r.cmdLine.SetPrefixStart(r.cmdLine.PrintableSize())
	r.inPrompt = true
}

// PromptEnd renders the assembled command line verbatim.
func (r *HTMLRenderer) PromptEnd() {
	if !r.suppressed() {
		for _, el := range r.cmdLine.Elements() {
			if !el.IsCSI {
				r.writeRune(el.Rune)
			}
		}
	}
	r.inPrompt = false
}

// VimStart marks entry into an editor sub-session; actual frame capture is
// owned by AsciinemaPipeline, not the renderer.
func (r *HTMLRenderer) VimStart(props VimStartProps) {
	r.inVim = true
}

// VimEnd marks exit from an editor sub-session and writes the inline
// marker. The full <details> embedding happens via EmbedEditorSession once
// AsciinemaPipeline has finalized the sub-recording.
func (r *HTMLRenderer) VimEnd() {
	r.inVim = false
	if r.suppressed() {
		return
	}
	io.WriteString(r.out, `<span class="vim-session">     [==-- Vim editor session --==]</span>`+"\n")
}

// EmbedEditorSession writes the <details> dropdown for a finalized editor
// sub-session: a <summary> giving its frame count and, in review mode only,
// a dump <pre> of the sub-recording. No replay player element is written.
func (r *HTMLRenderer) EmbedEditorSession(sess *EditorSubSession, ddCount, cmdNum int) {
	if r.suppressed() {
		return
	}
	sessionID := fmt.Sprintf("vimsession-%d-%d", ddCount, cmdNum)
	fmt.Fprintf(r.out, "<details class=\"vimsession-dropdown\" id=\"%s\">\n", sessionID)
	fmt.Fprintf(r.out, "<summary>Vim session (%d frames)</summary>\n", len(sess.Frames))
	if r.review {
		fmt.Fprintf(r.out, "<pre class=\"vimsession-dump\">%s</pre>\n", htmlEscapeString(sess.ToString()))
	}
	io.WriteString(r.out, "</details>\n")
}

func htmlEscapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		if esc, ok := htmlEscapes[r]; ok {
			b.WriteString(esc)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func rgbaHex(c interface{ RGBA() (uint32, uint32, uint32, uint32) }) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
