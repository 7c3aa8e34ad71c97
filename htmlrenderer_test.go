package vtreplay

import (
	"strings"
	"testing"
)

func newTestRenderer() (*HTMLRenderer, *strings.Builder) {
	var buf strings.Builder
	r := NewHTMLRenderer(&buf, MyDracula, true, "test")
	return r, &buf
}

func TestHTMLRendererBoldThenResetWrapsExactlyTheDecoratedText(t *testing.T) {
	r, buf := newTestRenderer()
	r.CSIDispatch(csiCtx('m', "1"))
	r.Print('X')
	r.CSIDispatch(csiCtx('m', "0"))
	r.Execute(0x0A)

	want := "<span class=\"bold\">X</span>\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestHTMLRendererSelectiveCloseLeavesOuterSpanOpen(t *testing.T) {
	r, buf := newTestRenderer()
	r.CSIDispatch(csiCtx('m', "4"))  // underline
	r.CSIDispatch(csiCtx('m', "1"))  // bold, nested inside underline
	r.Print('Y')
	r.CSIDispatch(csiCtx('m', "22")) // close only bold
	r.Print('Z')
	r.Execute(0x0A)

	// Bold is innermost with nothing opened above it, so closing it just
	// closes that one span; underline (below it on the stack) stays open
	// around the text that follows.
	want := "<span class=\"underline\"><span class=\"bold\">Y</span>Z\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if r.spans.Len() != 1 {
		t.Errorf("spans left open = %d, want 1 (underline)", r.spans.Len())
	}
}

func TestHTMLRendererPromptSequenceWritesCmdRow(t *testing.T) {
	r, buf := newTestRenderer()
	r.WriteIntro()

	r.PromptStart()
	r.PromptActive()
	for _, b := range []byte("ls\r\n") {
		r.cmdLine.Print(rune(b))
	}
	r.PromptEnd()

	out := buf.String()
	if !strings.Contains(out, "<div class=\"cmd-row\" id=\"c1\">") {
		t.Errorf("missing cmd-row div, got %q", out)
	}
	if r.blockCount != 1 {
		t.Errorf("blockCount = %d, want 1", r.blockCount)
	}
}

func TestHTMLRendererVimMarkerWrittenOnVimEnd(t *testing.T) {
	r, buf := newTestRenderer()
	r.VimStart(VimStartProps{})
	if !r.inVim {
		t.Fatal("expected inVim = true after VimStart")
	}
	r.VimEnd()
	if r.inVim {
		t.Fatal("expected inVim = false after VimEnd")
	}
	if !strings.Contains(buf.String(), "vim-session") {
		t.Errorf("output missing vim-session marker, got %q", buf.String())
	}
}

func TestHTMLRendererSuppressedBlockWritesNothing(t *testing.T) {
	r, buf := newTestRenderer()
	r.SetSuppress([]int{1})

	r.PromptStart() // blockCount becomes 1, suppressed
	r.Print('x')
	r.Execute(0x0A)
	r.PromptEnd()

	if buf.Len() != 0 {
		t.Errorf("suppressed block wrote %q, want nothing", buf.String())
	}
}

func TestHTMLRendererUnsupportedSgrCountDoesNotPanic(t *testing.T) {
	r, _ := newTestRenderer()
	r.CSIDispatch(csiCtx('m', "38;7;1;2"))
	r.Execute(0x0A) // flush the line so the SGR is translated
	if r.spans.Len() != 0 {
		t.Errorf("malformed 38 sequence should open no span, got %d open", r.spans.Len())
	}
}

func TestHTMLRendererIndexedForegroundOpensClassSpan(t *testing.T) {
	r, buf := newTestRenderer()
	r.CSIDispatch(csiCtx('m', "38;5;202"))
	r.Print('Q')
	r.CSIDispatch(csiCtx('m', "0"))
	r.Execute(0x0A)

	if !strings.Contains(buf.String(), "class=\"ef202\"") {
		t.Errorf("output = %q, want an ef202 class span", buf.String())
	}
}
