package vtreplay

import "testing"

func TestSpanStackOpenAndCloseAllBalance(t *testing.T) {
	s := &SpanStack{}
	s.Open(span{kind: spanBold, class: "bold"})
	s.Open(span{kind: spanForeground, class: "f1"})
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	closed := s.CloseAll()
	if closed != "</span></span>" {
		t.Errorf("CloseAll() = %q", closed)
	}
	if s.Len() != 0 {
		t.Errorf("Len() after CloseAll = %d, want 0", s.Len())
	}
}

func TestSpanStackCloseOneRemovesOnlyInnermostOfKind(t *testing.T) {
	s := &SpanStack{}
	s.Open(span{kind: spanBold, class: "bold"})
	s.Open(span{kind: spanUnderline, class: "underline"})
	s.Open(span{kind: spanReverse, class: "reverse"})

	frag := s.CloseOne(spanBold)

	want := "</span></span></span><span class=\"underline\"><span class=\"reverse\">"
	if frag != want {
		t.Errorf("CloseOne() = %q, want %q", frag, want)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() after CloseOne = %d, want 2", s.Len())
	}
	if s.spans[0].kind != spanUnderline || s.spans[1].kind != spanReverse {
		t.Errorf("spans = %+v, want [underline reverse]", s.spans)
	}
}

func TestSpanStackCloseOneNoMatchIsNoop(t *testing.T) {
	s := &SpanStack{}
	s.Open(span{kind: spanUnderline, class: "u"})
	frag := s.CloseOne(spanBold)
	if frag != "" {
		t.Errorf("CloseOne() on absent kind = %q, want empty", frag)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (stack untouched)", s.Len())
	}
}

func TestSpanStackCloseOneKeepsOuterOfSameKindWhenInnerRemoved(t *testing.T) {
	// Two bold spans nested: closing once removes the innermost bold span
	// found scanning from the top, not the outermost.
	s := &SpanStack{}
	s.Open(span{kind: spanBold, class: "bold-outer"})
	s.Open(span{kind: spanBold, class: "bold-inner"})
	s.CloseOne(spanBold)
	if s.Len() != 1 || s.spans[0].class != "bold-outer" {
		t.Errorf("spans = %+v, want only bold-outer left", s.spans)
	}
}
