package vtreplay

// spanKind classifies an open span for the selective close-one-directive
// protocol (SGR 22/24/27/39/49 close only the innermost span of one kind).
type spanKind int

const (
	spanOther spanKind = iota
	spanBold
	spanUnderline
	spanReverse
	spanForeground
	spanBackground
)

// span is one open <span ...> on the SpanStack, either a CSS class or an
// inline style.
type span struct {
	kind  spanKind
	class string // non-empty for class="..."
	style string // non-empty for style="..." (mutually exclusive with class)
}

func (s span) openTag() string {
	if s.style != "" {
		return `<span style="` + s.style + `">`
	}
	return `<span class="` + s.class + `">`
}

// SpanStack is the ordered sequence of open <span> elements for the current
// command block; every opened span is eventually closed, either all at
// once in reverse order, or selectively via close-one.
type SpanStack struct {
	spans []span
}

// Len returns the number of open spans.
func (s *SpanStack) Len() int { return len(s.spans) }

// Open pushes a new span and returns the opening tag to write.
func (s *SpanStack) Open(sp span) string {
	s.spans = append(s.spans, sp)
	return sp.openTag()
}

// CloseAll closes every open span, innermost first, and empties the stack.
func (s *SpanStack) CloseAll() string {
	out := make([]byte, 0, len(s.spans)*7)
	for range s.spans {
		out = append(out, "</span>"...)
	}
	s.spans = s.spans[:0]
	return string(out)
}

// CloseOne removes the innermost span of the given kind, closing every span
// opened after it and reopening the survivors in the same order, leaving the
// target removed. Returns the HTML fragment to write (zero or more closes
// followed by zero or more re-opens), or "" if no span of that kind is open.
func (s *SpanStack) CloseOne(kind spanKind) string {
	idx := -1
	for i := len(s.spans) - 1; i >= 0; i-- {
		if s.spans[i].kind == kind {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ""
	}

	above := s.spans[idx+1:]
	var out []byte
	for range above {
		out = append(out, "</span>"...)
	}
	out = append(out, "</span>"...)

	reopened := make([]span, len(above))
	copy(reopened, above)
	for _, sp := range reopened {
		out = append(out, sp.openTag()...)
	}

	s.spans = append(s.spans[:idx], reopened...)
	return string(out)
}
