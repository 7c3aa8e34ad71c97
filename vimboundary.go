package vtreplay

import "regexp"

// VimBoundaryDetector recognizes the whole-line byte patterns that mark an
// interactive editor (Vim) session starting or ending, factored out as its
// own type per the design note calling for explicit named sub-patterns
// rather than inline regexes scattered through the session detector.
//
// The patterns are grounded in the reference implementation's RE_VIM_START /
// RE_VIM_END. The pattern set is fixed; NewVimBoundaryDetector takes no
// configuration.
type VimBoundaryDetector struct {
	start        *regexp.Regexp
	windowLabel  *regexp.Regexp
	cursorQuery  *regexp.Regexp
	endA         *regexp.Regexp
	endB         *regexp.Regexp
	waitingHint  *regexp.Regexp
}

// NewVimBoundaryDetector builds a detector with the default pattern set.
func NewVimBoundaryDetector() *VimBoundaryDetector {
	return &VimBoundaryDetector{
		// "hint: Waiting for your editor…" is printed by git before it execs
		// the configured editor; present only when git spawns one.
		waitingHint: regexp.MustCompile(`hint: Waiting for your editor`),
		// CSI 22;0;0 t: the opening element of the window-label save/push
		// sequence, matched on its own. The later CSI 22;2 t / CSI 22;1 t are
		// not required, and no height is recovered from this pattern.
		windowLabel: regexp.MustCompile(`\x1b\[22;0;0t`),
		// CSI n;h r ... CSI row;col H "filename" ... CSI 2;1H ▽ CSI 6n CSI 2;1H
		cursorQuery: regexp.MustCompile(
			`\x1b\[[0-9];(?P<height>[0-9]+)r(?:.*\x1b\[[0-9]+;[0-9]+H"(?P<file>[^"]+)")?.*\x1b\[2;1H\xe2\x96\xbd\x1b\[6n\x1b\[2;1H`),
		endA: regexp.MustCompile(`\x1b\[23;0;0t`),
		endB: regexp.MustCompile(`\x1b\[\?1l\x1b>`),
	}
}

// VimStartProps carries the optional scrolling-region height and filename
// recovered from a matched vim-start cursor-query sequence.
type VimStartProps struct {
	Height int
	File   string
	HasHeight bool
	HasFile   bool
}

// MatchStart scans line for any of the three vim-start patterns (the
// "hint: Waiting" git marker, the window-label save sequence, or the
// cursor-query sequence) and returns the recovered props and the byte
// offset immediately after the match, or ok=false if none matched.
func (d *VimBoundaryDetector) MatchStart(line []byte) (props VimStartProps, offset int, ok bool) {
	if loc := d.cursorQuery.FindSubmatchIndex(line); loc != nil {
		props = d.extractCursorQueryProps(line, loc)
		return props, loc[1], true
	}
	if loc := d.windowLabel.FindIndex(line); loc != nil {
		return VimStartProps{}, loc[1], true
	}
	if loc := d.waitingHint.FindIndex(line); loc != nil {
		return VimStartProps{}, loc[1], true
	}
	return VimStartProps{}, 0, false
}

func (d *VimBoundaryDetector) extractCursorQueryProps(line []byte, loc []int) VimStartProps {
	var props VimStartProps
	names := d.cursorQuery.SubexpNames()
	for i, name := range names {
		if i == 0 || loc[2*i] < 0 {
			continue
		}
		val := string(line[loc[2*i]:loc[2*i+1]])
		switch name {
		case "height":
			props.HasHeight = true
			props.Height = atoiSafe(val)
		case "file":
			props.HasFile = true
			props.File = val
		}
	}
	return props
}

// MatchEnd reports whether line (or its tail, for a streaming look-ahead of
// up to maxTail bytes) contains either vim-end pattern: CSI 23;0;0 t or
// CSI ? 1 l ESC >.
func (d *VimBoundaryDetector) MatchEnd(line []byte) bool {
	tail := line
	const maxTail = 70
	if len(tail) > maxTail {
		tail = tail[len(tail)-maxTail:]
	}
	return d.endA.Match(tail) || d.endB.Match(tail)
}

func atoiSafe(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + int(c-'0')
	}
	return n
}
