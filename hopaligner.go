package vtreplay

import "math"

// hopCursor walks one recording's frames, tracking the wall-clock time
// (startTS + frame.ts) of its current frame. Mirrors twebber.py's ANLog.
type hopCursor struct {
	frames  []Frame
	idx     int
	startTS float64
	currWall float64
	lastFrameTS float64
	exhausted bool
}

func newHopCursor(frames []Frame) *hopCursor {
	return &hopCursor{frames: frames}
}

// start positions the cursor at its first frame, with refTS as its origin on
// a shared clock that begins at the earlier recording's header timestamp
// (HopAlign passes 0 for that recording and the header-timestamp offset for
// the other).
func (c *hopCursor) start(refTS float64) {
	c.startTS = refTS
	if len(c.frames) == 0 {
		c.exhausted = true
		c.currWall = math.Inf(1)
		return
	}
	c.idx = 0
	c.currWall = c.startTS + c.frames[0].TS
}

// skipTo advances the cursor until its wall-clock time reaches or passes
// stopWall, returning the frame-relative timestamp of the last frame seen
// before the switch, mirroring ANLog.skip_to.
func (c *hopCursor) skipTo(stopWall float64) float64 {
	for c.currWall < stopWall {
		c.lastFrameTS = c.frames[c.idx].TS
		c.idx++
		if c.idx < len(c.frames) {
			c.currWall = c.startTS + c.frames[c.idx].TS
		} else {
			c.currWall = math.Inf(1)
			c.exhausted = true
		}
	}
	return c.lastFrameTS
}

func (c *hopCursor) frameTS() float64 {
	if c.exhausted || c.idx >= len(c.frames) {
		return math.Inf(1)
	}
	return c.frames[c.idx].TS
}

// HopPoint marks the moment attention switches from one recording to the
// other: the last-seen timestamp on the side switching away (from_ts), and
// the current frame's own timestamp on the side switching to (to_ts).
type HopPoint struct {
	FromTS float64
	ToTS   float64
}

// HopAlignment holds the two ordered hop lists HopAlign produces.
type HopAlignment struct {
	HopsFromLeft  []HopPoint
	HopsFromRight []HopPoint
}

// HopAlign time-aligns two asciinema recordings and emits the list of
// attention-switch timestamps between them. left/right headers must carry
// a wall-clock Timestamp; frames carry ts relative to that origin.
func HopAlign(left, right *Recording) HopAlignment {
	var align HopAlignment

	leftCursor := newHopCursor(left.Frames)
	rightCursor := newHopCursor(right.Frames)

	diff := float64(right.Header.Timestamp) - float64(left.Header.Timestamp)

	var active, paused *hopCursor
	activeIsLeft := true
	if diff >= 0 {
		active, paused = leftCursor, rightCursor
		active.start(0)
		paused.start(diff)
		activeIsLeft = true
	} else {
		active, paused = rightCursor, leftCursor
		active.start(0)
		paused.start(-diff)
		activeIsLeft = false
	}

	for {
		fromTS := active.skipTo(paused.currWall)
		if math.IsInf(active.currWall, 1) && math.IsInf(paused.currWall, 1) {
			break
		}
		hop := HopPoint{FromTS: fromTS, ToTS: paused.frameTS()}
		if activeIsLeft {
			align.HopsFromLeft = append(align.HopsFromLeft, hop)
		} else {
			align.HopsFromRight = append(align.HopsFromRight, hop)
		}
		active, paused = paused, active
		activeIsLeft = !activeIsLeft
	}

	return align
}
