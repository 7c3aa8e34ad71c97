package vtreplay

import (
	"strings"
	"testing"
)

func TestReadRecordingParsesHeaderAndFrames(t *testing.T) {
	input := `{"version":2,"width":80,"height":24,"timestamp":1000}
[0.1,"o","hello"]
[0.05,"i","x"]
`
	rec, err := ReadRecording(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header.Width != 80 || rec.Header.Height != 24 {
		t.Errorf("header = %+v", rec.Header)
	}
	if len(rec.Frames) != 2 {
		t.Fatalf("frames = %v", rec.Frames)
	}
	if rec.Frames[0].Channel != "o" || rec.Frames[0].Payload != "hello" {
		t.Errorf("frame 0 = %+v", rec.Frames[0])
	}
}

func TestReadRecordingRejectsNonV2Header(t *testing.T) {
	input := `{"version":1,"width":80,"height":24}
`
	_, err := ReadRecording(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected an UnsupportedInputFormatError")
	}
	if _, ok := err.(*UnsupportedInputFormatError); !ok {
		t.Fatalf("err is %T, want *UnsupportedInputFormatError", err)
	}
}

func TestFrameJSONRoundTrip(t *testing.T) {
	f := Frame{TS: 1.5, Channel: "o", Payload: "hi\n"}
	b, err := f.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Frame
	if err := got.UnmarshalJSON(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != f {
		t.Errorf("got %+v, want %+v", got, f)
	}
}

func TestFrameUnmarshalRejectsMalformedArray(t *testing.T) {
	var f Frame
	err := f.UnmarshalJSON([]byte(`[1.0,"o"]`))
	if err == nil {
		t.Fatal("expected an UnsupportedInputFormatError for a 2-element array")
	}
}

func TestQuantizeDeltaPicksLargestThresholdNotExceedingDt(t *testing.T) {
	cases := []struct {
		dt   float64
		want float64
	}{
		{0.0, 0.0},
		{0.02, 0.02},
		{0.50, 0.5},
		{5.0, 4.0},
	}
	for _, c := range cases {
		if got := quantizeDelta(c.dt); got != c.want {
			t.Errorf("quantizeDelta(%v) = %v, want %v", c.dt, got, c.want)
		}
	}
}

func TestEditorSubSessionFrameTimeAccumulatesMonotonically(t *testing.T) {
	sess := NewEditorSubSession(Header{Version: 2, Width: 80, Height: 24}, 10.0, -1)
	sess.Add(Frame{TS: 10.02, Channel: "o", Payload: "a"})
	sess.Add(Frame{TS: 10.52, Channel: "o", Payload: "b"})
	sess.Add(Frame{TS: 15.52, Channel: "o", Payload: "c"})

	var prev float64 = -1
	for i, f := range sess.Frames {
		if f.TS < prev {
			t.Fatalf("frame %d ts %v is less than previous %v: not monotonic", i, f.TS, prev)
		}
		prev = f.TS
	}
}

func TestEditorSubSessionOverridesHeightWhenDifferent(t *testing.T) {
	sess := NewEditorSubSession(Header{Version: 2, Width: 80, Height: 24}, 0, 40)
	if sess.Header.Height != 40 {
		t.Errorf("Header.Height = %d, want 40", sess.Header.Height)
	}
}

func TestEditorSubSessionToStringProducesOneFrameJSONPerLine(t *testing.T) {
	sess := NewEditorSubSession(Header{Version: 2, Width: 80, Height: 24}, 0, -1)
	sess.Add(Frame{TS: 0.1, Channel: "o", Payload: "x"})
	lines := strings.Split(sess.ToString(), "\n")
	if len(lines) != 3 { // header + start frame + added frame
		t.Fatalf("lines = %v", lines)
	}
	if !strings.Contains(lines[0], `"version":2`) {
		t.Errorf("header line = %q", lines[0])
	}
}

func TestAsciinemaPipelineCapturesAndExcludesVimFrames(t *testing.T) {
	parser := NewParser()
	detector := NewSessionDetector(parser, "")
	header := Header{Version: 2, Width: 80, Height: 24}

	var finalized *EditorSubSession
	pipeline := NewAsciinemaPipeline(detector, header, func() int { return 0 })
	pipeline.OnSessionFinalized = func(sess *EditorSubSession, blockCount int) {
		finalized = sess
	}

	frames := []Frame{
		{TS: 0.0, Channel: "o", Payload: "\x1b[22;0;0t\n"},
		{TS: 0.1, Channel: "o", Payload: "editor output\n"},
		{TS: 0.2, Channel: "o", Payload: "\x1b[23;0;0t\n"},
		{TS: 0.3, Channel: "o", Payload: "back to shell\n"},
	}
	for _, f := range frames {
		if err := pipeline.Feed(f); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if finalized == nil {
		t.Fatal("expected a finalized editor sub-session")
	}
	found := false
	for _, f := range finalized.Frames {
		if strings.Contains(f.Payload, "editor output") {
			found = true
		}
		if strings.Contains(f.Payload, "back to shell") {
			t.Errorf("post-vim frame leaked into the sub-session: %q", f.Payload)
		}
	}
	if !found {
		t.Error("editor output frame missing from finalized sub-session")
	}
}
