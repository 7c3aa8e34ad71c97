package vtreplay

import "testing"

type recordingOutput struct {
	printed  []byte
	executed []byte
}

func (r *recordingOutput) Print(b byte)   { r.printed = append(r.printed, b) }
func (r *recordingOutput) Execute(b byte) { r.executed = append(r.executed, b) }

func TestParserGroundReachedAfterWellFormedSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain text", "hello"},
		{"sgr bold", "A\x1b[1mB\x1b[0mC"},
		{"osc terminated by bel", "\x1b]0;title\x07rest"},
		{"osc terminated by st", "\x1b]0;title\x1b\\rest"},
		{"csi with params", "\x1b[38;5;9mX"},
		{"dcs", "\x1bPq...\x1b\\"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser()
			if err := p.Write([]byte(tt.input)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.State() != StateGround {
				t.Errorf("final state = %v, want ground", p.State())
			}
		})
	}
}

func TestParserUnterminatedEscapeStaysOffGround(t *testing.T) {
	p := NewParser()
	if err := p.Write([]byte("\x1b[1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.State() == StateGround {
		t.Errorf("unterminated CSI should leave parser off ground, got %v", p.State())
	}
}

func TestParserPrintAndExecuteCallbacks(t *testing.T) {
	out := &recordingOutput{}
	p := NewParser()
	p.Output = out
	if err := p.Write([]byte("AB\nC")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out.printed) != "ABC" {
		t.Errorf("printed = %q, want %q", out.printed, "ABC")
	}
	if string(out.executed) != "\n" {
		t.Errorf("executed = %q, want %q", out.executed, "\n")
	}
}

func TestParserHighRangeAliasing(t *testing.T) {
	out := &recordingOutput{}
	p := NewParser()
	p.Output = out
	// 0xE1 aliases to 0x61 ('a'), which is a ground-state print byte.
	if err := p.Input(0xE1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.printed) != 1 || out.printed[0] != 0xE1 {
		t.Errorf("printed = %v, want the raw high byte echoed through print", out.printed)
	}
}

func TestParserEveryByteHasATransitionInEveryState(t *testing.T) {
	// The transition table is constructed so that every byte 0x00-0xFF has a
	// defined transition in every state (global "anywhere" transitions plus
	// full per-state coverage of 0x00-0x7F), so UnmappedInputError should
	// never actually occur on well-formed callers; this locks that property in.
	for s := StateGround; s <= StateSosPmApcString; s++ {
		for b := 0; b <= 0xFF; b++ {
			if _, ok := lookupTransition(s, byte(b)); !ok {
				t.Errorf("state %v byte 0x%02x: no transition defined", s, b)
			}
		}
	}
}

type recordingControl struct {
	escs []string
	csis []string
}

func (c *recordingControl) EscDispatch(ctx *ParseContext) {
	c.escs = append(c.escs, ctx.IntermediateString()+string(ctx.Final))
}
func (c *recordingControl) CSIDispatch(ctx *ParseContext) {
	c.csis = append(c.csis, ctx.ParamString()+ctx.IntermediateString()+string(ctx.Final))
}

func TestParserCSIDispatchParams(t *testing.T) {
	ctrl := &recordingControl{}
	p := NewParser()
	p.Control = ctrl
	if err := p.Write([]byte("\x1b[1;31m")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ctrl.csis) != 1 || ctrl.csis[0] != "1;31m" {
		t.Fatalf("csis = %v", ctrl.csis)
	}
}

func TestParserStatisticsCountsStates(t *testing.T) {
	p := NewParser()
	if err := p.Write([]byte("\x1b[1m")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats := p.Statistics()
	if stats.StatesVisited[StateGround] < 2 {
		t.Errorf("expected ground visited at least twice, got %d", stats.StatesVisited[StateGround])
	}
	if stats.ActionsPerformed[ActionCSIDispatch] != 1 {
		t.Errorf("expected one csi_dispatch action, got %d", stats.ActionsPerformed[ActionCSIDispatch])
	}
}
