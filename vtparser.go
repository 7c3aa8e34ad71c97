package vtreplay

import "fmt"

// ParserState is one of the fourteen named states of the VT500-style DEC-ANSI
// parser, modeled after Paul Flo Williams' state diagram
// (https://vt100.net/emu/dec_ansi_parser).
type ParserState int

const (
	StateGround ParserState = iota
	StateEscape
	StateEscapeIntermediate
	StateCSIEntry
	StateCSIParam
	StateCSIIntermediate
	StateCSIIgnore
	StateDCSEntry
	StateDCSParam
	StateDCSIntermediate
	StateDCSPassthrough
	StateDCSIgnore
	StateOSCString
	StateSosPmApcString
)

var parserStateNames = [...]string{
	"ground", "escape", "escape_intermediate",
	"csi_entry", "csi_param", "csi_intermediate", "csi_ignore",
	"dcs_entry", "dcs_param", "dcs_intermediate", "dcs_passthrough", "dcs_ignore",
	"osc_string", "sos_pm_apc_string",
}

func (s ParserState) String() string {
	if int(s) < 0 || int(s) >= len(parserStateNames) {
		return fmt.Sprintf("ParserState(%d)", int(s))
	}
	return parserStateNames[s]
}

// ParserAction is one of the fourteen actions the parser's transition table can
// produce for a given input byte.
type ParserAction int

const (
	ActionNone ParserAction = iota
	ActionIgnore
	ActionPrint
	ActionExecute
	ActionClear
	ActionCollect
	ActionParam
	ActionEscDispatch
	ActionCSIDispatch
	ActionHook
	ActionPut
	ActionUnhook
	ActionOSCStart
	ActionOSCPut
	ActionOSCEnd
)

var parserActionNames = [...]string{
	"none", "ignore", "print", "execute", "clear", "collect", "param",
	"esc_dispatch", "csi_dispatch", "hook", "put", "unhook",
	"osc_start", "osc_put", "osc_end",
}

func (a ParserAction) String() string {
	if int(a) < 0 || int(a) >= len(parserActionNames) {
		return fmt.Sprintf("ParserAction(%d)", int(a))
	}
	return parserActionNames[a]
}

// UnmappedInputError is returned when a byte has no transition defined for the
// parser's current state. It is always fatal: the caller should abort the
// input loop and may report the offending line number.
type UnmappedInputError struct {
	Byte  byte
	State ParserState
}

func (e *UnmappedInputError) Error() string {
	return fmt.Sprintf("vtreplay: unmapped input 0x%02x in state %s", e.Byte, e.State)
}

// ParseContext holds the mutable per-sequence state accumulated by collect,
// param and the dispatch actions. It is reset by clear, which runs on entry to
// escape, csi_entry and dcs_entry (see transition table below); osc_string and
// dcs_passthrough reset their own string buffers independently.
type ParseContext struct {
	// PrivateFlag is the optional private marker byte (0x3C-0x3F), or 0 if none.
	PrivateFlag byte
	// Intermediate is the ordered sequence of intermediate bytes (0x20-0x2F).
	Intermediate []byte
	// ParamBytes is the raw, unparsed parameter string (digits and ';').
	ParamBytes []byte
	// Final is the final byte of an escape/CSI/DCS sequence.
	Final byte
}

func (c *ParseContext) reset() {
	c.PrivateFlag = 0
	c.Intermediate = c.Intermediate[:0]
	c.ParamBytes = c.ParamBytes[:0]
	c.Final = 0
}

// Params splits ParamBytes on ';' and parses each field as a non-negative
// integer; an empty field parses as 0, matching ECMA-48 default-parameter
// semantics.
func (c *ParseContext) Params() []int {
	if len(c.ParamBytes) == 0 {
		return nil
	}
	params := make([]int, 0, 4)
	val := 0
	seenDigit := false
	for _, b := range c.ParamBytes {
		if b == ';' {
			params = append(params, val)
			val = 0
			seenDigit = false
			continue
		}
		val = val*10 + int(b-'0')
		seenDigit = true
	}
	_ = seenDigit
	params = append(params, val)
	return params
}

// ParamString returns the raw, unsplit parameter string (e.g. "1;31").
func (c *ParseContext) ParamString() string {
	return string(c.ParamBytes)
}

// IntermediateString returns the collected intermediate bytes as a string.
func (c *ParseContext) IntermediateString() string {
	return string(c.Intermediate)
}

// Statistics tracks parser activity for diagnostic dumps, mirroring the
// reference implementation's log_statistics().
type Statistics struct {
	StatesVisited         map[ParserState]int
	ActionsPerformed      map[ParserAction]int
	ControlFunctionsSeen  map[byte]int
	EscapeSequencesSeen   map[string]int
	ControlSequencesSeen  map[string]int
	DeviceControlFuncSeen map[string]int
	DeviceControlStrings  map[string]struct{}
	OSCommands            map[string]struct{}
}

func newStatistics() *Statistics {
	return &Statistics{
		StatesVisited:         map[ParserState]int{StateGround: 1},
		ActionsPerformed:      make(map[ParserAction]int),
		ControlFunctionsSeen:  make(map[byte]int),
		EscapeSequencesSeen:   make(map[string]int),
		ControlSequencesSeen:  make(map[string]int),
		DeviceControlFuncSeen: make(map[string]int),
		DeviceControlStrings:  make(map[string]struct{}),
		OSCommands:            make(map[string]struct{}),
	}
}

// Parser is the byte-driven VT500-style escape/control-sequence state
// machine. The state table is fixed and encodes the transition diagram
// exactly; see transition_table.go for the table itself.
//
// Parser is not safe for concurrent use: it is pull-driven, single-threaded,
// cooperative, per the concurrency model of the pipeline it belongs to.
type Parser struct {
	state ParserState
	ctx   ParseContext

	Output  TerminalOutputHandler
	Control ControlSequenceHandler
	DCS     DCSHandler
	OSC     OSCHandler

	// dcsStringHandler is the handler selected by the most recent Hook call;
	// Put/Unhook are delivered to it, not necessarily to DCS itself.
	dcsStringHandler DCSHandler

	deviceControlString []byte
	operatingSystemCmd  []byte

	stats *Statistics
}

// NewParser constructs a Parser with Noop handlers installed in every slot.
// Callers replace the slots they care about.
func NewParser() *Parser {
	p := &Parser{
		state:   StateGround,
		Output:  NoopTerminalOutputHandler{},
		Control: NoopControlSequenceHandler{},
		DCS:     NoopDCSHandler{},
		OSC:     NoopOSCHandler{},
		stats:   newStatistics(),
	}
	p.dcsStringHandler = p.DCS
	return p
}

// State returns the parser's current state.
func (p *Parser) State() ParserState { return p.state }

// Statistics returns the parser's running statistics. The returned pointer
// aliases internal state and must not be mutated by callers.
func (p *Parser) Statistics() *Statistics { return p.stats }

// Input feeds one byte to the parser: look up (action, next_state?); if a
// state change is indicated, run the exit action of the current state, then
// the transition's own action, then move to the new state and run its entry
// action; otherwise just run the action.
//
// Returns a non-nil *UnmappedInputError if the byte has no defined transition
// in the current state. The parser's state is left unchanged in that case.
func (p *Parser) Input(b byte) error {
	entry, ok := lookupTransition(p.state, b)
	if !ok {
		return &UnmappedInputError{Byte: b, State: p.state}
	}

	if entry.hasNextState {
		if exitAction := stateExitAction(p.state); exitAction != ActionNone {
			p.perform(exitAction, b)
		}
		if entry.action != ActionNone {
			p.perform(entry.action, b)
		}
		p.transitionTo(entry.nextState)
		if entryAction := stateEntryAction(p.state); entryAction != ActionNone {
			p.perform(entryAction, b)
		}
		return nil
	}

	if entry.action != ActionNone {
		p.perform(entry.action, b)
	}
	return nil
}

// Write feeds a byte slice to the parser, stopping at the first unmapped
// input and returning that error. The parser's position within data is not
// reported by Write; callers that need it should call Input directly.
func (p *Parser) Write(data []byte) error {
	for _, b := range data {
		if err := p.Input(b); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) transitionTo(s ParserState) {
	p.state = s
	p.stats.StatesVisited[s]++
}

func (p *Parser) perform(action ParserAction, b byte) {
	p.stats.ActionsPerformed[action]++
	switch action {
	case ActionIgnore:
		// no observable effect
	case ActionPrint:
		p.Output.Print(b)
	case ActionExecute:
		p.stats.ControlFunctionsSeen[b]++
		p.Output.Execute(b)
	case ActionClear:
		p.ctx.reset()
	case ActionCollect:
		if b >= 0x3C && b <= 0x3F {
			p.ctx.PrivateFlag = b
		} else {
			p.ctx.Intermediate = append(p.ctx.Intermediate, b)
		}
	case ActionParam:
		p.ctx.ParamBytes = append(p.ctx.ParamBytes, b)
	case ActionEscDispatch:
		p.ctx.Final = b
		key := escSequenceKey(&p.ctx)
		p.stats.EscapeSequencesSeen[key]++
		p.Control.EscDispatch(&p.ctx)
	case ActionCSIDispatch:
		p.ctx.Final = b
		key := csiSequenceKey(&p.ctx)
		p.stats.ControlSequencesSeen[key]++
		p.Control.CSIDispatch(&p.ctx)
	case ActionHook:
		p.ctx.Final = b
		p.deviceControlString = p.deviceControlString[:0]
		key := dcsSequenceKey(&p.ctx)
		p.stats.DeviceControlFuncSeen[key]++
		p.dcsStringHandler = p.DCS.Hook(&p.ctx)
	case ActionPut:
		p.deviceControlString = append(p.deviceControlString, b)
		p.dcsStringHandler.Put(b)
	case ActionUnhook:
		p.stats.DeviceControlStrings[string(p.deviceControlString)] = struct{}{}
		p.dcsStringHandler.Unhook()
	case ActionOSCStart:
		p.operatingSystemCmd = p.operatingSystemCmd[:0]
		p.OSC.Start()
	case ActionOSCPut:
		p.operatingSystemCmd = append(p.operatingSystemCmd, b)
		p.OSC.Put(b)
	case ActionOSCEnd:
		p.stats.OSCommands[string(p.operatingSystemCmd)] = struct{}{}
		p.OSC.End()
	}
}

func escSequenceKey(ctx *ParseContext) string {
	s := "Esc"
	if ctx.PrivateFlag != 0 {
		s += string(ctx.PrivateFlag)
	}
	s += ctx.ParamString() + ctx.IntermediateString() + string(ctx.Final)
	return s
}

func csiSequenceKey(ctx *ParseContext) string {
	s := "Esc["
	if ctx.PrivateFlag != 0 {
		s += string(ctx.PrivateFlag)
	}
	s += ctx.ParamString() + ctx.IntermediateString() + string(ctx.Final)
	return s
}

func dcsSequenceKey(ctx *ParseContext) string {
	s := "EscP"
	if ctx.PrivateFlag != 0 {
		s += string(ctx.PrivateFlag)
	}
	s += ctx.ParamString() + ctx.IntermediateString() + string(ctx.Final)
	return s
}
