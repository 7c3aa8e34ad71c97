package vtreplay

// transitionEntry describes the result of looking up a byte in a given state:
// the action to perform, and optionally a new state to move to.
type transitionEntry struct {
	action       ParserAction
	nextState    ParserState
	hasNextState bool
}

func entry(action ParserAction) transitionEntry {
	return transitionEntry{action: action}
}

func entryTo(action ParserAction, next ParserState) transitionEntry {
	return transitionEntry{action: action, nextState: next, hasNextState: true}
}

func gotoState(next ParserState) transitionEntry {
	return transitionEntry{nextState: next, hasNextState: true}
}

// stateEntryAction returns the action run when entering state s (clear on
// escape/csi_entry/dcs_entry, hook on dcs_passthrough/dcs_ignore, osc_start on
// osc_string), or ActionNone if the state has no entry action.
func stateEntryAction(s ParserState) ParserAction {
	switch s {
	case StateEscape, StateCSIEntry, StateDCSEntry:
		return ActionClear
	case StateDCSPassthrough, StateDCSIgnore:
		return ActionHook
	case StateOSCString:
		return ActionOSCStart
	default:
		return ActionNone
	}
}

// stateExitAction returns the action run when leaving state s (unhook when
// leaving dcs_passthrough, osc_end when leaving osc_string), or ActionNone.
func stateExitAction(s ParserState) ParserAction {
	switch s {
	case StateDCSPassthrough:
		return ActionUnhook
	case StateOSCString:
		return ActionOSCEnd
	default:
		return ActionNone
	}
}

// lookupTransition aliases high-range bytes (0xA0-0xFF behave identically to
// 0x20-0x7F) and returns the transition for byte b in state s, mirroring
// vtparser.py's State.event(). ok is false if no transition is defined,
// meaning the input is rejected as an UnmappedInputError.
func lookupTransition(s ParserState, b byte) (transitionEntry, bool) {
	lookup := b
	if lookup >= 0xA0 {
		lookup -= 0x80
	}

	if e, ok := anywhereTransition(lookup); ok {
		return e, true
	}
	return stateTransition(s, lookup)
}

// anywhereTransition holds the transitions defined globally, independent of
// the parser's current state: CAN/SUB abort any sequence, ESC always starts a
// new escape sequence, and the C1 control codes act exactly as their 7-bit
// equivalents regardless of state.
func anywhereTransition(b byte) (transitionEntry, bool) {
	switch {
	case b == 0x18 || b == 0x1A:
		return entryTo(ActionExecute, StateGround), true
	case b == 0x1B:
		return gotoState(StateEscape), true
	case b >= 0x80 && b <= 0x8F:
		return entryTo(ActionExecute, StateGround), true
	case b >= 0x91 && b <= 0x97:
		return entryTo(ActionExecute, StateGround), true
	case b == 0x99 || b == 0x9A:
		return entryTo(ActionExecute, StateGround), true
	case b == 0x9C:
		return gotoState(StateGround), true
	case b == 0x98 || b == 0x9E || b == 0x9F:
		return gotoState(StateSosPmApcString), true
	case b == 0x90:
		return gotoState(StateDCSEntry), true
	case b == 0x9B:
		return gotoState(StateCSIEntry), true
	case b == 0x9D:
		return gotoState(StateOSCString), true
	}
	return transitionEntry{}, false
}

func isC0Executable(b byte) bool {
	if b <= 0x17 && b != 0x18 && b != 0x1B {
		return true
	}
	if b == 0x19 {
		return true
	}
	if b >= 0x1C && b <= 0x1F {
		return true
	}
	return false
}

func stateTransition(s ParserState, b byte) (transitionEntry, bool) {
	switch s {
	case StateGround:
		switch {
		case isC0Executable(b):
			return entry(ActionExecute), true
		case b >= 0x20 && b <= 0x7F:
			return entry(ActionPrint), true
		}

	case StateEscape:
		switch {
		case isC0Executable(b):
			return entry(ActionExecute), true
		case b == 0x7F:
			return entry(ActionIgnore), true
		case b >= 0x20 && b <= 0x2F:
			return entryTo(ActionCollect, StateEscapeIntermediate), true
		case b == 0x50:
			return gotoState(StateDCSEntry), true
		case b == 0x58 || b == 0x5E || b == 0x5F:
			return gotoState(StateSosPmApcString), true
		case b == 0x5B:
			return gotoState(StateCSIEntry), true
		case b == 0x5D:
			return gotoState(StateOSCString), true
		case (b >= 0x30 && b <= 0x4F) || (b >= 0x51 && b <= 0x57) || b == 0x59 ||
			b == 0x5A || b == 0x5C || (b >= 0x60 && b <= 0x7E):
			return entryTo(ActionEscDispatch, StateGround), true
		}

	case StateEscapeIntermediate:
		switch {
		case isC0Executable(b):
			return entry(ActionExecute), true
		case b >= 0x20 && b <= 0x2F:
			return entry(ActionCollect), true
		case b == 0x7F:
			return entry(ActionIgnore), true
		case b >= 0x30 && b <= 0x7E:
			return entryTo(ActionEscDispatch, StateGround), true
		}

	case StateCSIEntry:
		switch {
		case isC0Executable(b):
			return entry(ActionExecute), true
		case b == 0x7F:
			return entry(ActionIgnore), true
		case b >= 0x20 && b <= 0x2F:
			return entryTo(ActionCollect, StateCSIIntermediate), true
		case b == 0x3A:
			return gotoState(StateCSIIgnore), true
		case (b >= 0x30 && b <= 0x39) || b == 0x3B:
			return entryTo(ActionParam, StateCSIParam), true
		case b >= 0x3C && b <= 0x3F:
			return entryTo(ActionCollect, StateCSIParam), true
		case b >= 0x40 && b <= 0x7E:
			return entryTo(ActionCSIDispatch, StateGround), true
		}

	case StateCSIParam:
		switch {
		case isC0Executable(b):
			return entry(ActionExecute), true
		case (b >= 0x30 && b <= 0x39) || b == 0x3B:
			return entry(ActionParam), true
		case b == 0x7F:
			return entry(ActionIgnore), true
		case b == 0x3A || (b >= 0x3C && b <= 0x3F):
			return gotoState(StateCSIIgnore), true
		case b >= 0x20 && b <= 0x2F:
			return entryTo(ActionCollect, StateCSIIntermediate), true
		case b >= 0x40 && b <= 0x7E:
			return entryTo(ActionCSIDispatch, StateGround), true
		}

	case StateCSIIntermediate:
		switch {
		case isC0Executable(b):
			return entry(ActionExecute), true
		case b >= 0x20 && b <= 0x2F:
			return entry(ActionCollect), true
		case b == 0x7F:
			return entry(ActionIgnore), true
		case b >= 0x30 && b <= 0x3F:
			return gotoState(StateCSIIgnore), true
		case b >= 0x40 && b <= 0x7E:
			return entryTo(ActionCSIDispatch, StateGround), true
		}

	case StateCSIIgnore:
		switch {
		case isC0Executable(b):
			return entry(ActionExecute), true
		case (b >= 0x20 && b <= 0x3F) || b == 0x7F:
			return entry(ActionIgnore), true
		case b >= 0x40 && b <= 0x7E:
			return gotoState(StateGround), true
		}

	case StateDCSEntry:
		switch {
		case isC0Executable(b) || b == 0x7F:
			return entry(ActionIgnore), true
		case b >= 0x20 && b <= 0x2F:
			return entryTo(ActionCollect, StateDCSIntermediate), true
		case b == 0x3A:
			return gotoState(StateDCSIgnore), true
		case (b >= 0x30 && b <= 0x39) || b == 0x3B:
			return entryTo(ActionParam, StateDCSParam), true
		case b >= 0x3C && b <= 0x3F:
			return entryTo(ActionCollect, StateDCSParam), true
		case b >= 0x40 && b <= 0x7E:
			return gotoState(StateDCSPassthrough), true
		}

	case StateDCSParam:
		switch {
		case isC0Executable(b):
			return entry(ActionIgnore), true
		case (b >= 0x30 && b <= 0x39) || b == 0x3B:
			return entry(ActionParam), true
		case b == 0x7F:
			return entry(ActionIgnore), true
		case b == 0x3A || (b >= 0x3C && b <= 0x3F):
			return gotoState(StateDCSIgnore), true
		case b >= 0x20 && b <= 0x2F:
			return entryTo(ActionCollect, StateDCSIntermediate), true
		case b >= 0x40 && b <= 0x7E:
			return gotoState(StateDCSPassthrough), true
		}

	case StateDCSIntermediate:
		switch {
		case isC0Executable(b):
			return entry(ActionIgnore), true
		case b >= 0x20 && b <= 0x2F:
			return entry(ActionCollect), true
		case b == 0x7F:
			return entry(ActionIgnore), true
		case b >= 0x30 && b <= 0x3F:
			return gotoState(StateDCSIgnore), true
		case b >= 0x40 && b <= 0x7E:
			return gotoState(StateDCSPassthrough), true
		}

	case StateDCSPassthrough:
		switch {
		case isC0Executable(b):
			return entry(ActionPut), true
		case b >= 0x20 && b <= 0x7E:
			return entry(ActionPut), true
		case b == 0x7F:
			return entry(ActionIgnore), true
		}

	case StateDCSIgnore:
		switch {
		case isC0Executable(b) || (b >= 0x20 && b <= 0x7F):
			return entry(ActionIgnore), true
		}

	case StateOSCString:
		switch {
		case b == 0x07:
			return gotoState(StateGround), true
		case b <= 0x06, b >= 0x08 && b <= 0x17, b == 0x19, b >= 0x1C && b <= 0x1F:
			return entry(ActionIgnore), true
		case b >= 0x20 && b <= 0x7F:
			return entry(ActionOSCPut), true
		}

	case StateSosPmApcString:
		switch {
		case isC0Executable(b) || (b >= 0x20 && b <= 0x7F):
			return entry(ActionIgnore), true
		}
	}

	return transitionEntry{}, false
}
