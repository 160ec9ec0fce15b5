package tap

import "bytes"

var bailoutMarker = []byte("Bail out!")

// Parser holds one parsing session: the State it mutates and the Hooks it
// notifies. It is not safe for concurrent use — spec §5 assigns it a
// single driving goroutine.
type Parser struct {
	state *State
	hooks *Hooks
}

// NewParser creates a parser session with optional hooks (nil is fine —
// bookkeeping still happens, there is simply nothing extra to notify).
func NewParser(hooks *Hooks) *Parser {
	return &Parser{state: NewState(), hooks: hooks}
}

// State exposes the live parser state for inspection (e.g. by the result
// aggregator or the harness). Callers must not mutate it.
func (p *Parser) State() *State { return p.state }

// Reset restores the parser to a fresh session. Results is cut back to its
// unused index-0 slot; ensureResultCapacity gives it a new backing array
// as it grows, so results recorded in the old State are not overwritten.
func (p *Parser) Reset() {
	results := p.state.Results[:1]
	p.state = NewState()
	p.state.Results = results
}

// ClassifyLine runs the C3 decision procedure against one logical line
// (terminator already stripped by the reader) and returns the resulting
// Event. terminator is passed through only for the preparse hook, which
// needs it to echo verbatim into a log file.
func (p *Parser) ClassifyLine(line []byte, terminator []byte) Event {
	p.hooks.preparse(line, terminator)

	if p.state.Bailed {
		// No further lines are accepted once bailed; the harness is
		// expected to stop reading, but guard defensively.
		return Event{Kind: EventBailout, Bailout: p.state.BailoutMessage}
	}

	if idx := bytes.Index(line, bailoutMarker); idx >= 0 {
		msg := string(trim(line[idx+len(bailoutMarker):]))
		p.state.Bailed = true
		p.state.BailoutMessage = msg
		p.hooks.bailout(msg)
		return Event{Kind: EventBailout, Bailout: msg}
	}

	if len(trim(line)) == 0 {
		return Event{Kind: EventBlank}
	}

	wasFirst := p.state.FirstLine
	if wasFirst {
		if v, ok := matchVersionHeader(line); ok {
			p.state.FirstLine = false
			if v < 13 || v > 13 {
				return p.emitInvalid(VersionRange, "unsupported TAP version")
			}
			p.state.Version = v
			p.hooks.version(v)
			return Event{Kind: EventVersion, Version: v}
		}
		p.state.FirstLine = false
	}

	if p.state.Version >= 13 {
		if ev, handled := p.matchPragma(line); handled {
			return ev
		}
	}

	if line[0] == '#' {
		p.hooks.comment(line)
		return Event{Kind: EventComment, Comment: line}
	}

	if ev, handled := p.matchPlan(line); handled {
		return ev
	}

	if ev, handled := p.matchTest(line); handled {
		return ev
	}

	p.state.ParseErrors++
	p.hooks.unknown(line)
	return Event{Kind: EventUnknown, Unknown: line}
}

func (p *Parser) emitInvalid(kind ErrorKind, msg string) Event {
	p.state.ParseErrors++
	info := InvalidInfo{Kind: kind, Message: msg}
	p.hooks.invalid(info)
	return Event{Kind: EventInvalid, Invalid: info}
}

// matchVersionHeader matches "^TAP\s+version\s+<int>\s*$" case-sensitively.
func matchVersionHeader(line []byte) (int, bool) {
	rest, ok := consumeLiteral(line, "TAP")
	if !ok {
		return 0, false
	}
	rest, ok = consumeSpaces(rest)
	if !ok {
		return 0, false
	}
	rest, ok = consumeLiteral(rest, "version")
	if !ok {
		return 0, false
	}
	rest, ok = consumeSpaces(rest)
	if !ok {
		return 0, false
	}
	v, tail, status := parseLong(rest)
	if status != parseOK {
		return 0, false
	}
	if len(trim(tail)) != 0 {
		return 0, false
	}
	return v, true
}

func consumeLiteral(s []byte, lit string) ([]byte, bool) {
	if len(s) < len(lit) || string(s[:len(lit)]) != lit {
		return nil, false
	}
	return s[len(lit):], true
}

func consumeSpaces(s []byte) ([]byte, bool) {
	if len(s) == 0 || !isSpace(s[0]) {
		return nil, false
	}
	return stripLeft(s), true
}

// matchPragma implements spec §4.3 rule 4. Returns handled=true whenever
// the line committed to the pragma production (prefix "pragma" followed by
// whitespace), regardless of whether individual items parsed cleanly.
func (p *Parser) matchPragma(line []byte) (Event, bool) {
	rest, ok := consumeLiteral(line, "pragma")
	if !ok {
		return Event{}, false
	}
	if len(rest) == 0 || !isSpace(rest[0]) {
		return Event{}, false
	}
	rest = stripLeft(rest)

	items := bytes.Split(rest, []byte(","))
	var last PragmaInfo
	for _, raw := range items {
		item := trim(raw)
		if len(item) == 0 {
			p.emitInvalid(PragmaParse, "trailing comma with no item")
			continue
		}
		sign := item[0]
		if sign != '+' && sign != '-' {
			p.emitInvalid(PragmaParse, "missing +/- prefix")
			continue
		}
		name := string(item[1:])
		state := sign == '+'
		last = PragmaInfo{Name: name, State: state}
		p.hooks.pragma(last)
		if name == "strict" {
			p.state.Strict = state
		} else {
			p.emitInvalid(PragmaUnknown, "unrecognized pragma: "+name)
		}
	}
	return Event{Kind: EventPragma, Pragma: last}, true
}

// matchPlan implements spec §4.3 rule 6: "^1\.\.<non-negative-int>" plus an
// optional trailing "# skip <reason>".
func (p *Parser) matchPlan(line []byte) (Event, bool) {
	rest, ok := consumeLiteral(line, "1..")
	if !ok {
		return Event{}, false
	}

	v, tail, status := parseLong(rest)
	if status == parseNoDigits {
		return Event{}, false
	}
	if p.state.PlanSet() {
		ev := p.emitInvalid(PlanMulti, "plan already declared")
		return ev, true
	}
	if status == parseOverflow {
		ev := p.emitInvalid(PlanInval, "plan upper bound overflow")
		return ev, true
	}
	if v < 0 {
		ev := p.emitInvalid(PlanParse, "negative plan upper bound")
		return ev, true
	}

	tail = stripLeft(tail)
	info := PlanInfo{Upper: v}
	if len(tail) > 0 {
		if skipRest, ok := consumeLiteral(tail, "#"); ok {
			skipRest = stripLeft(skipRest)
			if sr, ok := consumeLiteral(skipRest, "skip"); ok {
				reason := string(trim(sr))
				info.HasSkipText = true
				info.SkipReason = reason
			} else {
				ev := p.emitInvalid(PlanParse, "malformed plan directive")
				return ev, true
			}
		} else {
			ev := p.emitInvalid(PlanParse, "trailing junk after plan")
			return ev, true
		}
	}

	if info.Upper == 0 {
		info.SkipAll = true
		p.state.SkipAll = true
		p.state.SkipAllReason = info.SkipReason
	} else if info.HasSkipText {
		ev := p.emitInvalid(PlanParse, "skip directive only legal with plan 0")
		return ev, true
	}

	p.state.Plan = info.Upper
	if info.Upper > 0 {
		p.state.ensureResultCapacity(info.Upper)
	}
	p.hooks.plan(info)
	return Event{Kind: EventPlan, Plan: info}, true
}

// matchTest implements spec §4.3 rule 7.
func (p *Parser) matchTest(line []byte) (Event, bool) {
	rest := line
	ok := false
	if r, matched := consumeLiteral(rest, "not ok"); matched {
		rest = r
		ok = false
	} else if r, matched := consumeLiteral(rest, "ok"); matched {
		rest = r
		ok = true
	} else {
		return Event{}, false
	}

	hasNumber := false
	explicitNum := 0
	afterNum := rest
	if len(rest) > 0 && isSpace(rest[0]) {
		probe := stripLeft(rest)
		v, tail, status := parseLong(probe)
		switch status {
		case parseOverflow:
			ev := p.emitInvalid(TestInval, "test number overflow")
			return ev, true
		case parseOK:
			if len(tail) == 0 || isSpace(tail[0]) || tail[0] == '#' {
				hasNumber = true
				explicitNum = v
				afterNum = tail
			} else {
				// digit run glued to text: back off, whole thing is description
				afterNum = rest
			}
		case parseNoDigits:
			afterNum = rest
		}
	}

	var testNum int
	if hasNumber {
		testNum = explicitNum
	} else {
		testNum = p.state.TestNum + 1
	}

	var dupOrOrder *ErrorKind
	if testNum == p.state.TestNum {
		k := TestDup
		dupOrOrder = &k
	} else if testNum != p.state.TestNum+1 {
		// Out-of-sequence: record the line at its own extracted number and
		// leave the expected-next slot alone, so a later missing-range walk
		// still reports the gap instead of a false Ok.
		k := TestOrder
		dupOrOrder = &k
	}

	rest = afterNum
	reason := ""
	directiveText := ""
	isSkip, isTodo := false, false

	if hashIdx := bytes.IndexByte(rest, '#'); hashIdx >= 0 {
		reason = string(trim(rest[:hashIdx]))
		directivePart := stripLeft(rest[hashIdx+1:])
		lower := bytes.ToLower(directivePart)
		if bytes.HasPrefix(lower, []byte("skip")) {
			isSkip = true
			directiveText = string(trim(directivePart[len("skip"):]))
		} else if bytes.HasPrefix(lower, []byte("todo")) {
			isTodo = true
			directiveText = string(trim(directivePart[len("todo"):]))
		} else {
			directiveText = string(trim(directivePart))
		}
	} else {
		reason = string(trim(rest))
	}

	var rtype ResultType
	switch {
	case isSkip && !ok:
		rtype = SkipFailed
	case isSkip && ok:
		rtype = Skip
	case isTodo && ok:
		rtype = TodoPassed
	case isTodo && !ok:
		rtype = Todo
	case ok:
		rtype = Ok
	default:
		rtype = NotOk
	}

	p.state.TestNum = testNum
	p.state.ensureResultCapacity(testNum)
	p.state.Results[testNum] = rtype
	p.state.TestsRun++

	switch rtype {
	case Ok:
		p.state.Passed++
	case NotOk:
		p.state.Failed++
	case Todo:
		p.state.Todo++
	case TodoPassed:
		p.state.Failed++
		p.state.TodoPassed++
		p.state.ParseErrors++
	case Skip:
		p.state.Passed++
		p.state.Skipped++
	case SkipFailed:
		p.state.Failed++
		p.state.SkipFailed++
		p.state.ParseErrors++
	}

	result := TestResult{Type: rtype, TestNum: testNum, Reason: reason, Directive: directiveText}
	p.hooks.test(result)
	ev := Event{Kind: EventTest, Test: result}

	if dupOrOrder != nil {
		p.emitInvalid(*dupOrOrder, "test number out of sequence")
	}
	if p.state.PlanSet() && testNum > p.state.Plan {
		p.emitInvalid(TestInval, "test number exceeds plan")
	}

	return ev, true
}
