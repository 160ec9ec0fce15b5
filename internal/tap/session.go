package tap

// Session drives a LineReader into a Parser until EndOfInput, producing
// one Event per call to Next. This is the "lazy sequence" the Design Notes
// (spec §9) describe: the harness and any standalone consumer both pull
// from the same Next method.
type Session struct {
	reader *LineReader
	parser *Parser
}

// NewSession wires a reader and parser together.
func NewSession(reader *LineReader, parser *Parser) *Session {
	return &Session{reader: reader, parser: parser}
}

// Parser returns the underlying parser, primarily so callers can inspect
// State() once the session is drained.
func (s *Session) Parser() *Parser { return s.parser }

// Next pulls the next line and classifies it. ok is false once the
// underlying reader reaches EndOfInput or a hard ReadError; outcome
// reports which.
func (s *Session) Next() (ev Event, outcome ReadOutcome, ok bool) {
	if s.parser.State().Bailed {
		return Event{}, EndOfInput, false
	}
	line, terminator, result := s.reader.ReadLine()
	if result != MoreInput {
		return Event{}, result, false
	}
	return s.parser.ClassifyLine(line, terminator), MoreInput, true
}

// Drain runs Next to completion, discarding events (the default
// bookkeeping on Parser already did the work); useful when the caller only
// cares about final State(), e.g. the batch runner between invocations.
func (s *Session) Drain() ReadOutcome {
	for {
		_, outcome, ok := s.Next()
		if !ok {
			return outcome
		}
	}
}
