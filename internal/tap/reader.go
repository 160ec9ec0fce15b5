package tap

import (
	"bufio"
	"errors"
	"io"
	"time"
)

// ReadOutcome is the abstract result code from spec §4.1.
type ReadOutcome int

const (
	MoreInput ReadOutcome = iota
	EndOfInput
	ReadError
)

// LineReaderOption configures a LineReader.
type LineReaderOption func(*LineReader)

// WithIdleTimeout overrides the default 20s cumulative idle budget
// (spec's blocking_time).
func WithIdleTimeout(d time.Duration) LineReaderOption {
	return func(r *LineReader) { r.idleTimeout = d }
}

// WithPollInterval overrides the 1s retry interval used while waiting for
// more bytes from the source.
func WithPollInterval(d time.Duration) LineReaderOption {
	return func(r *LineReader) { r.pollInterval = d }
}

// LineReader implements C1: it reads one logical line at a time from an
// io.Reader, honoring an idle-timeout budget instead of blocking forever.
//
// The historical design performs a single-byte non-blocking read with a 1s
// sleep-and-retry loop. Go has no portable "would this read block" probe
// for an arbitrary io.Reader, so LineReader keeps the same line framing
// (spec §4.1 Rationale explicitly allows a larger read granularity) by
// running the blocking read on a background goroutine and racing it
// against an idle ticker on the consumer side. The idle count restarts on
// each ReadLine call, so only a complete line resets it; bytes of a line
// whose newline has not arrived yet do not. Once the idle timeout is used
// up, ReadLine returns EndOfInput with a nil line, and a partial line still
// held by the pump is not returned.
type LineReader struct {
	src          io.Reader
	idleTimeout  time.Duration
	pollInterval time.Duration

	lines  chan lineOrErr
	done   chan struct{}
	closed bool
}

type lineOrErr struct {
	line       []byte
	terminator []byte
	err        error
}

// NewLineReader starts the background pump goroutine over src.
func NewLineReader(src io.Reader, opts ...LineReaderOption) *LineReader {
	r := &LineReader{
		src:          src,
		idleTimeout:  20 * time.Second,
		pollInterval: 1 * time.Second,
		lines:        make(chan lineOrErr, 1),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.pump()
	return r
}

// pump runs on its own goroutine for the reader's lifetime, turning the
// blocking io.Reader into a channel of already-framed lines. This is the
// single writer into r.lines; ReadLine is the single reader.
func (r *LineReader) pump() {
	defer close(r.lines)
	br := bufio.NewReaderSize(r.src, 4096)
	for {
		line, err := br.ReadBytes('\n')
		terminator := []byte(nil)
		if len(line) > 0 && line[len(line)-1] == '\n' {
			terminator = []byte{'\n'}
			line = line[:len(line)-1]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				terminator = []byte{'\r', '\n'}
				line = line[:len(line)-1]
			}
		}
		if len(line) > 0 {
			select {
			case r.lines <- lineOrErr{line: line, terminator: terminator}:
			case <-r.done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				select {
				case r.lines <- lineOrErr{err: err}:
				case <-r.done:
				}
			}
			return
		}
	}
}

// ReadLine blocks for at most the configured idle timeout (in
// pollInterval-sized increments, matching the historical retry loop's
// observable cadence) waiting for the next line. It returns the line
// (without its terminator), the terminator bytes actually seen (nil at a
// final unterminated EOF line), and the outcome code.
func (r *LineReader) ReadLine() ([]byte, []byte, ReadOutcome) {
	var idle time.Duration
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case item, ok := <-r.lines:
			if !ok {
				return nil, nil, EndOfInput
			}
			if item.err != nil {
				return nil, nil, ReadError
			}
			return item.line, item.terminator, MoreInput
		case <-ticker.C:
			idle += r.pollInterval
			if idle >= r.idleTimeout {
				return nil, nil, EndOfInput
			}
		}
	}
}

// Close stops the pump goroutine. Safe to call more than once.
func (r *LineReader) Close() {
	if r.closed {
		return
	}
	r.closed = true
	close(r.done)
}
