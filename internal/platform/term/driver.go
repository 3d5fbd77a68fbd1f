// Package term is the plain front end: the board printed as ASCII on a
// raw terminal, one keystroke per turn, with no full-screen framework.
package term

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	xterm "golang.org/x/term"

	"github.com/vovakirdan/merge2048/internal/game"
	"github.com/vovakirdan/merge2048/internal/logging"
)

// clearScreen homes the cursor and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

// escapeTimeout is how long a pending ESC waits for the rest of a
// sequence before it counts as the Escape key.
const escapeTimeout = 50 * time.Millisecond

type keyEvent struct {
	input game.Input
	err   error
}

// Driver renders snapshots and reads keys on a terminal.
// It implements game.Renderer and game.InputSource.
type Driver struct {
	in      *os.File
	out     io.Writer
	inFd    int
	oldTerm *xterm.State
	raw     bool
	logger  *log.Logger

	escapeTimeout time.Duration
	events        chan keyEvent
}

// Open puts in into raw mode when it is a terminal and starts reading
// keys. Close must be called to restore the terminal.
func Open(in *os.File, out io.Writer, logger *log.Logger) (*Driver, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	d := &Driver{
		in:     in,
		out:    out,
		inFd:   int(in.Fd()),
		logger: logger,

		escapeTimeout: escapeTimeout,
		events:        make(chan keyEvent, 64),
	}

	if xterm.IsTerminal(d.inFd) {
		old, err := xterm.MakeRaw(d.inFd)
		if err != nil {
			return nil, fmt.Errorf("term: cannot enter raw mode: %w", err)
		}
		d.oldTerm = old
		d.raw = true
	} else {
		logger.Debug("stdin is not a terminal, reading keys as a stream")
	}

	go d.readLoop(Decoder{SkipNewlines: !d.raw})
	return d, nil
}

// Close restores the terminal. The reader goroutine ends with the process
// or at the next read error.
func (d *Driver) Close() error {
	if d.oldTerm != nil {
		err := xterm.Restore(d.inFd, d.oldTerm)
		d.oldTerm = nil
		return err
	}
	return nil
}

// Raw reports whether the terminal is in raw mode.
func (d *Driver) Raw() bool {
	return d.raw
}

// readLoop decodes stdin into key events until a read fails.
func (d *Driver) readLoop(dec Decoder) {
	chunks := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		buf := make([]byte, 256)
		for {
			n, err := d.in.Read(buf)
			if n > 0 {
				chunks <- append([]byte(nil), buf[:n]...)
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()

	d.decodeLoop(dec, chunks, errc)
}

// decodeLoop turns chunks into events. Bytes left over after a chunk are
// the start of an escape sequence; if nothing follows within escapeTimeout
// they are flushed, so a lone ESC becomes a key while an arrow split
// across two reads is still decoded as one.
func (d *Driver) decodeLoop(dec Decoder, chunks <-chan []byte, errc <-chan error) {
	var pending []byte
	var timeout <-chan time.Time

	for {
		select {
		case chunk := <-chunks:
			pending = append(pending, chunk...)
			inputs, consumed := dec.Decode(pending)
			pending = append(pending[:0], pending[consumed:]...)
			d.emit(inputs)

			timeout = nil
			if len(pending) > 0 {
				timeout = time.After(d.escapeTimeout)
			}

		case <-timeout:
			// Partial sequences other than a lone ESC are dropped.
			d.emit(dec.Flush(pending))
			pending = pending[:0]
			timeout = nil

		case err := <-errc:
			d.emit(dec.Flush(pending))
			d.events <- keyEvent{err: err}
			return
		}
	}
}

func (d *Driver) emit(inputs []game.Input) {
	for _, in := range inputs {
		d.events <- keyEvent{input: in}
	}
}

// Next blocks until a key is decoded or ctx is done.
func (d *Driver) Next(ctx context.Context) (game.Input, error) {
	select {
	case <-ctx.Done():
		return game.Input{}, ctx.Err()
	case ev := <-d.events:
		return ev.input, ev.err
	}
}

// Render clears the screen and prints the snapshot as text.
func (d *Driver) Render(s game.Snapshot) error {
	return WriteFrame(d.out, s, d.raw)
}

// WriteFrame prints one frame. Raw terminals need explicit carriage returns.
func WriteFrame(w io.Writer, s game.Snapshot, raw bool) error {
	eol := "\n"
	if raw {
		eol = "\r\n"
	}
	frame := clearScreen + strings.Join(game.Lines(s), eol) + eol
	_, err := io.WriteString(w, frame)
	return err
}

// IsEOF reports whether err means the key stream ended.
func IsEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
