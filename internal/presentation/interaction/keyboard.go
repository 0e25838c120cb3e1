package interaction

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/penwyp/go-sensor-monitor/internal/util"
	"golang.org/x/term"
)

// KeyType classifies a key press
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyEnter
	KeyArrowUp
	KeyArrowDown
)

// KeyEvent is a single key press
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyboardReader reads key presses from a raw mode terminal
type KeyboardReader struct {
	in       io.Reader
	input    chan KeyEvent
	stop     chan struct{}
	fd       int
	oldState *term.State
	once     sync.Once
}

// NewKeyboardReader puts stdin into raw mode and starts reading
func NewKeyboardReader() (*KeyboardReader, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	kr := &KeyboardReader{
		in:       os.Stdin,
		input:    make(chan KeyEvent, 10),
		stop:     make(chan struct{}),
		fd:       fd,
		oldState: oldState,
	}
	go kr.readLoop()
	return kr, nil
}

// readLoop cannot be interrupted while blocked in Read. After Close it
// stays there until the next key press or process exit, then returns
// without delivering that key.
func (kr *KeyboardReader) readLoop() {
	buf := make([]byte, 8)
	for {
		n, err := kr.in.Read(buf)
		if err != nil {
			util.LogDebugf("Keyboard read stopped: %v", err)
			return
		}
		select {
		case <-kr.stop:
			return
		default:
		}
		event := kr.parseInput(buf[:n])
		if event == nil {
			continue
		}
		select {
		case kr.input <- *event:
		case <-kr.stop:
			return
		}
	}
}

// parseInput decodes one read from the terminal
func (kr *KeyboardReader) parseInput(b []byte) *KeyEvent {
	if len(b) == 0 {
		return nil
	}
	if b[0] == 27 {
		if len(b) >= 3 && b[1] == '[' {
			switch b[2] {
			case 'A':
				return &KeyEvent{Type: KeyArrowUp}
			case 'B':
				return &KeyEvent{Type: KeyArrowDown}
			}
			return nil
		}
		return &KeyEvent{Key: 27, Type: KeyEscape}
	}
	if b[0] == '\r' || b[0] == '\n' {
		return &KeyEvent{Key: rune(b[0]), Type: KeyEnter}
	}
	return &KeyEvent{Key: rune(b[0]), Type: KeyChar}
}

// Events returns the key press channel
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close restores the terminal state. A read already waiting on stdin is not
// interrupted; see readLoop.
func (kr *KeyboardReader) Close() error {
	var err error
	kr.once.Do(func() {
		close(kr.stop)
		if kr.oldState != nil {
			err = term.Restore(kr.fd, kr.oldState)
		}
	})
	return err
}
