package interaction

import (
	"os"
	"sync"
)

// KeyboardReader handles keyboard input in raw mode
type KeyboardReader struct {
	oldState *termState
	input    chan KeyEvent
	stop     chan struct{}
	once     sync.Once
}

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyInterrupt
)

// NewKeyboardReader puts stdin in raw mode and starts reading keys
func NewKeyboardReader() (*KeyboardReader, error) {
	kr := &KeyboardReader{
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}

	if err := kr.enableRawMode(); err != nil {
		return nil, err
	}

	go kr.readInput()

	return kr, nil
}

// readInput reads keyboard input in a goroutine
func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 3)

	for {
		select {
		case <-kr.stop:
			return
		default:
		}

		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			continue
		}

		event := parseInput(buf[:n])
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

// parseInput parses raw keyboard input. Arrow keys and other escape sequences are ignored.
func parseInput(buf []byte) *KeyEvent {
	if len(buf) == 0 {
		return nil
	}

	switch buf[0] {
	case 3: // Ctrl+C
		return &KeyEvent{Key: 3, Type: KeyInterrupt}
	case 27:
		if len(buf) == 1 {
			return &KeyEvent{Key: 27, Type: KeyEscape}
		}
		return nil
	}

	return &KeyEvent{Key: rune(buf[0]), Type: KeyChar}
}

// Events returns the keyboard event channel
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops the reader and restores the terminal. Safe to call more than once.
func (kr *KeyboardReader) Close() error {
	var err error
	kr.once.Do(func() {
		close(kr.stop)
		err = kr.disableRawMode()
	})
	return err
}

// IsQuit reports whether the event should end an interactive view.
func (e KeyEvent) IsQuit() bool {
	return e.Type == KeyInterrupt || e.Type == KeyEscape || (e.Type == KeyChar && (e.Key == 'q' || e.Key == 'Q'))
}

// IsRefresh reports whether the event asks for an immediate refresh.
func (e KeyEvent) IsRefresh() bool {
	return e.Type == KeyChar && (e.Key == 'r' || e.Key == 'R')
}
