// Package input turns raw terminal bytes into game keys.
package input

import (
	"bufio"
)

// Key is a logical key press. A single byte or escape sequence maps to at
// most one Key.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyRotate
	KeySoftDrop
	KeyHardDrop
	KeyStart
	KeyPause
	KeyRestart
	KeyQuit
)

var keyNames = [...]string{
	KeyLeft:     "Left",
	KeyRight:    "Right",
	KeyRotate:   "Rotate",
	KeySoftDrop: "SoftDrop",
	KeyHardDrop: "HardDrop",
	KeyStart:    "Start",
	KeyPause:    "Pause",
	KeyRestart:  "Restart",
	KeyQuit:     "Quit",
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "Unknown"
	}
	return keyNames[k]
}

// Input represents the current frame's input.
type Input struct {
	Keys    []Key  // Recognized keys in arrival order
	Quit    bool   // Quit was pressed or the reader closed
	Pressed []byte // Raw bytes drained this frame, including unrecognized ones
}

// Has reports whether k was pressed this frame.
func (in Input) Has(k Key) bool {
	for _, got := range in.Keys {
		if got == k {
			return true
		}
	}
	return false
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	closed  bool
	pending []byte // Escape sequence prefix still waiting for its final byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking and
// parses them into keys. A closed reader reports Quit.
//
// An escape sequence cut off at the end of the drained bytes is held back
// until its final byte arrives. A lone ESC with nothing following by the
// next call is a Pause.
func ReadInput(s *Stream) Input {
	var pressed []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			pressed = append(pressed, b)
		default:
			break drain
		}
	}

	buf := append(s.pending, pressed...)
	s.pending = nil

	keys, rest := scan(buf)
	switch {
	case len(rest) == 0:
	case s.closed || (len(rest) == 1 && len(pressed) == 0):
		keys = append(keys, flush(rest)...)
	default:
		s.pending = append([]byte(nil), rest...)
	}

	in := Input{
		Keys:    keys,
		Pressed: pressed,
	}
	in.Quit = s.closed || in.Has(KeyQuit)
	return in
}

// Parse maps a complete byte sequence to keys. CSI and SS3 arrow sequences
// (ESC [ A-D, ESC O A-D) map to rotate, soft drop, right and left. Other CSI
// sequences are skipped whole. A lone ESC pauses.
func Parse(buf []byte) []Key {
	keys, rest := scan(buf)
	return append(keys, flush(rest)...)
}

// scan parses buf up to a trailing escape sequence that may be incomplete,
// which is returned as rest.
func scan(buf []byte) (keys []Key, rest []byte) {
	for i := 0; i < len(buf); i++ {
		if buf[i] != '\x1b' {
			if k, ok := byteKey(buf[i]); ok {
				keys = append(keys, k)
			}
			continue
		}

		n, k, ok := escape(buf[i:])
		if n == 0 {
			return keys, buf[i:]
		}
		if ok {
			keys = append(keys, k)
		}
		i += n - 1
	}
	return keys, nil
}

// flush parses an escape prefix that will never be completed. Only a bare
// ESC means anything.
func flush(rest []byte) []Key {
	if len(rest) == 1 && rest[0] == '\x1b' {
		return []Key{KeyPause}
	}
	return nil
}

// escape decodes the escape sequence at the start of seq. It returns the
// number of bytes consumed, or 0 when seq ends before the sequence does.
func escape(seq []byte) (n int, k Key, ok bool) {
	if len(seq) < 2 {
		return 0, 0, false
	}

	switch seq[1] {
	case '[':
		for j := 2; j < len(seq); j++ {
			c := seq[j]
			switch {
			case c >= 0x40 && c <= 0x7e: // Final byte
				if j == 2 {
					k, ok = arrowKey(c)
					return 3, k, ok
				}
				return j + 1, 0, false
			case c < 0x20 || c > 0x3f:
				// Not a parameter or intermediate byte: drop the prefix
				return j, 0, false
			}
		}
		return 0, 0, false
	case 'O':
		if len(seq) < 3 {
			return 0, 0, false
		}
		k, ok = arrowKey(seq[2])
		return 3, k, ok
	}

	// ESC followed by an ordinary byte
	return 1, KeyPause, true
}

func arrowKey(code byte) (Key, bool) {
	switch code {
	case 'A':
		return KeyRotate, true
	case 'B':
		return KeySoftDrop, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return 0, false
}

func byteKey(b byte) (Key, bool) {
	switch b {
	case 'a', 'A', 'h', 'H':
		return KeyLeft, true
	case 'd', 'D', 'l', 'L':
		return KeyRight, true
	case 'w', 'W', 'k', 'K':
		return KeyRotate, true
	case 's', 'S', 'j', 'J':
		return KeySoftDrop, true
	case ' ':
		return KeyHardDrop, true
	case '\n', '\r':
		return KeyStart, true
	case 'p', 'P':
		return KeyPause, true
	case 'r', 'R':
		return KeyRestart, true
	case 'q', 'Q', '\x03': // Ctrl+C arrives as a byte in raw mode
		return KeyQuit, true
	}
	return 0, false
}
