package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/agenthands/squire/pkg/core/fault"
)

// Stream is a character source with lookahead, put-back and position
// tracking. It never blocks beyond what the underlying reader does.
type Stream struct {
	src  io.RuneReader
	back *arraystack.Stack // runes waiting to be read again, top first
	done bool
	err  error

	pos      fault.Position
	lineEnds []int // column reached at the end of every finished line
}

// NewStream reads characters from r.
func NewStream(r io.Reader) *Stream {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	return &Stream{
		src:  rr,
		back: arraystack.New(),
		pos:  fault.Position{Line: 1, Column: 1},
	}
}

func NewStringStream(src string) *Stream {
	return NewStream(strings.NewReader(src))
}

func (s *Stream) read() (rune, bool) {
	if s.done {
		return 0, false
	}
	r, _, err := s.src.ReadRune()
	if err != nil {
		s.done = true
		if err != io.EOF {
			s.err = err
		}
		return 0, false
	}
	return r, true
}

// Peek returns the next character without consuming it.
func (s *Stream) Peek() (rune, bool) {
	if top, ok := s.back.Peek(); ok {
		return top.(rune), true
	}
	r, ok := s.read()
	if ok {
		s.back.Push(r)
	}
	return r, ok
}

func (s *Stream) Next() (rune, bool) {
	r, ok := s.Peek()
	if !ok {
		return 0, false
	}
	s.back.Pop()

	if r == '\n' {
		s.lineEnds = append(s.lineEnds, s.pos.Column)
		s.pos.Line++
		s.pos.Column = 1
	} else {
		s.pos.Column++
	}
	return r, true
}

// TakeWhile consumes the longest prefix whose characters satisfy pred.
// It reports false when nothing matched.
func (s *Stream) TakeWhile(pred func(rune) bool) (string, bool) {
	var sb strings.Builder
	for {
		r, ok := s.Peek()
		if !ok || !pred(r) {
			break
		}
		s.Next()
		sb.WriteRune(r)
	}
	return sb.String(), sb.Len() > 0
}

// TakePrefix consumes lit if the upcoming characters spell it exactly.
func (s *Stream) TakePrefix(lit string) bool {
	for i, want := range lit {
		r, ok := s.Peek()
		if !ok || r != want {
			s.PutBack(lit[:i])
			return false
		}
		s.Next()
	}
	return true
}

// TakeIdentifier consumes word only when it is not immediately followed
// by a character that could continue an identifier, so "if" matches in
// "if x" but not in "ifrit".
func (s *Stream) TakeIdentifier(word string) bool {
	if !s.TakePrefix(word) {
		return false
	}
	if r, ok := s.Peek(); ok && isIdentRune(r) {
		s.PutBack(word)
		return false
	}
	return true
}

// PutBack returns chars to the stream so that they are read again in
// their original order. They must be the characters most recently
// consumed.
func (s *Stream) PutBack(chars string) {
	runes := []rune(chars)
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		s.back.Push(r)
		if r == '\n' && len(s.lineEnds) > 0 {
			s.pos.Line--
			s.pos.Column = s.lineEnds[len(s.lineEnds)-1]
			s.lineEnds = s.lineEnds[:len(s.lineEnds)-1]
		} else {
			s.pos.Column--
		}
	}
}

// StripWhitespaceAndComments skips whitespace and '#' line comments.
func (s *Stream) StripWhitespaceAndComments() {
	for {
		s.TakeWhile(unicode.IsSpace)
		if r, ok := s.Peek(); !ok || r != '#' {
			return
		}
		s.TakeWhile(func(r rune) bool { return r != '\n' })
	}
}

// Pos is the position of the next character.
func (s *Stream) Pos() fault.Position { return s.pos }

// Error stamps err with the current position.
func (s *Stream) Error(err *fault.Error) error {
	return err.At(s.pos)
}

// Err returns the first read error other than io.EOF.
func (s *Stream) Err() error { return s.err }

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isIdentRune(r rune) bool {
	return isAlnum(r) || r == '_'
}
