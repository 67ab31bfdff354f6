package value

import (
	"github.com/agenthands/squire/pkg/core/fault"
)

// Book is the ordered sequence variant. Indexes are 1-based; negative
// indexes count back from the end, so -1 is the last page.
type Book struct {
	pages []Value
}

func NewBook(pages ...Value) *Book {
	return &Book{pages: pages}
}

// MaxLength bounds the pages of a book built by repetition or padding,
// and the bytes of a repeated text.
const MaxLength = 1 << 24

func (b *Book) Len() int { return len(b.pages) }

// Pages returns the backing slice. Callers must not modify it.
func (b *Book) Pages() []Value { return b.pages }

func (b *Book) Clone() *Book {
	pages := make([]Value, len(b.pages))
	copy(pages, b.pages)
	return &Book{pages: pages}
}

func (b *Book) Append(v Value) {
	b.pages = append(b.pages, v)
}

// offset turns a 1-based or negative index into a slice offset for a
// sequence of the given length. The offset may lie past the end.
func offset(index int64, length int) (int, error) {
	if index == 0 {
		return 0, fault.New(fault.IndexOutOfBounds, "sequences are indexed from 1")
	}
	pos := index
	if pos < 0 {
		pos += int64(length) + 1
	}
	if pos <= 0 {
		return 0, fault.New(fault.IndexOutOfBounds, "index %d before the start (length %d)", index, length)
	}
	return int(pos - 1), nil
}

func (b *Book) Get(index int64) (Value, error) {
	pos, err := offset(index, len(b.pages))
	if err != nil {
		return Ni, err
	}
	if pos >= len(b.pages) {
		return Ni, fault.New(fault.IndexOutOfBounds, "index %d past the last page (%d)", index, len(b.pages))
	}
	return b.pages[pos], nil
}

// Set stores v at index, padding the book with ni when index lies past
// the end. A book is never padded beyond MaxLength pages.
func (b *Book) Set(index int64, v Value) error {
	pos, err := offset(index, len(b.pages))
	if err != nil {
		return err
	}
	if pos >= len(b.pages) && pos >= MaxLength {
		return fault.New(fault.IndexOutOfBounds, "index %d past the page limit (%d)", index, MaxLength)
	}
	for len(b.pages) <= pos {
		b.pages = append(b.pages, Ni)
	}
	b.pages[pos] = v
	return nil
}
