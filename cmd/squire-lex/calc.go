package main

import (
	"errors"
	"fmt"

	"github.com/agenthands/squire/pkg/compiler/lexer"
	"github.com/agenthands/squire/pkg/core/value"
	"github.com/agenthands/squire/pkg/vm"
)

// Binary operators from loosest to tightest binding. Power and unary
// minus sit below the last level.
var levels = []map[lexer.Symbol]uint8{
	{
		lexer.EqualEqual: vm.OP_EQ, lexer.NotEqual: vm.OP_NE,
		lexer.LessThan: vm.OP_LT, lexer.LessThanOrEqual: vm.OP_LE,
		lexer.GreaterThan: vm.OP_GT, lexer.GreaterThanOrEqual: vm.OP_GE,
	},
	{lexer.Plus: vm.OP_ADD, lexer.Hyphen: vm.OP_SUB},
	{lexer.Asterisk: vm.OP_MUL, lexer.Solidus: vm.OP_DIV, lexer.PercentSign: vm.OP_MOD},
}

var (
	powerOp = map[lexer.Symbol]uint8{lexer.AsteriskAsterisk: vm.OP_POW}
	minusOp = map[lexer.Symbol]uint8{lexer.Hyphen: vm.OP_SUB}
)

var errIncomplete = errors.New("unexpected end of expression")

// calc compiles an expression over literals into a journey body.
type calc struct {
	toks []lexer.Token
	pos  int
	b    *vm.Builder
}

// compile turns the tokens of one expression into a journey taking no
// arguments.
func compile(toks []lexer.Token) (value.Value, error) {
	c := &calc{toks: toks, b: vm.NewBuilder()}
	if err := c.binary(0); err != nil {
		return value.Ni, err
	}
	if c.pos < len(c.toks) {
		tok := c.toks[c.pos]
		return value.Ni, fmt.Errorf("%s: unexpected %s", tok.Pos, tok)
	}
	c.b.Op(vm.OP_RET)

	j, err := c.b.Journey("calc")
	if err != nil {
		return value.Ni, err
	}
	return value.FromJourney(j), nil
}

// evaluate runs an expression on m.
func evaluate(m *vm.Machine, toks []lexer.Token) (value.Value, error) {
	j, err := compile(toks)
	if err != nil {
		return value.Ni, err
	}
	m.Reset()
	return m.Invoke(j)
}

func (c *calc) next() (lexer.Token, bool) {
	if c.pos >= len(c.toks) {
		return lexer.Token{}, false
	}
	tok := c.toks[c.pos]
	c.pos++
	return tok, true
}

// symbol consumes the next token when it is one of ops.
func (c *calc) symbol(ops map[lexer.Symbol]uint8) (uint8, bool) {
	if c.pos >= len(c.toks) || c.toks[c.pos].Kind != lexer.KindSymbol {
		return 0, false
	}
	op, ok := ops[c.toks[c.pos].Symbol]
	if ok {
		c.pos++
	}
	return op, ok
}

func (c *calc) binary(level int) error {
	if level == len(levels) {
		return c.unary()
	}
	if err := c.binary(level + 1); err != nil {
		return err
	}
	for {
		op, ok := c.symbol(levels[level])
		if !ok {
			return nil
		}
		if err := c.binary(level + 1); err != nil {
			return err
		}
		c.b.Op(op)
	}
}

func (c *calc) unary() error {
	if _, ok := c.symbol(minusOp); ok {
		c.b.Const(value.Numeral(0))
		if err := c.unary(); err != nil {
			return err
		}
		c.b.Op(vm.OP_SUB)
		return nil
	}
	return c.power()
}

// power is right-associative.
func (c *calc) power() error {
	if err := c.primary(); err != nil {
		return err
	}
	if op, ok := c.symbol(powerOp); ok {
		if err := c.unary(); err != nil {
			return err
		}
		c.b.Op(op)
	}
	return nil
}

func (c *calc) primary() error {
	tok, ok := c.next()
	if !ok {
		return errIncomplete
	}
	switch {
	case tok.Kind == lexer.KindLiteral:
		c.b.Const(tok.Value)
		return nil
	case tok.Kind == lexer.KindLeftParen && tok.Paren == lexer.Round:
		if err := c.binary(0); err != nil {
			return err
		}
		closing, ok := c.next()
		if !ok {
			return errIncomplete
		}
		if closing.Kind != lexer.KindRightParen || closing.Paren != lexer.Round {
			return fmt.Errorf("%s: expected ) but found %s", closing.Pos, closing)
		}
		return nil
	}
	return fmt.Errorf("%s: unexpected %s", tok.Pos, tok)
}
