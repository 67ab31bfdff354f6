package lexer

// MacroExpander expands macro syntax met by the lexer. Invoke handles
// "@name" and may read its arguments from s; Variable handles "$name".
// The returned tokens are emitted in place of the macro.
type MacroExpander interface {
	Invoke(name string, s *Stream) ([]Token, error)
	Variable(name string) ([]Token, error)
}
