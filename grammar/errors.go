package grammar

import "fmt"

// SyntaxError is returned for malformed grammar text.
type SyntaxError struct {
	Line, Column int
	// Text is the offending line, when known.
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return "grammar syntax error: " + e.Msg
	}
	return fmt.Sprintf("grammar syntax error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

// UnknownSymbolError means a requested nonterminal doesn't occur in the
// grammar at all.
type UnknownSymbolError struct {
	Symbol string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown nonterminal %q", e.Symbol)
}
