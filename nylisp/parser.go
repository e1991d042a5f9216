package nylisp

import (
	"errors"
	"strconv"
)

type Parser struct {
	vocab *Vocabulary
}

// Result is one entry of a parse or evaluation batch: exactly one of
// Expr and Err is set.
type Result struct {
	Expr Sexp
	Err  error
}

func NewParser(v *Vocabulary) *Parser {
	return &Parser{vocab: v}
}

// ParseOne reads a single form off the front of tokens and returns it
// along with the tokens that follow it.
func (parser *Parser) ParseOne(tokens []string) (Sexp, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, UnexpectedEnd
	}
	tok, rest := tokens[0], tokens[1:]

	switch tok {
	case parser.vocab.Open:
		return parser.parseList(rest)
	case parser.vocab.Quote:
		return parser.parseQuote(rest)
	case parser.vocab.Close:
		return nil, nil, newError(ParseErr, "unexpected close %s", tok)
	}
	return parser.parseAtom(tok), rest, nil
}

// ParseAll applies ParseOne until the tokens run out. The first error is
// appended to the results and ends the batch; there is no
// resynchronization.
func (parser *Parser) ParseAll(tokens []string) []Result {
	var results []Result
	for len(tokens) > 0 {
		expr, rest, err := parser.ParseOne(tokens)
		if err != nil {
			results = append(results, Result{Err: err})
			break
		}
		results = append(results, Result{Expr: expr})
		tokens = rest
	}
	return results
}

func (parser *Parser) parseList(tokens []string) (Sexp, []string, error) {
	elems := make([]Sexp, 0, SliceDefaultCap)
	for {
		if len(tokens) == 0 {
			return nil, nil, newError(ParseErr, "unexpected end of input: missing %s", parser.vocab.Close)
		}
		if tokens[0] == parser.vocab.Close {
			return &SexpList{Val: elems}, tokens[1:], nil
		}
		expr, rest, err := parser.ParseOne(tokens)
		if err != nil {
			return nil, nil, err
		}
		elems = append(elems, expr)
		tokens = rest
	}
}

func (parser *Parser) parseQuote(tokens []string) (Sexp, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, newError(ParseErr, "unexpected end of input: %s must be followed by a form", parser.vocab.Quote)
	}
	expr, rest, err := parser.ParseOne(tokens)
	if err != nil {
		return nil, nil, err
	}
	return &SexpQuote{Val: expr}, rest, nil
}

// numbers first, then the boolean tokens, and everything else is a
// symbol.
func (parser *Parser) parseAtom(tok string) Sexp {
	f, err := strconv.ParseFloat(tok, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return &SexpNumber{Val: f}
	}
	switch tok {
	case parser.vocab.True:
		return &SexpBool{Val: true}
	case parser.vocab.False:
		return &SexpBool{Val: false}
	}
	return &SexpSymbol{Name: tok}
}

const SliceDefaultCap = 10

// ParseAll parses tokens using the default vocabulary.
func ParseAll(tokens []string) []Result {
	return NewParser(defaultVocab).ParseAll(tokens)
}
