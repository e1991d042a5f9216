package nylisp

import (
	"strings"
)

// Lexer splits source text into tokens. It never fails: delimiters are
// padded with spaces and the text is then split on whitespace runs, so
// any other run of non-space characters comes through as one token and
// is classified later by the parser.
type Lexer struct {
	vocab  *Vocabulary
	padder *strings.Replacer
}

func NewLexer(v *Vocabulary) *Lexer {
	pairs := make([]string, 0, 6)
	for _, d := range v.Delimiters() {
		pairs = append(pairs, d, " "+d+" ")
	}
	return &Lexer{
		vocab:  v,
		padder: strings.NewReplacer(pairs...),
	}
}

func (lexer *Lexer) Tokenize(text string) []string {
	return strings.Fields(lexer.padder.Replace(text))
}

// Depth reports how many lists are still open at the end of tokens, and
// whether the last token is a dangling quote. The repl uses it to decide
// whether to ask for a continuation line. A negative depth means an
// unmatched close, which the parser will report.
func (lexer *Lexer) Depth(tokens []string) (depth int, danglingQuote bool) {
	for _, tok := range tokens {
		switch tok {
		case lexer.vocab.Open:
			depth++
		case lexer.vocab.Close:
			depth--
			if depth < 0 {
				return depth, false
			}
		}
	}
	if len(tokens) > 0 && tokens[len(tokens)-1] == lexer.vocab.Quote {
		danglingQuote = true
	}
	return depth, danglingQuote
}

func (lexer *Lexer) NeedsMoreInput(tokens []string) bool {
	depth, dangling := lexer.Depth(tokens)
	return depth > 0 || dangling
}

// Tokenize splits text using the default vocabulary.
func Tokenize(text string) []string {
	return NewLexer(defaultVocab).Tokenize(text)
}
