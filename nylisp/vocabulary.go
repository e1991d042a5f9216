package nylisp

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
)

// Vocabulary holds the reserved tokens of the language. Any set of
// distinct strings works, as long as none of them could also be read
// as a number or contains whitespace.
type Vocabulary struct {
	Open      string `yaml:"open"`
	Close     string `yaml:"close"`
	Quote     string `yaml:"quote"`
	True      string `yaml:"bool-true"`
	False     string `yaml:"bool-false"`
	If        string `yaml:"if"`
	Var       string `yaml:"var"`
	Closure   string `yaml:"closure"`
	ScopedLet string `yaml:"scoped-let"`

	// builtin names that are not plain arithmetic
	And    string `yaml:"and"`
	Or     string `yaml:"or"`
	Not    string `yaml:"not"`
	Car    string `yaml:"car"`
	Cdr    string `yaml:"cdr"`
	Random string `yaml:"random"`
}

// the arithmetic and comparison builtins keep their ASCII names in
// every vocabulary.
var ArithmeticNames = []string{"+", "-", "*", "/", "%", "=", "<", ">"}

func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Open:      "💖",
		Close:     "💔",
		Quote:     "😪",
		True:      "👍",
		False:     "👎",
		If:        "🐶",
		Var:       "🌹",
		Closure:   "🐷",
		ScopedLet: "🍙",
		And:       "😎",
		Or:        "😕",
		Not:       "❌",
		Car:       "🚗",
		Cdr:       "💭",
		Random:    "🎨",
	}
}

// ASCIIVocabulary is the same language spelled with conventional lisp
// words. Handy at a terminal without emoji input.
func ASCIIVocabulary() *Vocabulary {
	return &Vocabulary{
		Open:      "(",
		Close:     ")",
		Quote:     "'",
		True:      "true",
		False:     "false",
		If:        "if",
		Var:       "var",
		Closure:   "closure",
		ScopedLet: "scoped-let",
		And:       "and",
		Or:        "or",
		Not:       "not",
		Car:       "car",
		Cdr:       "cdr",
		Random:    "random",
	}
}

func (v *Vocabulary) Clone() *Vocabulary {
	c := *v
	return &c
}

// Delimiters are split out of the source text even without surrounding
// whitespace.
func (v *Vocabulary) Delimiters() []string {
	return []string{v.Open, v.Close, v.Quote}
}

// SpecialForms lists the keywords the evaluator interprets structurally.
func (v *Vocabulary) SpecialForms() []string {
	return []string{v.If, v.Var, v.Closure, v.ScopedLet}
}

type namedToken struct {
	role string
	tok  string
}

func (v *Vocabulary) reserved() []namedToken {
	return []namedToken{
		{"open", v.Open},
		{"close", v.Close},
		{"quote", v.Quote},
		{"bool-true", v.True},
		{"bool-false", v.False},
		{"if", v.If},
		{"var", v.Var},
		{"closure", v.Closure},
		{"scoped-let", v.ScopedLet},
		{"and", v.And},
		{"or", v.Or},
		{"not", v.Not},
		{"car", v.Car},
		{"cdr", v.Cdr},
		{"random", v.Random},
	}
}

// Validate checks that the tokens can be told apart from each other and
// from symbols and numbers after tokenizing.
func (v *Vocabulary) Validate() error {
	all := v.reserved()
	for _, name := range ArithmeticNames {
		all = append(all, namedToken{name, name})
	}

	seen := make(map[string]string, len(all))
	for _, nt := range all {
		if nt.tok == "" {
			return fmt.Errorf("vocabulary: %s token is empty", nt.role)
		}
		if strings.IndexFunc(nt.tok, unicode.IsSpace) >= 0 {
			return fmt.Errorf("vocabulary: %s token %q contains whitespace", nt.role, nt.tok)
		}
		if _, err := strconv.ParseFloat(nt.tok, 64); err == nil {
			return fmt.Errorf("vocabulary: %s token %q reads as a number", nt.role, nt.tok)
		}
		if prev, dup := seen[nt.tok]; dup {
			return fmt.Errorf("vocabulary: %s and %s share the token %q", prev, nt.role, nt.tok)
		}
		seen[nt.tok] = nt.role
	}

	// a delimiter inside any other token would split that token apart.
	for _, d := range v.Delimiters() {
		for _, nt := range all {
			if nt.tok != d && strings.Contains(nt.tok, d) {
				return fmt.Errorf("vocabulary: %s token %q contains the delimiter %q", nt.role, nt.tok, d)
			}
		}
	}
	return nil
}

// ParseVocabulary reads a YAML document on top of the default
// vocabulary; keys left out keep their default token.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	v := DefaultVocabulary()
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("vocabulary: %v", err)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseVocabulary(data)
}

// Sprint renders x back into source text spelled with v.
func (v *Vocabulary) Sprint(x Sexp) string {
	var sb strings.Builder
	v.write(&sb, x)
	return sb.String()
}

func (v *Vocabulary) write(sb *strings.Builder, x Sexp) {
	switch e := x.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *SexpQuote:
		sb.WriteString(v.Quote)
		v.write(sb, e.Val)
	case *SexpSymbol:
		sb.WriteString(e.Name)
	case *SexpNumber:
		sb.WriteString(strconv.FormatFloat(e.Val, 'g', -1, 64))
	case *SexpBool:
		if e.Val {
			sb.WriteString(v.True)
		} else {
			sb.WriteString(v.False)
		}
	case *SexpStr:
		sb.WriteString(strconv.Quote(e.S))
	case *SexpList:
		sb.WriteString(v.Open)
		for i, elem := range e.Val {
			if i > 0 {
				sb.WriteByte(' ')
			}
			v.write(sb, elem)
		}
		sb.WriteString(v.Close)
	case *SexpFunction:
		sb.WriteString("<builtin " + e.Name + ">")
	case *SexpClosure:
		sb.WriteString(v.Open + v.Closure + " ")
		v.write(sb, e.Params)
		sb.WriteByte(' ')
		v.write(sb, e.Body)
		sb.WriteString(v.Close)
	case *SexpScopedLet:
		sb.WriteString(v.Open + v.ScopedLet + " ")
		v.write(sb, e.Variables)
		sb.WriteByte(' ')
		v.write(sb, e.Body)
		sb.WriteString(v.Close)
	default:
		fmt.Fprintf(sb, "<%T>", x)
	}
}
