package nylisp

// Sexp is both program text and runtime value. The set of
// implementations is closed: only the types in this file satisfy it.
type Sexp interface {
	SexpString() string
	sexp()
}

type SexpQuote struct {
	Val Sexp
}

type SexpSymbol struct {
	Name string
}

type SexpNumber struct {
	Val float64
}

type SexpBool struct {
	Val bool
}

type SexpStr struct {
	S string
}

// SexpList is a compound form when evaluated and a plain sequence when
// used as a value. Val is never nil; use MakeList.
type SexpList struct {
	Val []Sexp
}

type NylispUserFunction func(env *Nylisp, name string, args []Sexp) (Sexp, error)

type SexpFunction struct {
	Name string
	Fun  NylispUserFunction
}

// SexpClosure is a user function. Params must be a list of symbols by
// the time it is called. Defn is the scope the closure was created in,
// and is only set when the interpreter runs with lexical closures; when
// nil, free variables in Body resolve through the caller's scope.
type SexpClosure struct {
	Params Sexp
	Body   Sexp
	Defn   *Scope
}

// SexpScopedLet is never produced by the reader or the evaluator.
type SexpScopedLet struct {
	Variables Sexp
	Body      Sexp
}

func (*SexpQuote) sexp()     {}
func (*SexpSymbol) sexp()    {}
func (*SexpNumber) sexp()    {}
func (*SexpBool) sexp()      {}
func (*SexpStr) sexp()       {}
func (*SexpList) sexp()      {}
func (*SexpFunction) sexp()  {}
func (*SexpClosure) sexp()   {}
func (*SexpScopedLet) sexp() {}

var defaultVocab = DefaultVocabulary()

func (x *SexpQuote) SexpString() string     { return defaultVocab.Sprint(x) }
func (x *SexpSymbol) SexpString() string    { return defaultVocab.Sprint(x) }
func (x *SexpNumber) SexpString() string    { return defaultVocab.Sprint(x) }
func (x *SexpBool) SexpString() string      { return defaultVocab.Sprint(x) }
func (x *SexpStr) SexpString() string       { return defaultVocab.Sprint(x) }
func (x *SexpList) SexpString() string      { return defaultVocab.Sprint(x) }
func (x *SexpFunction) SexpString() string  { return defaultVocab.Sprint(x) }
func (x *SexpClosure) SexpString() string   { return defaultVocab.Sprint(x) }
func (x *SexpScopedLet) SexpString() string { return defaultVocab.Sprint(x) }

func MakeList(expressions ...Sexp) *SexpList {
	if expressions == nil {
		expressions = []Sexp{}
	}
	return &SexpList{Val: expressions}
}

func MakeSymbol(name string) *SexpSymbol {
	return &SexpSymbol{Name: name}
}

func MakeNumber(f float64) *SexpNumber {
	return &SexpNumber{Val: f}
}

func MakeBool(b bool) *SexpBool {
	return &SexpBool{Val: b}
}

func MakeString(s string) *SexpStr {
	return &SexpStr{S: s}
}

func MakeQuote(x Sexp) *SexpQuote {
	return &SexpQuote{Val: x}
}

func MakeUserFunction(name string, ufun NylispUserFunction) *SexpFunction {
	return &SexpFunction{Name: name, Fun: ufun}
}

// Clone copies the list and quote structure of x. Leaves are shared;
// none of them is ever mutated after construction.
func Clone(x Sexp) Sexp {
	switch e := x.(type) {
	case *SexpList:
		c := make([]Sexp, len(e.Val))
		for i := range e.Val {
			c[i] = Clone(e.Val[i])
		}
		return &SexpList{Val: c}
	case *SexpQuote:
		return &SexpQuote{Val: Clone(e.Val)}
	}
	return x
}

// TypeName is used in error messages.
func TypeName(x Sexp) string {
	switch x.(type) {
	case *SexpQuote:
		return "quote"
	case *SexpSymbol:
		return "symbol"
	case *SexpNumber:
		return "number"
	case *SexpBool:
		return "boolean"
	case *SexpStr:
		return "string"
	case *SexpList:
		return "list"
	case *SexpFunction:
		return "builtin"
	case *SexpClosure:
		return "closure"
	case *SexpScopedLet:
		return "scoped-let"
	}
	return "unknown"
}
