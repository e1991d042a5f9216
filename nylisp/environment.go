package nylisp

import (
	"math/rand"
)

// Nylisp is an interpreter session: one vocabulary, one global scope
// that outlives each call to Run, and the builtins bound in it. It is
// not safe for concurrent use; give each goroutine its own Clone.
type Nylisp struct {
	vocab  *Vocabulary
	lexer  *Lexer
	parser *Parser
	global *Scope
	forms  map[string]specialForm
	funcs  map[string]NylispUserFunction
	rand   *rand.Rand
	cache  *parseCache

	lexical bool
	eagerIf bool
	trace   bool
}

func NewNylisp() *Nylisp {
	cfg := NewNylispConfig("nylisp")
	err := cfg.ValidateConfig()
	panicOn(err)
	return NewNylispWithConfig(cfg)
}

// NewNylispWithConfig expects cfg to have passed ValidateConfig.
func NewNylispWithConfig(cfg *NylispConfig) *Nylisp {
	vocab := DefaultVocabulary()
	if cfg.Vocab != nil {
		vocab = cfg.Vocab.Clone()
	}
	env := &Nylisp{
		vocab:   vocab,
		lexer:   NewLexer(vocab),
		parser:  NewParser(vocab),
		funcs:   CoreFunctions(vocab),
		rand:    newRand(cfg.Seed),
		cache:   newParseCache(cfg.ParseCacheSize),
		lexical: cfg.Lexical,
		eagerIf: cfg.EagerIf,
		trace:   cfg.Trace,
	}
	env.initSpecialForms()
	env.Clear()
	return env
}

// Clone returns an interpreter with a copy of the global bindings.
// Scopes created later in either one are not seen by the other.
// Lexical closures captured under the old global scope are rebased
// onto the new one.
func (env *Nylisp) Clone() *Nylisp {
	dup := *env
	dup.global = env.global.CloneScope()
	rb := &scopeRebase{seen: map[*Scope]*Scope{env.global: dup.global}}
	for name, x := range dup.global.Map {
		dup.global.Map[name] = rb.value(x)
	}
	dup.funcs = MergeFuncMap(env.funcs)
	dup.rand = rand.New(rand.NewSource(env.rand.Int63()))
	dup.cache = newParseCache(env.cache.max)
	return &dup
}

// scopeRebase copies every scope whose chain reaches a remapped scope,
// and the closures defined in them.
type scopeRebase struct {
	seen map[*Scope]*Scope
}

func (rb *scopeRebase) scope(s *Scope) *Scope {
	if s == nil {
		return nil
	}
	if n, ok := rb.seen[s]; ok {
		return n
	}
	parent := rb.scope(s.Parent)
	if parent == s.Parent {
		rb.seen[s] = s
		return s
	}
	n := s.CloneScope()
	n.Parent = parent
	rb.seen[s] = n
	for name, x := range n.Map {
		n.Map[name] = rb.value(x)
	}
	return n
}

func (rb *scopeRebase) value(x Sexp) Sexp {
	c, ok := x.(*SexpClosure)
	if !ok || c.Defn == nil {
		return x
	}
	defn := rb.scope(c.Defn)
	if defn == c.Defn {
		return x
	}
	dup := *c
	dup.Defn = defn
	return &dup
}

// Clear drops every global binding and rebinds the builtins.
func (env *Nylisp) Clear() {
	env.global = NewGlobalScope()
	for name, fun := range env.funcs {
		env.global.Bind(name, MakeUserFunction(name, fun))
	}
}

func (env *Nylisp) Vocabulary() *Vocabulary {
	return env.vocab
}

func (env *Nylisp) GlobalScope() *Scope {
	return env.global
}

func (env *Nylisp) SetTrace(on bool) {
	env.trace = on
}

func (env *Nylisp) Tracing() bool {
	return env.trace
}

// AddFunction registers a builtin; it survives Clear.
func (env *Nylisp) AddFunction(name string, function NylispUserFunction) {
	env.funcs[name] = function
	env.AddGlobal(name, MakeUserFunction(name, function))
}

func (env *Nylisp) AddGlobal(name string, obj Sexp) {
	env.global.Bind(name, obj)
}

func (env *Nylisp) FindObject(name string) (Sexp, bool) {
	return env.global.LookupSymbol(name)
}

func (env *Nylisp) Tokenize(text string) []string {
	return env.lexer.Tokenize(text)
}

func (env *Nylisp) ParseOne(tokens []string) (Sexp, []string, error) {
	return env.parser.ParseOne(tokens)
}

func (env *Nylisp) Parse(tokens []string) []Result {
	return env.parser.ParseAll(tokens)
}

// EvalAll evaluates each expression in the global scope. A failing
// expression gets an error entry and the rest still run; bindings made
// by earlier expressions stay in place.
func (env *Nylisp) EvalAll(xs []Sexp) []Result {
	return env.EvalExpressions(xs, env.global)
}

func (env *Nylisp) EvalExpressions(xs []Sexp, scope *Scope) []Result {
	results := make([]Result, len(xs))
	for i, x := range xs {
		val, err := env.eval(x, scope, 0)
		results[i] = Result{Expr: val, Err: err}
	}
	return results
}

// Run tokenizes, parses and evaluates text against the global scope.
// Empty input is an error, and so is any parse error: nothing is
// evaluated unless the whole text parses.
func (env *Nylisp) Run(text string) ([]Result, error) {
	parsed, err := env.parse(text)
	if err != nil {
		return nil, err
	}
	return env.EvalAll(parsed), nil
}

func (env *Nylisp) parse(text string) ([]Sexp, error) {
	if xs, ok := env.cache.get(text); ok {
		return xs, nil
	}
	tokens := env.Tokenize(text)
	if len(tokens) == 0 {
		return nil, newError(NoInputErr, "no input")
	}
	results := env.Parse(tokens)
	xs := make([]Sexp, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}
		xs = append(xs, r.Expr)
	}
	env.cache.put(text, xs)
	return xs, nil
}

// EvalString runs text and returns the value of the last expression,
// or the first error.
func (env *Nylisp) EvalString(text string) (Sexp, error) {
	results, err := env.Run(text)
	if err != nil {
		return nil, err
	}
	var last Sexp
	for _, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}
		last = r.Expr
	}
	return last, nil
}

// Sprint renders x in this interpreter's vocabulary.
func (env *Nylisp) Sprint(x Sexp) string {
	return env.vocab.Sprint(x)
}

func (env *Nylisp) show(x Sexp) string {
	if env == nil {
		return defaultVocab.Sprint(x)
	}
	return env.vocab.Sprint(x)
}

// EvaluateAll evaluates xs in scope, for callers holding their own
// scope chain (see NewBuiltinScope). Special forms are recognized by
// their spelling in v; a nil v means DefaultVocabulary.
func EvaluateAll(v *Vocabulary, xs []Sexp, scope *Scope) []Result {
	cfg := NewNylispConfig("nylisp")
	cfg.Vocab = v
	err := cfg.ValidateConfig()
	if err != nil {
		results := make([]Result, len(xs))
		for i := range results {
			results[i].Err = err
		}
		return results
	}
	return NewNylispWithConfig(cfg).EvalExpressions(xs, scope)
}
