package nylisp

type specialForm func(env *Nylisp, name string, args []Sexp, scope *Scope, depth int) (Sexp, error)

func (env *Nylisp) initSpecialForms() {
	v := env.vocab
	env.forms = map[string]specialForm{
		v.If:        ifForm,
		v.Var:       varForm,
		v.Closure:   closureForm,
		v.ScopedLet: scopedLetForm,
	}
}

// Eval evaluates x in scope. Evaluation recurses on the Go stack, so
// very deep programs can exhaust it; there is no depth guard.
func (env *Nylisp) Eval(x Sexp, scope *Scope) (Sexp, error) {
	return env.eval(x, scope, 0)
}

func (env *Nylisp) eval(x Sexp, scope *Scope, depth int) (Sexp, error) {
	if env.trace {
		env.tracef(depth, "eval %s", env.show(x))
	}

	switch e := x.(type) {
	case *SexpQuote:
		return Clone(e.Val), nil
	case *SexpNumber, *SexpBool, *SexpStr, *SexpFunction, *SexpClosure:
		return x, nil
	case *SexpSymbol:
		val, found := scope.LookupSymbol(e.Name)
		if !found {
			return nil, newError(UnboundSymbolErr, "symbol %s not found in environment", e.Name)
		}
		return val, nil
	case *SexpList:
		if len(e.Val) == 0 {
			return &SexpBool{Val: false}, nil
		}
		head, args := e.Val[0], e.Val[1:]
		if sym, isSym := head.(*SexpSymbol); isSym {
			if form, isForm := env.forms[sym.Name]; isForm {
				return form(env, sym.Name, args, scope, depth)
			}
		}
		fn, err := env.eval(head, scope, depth+1)
		if err != nil {
			return nil, err
		}
		return env.apply(head, fn, args, scope, depth)
	case nil:
		return nil, newError(TypeErr, "cannot evaluate a nil expression")
	}
	return nil, newError(TypeErr, "unsupported expression type: %s", env.show(x))
}

// apply calls fn with the unevaluated args, which are evaluated left to
// right in the caller's scope.
func (env *Nylisp) apply(head Sexp, fn Sexp, args []Sexp, scope *Scope, depth int) (Sexp, error) {
	switch f := fn.(type) {
	case *SexpFunction:
		evaluated, err := env.evalArgs(args, scope, depth)
		if err != nil {
			return nil, err
		}
		if env.trace {
			env.tracef(depth, "call %s with %d args", f.Name, len(evaluated))
		}
		return f.Fun(env, f.Name, evaluated)
	case *SexpClosure:
		callScope, err := env.newClosureScope(f, args, scope, depth)
		if err != nil {
			return nil, err
		}
		if env.trace {
			env.tracef(depth, "enter closure %s", env.show(f.Params))
		}
		return env.eval(f.Body, callScope, depth+1)
	}
	return nil, newError(NotCallableErr, "not a function: %s", env.show(head))
}

func (env *Nylisp) evalArgs(args []Sexp, scope *Scope, depth int) ([]Sexp, error) {
	evaluated := make([]Sexp, len(args))
	for i, a := range args {
		val, err := env.eval(a, scope, depth+1)
		if err != nil {
			return nil, err
		}
		evaluated[i] = val
	}
	return evaluated, nil
}

// newClosureScope binds the closure's parameters to the arguments,
// evaluated in the caller's scope. The new scope's parent is the
// caller's scope, or the defining scope when the closure captured one.
func (env *Nylisp) newClosureScope(f *SexpClosure, args []Sexp, scope *Scope, depth int) (*Scope, error) {
	params, err := env.symbolNames(f.Params)
	if err != nil {
		return nil, err
	}
	if len(params) != len(args) {
		return nil, newError(ArityErr, "%s requires the same number of arguments as parameters, got %d parameters and %d arguments",
			env.vocab.Closure, len(params), len(args))
	}
	evaluated, err := env.evalArgs(args, scope, depth)
	if err != nil {
		return nil, err
	}

	parent := scope
	if f.Defn != nil {
		parent = f.Defn
	}
	callScope := NewScope(env.vocab.Closure, parent)
	for i, name := range params {
		callScope.Bind(name, evaluated[i])
	}
	return callScope, nil
}

func arity(name string, args []Sexp, want int) error {
	if len(args) != want {
		return newError(ArityErr, "%s requires %d arguments, got %d", name, want, len(args))
	}
	return nil
}

// (if cond then else)
func ifForm(env *Nylisp, name string, args []Sexp, scope *Scope, depth int) (Sexp, error) {
	if err := arity(name, args, 3); err != nil {
		return nil, err
	}
	cond, err := env.eval(args[0], scope, depth+1)
	if err != nil {
		return nil, err
	}

	if env.eagerIf {
		// both branches run before the condition picks one.
		thenVal, err := env.eval(args[1], scope, depth+1)
		if err != nil {
			return nil, err
		}
		elseVal, err := env.eval(args[2], scope, depth+1)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(*SexpBool)
		if !ok {
			return nil, newError(TypeErr, "%s requires a boolean condition, got %s", name, env.show(cond))
		}
		if b.Val {
			return thenVal, nil
		}
		return elseVal, nil
	}

	b, ok := cond.(*SexpBool)
	if !ok {
		return nil, newError(TypeErr, "%s requires a boolean condition, got %s", name, env.show(cond))
	}
	if b.Val {
		return env.eval(args[1], scope, depth+1)
	}
	return env.eval(args[2], scope, depth+1)
}

// (var symbol value) binds in the current scope and answers with the
// record (symbol value true).
func varForm(env *Nylisp, name string, args []Sexp, scope *Scope, depth int) (Sexp, error) {
	if err := arity(name, args, 2); err != nil {
		return nil, err
	}
	sym, ok := args[0].(*SexpSymbol)
	if !ok {
		return nil, newError(TypeErr, "%s requires a symbol as first argument, got %s", name, env.show(args[0]))
	}
	val, err := env.eval(args[1], scope, depth+1)
	if err != nil {
		return nil, err
	}
	scope.Bind(sym.Name, val)
	return MakeList(&SexpSymbol{Name: sym.Name}, val, &SexpBool{Val: true}), nil
}

// (closure params body) evaluates neither argument.
func closureForm(env *Nylisp, name string, args []Sexp, scope *Scope, depth int) (Sexp, error) {
	if err := arity(name, args, 2); err != nil {
		return nil, err
	}
	c := &SexpClosure{Params: args[0], Body: args[1]}
	if env.lexical {
		c.Defn = scope
	}
	return c, nil
}

// (scoped-let ((name value) ...) body): every value is evaluated in the
// enclosing scope, so a binding cannot see the ones before it.
func scopedLetForm(env *Nylisp, name string, args []Sexp, scope *Scope, depth int) (Sexp, error) {
	if err := arity(name, args, 2); err != nil {
		return nil, err
	}
	bindings, ok := args[0].(*SexpList)
	if !ok {
		return nil, newError(TypeErr, "%s first element should be a list of bindings, got %s", name, env.show(args[0]))
	}

	letScope := NewScope(name, scope)
	for _, b := range bindings.Val {
		pair, ok := b.(*SexpList)
		if !ok || len(pair.Val) != 2 {
			return nil, newError(TypeErr, "%s requires each binding to be a list of 2 elements, got %s", name, env.show(b))
		}
		sym, ok := pair.Val[0].(*SexpSymbol)
		if !ok {
			return nil, newError(TypeErr, "%s binding name must be a symbol, got %s", name, env.show(pair.Val[0]))
		}
		val, err := env.eval(pair.Val[1], scope, depth+1)
		if err != nil {
			return nil, err
		}
		letScope.Bind(sym.Name, val)
	}
	return env.eval(args[1], letScope, depth+1)
}
