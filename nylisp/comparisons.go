package nylisp

// Equal is structural equality. Builtins are equal only to themselves.
// Closures compare on parameters and body; the captured scope is not
// part of the comparison.
func Equal(a, b Sexp) bool {
	switch x := a.(type) {
	case *SexpQuote:
		y, ok := b.(*SexpQuote)
		return ok && Equal(x.Val, y.Val)
	case *SexpSymbol:
		y, ok := b.(*SexpSymbol)
		return ok && x.Name == y.Name
	case *SexpNumber:
		y, ok := b.(*SexpNumber)
		return ok && x.Val == y.Val
	case *SexpBool:
		y, ok := b.(*SexpBool)
		return ok && x.Val == y.Val
	case *SexpStr:
		y, ok := b.(*SexpStr)
		return ok && x.S == y.S
	case *SexpList:
		y, ok := b.(*SexpList)
		if !ok || len(x.Val) != len(y.Val) {
			return false
		}
		for i := range x.Val {
			if !Equal(x.Val[i], y.Val[i]) {
				return false
			}
		}
		return true
	case *SexpFunction:
		y, ok := b.(*SexpFunction)
		return ok && x == y
	case *SexpClosure:
		y, ok := b.(*SexpClosure)
		return ok && Equal(x.Params, y.Params) && Equal(x.Body, y.Body)
	case *SexpScopedLet:
		y, ok := b.(*SexpScopedLet)
		return ok && Equal(x.Variables, y.Variables) && Equal(x.Body, y.Body)
	}
	return false
}

func EqualFunction(env *Nylisp, name string, args []Sexp) (Sexp, error) {
	if err := requireArgs(name, args); err != nil {
		return nil, err
	}
	first := args[0]
	for _, a := range args[1:] {
		if !Equal(first, a) {
			return &SexpBool{Val: false}, nil
		}
	}
	return &SexpBool{Val: true}, nil
}

// CompareFunction builds < and >: true when the arguments are strictly
// increasing (or decreasing) in argument order.
func CompareFunction(name string) NylispUserFunction {
	increasing := name == "<"
	return func(env *Nylisp, name string, args []Sexp) (Sexp, error) {
		if err := requireArgs(name, args); err != nil {
			return nil, err
		}
		nums, err := numbersFrom(env, name, args)
		if err != nil {
			return nil, err
		}
		prev := nums[0]
		for _, n := range nums[1:] {
			if increasing && !(prev < n) {
				return &SexpBool{Val: false}, nil
			}
			if !increasing && !(prev > n) {
				return &SexpBool{Val: false}, nil
			}
			prev = n
		}
		return &SexpBool{Val: true}, nil
	}
}

// AndFunction takes the last argument as its answer unless one of the
// arguments before it is false.
func AndFunction(env *Nylisp, name string, args []Sexp) (Sexp, error) {
	if err := requireArgs(name, args); err != nil {
		return nil, err
	}
	bs, err := boolsFrom(env, name, args)
	if err != nil {
		return nil, err
	}
	seed := bs[len(bs)-1]
	for _, b := range bs[:len(bs)-1] {
		if !b {
			return &SexpBool{Val: false}, nil
		}
	}
	return &SexpBool{Val: seed}, nil
}

// OrFunction takes the last argument as its answer unless one of the
// arguments before it is true.
func OrFunction(env *Nylisp, name string, args []Sexp) (Sexp, error) {
	if err := requireArgs(name, args); err != nil {
		return nil, err
	}
	bs, err := boolsFrom(env, name, args)
	if err != nil {
		return nil, err
	}
	seed := bs[len(bs)-1]
	for _, b := range bs[:len(bs)-1] {
		if b {
			return &SexpBool{Val: true}, nil
		}
	}
	return &SexpBool{Val: seed}, nil
}

// NotFunction negates each argument and always answers with a list.
func NotFunction(env *Nylisp, name string, args []Sexp) (Sexp, error) {
	bs, err := boolsFrom(env, name, args)
	if err != nil {
		return nil, err
	}
	out := make([]Sexp, len(bs))
	for i, b := range bs {
		out[i] = &SexpBool{Val: !b}
	}
	return MakeList(out...), nil
}
