package nylisp

func listArg(env *Nylisp, name string, args []Sexp) (*SexpList, error) {
	if len(args) != 1 {
		return nil, newError(ArityErr, "%s requires exactly one argument, got %d", name, len(args))
	}
	list, ok := args[0].(*SexpList)
	if !ok {
		return nil, newError(TypeErr, "%s expected a list, got %s %s", name, TypeName(args[0]), env.show(args[0]))
	}
	return list, nil
}

func CarFunction(env *Nylisp, name string, args []Sexp) (Sexp, error) {
	list, err := listArg(env, name, args)
	if err != nil {
		return nil, err
	}
	if len(list.Val) == 0 {
		return nil, newError(ValueErr, "%s of an empty list", name)
	}
	return list.Val[0], nil
}

// CdrFunction copies; the argument list is left untouched.
func CdrFunction(env *Nylisp, name string, args []Sexp) (Sexp, error) {
	list, err := listArg(env, name, args)
	if err != nil {
		return nil, err
	}
	if len(list.Val) == 0 {
		return MakeList(), nil
	}
	rest := make([]Sexp, len(list.Val)-1)
	copy(rest, list.Val[1:])
	return MakeList(rest...), nil
}

// symbolNames unpacks a closure parameter list.
func (env *Nylisp) symbolNames(x Sexp) ([]string, error) {
	list, ok := x.(*SexpList)
	if !ok {
		return nil, newError(TypeErr, "expected a list of symbols, got %s %s", TypeName(x), env.show(x))
	}
	names := make([]string, len(list.Val))
	for i, elem := range list.Val {
		sym, ok := elem.(*SexpSymbol)
		if !ok {
			return nil, newError(TypeErr, "expected a list of symbols, got %s", env.show(list))
		}
		names[i] = sym.Name
	}
	return names, nil
}
