package nylisp

// CoreFunctions returns the builtin registry, keyed by the names v
// gives them.
func CoreFunctions(v *Vocabulary) map[string]NylispUserFunction {
	return map[string]NylispUserFunction{
		"+":      NumericFunction("+"),
		"-":      NumericFunction("-"),
		"*":      NumericFunction("*"),
		"/":      NumericFunction("/"),
		"%":      NumericFunction("%"),
		"=":      EqualFunction,
		"<":      CompareFunction("<"),
		">":      CompareFunction(">"),
		v.And:    AndFunction,
		v.Or:     OrFunction,
		v.Not:    NotFunction,
		v.Car:    CarFunction,
		v.Cdr:    CdrFunction,
		v.Random: RandomFunction,
	}
}

func MergeFuncMap(funcs ...map[string]NylispUserFunction) map[string]NylispUserFunction {
	n := make(map[string]NylispUserFunction)
	for _, f := range funcs {
		for k, v := range f {
			n[k] = v
		}
	}
	return n
}

// NewBuiltinScope returns a fresh global scope holding only the
// builtins, for one-shot batch evaluation.
func NewBuiltinScope(v *Vocabulary) *Scope {
	glob := NewGlobalScope()
	for name, fun := range CoreFunctions(v) {
		glob.Bind(name, MakeUserFunction(name, fun))
	}
	return glob
}
