package nylisp

import (
	"math"
)

type NumericOp int

const (
	Add NumericOp = iota
	Sub
	Mult
	Div
	Modulo
)

// NumericDo follows float64 semantics throughout: dividing by zero
// gives an infinity or NaN, never an error.
func NumericDo(op NumericOp, a, b float64) float64 {
	switch op {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mult:
		return a * b
	case Div:
		return a / b
	case Modulo:
		return math.Mod(a, b)
	}
	return math.NaN()
}

func numericOpFor(name string) NumericOp {
	switch name {
	case "-":
		return Sub
	case "*":
		return Mult
	case "/":
		return Div
	case "%":
		return Modulo
	}
	return Add
}

func numbersFrom(env *Nylisp, name string, args []Sexp) ([]float64, error) {
	nums := make([]float64, len(args))
	for i, a := range args {
		n, ok := a.(*SexpNumber)
		if !ok {
			return nil, newError(TypeErr, "%s expected a number, got %s %s", name, TypeName(a), env.show(a))
		}
		nums[i] = n.Val
	}
	return nums, nil
}

func boolsFrom(env *Nylisp, name string, args []Sexp) ([]bool, error) {
	bs := make([]bool, len(args))
	for i, a := range args {
		b, ok := a.(*SexpBool)
		if !ok {
			return nil, newError(TypeErr, "%s expected a boolean, got %s %s", name, TypeName(a), env.show(a))
		}
		bs[i] = b.Val
	}
	return bs, nil
}

func requireArgs(name string, args []Sexp) error {
	if len(args) == 0 {
		return newError(ArityErr, "%s requires at least one argument", name)
	}
	return nil
}

// NumericFunction folds left to right, starting from the first argument.
func NumericFunction(name string) NylispUserFunction {
	op := numericOpFor(name)
	return func(env *Nylisp, name string, args []Sexp) (Sexp, error) {
		if err := requireArgs(name, args); err != nil {
			return nil, err
		}
		nums, err := numbersFrom(env, name, args)
		if err != nil {
			return nil, err
		}
		accum := nums[0]
		for _, n := range nums[1:] {
			accum = NumericDo(op, accum, n)
		}
		return &SexpNumber{Val: accum}, nil
	}
}
