package nylisp

import (
	"math"
	"math/rand"
	"time"
)

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RandomFunction returns a whole number drawn uniformly from [0, n).
// A fractional bound is truncated first.
func RandomFunction(env *Nylisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return nil, newError(ArityErr, "%s requires exactly one argument, got %d", name, len(args))
	}
	n, ok := args[0].(*SexpNumber)
	if !ok {
		return nil, newError(TypeErr, "%s requires a number as first argument, got %s", name, env.show(args[0]))
	}
	if math.IsNaN(n.Val) || n.Val < 1 || n.Val >= math.MaxInt64 {
		return nil, newError(ValueErr, "%s bound must be at least 1, got %s", name, env.show(n))
	}
	return &SexpNumber{Val: float64(env.rand.Int63n(int64(n.Val)))}, nil
}
