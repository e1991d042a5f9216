package nylisp

import (
	"bytes"
	"errors"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test040SelfEvaluationAndLookup(t *testing.T) {

	cv.Convey(`Literals should evaluate to themselves and the empty list to false`, t, func() {
		env := newTestEnv()
		cv.So(evalOK(env, "1.25"), cv.ShouldResemble, MakeNumber(1.25))
		cv.So(evalOK(env, "true"), cv.ShouldResemble, MakeBool(true))
		cv.So(evalOK(env, "()"), cv.ShouldResemble, MakeBool(false))

		s := MakeString("hello")
		x, err := env.Eval(s, env.GlobalScope())
		cv.So(err, cv.ShouldBeNil)
		cv.So(x == Sexp(s), cv.ShouldBeTrue)

		car, _ := env.FindObject("car")
		x, err = env.Eval(car, env.GlobalScope())
		cv.So(err, cv.ShouldBeNil)
		cv.So(x == car, cv.ShouldBeTrue)
	})

	cv.Convey(`An unbound symbol should fail with exactly "symbol NAME not found in environment"`, t, func() {
		env := newTestEnv()
		for _, name := range []string{"nosuch", "x", "hoge", "🦄"} {
			_, err := env.EvalString(name)
			cv.So(err, cv.ShouldNotBeNil)
			cv.So(err.Error(), cv.ShouldEqual, "symbol "+name+" not found in environment")
			cv.So(errors.Is(err, ErrUnboundSymbol), cv.ShouldBeTrue)
		}
		_, err := env.EvalString("(+ 1 missing)")
		cv.So(err.Error(), cv.ShouldEqual, "symbol missing not found in environment")
	})

	cv.Convey(`Quote should hand back a copy of its form, unevaluated`, t, func() {
		env := newTestEnv()
		q := parseASCII("'(a (b) 1)")[0].Expr
		x, err := env.Eval(q, env.GlobalScope())
		cv.So(err, cv.ShouldBeNil)
		cv.So(x, cv.ShouldResemble, MakeList(MakeSymbol("a"), MakeList(MakeSymbol("b")), MakeNumber(1)))
		cv.So(x == q.(*SexpQuote).Val, cv.ShouldBeFalse)

		cv.So(evalOK(env, "''a"), cv.ShouldResemble, MakeQuote(MakeSymbol("a")))
	})

	cv.Convey(`Applying something that is not a function should fail with "not a function"`, t, func() {
		env := newTestEnv()
		_, err := env.EvalString("(1 2)")
		cv.So(errors.Is(err, ErrNotCallable), cv.ShouldBeTrue)
		cv.So(err.Error(), cv.ShouldEqual, "not a function: 1")

		_, err = env.EvalString("((car '(true)) 1)")
		cv.So(err.Error(), cv.ShouldEqual, "not a function: (car '(true))")
	})

	cv.Convey(`A closure value should evaluate to itself, a scoped-let value should not evaluate at all`, t, func() {
		env := newTestEnv()
		c := &SexpClosure{Params: MakeList(), Body: MakeNumber(1)}
		x, err := env.Eval(c, env.GlobalScope())
		cv.So(err, cv.ShouldBeNil)
		cv.So(x == Sexp(c), cv.ShouldBeTrue)

		_, err = env.Eval(&SexpScopedLet{Variables: MakeList(), Body: MakeNumber(1)}, env.GlobalScope())
		cv.So(errors.Is(err, ErrType), cv.ShouldBeTrue)
	})
}

func Test041VarBindsAndAnswersARecord(t *testing.T) {

	cv.Convey(`(var hoge '(1 2 3)) should answer (hoge (1 2 3) true) and bind hoge`, t, func() {
		env := newTestEnv()
		one23 := MakeList(MakeNumber(1), MakeNumber(2), MakeNumber(3))
		cv.So(evalOK(env, "(var hoge '(1 2 3))"), cv.ShouldResemble,
			MakeList(MakeSymbol("hoge"), one23, MakeBool(true)))
		cv.So(evalOK(env, "hoge"), cv.ShouldResemble, one23)

		evalOK(env, "(var hoge 5)")
		cv.So(evalOK(env, "hoge"), cv.ShouldResemble, MakeNumber(5))
	})

	cv.Convey(`var needs a symbol and exactly two arguments`, t, func() {
		env := newTestEnv()
		_, err := env.EvalString("(var 1 2)")
		cv.So(errors.Is(err, ErrType), cv.ShouldBeTrue)
		_, err = env.EvalString("(var x)")
		cv.So(errors.Is(err, ErrArity), cv.ShouldBeTrue)
		_, err = env.EvalString("(var x 1 2)")
		cv.So(errors.Is(err, ErrArity), cv.ShouldBeTrue)
	})

	cv.Convey(`the emoji spelling should bind the same way`, t, func() {
		env := NewNylisp()
		_, err := env.EvalString("💖🌹 a 💖+ 1 1💔💔")
		cv.So(err, cv.ShouldBeNil)
		x, found := env.FindObject("a")
		cv.So(found, cv.ShouldBeTrue)
		cv.So(x, cv.ShouldResemble, MakeNumber(2))
	})
}

func Test042ScopedLetDoesNotLeak(t *testing.T) {

	cv.Convey(`(scoped-let ((x 2) (y 2)) (+ x y)) should be 4, with x and y gone afterwards`, t, func() {
		env := newTestEnv()
		cv.So(evalOK(env, "(scoped-let ((x 2) (y 2)) (+ x y))"), cv.ShouldResemble, MakeNumber(4))
		_, err := env.EvalString("x")
		cv.So(err.Error(), cv.ShouldEqual, "symbol x not found in environment")
		_, err = env.EvalString("y")
		cv.So(err.Error(), cv.ShouldEqual, "symbol y not found in environment")
	})

	cv.Convey(`binding values should be evaluated in the enclosing scope, not the one being built`, t, func() {
		env := newTestEnv()
		evalOK(env, "(var x 10)")
		cv.So(evalOK(env, "(scoped-let ((x 1) (y x)) y)"), cv.ShouldResemble, MakeNumber(10))
		cv.So(evalOK(env, "(scoped-let ((x 1)) x)"), cv.ShouldResemble, MakeNumber(1))
		cv.So(evalOK(env, "x"), cv.ShouldResemble, MakeNumber(10))
	})

	cv.Convey(`a var inside the body should bind in the block's scope`, t, func() {
		env := newTestEnv()
		evalOK(env, "(scoped-let ((a 1)) (var b 2))")
		_, err := env.EvalString("b")
		cv.So(errors.Is(err, ErrUnboundSymbol), cv.ShouldBeTrue)
		cv.So(evalOK(env, "(scoped-let () 3)"), cv.ShouldResemble, MakeNumber(3))
	})

	cv.Convey(`malformed bindings should be type errors`, t, func() {
		env := newTestEnv()
		for _, bad := range []string{
			"(scoped-let 1 2)",
			"(scoped-let (x 2) x)",
			"(scoped-let ((x)) x)",
			"(scoped-let ((x 1 2)) x)",
			"(scoped-let ((1 2)) 3)",
		} {
			_, err := env.EvalString(bad)
			cv.So(errors.Is(err, ErrType), cv.ShouldBeTrue)
		}
		_, err := env.EvalString("(scoped-let ((x 1)))")
		cv.So(errors.Is(err, ErrArity), cv.ShouldBeTrue)
	})
}

func Test043ClosureArityAndDynamicFreeVariables(t *testing.T) {

	cv.Convey(`Calling a closure with the wrong number of arguments should be an arity error`, t, func() {
		env := newTestEnv()
		evalOK(env, "(var f (closure (a b) (+ a b)))")
		for _, call := range []string{"(f)", "(f 1)", "(f 1 2 3)", "(f 1 2 3 4)"} {
			_, err := env.EvalString(call)
			cv.So(errors.Is(err, ErrArity), cv.ShouldBeTrue)
		}
		cv.So(evalOK(env, "(f 1 2)"), cv.ShouldResemble, MakeNumber(3))
		cv.So(evalOK(env, "((closure () 7))"), cv.ShouldResemble, MakeNumber(7))
	})

	cv.Convey(`A free variable should resolve through the caller, so rebinding it between calls changes the answer`, t, func() {
		env := newTestEnv()
		evalOK(env, "(var n 1)")
		evalOK(env, "(var g (closure (x) (+ x n)))")
		cv.So(evalOK(env, "(g 1)"), cv.ShouldResemble, MakeNumber(2))
		evalOK(env, "(var n 10)")
		cv.So(evalOK(env, "(g 1)"), cv.ShouldResemble, MakeNumber(11))

		evalOK(env, "(var h (closure () m))")
		cv.So(evalOK(env, "(scoped-let ((m 5)) (h))"), cv.ShouldResemble, MakeNumber(5))
		_, err := env.EvalString("(h)")
		cv.So(err.Error(), cv.ShouldEqual, "symbol m not found in environment")
	})

	cv.Convey(`A closure made inside a block should not see the block's bindings once the block is gone`, t, func() {
		env := newTestEnv()
		evalOK(env, "(var k (scoped-let ((m 7)) (closure () m)))")
		_, err := env.EvalString("(k)")
		cv.So(err.Error(), cv.ShouldEqual, "symbol m not found in environment")
	})

	cv.Convey(`Arguments should be evaluated in the caller's scope and parameters should shadow`, t, func() {
		env := newTestEnv()
		evalOK(env, "(var x 100)")
		evalOK(env, "(var id (closure (x) x))")
		cv.So(evalOK(env, "(scoped-let ((y 3)) (id y))"), cv.ShouldResemble, MakeNumber(3))
		cv.So(evalOK(env, "x"), cv.ShouldResemble, MakeNumber(100))
	})

	cv.Convey(`Closures can recurse through their global name`, t, func() {
		env := newTestEnv()
		evalOK(env, "(var fact (closure (n) (if (< n 2) 1 (* n (fact (- n 1))))))")
		cv.So(evalOK(env, "(fact 10)"), cv.ShouldResemble, MakeNumber(3628800))
	})

	cv.Convey(`Bad parameter lists should be type errors at call time`, t, func() {
		env := newTestEnv()
		evalOK(env, "(var bad (closure x x))")
		_, err := env.EvalString("(bad 1)")
		cv.So(errors.Is(err, ErrType), cv.ShouldBeTrue)

		evalOK(env, "(var bad2 (closure (1) 1))")
		_, err = env.EvalString("(bad2 1)")
		cv.So(errors.Is(err, ErrType), cv.ShouldBeTrue)

		_, err = env.EvalString("(closure (x))")
		cv.So(errors.Is(err, ErrArity), cv.ShouldBeTrue)
	})
}

func Test044LexicalClosuresCaptureTheirScope(t *testing.T) {

	lexical := func(cfg *NylispConfig) { cfg.Lexical = true }

	cv.Convey(`With lexical closures, a closure made in a block should keep seeing the block's bindings`, t, func() {
		env := newTestEnv(lexical)
		evalOK(env, "(var k (scoped-let ((m 7)) (closure () m)))")
		cv.So(evalOK(env, "(k)"), cv.ShouldResemble, MakeNumber(7))
	})

	cv.Convey(`With lexical closures, the caller's bindings should not be visible`, t, func() {
		env := newTestEnv(lexical)
		evalOK(env, "(var h (closure () m))")
		_, err := env.EvalString("(scoped-let ((m 5)) (h))")
		cv.So(err.Error(), cv.ShouldEqual, "symbol m not found in environment")
	})

	cv.Convey(`With lexical closures, global rebinding is still seen since the global scope is shared`, t, func() {
		env := newTestEnv(lexical)
		evalOK(env, "(var n 1)")
		evalOK(env, "(var g (closure (x) (+ x n)))")
		cv.So(evalOK(env, "(g 1)"), cv.ShouldResemble, MakeNumber(2))
		evalOK(env, "(var n 10)")
		cv.So(evalOK(env, "(g 1)"), cv.ShouldResemble, MakeNumber(11))
	})
}

func Test045IfShortCircuitsByDefault(t *testing.T) {

	cv.Convey(`if should pick a branch on a boolean condition`, t, func() {
		env := newTestEnv()
		cv.So(evalOK(env, "(if true 1 2)"), cv.ShouldResemble, MakeNumber(1))
		cv.So(evalOK(env, "(if false 1 2)"), cv.ShouldResemble, MakeNumber(2))
		cv.So(evalOK(env, "(if (< 1 2) 'yes 'no)"), cv.ShouldResemble, MakeSymbol("yes"))

		_, err := env.EvalString("(if 1 2 3)")
		cv.So(errors.Is(err, ErrType), cv.ShouldBeTrue)
		_, err = env.EvalString("(if true 1)")
		cv.So(errors.Is(err, ErrArity), cv.ShouldBeTrue)
	})

	cv.Convey(`Only the chosen branch should be evaluated`, t, func() {
		env := newTestEnv()
		cv.So(evalOK(env, "(if true 1 nosuch)"), cv.ShouldResemble, MakeNumber(1))
		evalOK(env, "(if true 1 (var side 1))")
		_, err := env.EvalString("side")
		cv.So(errors.Is(err, ErrUnboundSymbol), cv.ShouldBeTrue)
	})

	cv.Convey(`With eager if, both branches should run before the condition picks one`, t, func() {
		env := newTestEnv(func(cfg *NylispConfig) { cfg.EagerIf = true })
		cv.So(evalOK(env, "(if false 1 2)"), cv.ShouldResemble, MakeNumber(2))

		_, err := env.EvalString("(if true 1 nosuch)")
		cv.So(errors.Is(err, ErrUnboundSymbol), cv.ShouldBeTrue)

		cv.So(evalOK(env, "(if true 1 (var side 1))"), cv.ShouldResemble, MakeNumber(1))
		cv.So(evalOK(env, "side"), cv.ShouldResemble, MakeNumber(1))
	})
}

func Test046TraceWritesEachStep(t *testing.T) {

	cv.Convey(`With trace on, every evaluation step should be written to OurStdout`, t, func() {
		var buf bytes.Buffer
		prev := OurStdout
		OurStdout = &buf
		defer func() { OurStdout = prev }()

		env := newTestEnv(func(cfg *NylispConfig) { cfg.Trace = true })
		evalOK(env, "((closure (x) (+ x 1)) 2)")
		out := buf.String()
		cv.So(out, cv.ShouldContainSubstring, "trace eval ((closure (x) (+ x 1)) 2)")
		cv.So(out, cv.ShouldContainSubstring, "enter closure (x)")
		cv.So(out, cv.ShouldContainSubstring, "call + with 2 args")
	})
}
