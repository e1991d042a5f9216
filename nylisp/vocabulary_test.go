package nylisp

import (
	"os"
	"path/filepath"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test070BuiltInVocabulariesValidate(t *testing.T) {

	cv.Convey(`The default emoji vocabulary and the ascii vocabulary should both be valid`, t, func() {
		cv.So(DefaultVocabulary().Validate(), cv.ShouldBeNil)
		cv.So(ASCIIVocabulary().Validate(), cv.ShouldBeNil)
	})

	cv.Convey(`Tokens that could not be told apart after tokenizing should be rejected`, t, func() {
		v := ASCIIVocabulary()
		v.If = v.Var
		cv.So(v.Validate(), cv.ShouldNotBeNil)

		v = ASCIIVocabulary()
		v.Car = "1"
		cv.So(v.Validate(), cv.ShouldNotBeNil)

		v = ASCIIVocabulary()
		v.Cdr = "c dr"
		cv.So(v.Validate(), cv.ShouldNotBeNil)

		v = ASCIIVocabulary()
		v.Random = ""
		cv.So(v.Validate(), cv.ShouldNotBeNil)

		v = ASCIIVocabulary()
		v.Not = "no("
		cv.So(v.Validate(), cv.ShouldNotBeNil)

		v = ASCIIVocabulary()
		v.And = "+"
		cv.So(v.Validate(), cv.ShouldNotBeNil)
	})

	cv.Convey(`Clone should give an independent copy`, t, func() {
		v := ASCIIVocabulary()
		c := v.Clone()
		c.Open = "["
		cv.So(v.Open, cv.ShouldEqual, "(")
	})
}

func Test071VocabularyLoadsFromYaml(t *testing.T) {

	cv.Convey(`A yaml document should override only the tokens it names`, t, func() {
		v, err := ParseVocabulary([]byte("open: \"[\"\nclose: \"]\"\nquote: \"'\"\nbool-true: \"yes\"\nscoped-let: \"let\"\n"))
		cv.So(err, cv.ShouldBeNil)
		cv.So(v.Open, cv.ShouldEqual, "[")
		cv.So(v.Close, cv.ShouldEqual, "]")
		cv.So(v.True, cv.ShouldEqual, "yes")
		cv.So(v.ScopedLet, cv.ShouldEqual, "let")
		cv.So(v.If, cv.ShouldEqual, DefaultVocabulary().If)
	})

	cv.Convey(`An invalid vocabulary file should be refused`, t, func() {
		_, err := ParseVocabulary([]byte("if: \"x\"\nvar: \"x\"\n"))
		cv.So(err, cv.ShouldNotBeNil)

		_, err = ParseVocabulary([]byte("open: [unclosed\n"))
		cv.So(err, cv.ShouldNotBeNil)

		_, err = LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
		cv.So(err, cv.ShouldNotBeNil)
	})

	cv.Convey(`A vocabulary file named in the config should drive the interpreter`, t, func() {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		err := os.WriteFile(path, []byte("open: \"[\"\nclose: \"]\"\nif: \"when\"\n"), 0644)
		cv.So(err, cv.ShouldBeNil)

		cfg := NewNylispConfig("test")
		cfg.VocabFile = path
		cv.So(cfg.ValidateConfig(), cv.ShouldBeNil)
		env := NewNylispWithConfig(cfg)

		x, err := env.EvalString("[when 👍 [+ 1 2] 0]")
		cv.So(err, cv.ShouldBeNil)
		cv.So(x, cv.ShouldResemble, MakeNumber(3))
	})
}

func Test072SprintUsesTheVocabulary(t *testing.T) {

	cv.Convey(`Values should print back as source text in the chosen vocabulary`, t, func() {
		v := ASCIIVocabulary()
		x := parseASCII("(a 1.5 '(b) true -1 0.5)")[0].Expr
		cv.So(v.Sprint(x), cv.ShouldEqual, "(a 1.5 '(b) true -1 0.5)")

		c := &SexpClosure{Params: MakeList(MakeSymbol("x")), Body: MakeList(MakeSymbol("+"), MakeSymbol("x"), MakeNumber(1))}
		cv.So(v.Sprint(c), cv.ShouldEqual, "(closure (x) (+ x 1))")
		cv.So(v.Sprint(MakeUserFunction("car", CarFunction)), cv.ShouldEqual, "<builtin car>")
		cv.So(v.Sprint(MakeString("hi")), cv.ShouldEqual, `"hi"`)
		cv.So(v.Sprint(nil), cv.ShouldEqual, "<nil>")

		cv.So(MakeList(MakeNumber(1), MakeBool(false)).SexpString(), cv.ShouldEqual, "💖1 👎💔")
	})
}
