package nylisp

import (
	"fmt"
)

type ErrorKind int

const (
	ParseErr ErrorKind = iota + 1
	ArityErr
	TypeErr
	UnboundSymbolErr
	NotCallableErr
	NoInputErr
	ValueErr
)

func (k ErrorKind) String() string {
	switch k {
	case ParseErr:
		return "parse error"
	case ArityErr:
		return "arity error"
	case TypeErr:
		return "type error"
	case UnboundSymbolErr:
		return "unbound symbol"
	case NotCallableErr:
		return "not callable"
	case NoInputErr:
		return "no input"
	case ValueErr:
		return "value error"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// NylispError is the only error type the interpreter returns. Callers
// that only want the text use Error(); callers that want to branch
// use errors.Is against the kind sentinels below.
type NylispError struct {
	Kind ErrorKind
	Msg  string
}

func (e *NylispError) Error() string {
	return e.Msg
}

// Is matches a sentinel (empty Msg) by kind.
func (e *NylispError) Is(target error) bool {
	t, ok := target.(*NylispError)
	if !ok {
		return false
	}
	if t.Msg == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Msg == e.Msg
}

var (
	ErrParse         = &NylispError{Kind: ParseErr}
	ErrArity         = &NylispError{Kind: ArityErr}
	ErrType          = &NylispError{Kind: TypeErr}
	ErrUnboundSymbol = &NylispError{Kind: UnboundSymbolErr}
	ErrNotCallable   = &NylispError{Kind: NotCallableErr}
	ErrNoInput       = &NylispError{Kind: NoInputErr}
	ErrValue         = &NylispError{Kind: ValueErr}
)

// UnexpectedEnd is returned when the token stream runs out while a list
// or a quoted form is still open.
var UnexpectedEnd error = &NylispError{Kind: ParseErr, Msg: "unexpected end of input"}

func newError(kind ErrorKind, format string, a ...interface{}) *NylispError {
	return &NylispError{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

// KindOf reports the kind of err, or 0 if err did not come from nylisp.
func KindOf(err error) ErrorKind {
	if e, ok := err.(*NylispError); ok {
		return e.Kind
	}
	return 0
}
