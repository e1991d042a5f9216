package nylisp

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/tinylib/msgp/msgp"
	"github.com/ugorji/go/codec"
)

/*
 Conversion map

 Go interface{} tree  <--(1)--> lisp
        ^                        ^
        |                        |
       (2)                      (3)
        |                        |
        V                        V
      json                    msgpack

(1) SexpToGo() and GoToSexp(). Symbols, quotes, builtins and
    closures become single-key maps: {"sym":name}, {"quote":x},
    {"builtin":name}, {"closure":{"params":..,"body":..}} and
    {"scoped-let":{"variables":..,"body":..}}. Lists become arrays.
(2) provided by ugorji/go/codec: SexpToJson() and JsonToSexp().
(3) AppendSexp() and ReadSexpBytes(), written directly with
    tinylib/msgp. Lossless except that a builtin travels by name
    and a closure's captured scope is dropped.
*/

type msgpackHelper struct {
	initialized bool
	mh          codec.MsgpackHandle
	jh          codec.JsonHandle
}

func (m *msgpackHelper) init() {
	if m.initialized {
		return
	}

	m.mh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.mh.RawToString = true
	m.mh.WriteExt = true
	m.mh.SignedInteger = true
	m.mh.Canonical = true // sort maps before writing them

	m.jh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.jh.SignedInteger = true
	m.jh.Canonical = true

	m.initialized = true
}

var msgpHelper msgpackHelper

func init() {
	msgpHelper.init()
}

// SexpToGo converts x into plain Go values that any codec can write.
func SexpToGo(x Sexp) (interface{}, error) {
	switch e := x.(type) {
	case nil:
		return nil, nil
	case *SexpNumber:
		if math.IsNaN(e.Val) || math.IsInf(e.Val, 0) {
			return nil, newError(ValueErr, "cannot encode %s", e.SexpString())
		}
		return e.Val, nil
	case *SexpBool:
		return e.Val, nil
	case *SexpStr:
		return e.S, nil
	case *SexpSymbol:
		return map[string]interface{}{"sym": e.Name}, nil
	case *SexpQuote:
		inner, err := SexpToGo(e.Val)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"quote": inner}, nil
	case *SexpList:
		arr := make([]interface{}, len(e.Val))
		for i := range e.Val {
			v, err := SexpToGo(e.Val[i])
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case *SexpFunction:
		return map[string]interface{}{"builtin": e.Name}, nil
	case *SexpClosure:
		m, err := pairToGo("params", e.Params, "body", e.Body)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"closure": m}, nil
	case *SexpScopedLet:
		m, err := pairToGo("variables", e.Variables, "body", e.Body)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"scoped-let": m}, nil
	}
	return nil, newError(TypeErr, "cannot encode value of type %T", x)
}

func pairToGo(k1 string, v1 Sexp, k2 string, v2 Sexp) (map[string]interface{}, error) {
	a, err := SexpToGo(v1)
	if err != nil {
		return nil, err
	}
	b, err := SexpToGo(v2)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{k1: a, k2: b}, nil
}

// GoToSexp reverses SexpToGo. Builtins are looked up by name in
// scope, which may be nil when the input holds none. A Go nil, such
// as a decoded JSON null, becomes the nil Sexp with no error.
func GoToSexp(iface interface{}, scope *Scope) (Sexp, error) {
	switch val := iface.(type) {
	case nil:
		return nil, nil
	case float64:
		return &SexpNumber{Val: val}, nil
	case float32:
		return &SexpNumber{Val: float64(val)}, nil
	case int64:
		return &SexpNumber{Val: float64(val)}, nil
	case int:
		return &SexpNumber{Val: float64(val)}, nil
	case uint64:
		return &SexpNumber{Val: float64(val)}, nil
	case bool:
		return &SexpBool{Val: val}, nil
	case string:
		return &SexpStr{S: val}, nil
	case []interface{}:
		xs := make([]Sexp, len(val))
		for i := range val {
			x, err := GoToSexp(val[i], scope)
			if err != nil {
				return nil, err
			}
			xs[i] = x
		}
		return MakeList(xs...), nil
	case map[string]interface{}:
		return goMapToSexp(val, scope)
	}
	return nil, newError(TypeErr, "cannot decode Go value of type %T", iface)
}

func goMapToSexp(m map[string]interface{}, scope *Scope) (Sexp, error) {
	if len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, newError(TypeErr, "expected a single-key object, got keys %v", keys)
	}
	for k, v := range m {
		switch k {
		case "sym":
			name, ok := v.(string)
			if !ok {
				return nil, newError(TypeErr, "sym requires a string, got %T", v)
			}
			return &SexpSymbol{Name: name}, nil
		case "quote":
			inner, err := GoToSexp(v, scope)
			if err != nil {
				return nil, err
			}
			return &SexpQuote{Val: inner}, nil
		case "builtin":
			name, ok := v.(string)
			if !ok {
				return nil, newError(TypeErr, "builtin requires a string, got %T", v)
			}
			return lookupBuiltin(name, scope)
		case "closure":
			params, body, err := goPairToSexp(v, "params", "body", scope)
			if err != nil {
				return nil, err
			}
			return &SexpClosure{Params: params, Body: body}, nil
		case "scoped-let":
			vars, body, err := goPairToSexp(v, "variables", "body", scope)
			if err != nil {
				return nil, err
			}
			return &SexpScopedLet{Variables: vars, Body: body}, nil
		default:
			return nil, newError(TypeErr, "unknown object key '%s'", k)
		}
	}
	panic("unreachable")
}

func goPairToSexp(v interface{}, k1, k2 string, scope *Scope) (Sexp, Sexp, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, nil, newError(TypeErr, "expected an object with %s and %s, got %T", k1, k2, v)
	}
	a, err := GoToSexp(m[k1], scope)
	if err != nil {
		return nil, nil, err
	}
	b, err := GoToSexp(m[k2], scope)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func lookupBuiltin(name string, scope *Scope) (Sexp, error) {
	if scope != nil {
		if obj, found := scope.LookupSymbol(name); found {
			if fn, isFn := obj.(*SexpFunction); isFn {
				return fn, nil
			}
		}
	}
	return nil, newError(UnboundSymbolErr, "builtin %s not found in environment", name)
}

// sexp -> json
func SexpToJson(x Sexp) (string, error) {
	iface, err := SexpToGo(x)
	if err != nil {
		return "", err
	}
	var out []byte
	enc := codec.NewEncoderBytes(&out, &msgpHelper.jh)
	err = enc.Encode(iface)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// json -> sexp. "null" is how SexpToJson writes the nil Sexp, so it
// decodes back to nil without an error; callers must allow for that.
func JsonToSexp(json []byte, scope *Scope) (Sexp, error) {
	var iface interface{}
	dec := codec.NewDecoderBytes(json, &msgpHelper.jh)
	err := dec.Decode(&iface)
	if err != nil {
		return nil, err
	}
	VPrintf("JsonToSexp decoded type %T: %#v", iface, iface)
	return GoToSexp(iface, scope)
}

// msgpack type tags; each value is written as an array whose first
// element is the tag.
const (
	msgpNil uint8 = iota
	msgpNumber
	msgpBool
	msgpStr
	msgpSymbol
	msgpQuote
	msgpList
	msgpBuiltin
	msgpClosure
	msgpScopedLet
)

// AppendSexp appends the msgpack encoding of x to b.
func AppendSexp(b []byte, x Sexp) ([]byte, error) {
	switch e := x.(type) {
	case nil:
		b = msgp.AppendArrayHeader(b, 1)
		return msgp.AppendUint8(b, msgpNil), nil
	case *SexpNumber:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendUint8(b, msgpNumber)
		return msgp.AppendFloat64(b, e.Val), nil
	case *SexpBool:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendUint8(b, msgpBool)
		return msgp.AppendBool(b, e.Val), nil
	case *SexpStr:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendUint8(b, msgpStr)
		return msgp.AppendString(b, e.S), nil
	case *SexpSymbol:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendUint8(b, msgpSymbol)
		return msgp.AppendString(b, e.Name), nil
	case *SexpFunction:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendUint8(b, msgpBuiltin)
		return msgp.AppendString(b, e.Name), nil
	case *SexpQuote:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendUint8(b, msgpQuote)
		return AppendSexp(b, e.Val)
	case *SexpList:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendUint8(b, msgpList)
		b = msgp.AppendArrayHeader(b, uint32(len(e.Val)))
		var err error
		for _, el := range e.Val {
			b, err = AppendSexp(b, el)
			if err != nil {
				return b, err
			}
		}
		return b, nil
	case *SexpClosure:
		return appendPair(b, msgpClosure, e.Params, e.Body)
	case *SexpScopedLet:
		return appendPair(b, msgpScopedLet, e.Variables, e.Body)
	}
	return b, newError(TypeErr, "cannot encode value of type %T", x)
}

func appendPair(b []byte, tag uint8, first, second Sexp) ([]byte, error) {
	b = msgp.AppendArrayHeader(b, 3)
	b = msgp.AppendUint8(b, tag)
	b, err := AppendSexp(b, first)
	if err != nil {
		return b, err
	}
	return AppendSexp(b, second)
}

// ReadSexpBytes decodes one value from b and returns the remaining
// bytes. Builtins are looked up by name in scope.
func ReadSexpBytes(b []byte, scope *Scope) (Sexp, []byte, error) {
	return readSexpBytes(b, scope, 0)
}

// MaxDecodeDepth bounds how deeply quotes and lists may nest in a
// msgpack encoding.
const MaxDecodeDepth = 10000

func readSexpBytes(b []byte, scope *Scope, depth int) (Sexp, []byte, error) {
	if depth > MaxDecodeDepth {
		return nil, b, fmt.Errorf("ReadSexpBytes: nesting deeper than %d", MaxDecodeDepth)
	}
	sz, o, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, b, err
	}
	if sz == 0 {
		return nil, b, fmt.Errorf("ReadSexpBytes: empty value array")
	}
	tag, o, err := msgp.ReadUint8Bytes(o)
	if err != nil {
		return nil, b, err
	}
	want := map[uint8]uint32{
		msgpNil: 1, msgpNumber: 2, msgpBool: 2, msgpStr: 2, msgpSymbol: 2,
		msgpQuote: 2, msgpList: 2, msgpBuiltin: 2, msgpClosure: 3, msgpScopedLet: 3,
	}
	n, known := want[tag]
	if !known {
		return nil, b, fmt.Errorf("ReadSexpBytes: unknown tag %d", tag)
	}
	if sz != n {
		return nil, b, fmt.Errorf("ReadSexpBytes: tag %d wants %d fields, got %d", tag, n, sz)
	}

	switch tag {
	case msgpNil:
		return nil, o, nil
	case msgpNumber:
		f, o, err := msgp.ReadFloat64Bytes(o)
		if err != nil {
			return nil, b, err
		}
		return &SexpNumber{Val: f}, o, nil
	case msgpBool:
		v, o, err := msgp.ReadBoolBytes(o)
		if err != nil {
			return nil, b, err
		}
		return &SexpBool{Val: v}, o, nil
	case msgpStr, msgpSymbol, msgpBuiltin:
		s, o, err := msgp.ReadStringBytes(o)
		if err != nil {
			return nil, b, err
		}
		switch tag {
		case msgpStr:
			return &SexpStr{S: s}, o, nil
		case msgpSymbol:
			return &SexpSymbol{Name: s}, o, nil
		}
		fn, err := lookupBuiltin(s, scope)
		if err != nil {
			return nil, b, err
		}
		return fn, o, nil
	case msgpQuote:
		inner, o, err := readSexpBytes(o, scope, depth+1)
		if err != nil {
			return nil, b, err
		}
		return &SexpQuote{Val: inner}, o, nil
	case msgpList:
		count, o, err := msgp.ReadArrayHeaderBytes(o)
		if err != nil {
			return nil, b, err
		}
		// every element takes at least two bytes
		if uint64(count)*2 > uint64(len(o)) {
			return nil, b, fmt.Errorf("ReadSexpBytes: list of %d elements but only %d bytes left", count, len(o))
		}
		xs := make([]Sexp, 0, count)
		for i := uint32(0); i < count; i++ {
			var el Sexp
			el, o, err = readSexpBytes(o, scope, depth+1)
			if err != nil {
				return nil, b, err
			}
			xs = append(xs, el)
		}
		return MakeList(xs...), o, nil
	}

	first, o, err := readSexpBytes(o, scope, depth+1)
	if err != nil {
		return nil, b, err
	}
	second, o, err := readSexpBytes(o, scope, depth+1)
	if err != nil {
		return nil, b, err
	}
	if tag == msgpClosure {
		return &SexpClosure{Params: first, Body: second}, o, nil
	}
	return &SexpScopedLet{Variables: first, Body: second}, o, nil
}

// SexpToMsgpack is AppendSexp onto a fresh buffer.
func SexpToMsgpack(x Sexp) ([]byte, error) {
	return AppendSexp(nil, x)
}

// MsgpackToSexp decodes exactly one value.
func MsgpackToSexp(b []byte, scope *Scope) (Sexp, error) {
	x, rest, err := ReadSexpBytes(b, scope)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("MsgpackToSexp: %d trailing bytes", len(rest))
	}
	return x, nil
}

// msgpack -> go, for inspecting an encoding with a generic decoder.
func MsgpackToGo(b []byte) (interface{}, error) {
	var iface interface{}
	dec := codec.NewDecoderBytes(b, &msgpHelper.mh)
	err := dec.Decode(&iface)
	if err != nil {
		return nil, err
	}
	return iface, nil
}
