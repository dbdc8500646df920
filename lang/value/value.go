package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which of the four Value alternatives is populated.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObj
)

// Value is warp's tagged runtime value. It is a small value type, copied
// freely on the stack; the tag is explicit rather than an interface so the
// Obj it may carry can be linked into the VM's intrusive all-objects list.
type Value struct {
	kind Kind
	num  float64 // also holds the 0/1 encoding of a KindBool
	obj  *Obj
}

func Nil() Value                { return Value{kind: KindNil} }
func Bool(b bool) Value         { return Value{kind: KindBool, num: boolFloat(b)} }
func Number(n float64) Value    { return Value{kind: KindNumber, num: n} }
func FromObj(o *Obj) Value      { return Value{kind: KindObj, obj: o} }

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNil() bool   { return v.kind == KindNil }
func (v Value) IsBool() bool  { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObj() bool   { return v.kind == KindObj }

func (v Value) IsObjKind(k ObjKind) bool { return v.kind == KindObj && v.obj.Kind == k }

func (v Value) AsBool() bool     { return v.num != 0 }
func (v Value) AsNumber() float64 { return v.num }
func (v Value) AsObj() *Obj      { return v.obj }

// Truthy implements warp's truthiness rule: nil and false are falsy,
// everything else — including 0 and the empty string — is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.num != 0
	default:
		return true
	}
}

// Equal implements warp's equality operator. Numbers compare by IEEE-754
// value (so NaN != NaN, the one reflexivity exception); strings compare by
// identity, which is sound because every ObjString is interned; other
// objects compare by pointer identity.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.num == o.num
	case KindNumber:
		return v.num == o.num
	case KindObj:
		if v.obj.Kind == KindObjString && o.obj.Kind == KindObjString {
			return v.obj == o.obj // interning makes identity equality sound
		}
		return v.obj == o.obj
	}
	return false
}

// TypeName returns the short type name used in runtime error messages.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindObj:
		return v.obj.Kind.String()
	}
	return "unknown"
}

// String renders v the way the `print` statement does. String
// concatenation does not use it: `+` accepts only two strings.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.num)
	case KindObj:
		switch v.obj.Kind {
		case KindObjString:
			return AsString(v).Chars
		case KindObjMap:
			return fmt.Sprintf("<map %d entries>", AsMap(v).Len())
		case KindObjFunction:
			fn := AsFunction(v)
			if fn.Name == nil {
				return "<script>"
			}
			return "<fun " + fn.Name.Chars + ">"
		case KindObjNative:
			return "<native " + AsNative(v).Name.Chars + ">"
		}
	}
	return "<unknown>"
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "nan"
	}
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
