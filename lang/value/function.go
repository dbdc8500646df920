package value

// ObjFunction is a compiled, callable warp function (or the top-level
// script, which is represented as an anonymous zero-arity function).
type ObjFunction struct {
	Obj
	Name  *ObjString // nil for the top-level script
	Arity int
	Chunk Chunk

	// MaxSlots is the compiler's computed high-water mark for this
	// function's logical value-stack depth, including its reserved callee
	// slot and parameters. It is recorded for inspection only: the VM does
	// not read it, and every frame runs on the one fixed-size value stack.
	MaxSlots int
}

func NewFunction() *ObjFunction {
	return &ObjFunction{Obj: Obj{Kind: KindObjFunction}}
}

func AsFunction(v Value) *ObjFunction { return fromObj[ObjFunction](v.obj) }

// VM is the minimal surface a native function needs from its host VM: the
// ability to allocate (and intern) a string result, and to fault the
// current call with a runtime error. It is declared here, rather than in
// lang/machine, so that NativeFn can be defined without lang/value
// importing lang/machine.
type VM interface {
	InternString(s string) Value
	RuntimeErrorf(format string, args ...any)
}

// NativeFn is the signature of a host-provided builtin. slots spans the
// native's whole call region: slots[0] is the return slot (it initially
// holds the callee itself, on call, and must hold the native's result by
// the time Fn returns), slots[1:] are the arguments, in order.
type NativeFn func(vm VM, slots []Value)

// ObjNative wraps a host Go function so it can be called like any other
// warp function.
type ObjNative struct {
	Obj
	Name  *ObjString
	Arity int
	Fn    NativeFn
}

func NewNative(name *ObjString, arity int, fn NativeFn) *ObjNative {
	return &ObjNative{Obj: Obj{Kind: KindObjNative}, Name: name, Arity: arity, Fn: fn}
}

func AsNative(v Value) *ObjNative { return fromObj[ObjNative](v.obj) }
