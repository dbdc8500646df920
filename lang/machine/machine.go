// Package machine implements the virtual machine that executes compiled
// warp chunks: a tight fetch/decode/execute loop over a shared value stack,
// plus the VM-owned tables (globals, interned strings) and the all-objects
// list every heap object is tracked on.
package machine

import (
	"fmt"
	"io"
	"os"

	"github.com/dolthub/swiss"

	"github.com/warplang/warp/lang/compiler"
	"github.com/warplang/warp/lang/diag"
	"github.com/warplang/warp/lang/value"
)

const (
	maxFrames = 64
	stackMax  = maxFrames * 256
)

// Result is the outcome of a single Interpret call.
type Result int

const (
	OK Result = iota
	CompileError
	RuntimeError
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case CompileError:
		return "COMPILE_ERROR"
	case RuntimeError:
		return "RUNTIME_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Config configures a VM at construction. Every field is optional; a zero
// Config yields a VM that discards diagnostics and carries no user data.
type Config struct {
	// CompileDiagSink, if non-nil, is invoked once per diagnostic produced by
	// a failed or warning-laden compile.
	CompileDiagSink func(diag.Diagnostic)

	// RuntimeDiagSink, if non-nil, is invoked with a single formatted message
	// when a runtime error faults the current call.
	RuntimeDiagSink func(string)

	// UserInfo is opaque data threaded through to both sinks' closures by
	// the embedder; the VM itself never reads it.
	UserInfo any

	// Stdout is where PRINT writes. Defaults to os.Stdout.
	Stdout io.Writer
}

// VM is warp's bytecode interpreter and the owner of every heap object and
// string it allocates. A VM is single-threaded: it and everything reachable
// from it must not be touched from a second goroutine while Interpret is
// running.
type VM struct {
	config Config

	stack []value.Value
	sp    int

	frames     [maxFrames]frame
	frameCount int

	globals *swiss.Map[value.Value, value.Value]
	strings *swiss.Map[string, *value.ObjString]

	objects *value.Obj

	filename string

	faulted  bool
	faultMsg string
}

// New constructs an idle VM ready to Interpret source.
func New(cfg Config) *VM {
	vm := &VM{
		config:  cfg,
		stack:   make([]value.Value, stackMax),
		globals: swiss.NewMap[value.Value, value.Value](64),
		strings: swiss.NewMap[string, *value.ObjString](64),
	}
	return vm
}

// Destroy releases every object the VM has tracked by walking the
// all-objects list, the language-neutral restatement of a manual allocator
// sweeping its arena at teardown. Go's collector would reclaim these
// objects regardless once vm drops its references, but the sweep keeps the
// object lifecycle observable the way the source's vm_destroy is.
func (vm *VM) Destroy() {
	for o := vm.objects; o != nil; {
		next := o.Next
		o.Next = nil
		o = next
	}
	vm.objects = nil
	vm.globals = nil
	vm.strings = nil
}

// Track registers o on the VM's all-objects list. The compiler calls this
// for every literal and nested function it allocates so that ownership is
// established the moment an object exists, not only once it becomes
// reachable from a running program.
func (vm *VM) Track(o *value.Obj) {
	o.Next = vm.objects
	vm.objects = o
}

// Intern returns the unique *ObjString for s, allocating and tracking one
// if this is the first time s has been seen. It implements
// compiler.Interner.
func (vm *VM) Intern(s string) *value.ObjString {
	if existing, ok := vm.strings.Get(s); ok {
		return existing
	}
	str := value.NewString(s)
	vm.Track(&str.Obj)
	vm.strings.Put(s, str)
	return str
}

// InternString interns s and wraps it as a Value, for use by native
// functions. It implements value.VM.
func (vm *VM) InternString(s string) value.Value {
	return value.FromObj(&vm.Intern(s).Obj)
}

// RuntimeErrorf faults the VM's current call the same way an internal
// runtime check does, for use by native functions. It implements value.VM.
// The native must still return normally; CALL notices the fault and aborts
// the interpreter loop on its behalf.
func (vm *VM) RuntimeErrorf(format string, args ...any) {
	if vm.faulted {
		return
	}
	vm.faulted = true
	vm.faultMsg = fmt.Sprintf(format, args...)
}

// RegisterNative binds name, as a global, to a host-provided Go function
// callable from warp source; each call's argument count is checked against
// arity.
func (vm *VM) RegisterNative(name string, arity int, fn value.NativeFn) {
	nameStr := vm.Intern(name)
	native := value.NewNative(nameStr, arity, fn)
	vm.Track(&native.Obj)
	vm.globals.Put(value.FromObj(&nameStr.Obj), value.FromObj(&native.Obj))
}

func (vm *VM) stdout() io.Writer {
	if vm.config.Stdout != nil {
		return vm.config.Stdout
	}
	return os.Stdout
}

// GetSlot reads value-stack slot index (0-based from the bottom of the
// stack), bounded by the current stack pointer. It reports false if index
// is out of range.
func (vm *VM) GetSlot(index int) (value.Value, bool) {
	if index < 0 || index >= vm.sp {
		return value.Value{}, false
	}
	return vm.stack[index], true
}

// Interpret compiles src (attributing diagnostics to filename) and, if it
// compiled without error, runs the resulting script function to completion.
func (vm *VM) Interpret(filename string, src []byte) Result {
	var diags diag.List
	fn := compiler.Compile(filename, src, vm, &diags)

	for _, d := range diags {
		if vm.config.CompileDiagSink != nil {
			vm.config.CompileDiagSink(d)
		}
	}
	if diags.HasErrors() {
		return CompileError
	}

	vm.filename = filename
	vm.resetStacks()
	vm.faulted = false
	vm.faultMsg = ""

	vm.push(value.FromObj(&fn.Obj))
	if !vm.callValue(value.FromObj(&fn.Obj), 0) {
		vm.reportFault()
		vm.resetStacks()
		return RuntimeError
	}

	if !vm.run() {
		vm.reportFault()
		vm.resetStacks()
		return RuntimeError
	}
	return OK
}

func (vm *VM) reportFault() {
	if !vm.faulted || vm.config.RuntimeDiagSink == nil {
		return
	}
	vm.config.RuntimeDiagSink(fmt.Sprintf("%s: %s", vm.filename, vm.faultMsg))
}

func (vm *VM) resetStacks() {
	vm.sp = 0
	vm.frameCount = 0
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() value.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.sp-1-distance]
}

// runtimeFault records a runtime error naming line within the currently
// executing frame, mirroring RuntimeErrorf's bookkeeping for internal
// faults raised by the interpreter loop itself rather than a native.
func (vm *VM) runtimeFault(line int, format string, args ...any) {
	if vm.faulted {
		return
	}
	vm.faulted = true
	vm.faultMsg = fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...))
}
