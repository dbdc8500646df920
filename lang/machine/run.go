package machine

import (
	"fmt"

	"github.com/warplang/warp/lang/compiler"
	"github.com/warplang/warp/lang/value"
)

// run executes bytecode against the current frame stack until the
// outermost frame returns (success) or an instruction faults the VM
// (runtime error). It assumes the caller has already pushed the initial
// frame via callValue.
func (vm *VM) run() bool {
	for {
		fr := &vm.frames[vm.frameCount-1]
		op := compiler.Op(fr.readByte())

		switch op {
		case compiler.OpConst:
			vm.push(fr.readConst())

		case compiler.OpNil:
			vm.push(value.Nil())

		case compiler.OpTrue:
			vm.push(value.Bool(true))

		case compiler.OpFalse:
			vm.push(value.Bool(false))

		case compiler.OpPop:
			vm.pop()

		case compiler.OpDup:
			vm.push(vm.peek(0))

		case compiler.OpBlock:
			n := fr.readShort()
			top := vm.pop()
			vm.sp -= n
			vm.push(top)

		case compiler.OpDefGlobal:
			name := fr.readConst()
			vm.globals.Put(name, vm.peek(0))

		case compiler.OpGetGlobal:
			name := fr.readConst()
			v, ok := vm.globals.Get(name)
			if !ok {
				vm.runtimeFault(fr.line(), "undefined global '%s'", value.AsString(name).Chars)
				return false
			}
			vm.push(v)

		case compiler.OpSetGlobal:
			name := fr.readConst()
			if _, ok := vm.globals.Get(name); !ok {
				vm.runtimeFault(fr.line(), "undefined global '%s'", value.AsString(name).Chars)
				return false
			}
			vm.globals.Put(name, vm.peek(0))

		case compiler.OpGetLocal:
			slot := int(fr.readByte())
			vm.push(vm.stack[fr.base+slot])

		case compiler.OpSetLocal:
			slot := int(fr.readByte())
			vm.stack[fr.base+slot] = vm.peek(0)

		case compiler.OpNeg:
			v := vm.peek(0)
			if !v.IsNumber() {
				vm.runtimeFault(fr.line(), "operand of '-' must be a number, got %s", v.TypeName())
				return false
			}
			vm.stack[vm.sp-1] = value.Number(-v.AsNumber())

		case compiler.OpNot:
			v := vm.peek(0)
			vm.stack[vm.sp-1] = value.Bool(!v.Truthy())

		case compiler.OpAdd:
			b, a := vm.peek(0), vm.peek(1)
			switch {
			case a.IsNumber() && b.IsNumber():
				vm.sp -= 2
				vm.push(value.Number(a.AsNumber() + b.AsNumber()))
			case a.IsObjKind(value.KindObjString) && b.IsObjKind(value.KindObjString):
				vm.sp -= 2
				vm.push(vm.concatStrings(a, b))
			default:
				vm.runtimeFault(fr.line(), "operands of '+' must both be numbers or both be strings, got %s and %s", a.TypeName(), b.TypeName())
				return false
			}

		case compiler.OpSub, compiler.OpMul, compiler.OpDiv:
			b, a := vm.peek(0), vm.peek(1)
			if !a.IsNumber() || !b.IsNumber() {
				vm.runtimeFault(fr.line(), "operands of arithmetic must be numbers, got %s and %s", a.TypeName(), b.TypeName())
				return false
			}
			vm.sp -= 2
			var r float64
			switch op {
			case compiler.OpSub:
				r = a.AsNumber() - b.AsNumber()
			case compiler.OpMul:
				r = a.AsNumber() * b.AsNumber()
			case compiler.OpDiv:
				r = a.AsNumber() / b.AsNumber()
			}
			vm.push(value.Number(r))

		case compiler.OpLt, compiler.OpGt, compiler.OpLtEq, compiler.OpGtEq:
			b, a := vm.peek(0), vm.peek(1)
			if !a.IsNumber() || !b.IsNumber() {
				vm.runtimeFault(fr.line(), "operands of comparison must be numbers, got %s and %s", a.TypeName(), b.TypeName())
				return false
			}
			vm.sp -= 2
			var r bool
			switch op {
			case compiler.OpLt:
				r = a.AsNumber() < b.AsNumber()
			case compiler.OpGt:
				r = a.AsNumber() > b.AsNumber()
			case compiler.OpLtEq:
				r = a.AsNumber() <= b.AsNumber()
			case compiler.OpGtEq:
				r = a.AsNumber() >= b.AsNumber()
			}
			vm.push(value.Bool(r))

		case compiler.OpEq:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(a.Equal(b)))

		case compiler.OpJump:
			off := fr.readShort()
			fr.ip += off

		case compiler.OpJumpFalse:
			off := fr.readShort()
			if !vm.peek(0).Truthy() {
				fr.ip += off
			}

		case compiler.OpLoop:
			off := fr.readShort()
			fr.ip -= off

		case compiler.OpEndLoop:
			// A well-formed chunk never runs this: the compiler rewrites every
			// ENDLOOP to JMP once the loop's tail is known. Honor it as JMP
			// anyway rather than faulting, in case a chunk is hand-assembled.
			off := fr.readShort()
			fr.ip += off

		case compiler.OpCall:
			argc := int(fr.readByte())
			callee := vm.peek(argc)
			if !vm.callValue(callee, argc) {
				return false
			}

		case compiler.OpReturn:
			result := vm.pop()
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop() // the finished script's own callee slot
				vm.push(result)
				return true
			}
			vm.sp = fr.base
			vm.push(result)

		case compiler.OpPrint:
			fmt.Fprintln(vm.stdout(), vm.peek(0).String())

		default:
			vm.runtimeFault(fr.line(), "unknown opcode %d", op)
			return false
		}
	}
}

func (vm *VM) concatStrings(a, b value.Value) value.Value {
	sa := value.AsString(a).Chars
	sb := value.AsString(b).Chars
	return value.FromObj(&vm.Intern(sa + sb).Obj)
}
