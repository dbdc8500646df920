package machine

import "github.com/warplang/warp/lang/value"

// callValue dispatches CALL argc against whatever sits under the argument
// region: a user function pushes a new frame, a native runs synchronously
// in place, anything else is a runtime error. It reports false (having
// already recorded a fault) when the call could not proceed.
func (vm *VM) callValue(callee value.Value, argc int) bool {
	if !callee.IsObj() {
		vm.runtimeFault(vm.currentLine(), "attempt to call a %s value", callee.TypeName())
		return false
	}
	switch callee.AsObj().Kind {
	case value.KindObjFunction:
		return vm.callFunction(value.AsFunction(callee), argc)
	case value.KindObjNative:
		return vm.callNative(value.AsNative(callee), argc)
	default:
		vm.runtimeFault(vm.currentLine(), "attempt to call a %s value", callee.TypeName())
		return false
	}
}

func (vm *VM) callFunction(fn *value.ObjFunction, argc int) bool {
	if argc != fn.Arity {
		vm.runtimeFault(vm.currentLine(), "expected %d arguments but got %d", fn.Arity, argc)
		return false
	}
	if vm.frameCount == maxFrames {
		vm.runtimeFault(vm.currentLine(), "stack overflow")
		return false
	}
	fr := &vm.frames[vm.frameCount]
	fr.fn = fn
	fr.ip = 0
	fr.base = vm.sp - argc - 1
	vm.frameCount++
	return true
}

// callNative invokes a host function in place: slots spans the whole call
// region (callee slot plus arguments), the native overwrites slots[0] with
// its result, and the region collapses to that single value.
func (vm *VM) callNative(n *value.ObjNative, argc int) bool {
	if argc != n.Arity {
		vm.runtimeFault(vm.currentLine(), "expected %d arguments but got %d", n.Arity, argc)
		return false
	}
	base := vm.sp - argc - 1
	slots := vm.stack[base:vm.sp]
	n.Fn(vm, slots)
	if vm.faulted {
		return false
	}
	result := slots[0]
	vm.sp = base
	vm.push(result)
	return true
}

func (vm *VM) currentLine() int {
	if vm.frameCount == 0 {
		return 0
	}
	return vm.frames[vm.frameCount-1].line()
}
