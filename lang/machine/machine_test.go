package machine_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warplang/warp/lang/diag"
	"github.com/warplang/warp/lang/machine"
	"github.com/warplang/warp/lang/value"
)

func run(t *testing.T, src string) (string, machine.Result) {
	t.Helper()
	var out bytes.Buffer
	var diags []diag.Diagnostic
	var faults []string
	vm := machine.New(machine.Config{
		Stdout:          &out,
		CompileDiagSink: func(d diag.Diagnostic) { diags = append(diags, d) },
		RuntimeDiagSink: func(msg string) { faults = append(faults, msg) },
	})
	defer vm.Destroy()
	result := vm.Interpret(t.Name(), []byte(src))
	if result == machine.CompileError {
		t.Logf("diagnostics: %v", diags)
	}
	if result == machine.RuntimeError {
		t.Logf("fault: %v", faults)
	}
	return out.String(), result
}

func TestArithmeticAndPrecedence(t *testing.T) {
	out, result := run(t, `print 1 + 2 * 3`)
	require.Equal(t, machine.OK, result)
	assert.Equal(t, "7\n", out)
}

func TestStringConcat(t *testing.T) {
	out, result := run(t, `print "hello" + " " + "world"`)
	require.Equal(t, machine.OK, result)
	assert.Equal(t, "hello world\n", out)
}

func TestLocalsAndBlocks(t *testing.T) {
	out, result := run(t, `var a = 1; var b = { var c = 2; a + c }; print b`)
	require.Equal(t, machine.OK, result)
	assert.Equal(t, "3\n", out)
}

func TestControlFlowAsExpression(t *testing.T) {
	out, result := run(t, `var x = if true then 10 else 20 end; print x`)
	require.Equal(t, machine.OK, result)
	assert.Equal(t, "10\n", out)
}

func TestWhileAndBreak(t *testing.T) {
	out, result := run(t, `var i = 0; var r = while i < 5 { if i == 3 { break i * 10 }; i = i + 1 }; print r`)
	require.Equal(t, machine.OK, result)
	assert.Equal(t, "30\n", out)
}

func TestFunctionCall(t *testing.T) {
	out, result := run(t, `fun add = (a, b) { a + b }; print add(2, 40)`)
	require.Equal(t, machine.OK, result)
	assert.Equal(t, "42\n", out)
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, result := run(t, `print undefined_name`)
	assert.Equal(t, machine.RuntimeError, result)
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, result := run(t, `fun f = (a) { a }; f(1, 2)`)
	assert.Equal(t, machine.RuntimeError, result)
}

func TestVMReusableAfterRuntimeFault(t *testing.T) {
	var out bytes.Buffer
	vm := machine.New(machine.Config{Stdout: &out})
	defer vm.Destroy()

	assert.Equal(t, machine.RuntimeError, vm.Interpret("first", []byte(`print undefined_name`)))
	assert.Equal(t, machine.OK, vm.Interpret("second", []byte(`print 1 + 1`)))
	assert.Equal(t, "2\n", out.String())
}

func TestGlobalsPersistAcrossInterpretCalls(t *testing.T) {
	var out bytes.Buffer
	vm := machine.New(machine.Config{Stdout: &out})
	defer vm.Destroy()

	require.Equal(t, machine.OK, vm.Interpret("one", []byte(`var counter = 1`)))
	require.Equal(t, machine.OK, vm.Interpret("two", []byte(`print counter + 1`)))
	assert.Equal(t, "2\n", out.String())
}

func TestRecursion(t *testing.T) {
	out, result := run(t, `
fun fact = (n) {
	if n < 2 then 1 else n * fact(n - 1) end
}
print fact(5)
`)
	require.Equal(t, machine.OK, result)
	assert.Equal(t, "120\n", out)
}

func TestLogicalShortCircuit(t *testing.T) {
	out, result := run(t, `
fun boom = () { print "evaluated"; true }
print false && boom()
print true || boom()
`)
	require.Equal(t, machine.OK, result)
	assert.Equal(t, "false\ntrue\n", out)
}

func TestNativeFunctionCall(t *testing.T) {
	var out bytes.Buffer
	vm := machine.New(machine.Config{Stdout: &out})
	defer vm.Destroy()

	vm.RegisterNative("double", 1, func(_ value.VM, slots []value.Value) {
		slots[0] = value.Number(slots[1].AsNumber() * 2)
	})
	require.Equal(t, machine.OK, vm.Interpret(t.Name(), []byte(`print double(21)`)))
	assert.Equal(t, "42\n", out.String())
}

func TestNativeCanFaultTheCall(t *testing.T) {
	var faults []string
	vm := machine.New(machine.Config{
		RuntimeDiagSink: func(msg string) { faults = append(faults, msg) },
	})
	defer vm.Destroy()

	vm.RegisterNative("boom", 0, func(host value.VM, slots []value.Value) {
		host.RuntimeErrorf("boom: %s", "no good")
		slots[0] = value.Nil()
	})
	assert.Equal(t, machine.RuntimeError, vm.Interpret(t.Name(), []byte(`boom()`)))
	require.Len(t, faults, 1)
	assert.Contains(t, faults[0], "no good")
}

func TestNativeArityMismatchIsRuntimeError(t *testing.T) {
	vm := machine.New(machine.Config{})
	defer vm.Destroy()

	vm.RegisterNative("one", 1, func(_ value.VM, slots []value.Value) {
		slots[0] = slots[1]
	})
	assert.Equal(t, machine.RuntimeError, vm.Interpret(t.Name(), []byte(`one(1, 2)`)))
}

func TestGetSlotReadsScriptResult(t *testing.T) {
	vm := machine.New(machine.Config{})
	defer vm.Destroy()

	require.Equal(t, machine.OK, vm.Interpret(t.Name(), []byte(`1 + 2`)))
	v, ok := vm.GetSlot(0)
	require.True(t, ok)
	assert.Equal(t, float64(3), v.AsNumber())

	_, ok = vm.GetSlot(1)
	assert.False(t, ok)
	_, ok = vm.GetSlot(-1)
	assert.False(t, ok)
}

func TestInternStringDedupes(t *testing.T) {
	vm := machine.New(machine.Config{})
	defer vm.Destroy()

	a := vm.Intern("shared")
	b := vm.Intern("shared")
	assert.Same(t, a, b)
	assert.True(t, vm.InternString("shared").Equal(vm.InternString("shared")))
}

func TestConcatenationYieldsInternedString(t *testing.T) {
	vm := machine.New(machine.Config{})
	defer vm.Destroy()

	require.Equal(t, machine.OK, vm.Interpret(t.Name(), []byte(`"con" + "cat"`)))
	v, ok := vm.GetSlot(0)
	require.True(t, ok)
	require.True(t, v.IsObjKind(value.KindObjString))
	assert.Same(t, vm.Intern("concat"), value.AsString(v))
}

func TestCallingANonCallableIsRuntimeError(t *testing.T) {
	_, result := run(t, `var x = 1; x(2)`)
	assert.Equal(t, machine.RuntimeError, result)
}

func TestDeepRecursionOverflowsFrameStack(t *testing.T) {
	_, result := run(t, `
fun down = (n) { down(n - 1) }
down(1)
`)
	assert.Equal(t, machine.RuntimeError, result)
}

func TestIfWithoutElseYieldsNil(t *testing.T) {
	out, result := run(t, `print if false { 1 }`)
	require.Equal(t, machine.OK, result)
	assert.Equal(t, "nil\n", out)
}

func TestElseIfChain(t *testing.T) {
	out, result := run(t, `
var n = 2
print if n == 1 { "one" } else if n == 2 { "two" } else { "many" }
`)
	require.Equal(t, machine.OK, result)
	assert.Equal(t, "two\n", out)
}

func TestCompileErrorOnBreakOutsideLoop(t *testing.T) {
	_, result := run(t, `break 1`)
	assert.Equal(t, machine.CompileError, result)
}

func TestContinueSkipsRemainderOfBody(t *testing.T) {
	out, result := run(t, `
var i = 0
var sum = 0
while i < 5 {
	i = i + 1
	if i == 3 { continue }
	sum = sum + i
}
print sum
`)
	require.Equal(t, machine.OK, result)
	assert.Equal(t, "12\n", out)
}
