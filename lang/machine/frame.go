package machine

import "github.com/warplang/warp/lang/value"

// frame records one active call: which function is executing, where its
// instruction pointer sits, and where its slot 0 lives in the VM's shared
// value stack. Slot 0 always holds the callee itself, exactly as the
// compiler reserves it.
type frame struct {
	fn   *value.ObjFunction
	ip   int
	base int
}

func (fr *frame) readByte() byte {
	b := fr.fn.Chunk.Code[fr.ip]
	fr.ip++
	return b
}

// readShort reads a little-endian 16-bit operand.
func (fr *frame) readShort() int {
	lo := fr.readByte()
	hi := fr.readByte()
	return int(hi)<<8 | int(lo)
}

func (fr *frame) readConst() value.Value {
	idx := fr.readByte()
	return fr.fn.Chunk.Constants[idx]
}

// line reports the source line of the instruction just executed, for
// runtime diagnostics.
func (fr *frame) line() int {
	if fr.ip == 0 {
		return fr.fn.Chunk.Lines[0]
	}
	return fr.fn.Chunk.Lines[fr.ip-1]
}
