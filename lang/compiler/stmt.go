package compiler

import (
	"github.com/warplang/warp/lang/token"
	"github.com/warplang/warp/lang/value"
)

// declaration compiles one var declaration, fun declaration, or bare
// expression, leaving exactly one value on the stack, then consumes the
// terminator that separates it from whatever follows.
func (c *Compiler) declaration() {
	switch {
	case c.parser.match(token.VAR):
		c.varDeclaration()
	case c.parser.match(token.FUN):
		c.funDeclaration()
	default:
		c.expression()
	}
	c.parser.consumeTerminator()
}

// compileBody compiles a sequence of declarations up to (but not
// consuming) a token satisfying atEnd, discarding every value but the
// last with POP. An empty body still yields a value: NIL.
func (c *Compiler) compileBody(atEnd func() bool) {
	if atEnd() {
		c.emitOp(OpNil)
		return
	}
	for {
		c.declaration()
		if c.parser.panicMode {
			c.parser.synchronize()
		}
		if atEnd() || c.parser.check(token.EOF) {
			return
		}
		c.emitOp(OpPop)
	}
}

// bracedBlock compiles the body of a `{ ... }` expression, assuming the
// opening '{' has already been consumed. It opens a scope, compiles the
// declaration sequence, and closes the scope with BLOCK so the block's own
// locals are released while its value survives.
func (c *Compiler) bracedBlock() {
	c.beginScope()
	c.compileBody(func() bool { return c.parser.check(token.RBRACE) })
	c.parser.expect(token.RBRACE, "expected '}' after block")
	n := c.endScope()
	c.emitBlock(n)
}

func parseBlock(c *Compiler, _ bool) { c.bracedBlock() }

// varDeclaration compiles `var name = expr`. At global scope, the name is
// bound via DEF_GLOB; at local scope, the initializer's value itself
// becomes the new local's slot and DUP supplies the declaration's own
// expression value. The local is only marked initialized after the
// initializer compiles, so `var x = x` is a compile error.
func (c *Compiler) varDeclaration() {
	nameTok := c.parser.expect(token.IDENT, "expected variable name")
	name := nameTok.Lexeme
	c.declareVariable(name)

	c.parser.expect(token.EQ, "expected '=' after variable name")
	c.expression()

	if c.scopeDepth > 0 {
		c.markInitialized()
		c.emitOp(OpDup)
		return
	}
	nameConst := c.identifierConstant(name)
	c.emitOpByte(OpDefGlobal, byte(nameConst))
}

// funDeclaration compiles `fun name = (params) { body }`. A local function
// is marked initialized before its body compiles, unlike a plain var
// initializer. The body's own compiler resolves only its own locals, so a
// function calls itself by name (recursion) only when declared at global
// scope, where the name is looked up at runtime.
func (c *Compiler) funDeclaration() {
	nameTok := c.parser.expect(token.IDENT, "expected function name")
	name := nameTok.Lexeme
	c.declareVariable(name)
	if c.scopeDepth > 0 {
		c.markInitialized()
	}

	c.parser.expect(token.EQ, "expected '=' after function name")
	c.function(name)

	if c.scopeDepth > 0 {
		c.emitOp(OpDup)
		return
	}
	nameConst := c.identifierConstant(name)
	c.emitOpByte(OpDefGlobal, byte(nameConst))
}

// function compiles a nested function's parameter list and body with a
// fresh Compiler, then emits the resulting value.ObjFunction as a CONST in
// the enclosing chunk.
func (c *Compiler) function(name string) {
	fn := value.NewFunction()
	fn.Name = c.vm.Intern(name)
	c.vm.Track(&fn.Obj)

	child := newCompiler(c, fn)
	child.beginScope()

	child.parser.expect(token.LPAREN, "expected '(' after function name")
	if !child.parser.check(token.RPAREN) {
		for {
			if fn.Arity >= maxArity {
				child.parser.errorAtCurrent("too many parameters")
			}
			fn.Arity++
			paramTok := child.parser.expect(token.IDENT, "expected parameter name")
			child.declareVariable(paramTok.Lexeme)
			child.markInitialized()
			if !child.parser.match(token.COMMA) {
				break
			}
		}
	}
	child.parser.expect(token.RPAREN, "expected ')' after parameters")

	child.parser.expect(token.LBRACE, "expected '{' before function body")
	child.compileBody(func() bool { return child.parser.check(token.RBRACE) })
	child.parser.expect(token.RBRACE, "expected '}' after function body")
	child.emitOp(OpReturn)

	fn.MaxSlots = child.maxSlots
	c.emitConstant(value.FromObj(&fn.Obj))
}

// parseIf compiles both surface forms of the conditional expression:
// `if cond then expr (else expr)? end` and `if cond { block } (else
// ({ block } | if ...))?`. Either way exactly one value results: the
// taken branch's, or NIL if no else was given.
func parseIf(c *Compiler, _ bool) {
	c.expression()
	thenJump := c.emitJump(OpJumpFalse)
	c.emitOp(OpPop)

	if c.parser.match(token.THEN) {
		c.compileBody(func() bool { return c.parser.check(token.ELSE) || c.parser.check(token.END) })
		elseJump := c.emitJump(OpJump)

		c.patchJump(thenJump)
		c.emitOp(OpPop)
		if c.parser.match(token.ELSE) {
			c.compileBody(func() bool { return c.parser.check(token.END) })
		} else {
			c.emitOp(OpNil)
		}
		c.parser.expect(token.END, "expected 'end' to close if")
		c.patchJump(elseJump)
		return
	}

	c.parser.expect(token.LBRACE, "expected '{' or 'then' after if condition")
	c.bracedBlock()
	elseJump := c.emitJump(OpJump)

	c.patchJump(thenJump)
	c.emitOp(OpPop)
	if c.parser.match(token.ELSE) {
		switch {
		case c.parser.match(token.IF):
			parseIf(c, false)
		case c.parser.match(token.LBRACE):
			c.bracedBlock()
		default:
			c.parser.errorAtCurrent("expected '{' or 'if' after else")
			c.emitOp(OpNil)
		}
	} else {
		c.emitOp(OpNil)
	}
	c.patchJump(elseJump)
}

// parseWhile compiles `while cond { body }`. The loop re-checks cond on
// every iteration (LOOP jumps back to its offset), drops the per-iteration
// body value so the stack doesn't grow unboundedly across iterations, and
// yields NIL unless a `break` inside supplies a different value.
func parseWhile(c *Compiler, _ bool) {
	l := &loopCtx{enclosing: c.loop, depth: c.scopeDepth, start: len(c.chunk().Code)}
	c.loop = l

	c.expression()
	exitJump := c.emitJump(OpJumpFalse)
	c.emitOp(OpPop)

	c.parser.expect(token.LBRACE, "expected '{' after while condition")
	c.bracedBlock()
	c.emitOp(OpPop) // per-iteration body value does not survive the loop

	c.emitLoop(l.start)
	c.patchJump(exitJump)
	// the exit edge arrives here with the condition value still on the
	// stack; the fall-through accounting above already consumed it
	c.adjustStack(1)
	c.emitOp(OpPop)
	c.emitOp(OpNil)

	c.closeLoop(l)
	c.loop = l.enclosing
}

func canStartExpr(k token.Kind) bool { return getRule(k).prefix != nil }

// parseBreak compiles `break` or `break expr`. Whether an expression
// follows is decided the same way a terminator is: a token that starts a
// new line, or one with no prefix parse rule, means there is no operand.
func parseBreak(c *Compiler, _ bool) {
	if c.loop == nil {
		c.parser.error("'break' used outside a loop")
		return
	}
	if !c.parser.current.StartOfLine && canStartExpr(c.parser.current.Kind) {
		c.expression()
	} else {
		c.emitOp(OpNil)
	}
	n := c.popLocalsAbove(c.loop.depth)
	c.emitBlock(n)
	off := c.emitJump(OpEndLoop)
	c.loop.endLoopSites = append(c.loop.endLoopSites, off)
}

// parseContinue compiles `continue`: unwind locals declared since the
// loop was entered and jump back to its condition re-check. continue
// carries no value of its own; the code after it is unreachable.
func parseContinue(c *Compiler, _ bool) {
	if c.loop == nil {
		c.parser.error("'continue' used outside a loop")
		return
	}
	n := c.popLocalsAbove(c.loop.depth)
	for i := 0; i < n; i++ {
		c.emitOp(OpPop)
	}
	c.emitLoop(c.loop.start)
}

func parsePrint(c *Compiler, _ bool) {
	c.expression()
	c.emitOp(OpPrint)
}
