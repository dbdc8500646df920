package compiler

import (
	"github.com/warplang/warp/lang/token"
	"github.com/warplang/warp/lang/value"
)

// precedence orders warp's expression grammar from loosest- to
// tightest-binding.
type precedence int

const (
	precNone precedence = iota
	precAssign
	precOr
	precAnd
	precEq
	precCmp
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

// parseFn is either a prefix parselet (nothing has been parsed yet) or an
// infix parselet (the left operand is already compiled and sits on top of
// the stack). canAssign is threaded through so that only an expression
// parsed at or below assignment precedence may consume a trailing '='.
type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix parseFn
	infix  parseFn
	prec   precedence
}

// rules is the Pratt dispatch table: for each token kind that can start or
// continue an expression, which function parses it and at what
// precedence an infix use binds.
var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.NUMBER: {prefix: parseNumber},
		token.STRING: {prefix: parseString},
		token.NIL:    {prefix: parseLiteral},
		token.TRUE:   {prefix: parseLiteral},
		token.FALSE:  {prefix: parseLiteral},
		token.IDENT:  {prefix: parseVariable},

		token.LPAREN: {prefix: parseGrouping, infix: parseCall, prec: precCall},

		token.LBRACE:   {prefix: parseBlock},
		token.IF:       {prefix: parseIf},
		token.WHILE:    {prefix: parseWhile},
		token.BREAK:    {prefix: parseBreak},
		token.CONTINUE: {prefix: parseContinue},
		token.PRINT:    {prefix: parsePrint},

		token.BANG:  {prefix: parseUnary},
		token.MINUS: {prefix: parseUnary, infix: parseBinary, prec: precTerm},

		token.PLUS:  {infix: parseBinary, prec: precTerm},
		token.STAR:  {infix: parseBinary, prec: precFactor},
		token.SLASH: {infix: parseBinary, prec: precFactor},

		token.LT:      {infix: parseBinary, prec: precCmp},
		token.LT_EQ:   {infix: parseBinary, prec: precCmp},
		token.GT:      {infix: parseBinary, prec: precCmp},
		token.GT_EQ:   {infix: parseBinary, prec: precCmp},
		token.EQ_EQ:   {infix: parseBinary, prec: precEq},
		token.BANG_EQ: {infix: parseBinary, prec: precEq},

		token.AND_AND: {infix: parseAnd, prec: precAnd},
		token.OR_OR:   {infix: parseOr, prec: precOr},
	}
}

func getRule(k token.Kind) parseRule { return rules[k] }

// expression compiles a single expression at the loosest precedence that
// still excludes bare declarations, leaving exactly one value on the
// stack.
func (c *Compiler) expression() { c.parsePrecedence(precAssign) }

// parsePrecedence is the heart of the Pratt parser: run the current
// token's prefix rule, then keep folding in infix operators for as long as
// the next token's precedence is at least prec.
func (c *Compiler) parsePrecedence(prec precedence) {
	c.parser.advance()
	rule := getRule(c.parser.previous.Kind)
	if rule.prefix == nil {
		c.parser.error("expected expression")
		return
	}
	canAssign := prec <= precAssign
	rule.prefix(c, canAssign)

	for {
		next := getRule(c.parser.current.Kind)
		if next.infix == nil || next.prec < prec {
			break
		}
		c.parser.advance()
		next.infix(c, canAssign)
	}

	if canAssign && c.parser.match(token.EQ) {
		c.parser.error("invalid assignment target")
	}
}

func parseNumber(c *Compiler, _ bool) {
	c.emitConstant(value.Number(c.parser.previous.Number))
}

func parseString(c *Compiler, _ bool) {
	s := c.vm.Intern(c.parser.previous.Str)
	c.emitConstant(value.FromObj(&s.Obj))
}

func parseLiteral(c *Compiler, _ bool) {
	switch c.parser.previous.Kind {
	case token.NIL:
		c.emitOp(OpNil)
	case token.TRUE:
		c.emitOp(OpTrue)
	case token.FALSE:
		c.emitOp(OpFalse)
	}
}

func parseGrouping(c *Compiler, _ bool) {
	c.expression()
	c.parser.expect(token.RPAREN, "expected ')' after expression")
}

// parseUnary compiles a prefix '-' or '!', parsing its operand at
// precUnary so that e.g. `-a + b` binds as `(-a) + b`.
func parseUnary(c *Compiler, _ bool) {
	op := c.parser.previous.Kind
	c.parsePrecedence(precUnary)
	switch op {
	case token.MINUS:
		c.emitOp(OpNeg)
	case token.BANG:
		c.emitOp(OpNot)
	}
}

var binaryOps = map[token.Kind]Op{
	token.PLUS: OpAdd, token.MINUS: OpSub, token.STAR: OpMul, token.SLASH: OpDiv,
	token.LT: OpLt, token.LT_EQ: OpLtEq, token.GT: OpGt, token.GT_EQ: OpGtEq,
	token.EQ_EQ: OpEq,
}

// parseBinary compiles the right operand one precedence level tighter than
// the operator's own, making every binary operator left-associative, then
// emits the operator's opcode. `!=` has no dedicated opcode: it emits EQ
// followed by NOT.
func parseBinary(c *Compiler, _ bool) {
	op := c.parser.previous.Kind
	rule := getRule(op)
	c.parsePrecedence(rule.prec + 1)

	if op == token.BANG_EQ {
		c.emitOp(OpEq)
		c.emitOp(OpNot)
		return
	}
	c.emitOp(binaryOps[op])
}

// parseAnd short-circuits: if the left operand is falsey, its value (still
// on the stack) is the result and the right operand is skipped entirely.
func parseAnd(c *Compiler, _ bool) {
	endJump := c.emitJump(OpJumpFalse)
	c.emitOp(OpPop)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

// parseOr short-circuits the other way: if the left operand is truthy,
// skip straight past the right operand.
func parseOr(c *Compiler, _ bool) {
	elseJump := c.emitJump(OpJumpFalse)
	endJump := c.emitJump(OpJump)
	c.patchJump(elseJump)
	c.emitOp(OpPop)
	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

// parseCall compiles `callee(args...)`: callee is already compiled (it's
// the left operand), so this parses the argument list and emits CALL.
func parseCall(c *Compiler, _ bool) {
	argc := c.argumentList()
	c.emitCall(argc)
}

func (c *Compiler) argumentList() int {
	argc := 0
	if !c.parser.check(token.RPAREN) {
		for {
			c.expression()
			if argc == maxArity {
				c.parser.error("too many arguments")
			}
			argc++
			if !c.parser.match(token.COMMA) {
				break
			}
		}
	}
	c.parser.expect(token.RPAREN, "expected ')' after arguments")
	return argc
}

// parseVariable resolves an identifier as a local (innermost scope wins)
// or, failing that, a global, then either reads it or, when canAssign and
// the next token is '=', compiles the assignment instead.
func parseVariable(c *Compiler, canAssign bool) {
	name := c.parser.previous.Lexeme

	if slot := c.resolveLocal(name); slot != -1 {
		if canAssign && c.parser.match(token.EQ) {
			c.expression()
			c.emitOpByte(OpSetLocal, byte(slot))
			return
		}
		c.emitOpByte(OpGetLocal, byte(slot))
		return
	}

	nameConst := c.identifierConstant(name)
	if canAssign && c.parser.match(token.EQ) {
		c.expression()
		c.emitOpByte(OpSetGlobal, byte(nameConst))
		return
	}
	c.emitOpByte(OpGetGlobal, byte(nameConst))
}

// identifierConstant interns name and adds it to the chunk's constant
// pool, for use as the operand of a *_GLOB opcode.
func (c *Compiler) identifierConstant(name string) int {
	s := c.vm.Intern(name)
	return c.makeConstant(value.FromObj(&s.Obj))
}
