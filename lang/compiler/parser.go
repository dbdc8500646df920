package compiler

import (
	"github.com/warplang/warp/lang/diag"
	"github.com/warplang/warp/lang/lexer"
	"github.com/warplang/warp/lang/token"
)

// parser holds the single-token lookahead state shared by every nested
// Compiler for a compilation unit: the lexer cursor, the previous and
// current tokens, and the panic/synchronize error-recovery flags that let
// the compiler keep going after the first mistake and still report every
// independent error in one pass.
type parser struct {
	lex       lexer.Lexer
	filename  string
	diags     *diag.List
	previous  token.Token
	current   token.Token
	hadError  bool
	panicMode bool
}

func newParser(filename string, src []byte, diags *diag.List) *parser {
	p := &parser{filename: filename, diags: diags}
	p.lex.Init(src, p.lexDiag)
	p.advance()
	return p
}

func (p *parser) lexDiag(line int, msg string, warn bool) {
	sev := diag.Error
	if warn {
		sev = diag.Warning
	} else {
		p.hadError = true
	}
	p.diags.Add(diag.Diagnostic{Severity: sev, Filename: p.filename, Line: line, Message: msg})
}

func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lex.Next()
		if p.current.Kind != token.ILLEGAL {
			break
		}
		// the lexer already reported the illegal character; keep scanning
		// for the next token instead of surfacing a second, confusing
		// parser-level error about it.
	}
}

func (p *parser) check(k token.Kind) bool { return p.current.Kind == k }

func (p *parser) match(k token.Kind) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) expect(k token.Kind, msg string) token.Token {
	if p.check(k) {
		tok := p.current
		p.advance()
		return tok
	}
	p.errorAtCurrent(msg)
	return p.current
}

func (p *parser) errorAt(tok token.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	p.diags.Add(diag.Diagnostic{
		Severity: diag.Error, Filename: p.filename,
		Line: tok.Line, Column: tok.Column, Length: max(1, len(tok.Lexeme)),
		Message: msg,
	})
}

func (p *parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *parser) error(msg string)          { p.errorAt(p.previous, msg) }

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// consumeTerminator enforces the rule that separates consecutive
// declarations: an explicit ';', or the next token already starting on a
// new line, or the block/program/branch simply ending (EOF, '}', 'end' or
// 'else').
func (p *parser) consumeTerminator() {
	if p.match(token.SEMI) {
		return
	}
	if p.check(token.EOF) || p.check(token.RBRACE) || p.check(token.END) || p.check(token.ELSE) {
		return
	}
	if p.current.StartOfLine {
		return
	}
	p.errorAtCurrent("expected terminator")
}

// synchronize discards tokens after a parse error until it finds a
// plausible declaration boundary, so compilation can keep going and report
// further independent errors instead of cascading.
func (p *parser) synchronize() {
	p.panicMode = false
	for !p.check(token.EOF) {
		if p.previous.Kind == token.SEMI {
			return
		}
		switch p.current.Kind {
		case token.VAR, token.FUN, token.IF, token.WHILE, token.PRINT,
			token.RETURN, token.BREAK, token.CONTINUE:
			return
		}
		p.advance()
	}
}
