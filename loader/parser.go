package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/barfgo/reil/reil"
)

// Parse reads REIL assembly text, one instruction per non-blank,
// non-comment line, and returns the decoded instructions plus any
// errors encountered. Parsing does not stop at the first error: every
// line is attempted, so a caller sees every problem in one pass.
//
// Line grammar:
//
//	[<address>:] <mnemonic> [<operand>, <operand>, <operand>]
//
// where <address> is a hex literal, <mnemonic> is a REIL mnemonic name
// (case-insensitive), and each <operand> is either the literal EMPTY, a
// size tag followed by a hex/decimal immediate (e.g. "DWORD 0x2a"), or a
// size tag followed by a symbolic register name (e.g. "DWORD eax_0").
func Parse(source, filename string) ([]*reil.Instruction, *ErrorList) {
	errs := &ErrorList{}
	var instructions []*reil.Instruction

	for lineNo, raw := range strings.Split(source, "\n") {
		line := stripComment(raw)
		if strings.TrimSpace(line) == "" {
			continue
		}

		ins, lineErrs := parseLine(line, filename, lineNo+1)
		if lineErrs.HasErrors() {
			errs.Errors = append(errs.Errors, lineErrs.Errors...)
			continue
		}
		instructions = append(instructions, ins)
	}

	return instructions, errs
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseLine(line, filename string, lineNo int) (*reil.Instruction, *ErrorList) {
	lex := NewLexer(line, filename, lineNo)
	p := &lineParser{lex: lex, errs: &ErrorList{}}
	p.advance()

	ins := p.parseInstruction()

	if lex.Errors().HasErrors() {
		p.errs.Errors = append(p.errs.Errors, lex.Errors().Errors...)
	}
	return ins, p.errs
}

type lineParser struct {
	lex  *Lexer
	tok  Token
	errs *ErrorList
}

func (p *lineParser) advance() {
	p.tok = p.lex.NextToken()
}

func (p *lineParser) fail(kind ErrorKind, format string, args ...interface{}) {
	p.errs.AddError(NewError(p.tok.Pos, kind, fmt.Sprintf(format, args...)))
}

func (p *lineParser) parseInstruction() *reil.Instruction {
	address, hasAddr := p.parseOptionalAddress()
	if p.errs.HasErrors() {
		return nil
	}

	if p.tok.Type != TokenIdentifier {
		p.fail(ErrSyntax, "expected a mnemonic, got %s", p.tok.Type)
		return nil
	}
	mnemonicTok := p.tok
	mnemonic, ok := reil.ParseMnemonic(strings.ToLower(mnemonicTok.Literal))
	if !ok {
		p.fail(ErrUnknownMnemonic, "%q is not a REIL mnemonic", mnemonicTok.Literal)
		return nil
	}
	p.advance()

	if p.tok.Type != TokenLBracket {
		p.fail(ErrSyntax, "expected '[' after mnemonic, got %s", p.tok.Type)
		return nil
	}
	p.advance()

	operands := make([]reil.Operand, 0, 3)
	for {
		op, ok := p.parseOperand()
		if !ok {
			return nil
		}
		operands = append(operands, op)

		if p.tok.Type == TokenComma {
			p.advance()
			continue
		}
		break
	}

	if p.tok.Type != TokenRBracket {
		p.fail(ErrSyntax, "expected ']', got %s", p.tok.Type)
		return nil
	}
	p.advance()

	if len(operands) != 3 {
		p.fail(ErrArity, "expected 3 operands, got %d", len(operands))
		return nil
	}

	b := reil.NewBuilder()
	ins, err := b.Build(mnemonic, operands[0], operands[1], operands[2])
	if err != nil {
		p.fail(ErrMalformedOperand, "%v", err)
		return nil
	}

	if hasAddr {
		ins.Address = address
		ins.HasAddr = true
	}
	return ins
}

// parseOptionalAddress consumes "<hex>:" if present, otherwise leaves
// the token stream untouched.
func (p *lineParser) parseOptionalAddress() (uint64, bool) {
	if p.tok.Type != TokenNumber {
		return 0, false
	}
	save := p.tok
	// Peek: an address is only present if the number is followed by ':'.
	// The lexer doesn't support rewinding, so the caller re-lexes the
	// whole line for the common (no-address) case is avoided by simply
	// checking the next token here and treating a non-colon follower as
	// a parse error — REIL lines never start with a bare number.
	numberTok := save
	p.advance()
	if p.tok.Type != TokenColon {
		p.fail(ErrSyntax, "unexpected numeric literal %q at start of line", numberTok.Literal)
		return 0, false
	}
	p.advance()

	value, err := parseIntLiteral(numberTok.Literal)
	if err != nil {
		p.fail(ErrMalformedOperand, "invalid address %q: %v", numberTok.Literal, err)
		return 0, false
	}
	return value, true
}

func (p *lineParser) parseOperand() (reil.Operand, bool) {
	if p.tok.Type != TokenIdentifier {
		p.fail(ErrMalformedOperand, "expected an operand, got %s", p.tok.Type)
		return reil.Operand{}, false
	}

	if p.tok.Literal == "EMPTY" {
		p.advance()
		return reil.Empty, true
	}

	size, ok := reil.ParseSizeTag(p.tok.Literal)
	if !ok {
		p.fail(ErrUnknownSizeTag, "%q is not a known size tag", p.tok.Literal)
		return reil.Operand{}, false
	}
	p.advance()

	switch p.tok.Type {
	case TokenNumber:
		value, err := parseIntLiteral(p.tok.Literal)
		if err != nil {
			p.fail(ErrMalformedOperand, "invalid immediate %q: %v", p.tok.Literal, err)
			return reil.Operand{}, false
		}
		p.advance()
		return reil.Immediate(value, size), true
	case TokenIdentifier:
		name := p.tok.Literal
		p.advance()
		return reil.Register(name, size), true
	default:
		p.fail(ErrMalformedOperand, "expected an immediate or register name, got %s", p.tok.Type)
		return reil.Operand{}, false
	}
}

func parseIntLiteral(lit string) (uint64, error) {
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		return strconv.ParseUint(lit[2:], 16, 64)
	}
	return strconv.ParseUint(lit, 10, 64)
}
