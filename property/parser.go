package property

import (
	"fmt"

	"github.com/vlath-eng/symcheck/machine"
)

// Parse compiles source's surface syntax (AG[...], E[... U ...], name == 3,
// as_signed(name) < 0, ...) into a folded Tree, wrapping any lexing or
// parsing failure in ErrSyntax.
func Parse(source string) (*Tree, error) {
	p := &parser{lex: newLexer(source), b: newBuilder()}
	if err := p.advance(); err != nil {
		return nil, err
	}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected trailing input", ErrSyntax)
	}
	return p.b.tree(root), nil
}

type parser struct {
	lex *lexer
	b   *builder
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.tok.kind != kind {
		return fmt.Errorf("%w: expected %s", ErrSyntax, what)
	}
	return p.advance()
}

// parseOr: andExpr ("||" andExpr)*
func (p *parser) parseOr() (int, error) {
	left, err := p.parseAnd()
	if err != nil {
		return 0, err
	}
	for p.tok.kind == tokOrOr {
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return 0, err
		}
		left = p.b.or(left, right)
	}
	return left, nil
}

// parseAnd: unary ("&&" unary)*
func (p *parser) parseAnd() (int, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for p.tok.kind == tokAndAnd {
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		left = p.b.and(left, right)
	}
	return left, nil
}

// parseUnary: "!" unary | primary
func (p *parser) parseUnary() (int, error) {
	if p.tok.kind == tokBang {
		if err := p.advance(); err != nil {
			return 0, err
		}
		inner, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.b.not(inner), nil
	}
	return p.parsePrimary()
}

// parsePrimary: "(" expr ")" | "true" | "false" | temporal | atomic
func (p *parser) parsePrimary() (int, error) {
	switch p.tok.kind {
	case tokLParen:
		if err := p.advance(); err != nil {
			return 0, err
		}
		inner, err := p.parseOr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return 0, err
		}
		return inner, nil
	case tokIdent:
		switch p.tok.text {
		case "true":
			if err := p.advance(); err != nil {
				return 0, err
			}
			return p.b.constB(true), nil
		case "false":
			if err := p.advance(); err != nil {
				return 0, err
			}
			return p.b.constB(false), nil
		case "A", "E", "AG", "AF", "AX", "EG", "EF", "EX":
			return p.parseTemporal()
		default:
			return p.parseAtomic()
		}
	default:
		return 0, fmt.Errorf("%w: unexpected token in formula", ErrSyntax)
	}
}

// parseTemporal handles every A/E-quantified form:
//
//	A G [ expr ]   A F [ expr ]   A X [ expr ]
//	E G [ expr ]   E F [ expr ]   E X [ expr ]
//	A [ expr U expr ]   A [ expr R expr ]
//	E [ expr U expr ]   E [ expr R expr ]
func (p *parser) parseTemporal() (int, error) {
	universal := p.tok.text[0] == 'A'
	// AG, EF, ... arrive as one identifier token; A and E alone leave the
	// path operator (or a binary '[') to the next token.
	op := p.tok.text[1:]
	if err := p.advance(); err != nil {
		return 0, err
	}
	if op == "" && p.tok.kind == tokLBracket {
		if err := p.advance(); err != nil {
			return 0, err
		}
		left, err := p.parseOr()
		if err != nil {
			return 0, err
		}
		if p.tok.kind != tokIdent || (p.tok.text != "U" && p.tok.text != "R") {
			return 0, fmt.Errorf("%w: expected 'U' or 'R' in binary temporal form", ErrSyntax)
		}
		isUntil := p.tok.text == "U"
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.parseOr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(tokRBracket, "']'"); err != nil {
			return 0, err
		}
		switch {
		case universal && isUntil:
			return p.b.au(left, right), nil
		case universal && !isUntil:
			return p.b.ar(left, right), nil
		case !universal && isUntil:
			return p.b.eu(left, right), nil
		default:
			return p.b.er(left, right), nil
		}
	}

	if op == "" {
		if p.tok.kind != tokIdent || len(p.tok.text) != 1 {
			return 0, fmt.Errorf("%w: expected 'G', 'F' or 'X' after path quantifier", ErrSyntax)
		}
		op = p.tok.text
		if err := p.advance(); err != nil {
			return 0, err
		}
	}
	if err := p.expect(tokLBracket, "'['"); err != nil {
		return 0, err
	}
	inner, err := p.parseOr()
	if err != nil {
		return 0, err
	}
	if err := p.expect(tokRBracket, "']'"); err != nil {
		return 0, err
	}
	switch {
	case universal && op == "G":
		return p.b.ag(inner), nil
	case universal && op == "F":
		return p.b.af(inner), nil
	case universal && op == "X":
		return p.b.ax(inner), nil
	case !universal && op == "G":
		return p.b.eg(inner), nil
	case !universal && op == "F":
		return p.b.ef(inner), nil
	case !universal && op == "X":
		return p.b.ex(inner), nil
	default:
		return 0, fmt.Errorf("%w: unknown path operator %q", ErrSyntax, op)
	}
}

// parseAtomic: valueExpr comparisonOp intLiteral
func (p *parser) parseAtomic() (int, error) {
	left, err := p.parseValueExpr()
	if err != nil {
		return 0, err
	}
	var cmp Comparison
	switch p.tok.kind {
	case tokEqEq:
		cmp = CmpEq
	case tokNe:
		cmp = CmpNe
	case tokLt:
		cmp = CmpLt
	case tokLe:
		cmp = CmpLe
	case tokGt:
		cmp = CmpGt
	case tokGe:
		cmp = CmpGe
	default:
		return 0, fmt.Errorf("%w: expected a comparison operator", ErrSyntax)
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	if p.tok.kind != tokInt {
		return 0, fmt.Errorf("%w: expected an integer literal", ErrSyntax)
	}
	right := p.tok.ival
	if err := p.advance(); err != nil {
		return 0, err
	}
	return p.b.atomic(AtomicProperty{Left: left, Comparison: cmp, Right: right}), nil
}

// parseValueExpr: ("as_signed" | "as_unsigned") "(" inner ")" | inner
// inner: identifier ("[" intLiteral "]")?
func (p *parser) parseValueExpr() (ValueExpr, error) {
	if p.tok.kind == tokIdent && (p.tok.text == "as_signed" || p.tok.text == "as_unsigned") {
		signed := p.tok.text == "as_signed"
		if err := p.advance(); err != nil {
			return ValueExpr{}, err
		}
		if err := p.expect(tokLParen, "'('"); err != nil {
			return ValueExpr{}, err
		}
		inner, err := p.parseValueExprInner()
		if err != nil {
			return ValueExpr{}, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return ValueExpr{}, err
		}
		if signed {
			inner.Signedness = machine.SignednessSigned
		} else {
			inner.Signedness = machine.SignednessUnsigned
		}
		return inner, nil
	}
	return p.parseValueExprInner()
}

func (p *parser) parseValueExprInner() (ValueExpr, error) {
	if p.tok.kind != tokIdent {
		return ValueExpr{}, fmt.Errorf("%w: expected a field name", ErrSyntax)
	}
	name := p.tok.text
	if err := p.advance(); err != nil {
		return ValueExpr{}, err
	}
	ve := ValueExpr{Field: name}
	if p.tok.kind == tokLBracket {
		if err := p.advance(); err != nil {
			return ValueExpr{}, err
		}
		if p.tok.kind != tokInt || p.tok.ival < 0 {
			return ValueExpr{}, fmt.Errorf("%w: expected a non-negative index literal", ErrSyntax)
		}
		ve.HasIndex = true
		ve.Index = uint64(p.tok.ival)
		if err := p.advance(); err != nil {
			return ValueExpr{}, err
		}
		if err := p.expect(tokRBracket, "']'"); err != nil {
			return ValueExpr{}, err
		}
	}
	return ve, nil
}
