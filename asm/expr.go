package asm

import "github.com/andreasbaumann/cpm65/ir"

// maxExprDepth bounds the recursion consumeExpressionNode-style parsing
// can reach, matching the original's fixed eight-entry expression
// stack.
const maxExprDepth = 8

// exprNode is the result of parsing one expression node: a value, and
// optionally the symbol it is relative to (nil for a pure constant).
type exprNode struct {
	Variable *ir.Symbol
	Value    int32
}

func (n exprNode) constant() bool { return n.Variable == nil }

// parseExpressionNode mirrors consumeExpressionNode's grammar exactly,
// including its lack of conventional operator precedence: an infix
// operator recurses into a fresh node for its ENTIRE right-hand side,
// so e.g. "a*b+c" parses as "a*(b+c)", not "(a*b)+c". This is the
// original tool's actual behaviour, not a bug to correct.
func (p *Parser) parseExpressionNode(depth int) (exprNode, error) {
	if depth == maxExprDepth {
		return exprNode{}, p.fatal("expression too complex")
	}

	var n exprNode

	switch p.tok.Kind {
	case tkLess:
		rhs, err := p.constOperand(depth)
		if err != nil {
			return exprNode{}, err
		}
		n.Value = rhs.Value & 0xff

	case tkGreater:
		rhs, err := p.constOperand(depth)
		if err != nil {
			return exprNode{}, err
		}
		n.Value = rhs.Value >> 8

	case tkMinus:
		rhs, err := p.constOperand(depth)
		if err != nil {
			return exprNode{}, err
		}
		n.Value = -rhs.Value

	case tkTilde:
		rhs, err := p.constOperand(depth)
		if err != nil {
			return exprNode{}, err
		}
		n.Value = rhs.Value ^ 0xff

	case tkLParen:
		if err := p.advance(); err != nil {
			return exprNode{}, err
		}
		inner, err := p.parseExpressionNode(depth)
		if err != nil {
			return exprNode{}, err
		}
		if err := p.consume(tkRParen); err != nil {
			return exprNode{}, err
		}
		n = inner

	case tkNumber:
		n.Value = p.tok.Value
		if err := p.advance(); err != nil {
			return exprNode{}, err
		}

	case tkStar, tkIdent:
		var sym *ir.Symbol
		if p.tok.Kind == tkStar {
			sym = p.store.AppendAnonymous()
			if err := p.defineLabel(sym); err != nil {
				return exprNode{}, err
			}
		} else {
			sym = p.store.LookupOrAppend(p.tok.Text)
		}

		if sym.Type == ir.Computed {
			n.Variable = sym.Variable
			n.Value = sym.Bias
		} else {
			n.Variable = sym
			n.Value = 0
		}

		if err := p.advance(); err != nil {
			return exprNode{}, err
		}

	default:
		return exprNode{}, p.syntaxError()
	}

	switch p.tok.Kind {
	case tkRParen, tkSemi, tkComma:
		return n, nil

	case tkPlus:
		rhs, err := p.constOperand(depth)
		if err != nil {
			return exprNode{}, err
		}
		n.Value += rhs.Value
		return n, nil

	case tkMinus:
		rhs, err := p.constOperand(depth)
		if err != nil {
			return exprNode{}, err
		}
		n.Value -= rhs.Value
		return n, nil

	case tkStar:
		if err := p.requireConstant(n); err != nil {
			return exprNode{}, err
		}
		rhs, err := p.constOperand(depth)
		if err != nil {
			return exprNode{}, err
		}
		n.Value *= rhs.Value
		return n, nil

	case tkPipe:
		if err := p.requireConstant(n); err != nil {
			return exprNode{}, err
		}
		rhs, err := p.constOperand(depth)
		if err != nil {
			return exprNode{}, err
		}
		n.Value |= rhs.Value
		return n, nil

	case tkCaret:
		if err := p.requireConstant(n); err != nil {
			return exprNode{}, err
		}
		rhs, err := p.constOperand(depth)
		if err != nil {
			return exprNode{}, err
		}
		n.Value ^= rhs.Value
		return n, nil

	case tkAmp:
		if err := p.requireConstant(n); err != nil {
			return exprNode{}, err
		}
		rhs, err := p.constOperand(depth)
		if err != nil {
			return exprNode{}, err
		}
		n.Value &= rhs.Value
		return n, nil

	case tkSlash:
		if err := p.requireConstant(n); err != nil {
			return exprNode{}, err
		}
		rhs, err := p.constOperand(depth)
		if err != nil {
			return exprNode{}, err
		}
		if rhs.Value == 0 {
			return exprNode{}, p.fatal("division by zero")
		}
		n.Value /= rhs.Value
		return n, nil

	case tkPercent:
		if err := p.requireConstant(n); err != nil {
			return exprNode{}, err
		}
		rhs, err := p.constOperand(depth)
		if err != nil {
			return exprNode{}, err
		}
		if rhs.Value == 0 {
			return exprNode{}, p.fatal("division by zero")
		}
		n.Value %= rhs.Value
		return n, nil

	default:
		return exprNode{}, p.syntaxError()
	}
}

// constOperand consumes the operator token, parses the next node at
// depth+1, and requires it to be a pure constant — the rule every
// prefix operator and every infix operator but +/- enforces on its
// right-hand side.
func (p *Parser) constOperand(depth int) (exprNode, error) {
	if err := p.advance(); err != nil {
		return exprNode{}, err
	}
	rhs, err := p.parseExpressionNode(depth + 1)
	if err != nil {
		return exprNode{}, err
	}
	if err := p.requireConstant(rhs); err != nil {
		return exprNode{}, err
	}
	return rhs, nil
}

func (p *Parser) requireConstant(n exprNode) error {
	if !n.constant() {
		return p.fatal("operation requires non-constant value")
	}
	return nil
}

// parseExpression mirrors consumeExpression: a leading '<' or '>'
// requests low/high-byte post-processing, applied immediately if the
// expression resolves to a pure constant, or carried forward in
// the result's Postprocess field for the caller to stash in an ir.ExprRecord
// otherwise.
type parsedExpr struct {
	exprNode
	Postprocess ir.Postprocess
}

func (p *Parser) parseExpression() (parsedExpr, error) {
	pp := ir.PPNone
	switch p.tok.Kind {
	case tkLess:
		pp = ir.PPLow
		if err := p.advance(); err != nil {
			return parsedExpr{}, err
		}
	case tkGreater:
		pp = ir.PPHigh
		if err := p.advance(); err != nil {
			return parsedExpr{}, err
		}
	}

	n, err := p.parseExpressionNode(0)
	if err != nil {
		return parsedExpr{}, err
	}

	if n.constant() {
		switch pp {
		case ir.PPLow:
			n.Value &= 0xff
		case ir.PPHigh:
			n.Value >>= 8
		}
		pp = ir.PPNone
	}

	return parsedExpr{exprNode: n, Postprocess: pp}, nil
}

func (p *Parser) parseConstExpression() (int32, error) {
	e, err := p.parseExpression()
	if err != nil {
		return 0, err
	}
	if !e.constant() {
		return 0, p.fatal("expression must be constant")
	}
	return e.Value, nil
}
