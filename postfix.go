package smartcalc

import (
	"strings"

	"github.com/edwingeng/deque"
)

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity. Right-associative operators go
	// onto the operator stack without popping anything.
	right bool
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets the operator for a token string. Anything that is not a binary
// operator, notably an open bracket on the operator stack, has precedence 0.
func binop(text string) operator {
	switch text {
	case "+", "-":
		return operator{1, false}
	case "*", "/":
		return operator{2, false}
	case "^":
		return operator{3, true}
	default:
		return operator{}
	}
}

// toPostfix converts a normalized expression with balanced brackets to
// postfix order. The result is a queue of tokens containing no brackets.
func toPostfix(src string) (deque.Deque, error) {
	scan := lex(strings.NewReader(src))
	out := deque.NewDeque()
	ops := deque.NewDeque()
	// n counts tokens, including signs, to reject inputs that have no
	// operator at all.
	n := 0
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenEOF {
			break
		}
		n++
		if tok.neg {
			n++
		}
		switch tok.kind {
		case tokenNum, tokenIdent:
			out.PushBack(tok)
		case tokenOpen:
			ops.PushBack(tok)
		case tokenClose:
			if err := closeGroup(out, ops, tok); err != nil {
				return nil, err
			}
		case tokenOp:
			in := binop(tok.text)
			for ops.Len() > 0 {
				top := ops.Back().(lexToken)
				if in.moreBinding(binop(top.text)) {
					break
				}
				out.PushBack(ops.PopBack())
			}
			ops.PushBack(tok)
		default:
			panic("smartcalc: unexpected token from lexer: " + tok.String())
		}
	}
	if n == 1 {
		// A lone term that was neither a number nor a variable.
		return nil, &OperandError{Have: n}
	}
	for ops.Len() > 0 {
		tok := ops.PopBack().(lexToken)
		if tok.kind == tokenOpen {
			// Validate rejects unclosed brackets before we get here.
			continue
		}
		out.PushBack(tok)
	}
	return out, nil
}

// closeGroup moves operators from ops to out up to the nearest open bracket,
// which is discarded. If the group was negated, a negation follows it.
func closeGroup(out, ops deque.Deque, tok lexToken) error {
	for ops.Len() > 0 {
		top := ops.PopBack().(lexToken)
		if top.kind != tokenOpen {
			out.PushBack(top)
			continue
		}
		if top.neg {
			out.PushBack(lexToken{text: "-", kind: tokenNeg, pos: top.pos})
		}
		return nil
	}
	return &BracketError{Col: tok.pos, Right: tok.text}
}

// postfixString formats a postfix queue for logging.
func postfixString(q deque.Deque) string {
	var b strings.Builder
	// Rotate through the queue so that it ends in its original order.
	for i, n := 0, q.Len(); i < n; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		tok := q.PopFront().(lexToken)
		q.PushBack(tok)
		switch {
		case tok.kind == tokenNeg:
			b.WriteString("neg")
		case tok.neg:
			b.WriteByte('-')
			b.WriteString(tok.text)
		default:
			b.WriteString(tok.text)
		}
	}
	return b.String()
}
