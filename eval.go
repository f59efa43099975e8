package smartcalc

import (
	"log/slog"
	"math/big"
	"strconv"

	"github.com/edwingeng/deque"
	"github.com/zephyrtronium/bigfloat"
)

// DefaultMaxBits is the default limit on the size of the result of an
// exponentiation.
const DefaultMaxBits = 1 << 22

// Engine computes lines of input using its own set of variables. It is not
// safe to use an Engine concurrently.
type Engine struct {
	env     *Env
	stack   []*big.Int
	maxBits uint
	log     *slog.Logger
}

// Option is an option used when creating an engine.
type Option interface {
	engineOption()
}

type (
	varopt struct {
		name string
		val  *big.Int
	}
	varsopt    map[string]*big.Int
	maxbitsopt uint
	logopt     struct {
		l *slog.Logger
	}
)

func (varopt) engineOption()     {}
func (varsopt) engineOption()    {}
func (maxbitsopt) engineOption() {}
func (logopt) engineOption()     {}

// SetVar defines a variable in the new engine. Panics at New if name is not
// made up only of ASCII letters.
func SetVar(name string, val *big.Int) Option {
	return varopt{name, val}
}

// SetVars defines any number of variables in the new engine.
func SetVars(vars map[string]*big.Int) Option {
	return varsopt(vars)
}

// MaxBits limits the size in bits of the result of an exponentiation. An
// exponentiation that would exceed the limit is an invalid expression. Zero
// means DefaultMaxBits.
func MaxBits(bits uint) Option {
	return maxbitsopt(bits)
}

// Logger sets a logger to receive debug information about computations.
func Logger(l *slog.Logger) Option {
	return logopt{l}
}

// New creates a new engine with no variables other than those given in opts.
func New(opts ...Option) *Engine {
	e := Engine{env: NewEnv(), maxBits: DefaultMaxBits}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			e.env.Set(opt.name, opt.val)
		case varsopt:
			for k, v := range opt {
				e.env.Set(k, v)
			}
		case maxbitsopt:
			if opt != 0 {
				e.maxBits = uint(opt)
			}
		case logopt:
			e.log = opt.l
		default:
			panic("smartcalc: unknown option type")
		}
	}
	return &e
}

// Env returns the engine's variables. Changes to the returned environment are
// visible to the engine.
func (e *Engine) Env() *Env {
	return e.env
}

// fork creates an engine with the same settings and a copy of e's variables.
func (e *Engine) fork() *Engine {
	return &Engine{
		env:     e.env.Clone(),
		maxBits: e.maxBits,
		log:     e.log,
	}
}

// push ensures a settable value on the stack.
func (e *Engine) push() *big.Int {
	if len(e.stack) < cap(e.stack) {
		e.stack = e.stack[:len(e.stack)+1]
		if e.stack[len(e.stack)-1] == nil {
			e.stack[len(e.stack)-1] = new(big.Int)
		}
	} else {
		e.stack = append(e.stack, new(big.Int))
	}
	return e.stack[len(e.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future pushes.
func (e *Engine) pop() *big.Int {
	r := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (e *Engine) top() *big.Int {
	return e.stack[len(e.stack)-1]
}

// eval consumes a postfix queue and returns its value.
func (e *Engine) eval(q deque.Deque) (*big.Int, error) {
	e.stack = e.stack[:0]
	for q.Len() > 0 {
		tok := q.PopFront().(lexToken)
		switch tok.kind {
		case tokenNum:
			if _, ok := e.push().SetString(tok.text, 10); !ok {
				panic("smartcalc: invalid number: " + tok.text)
			}
		case tokenIdent:
			v := e.env.vars[tok.text]
			if v == nil {
				return nil, &NameError{Name: tok.text}
			}
			r := e.push().Set(v)
			if tok.neg {
				r.Neg(r)
			}
		case tokenNeg:
			if len(e.stack) < 1 {
				return nil, &OperandError{Op: "-", Have: len(e.stack)}
			}
			r := e.top()
			r.Neg(r)
		case tokenOp:
			if len(e.stack) < 2 {
				return nil, &OperandError{Op: tok.text, Have: len(e.stack)}
			}
			r := e.pop()
			l := e.top()
			if err := e.apply(tok.text, l, r); err != nil {
				return nil, err
			}
		default:
			panic("smartcalc: invalid postfix token " + tok.String())
		}
	}
	switch len(e.stack) {
	case 0:
		return nil, &EmptyExpressionError{}
	case 1:
		return new(big.Int).Set(e.stack[0]), nil
	default:
		return nil, &OperandError{Have: len(e.stack)}
	}
}

// apply sets l to l op r.
func (e *Engine) apply(op string, l, r *big.Int) error {
	switch op {
	case "+":
		l.Add(l, r)
	case "-":
		l.Sub(l, r)
	case "*":
		l.Mul(l, r)
	case "/":
		if r.Sign() == 0 {
			return arithErr("/", l, r, "division by zero")
		}
		// Quo truncates toward zero.
		l.Quo(l, r)
	case "^":
		return e.pow(l, r)
	default:
		panic("smartcalc: invalid operator " + strconv.Quote(op))
	}
	return nil
}

// pow sets x to x^y, truncated toward zero.
func (e *Engine) pow(x, y *big.Int) error {
	if y.Sign() < 0 {
		return negpow(x, y)
	}
	if x.CmpAbs(one) > 0 && !e.fits(x, y) {
		return arithErr("^", x, y, "result too large")
	}
	x.Exp(x, y, nil)
	return nil
}

// fits reports whether x^y has at most maxBits bits, for |x| >= 2. The bit
// length of x^y is floor(y*log2|x|)+1, and log2|x| lies in
// [bitlen(x)-1, bitlen(x)), so only exponents between those two bounds need
// the logarithm.
func (e *Engine) fits(x, y *big.Int) bool {
	if !y.IsUint64() {
		return false
	}
	n := y.Uint64()
	b := uint64(x.BitLen())
	limit := uint64(e.maxBits)
	switch {
	case n <= limit/b:
		return true
	case n > (limit-1)/(b-1):
		return false
	}
	var l, ln2 big.Float
	l.SetPrec(64).SetInt(x)
	l.Abs(&l)
	bigfloat.Log(&l, &l)
	ln2.SetPrec(64).SetInt64(2)
	bigfloat.Log(&ln2, &ln2)
	l.Quo(&l, &ln2)
	l.Mul(&l, new(big.Float).SetUint64(n))
	return l.Cmp(new(big.Float).SetUint64(limit)) < 0
}

// negpow sets x to x^y for negative y, truncated toward zero.
func negpow(x, y *big.Int) error {
	switch {
	case x.Sign() == 0:
		return arithErr("^", x, y, "division by zero")
	case x.CmpAbs(one) == 0:
		// ±1 to any integer power is ±1.
		if y.Bit(0) == 0 {
			x.SetInt64(1)
		}
	default:
		// |x^y| < 1 whenever |x| >= 2.
		x.SetInt64(0)
	}
	return nil
}

var one = big.NewInt(1)

func arithErr(op string, x, y *big.Int, reason string) error {
	return &ArithmeticError{
		Op:     op,
		X:      new(big.Int).Set(x),
		Y:      new(big.Int).Set(y),
		Reason: reason,
	}
}

// NameError is an error from a lookup for a variable that is not defined.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}
