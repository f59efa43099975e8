package smartcalc

import (
	"errors"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
)

// Compute computes one line of input. Lines containing "=" are assignments;
// all others are evaluated. Compute never modifies the engine's variables
// unless the line is an assignment that succeeds.
func (e *Engine) Compute(line string) Result {
	s := Normalize(line)
	var r Result
	if strings.IndexByte(s, '=') >= 0 {
		r = e.assign(s)
	} else {
		r = e.expr(s)
	}
	if e.log != nil {
		attrs := []any{slog.String("input", s), slog.String("kind", r.Kind.String())}
		if r.Err != nil {
			attrs = append(attrs, slog.String("error", r.Err.Error()))
		}
		e.log.Debug("computed line", attrs...)
	}
	return r
}

// expr evaluates a normalized expression.
func (e *Engine) expr(s string) Result {
	if v, ok := e.value(s); ok {
		return Result{Kind: Number, Value: v}
	}
	if isIdent(s) {
		return Result{Kind: UnknownVariable, Err: &NameError{Name: s}}
	}
	if err := Validate(s); err != nil {
		return invalid(err)
	}
	q, err := toPostfix(s)
	if err != nil {
		return invalid(err)
	}
	if e.log != nil {
		e.log.Debug("converted to postfix", slog.String("postfix", postfixString(q)))
	}
	v, err := e.eval(q)
	if err != nil {
		var ne *NameError
		if errors.As(err, &ne) {
			return Result{Kind: UnknownVariable, Err: err}
		}
		return invalid(err)
	}
	return Result{Kind: Number, Value: v}
}

// value returns the value of s if it is a defined variable or an integer
// literal with an optional sign.
func (e *Engine) value(s string) (*big.Int, bool) {
	if v, ok := e.env.Lookup(s); ok {
		return v, true
	}
	return parseInt(s)
}

func parseInt(s string) (*big.Int, bool) {
	return new(big.Int).SetString(s, 10)
}

// assign computes a normalized assignment. The left side is everything before
// the first "=", and the right side is everything after it.
func (e *Engine) assign(s string) Result {
	k := strings.IndexByte(s, '=')
	name, rhs := s[:k], s[k+1:]
	if !isIdent(name) {
		return Result{Kind: InvalidIdentifier, Err: &IdentifierError{Name: name}}
	}
	var v *big.Int
	if isIdent(rhs) {
		x, ok := e.env.Lookup(rhs)
		if !ok {
			return Result{Kind: UnknownVariable, Err: &NameError{Name: rhs}}
		}
		v = x
	} else if x, ok := parseInt(rhs); ok {
		v = x
	} else {
		// Compute the right side on its own, with a copy of the variables so
		// that nothing it does can reach ours.
		r := e.fork().Compute(rhs)
		if r.Kind != Number {
			return Result{Kind: InvalidAssignment, Err: &AssignError{Name: name, Result: r}}
		}
		v = r.Value
	}
	e.env.Set(name, v)
	return Result{Kind: Silent}
}

// IdentifierError is an error indicating an assignment to something that is
// not a valid variable name.
type IdentifierError struct {
	// Name is the left side of the assignment.
	Name string
}

func (err *IdentifierError) Error() string {
	return "invalid variable name " + strconv.Quote(err.Name)
}

// AssignError is an error indicating an assignment whose right side did not
// compute to a number.
type AssignError struct {
	// Name is the variable that was being assigned.
	Name string
	// Result is the result of computing the right side.
	Result Result
}

func (err *AssignError) Error() string {
	msg := "assigning to " + strconv.Quote(err.Name) + ": " + err.Result.Kind.String()
	if err.Result.Err != nil {
		msg += ": " + err.Result.Err.Error()
	}
	return msg
}

// Unwrap returns the cause of the right side's failure, if there is one.
func (err *AssignError) Unwrap() error {
	return err.Result.Err
}
