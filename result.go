package smartcalc

import (
	"math/big"
	"strconv"
)

// Kind is the kind of outcome of computing a line.
type Kind int8

const (
	kindNone Kind = iota
	// Number is a successful evaluation with a value.
	Number
	// Silent is a successful assignment, which has no output.
	Silent
	// InvalidIdentifier is an assignment to a name that is not made up only
	// of letters.
	InvalidIdentifier
	// InvalidAssignment is an assignment whose right side is not a number.
	InvalidAssignment
	// UnknownVariable is a reference to a variable that is not defined.
	UnknownVariable
	// InvalidExpression is any other malformed or uncomputable input.
	InvalidExpression
)

// String returns the diagnostic message for the kind, or the kind name for
// successful kinds.
func (k Kind) String() string {
	switch k {
	case Number:
		return "Number"
	case Silent:
		return "Silent"
	case InvalidIdentifier:
		return "Invalid identifier"
	case InvalidAssignment:
		return "Invalid assignment"
	case UnknownVariable:
		return "Unknown variable"
	case InvalidExpression:
		return "Invalid expression"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Result is the outcome of computing a line.
type Result struct {
	// Kind is the kind of outcome.
	Kind Kind
	// Value is the result of an evaluation. It is non-nil exactly when Kind
	// is Number.
	Value *big.Int
	// Err is the cause of a diagnostic, when there is one more specific than
	// the diagnostic itself. E.g., division by zero is an InvalidExpression
	// with an *ArithmeticError. Err is always nil for Number and Silent.
	Err error
}

// Ok returns whether the line was computed successfully.
func (r Result) Ok() bool {
	return r.Kind == Number || r.Kind == Silent
}

// String returns the text to print for the result: the decimal value for
// Number, the empty string for Silent, and otherwise the diagnostic message.
func (r Result) String() string {
	switch r.Kind {
	case Number:
		return r.Value.String()
	case Silent:
		return ""
	default:
		return r.Kind.String()
	}
}

func invalid(err error) Result {
	return Result{Kind: InvalidExpression, Err: err}
}
