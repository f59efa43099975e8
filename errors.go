package smartcalc

import (
	"math/big"
	"strconv"
)

// RunError is an error indicating a doubled multiplication or division
// operator in the input. It implements InputError.
type RunError struct {
	// Col is the byte position of the start of the run.
	Col int
	// Run is the offending operator pair.
	Run string
}

func (err *RunError) Error() string {
	return errpos(err.Col, "repeated operator "+strconv.Quote(err.Run))
}

func (err *RunError) Pos() int {
	return err.Col
}

// BracketError is an error indicating unbalanced or misordered brackets in
// the input. It implements InputError.
type BracketError struct {
	// Col is the position of the bracket.
	Col int
	// Left is the opening bracket that was never closed, if any.
	Left string
	// Right is the closing bracket with no opening bracket, if any.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an input, or a bracketed
// group within it, that contains no terms.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the empty expression, or 0
	// if the whole input was empty.
	Col int
}

func (err *EmptyExpressionError) Error() string {
	if err.Col <= 0 {
		return "no expression"
	}
	return errpos(err.Col, "empty brackets")
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// OperandError is an error indicating a malformed sequence of terms, found
// when the postfix form of the expression does not reduce to one value.
type OperandError struct {
	// Op is the operator that was missing operands, or the empty string if
	// the expression left extra values.
	Op string
	// Have is the number of values available when the error occurred.
	Have int
}

func (err *OperandError) Error() string {
	if err.Op == "" {
		return "expression leaves " + strconv.Itoa(err.Have) + " values"
	}
	return "operator " + strconv.Quote(err.Op) + " is missing an operand"
}

// ArithmeticError is an error indicating an operation that has no integer
// result, such as division by zero, or whose result would be too large to
// compute.
type ArithmeticError struct {
	// Op is the operator that failed.
	Op string
	// X and Y are the operands.
	X, Y *big.Int
	// Reason describes the failure.
	Reason string
}

func (err *ArithmeticError) Error() string {
	return err.X.String() + " " + err.Op + " " + err.Y.String() + ": " + err.Reason
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// malformed input text implements InputError.
type InputError interface {
	error
	// Pos returns the byte position in the normalized input of the start of
	// the text that caused the error.
	Pos() int
}

var (
	_ InputError = (*RunError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
)
