// Package smartcalc implements an arbitrary-precision integer calculator with
// variables.
//
// The syntax is the one you'd type into a desk calculator: "8 * 3 + 12 *
// (4 - 2)" is 48, and "2 * 2^3" is 16, where "a^b" is exponentiation and
// groups right to left. Runs of signs cancel the way they do on paper, so
// "1 +++ 2 -- 4" is the same as "1 + 2 + 4". Doubled "*" or "/" are errors.
//
// An Engine holds a set of variables. "name = expr" assigns to a variable and
// produces no output; the name must consist only of ASCII letters. Every
// other line is evaluated and produces either a number or one of four fixed
// diagnostics: "Invalid identifier", "Invalid assignment", "Unknown
// variable", or "Invalid expression".
//
// Division truncates toward zero. Dividing by zero is an invalid expression
// whose Result carries an *ArithmeticError. A negative exponent truncates the
// real power toward zero, so it gives 0 for any base but 1 and -1, and 0 to a
// negative power is an error. An exponentiation whose result would need more
// than MaxBits bits is an invalid expression.
package smartcalc
