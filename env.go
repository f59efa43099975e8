package smartcalc

import (
	"math/big"
	"slices"
	"strconv"
)

// Env is a set of variable definitions. An Env belongs to one Engine and is
// not safe for concurrent use.
type Env struct {
	vars map[string]*big.Int
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{vars: make(map[string]*big.Int)}
}

// Lookup returns a copy of the value of a variable. The second result is
// false if the variable is not defined.
func (v *Env) Lookup(name string) (*big.Int, bool) {
	x, ok := v.vars[name]
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(x), true
}

// Set defines a variable, replacing any previous definition. Panics if name
// is not made up only of ASCII letters.
func (v *Env) Set(name string, x *big.Int) {
	if !isIdent(name) {
		panic("smartcalc: invalid variable name " + strconv.Quote(name))
	}
	v.vars[name] = new(big.Int).Set(x)
}

// Delete removes a variable and reports whether it was defined.
func (v *Env) Delete(name string) bool {
	_, ok := v.vars[name]
	delete(v.vars, name)
	return ok
}

// Names returns the names of all defined variables in sorted order.
func (v *Env) Names() []string {
	names := make([]string, 0, len(v.vars))
	for k := range v.vars {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of defined variables.
func (v *Env) Len() int {
	return len(v.vars)
}

// Clone creates an independent copy of the environment.
func (v *Env) Clone() *Env {
	n := &Env{vars: make(map[string]*big.Int, len(v.vars))}
	// Stored values are never modified in place, so they can be shared.
	for k, x := range v.vars {
		n.vars[k] = x
	}
	return n
}
