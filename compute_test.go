package smartcalc_test

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/zephyrtronium/smartcalc"
)

func TestCompute(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"full", "8 * 3 + 12 * (4 - 2)", "48"},
		{"left-to-right", "2 - 2 + 3", "3"},
		{"unclosed", "4 * (2 + 3", "Invalid expression"},
		{"literal", "-10", "-10"},
		{"literal-plus", "+10", "10"},
		{"literal-signs", "--10", "10"},
		{"signs", "1 +++ 2 * 3 -- 4", "11"},
		{"triple-star", "3 *** 5", "Invalid expression"},
		{"double-slash", "6 // 2", "Invalid expression"},
		{"pow", "2^2", "4"},
		{"pow-binds-tighter", "2*2^3", "16"},
		{"pow-right", "2^3^2", "512"},
		{"unknown", "e", "Unknown variable"},
		{"unknown-in-expr", "e + 1", "Unknown variable"},
		{"big", "112234567890 + 112234567890 * (10000000999 - 999)", "1122345679012234567890"},
		{"div-trunc", "7 / 2", "3"},
		{"div-trunc-neg", "-7 / 2", "-3"},
		{"div-zero", "1 / 0", "Invalid expression"},
		{"neg-pow", "-2^2", "4"},
		{"neg-group", "-(2 + 3) * 2", "-10"},
		{"unary-after-op", "3 * -2", "-6"},
		{"pow-neg-exp", "2^-1", "0"},
		{"pow-neg-exp-one", "1^-5", "1"},
		{"pow-neg-exp-minus-one", "-1^-3", "-1"},
		{"pow-zero-neg-exp", "0^-1", "Invalid expression"},
		{"pow-neg-exp-large", "10^-1000", "0"},
		{"pow-neg-exp-huge", "2^-100000", "0"},
		{"pow-neg-exp-odd-neg-base", "(-3)^-1001", "0"},
		{"pow-neg-exp-big-base", "123456789012345678901234567890^-4194304", "0"},
		{"pow-neg-exp-neg-base", "-2^-1", "0"},
		{"pow-neg-exp-minus-one-even", "-1^-4", "1"},
		{"zero-pow-zero", "0^0", "1"},
		{"close-first", ") 1 + 2 (", "Invalid expression"},
		{"empty-brackets", "()", "Invalid expression"},
		{"trailing-op", "1 +", "Invalid expression"},
		{"leading-op", "* 1", "Invalid expression"},
		{"adjacent-terms", "(1)(2)", "Invalid expression"},
		{"mixed-run", "a2a", "Invalid expression"},
		{"bad-char", "1 % 2", "Invalid expression"},
		{"float", "1.5 + 1", "Invalid expression"},
		{"empty", "", "Invalid expression"},
		{"multi-statement", "1; 2", "Invalid expression"},
		{"spaces-in-number", "1 2 + 3", "15"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := smartcalc.New()
			r := e.Compute(c.src)
			if got := r.String(); got != c.want {
				t.Errorf("%q: want %q, got %q (err %v)", c.src, c.want, got, r.Err)
			}
			if e.Env().Len() != 0 {
				t.Errorf("%q defined variables %q", c.src, e.Env().Names())
			}
		})
	}
}

func TestComputeAssign(t *testing.T) {
	type step struct {
		src  string
		want string
		kind smartcalc.Kind
	}
	cases := []struct {
		name  string
		steps []step
	}{
		{"bad-name", []step{
			{"a1 = 8", "Invalid identifier", smartcalc.InvalidIdentifier},
			{"a1", "Invalid expression", smartcalc.InvalidExpression},
		}},
		{"empty-name", []step{
			{"= 8", "Invalid identifier", smartcalc.InvalidIdentifier},
		}},
		{"bad-rhs", []step{
			{"n = a2a", "Invalid assignment", smartcalc.InvalidAssignment},
			{"n", "Unknown variable", smartcalc.UnknownVariable},
		}},
		{"double-assign", []step{
			{"a = 7 = 8", "Invalid assignment", smartcalc.InvalidAssignment},
			{"a", "Unknown variable", smartcalc.UnknownVariable},
		}},
		{"empty-rhs", []step{
			{"a =", "Invalid assignment", smartcalc.InvalidAssignment},
		}},
		{"unknown-rhs", []step{
			{"a = b", "Unknown variable", smartcalc.UnknownVariable},
			{"a", "Unknown variable", smartcalc.UnknownVariable},
		}},
		{"expr", []step{
			{"c = 10 + 5", "", smartcalc.Silent},
			{"c", "15", smartcalc.Number},
		}},
		{"literal", []step{
			{"a = -7", "", smartcalc.Silent},
			{"a", "-7", smartcalc.Number},
			{"-a", "7", smartcalc.Number},
		}},
		{"copy", []step{
			{"a = 4", "", smartcalc.Silent},
			{"b = a", "", smartcalc.Silent},
			{"a = 5", "", smartcalc.Silent},
			{"b", "4", smartcalc.Number},
		}},
		{"reassign", []step{
			{"x = 1", "", smartcalc.Silent},
			{"x = x + 1", "", smartcalc.Silent},
			{"x = x * 10", "", smartcalc.Silent},
			{"x", "20", smartcalc.Number},
		}},
		{"rhs-reads-variables", []step{
			{"a = 5", "", smartcalc.Silent},
			{"b = a + 1", "", smartcalc.Silent},
			{"b", "6", smartcalc.Number},
			{"a", "5", smartcalc.Number},
			{"c = a + d", "Invalid assignment", smartcalc.InvalidAssignment},
		}},
		{"case-sensitive", []step{
			{"a = 1", "", smartcalc.Silent},
			{"A", "Unknown variable", smartcalc.UnknownVariable},
		}},
		{"failed-keeps-old", []step{
			{"a = 1", "", smartcalc.Silent},
			{"a = 1 / 0", "Invalid assignment", smartcalc.InvalidAssignment},
			{"a = 2 ** 3", "Invalid assignment", smartcalc.InvalidAssignment},
			{"a", "1", smartcalc.Number},
		}},
		{"program", []step{
			{"a = 4", "", smartcalc.Silent},
			{"b = 5", "", smartcalc.Silent},
			{"c = 6", "", smartcalc.Silent},
			{"a*2+b*3+c*(2+3)", "53", smartcalc.Number},
			{"a^b - -c", "1030", smartcalc.Number},
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := smartcalc.New()
			for _, s := range c.steps {
				r := e.Compute(s.src)
				if r.Kind != s.kind {
					t.Errorf("%q: want kind %v, got %v (err %v)", s.src, s.kind, r.Kind, r.Err)
				}
				if got := r.String(); got != s.want {
					t.Errorf("%q: want %q, got %q", s.src, s.want, got)
				}
			}
		})
	}
}

func TestComputeRoundTrip(t *testing.T) {
	exprs := []string{
		"1",
		"-1",
		"8 * 3 + 12 * (4 - 2)",
		"2^100 - 1",
		"-(3 - 10) / 2",
		"k * k + 1",
	}
	for _, src := range exprs {
		e := smartcalc.New(smartcalc.SetVar("k", big.NewInt(12)))
		direct := e.Compute(src)
		if direct.Kind != smartcalc.Number {
			t.Fatalf("%q: %v (%v)", src, direct, direct.Err)
		}
		if r := e.Compute("x = " + src); r.Kind != smartcalc.Silent {
			t.Fatalf("x = %q: %v (%v)", src, r, r.Err)
		}
		if r := e.Compute("x"); r.String() != direct.String() {
			t.Errorf("x = %q gave %v, but direct evaluation gave %v", src, r, direct)
		}
	}
}

func TestComputeBrackets(t *testing.T) {
	cases := []string{
		"(",
		")",
		"(1 + 2",
		"1 + 2)",
		")(",
		"(1))(2",
		"((1) + 2",
		"x = (1",
	}
	for _, src := range cases {
		r := smartcalc.New().Compute(src)
		want := smartcalc.InvalidExpression
		if strings.Contains(src, "=") {
			want = smartcalc.InvalidAssignment
		}
		if r.Kind != want {
			t.Errorf("%q: want %v, got %v", src, want, r.Kind)
		}
	}
}

func TestComputeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want any
	}{
		{"div-zero", "5 / (2 - 2)", new(*smartcalc.ArithmeticError)},
		{"pow-zero-neg", "0 ^ -2", new(*smartcalc.ArithmeticError)},
		{"pow-huge", "2 ^ 100000000000", new(*smartcalc.ArithmeticError)},
		{"unknown", "1 + y", new(*smartcalc.NameError)},
		{"lex", "1 + 2a", new(*smartcalc.LexError)},
		{"run", "1 ** 2", new(*smartcalc.RunError)},
		{"bracket", "(1 + 2", new(*smartcalc.BracketError)},
		{"operand", "1 + * 2", new(*smartcalc.OperandError)},
		{"empty", "()", new(*smartcalc.EmptyExpressionError)},
		{"bad-name", "1a = 2", new(*smartcalc.IdentifierError)},
		{"bad-rhs", "a = 1 / 0", new(*smartcalc.AssignError)},
		{"bad-rhs-cause", "a = 1 / 0", new(*smartcalc.ArithmeticError)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := smartcalc.New().Compute(c.src)
			if r.Ok() {
				t.Fatalf("%q succeeded with %v", c.src, r)
			}
			if r.Value != nil {
				t.Errorf("%q has value %v with diagnostic %v", c.src, r.Value, r)
			}
			if !errors.As(r.Err, c.want) {
				t.Errorf("%q: wrong error %#v", c.src, r.Err)
			}
		})
	}
}

func TestComputeMaxBits(t *testing.T) {
	e := smartcalc.New(smartcalc.MaxBits(64))
	if r := e.Compute("2^30"); r.String() != "1073741824" {
		t.Errorf("2^30: got %v (%v)", r, r.Err)
	}
	if r := e.Compute("3^64"); r.Kind != smartcalc.InvalidExpression {
		t.Errorf("3^64 under 64-bit limit: got %v", r)
	}
	// Exponents near the limit are decided by the logarithm of the base.
	limits := []struct {
		src  string
		want string
	}{
		{"2^63", "9223372036854775808"},
		{"2^64", "Invalid expression"},
		{"-2^63", "-9223372036854775808"},
		{"3^40", "12157665459056928801"},
		{"3^41", "Invalid expression"},
		{"4^31", "4611686018427387904"},
		{"4^32", "Invalid expression"},
		{"10^19", "10000000000000000000"},
		{"10^20", "Invalid expression"},
	}
	for _, c := range limits {
		if r := e.Compute(c.src); r.String() != c.want {
			t.Errorf("%s under 64-bit limit: want %s, got %v (%v)", c.src, c.want, r, r.Err)
		}
	}
	if r := e.Compute("1^100000000000000000000"); r.String() != "1" {
		t.Errorf("1^huge: got %v (%v)", r, r.Err)
	}
	if r := e.Compute("-1^100000000000000000001"); r.String() != "-1" {
		t.Errorf("-1^huge: got %v (%v)", r, r.Err)
	}
	if r := e.Compute("2^-100000000000000000000"); r.String() != "0" {
		t.Errorf("2^-huge: got %v (%v)", r, r.Err)
	}
}

func TestEnv(t *testing.T) {
	one := big.NewInt(1)
	e := smartcalc.New(smartcalc.SetVars(map[string]*big.Int{"x": one, "y": big.NewInt(2)}))
	env := e.Env()
	if x, ok := env.Lookup("x"); !ok || x.Cmp(one) != 0 {
		t.Errorf("x should be 1 but is %v, %t", x, ok)
	}
	// Lookup returns a copy.
	x, _ := env.Lookup("x")
	x.SetInt64(100)
	if r := e.Compute("x"); r.String() != "1" {
		t.Errorf("modifying lookup result changed x to %v", r)
	}
	// So does Set.
	v := big.NewInt(7)
	env.Set("z", v)
	v.SetInt64(8)
	if r := e.Compute("z"); r.String() != "7" {
		t.Errorf("modifying set value changed z to %v", r)
	}
	if got := strings.Join(env.Names(), ","); got != "x,y,z" {
		t.Errorf("wrong names %q", got)
	}
	c := env.Clone()
	c.Set("w", one)
	if _, ok := env.Lookup("w"); ok {
		t.Error("setting clone changed original")
	}
	if !env.Delete("x") {
		t.Error("x was not deleted")
	}
	if env.Delete("x") {
		t.Error("x deleted twice")
	}
	if _, ok := c.Lookup("x"); !ok {
		t.Error("deleting from original changed clone")
	}
	if env.Len() != 2 || c.Len() != 4 {
		t.Errorf("wrong lengths %d and %d", env.Len(), c.Len())
	}
}

func TestEnvSetInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic setting invalid name")
		}
	}()
	smartcalc.NewEnv().Set("a1", big.NewInt(1))
}

func TestResultString(t *testing.T) {
	cases := []struct {
		r    smartcalc.Result
		want string
	}{
		{smartcalc.Result{Kind: smartcalc.Number, Value: big.NewInt(-5)}, "-5"},
		{smartcalc.Result{Kind: smartcalc.Number, Value: new(big.Int)}, "0"},
		{smartcalc.Result{Kind: smartcalc.Silent}, ""},
		{smartcalc.Result{Kind: smartcalc.InvalidIdentifier}, "Invalid identifier"},
		{smartcalc.Result{Kind: smartcalc.InvalidAssignment}, "Invalid assignment"},
		{smartcalc.Result{Kind: smartcalc.UnknownVariable}, "Unknown variable"},
		{smartcalc.Result{Kind: smartcalc.InvalidExpression}, "Invalid expression"},
	}
	for _, c := range cases {
		if got := c.r.String(); got != c.want {
			t.Errorf("%v: want %q, got %q", c.r.Kind, c.want, got)
		}
	}
}
