package tt

import (
	"fmt"
	"strings"
	"testing"
)

// testT implements the T interface and is used to verify the Test function's
// interaction with T.
type testT []string

func (t *testT) Helper() {}

func (t *testT) Errorf(format string, args ...any) {
	*t = append(*t, fmt.Sprintf(format, args...))
}

// Simple functions to test.

// Returns the number of leading backticks of an application, which is its
// number of arguments.
func arity(code string) int {
	return len(code) - len(strings.TrimLeft(code, "`"))
}

// Splits an application into its number of arguments and the rest.
func splitApp(code string) (int, string) {
	n := arity(code)
	return n, code[n:]
}

func joinNames(names []string) string {
	return strings.Join(names, " ")
}

func TestTTPass(t *testing.T) {
	var testT testT
	Test(&testT, Fn("splitApp", splitApp), Table{
		Args("``f x y").Rets(2, "f x y"),
		Args("``f x y").Rets(Any, "f x y"),
		Args("A").Rets(0, "A"),
	})
	if len(testT) > 0 {
		t.Errorf("Test errors when test should pass")
	}
}

func TestTTNilArgument(t *testing.T) {
	var testT testT
	Test(&testT, Fn("joinNames", joinNames), Table{
		Args(nil).Rets(""),
		Args([]string{"Cons", "x0"}).Rets("Cons x0"),
	})
	if len(testT) > 0 {
		t.Errorf("Test errors when test should pass: %v", testT)
	}
}

type prefixMatcher string

func (m prefixMatcher) Match(a RetValue) bool {
	s, ok := a.(string)
	return ok && strings.HasPrefix(s, string(m))
}

func TestTTCustomMatcher(t *testing.T) {
	var testT testT
	Test(&testT, Fn("splitApp", splitApp), Table{
		Args("`\\x x A").Rets(1, prefixMatcher("\\x")),
		Args("`\\x x A").Rets(1, prefixMatcher("A")),
	})
	assertOneError(t, testT, "splitApp(\"`\\\\x x A\") returns (-Wanted +Actual):\n")
}

func TestTTFailDefaultFmtOneReturn(t *testing.T) {
	var testT testT
	Test(&testT,
		Fn("arity", arity),
		Table{Args("``f x y").Rets(3)},
	)
	assertOneError(t, testT, "arity(\"``f x y\") returns (-Wanted +Actual):\n")
}

func TestTTFailDefaultFmtMultiReturn(t *testing.T) {
	var testT testT
	Test(&testT,
		Fn("splitApp", splitApp),
		Table{Args("`f x").Rets(1, "x")},
	)
	assertOneError(t, testT, "splitApp(\"`f x\") returns (-Wanted +Actual):\n")
}

func TestTTFailCustomFmt(t *testing.T) {
	var testT testT
	Test(&testT,
		Fn("splitApp", splitApp).ArgsFmt("code = %s").RetsFmt("(n = %d, rest = %s)"),
		Table{Args("`f x").Rets(2, "f x")},
	)
	assertOneError(t, testT,
		"splitApp(code = `f x) returns (-Wanted +Actual):\n")
}

func assertOneError(t *testing.T, testT testT, wantPrefix string) {
	t.Helper()
	switch len(testT) {
	case 0:
		t.Errorf("Test didn't error when it should have done so")
	case 1:
		if !strings.HasPrefix(testT[0], wantPrefix) {
			t.Errorf("Test wrote message:\nWanted: %q...\nActual: %q", wantPrefix, testT[0])
		}
	default:
		t.Errorf("Test wrote too many error messages")
	}
}
