package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/parse"
	"src.rho.sh/pkg/term"
)

func mustParse(t *testing.T, code string) *parse.Tree {
	t.Helper()
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: code}, parse.Config{})
	if err != nil {
		t.Fatalf("Parse(%q) returns error %v", code, err)
	}
	return tree
}

func v(i int) *term.Var   { return &term.Var{Index: i} }
func c(i int) *term.Const { return &term.Const{Index: i} }

var resolveTests = []struct {
	name         string
	code         string
	wantRoot     term.Term
	wantPatterns []term.Pattern
	wantConsts   []string
}{
	{
		name:       "constants are numbered from 1",
		code:       "|A |B A",
		wantRoot:   &term.Choice{Alts: []term.Term{c(1), &term.Choice{Alts: []term.Term{c(2), c(1)}}}},
		wantConsts: []string{"A", "B"},
	},
	{
		name:         "nearest binder",
		code:         "\\x \\y ``x y x",
		wantRoot:     &term.Abs{Pattern: 0, Arity: 1, Body: &term.Abs{Pattern: 1, Arity: 1, Body: &term.App{Func: v(1), Args: []term.Term{v(1), v(0)}}}},
		wantPatterns: []term.Pattern{term.PVar{}, term.PVar{}},
	},
	{
		name:         "shadowing",
		code:         `\x \x x`,
		wantRoot:     &term.Abs{Pattern: 0, Arity: 1, Body: &term.Abs{Pattern: 1, Arity: 1, Body: v(0)}},
		wantPatterns: []term.Pattern{term.PVar{}, term.PVar{}},
	},
	{
		name: "last capture gets index 0",
		// The pattern lists t before h.
		code: "\\``Cons h t ``P h t",
		wantRoot: &term.Abs{Pattern: 0, Arity: 2, Body: &term.App{
			Func: c(2), Args: []term.Term{v(1), v(0)}}},
		wantPatterns: []term.Pattern{
			&term.PApp{Head: 1, Args: []term.Pattern{term.PVar{}, term.PVar{}}}},
		wantConsts: []string{"Cons", "P"},
	},
	{
		name:         "constant pattern binds nothing",
		code:         `\x \Nil x`,
		wantRoot:     &term.Abs{Pattern: 0, Arity: 1, Body: &term.Abs{Pattern: 1, Arity: 0, Body: v(0)}},
		wantPatterns: []term.Pattern{term.PVar{}, term.PConst{Index: 1}},
		wantConsts:   []string{"Nil"},
	},
	{
		name:         "constants in patterns and bodies share the table",
		code:         "`\\`S n `S `S n Z",
		wantPatterns: []term.Pattern{&term.PApp{Head: 1, Args: []term.Pattern{term.PVar{}}}},
		wantRoot: &term.App{
			Func: &term.Abs{Pattern: 0, Arity: 1, Body: &term.App{Func: c(1), Args: []term.Term{
				&term.App{Func: c(1), Args: []term.Term{v(0)}}}}},
			Args: []term.Term{c(2)}},
		wantConsts: []string{"S", "Z"},
	},
}

func TestResolve(t *testing.T) {
	for _, test := range resolveTests {
		t.Run(test.name, func(t *testing.T) {
			p, err := Resolve(mustParse(t, test.code))
			if err != nil {
				t.Fatalf("Resolve returns error %v", err)
			}
			if diff := cmp.Diff(test.wantRoot, p.Root); diff != "" {
				t.Errorf("root (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantPatterns, p.Patterns, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("patterns (-want +got):\n%s", diff)
			}
			gotConsts := make([]string, p.Constants.Len()-1)
			for i := range gotConsts {
				gotConsts[i] = p.Constants.Name(i + 1)
			}
			if diff := cmp.Diff(test.wantConsts, gotConsts, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("constants (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_InterningIsStable(t *testing.T) {
	p, _, err := ResolveWithBindings(mustParse(t, "``\\B A B A"))
	if err != nil {
		t.Fatal(err)
	}
	a, _ := p.Constants.Lookup("A")
	b, _ := p.Constants.Lookup("B")
	if a == b || a == term.StuckIndex || b == term.StuckIndex {
		t.Fatalf("got indices A=%d B=%d", a, b)
	}
	if got := p.Patterns[0]; got != (term.PConst{Index: b}) {
		t.Errorf("pattern is %#v, want PConst B", got)
	}
	args := p.Root.(*term.App).Args
	if len(args) != 2 || !term.Equal(args[0], c(a)) || !term.Equal(args[1], c(b)) {
		t.Errorf("arguments are %#v, want [A B]", args)
	}
}

func TestResolveWithBindings(t *testing.T) {
	tree := mustParse(t, "`\\`C x x D")
	_, bindings, err := ResolveWithBindings(tree)
	if err != nil {
		t.Fatal(err)
	}
	want := []Binding{
		{diag.Ranging{From: 3, To: 4}, ConstantRef, "C", 1},
		{diag.Ranging{From: 5, To: 6}, PatternVar, "x", 0},
		{diag.Ranging{From: 7, To: 8}, VariableRef, "x", 0},
		{diag.Ranging{From: 9, To: 10}, ConstantRef, "D", 2},
	}
	if diff := cmp.Diff(want, bindings); diff != "" {
		t.Errorf("bindings (-want +got):\n%s", diff)
	}
}

func TestResolve_UnboundVariable(t *testing.T) {
	_, err := Resolve(mustParse(t, "`\\x y A"))
	errs := diag.UnpackErrors(err, ErrorType)
	if len(errs) != 1 {
		t.Fatalf("got error %v, want one resolution error", err)
	}
	if errs[0].Message != "unbound variable y" {
		t.Errorf("got message %q", errs[0].Message)
	}
	if want := (diag.Ranging{From: 4, To: 5}); errs[0].Range() != want {
		t.Errorf("got range %v, want %v", errs[0].Range(), want)
	}
}

func TestResolve_VariableOutOfScope(t *testing.T) {
	// x is only bound in the function, not in the argument.
	_, err := Resolve(mustParse(t, "`\\x x x"))
	if len(diag.UnpackErrors(err, ErrorType)) != 1 {
		t.Errorf("got error %v, want a resolution error", err)
	}
}

func TestBindingKind_String(t *testing.T) {
	for kind, want := range map[BindingKind]string{
		VariableRef: "variable", PatternVar: "pattern variable",
		ConstantRef: "constant", BindingKind(9): "BindingKind(9)",
	} {
		if got := kind.String(); got != want {
			t.Errorf("String() -> %q, want %q", got, want)
		}
	}
}
