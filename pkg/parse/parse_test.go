package parse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"src.rho.sh/pkg/diag"
)

var ignoreRanging = cmpopts.IgnoreTypes(diag.Ranging{})

func v(name string) *Var     { return &Var{Name: name} }
func c(name string) *Const   { return &Const{Name: name} }
func pv(name string) *PVar   { return &PVar{Name: name} }
func pc(name string) *PConst { return &PConst{Name: name} }

var parseTests = []struct {
	name         string
	code         string
	wantRoot     Term
	wantPatterns []Pattern
}{
	{
		name:     "constant",
		code:     "A",
		wantRoot: c("A"),
	},
	{
		name:     "variable with digits",
		code:     "x12",
		wantRoot: v("x12"),
	},
	{
		name:     "application",
		code:     "`f a",
		wantRoot: &App{Func: v("f"), Args: []Term{v("a")}},
	},
	{
		name:     "later arguments are prepended",
		code:     "```f a b c",
		wantRoot: &App{Func: v("f"), Args: []Term{v("c"), v("b"), v("a")}},
	},
	{
		name:     "applied argument is not merged",
		code:     "`f `g a",
		wantRoot: &App{Func: v("f"), Args: []Term{&App{Func: v("g"), Args: []Term{v("a")}}}},
	},
	{
		name:     "choice",
		code:     "||A B C",
		wantRoot: &Choice{Alts: []Term{c("A"), c("B"), c("C")}},
	},
	{
		name:         "abstraction",
		code:         `\x x`,
		wantRoot:     &Abs{Pattern: 0, Arity: 1, Body: v("x")},
		wantPatterns: []Pattern{pv("x")},
	},
	{
		name:         "constant pattern",
		code:         `\Nil A`,
		wantRoot:     &Abs{Pattern: 0, Arity: 0, Body: c("A")},
		wantPatterns: []Pattern{pc("Nil")},
	},
	{
		name:     "application pattern",
		code:     "\\``Cons h t t",
		wantRoot: &Abs{Pattern: 0, Arity: 2, Body: v("t")},
		wantPatterns: []Pattern{
			&PApp{Head: pc("Cons"), Args: []Pattern{pv("t"), pv("h")}},
		},
	},
	{
		name:     "nested application pattern",
		code:     "\\``Pair `Some x Nil x",
		wantRoot: &Abs{Pattern: 0, Arity: 1, Body: v("x")},
		wantPatterns: []Pattern{
			&PApp{Head: pc("Pair"), Args: []Pattern{
				pc("Nil"),
				&PApp{Head: pc("Some"), Args: []Pattern{pv("x")}},
			}},
		},
	},
	{
		name: "patterns are numbered in order of appearance",
		code: `\x \y \z x`,
		wantRoot: &Abs{Pattern: 0, Arity: 1, Body: &Abs{Pattern: 1, Arity: 1,
			Body: &Abs{Pattern: 2, Arity: 1, Body: v("x")}}},
		wantPatterns: []Pattern{pv("x"), pv("y"), pv("z")},
	},
	{
		name: "outer pattern slot is taken before inner ones",
		code: "`\\x x \\y y",
		wantRoot: &App{
			Func: &Abs{Pattern: 0, Arity: 1, Body: v("x")},
			Args: []Term{&Abs{Pattern: 1, Arity: 1, Body: v("y")}}},
		wantPatterns: []Pattern{pv("x"), pv("y")},
	},
	{
		name:     "bytes that cannot start a term are skipped",
		code:     " ( 1`f\n\t[a] ) ",
		wantRoot: &App{Func: v("f"), Args: []Term{v("a")}},
	},
	{
		name:         "term productions are skipped in patterns",
		code:         `\|\x x`,
		wantRoot:     &Abs{Pattern: 0, Arity: 1, Body: v("x")},
		wantPatterns: []Pattern{pv("x")},
	},
	{
		name:     "identifiers end at non-alphanumeric bytes",
		code:     "`Foo-bar",
		wantRoot: &App{Func: c("Foo"), Args: []Term{v("bar")}},
	},
}

func TestParse(t *testing.T) {
	for _, test := range parseTests {
		t.Run(test.name, func(t *testing.T) {
			tree, err := Parse(Source{Name: "[test]", Code: test.code}, Config{})
			if err != nil {
				t.Fatalf("Parse(%q) returns error %v", test.code, err)
			}
			if diff := cmp.Diff(test.wantRoot, tree.Root, ignoreRanging); diff != "" {
				t.Errorf("root (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantPatterns, tree.Patterns, ignoreRanging, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("patterns (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Ranges(t *testing.T) {
	tree, err := Parse(Source{Code: "`\\Ab f x"}, Config{})
	if err != nil {
		t.Fatal(err)
	}
	app := tree.Root.(*App)
	if want := (diag.Ranging{From: 0, To: 8}); app.Range() != want {
		t.Errorf("application range %v, want %v", app.Range(), want)
	}
	abs := app.Func.(*Abs)
	if want := (diag.Ranging{From: 1, To: 6}); abs.Range() != want {
		t.Errorf("abstraction range %v, want %v", abs.Range(), want)
	}
	if want := (diag.Ranging{From: 2, To: 4}); tree.Patterns[0].Range() != want {
		t.Errorf("pattern range %v, want %v", tree.Patterns[0].Range(), want)
	}
}

var parseErrorTests = []struct {
	name        string
	code        string
	wantMessage string
	wantRange   diag.Ranging
}{
	{"empty source", "", "unexpected end of input", diag.Ranging{From: 0, To: 0}},
	{"only skipped bytes", "  (1) ", "unexpected end of input", diag.Ranging{From: 6, To: 6}},
	{"missing argument", "`A ", "unexpected end of input", diag.Ranging{From: 3, To: 3}},
	{"missing body", `\x`, "unexpected end of input", diag.Ranging{From: 2, To: 2}},
	{"variable head in pattern", "\\`x y z", "patterns only support applications to constants",
		diag.Ranging{From: 2, To: 3}},
	{"variable head in nested pattern", "\\`C ``y a b z", "patterns only support applications to constants",
		diag.Ranging{From: 6, To: 7}},
}

func TestParse_Errors(t *testing.T) {
	for _, test := range parseErrorTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(Source{Name: "[test]", Code: test.code}, Config{})
			errs := UnpackErrors(err)
			if len(errs) != 1 {
				t.Fatalf("got error %v, want one parse error", err)
			}
			if errs[0].Message != test.wantMessage {
				t.Errorf("got message %q, want %q", errs[0].Message, test.wantMessage)
			}
			if errs[0].Range() != test.wantRange {
				t.Errorf("got range %v, want %v", errs[0].Range(), test.wantRange)
			}
		})
	}
}

func TestParse_Warning(t *testing.T) {
	var sb strings.Builder
	_, err := Parse(Source{Name: "[test]", Code: "A\n  `B C"}, Config{WarningWriter: &sb})
	if err != nil {
		t.Fatal(err)
	}
	want := "warning: [test]:2:3: input after the first term is ignored\n"
	if sb.String() != want {
		t.Errorf("got warning %q, want %q", sb.String(), want)
	}

	sb.Reset()
	Parse(Source{Name: "[test]", Code: "A ) 12\n"}, Config{WarningWriter: &sb})
	if sb.String() != "" {
		t.Errorf("got warning %q for trailing bytes that start nothing", sb.String())
	}
}
