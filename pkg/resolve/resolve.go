// Package resolve turns a parsed tree into a term.Program: variable names
// become de Bruijn indices, constant names are interned, and the patterns
// collected by the reader are compiled.
package resolve

import (
	"fmt"

	"github.com/samber/lo"
	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/parse"
	"src.rho.sh/pkg/term"
)

// ErrorType is the Type of all *Error values returned by this package.
const ErrorType = "resolution error"

// Error is a resolution error.
type Error = diag.Error

// BindingKind classifies a Binding.
type BindingKind int

// Possible values of BindingKind.
const (
	// A variable reference in a term.
	VariableRef BindingKind = iota
	// A pattern variable.
	PatternVar
	// A constant, in a term or a pattern.
	ConstantRef
)

func (k BindingKind) String() string {
	switch k {
	case VariableRef:
		return "variable"
	case PatternVar:
		return "pattern variable"
	case ConstantRef:
		return "constant"
	}
	return fmt.Sprintf("BindingKind(%d)", int(k))
}

// Binding records what an identifier in the source was resolved to. For
// VariableRef and PatternVar, Index is the de Bruijn index the name has (in
// the body, for pattern variables); for ConstantRef it is the constant index.
type Binding struct {
	diag.Ranging
	Kind  BindingKind
	Name  string
	Index int
}

// Resolve resolves a parsed tree. The returned error has type *Error if it
// is not nil.
func Resolve(tree *parse.Tree) (*term.Program, error) {
	p, _, err := ResolveWithBindings(tree)
	return p, err
}

// ResolveWithBindings is like Resolve, but also returns the bindings of all
// identifiers in order of appearance.
func ResolveWithBindings(tree *parse.Tree) (*term.Program, []Binding, error) {
	r := &resolver{
		src:      tree.Source,
		pretable: tree.Patterns,
		consts:   term.NewConstants(),
		patterns: make([]term.Pattern, len(tree.Patterns)),
	}
	root, err := r.term(tree.Root)
	if err != nil {
		return nil, r.bindings, err
	}
	return &term.Program{Root: root, Patterns: r.patterns, Constants: r.consts}, r.bindings, nil
}

type resolver struct {
	src parse.Source
	// Names of the bound variables, innermost last.
	scope    []string
	consts   *term.Constants
	patterns []term.Pattern
	bindings []Binding
	// Patterns collected by the reader, indexed like patterns.
	pretable []parse.Pattern
}

func (r *resolver) errorf(rg diag.Ranger, format string, args ...any) error {
	return &Error{
		Type:    ErrorType,
		Message: fmt.Sprintf(format, args...),
		Context: *diag.NewContext(r.src.Name, r.src.Code, rg),
	}
}

func (r *resolver) term(t parse.Term) (term.Term, error) {
	switch t := t.(type) {
	case *parse.Var:
		i := lo.LastIndexOf(r.scope, t.Name)
		if i == -1 {
			return nil, r.errorf(t, "unbound variable %s", t.Name)
		}
		index := len(r.scope) - 1 - i
		r.bind(t, VariableRef, t.Name, index)
		return &term.Var{Index: index}, nil
	case *parse.Const:
		index, err := r.intern(t, t.Name)
		if err != nil {
			return nil, err
		}
		return &term.Const{Index: index}, nil
	case *parse.Abs:
		return r.abs(t)
	case *parse.App:
		f, err := r.term(t.Func)
		if err != nil {
			return nil, err
		}
		args, err := r.terms(t.Args)
		if err != nil {
			return nil, err
		}
		return &term.App{Func: f, Args: args}, nil
	case *parse.Choice:
		alts, err := r.terms(t.Alts)
		if err != nil {
			return nil, err
		}
		return &term.Choice{Alts: alts}, nil
	}
	return nil, r.errorf(t, "unknown node %T", t)
}

func (r *resolver) terms(ts []parse.Term) ([]term.Term, error) {
	result := make([]term.Term, len(ts))
	for i, t := range ts {
		var err error
		result[i], err = r.term(t)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *resolver) abs(t *parse.Abs) (term.Term, error) {
	if t.Pattern < 0 || t.Pattern >= len(r.pretable) {
		return nil, r.errorf(t, "no pattern in slot %d", t.Pattern)
	}
	var vars []*parse.PVar
	p, err := r.pattern(r.pretable[t.Pattern], &vars)
	if err != nil {
		return nil, err
	}
	r.patterns[t.Pattern] = p

	// Pattern variables are pushed in capture order, so the last capture
	// gets index 0.
	for i, v := range vars {
		r.bind(v, PatternVar, v.Name, len(vars)-1-i)
		r.scope = append(r.scope, v.Name)
	}
	body, err := r.term(t.Body)
	r.scope = r.scope[:len(r.scope)-len(vars)]
	if err != nil {
		return nil, err
	}
	return &term.Abs{Pattern: t.Pattern, Arity: len(vars), Body: body}, nil
}

// Compiles a pattern, collecting its variables in capture order.
func (r *resolver) pattern(p parse.Pattern, vars *[]*parse.PVar) (term.Pattern, error) {
	switch p := p.(type) {
	case *parse.PVar:
		*vars = append(*vars, p)
		return term.PVar{}, nil
	case *parse.PConst:
		index, err := r.intern(p, p.Name)
		if err != nil {
			return nil, err
		}
		return term.PConst{Index: index}, nil
	case *parse.PApp:
		head, err := r.intern(p.Head, p.Head.Name)
		if err != nil {
			return nil, err
		}
		args := make([]term.Pattern, len(p.Args))
		for i, arg := range p.Args {
			args[i], err = r.pattern(arg, vars)
			if err != nil {
				return nil, err
			}
		}
		return &term.PApp{Head: head, Args: args}, nil
	}
	return nil, r.errorf(p, "unknown pattern node %T", p)
}

func (r *resolver) intern(rg diag.Ranger, name string) (int, error) {
	index, err := r.consts.Intern(name)
	if err != nil {
		return 0, r.errorf(rg, "%v", err)
	}
	r.bind(rg, ConstantRef, name, index)
	return index, nil
}

func (r *resolver) bind(rg diag.Ranger, kind BindingKind, name string, index int) {
	r.bindings = append(r.bindings, Binding{rg.Range(), kind, name, index})
}
