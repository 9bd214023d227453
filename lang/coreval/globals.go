package coreval

import (
	"fmt"

	"github.com/thistle-lang/expander/lang/syntax"
)

// globals returns the named runtime procedures every reference evaluator
// exposes to macro bodies: the handful of list primitives a transformer
// needs to rewrite syntax (cons, car, cdr, list, eq?) plus the one
// blocking primitive, await-signal.
func globals() map[string]*Primitive {
	return map[string]*Primitive{
		"cons":         {Name: "cons", Fn: primCons},
		"car":          {Name: "car", Fn: primCar},
		"cdr":          {Name: "cdr", Fn: primCdr},
		"list":         {Name: "list", Fn: primList},
		"eq?":          {Name: "eq?", Fn: primEq},
		"await-signal": {Name: "await-signal", Fn: primAwaitSignal},
	}
}

// primCons implements (cons v lst): lst must be a syntax list; v is
// converted to syntax and prepended, keeping lst's scope set and location
// so hygiene tracking survives the round trip through runtime values.
func primCons(args []Value, _ *evalCtx) (Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("coreval: cons expects 2 arguments, got %d", len(args))
	}
	head, err := valueToSyntax(args[0])
	if err != nil {
		return nil, err
	}
	tail, ok := args[1].(SyntaxVal)
	if !ok || tail.Stx.Kind != syntax.List {
		return nil, fmt.Errorf("coreval: cons expects a list as its second argument, got %s", args[1].Type())
	}
	children := append([]*syntax.Syntax{head}, tail.Stx.Children...)
	return NewSyntaxVal(&syntax.Syntax{Kind: syntax.List, Children: children, Scopes: tail.Stx.Scopes, Loc: tail.Stx.Loc}), nil
}

// primCar implements (car lst): lst must be a non-empty syntax list.
func primCar(args []Value, _ *evalCtx) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("coreval: car expects 1 argument, got %d", len(args))
	}
	lst, ok := args[0].(SyntaxVal)
	if !ok || lst.Stx.Kind != syntax.List || len(lst.Stx.Children) == 0 {
		return nil, fmt.Errorf("coreval: car expects a non-empty list")
	}
	return NewSyntaxVal(lst.Stx.Children[0]), nil
}

// primCdr implements (cdr lst): lst must be a non-empty syntax list; the
// result keeps lst's own scope set and location.
func primCdr(args []Value, _ *evalCtx) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("coreval: cdr expects 1 argument, got %d", len(args))
	}
	lst, ok := args[0].(SyntaxVal)
	if !ok || lst.Stx.Kind != syntax.List || len(lst.Stx.Children) == 0 {
		return nil, fmt.Errorf("coreval: cdr expects a non-empty list")
	}
	return NewSyntaxVal(&syntax.Syntax{Kind: syntax.List, Children: lst.Stx.Children[1:], Scopes: lst.Stx.Scopes, Loc: lst.Stx.Loc}), nil
}

// primList implements (list v...): builds a fresh syntax list out of each
// argument, converted to syntax, with an empty scope set.
func primList(args []Value, _ *evalCtx) (Value, error) {
	children := make([]*syntax.Syntax, len(args))
	for i, a := range args {
		stx, err := valueToSyntax(a)
		if err != nil {
			return nil, err
		}
		children[i] = stx
	}
	return NewSyntaxVal(syntax.NewList(children, syntax.SrcLoc{})), nil
}

// primEq implements (eq? a b): numbers, booleans and strings compare by
// value; syntax objects compare structurally (ignoring source location,
// per syntax.Equal), since this evaluator has no notion of object
// identity distinct from value equality.
func primEq(args []Value, _ *evalCtx) (Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("coreval: eq? expects 2 arguments, got %d", len(args))
	}
	a, b := args[0], args[1]
	switch av := a.(type) {
	case Int:
		bv, ok := b.(Int)
		return Bool(ok && av == bv), nil
	case Bool:
		bv, ok := b.(Bool)
		return Bool(ok && av == bv), nil
	case Str:
		bv, ok := b.(Str)
		return Bool(ok && av == bv), nil
	case SyntaxVal:
		bv, ok := b.(SyntaxVal)
		return Bool(ok && syntax.Equal(av.Stx, bv.Stx)), nil
	default:
		return Bool(false), nil
	}
}

// primAwaitSignal implements (await-signal n): suspends the calling
// goroutine until the engine delivers signal n, then returns it.
func primAwaitSignal(args []Value, ctx *evalCtx) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("coreval: await-signal expects 1 argument, got %d", len(args))
	}
	n, ok := args[0].(Int)
	if !ok {
		return nil, fmt.Errorf("coreval: await-signal expects an int argument, got %s", args[0].Type())
	}
	if ctx == nil || ctx.awaitSignal == nil {
		return nil, fmt.Errorf("coreval: await-signal cannot suspend in this evaluation context")
	}
	return Int(ctx.awaitSignal(uint64(n))), nil
}

// valueToSyntax converts a runtime value back to syntax, as required when
// handing a macro's result back to the engine. A SyntaxVal is unwrapped
// directly; a scalar value is re-quoted as a fresh literal with no scopes.
// A closure or primitive has no syntax representation.
func valueToSyntax(v Value) (*syntax.Syntax, error) {
	switch val := v.(type) {
	case SyntaxVal:
		return val.Stx, nil
	case Int:
		return syntax.NewSignal(uint64(val), syntax.SrcLoc{}), nil
	case Bool:
		return syntax.NewBool(bool(val), syntax.SrcLoc{}), nil
	case Str:
		return syntax.NewStr(string(val), syntax.SrcLoc{}), nil
	default:
		return nil, fmt.Errorf("coreval: value of type %s has no syntax representation", v.Type())
	}
}
