// Package filter parses AIP-160 filter expressions and evaluates them against
// in-memory records.
package filter

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Kind describes a filterable field type.
type Kind int

const (
	KindString Kind = iota + 1
	KindInt
	KindBool
)

// Fields declares the filterable fields and their kinds.
type Fields map[string]Kind

// Resolver returns the value of a field for the record being matched.
// Strings resolve to string, ints to int64 or uint64, bools to bool.
type Resolver func(name string) (any, bool)

// Filter is a parsed expression. The nil Filter matches everything.
type Filter struct {
	expr *expr.Expr
}

// Parse parses raw against fields. An empty expression yields a nil Filter.
func Parse(raw string, fields Fields) (*Filter, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	decls, err := declarations(fields)
	if err != nil {
		return nil, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(raw, decls)
	if err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	return &Filter{expr: parsed.CheckedExpr.GetExpr()}, nil
}

// Match evaluates the filter for one record.
func (f *Filter) Match(resolve Resolver) (bool, error) {
	if f == nil || f.expr == nil {
		return true, nil
	}
	return evaluate(f.expr, resolve)
}

func declarations(fields Fields) (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{
		filtering.DeclareStandardFunctions(),
		// Bool literals are declared so they check as bool whether the
		// parser yields identifiers or constants for them.
		filtering.DeclareIdent("true", filtering.TypeBool),
		filtering.DeclareIdent("false", filtering.TypeBool),
	}
	for name, kind := range fields {
		switch kind {
		case KindString:
			opts = append(opts, filtering.DeclareIdent(name, filtering.TypeString))
		case KindInt:
			opts = append(opts, filtering.DeclareIdent(name, filtering.TypeInt))
		case KindBool:
			opts = append(opts, filtering.DeclareIdent(name, filtering.TypeBool))
		default:
			return nil, fmt.Errorf("unsupported field type for %s", name)
		}
	}
	return filtering.NewDeclarations(opts...)
}

func evaluate(e *expr.Expr, resolve Resolver) (bool, error) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_CallExpr:
		return evalCall(kind.CallExpr, resolve)
	default:
		return false, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func evalCall(call *expr.Expr_Call, resolve Resolver) (bool, error) {
	switch call.GetFunction() {
	case "_&&_", "AND":
		return evalAnd(call.GetArgs(), resolve)
	case "_||_", "OR":
		return evalOr(call.GetArgs(), resolve)
	case "!_", "NOT":
		return evalNot(call.GetArgs(), resolve)
	case "_==_", "=":
		return evalCompare(call.GetArgs(), resolve, func(c int) bool { return c == 0 })
	case "_!=_", "!=":
		return evalCompare(call.GetArgs(), resolve, func(c int) bool { return c != 0 })
	case "_<_", "<":
		return evalCompare(call.GetArgs(), resolve, func(c int) bool { return c < 0 })
	case "_<=_", "<=":
		return evalCompare(call.GetArgs(), resolve, func(c int) bool { return c <= 0 })
	case "_>_", ">":
		return evalCompare(call.GetArgs(), resolve, func(c int) bool { return c > 0 })
	case "_>=_", ">=":
		return evalCompare(call.GetArgs(), resolve, func(c int) bool { return c >= 0 })
	default:
		return false, fmt.Errorf("unsupported function: %s", call.GetFunction())
	}
}

func evalAnd(args []*expr.Expr, resolve Resolver) (bool, error) {
	if len(args) != 2 {
		return false, fmt.Errorf("AND requires 2 arguments")
	}
	left, err := evaluate(args[0], resolve)
	if err != nil || !left {
		return false, err
	}
	return evaluate(args[1], resolve)
}

func evalOr(args []*expr.Expr, resolve Resolver) (bool, error) {
	if len(args) != 2 {
		return false, fmt.Errorf("OR requires 2 arguments")
	}
	left, err := evaluate(args[0], resolve)
	if err != nil {
		return false, err
	}
	if left {
		return true, nil
	}
	return evaluate(args[1], resolve)
}

func evalNot(args []*expr.Expr, resolve Resolver) (bool, error) {
	if len(args) != 1 {
		return false, fmt.Errorf("NOT requires 1 argument")
	}
	inner, err := evaluate(args[0], resolve)
	return !inner, err
}

func evalCompare(args []*expr.Expr, resolve Resolver, accept func(int) bool) (bool, error) {
	if len(args) != 2 {
		return false, fmt.Errorf("comparison requires 2 arguments")
	}
	field, err := identName(args[0])
	if err != nil {
		return false, err
	}
	left, ok := resolve(field)
	if !ok {
		return false, fmt.Errorf("unknown field: %s", field)
	}
	right, err := literal(args[1])
	if err != nil {
		return false, err
	}
	cmp, err := compare(left, right)
	if err != nil {
		return false, fmt.Errorf("%s: %w", field, err)
	}
	return accept(cmp), nil
}

func identName(e *expr.Expr) (string, error) {
	ident, ok := e.GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return "", fmt.Errorf("expected identifier, got %T", e.GetExprKind())
	}
	return ident.IdentExpr.GetName(), nil
}

func literal(e *expr.Expr) (any, error) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_ConstExpr:
		return constValue(kind.ConstExpr)
	case *expr.Expr_IdentExpr:
		switch kind.IdentExpr.GetName() {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("expected literal, got identifier %s", kind.IdentExpr.GetName())
	default:
		return nil, fmt.Errorf("expected literal, got %T", kind)
	}
}

func constValue(c *expr.Constant) (any, error) {
	switch kind := c.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

func compare(left, right any) (int, error) {
	switch l := left.(type) {
	case string:
		r, ok := right.(string)
		if !ok {
			return 0, fmt.Errorf("type mismatch: string vs %T", right)
		}
		return strings.Compare(l, r), nil
	case bool:
		r, ok := right.(bool)
		if !ok {
			return 0, fmt.Errorf("type mismatch: bool vs %T", right)
		}
		return compareBools(l, r), nil
	case uint64:
		return compareUnsigned(l, right)
	case int64:
		if l < 0 {
			if r, ok := right.(int64); ok {
				return compareOrdered(l, r), nil
			}
			return -1, nil
		}
		return compareUnsigned(uint64(l), right)
	default:
		return 0, fmt.Errorf("unsupported value type: %T", left)
	}
}

// compareUnsigned compares without converting through float64, so large
// prices stay exact.
func compareUnsigned(left uint64, right any) (int, error) {
	switch r := right.(type) {
	case uint64:
		return compareOrdered(left, r), nil
	case int64:
		if r < 0 {
			return 1, nil
		}
		return compareOrdered(left, uint64(r)), nil
	default:
		return 0, fmt.Errorf("type mismatch: number vs %T", right)
	}
}

func compareOrdered[T int64 | uint64](left, right T) int {
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}

func compareBools(left, right bool) int {
	switch {
	case left == right:
		return 0
	case !left:
		return -1
	default:
		return 1
	}
}
