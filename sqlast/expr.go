// Package sqlast models the fragment of SQL the storage-transform planner emits: literals,
// variables, binary equality, function calls, casts, two-armed CASE matching, lambdas,
// array constructors, subscripting, field access, AT TIME ZONE, and an opaque raw-SQL
// escape hatch. It also implements the pretty-printer that turns an Expr tree into
// width-aware text.
//
// The AST and its builder methods are grounded on the original dbcrossbar_trino pretty/ast
// Expr type; the printer is a from-scratch recursive renderer rather than a port of that
// file's Wadler-style RcDoc combinator tree, since no comparable pretty-printing library
// turned up anywhere in the retrieved example pack (see DESIGN.md).
package sqlast

import (
	"fmt"
	"strings"
)

// Kind discriminates the Expr variant.
type Kind int

const (
	KindLit Kind = iota
	KindVar
	KindBinOp
	KindFunc
	KindCast
	KindCaseMatch
	KindLambda
	KindArray
	KindIndex
	KindField
	KindAtTimeZone
	KindRawSql
	KindBindVar
	KindBindVarWithReturnType
)

// LitKind discriminates the literal payload carried by a KindLit Expr.
type LitKind int

const (
	LitString LitKind = iota
	LitInt
	LitBool
	LitNull
)

// CaseArm is one WHEN/THEN pair of a two-armed CASE match.
type CaseArm struct {
	When Expr
	Then Expr
}

// Expr is a single node of the SQL fragment AST. Only the fields relevant to Kind are
// populated; this mirrors portable.PortableType's single-discriminant-plus-payload-fields
// shape rather than an interface hierarchy, since there is no per-kind behavior beyond
// pretty-printing.
type Expr struct {
	Kind Kind

	// KindLit
	LitKind LitKind
	Str     string
	Int     int64
	Bool    bool

	// KindVar, KindField (field name), KindRawSql (verbatim text)
	Name string

	// KindBinOp
	Op          string
	Left, Right *Expr

	// KindFunc
	FuncName string
	Args     []Expr

	// KindCast, KindBindVarWithReturnType
	CastExpr *Expr
	CastType string

	// KindCaseMatch
	Subject *Expr
	Arms    []CaseArm
	Else    *Expr

	// KindLambda
	Param *string
	Body  *Expr

	// KindArray
	Elements []Expr

	// KindIndex
	Base  *Expr
	Index *Expr

	// KindField
	Row *Expr

	// KindAtTimeZone
	TzExpr *Expr
	Tz     string

	// KindBindVar, KindBindVarWithReturnType
	BoundExpr *Expr
	VarName   string
	VarBody   *Expr
}

// Str builds a string literal.
func Str(s string) Expr { return Expr{Kind: KindLit, LitKind: LitString, Str: s} }

// Int builds an integer literal.
func Int(i int64) Expr { return Expr{Kind: KindLit, LitKind: LitInt, Int: i} }

// Bool builds a boolean literal.
func Bool(b bool) Expr { return Expr{Kind: KindLit, LitKind: LitBool, Bool: b} }

// Null builds the NULL literal.
func Null() Expr { return Expr{Kind: KindLit, LitKind: LitNull} }

// Var builds a bare variable reference, e.g. the x in a store-expression template.
func Var(name string) Expr { return Expr{Kind: KindVar, Name: name} }

// BinOp builds a binary operator expression, e.g. Eq(a, b) for "a = b".
func BinOp(op string, left, right Expr) Expr {
	return Expr{Kind: KindBinOp, Op: op, Left: &left, Right: &right}
}

// Eq is shorthand for BinOp("=", ...), the only binary operator with its own helper here.
// The transform planner does not emit binary operators.
func Eq(left, right Expr) Expr { return BinOp("=", left, right) }

// Func builds a function call expression.
func Func(name string, args ...Expr) Expr {
	return Expr{Kind: KindFunc, FuncName: name, Args: args}
}

// Cast builds CAST(expr AS ty).
func Cast(expr Expr, ty string) Expr {
	return Expr{Kind: KindCast, CastExpr: &expr, CastType: ty}
}

// CaseMatch builds a two-armed CASE subject WHEN ... THEN ... ELSE ... END.
func CaseMatch(subject Expr, arms []CaseArm, elseExpr Expr) Expr {
	return Expr{Kind: KindCaseMatch, Subject: &subject, Arms: arms, Else: &elseExpr}
}

// Lambda builds a Trino-style single-argument lambda "param -> body".
func Lambda(param string, body Expr) Expr {
	return Expr{Kind: KindLambda, Param: &param, Body: &body}
}

// Array builds an ARRAY[...] constructor.
func Array(elements ...Expr) Expr {
	return Expr{Kind: KindArray, Elements: elements}
}

// Index builds a 1-based subscript expression base[index].
func Index(base Expr, index Expr) Expr {
	return Expr{Kind: KindIndex, Base: &base, Index: &index}
}

// Field builds a field-access expression row.name.
func Field(row Expr, name string) Expr {
	return Expr{Kind: KindField, Row: &row, Name: name}
}

// AtTimeZone builds (expr AT TIME ZONE 'tz').
func AtTimeZone(expr Expr, tz string) Expr {
	return Expr{Kind: KindAtTimeZone, TzExpr: &expr, Tz: tz}
}

// RawSql builds an escape-hatch node emitted verbatim. It is only ever used for whole
// values whose literal form is already known, never for arbitrary user input.
func RawSql(s string) Expr { return Expr{Kind: KindRawSql, Name: s} }

// BindVar implements the ROW-via-TRANSFORM local-binding idiom SQL otherwise lacks:
// "TRANSFORM(ARRAY[bound], varName -> body)[1]". It evaluates bound exactly once and makes
// it available to body as varName, which is what the Row storage transform needs to avoid
// re-evaluating a (possibly expensive or side-effecting) source expression once per field.
func BindVar(bound Expr, varName string, body Expr) Expr {
	return Expr{Kind: KindBindVar, BoundExpr: &bound, VarName: varName, VarBody: &body}
}

// BindVarWithReturnType is BindVar plus an explicit outer CAST to returnType. Trino
// versions 445 through 460 could not infer the result type of a TRANSFORM(ARRAY[x], z ->
// ROW(...))[1] expression on their own and silently mis-typed the ROW; wrapping the whole
// bind_var expression in a CAST to the known return type works around it. This is kept as
// a named variant rather than folded into BindVar so that the workaround is visible and
// removable if a future Trino version fixes the inference.
func BindVarWithReturnType(bound Expr, varName string, body Expr, returnType string) Expr {
	inner := BindVar(bound, varName, body)
	return Expr{Kind: KindBindVarWithReturnType, CastExpr: &inner, CastType: returnType}
}

// ValidateIdent rejects identifiers containing the backend's quote character, per spec.md
// §4.B's edge-case contract ("identifiers containing a backtick ... are rejected at
// construction").
func ValidateIdent(name, quoteChar string) error {
	if strings.Contains(name, quoteChar) {
		return fmt.Errorf("identifier %q contains reserved quote character %q", name, quoteChar)
	}
	return nil
}
