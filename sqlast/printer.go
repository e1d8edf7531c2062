package sqlast

import (
	"fmt"
	"strconv"
	"strings"
)

const defaultIndent = 2

// Print renders e at the given target line width W, producing a single-line rendering
// when it fits and a canonical multi-line layout otherwise, per spec.md §4.B.
func Print(e Expr, width int) string {
	p := &printer{width: width}
	return p.render(e, 0)
}

// String renders e at an effectively unbounded width, i.e. always single-line when
// possible; this matches the "Display" use case where callers want a short repr.
func (e Expr) String() string {
	return Print(e, 1<<30)
}

type printer struct {
	width int
}

// render produces the text for e, choosing a single-line form if it fits within p.width
// once indent columns of left margin are accounted for, and a multi-line canonical form
// otherwise.
func (p *printer) render(e Expr, indent int) string {
	oneLine := p.renderFlat(e)
	if !strings.Contains(oneLine, "\n") && indent+len(oneLine) <= p.width {
		return oneLine
	}
	return p.renderWide(e, indent)
}

// renderFlat renders e ignoring width, used both as the "does it fit" probe and as the
// actual output when it does fit.
func (p *printer) renderFlat(e Expr) string {
	switch e.Kind {
	case KindLit:
		return renderLit(e)
	case KindVar:
		return e.Name
	case KindBinOp:
		return fmt.Sprintf("%s %s %s", p.renderFlat(*e.Left), e.Op, p.renderFlat(*e.Right))
	case KindFunc:
		return fmt.Sprintf("%s(%s)", e.FuncName, p.renderFlatArgs(e.Args))
	case KindCast:
		return fmt.Sprintf("CAST(%s AS %s)", p.renderFlat(*e.CastExpr), e.CastType)
	case KindCaseMatch:
		var b strings.Builder
		fmt.Fprintf(&b, "CASE %s", p.renderFlat(*e.Subject))
		for _, arm := range e.Arms {
			fmt.Fprintf(&b, " WHEN %s THEN %s", p.renderFlat(arm.When), p.renderFlat(arm.Then))
		}
		fmt.Fprintf(&b, " ELSE %s END", p.renderFlat(*e.Else))
		return b.String()
	case KindLambda:
		return fmt.Sprintf("%s -> %s", *e.Param, p.renderFlat(*e.Body))
	case KindArray:
		return fmt.Sprintf("ARRAY[%s]", p.renderFlatArgs(e.Elements))
	case KindIndex:
		return fmt.Sprintf("%s[%s]", p.renderFlat(*e.Base), p.renderFlat(*e.Index))
	case KindField:
		return fmt.Sprintf("%s.%s", p.renderFlat(*e.Row), e.Name)
	case KindAtTimeZone:
		return fmt.Sprintf("(%s AT TIME ZONE %s)", p.renderFlat(*e.TzExpr), quoteString(e.Tz))
	case KindRawSql:
		return e.Name
	case KindBindVar:
		return fmt.Sprintf("TRANSFORM(ARRAY[%s], %s -> %s)[1]", p.renderFlat(*e.BoundExpr), e.VarName, p.renderFlat(*e.VarBody))
	case KindBindVarWithReturnType:
		return fmt.Sprintf("CAST(%s AS %s)", p.renderFlat(*e.CastExpr), e.CastType)
	default:
		return fmt.Sprintf("<unknown expr kind %d>", e.Kind)
	}
}

func (p *printer) renderFlatArgs(args []Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = p.renderFlat(a)
	}
	return strings.Join(parts, ", ")
}

// renderWide is only reached once renderFlat's result has been judged too wide (or already
// multi-line); it lays e out one clause per line with nested indentation, per spec.md
// §4.B's canonical-multi-line contract for binops, func calls, CAST and CASE.
func (p *printer) renderWide(e Expr, indent int) string {
	pad := strings.Repeat(" ", indent)
	childPad := strings.Repeat(" ", indent+defaultIndent)
	switch e.Kind {
	case KindBinOp:
		return fmt.Sprintf("%s\n%s%s %s", p.render(*e.Left, indent), childPad, e.Op, p.render(*e.Right, indent+defaultIndent))
	case KindFunc:
		if len(e.Args) == 0 {
			return fmt.Sprintf("%s()", e.FuncName)
		}
		argLines := make([]string, len(e.Args))
		for i, a := range e.Args {
			argLines[i] = childPad + p.render(a, indent+defaultIndent)
		}
		return fmt.Sprintf("%s(\n%s\n%s)", e.FuncName, strings.Join(argLines, ",\n"), pad)
	case KindCast:
		return fmt.Sprintf("CAST(\n%s%s\n%sAS %s\n%s)", childPad, p.render(*e.CastExpr, indent+defaultIndent), childPad, e.CastType, pad)
	case KindCaseMatch:
		var b strings.Builder
		fmt.Fprintf(&b, "CASE %s\n", p.renderFlat(*e.Subject))
		for _, arm := range e.Arms {
			fmt.Fprintf(&b, "%sWHEN %s THEN %s\n", childPad, p.render(arm.When, indent+defaultIndent), p.render(arm.Then, indent+defaultIndent))
		}
		fmt.Fprintf(&b, "%sELSE %s\n%sEND", childPad, p.render(*e.Else, indent+defaultIndent), pad)
		return b.String()
	case KindLambda:
		return fmt.Sprintf("%s ->\n%s%s", *e.Param, childPad, p.render(*e.Body, indent+defaultIndent))
	case KindArray:
		if len(e.Elements) == 0 {
			return "ARRAY[]"
		}
		elemLines := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			elemLines[i] = childPad + p.render(el, indent+defaultIndent)
		}
		return fmt.Sprintf("ARRAY[\n%s\n%s]", strings.Join(elemLines, ",\n"), pad)
	case KindBindVar:
		return fmt.Sprintf(
			"TRANSFORM(\n%sARRAY[%s],\n%s%s -> %s\n%s)[1]",
			childPad, p.render(*e.BoundExpr, indent+defaultIndent),
			childPad, e.VarName, p.render(*e.VarBody, indent+defaultIndent),
			pad,
		)
	case KindBindVarWithReturnType:
		return p.renderWide(Expr{Kind: KindCast, CastExpr: e.CastExpr, CastType: e.CastType}, indent)
	default:
		// Lit, Var, Index, Field, AtTimeZone, RawSql never benefit from a multi-line
		// form; if they didn't fit flat there is nothing further to break.
		return p.renderFlat(e)
	}
}

func renderLit(e Expr) string {
	switch e.LitKind {
	case LitString:
		return quoteString(e.Str)
	case LitInt:
		return strconv.FormatInt(e.Int, 10)
	case LitBool:
		if e.Bool {
			return "TRUE"
		}
		return "FALSE"
	case LitNull:
		return "NULL"
	default:
		return "NULL"
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
