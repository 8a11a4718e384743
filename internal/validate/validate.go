// Package validate compiles CEL requirement expressions into row validators.
//
// Each expression is evaluated against the rows a table would return on
// confirm. Two variables are in scope: "rows" (the selected rows as a list
// of maps) and "count" (len(rows)). An expression must produce a boolean;
// a false result blocks confirmation with the rule's failure message.
package validate

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Rule is a compiled requirement expression.
type Rule struct {
	Expr    string
	Message string
	prg     cel.Program
}

// newRowEnv creates the CEL environment requirement expressions compile in.
func newRowEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("rows", cel.ListType(cel.DynType)),
		cel.Variable("count", cel.IntType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
}

// Compile parses and type-checks a requirement expression. The message is
// shown when the rule fails; when empty a message is derived from the
// expression text.
func Compile(expr, message string) (*Rule, error) {
	env, err := newRowEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid requirement %q: %w", expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType && ast.OutputType() != cel.DynType {
		return nil, fmt.Errorf("requirement %q must produce a boolean, got %s", expr, ast.OutputType())
	}

	// Reject expressions that never look at their input. A constant
	// requirement is almost always a typo (e.g. "true" instead of
	// "count > 0") and would silently pass or fail every confirm.
	idents := referencedIdents(ast)
	if !idents["rows"] && !idents["count"] {
		return nil, fmt.Errorf("requirement %q references neither rows nor count", expr)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error for %q: %w", expr, err)
	}

	if message == "" {
		message = "requirement not met: " + expr
	}
	return &Rule{Expr: expr, Message: message, prg: prg}, nil
}

// CompileAll compiles a set of expressions paired with failure messages.
// messages may be shorter than exprs; missing entries get derived messages.
func CompileAll(exprs, messages []string) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(exprs))
	for i, expr := range exprs {
		msg := ""
		if i < len(messages) {
			msg = messages[i]
		}
		rule, err := Compile(expr, msg)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Check evaluates the rule against the selected rows. A false result or an
// evaluation error blocks confirmation.
func (r *Rule) Check(rows []map[string]any) error {
	// CEL needs []any for dyn lists.
	list := make([]any, len(rows))
	for i, row := range rows {
		list[i] = row
	}

	result, _, err := r.prg.Eval(map[string]any{
		"rows":  list,
		"count": int64(len(rows)),
	})
	if err != nil {
		return fmt.Errorf("requirement %q: %w", r.Expr, err)
	}

	ok, isBool := result.(types.Bool)
	if !isBool {
		return fmt.Errorf("requirement %q produced %v, want a boolean", r.Expr, result.Type())
	}
	if !ok {
		return fmt.Errorf("%s", r.Message)
	}
	return nil
}

// Func folds the rules into a single validator callback. Rules run in order
// and the first failure wins.
func Func(rules []*Rule) func(rows []map[string]any) error {
	if len(rules) == 0 {
		return nil
	}
	return func(rows []map[string]any) error {
		for _, rule := range rules {
			if err := rule.Check(rows); err != nil {
				return err
			}
		}
		return nil
	}
}

// referencedIdents walks the parsed expression and collects every identifier
// it mentions, using proto inspection of the AST.
func referencedIdents(ast *cel.Ast) map[string]bool {
	idents := make(map[string]bool)
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return idents
	}

	var walk func(e *exprpb.Expr)
	walk = func(e *exprpb.Expr) {
		if e == nil {
			return
		}
		switch e.ExprKind.(type) {
		case *exprpb.Expr_IdentExpr:
			idents[e.GetIdentExpr().GetName()] = true
		case *exprpb.Expr_SelectExpr:
			walk(e.GetSelectExpr().GetOperand())
		case *exprpb.Expr_CallExpr:
			call := e.GetCallExpr()
			walk(call.GetTarget())
			for _, arg := range call.GetArgs() {
				walk(arg)
			}
		case *exprpb.Expr_ListExpr:
			for _, elem := range e.GetListExpr().GetElements() {
				walk(elem)
			}
		case *exprpb.Expr_StructExpr:
			for _, entry := range e.GetStructExpr().GetEntries() {
				walk(entry.GetMapKey())
				walk(entry.GetValue())
			}
		case *exprpb.Expr_ComprehensionExpr:
			comp := e.GetComprehensionExpr()
			walk(comp.GetIterRange())
			walk(comp.GetAccuInit())
			walk(comp.GetLoopCondition())
			walk(comp.GetLoopStep())
			walk(comp.GetResult())
		}
	}
	walk(parsed.GetExpr())
	return idents
}
