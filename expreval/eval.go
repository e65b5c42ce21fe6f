// Package expreval provides the expression-evaluator capability of the
// engine: algebraic strings in one or two free variables are compiled once
// and evaluated against a numeric scope. Every failure mode (unknown
// symbol, domain violation, arithmetic error) comes back as an ordinary
// error that callers treat as "no result for this object this pass".
package expreval

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

// Evaluator compiles and evaluates algebraic expressions. Compiled programs
// are cached per expression string; the engine is single-threaded by
// contract, so the cache needs no locking.
type Evaluator struct {
	programs map[string]*vm.Program
}

// New creates an Evaluator with an empty program cache.
func New() *Evaluator {
	return &Evaluator{programs: make(map[string]*vm.Program)}
}

// Evaluate computes the expression against the given scope. The scope maps
// bare names (parameters, x, y, x_A, slope aliases) to numbers; the math
// builtins below are always available on top of it.
func (e *Evaluator) Evaluate(expression string, scope map[string]float64) (float64, error) {
	program, err := e.compile(expression)
	if err != nil {
		return 0, err
	}
	env := builtinEnv()
	for name, value := range scope {
		env[name] = value
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return 0, err
	}
	return toFloat(out)
}

func (e *Evaluator) compile(expression string) (*vm.Program, error) {
	if program, ok := e.programs[expression]; ok {
		return program, nil
	}
	program, err := expr.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}
	e.programs[expression] = program
	return program, nil
}

// FreeVariables returns the identifiers the expression references beyond
// the math builtins, in first-appearance order. The host uses this to
// auto-detect parameters (after excluding the curve variables x and y).
func FreeVariables(expression string) ([]string, error) {
	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", expression, err)
	}
	builtins := builtinEnv()
	seen := make(map[string]bool)
	var names []string
	collect := &identCollector{visit: func(name string) {
		if _, ok := builtins[name]; ok {
			return
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}}
	ast.Walk(&tree.Node, collect)
	return names, nil
}

type identCollector struct {
	visit func(string)
}

func (c *identCollector) Visit(node *ast.Node) {
	if ident, ok := (*node).(*ast.IdentifierNode); ok {
		c.visit(ident.Value)
	}
}

// builtinEnv returns a fresh env with the math functions and constants the
// surface syntax supports. Domain-limited functions return errors instead
// of NaN so that failures stay recoverable.
func builtinEnv() map[string]interface{} {
	return map[string]interface{}{
		"pi": math.Pi,
		"e":  math.E,

		"sin":  math.Sin,
		"cos":  math.Cos,
		"tan":  math.Tan,
		"atan": math.Atan,
		"sinh": math.Sinh,
		"cosh": math.Cosh,
		"tanh": math.Tanh,
		"exp":  math.Exp,

		"sqrt": func(x float64) (float64, error) {
			if x < 0 {
				return 0, fmt.Errorf("sqrt of negative value %g", x)
			}
			return math.Sqrt(x), nil
		},
		"ln": func(x float64) (float64, error) {
			if x <= 0 {
				return 0, fmt.Errorf("ln of non-positive value %g", x)
			}
			return math.Log(x), nil
		},
		"log": func(x float64) (float64, error) {
			if x <= 0 {
				return 0, fmt.Errorf("log of non-positive value %g", x)
			}
			return math.Log10(x), nil
		},
		"asin": func(x float64) (float64, error) {
			if x < -1 || x > 1 {
				return 0, fmt.Errorf("asin of out-of-range value %g", x)
			}
			return math.Asin(x), nil
		},
		"acos": func(x float64) (float64, error) {
			if x < -1 || x > 1 {
				return 0, fmt.Errorf("acos of out-of-range value %g", x)
			}
			return math.Acos(x), nil
		},
	}
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expression result %v is not numeric", v)
	}
}
