// Package cas exposes the computer-algebra capability the solvers consume:
// symbolic differentiation, equation solving, numeric conversion and display
// formatting over the same surface syntax the evaluator accepts. The
// implementation is backed by the gosymbol kernel; expressions travel across
// the interface as strings so the engine never depends on a concrete AST.
package cas

import (
	"fmt"
	"math"
	"strconv"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	gosymbol "github.com/njchilds90/gosymbol"
)

// Engine is the narrow CAS interface of the engine. Implementations must be
// side-effect free; every operation either succeeds or returns an error the
// caller treats as "no symbolic result".
type Engine interface {
	// Differentiate returns d/d<variable> of the expression.
	Differentiate(expression, variable string) (string, error)
	// Solve returns the real roots of expression = 0 in the variable.
	Solve(expression, variable string) ([]string, error)
	// Integrate returns an antiderivative of the expression.
	Integrate(expression, variable string) (string, error)
	// ToDecimal numerically evaluates a closed expression.
	ToDecimal(expression string) (float64, error)
	// Display returns the simplified display form of an expression.
	Display(expression string) (string, error)
}

// Symbolic implements Engine on top of gosymbol.
type Symbolic struct{}

// NewSymbolic returns the gosymbol-backed Engine.
func NewSymbolic() *Symbolic { return &Symbolic{} }

// Differentiate returns d/d<variable> of the expression.
func (s *Symbolic) Differentiate(expression, variable string) (string, error) {
	e, err := parse(expression)
	if err != nil {
		return "", err
	}
	return gosymbol.Diff(e, variable).String(), nil
}

// Integrate returns an antiderivative of the expression, or an error when
// the rule-based integrator has no matching rule.
func (s *Symbolic) Integrate(expression, variable string) (string, error) {
	e, err := parse(expression)
	if err != nil {
		return "", err
	}
	anti, ok := gosymbol.Integrate(e, variable)
	if !ok {
		return "", fmt.Errorf("no antiderivative rule for %q", expression)
	}
	return anti.String(), nil
}

// ToDecimal numerically evaluates a closed expression.
func (s *Symbolic) ToDecimal(expression string) (float64, error) {
	e, err := parse(expression)
	if err != nil {
		return 0, err
	}
	n, ok := e.Simplify().Eval()
	if !ok {
		return 0, fmt.Errorf("%q does not evaluate to a number", expression)
	}
	f := n.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q evaluates to a non-finite value", expression)
	}
	return f, nil
}

// Display returns the simplified display form of an expression.
func (s *Symbolic) Display(expression string) (string, error) {
	e, err := parse(expression)
	if err != nil {
		return "", err
	}
	return e.Simplify().String(), nil
}

// Solve returns the real roots of expression = 0 in the variable.
// Polynomials up to degree 3 go through the closed-form solvers; everything
// else falls back to the kernel's seeded Newton sweep.
func (s *Symbolic) Solve(expression, variable string) ([]string, error) {
	e, err := parse(expression)
	if err != nil {
		return nil, err
	}
	e = e.Simplify()

	var result gosymbol.SolveResult
	if isPolynomial(e, variable) {
		coeffs := gosymbol.PolyCoeffs(e, variable)
		coeff := func(d int) gosymbol.Expr {
			if c, ok := coeffs[d]; ok {
				return c
			}
			return gosymbol.N(0)
		}
		switch gosymbol.Degree(e, variable) {
		case 1:
			result = gosymbol.SolveLinear(coeff(1), coeff(0))
		case 2:
			result = gosymbol.SolveQuadratic(coeff(2), coeff(1), coeff(0))
		case 3:
			result = gosymbol.SolveCubic(coeff(3), coeff(2), coeff(1), coeff(0))
		default:
			result = gosymbol.SolvePolynomialNewton(e, variable, 100, 1e-10, 100)
		}
	} else {
		result = gosymbol.SolvePolynomialNewton(e, variable, 100, 1e-10, 100)
	}

	if len(result.Solutions) == 0 {
		if result.Error != "" {
			return nil, fmt.Errorf("solve %q: %s", expression, result.Error)
		}
		return nil, nil
	}
	roots := make([]string, 0, len(result.Solutions))
	for _, sol := range result.Solutions {
		if n, ok := sol.Eval(); ok {
			roots = append(roots, strconv.FormatFloat(n.Float64(), 'g', -1, 64))
		} else {
			roots = append(roots, sol.String())
		}
	}
	return roots, nil
}

// isPolynomial reports whether e is polynomial in the variable, so the
// closed-form solvers apply.
func isPolynomial(e gosymbol.Expr, variable string) bool {
	switch v := e.(type) {
	case *gosymbol.Num:
		return true
	case *gosymbol.Sym:
		return true
	case *gosymbol.Add:
		for _, t := range v.Terms() {
			if !isPolynomial(t, variable) {
				return false
			}
		}
		return true
	case *gosymbol.Mul:
		for _, f := range v.Factors() {
			if !isPolynomial(f, variable) {
				return false
			}
		}
		return true
	case *gosymbol.Pow:
		if _, free := gosymbol.FreeSymbols(v.Base())[variable]; !free {
			_, expFree := gosymbol.FreeSymbols(v.ExpExpr())[variable]
			return !expFree
		}
		n, ok := v.ExpExpr().(*gosymbol.Num)
		return ok && n.IsInteger() && !n.IsNegative() && isPolynomial(v.Base(), variable)
	case *gosymbol.Func:
		_, free := gosymbol.FreeSymbols(v.Arg())[variable]
		return !free
	default:
		return false
	}
}

// parse converts surface syntax into a gosymbol expression via the same
// parser the evaluator uses, so both capabilities agree on one grammar.
func parse(expression string) (gosymbol.Expr, error) {
	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", expression, err)
	}
	return fromNode(tree.Node)
}

func fromNode(node ast.Node) (gosymbol.Expr, error) {
	switch v := node.(type) {
	case *ast.IntegerNode:
		return gosymbol.N(int64(v.Value)), nil
	case *ast.FloatNode:
		return gosymbol.NFloat(v.Value), nil
	case *ast.IdentifierNode:
		switch v.Value {
		case "pi":
			return gosymbol.NFloat(math.Pi), nil
		case "e":
			return gosymbol.NFloat(math.E), nil
		}
		return gosymbol.S(v.Value), nil
	case *ast.UnaryNode:
		arg, err := fromNode(v.Node)
		if err != nil {
			return nil, err
		}
		switch v.Operator {
		case "-":
			return gosymbol.MulOf(gosymbol.N(-1), arg), nil
		case "+":
			return arg, nil
		}
		return nil, fmt.Errorf("unsupported unary operator %q", v.Operator)
	case *ast.BinaryNode:
		left, err := fromNode(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := fromNode(v.Right)
		if err != nil {
			return nil, err
		}
		switch v.Operator {
		case "+":
			return gosymbol.AddOf(left, right), nil
		case "-":
			return gosymbol.AddOf(left, gosymbol.MulOf(gosymbol.N(-1), right)), nil
		case "*":
			return gosymbol.MulOf(left, right), nil
		case "/":
			return gosymbol.MulOf(left, gosymbol.PowOf(right, gosymbol.N(-1))), nil
		case "^", "**":
			return gosymbol.PowOf(left, right), nil
		}
		return nil, fmt.Errorf("unsupported operator %q", v.Operator)
	case *ast.CallNode:
		callee, ok := v.Callee.(*ast.IdentifierNode)
		if !ok || len(v.Arguments) != 1 {
			return nil, fmt.Errorf("unsupported call form")
		}
		arg, err := fromNode(v.Arguments[0])
		if err != nil {
			return nil, err
		}
		return applyFunc(callee.Value, arg)
	case *ast.BuiltinNode:
		if len(v.Arguments) != 1 {
			return nil, fmt.Errorf("unsupported builtin %q", v.Name)
		}
		arg, err := fromNode(v.Arguments[0])
		if err != nil {
			return nil, err
		}
		return applyFunc(v.Name, arg)
	default:
		return nil, fmt.Errorf("unsupported syntax node %T", node)
	}
}

func applyFunc(name string, arg gosymbol.Expr) (gosymbol.Expr, error) {
	switch name {
	case "sin":
		return gosymbol.SinOf(arg), nil
	case "cos":
		return gosymbol.CosOf(arg), nil
	case "tan":
		return gosymbol.TanOf(arg), nil
	case "asin":
		return gosymbol.AsinOf(arg), nil
	case "acos":
		return gosymbol.AcosOf(arg), nil
	case "atan":
		return gosymbol.AtanOf(arg), nil
	case "sinh":
		return gosymbol.SinhOf(arg), nil
	case "cosh":
		return gosymbol.CoshOf(arg), nil
	case "tanh":
		return gosymbol.TanhOf(arg), nil
	case "exp":
		return gosymbol.ExpOf(arg), nil
	case "ln":
		return gosymbol.LnOf(arg), nil
	case "log":
		// log10 via the natural log the kernel knows how to differentiate.
		return gosymbol.MulOf(gosymbol.LnOf(arg), gosymbol.PowOf(gosymbol.LnOf(gosymbol.N(10)), gosymbol.N(-1))), nil
	case "sqrt":
		return gosymbol.SqrtOf(arg), nil
	case "abs":
		return gosymbol.AbsOf(arg), nil
	case "floor":
		return gosymbol.FloorOf(arg), nil
	case "ceil":
		return gosymbol.CeilOf(arg), nil
	}
	return nil, fmt.Errorf("unknown function %q", name)
}
