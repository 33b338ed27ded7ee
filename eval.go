package curvelab

import (
	"fmt"
	"math"
	"strings"

	"github.com/Knetic/govaluate"
)

// ============================================================
// Expression Evaluator
// ============================================================

// Expression is a compiled formula in the single variable x. Compiling
// is separate from evaluation so a formula can be checked once and run
// over many domains; evaluation has no hidden state, so identical
// inputs always produce identical output.
type Expression struct {
	src      string
	compiled *govaluate.EvaluableExpression
	usesX    bool
}

// Compile parses a formula over the closed namespace. The caret is
// accepted as a synonym for exponentiation and rewritten before
// parsing. Parse failures wrap ErrExpression.
func Compile(src string) (*Expression, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrExpression)
	}
	compiled, err := govaluate.NewEvaluableExpressionWithFunctions(
		strings.ReplaceAll(trimmed, "^", "**"), exprFuncs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExpression, err)
	}
	usesX := false
	for _, v := range compiled.Vars() {
		if v == "x" {
			usesX = true
			break
		}
	}
	return &Expression{src: trimmed, compiled: compiled, usesX: usesX}, nil
}

// Source returns the formula as the user wrote it, before the caret
// rewrite.
func (e *Expression) Source() string { return e.src }

// EvalVector evaluates the formula at every entry of x and returns a
// vector of the same length. NaN and Inf entries are permitted;
// division by zero follows float semantics (x/0 is Inf or NaN), not an
// error. An undeclared identifier or an evaluation failure wraps
// ErrExpression; a non-numeric result (for example a comparison) wraps
// ErrShape, as does a formula that never references x: a constant
// scalar is not a vector of y values. Evaluation errors take
// precedence over the constant check. No partial results are returned.
func (e *Expression) EvalVector(x []float64) ([]float64, error) {
	params := map[string]interface{}{
		"pi": math.Pi,
		"e":  math.E,
	}
	y := make([]float64, len(x))
	for i, xi := range x {
		params["x"] = xi
		v, err := e.compiled.Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExpression, err)
		}
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: expression evaluated to %T, not a numeric y value", ErrShape, v)
		}
		y[i] = f
	}
	if !e.usesX {
		return nil, fmt.Errorf("%w: the expression did not evaluate to a vector of y values", ErrShape)
	}
	return y, nil
}

// Eval compiles and evaluates in one call.
func Eval(src string, x []float64) ([]float64, error) {
	e, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return e.EvalVector(x)
}

// ============================================================
// Closed function namespace
// ============================================================

// exprFuncs is the whole callable surface of the formula language: the
// elementary unary set, the two binary functions, and a restricted
// extended-math set as the escape hatch for advanced use. Nothing else
// resolves, so a formula can never reach I/O or the host runtime.
var exprFuncs = map[string]govaluate.ExpressionFunction{
	"sin":   unaryFn("sin", math.Sin),
	"cos":   unaryFn("cos", math.Cos),
	"tan":   unaryFn("tan", math.Tan),
	"asin":  unaryFn("asin", math.Asin),
	"acos":  unaryFn("acos", math.Acos),
	"atan":  unaryFn("atan", math.Atan),
	"sinh":  unaryFn("sinh", math.Sinh),
	"cosh":  unaryFn("cosh", math.Cosh),
	"tanh":  unaryFn("tanh", math.Tanh),
	"exp":   unaryFn("exp", math.Exp),
	"log":   unaryFn("log", math.Log),
	"log10": unaryFn("log10", math.Log10),
	"sqrt":  unaryFn("sqrt", math.Sqrt),
	"abs":   unaryFn("abs", math.Abs),
	"floor": unaryFn("floor", math.Floor),
	"ceil":  unaryFn("ceil", math.Ceil),

	"pow":   binaryFn("pow", math.Pow),
	"atan2": binaryFn("atan2", math.Atan2),

	// Extended-math handle.
	"cbrt":  unaryFn("cbrt", math.Cbrt),
	"erf":   unaryFn("erf", math.Erf),
	"erfc":  unaryFn("erfc", math.Erfc),
	"gamma": unaryFn("gamma", math.Gamma),
	"round": unaryFn("round", math.Round),
	"trunc": unaryFn("trunc", math.Trunc),
	"sign":  unaryFn("sign", sign),
	"hypot": binaryFn("hypot", math.Hypot),
	"mod":   binaryFn("mod", math.Mod),
}

func unaryFn(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
		}
		v, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("%s expects a numeric argument, got %T", name, args[0])
		}
		return fn(v), nil
	}
}

func binaryFn(name string, fn func(_, _ float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(args))
		}
		a, ok1 := args[0].(float64)
		b, ok2 := args[1].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%s expects numeric arguments", name)
		}
		return fn(a, b), nil
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return v // preserves 0, -0, NaN
}
