package script

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
)

// mathEnv adds the functions and constants a scientific calculator has on
// top of expr's builtins.
var mathEnv = map[string]any{
	"PI":    math.Pi,
	"E":     math.E,
	"pi":    math.Pi,
	"e":     math.E,
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"log":   math.Log,
	"ln":    math.Log,
	"log10": math.Log10,
	"log2":  math.Log2,
	"exp":   math.Exp,
	"pow":   math.Pow,
}

// Evaluate computes a mathematical expression.
func Evaluate(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty expression")
	}
	// The typed env lets the checker pass integer literals as float64
	// arguments to the math functions.
	program, err := expr.Compile(input, expr.Env(mathEnv))
	if err != nil {
		return "", err
	}
	out, err := expr.Run(program, mathEnv)
	if err != nil {
		return "", err
	}
	switch v := out.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// NewCalculatorTool returns the calculator tool. An expression that does
// not evaluate yields an empty observation.
func NewCalculatorTool() engine.Tool {
	return engine.FuncTool{
		ToolName: "calculator",
		Desc:     "Useful for getting the result of a mathematical expression. The input to this tool should be a valid mathematical expression that could be executed by a simple scientific calculator.",
		Fn: func(ctx context.Context, input string) (string, error) {
			out, err := Evaluate(input)
			if err != nil {
				return "", nil
			}
			return out, nil
		},
	}
}
