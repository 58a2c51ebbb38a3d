package core

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean expression evaluated against a record.
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles condition against the shape of env.
// An empty condition yields a filter that matches everything.
func CompileFilter(condition string, env any) (*Filter, error) {
	if condition == "" {
		return &Filter{}, nil
	}
	program, err := expr.Compile(condition, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter '%s': %w", condition, err)
	}
	return &Filter{source: condition, program: program}, nil
}

// Match evaluates the filter against env.
func (f *Filter) Match(env any) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}
	output, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating '%s': %w", f.source, err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("filter must return a boolean, got %T", output)
	}
	return result, nil
}

