package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/cel-go/cel"
)

var ErrEmptyFormula = errors.New("formula is empty")

var slotNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// celReserved cannot be declared as variables: keywords and the built-in type identifiers.
var celReserved = map[string]struct{}{
	"true": {}, "false": {}, "null": {}, "in": {},
	"as": {}, "break": {}, "const": {}, "continue": {}, "else": {}, "for": {}, "function": {}, "if": {},
	"import": {}, "let": {}, "loop": {}, "package": {}, "namespace": {}, "return": {}, "var": {},
	"void": {}, "while": {},
	"int": {}, "uint": {}, "double": {}, "bool": {}, "string": {}, "bytes": {}, "list": {}, "map": {},
	"type": {}, "null_type": {},
}

// IsSlotName reports whether name can be referenced from a formula.
func IsSlotName(name string) bool {
	if !slotNameRe.MatchString(name) {
		return false
	}
	_, reserved := celReserved[name]
	return !reserved
}

// CheckFormula parses and type-checks formula against an environment that declares exactly
// the given slot names. References to anything else are reported as errors. Slot names that
// cannot be declared are left out of the environment, so they only fail formulas using them.
func CheckFormula(formula string, slots []string) error {
	if strings.TrimSpace(formula) == "" {
		return ErrEmptyFormula
	}

	opts := make([]cel.EnvOption, 0, len(slots))
	for _, name := range slots {
		if !IsSlotName(name) {
			continue
		}
		opts = append(opts, cel.Variable(name, cel.DynType))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return fmt.Errorf("cel.NewEnv: %w", err)
	}

	if _, iss := env.Compile(formula); iss != nil && iss.Err() != nil {
		return fmt.Errorf("invalid formula: %w", iss.Err())
	}

	return nil
}
