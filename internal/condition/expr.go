package condition

// Vars is the context understood by ExprEvaluator.
type Vars struct {
	// Flags holds boolean context values, e.g. "editorFocus".
	Flags map[string]bool

	// Values holds string context values, e.g. "lang" = "go".
	Values map[string]string
}

// NewVars creates an empty Vars.
func NewVars() *Vars {
	return &Vars{
		Flags:  make(map[string]bool),
		Values: make(map[string]string),
	}
}

// ExprEvaluator evaluates simple expressions against a *Vars or
// map[string]bool context.
//
// Supported: name, !expr, a && b, a || b, name == value, name != value.
// Unknown names are false. A nil or unsupported context only satisfies
// empty conditions.
type ExprEvaluator struct{}

// Evaluate evaluates the condition.
func (e ExprEvaluator) Evaluate(c Condition, ctx any) bool {
	if c.IsEmpty() {
		return true
	}
	var vars *Vars
	switch v := ctx.(type) {
	case *Vars:
		vars = v
	case Vars:
		vars = &v
	case map[string]bool:
		vars = &Vars{Flags: v}
	default:
		return false
	}
	if vars == nil {
		return false
	}
	return e.evaluateExpr(c.Text, vars)
}

func (e ExprEvaluator) evaluateExpr(expr string, vars *Vars) bool {
	// Check for OR
	for i := 0; i < len(expr)-1; i++ {
		if expr[i] == '|' && expr[i+1] == '|' {
			left := e.evaluateExpr(trimSpace(expr[:i]), vars)
			right := e.evaluateExpr(trimSpace(expr[i+2:]), vars)
			return left || right
		}
	}

	// Check for AND
	for i := 0; i < len(expr)-1; i++ {
		if expr[i] == '&' && expr[i+1] == '&' {
			left := e.evaluateExpr(trimSpace(expr[:i]), vars)
			right := e.evaluateExpr(trimSpace(expr[i+2:]), vars)
			return left && right
		}
	}

	expr = trimSpace(expr)

	// Comparisons bind tighter than negation of a bare name.
	for i := 0; i < len(expr)-1; i++ {
		if (expr[i] == '=' || expr[i] == '!') && expr[i+1] == '=' {
			left := trimSpace(expr[:i])
			right := trimSpace(expr[i+2:])
			val, ok := vars.Values[left]
			eq := ok && val == right
			if expr[i] == '!' {
				return !eq
			}
			return eq
		}
	}

	if len(expr) > 0 && expr[0] == '!' {
		return !e.evaluateExpr(trimSpace(expr[1:]), vars)
	}

	return vars.Flags[expr]
}

func trimSpace(s string) string {
	start := 0
	end := len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}
