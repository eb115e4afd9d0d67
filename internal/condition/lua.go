package condition

import (
	"fmt"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// LuaEvaluator evaluates conditions as Lua expressions.
//
// A condition "mode == 'insert' and not readonly" is compiled once as
// "return (mode == 'insert' and not readonly)" and run with the context's
// fields as globals. Only the base, string, table and math libraries are
// available. The result follows Lua truthiness; errors evaluate to false.
//
// gopher-lua states are not goroutine-safe; the evaluator serializes calls.
type LuaEvaluator struct {
	mu     sync.Mutex
	L      *lua.LState
	protos map[string]*lua.FunctionProto
	closed bool
}

// NewLuaEvaluator creates an evaluator with a sandboxed Lua state.
func NewLuaEvaluator() *LuaEvaluator {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// No code loading from conditions.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	return &LuaEvaluator{
		L:      L,
		protos: make(map[string]*lua.FunctionProto),
	}
}

// Close releases the Lua state.
func (e *LuaEvaluator) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.L.Close()
		e.closed = true
	}
}

// Check compiles the condition and reports syntax errors.
func (e *LuaEvaluator) Check(c Condition) error {
	if c.IsEmpty() {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.compile(c.Text)
	return err
}

// Evaluate runs the condition against ctx, which may be a map[string]any,
// map[string]bool, map[string]string, *Vars or nil.
func (e *LuaEvaluator) Evaluate(c Condition, ctx any) bool {
	if c.IsEmpty() {
		return true
	}
	ok, err := e.EvaluateErr(c, ctx)
	return err == nil && ok
}

// EvaluateErr is Evaluate with the compile or runtime error exposed.
func (e *LuaEvaluator) EvaluateErr(c Condition, ctx any) (bool, error) {
	if c.IsEmpty() {
		return true, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false, fmt.Errorf("lua evaluator closed")
	}

	proto, err := e.compile(c.Text)
	if err != nil {
		return false, err
	}

	L := e.L
	env := L.NewTable()
	mt := L.NewTable()
	L.SetField(mt, "__index", L.G.Global)
	L.SetMetatable(env, mt)
	for name, v := range contextFields(ctx) {
		env.RawSetString(name, toLua(L, v, 0))
	}

	fn := L.NewFunctionFromProto(proto)
	fn.Env = env

	top := L.GetTop()
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		L.SetTop(top)
		return false, fmt.Errorf("evaluating %q: %w", c.Text, err)
	}
	ret := L.Get(-1)
	L.SetTop(top)
	return lua.LVAsBool(ret), nil
}

// compile returns the cached proto for text. Caller must hold e.mu.
func (e *LuaEvaluator) compile(text string) (*lua.FunctionProto, error) {
	if p, ok := e.protos[text]; ok {
		return p, nil
	}
	src := "return (" + text + ")"
	chunk, err := parse.Parse(strings.NewReader(src), "<condition>")
	if err != nil {
		return nil, fmt.Errorf("parsing condition %q: %w", text, err)
	}
	proto, err := lua.Compile(chunk, "<condition>")
	if err != nil {
		return nil, fmt.Errorf("compiling condition %q: %w", text, err)
	}
	e.protos[text] = proto
	return proto, nil
}

func contextFields(ctx any) map[string]any {
	out := make(map[string]any)
	switch v := ctx.(type) {
	case map[string]any:
		for k, val := range v {
			out[k] = val
		}
	case map[string]bool:
		for k, val := range v {
			out[k] = val
		}
	case map[string]string:
		for k, val := range v {
			out[k] = val
		}
	case *Vars:
		if v != nil {
			for k, val := range v.Flags {
				out[k] = val
			}
			for k, val := range v.Values {
				out[k] = val
			}
		}
	}
	return out
}

// maxDepth bounds conversion of nested context values.
const maxDepth = 8

func toLua(L *lua.LState, v any, depth int) lua.LValue {
	if depth > maxDepth {
		return lua.LNil
	}
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, toLua(L, item, depth+1))
		}
		return t
	case []any:
		t := L.NewTable()
		for _, item := range val {
			t.Append(toLua(L, item, depth+1))
		}
		return t
	case []string:
		t := L.NewTable()
		for _, item := range val {
			t.Append(lua.LString(item))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(val))
	}
}
