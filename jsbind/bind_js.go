//go:build js && wasm

package jsbind

import (
	"context"
	"sync"
	"syscall/js"

	webln "github.com/lnbridge/go-webln"
	"github.com/lnbridge/go-webln/provider"
)

const handleKey = "__weblnHandle"

// classSource builds the JavaScript class around the Go callbacks. goNew
// returns {handle} or {error}; the constructor throws the error. Methods live
// on the prototype, so every instance shares them.
const classSource = `
var registry = typeof FinalizationRegistry === "function"
	? new FinalizationRegistry(goRelease)
	: null;
function WebLN() {
	if (!(this instanceof WebLN)) { throw new TypeError("WebLN must be called with new"); }
	var r = goNew.apply(this, arguments);
	if (r.error) { throw r.error; }
	Object.defineProperty(this, "` + handleKey + `", { value: r.handle });
	if (registry) { registry.register(this, r.handle); }
}
for (var name in methods) { WebLN.prototype[name] = methods[name]; }
return WebLN;`

// Register installs a global JavaScript class called name. Each `new name()`
// builds a webln.Client from factory; construction failures throw an Error
// whose name is "ConstructionError". Instance methods return Promises.
//
// factory runs inside a JavaScript callback and must not wait for JavaScript
// events. The Go callbacks behind the class live as long as the page.
func Register(name string, factory provider.Factory, opts ...webln.Option) {
	table := newInstanceTable()

	goNew := js.FuncOf(func(this js.Value, args []js.Value) (result any) {
		defer func() {
			if r := recover(); r != nil {
				err := webln.ReportPanic("construct", r)
				result = map[string]any{"error": newJSError(jsErrorInfo{"ConstructionError", provider.KindInternal.String(), err.Error()})}
			}
		}()

		client, err := webln.NewClient(context.Background(), factory, opts...)
		if err != nil {
			return map[string]any{"error": newJSError(errorInfo(err))}
		}
		return map[string]any{"handle": table.add(client)}
	})

	goRelease := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 && args[0].Type() == js.TypeNumber {
			table.release(args[0].Int())
		}
		return nil
	})

	class := js.Global().Get("Function").New("goNew", "goRelease", "methods", classSource).
		Invoke(goNew, goRelease, prototypeMethods(table, defaultMethods()))
	js.Global().Set(name, class)
}

func prototypeMethods(table *instanceTable, methods *methodRegistry) js.Value {
	obj := js.Global().Get("Object").New()
	for _, name := range methods.names() {
		name := name
		fn, _ := methods.lookup(name)
		obj.Set(name, js.FuncOf(func(this js.Value, args []js.Value) any {
			client, ok := instanceClient(table, this)
			if !ok {
				err := newJSError(jsErrorInfo{"Error", provider.KindUnavailable.String(), "not a live WebLN instance"})
				return js.Global().Get("Promise").Call("reject", err)
			}
			raw := ""
			if len(args) > 0 {
				raw = stringify(args[0])
			}
			return newPromise(name, func(ctx context.Context) (any, error) {
				return fn(ctx, client, raw)
			})
		}))
	}
	return obj
}

func instanceClient(table *instanceTable, this js.Value) (*webln.Client, bool) {
	if this.Type() != js.TypeObject {
		return nil, false
	}
	h := this.Get(handleKey)
	if h.Type() != js.TypeNumber {
		return nil, false
	}
	return table.get(h.Int())
}

// newPromise runs fn on its own goroutine and settles the returned Promise
// exactly once with its result. Panics reject the Promise.
func newPromise(op string, fn func(ctx context.Context) (any, error)) js.Value {
	executor := js.FuncOf(func(this js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]

		go func() {
			var once sync.Once
			settle := func(f js.Value, v any) {
				once.Do(func() { f.Invoke(v) })
			}
			defer func() {
				if r := recover(); r != nil {
					err := webln.ReportPanic(op, r)
					settle(reject, newJSError(jsErrorInfo{"Error", provider.KindInternal.String(), err.Error()}))
				}
			}()

			out, err := fn(context.Background())
			if err != nil {
				settle(reject, newJSError(errorInfo(err)))
				return
			}
			exported, err := exportValue(out)
			if err != nil {
				settle(reject, newJSError(jsErrorInfo{"Error", provider.KindMalformedResponse.String(), err.Error()}))
				return
			}
			settle(resolve, js.ValueOf(exported))
		}()
		return nil
	})
	defer executor.Release()

	return js.Global().Get("Promise").New(executor)
}

func newJSError(info jsErrorInfo) js.Value {
	e := js.Global().Get("Error").New(info.Message)
	e.Set("name", info.Name)
	e.Set("kind", info.Kind)
	return e
}

func stringify(v js.Value) string {
	if v.IsUndefined() {
		return ""
	}
	s := js.Global().Get("JSON").Call("stringify", v)
	if s.Type() != js.TypeString {
		return ""
	}
	return s.String()
}
