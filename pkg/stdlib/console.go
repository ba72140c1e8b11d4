package stdlib

import (
	"fmt"
	"io"
	"strings"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func installConsole(realm *runtime.Realm, g map[string]runtime.Value) {
	console := realm.NewObject()
	out := func(call *runtime.NativeCall) io.Writer { return call.Host.Stdout() }
	errOut := func(call *runtime.NativeCall) io.Writer { return call.Host.Stderr() }
	defineMethods(realm, console, []method{
		{"log", 0, printer(out)},
		{"info", 0, printer(out)},
		{"debug", 0, printer(out)},
		{"error", 0, printer(errOut)},
		{"warn", 0, printer(errOut)},
	})
	g["console"] = console
}

func printer(target func(*runtime.NativeCall) io.Writer) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		line, err := FormatLog(call.Host, call.Args)
		if err != nil {
			return nil, err
		}
		if _, err := fmt.Fprintln(target(call), line); err != nil {
			return nil, call.Realm().Throw("Error", "write failed: %v", err)
		}
		return runtime.Undefined, nil
	}
}

// FormatLog renders console arguments: top-level strings print raw, other
// values use Inspect, and a leading string may carry %s/%d/%i/%f/%o/%O/%j
// placeholders.
func FormatLog(host runtime.Host, args []runtime.Value) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(args))
	rest := args
	if first, ok := args[0].(runtime.StringValue); ok && strings.Contains(first.Val, "%") {
		formatted, used, err := applyFormat(host, first.Val, args[1:])
		if err != nil {
			return "", err
		}
		parts = append(parts, formatted)
		rest = args[1+used:]
	} else {
		parts = append(parts, logString(args[0]))
		rest = args[1:]
	}
	for _, arg := range rest {
		parts = append(parts, logString(arg))
	}
	return strings.Join(parts, " "), nil
}

func logString(v runtime.Value) string {
	if s, ok := v.(runtime.StringValue); ok {
		return s.Val
	}
	return runtime.Inspect(v)
}

func applyFormat(host runtime.Host, format string, args []runtime.Value) (string, int, error) {
	var b strings.Builder
	used := 0
	for idx := 0; idx < len(format); idx++ {
		ch := format[idx]
		if ch != '%' || idx+1 >= len(format) {
			b.WriteByte(ch)
			continue
		}
		verb := format[idx+1]
		if verb == '%' {
			b.WriteByte('%')
			idx++
			continue
		}
		if !strings.ContainsRune("sdifoOjc", rune(verb)) || used >= len(args) {
			b.WriteByte(ch)
			continue
		}
		arg := args[used]
		used++
		idx++
		switch verb {
		case 's':
			if obj, ok := arg.(*runtime.Object); ok && !obj.IsCallable() {
				b.WriteString(runtime.Inspect(obj))
				continue
			}
			s, err := runtime.ToStringValue(host, arg)
			if err != nil {
				return "", 0, err
			}
			b.WriteString(s)
		case 'd', 'i':
			n, err := runtime.ToNumberValue(host, arg)
			if err != nil {
				return "", 0, err
			}
			if verb == 'i' {
				n = runtime.ToInteger(n)
			}
			b.WriteString(runtime.NumberToString(n))
		case 'f':
			n, err := runtime.ToNumberValue(host, arg)
			if err != nil {
				return "", 0, err
			}
			b.WriteString(runtime.NumberToString(n))
		case 'j':
			text, err := stringify(host, arg, nil, "")
			if err != nil {
				return "", 0, err
			}
			b.WriteString(runtime.ToString(text))
		case 'c':
		default:
			b.WriteString(runtime.Inspect(arg))
		}
	}
	return b.String(), used, nil
}
