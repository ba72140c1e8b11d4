package interpreter

import (
	"math"
	"strings"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func nan() float64 { return math.NaN() }

func inf() float64 { return math.Inf(1) }

// binaryOp applies a binary operator to already-evaluated operands. It also
// backs compound assignment.
func (i *Interpreter) binaryOp(op string, left, right runtime.Value, node ast.Node) (runtime.Value, error) {
	switch op {
	case "+":
		return i.addValues(left, right)
	case "-", "*", "/", "%", "**":
		l, err := runtime.ToNumberValue(i, left)
		if err != nil {
			return nil, err
		}
		r, err := runtime.ToNumberValue(i, right)
		if err != nil {
			return nil, err
		}
		return runtime.Num(arithmetic(op, l, r)), nil
	case "==", "!=":
		eq, err := runtime.LooseEquals(i, left, right)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(eq == (op == "==")), nil
	case "===":
		return runtime.Bool(runtime.StrictEquals(left, right)), nil
	case "!==":
		return runtime.Bool(!runtime.StrictEquals(left, right)), nil
	case "<", ">", "<=", ">=":
		return i.relational(op, left, right)
	case "&", "|", "^", "<<", ">>", ">>>":
		l, err := runtime.ToNumberValue(i, left)
		if err != nil {
			return nil, err
		}
		r, err := runtime.ToNumberValue(i, right)
		if err != nil {
			return nil, err
		}
		return runtime.Num(bitwise(op, l, r)), nil
	case "in":
		obj, ok := right.(*runtime.Object)
		if !ok {
			return nil, i.realm.TypeErrorf("Cannot use 'in' operator to search for '%s' in %s", runtime.ToString(left), runtime.ToString(orUndefined(right)))
		}
		key, err := runtime.ToPropertyKey(i, left)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(obj.HasProperty(key)), nil
	case "instanceof":
		return i.instanceOf(left, right)
	default:
		return nil, fatalf(FatalUnknownOperator, node, "unknown binary operator %q", op)
	}
}

func (i *Interpreter) addValues(left, right runtime.Value) (runtime.Value, error) {
	lp, err := runtime.ToPrimitive(i, left, runtime.HintDefault)
	if err != nil {
		return nil, err
	}
	rp, err := runtime.ToPrimitive(i, right, runtime.HintDefault)
	if err != nil {
		return nil, err
	}
	_, ls := lp.(runtime.StringValue)
	_, rs := rp.(runtime.StringValue)
	if ls || rs {
		return runtime.Str(runtime.ToString(lp) + runtime.ToString(rp)), nil
	}
	return runtime.Num(runtime.ToNumber(lp) + runtime.ToNumber(rp)), nil
}

func arithmetic(op string, l, r float64) float64 {
	switch op {
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "%":
		if r == 0 || math.IsInf(l, 0) {
			return math.NaN()
		}
		return math.Mod(l, r)
	default:
		if math.IsNaN(r) || (math.Abs(l) == 1 && math.IsInf(r, 0)) {
			return math.NaN()
		}
		return math.Pow(l, r)
	}
}

func bitwise(op string, l, r float64) float64 {
	shift := runtime.ToUint32(r) & 31
	switch op {
	case "&":
		return float64(runtime.ToInt32(l) & runtime.ToInt32(r))
	case "|":
		return float64(runtime.ToInt32(l) | runtime.ToInt32(r))
	case "^":
		return float64(runtime.ToInt32(l) ^ runtime.ToInt32(r))
	case "<<":
		return float64(runtime.ToInt32(l) << shift)
	case ">>":
		return float64(runtime.ToInt32(l) >> shift)
	default:
		return float64(runtime.ToUint32(l) >> shift)
	}
}

// relational compares after ToPrimitive with a number hint. Two strings
// compare lexicographically; otherwise NaN makes every comparison false.
func (i *Interpreter) relational(op string, left, right runtime.Value) (runtime.Value, error) {
	lp, err := runtime.ToPrimitive(i, left, runtime.HintNumber)
	if err != nil {
		return nil, err
	}
	rp, err := runtime.ToPrimitive(i, right, runtime.HintNumber)
	if err != nil {
		return nil, err
	}
	ls, lok := lp.(runtime.StringValue)
	rs, rok := rp.(runtime.StringValue)
	var cmp int
	if lok && rok {
		cmp = strings.Compare(ls.Val, rs.Val)
	} else {
		l, r := runtime.ToNumber(lp), runtime.ToNumber(rp)
		if math.IsNaN(l) || math.IsNaN(r) {
			return runtime.False, nil
		}
		switch {
		case l < r:
			cmp = -1
		case l > r:
			cmp = 1
		}
	}
	switch op {
	case "<":
		return runtime.Bool(cmp < 0), nil
	case ">":
		return runtime.Bool(cmp > 0), nil
	case "<=":
		return runtime.Bool(cmp <= 0), nil
	default:
		return runtime.Bool(cmp >= 0), nil
	}
}

func (i *Interpreter) instanceOf(left, right runtime.Value) (runtime.Value, error) {
	ctor, ok := right.(*runtime.Object)
	if !ok || !ctor.IsCallable() {
		return nil, i.realm.TypeErrorf("Right-hand side of 'instanceof' is not callable")
	}
	for {
		bound, ok := ctor.Callable.(*runtime.BoundFunction)
		if !ok {
			break
		}
		ctor = bound.Target
	}
	obj, ok := left.(*runtime.Object)
	if !ok {
		return runtime.False, nil
	}
	protoVal, err := i.getMember(ctor, "prototype")
	if err != nil {
		return nil, err
	}
	proto, ok := protoVal.(*runtime.Object)
	if !ok {
		return nil, i.realm.TypeErrorf("Function has non-object prototype '%s' in instanceof check", runtime.ToString(orUndefined(protoVal)))
	}
	return runtime.Bool(obj.InstanceOf(proto)), nil
}
