package stdlib

import (
	"math"
	"time"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

// Dates are rendered and decomposed in UTC, so the local and UTC accessor
// families agree and getTimezoneOffset is always 0.

const maxTime = 8.64e15

func installDate(realm *runtime.Realm, g map[string]runtime.Value) {
	ctor := realm.NewConstructor("Date", 7, realm.DatePrototype, dateConstructor)
	defineMethods(realm, ctor, []method{
		{"now", 0, func(call *runtime.NativeCall) (runtime.Value, error) {
			return runtime.Num(runtime.MillisFromTime(call.Host.Now())), nil
		}},
		{"parse", 1, func(call *runtime.NativeCall) (runtime.Value, error) {
			s, err := argString(call, 0)
			if err != nil {
				return nil, err
			}
			ms, _ := runtime.ParseDate(s)
			return runtime.Num(ms), nil
		}},
		{"UTC", 7, func(call *runtime.NativeCall) (runtime.Value, error) {
			ms, err := dateFromFields(call)
			if err != nil {
				return nil, err
			}
			return runtime.Num(ms), nil
		}},
	})

	getters := []struct {
		name string
		part func(t time.Time) float64
	}{
		{"FullYear", func(t time.Time) float64 { return float64(t.Year()) }},
		{"Month", func(t time.Time) float64 { return float64(t.Month() - 1) }},
		{"Date", func(t time.Time) float64 { return float64(t.Day()) }},
		{"Day", func(t time.Time) float64 { return float64(t.Weekday()) }},
		{"Hours", func(t time.Time) float64 { return float64(t.Hour()) }},
		{"Minutes", func(t time.Time) float64 { return float64(t.Minute()) }},
		{"Seconds", func(t time.Time) float64 { return float64(t.Second()) }},
		{"Milliseconds", func(t time.Time) float64 { return float64(t.Nanosecond() / int(time.Millisecond)) }},
	}
	var methods []method
	for _, getter := range getters {
		fn := dateGetter(getter.part)
		methods = append(methods, method{"get" + getter.name, 0, fn}, method{"getUTC" + getter.name, 0, fn})
	}
	setters := []struct {
		name  string
		first int
		count int
	}{
		{"FullYear", 0, 3},
		{"Month", 1, 2},
		{"Date", 2, 1},
		{"Hours", 3, 4},
		{"Minutes", 4, 3},
		{"Seconds", 5, 2},
		{"Milliseconds", 6, 1},
	}
	for _, setter := range setters {
		fn := dateSetter(setter.first, setter.count)
		methods = append(methods, method{"set" + setter.name, setter.count, fn}, method{"setUTC" + setter.name, setter.count, fn})
	}
	timeValue := func(call *runtime.NativeCall) (runtime.Value, error) {
		ms, err := thisDate(call)
		if err != nil {
			return nil, err
		}
		return runtime.Num(ms), nil
	}
	methods = append(methods,
		method{"getTime", 0, timeValue},
		method{"valueOf", 0, timeValue},
		method{"getTimezoneOffset", 0, func(call *runtime.NativeCall) (runtime.Value, error) {
			ms, err := thisDate(call)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(ms) {
				return runtime.Num(ms), nil
			}
			return runtime.Num(0), nil
		}},
		method{"setTime", 1, func(call *runtime.NativeCall) (runtime.Value, error) {
			if _, err := thisDate(call); err != nil {
				return nil, err
			}
			n, err := argNumber(call, 0)
			if err != nil {
				return nil, err
			}
			ms := timeClip(n)
			call.This.(*runtime.Object).Internal = ms
			return runtime.Num(ms), nil
		}},
		method{"toISOString", 0, func(call *runtime.NativeCall) (runtime.Value, error) {
			ms, err := thisDate(call)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(ms) {
				return nil, call.Realm().RangeErrorf("Invalid time value")
			}
			return runtime.Str(runtime.FormatISODate(ms)), nil
		}},
		method{"toJSON", 1, func(call *runtime.NativeCall) (runtime.Value, error) {
			ms, err := thisDate(call)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(ms) {
				return runtime.Null, nil
			}
			return runtime.Str(runtime.FormatISODate(ms)), nil
		}},
		method{"toString", 0, dateFormatter(runtime.FormatDate)},
		method{"toUTCString", 0, dateFormatter(func(ms float64) string {
			return runtime.TimeFromMillis(ms).Format("Mon, 02 Jan 2006 15:04:05 GMT")
		})},
		method{"toDateString", 0, dateFormatter(func(ms float64) string {
			return runtime.TimeFromMillis(ms).Format("Mon Jan 02 2006")
		})},
		method{"toTimeString", 0, dateFormatter(func(ms float64) string {
			return runtime.TimeFromMillis(ms).Format("15:04:05 GMT+0000 (Coordinated Universal Time)")
		})},
		method{"toLocaleDateString", 0, dateFormatter(func(ms float64) string {
			return runtime.TimeFromMillis(ms).Format("1/2/2006")
		})},
		method{"toLocaleTimeString", 0, dateFormatter(func(ms float64) string {
			return runtime.TimeFromMillis(ms).Format("3:04:05 PM")
		})},
		method{"toLocaleString", 0, dateFormatter(func(ms float64) string {
			return runtime.TimeFromMillis(ms).Format("1/2/2006, 3:04:05 PM")
		})},
	)
	defineMethods(realm, realm.DatePrototype, methods)
	g["Date"] = ctor
}

func newDate(realm *runtime.Realm, ms float64) *runtime.Object {
	obj := runtime.NewObject(realm.DatePrototype)
	obj.Class = runtime.ClassDate
	obj.Internal = ms
	return obj
}

func dateConstructor(call *runtime.NativeCall) (runtime.Value, error) {
	now := runtime.MillisFromTime(call.Host.Now())
	if call.NewTarget == nil {
		return runtime.Str(runtime.FormatDate(now)), nil
	}
	switch len(call.Args) {
	case 0:
		return newDate(call.Realm(), now), nil
	case 1:
		arg := call.Args[0]
		if obj, ok := arg.(*runtime.Object); ok && obj.Class == runtime.ClassDate {
			return newDate(call.Realm(), obj.Internal.(float64)), nil
		}
		prim, err := runtime.ToPrimitive(call.Host, arg, runtime.HintDefault)
		if err != nil {
			return nil, err
		}
		if s, ok := prim.(runtime.StringValue); ok {
			ms, _ := runtime.ParseDate(s.Val)
			return newDate(call.Realm(), ms), nil
		}
		return newDate(call.Realm(), timeClip(runtime.ToNumber(prim))), nil
	}
	ms, err := dateFromFields(call)
	if err != nil {
		return nil, err
	}
	return newDate(call.Realm(), ms), nil
}

// dateFromFields reads (year, month[, day, hours, minutes, seconds, ms])
// from the arguments.
func dateFromFields(call *runtime.NativeCall) (float64, error) {
	fields := [7]float64{math.NaN(), 0, 1, 0, 0, 0, 0}
	for idx := 0; idx < len(fields) && idx < len(call.Args); idx++ {
		n, err := argNumber(call, idx)
		if err != nil {
			return 0, err
		}
		fields[idx] = n
	}
	if y := runtime.ToInteger(fields[0]); !math.IsNaN(fields[0]) && y >= 0 && y <= 99 {
		fields[0] = 1900 + y
	}
	return makeTime(fields), nil
}

func makeTime(fields [7]float64) float64 {
	for _, f := range fields {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return math.NaN()
		}
	}
	t := time.Date(int(fields[0]), time.Month(int(fields[1])+1), int(fields[2]),
		int(fields[3]), int(fields[4]), int(fields[5]), 0, time.UTC)
	return timeClip(runtime.MillisFromTime(t) + math.Trunc(fields[6]))
}

func timeClip(ms float64) float64 {
	if math.IsNaN(ms) || math.Abs(ms) > maxTime {
		return math.NaN()
	}
	return runtime.ToInteger(ms) + 0
}

func thisDate(call *runtime.NativeCall) (float64, error) {
	if obj, ok := call.This.(*runtime.Object); ok && obj.Class == runtime.ClassDate {
		if ms, ok := obj.Internal.(float64); ok {
			return ms, nil
		}
	}
	return 0, call.Realm().TypeErrorf("this is not a Date object.")
}

func dateFields(ms float64) [7]float64 {
	t := runtime.TimeFromMillis(ms)
	return [7]float64{
		float64(t.Year()), float64(t.Month() - 1), float64(t.Day()),
		float64(t.Hour()), float64(t.Minute()), float64(t.Second()),
		float64(t.Nanosecond() / int(time.Millisecond)),
	}
}

func dateGetter(part func(time.Time) float64) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		ms, err := thisDate(call)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(ms) {
			return runtime.Num(ms), nil
		}
		return runtime.Num(part(runtime.TimeFromMillis(ms))), nil
	}
}

// dateSetter replaces up to count fields starting at first with the
// arguments and stores the recomputed time value.
func dateSetter(first, count int) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		ms, err := thisDate(call)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(ms) {
			if first != 0 {
				return runtime.Num(ms), nil
			}
			ms = 0
		}
		fields := dateFields(ms)
		if len(call.Args) == 0 {
			fields[first] = math.NaN()
		}
		for idx := 0; idx < count && idx < len(call.Args); idx++ {
			n, err := argNumber(call, idx)
			if err != nil {
				return nil, err
			}
			fields[first+idx] = n
		}
		next := makeTime(fields)
		call.This.(*runtime.Object).Internal = next
		return runtime.Num(next), nil
	}
}

func dateFormatter(format func(ms float64) string) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		ms, err := thisDate(call)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(ms) {
			return runtime.Str("Invalid Date"), nil
		}
		return runtime.Str(format(ms)), nil
	}
}
