package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

const (
	defaultMaxCallDepth = 10000
	defaultMaxTimerRuns = 10000
)

// GlobalsFunc builds the default-bindings table for a fresh realm. Every
// entry is bound immutably in the root environment.
type GlobalsFunc func(realm *runtime.Realm) map[string]runtime.Value

// Budget bounds the resources one execution may use. Zero fields select the
// defaults; MaxSteps of zero means unlimited.
type Budget struct {
	MaxCallDepth int
	MaxTimerRuns int
	// MaxSteps caps loop iterations plus function calls.
	MaxSteps int
}

type Options struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Globals GlobalsFunc
	Budget  Budget
	// Context cancels evaluation; checked on every loop iteration and call.
	Context context.Context
	// Now is the wall clock seen by Date; timers advance a virtual offset on top.
	Now func() time.Time
}

// Interpreter evaluates one program. It is not safe for concurrent use and
// is discarded after Execute returns.
type Interpreter struct {
	opts   Options
	realm  *runtime.Realm
	root   *runtime.Environment
	module *runtime.Object
	timers *timerQueue
	ctx    context.Context
	start  time.Time
	depth  int
	steps  int
}

// New prepares an interpreter with a fresh realm and root environment.
func New(opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Budget.MaxCallDepth <= 0 {
		opts.Budget.MaxCallDepth = defaultMaxCallDepth
	}
	if opts.Budget.MaxTimerRuns <= 0 {
		opts.Budget.MaxTimerRuns = defaultMaxTimerRuns
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	i := &Interpreter{
		opts:   opts,
		realm:  runtime.NewRealm(),
		timers: newTimerQueue(),
		ctx:    ctx,
		start:  opts.Now(),
	}
	return i
}

// Execute runs program with a fresh interpreter and returns the final value
// of module.exports. External bindings may be runtime values or plain Go
// data accepted by runtime.FromGo.
func Execute(program *ast.Program, external map[string]any, opts Options) (runtime.Value, error) {
	return New(opts).Execute(program, external)
}

// Execute seeds the root environment, evaluates program, drains pending
// timers and returns module.exports. Uncaught throws surface as
// *runtime.ThrowError; interpreter gaps as *FatalError.
func (i *Interpreter) Execute(program *ast.Program, external map[string]any) (result runtime.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("interpreter: panic: %v", r)
		}
	}()
	if program == nil {
		return nil, fmt.Errorf("interpreter: nil program")
	}
	if err := i.seedRoot(external); err != nil {
		return nil, err
	}
	if _, err := i.evaluateProgram(program, i.root); err != nil {
		return nil, err
	}
	if err := i.flushTimers(); err != nil {
		return nil, err
	}
	return i.Get(i.module, "exports")
}

// Realm exposes the interpreter's intrinsics.
func (i *Interpreter) Realm() *runtime.Realm { return i.realm }

// RootEnvironment returns the root scope (valid after Execute started).
func (i *Interpreter) RootEnvironment() *runtime.Environment { return i.root }

func (i *Interpreter) seedRoot(external map[string]any) error {
	root := runtime.NewEnvironment(nil, runtime.ScopeRoot)
	root.Define("this", runtime.Immutable, runtime.Null)
	root.Define("undefined", runtime.Immutable, runtime.Undefined)
	root.Define("NaN", runtime.Immutable, runtime.Num(nan()))
	root.Define("Infinity", runtime.Immutable, runtime.Num(inf()))
	if i.opts.Globals != nil {
		for name, value := range i.opts.Globals(i.realm) {
			root.Define(name, runtime.Immutable, value)
		}
	}
	for name, raw := range external {
		value, err := runtime.FromGo(i.realm, raw)
		if err != nil {
			return fmt.Errorf("interpreter: external binding %q: %w", name, err)
		}
		root.Define(name, runtime.Immutable, value)
	}
	exports := i.realm.NewObject()
	module := i.realm.NewObject()
	module.Put("exports", exports)
	root.Define("module", runtime.Immutable, module)
	root.Define("exports", runtime.Mutable, exports)
	i.root = root
	i.module = module
	return nil
}

//-----------------------------------------------------------------------------
// Dispatch
//-----------------------------------------------------------------------------

type handlerFunc func(i *Interpreter, node ast.Node, env *runtime.Environment) (runtime.Value, error)

// handle adapts a typed handler to the dispatch table signature.
func handle[T ast.Node](fn func(*Interpreter, T, *runtime.Environment) (runtime.Value, error)) handlerFunc {
	return func(i *Interpreter, node ast.Node, env *runtime.Environment) (runtime.Value, error) {
		typed, ok := node.(T)
		if !ok {
			return nil, fatalf(FatalUnsupportedNodeKind, node, "no handler for %s with shape %T", node.NodeType(), node)
		}
		return fn(i, typed, env)
	}
}

var handlers map[ast.NodeType]handlerFunc

func init() {
	handlers = map[ast.NodeType]handlerFunc{
		ast.NodeProgram:                 handle((*Interpreter).evaluateProgram),
		ast.NodeExpressionStatement:     handle((*Interpreter).evaluateExpressionStatement),
		ast.NodeBlockStatement:          handle((*Interpreter).evaluateBlockStatement),
		ast.NodeEmptyStatement:          handle((*Interpreter).evaluateEmptyStatement),
		ast.NodeDebuggerStatement:       handle((*Interpreter).evaluateDebuggerStatement),
		ast.NodeWithStatement:           handle((*Interpreter).evaluateWithStatement),
		ast.NodeReturnStatement:         handle((*Interpreter).evaluateReturnStatement),
		ast.NodeBreakStatement:          handle((*Interpreter).evaluateBreakStatement),
		ast.NodeContinueStatement:       handle((*Interpreter).evaluateContinueStatement),
		ast.NodeIfStatement:             handle((*Interpreter).evaluateIfStatement),
		ast.NodeSwitchStatement:         handle((*Interpreter).evaluateSwitchStatement),
		ast.NodeThrowStatement:          handle((*Interpreter).evaluateThrowStatement),
		ast.NodeTryStatement:            handle((*Interpreter).evaluateTryStatement),
		ast.NodeWhileStatement:          handle((*Interpreter).evaluateWhileStatement),
		ast.NodeDoWhileStatement:        handle((*Interpreter).evaluateDoWhileStatement),
		ast.NodeForStatement:            handle((*Interpreter).evaluateForStatement),
		ast.NodeForInStatement:          handle((*Interpreter).evaluateForInStatement),
		ast.NodeForOfStatement:          handle((*Interpreter).evaluateForOfStatement),
		ast.NodeVariableDeclaration:     handle((*Interpreter).evaluateVariableDeclaration),
		ast.NodeFunctionDeclaration:     handle((*Interpreter).evaluateFunctionDeclaration),
		ast.NodeIdentifier:              handle((*Interpreter).evaluateIdentifier),
		ast.NodeLiteral:                 handle((*Interpreter).evaluateLiteral),
		ast.NodeThisExpression:          handle((*Interpreter).evaluateThisExpression),
		ast.NodeArrayExpression:         handle((*Interpreter).evaluateArrayExpression),
		ast.NodeObjectExpression:        handle((*Interpreter).evaluateObjectExpression),
		ast.NodeFunctionExpression:      handle((*Interpreter).evaluateFunctionExpression),
		ast.NodeArrowFunctionExpression: handle((*Interpreter).evaluateArrowFunctionExpression),
		ast.NodeUnaryExpression:         handle((*Interpreter).evaluateUnaryExpression),
		ast.NodeUpdateExpression:        handle((*Interpreter).evaluateUpdateExpression),
		ast.NodeBinaryExpression:        handle((*Interpreter).evaluateBinaryExpression),
		ast.NodeLogicalExpression:       handle((*Interpreter).evaluateLogicalExpression),
		ast.NodeAssignmentExpression:    handle((*Interpreter).evaluateAssignmentExpression),
		ast.NodeMemberExpression:        handle((*Interpreter).evaluateMemberExpression),
		ast.NodeChainExpression:         handle((*Interpreter).evaluateChainExpression),
		ast.NodeConditionalExpression:   handle((*Interpreter).evaluateConditionalExpression),
		ast.NodeCallExpression:          handle((*Interpreter).evaluateCallExpression),
		ast.NodeNewExpression:           handle((*Interpreter).evaluateNewExpression),
		ast.NodeSequenceExpression:      handle((*Interpreter).evaluateSequenceExpression),
		ast.NodeTemplateLiteral:         handle((*Interpreter).evaluateTemplateLiteral),

		ast.NodeLabeledStatement:         unsupported("labeled statements"),
		ast.NodeClassDeclaration:         unsupported("classes"),
		ast.NodeTaggedTemplateExpression: unsupported("tagged templates"),
	}
}

// unsupported rejects node kinds the language recognises but this evaluator
// does not implement.
func unsupported(feature string) handlerFunc {
	return func(i *Interpreter, node ast.Node, env *runtime.Environment) (runtime.Value, error) {
		return nil, fatalf(FatalUnsupportedFeature, node, "%s are not supported", feature)
	}
}

// evaluate dispatches node to its handler. Unknown kinds are fatal.
func (i *Interpreter) evaluate(node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	if node == nil {
		return runtime.Undefined, nil
	}
	h, ok := handlers[node.NodeType()]
	if !ok {
		return nil, fatalf(FatalUnsupportedNodeKind, node, "unsupported node kind %s", node.NodeType())
	}
	return h(i, node, env)
}

//-----------------------------------------------------------------------------
// Signals and fatal errors
//-----------------------------------------------------------------------------

type SignalKind int

const (
	SignalBreak SignalKind = iota
	SignalContinue
	SignalReturn
)

func (k SignalKind) String() string {
	switch k {
	case SignalBreak:
		return "break"
	case SignalContinue:
		return "continue"
	case SignalReturn:
		return "return"
	default:
		return fmt.Sprintf("signal_%d", int(k))
	}
}

// Signal interrupts statement evaluation. It travels on the error channel
// until the construct that understands it consumes it.
type Signal struct {
	Kind  SignalKind
	Label string
	Value runtime.Value
}

func (s *Signal) Error() string {
	if s.Label != "" {
		return fmt.Sprintf("%s %s", s.Kind, s.Label)
	}
	return s.Kind.String()
}

func asSignal(err error) (*Signal, bool) {
	sig, ok := err.(*Signal)
	return sig, ok
}

type FatalKind string

const (
	FatalUnsupportedNodeKind FatalKind = "UnsupportedNodeKind"
	FatalUnsupportedFeature  FatalKind = "UnsupportedFeature"
	FatalUnknownOperator     FatalKind = "UnknownOperator"
	FatalInvalidProgram      FatalKind = "InvalidProgram"
	FatalBudgetExceeded      FatalKind = "BudgetExceeded"
	FatalCancelled           FatalKind = "Cancelled"
)

// FatalError reports an interpreter-level failure. Interpreted try/catch never
// sees it; finally blocks still run while it unwinds.
type FatalError struct {
	Kind     FatalKind
	NodeType ast.NodeType
	Message  string
	Loc      *ast.SourceLocation
	Err      error
}

func (e *FatalError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Loc != nil {
		msg += fmt.Sprintf(" (at %d:%d)", e.Loc.Start.Line, e.Loc.Start.Column)
	}
	return msg
}

func (e *FatalError) Unwrap() error { return e.Err }

func fatalf(kind FatalKind, node ast.Node, format string, args ...any) *FatalError {
	fe := &FatalError{Kind: kind, Message: fmt.Sprintf(format, args...)}
	if node != nil {
		fe.NodeType = node.NodeType()
		fe.Loc = node.Location()
	}
	return fe
}

// IsFatal reports whether err carries a FatalError of the given kind.
func IsFatal(err error, kind FatalKind) bool {
	var fe *FatalError
	return errors.As(err, &fe) && fe.Kind == kind
}

// tick charges one step against the budget and polls the context.
func (i *Interpreter) tick(node ast.Node) error {
	if err := i.ctx.Err(); err != nil {
		fe := fatalf(FatalCancelled, node, "evaluation cancelled: %v", err)
		fe.Err = err
		return fe
	}
	if i.opts.Budget.MaxSteps > 0 {
		i.steps++
		if i.steps > i.opts.Budget.MaxSteps {
			return fatalf(FatalBudgetExceeded, node, "step budget of %d exhausted", i.opts.Budget.MaxSteps)
		}
	}
	return nil
}

//-----------------------------------------------------------------------------
// Host surface for native functions
//-----------------------------------------------------------------------------

var _ runtime.Host = (*Interpreter)(nil)

func (i *Interpreter) Call(fn runtime.Value, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return i.callFunction(fn, this, args, nil)
}

func (i *Interpreter) Construct(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return i.construct(fn, args)
}

func (i *Interpreter) Get(target runtime.Value, key string) (runtime.Value, error) {
	return i.getMember(target, key)
}

func (i *Interpreter) Set(target runtime.Value, key string, value runtime.Value) error {
	return i.setMember(target, key, value)
}

func (i *Interpreter) Stdout() io.Writer { return i.opts.Stdout }

func (i *Interpreter) Stderr() io.Writer { return i.opts.Stderr }

// Now is the configured clock advanced by the virtual timer offset.
func (i *Interpreter) Now() time.Time {
	return i.start.Add(time.Duration(i.timers.now * float64(time.Millisecond)))
}

func (i *Interpreter) Schedule(fn runtime.Value, args []runtime.Value, delay float64, repeat bool) int {
	return i.timers.schedule(fn, args, delay, repeat)
}

func (i *Interpreter) Cancel(id int) {
	i.timers.cancel(id)
}
