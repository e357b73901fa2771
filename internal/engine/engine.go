package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bitrig/bitrig-xenocara/internal/config"
	"github.com/bitrig/bitrig-xenocara/internal/pipe"
	"github.com/bitrig/bitrig-xenocara/internal/present"
	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// ErrStopped is returned by HandleCall for a call past the stop threshold.
// It is a clean end of replay, not a failure.
var ErrStopped = errors.New("stop threshold reached")

// Engine interprets a trace call by call against a backend.
//
// Calls must arrive in strictly increasing call-number order. The object
// table and all wrapper state belong to the goroutine calling HandleCall;
// an Engine is not safe for concurrent use.
type Engine struct {
	driver     pipe.Driver
	opts       config.Options
	objects    *ObjectTable
	translator *Translator
	global     *Global

	logger    *slog.Logger
	out       io.Writer
	presenter present.Presenter

	// callNo is the call being interpreted, 0 between calls.
	callNo uint64
	// lastNo is the number of the last call handled or skipped.
	lastNo uint64
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithLogger sets the logger for warnings and lifecycle records.
// Default: slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithOutput sets where call echo and dumps are written.
// Default: os.Stdout.
func WithOutput(w io.Writer) EngineOption {
	return func(e *Engine) {
		e.out = w
	}
}

// WithPresenter sets the diagnostic sink for presented frames. Without a
// presenter nothing is read back.
func WithPresenter(p present.Presenter) EngineOption {
	return func(e *Engine) {
		e.presenter = p
	}
}

// New creates an Engine replaying against driver with the given options.
func New(driver pipe.Driver, opts config.Options, options ...EngineOption) *Engine {
	objects := NewObjectTable()
	e := &Engine{
		driver:     driver,
		opts:       opts,
		objects:    objects,
		translator: NewTranslator(objects),
		logger:     slog.Default(),
		out:        os.Stdout,
	}
	e.global = &Global{engine: e}

	for _, opt := range options {
		opt(e)
	}
	return e
}

// Objects returns the object table.
func (e *Engine) Objects() *ObjectTable { return e.objects }

// Global returns the target of free-function calls.
func (e *Engine) Global() *Global { return e.global }

// Options returns the replay options.
func (e *Engine) Options() config.Options { return e.opts }

// Result summarizes a replay.
type Result struct {
	// Dispatched counts calls that were interpreted.
	Dispatched int
	// Skipped counts ignored calls.
	Skipped int
	// LastCall is the number of the last call dispatched or skipped.
	LastCall uint64
	// Stopped is true when replay ended at the stop threshold.
	Stopped bool
}

// Replay interprets every call of src in order.
//
// It returns at the end of the trace, at the stop threshold (with
// Result.Stopped set and a nil error), on the first failing call, or when
// ctx is done. Cancellation is checked between calls.
func (e *Engine) Replay(ctx context.Context, src trace.Source) (Result, error) {
	var res Result
	e.logger.Info("replay starting", "start", e.opts.Start, "stop", e.opts.Stop)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		call, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read trace: %w", err)
		}

		dispatched, err := e.handle(call)
		if errors.Is(err, ErrStopped) {
			res.Stopped = true
			e.logger.Info("replay stopped", "call", call.No, "stop", e.opts.Stop)
			return res, nil
		}
		if err != nil {
			return res, err
		}
		if dispatched {
			res.Dispatched++
		} else {
			res.Skipped++
		}
		res.LastCall = call.No
	}

	e.logger.Info("replay finished", "dispatched", res.Dispatched, "skipped", res.Skipped)
	return res, nil
}

// HandleCall interprets one call. It returns ErrStopped without doing
// anything when the call is past the stop threshold.
func (e *Engine) HandleCall(call trace.Call) error {
	_, err := e.handle(call)
	return err
}

// handle reports whether the call was dispatched rather than ignored.
func (e *Engine) handle(call trace.Call) (bool, error) {
	if e.opts.Stop != 0 && call.No > e.opts.Stop {
		return false, ErrStopped
	}
	if call.No <= e.lastNo {
		return false, withCall(newError(ErrCodeOutOfOrder,
			"call number %d is not greater than previous call %d", call.No, e.lastNo), call)
	}
	e.lastNo = call.No

	if ignored[[2]string{call.Class, call.Method}] {
		return false, nil
	}

	e.callNo = call.No
	defer func() { e.callNo = 0 }()

	if e.opts.Verbose(1) {
		fmt.Fprintln(e.out, trace.FormatCall(call))
	}

	if err := e.dispatch(call); err != nil {
		return true, withCall(err, call)
	}
	return true, nil
}

func (e *Engine) dispatch(call trace.Call) error {
	args := make(Args, 0, len(call.Args))
	for _, a := range call.Args {
		v, err := e.translator.Translate(a.Value)
		if err != nil {
			return prefixError(err, fmt.Sprintf("argument %q", a.Name))
		}
		args = append(args, NamedValue{Name: a.Name, Value: v})
	}

	target, args, err := e.resolveTarget(call, args)
	if err != nil {
		return err
	}

	ret, err := target.Invoke(call.Method, args)
	if err != nil {
		return err
	}

	if p, ok := call.ReturnsPointer(); ok {
		if isNil(ret) {
			e.logger.Warn("NULL returned", "call", call.No, "method", call.QualifiedName(),
				"address", trace.FormatAddress(p.Address))
			ret = nil
		}
		e.objects.Register(p.Address, ret)
	}
	return nil
}

// resolveTarget picks the object a call is dispatched to: the global
// object for free functions, the first argument for methods.
func (e *Engine) resolveTarget(call trace.Call, args Args) (Target, Args, error) {
	if call.Class == ClassGlobal {
		return e.global, args, nil
	}
	if len(args) == 0 {
		return nil, nil, badArgument("method call without a target object")
	}

	this := args[0]
	if this.Value == nil {
		return nil, nil, badArgument("target %s is NULL", this.Name)
	}
	target, ok := this.Value.(Target)
	if !ok {
		return nil, nil, badArgument("target %s is %T, not a %s", this.Name, this.Value, call.Class)
	}
	if target.Class() != call.Class {
		return nil, nil, badArgument("target %s is a %s, not a %s", this.Name, target.Class(), call.Class)
	}
	return target, args[1:], nil
}

// isNil reports whether v is nil or a typed nil pointer, slice or map
// stored in an interface.
func isNil(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *Screen:
		return x == nil
	case *Context:
		return x == nil
	case *Transfer:
		return x == nil
	case *pipe.Surface:
		return x == nil
	case *pipe.SamplerView:
		return x == nil
	case *pipe.Shader:
		return x == nil
	case []*pipe.VertexElement:
		return x == nil
	}
	return false
}
