package fixtures

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"able/kernel-go/pkg/kernel"
	"able/kernel-go/pkg/metrics"
	"able/kernel-go/pkg/runtime"
)

// Result is the outcome of one scenario.
type Result struct {
	Scenario string
	Failures []string
	// Exited is set when a step hit the abort path; later steps are skipped.
	Exited   bool
	ExitCode int
	Stderr   string
}

func (r Result) Passed() bool { return len(r.Failures) == 0 }

type RunOption func(*runOptions)

type runOptions struct {
	logger  log.Logger
	metrics *metrics.Metrics
}

func WithLogger(logger log.Logger) RunOption {
	return func(o *runOptions) { o.logger = logger }
}

func WithMetrics(m *metrics.Metrics) RunOption {
	return func(o *runOptions) { o.metrics = m }
}

type runState struct {
	kernel *kernel.Kernel
	refs   map[string]int64
	hosts  map[string]*runtime.HostHandleValue
	stderr bytes.Buffer
	exits  []int
}

// Run executes sc against a fresh kernel.
func Run(sc *Scenario, opts ...RunOption) Result {
	o := runOptions{logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	state := &runState{
		refs:  make(map[string]int64),
		hosts: make(map[string]*runtime.HostHandleValue),
	}
	state.kernel = kernel.New(sc.Config,
		kernel.WithLogger(o.logger),
		kernel.WithMetrics(o.metrics),
		kernel.WithStderr(&state.stderr),
		kernel.WithExit(func(code int) { state.exits = append(state.exits, code) }),
	)

	result := Result{Scenario: sc.Name}
	for idx, step := range sc.Steps {
		err := state.run(step)
		if err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("step %d (%s): %v", idx, step.Op, err))
		}
		if len(state.exits) > 0 {
			result.Exited = true
			result.ExitCode = state.exits[0]
			if idx < len(sc.Steps)-1 {
				level.Debug(o.logger).Log("msg", "scenario exited early", "scenario", sc.Name, "step", idx, "skipped", len(sc.Steps)-idx-1)
			}
			break
		}
	}
	result.Stderr = state.stderr.String()
	return result
}

func (s *runState) handle(name string) (int64, error) {
	h, ok := s.refs[name]
	if !ok {
		return 0, fmt.Errorf("unknown ref %q", name)
	}
	return h, nil
}

func (s *runState) value(spec *ValueSpec) (runtime.Value, error) {
	switch {
	case spec == nil || spec.Nil:
		return runtime.NilValue{}, nil
	case spec.Bool != nil:
		return runtime.BoolValue{Val: *spec.Bool}, nil
	case spec.Int != nil:
		return runtime.IntegerValue{Val: *spec.Int}, nil
	case spec.Byte != "":
		if len(spec.Byte) != 1 {
			return nil, fmt.Errorf("byte value must be a single byte, got %q", spec.Byte)
		}
		return runtime.ByteValue{Val: spec.Byte[0]}, nil
	case spec.List != "":
		h, err := s.handle(spec.List)
		if err != nil {
			return nil, err
		}
		return runtime.ListValue{Handle: h}, nil
	case spec.String != "":
		h, err := s.handle(spec.String)
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Handle: h}, nil
	case spec.Host != "":
		host, ok := s.hosts[spec.Host]
		if !ok {
			host = &runtime.HostHandleValue{HandleType: spec.Host}
			s.hosts[spec.Host] = host
		}
		return host, nil
	default:
		return runtime.NilValue{}, nil
	}
}

func (s *runState) run(step Step) error {
	var (
		err    error
		gotInt *int
		gotVal runtime.Value
		gotB   *byte
		gotStr *int64
	)
	switch step.Op {
	case OpListNew:
		s.refs[step.Ref] = s.kernel.ListNew()
	case OpListAppend:
		var h int64
		if h, err = s.handle(step.Target); err != nil {
			return err
		}
		var v runtime.Value
		if v, err = s.value(step.Value); err != nil {
			return err
		}
		err = s.kernel.ListAppend(h, v)
	case OpListAt:
		var h int64
		if h, err = s.handle(step.Target); err != nil {
			return err
		}
		gotVal, err = s.kernel.ListAt(h, step.Index)
	case OpListLen:
		var h int64
		if h, err = s.handle(step.Target); err != nil {
			return err
		}
		var n int
		n, err = s.kernel.ListLen(h)
		gotInt = &n
	case OpStringNew:
		var h int64
		h, err = s.kernel.StringNew([]byte(step.Text))
		if err == nil {
			s.refs[step.Ref] = h
			gotStr = &h
		}
	case OpStringAdd:
		var h int64
		if h, err = s.handle(step.Target); err != nil {
			return err
		}
		var out int64
		out, err = s.kernel.StringAdd(h, []byte(step.Text))
		if err == nil {
			s.refs[step.Ref] = out
			gotStr = &out
		}
	case OpStringConcat:
		var h, other int64
		if h, err = s.handle(step.Target); err != nil {
			return err
		}
		if other, err = s.handle(step.Other); err != nil {
			return err
		}
		var out int64
		out, err = s.kernel.StringConcat(h, other)
		if err == nil {
			s.refs[step.Ref] = out
			gotStr = &out
		}
	case OpStringLength:
		var h int64
		if h, err = s.handle(step.Target); err != nil {
			return err
		}
		var n int
		n, err = s.kernel.StringLength(h)
		gotInt = &n
	case OpStringAt:
		var h int64
		if h, err = s.handle(step.Target); err != nil {
			return err
		}
		var b byte
		b, err = s.kernel.StringAt(h, step.Index)
		gotB = &b
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	if checkErr := checkError(step, err); checkErr != nil {
		return checkErr
	}
	if err != nil {
		return s.checkStderr(step)
	}
	if step.Expect != nil {
		want, verr := s.value(step.Expect)
		if verr != nil {
			return verr
		}
		if !runtime.Equal(gotVal, want) {
			return fmt.Errorf("got %s, want %s", runtime.Describe(gotVal), runtime.Describe(want))
		}
	}
	if step.ExpectInt != nil {
		if gotInt == nil {
			return fmt.Errorf("expect_int is not supported by %s", step.Op)
		}
		if *gotInt != *step.ExpectInt {
			return fmt.Errorf("got %d, want %d", *gotInt, *step.ExpectInt)
		}
	}
	if step.ExpectByte != "" {
		if gotB == nil {
			return fmt.Errorf("expect_byte is not supported by %s", step.Op)
		}
		if *gotB != step.ExpectByte[0] {
			return fmt.Errorf("got byte %q, want %q", *gotB, step.ExpectByte[0])
		}
	}
	if step.ExpectText != nil {
		if gotStr == nil {
			return fmt.Errorf("expect_text is not supported by %s", step.Op)
		}
		data, berr := s.kernel.StringBytes(*gotStr)
		if berr != nil {
			return berr
		}
		if string(data) != *step.ExpectText {
			return fmt.Errorf("got text %q, want %q", data, *step.ExpectText)
		}
	}
	return s.checkStderr(step)
}

func (s *runState) checkStderr(step Step) error {
	if step.ExpectStderr == "" {
		return nil
	}
	if got := s.stderr.String(); got != step.ExpectStderr {
		return fmt.Errorf("stderr = %q, want %q", got, step.ExpectStderr)
	}
	return nil
}

func checkError(step Step, err error) error {
	if step.ExpectError == "" {
		if err != nil {
			return fmt.Errorf("unexpected error: %w", err)
		}
		return nil
	}
	if err == nil {
		return fmt.Errorf("expected %s error, got none", step.ExpectError)
	}
	var target error
	switch step.ExpectError {
	case "index":
		target = runtime.ErrIndexOutOfRange
	case "allocation":
		target = runtime.ErrAllocation
	case "handle":
		target = runtime.ErrUnknownHandle
	case "exit":
		if _, ok := runtime.ExitCodeFromError(err); ok {
			return nil
		}
		return fmt.Errorf("expected exit, got %v", err)
	}
	if !errors.Is(err, target) {
		return fmt.Errorf("expected %s error, got %v", step.ExpectError, err)
	}
	return nil
}
