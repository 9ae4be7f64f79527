// Package kernel exposes the runtime containers to generated code through an
// integer handle table. Every entry point takes the kernel lock, so one
// Kernel may be shared between goroutines even though the containers it
// owns are single-owner.
package kernel

import (
	"io"
	"os"
	"sync"

	"github.com/go-kit/log"

	"able/kernel-go/pkg/bytestr"
	"able/kernel-go/pkg/config"
	"able/kernel-go/pkg/list"
	"able/kernel-go/pkg/metrics"
	"able/kernel-go/pkg/runtime"
)

type Kernel struct {
	mu      sync.Mutex
	cfg     config.Config
	logger  log.Logger
	metrics *metrics.Metrics
	stderr  io.Writer
	exit    func(int)

	nextHandle int64
	lists      map[int64]*list.List[runtime.Value]
	strings    map[int64]bytestr.String
}

type Option func(*Kernel)

func WithLogger(logger log.Logger) Option {
	return func(k *Kernel) {
		if logger != nil {
			k.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(k *Kernel) { k.metrics = m }
}

// WithStderr redirects fatal diagnostics.
func WithStderr(w io.Writer) Option {
	return func(k *Kernel) {
		if w != nil {
			k.stderr = w
		}
	}
}

// WithExit replaces os.Exit on the abort path. If the replacement returns,
// the faulting call returns a runtime.ExitSignal instead.
func WithExit(exit func(int)) Option {
	return func(k *Kernel) {
		if exit != nil {
			k.exit = exit
		}
	}
}

// New builds a kernel for cfg. cfg is expected to be validated. An empty
// fault policy means config.FaultAbort, and an abort exit code of zero means
// the default exit code.
func New(cfg config.Config, opts ...Option) *Kernel {
	def := config.Default()
	if cfg.FaultPolicy == "" {
		cfg.FaultPolicy = def.FaultPolicy
	}
	if cfg.FaultPolicy == config.FaultAbort && cfg.FaultExitCode == 0 {
		cfg.FaultExitCode = def.FaultExitCode
	}
	k := &Kernel{
		cfg:        cfg,
		logger:     log.NewNopLogger(),
		stderr:     os.Stderr,
		exit:       os.Exit,
		nextHandle: 1,
		lists:      make(map[int64]*list.List[runtime.Value]),
		strings:    make(map[int64]bytestr.String),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Config returns the settings the kernel was built with.
func (k *Kernel) Config() config.Config {
	return k.cfg
}

// Counts reports the number of live lists and strings.
func (k *Kernel) Counts() (lists int, strings int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.lists), len(k.strings)
}

func (k *Kernel) allocHandle() int64 {
	handle := k.nextHandle
	k.nextHandle++
	return handle
}
