package kernel

import (
	"fmt"

	"github.com/go-kit/log/level"

	"able/kernel-go/pkg/config"
	"able/kernel-go/pkg/runtime"
)

const (
	faultIndex      = "index"
	faultAllocation = "allocation"
	faultHandle     = "handle"
)

// fault applies the configured policy to a container misuse. Callers hold
// k.mu. Under FaultAbort the diagnostic goes to stderr verbatim before exit.
func (k *Kernel) fault(kind string, err error, diagnostic string) error {
	k.metrics.ObserveFault(kind)
	level.Error(k.logger).Log("msg", "container fault", "kind", kind, "policy", string(k.cfg.FaultPolicy), "err", err)
	if k.cfg.FaultPolicy != config.FaultAbort {
		return err
	}
	fmt.Fprintln(k.stderr, diagnostic)
	k.exit(k.cfg.FaultExitCode)
	return fmt.Errorf("%w: %w", runtime.ExitSignal{Code: k.cfg.FaultExitCode}, err)
}
