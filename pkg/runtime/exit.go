package runtime

import (
	"errors"
	"fmt"
)

// ExitSignal carries a requested process exit through code paths that must
// not terminate the host, such as tests and the fixture runner.
type ExitSignal struct {
	Code int
}

func (e ExitSignal) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// ExitCodeFromError returns the exit code if err is an exit signal.
func ExitCodeFromError(err error) (int, bool) {
	var sig ExitSignal
	if errors.As(err, &sig) {
		return sig.Code, true
	}
	return 0, false
}
