package rv32

import "fmt"

// SetupStage names the phase of Setup a SetupError occurred in.
type SetupStage string

const (
	StageFont SetupStage = "font"
	StageROM  SetupStage = "rom"
	StageDTB  SetupStage = "dtb"
)

// SetupError reports a problem encountered while assembling a session's
// initial state. These are tolerated rather than fatal — the session
// proceeds with whatever was loaded — but a caller that wants to fail
// closed can use errors.As to find a *SetupError in Setup's returned
// error and abort before ever calling Step.
type SetupError struct {
	Stage SetupStage
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("rv32: setup: %s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// setupErrors accumulates zero or more SetupErrors across a single Setup
// call. Setup always proceeds regardless of how many are recorded.
type setupErrors []*SetupError

func (s *setupErrors) add(stage SetupStage, err error) {
	*s = append(*s, &SetupError{Stage: stage, Err: err})
}

// join collapses the accumulated errors into a single error value (nil if
// none were recorded) using errors.Join-style semantics without pulling in
// a wrapping multi-error type the caller would need to unwrap manually.
func (s setupErrors) join() error {
	if len(s) == 0 {
		return nil
	}
	if len(s) == 1 {
		return s[0]
	}
	msg := "rv32: setup: multiple failures:"
	args := make([]any, 0, len(s))
	for _, e := range s {
		msg += "\n  - %w"
		args = append(args, e)
	}
	return fmt.Errorf(msg, args...)
}
