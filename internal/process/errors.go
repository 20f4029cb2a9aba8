package process

import "fmt"

// StimelaCabRuntimeError wraps a subprocess's non-zero exit or an
// interrupt/timeout that killed it, per spec.md §7. Message mentions the
// interrupt reason ("Ctrl+C", "timeout") when that's what ended the run, so
// a caller can pattern-match on it (spec.md §8 scenario 6).
type StimelaCabRuntimeError struct {
	Command  string
	ExitCode int
	Reason   string // "", "Ctrl+C", or "timeout"
	Logged   bool
}

func (e *StimelaCabRuntimeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: terminated by %s (exit code %d)", e.Command, e.Reason, e.ExitCode)
	}
	return fmt.Sprintf("%s: exited with code %d", e.Command, e.ExitCode)
}

// StimelaProcessRuntimeError is raised when the supervisor cannot spawn the
// child process at all (missing binary, permission denied, ...).
type StimelaProcessRuntimeError struct {
	Command string
	Err     error
	Logged  bool
}

func (e *StimelaProcessRuntimeError) Error() string {
	return fmt.Sprintf("failed to launch %q: %v", e.Command, e.Err)
}

func (e *StimelaProcessRuntimeError) Unwrap() error { return e.Err }
