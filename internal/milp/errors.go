package milp

import "fmt"

// Kind is the closed set of ways building or solving the model can
// fail.
type Kind int

const (
	// KindConfig marks a problem with the model's inputs themselves:
	// no regular placement candidates at all, fewer arrow blocks than
	// the cluster needs, or a missing Fitts coefficient.
	KindConfig Kind = iota
	// KindInfeasibleModel marks a model with no feasible solution:
	// either a key with positive frequency has no placement candidate,
	// or the backend proved the model infeasible.
	KindInfeasibleModel
	// KindNonIntegralSolution marks a backend answer whose binary
	// variables did not settle cleanly on either side of the
	// solution threshold.
	KindNonIntegralSolution
	// KindSolverError marks a backend-internal failure unrelated to
	// feasibility (e.g. a numerical failure in the LP relaxation).
	KindSolverError
	// KindSolverTimeout marks a backend run that exhausted its time
	// budget before proving optimality or infeasibility.
	KindSolverTimeout
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "Config"
	case KindInfeasibleModel:
		return "InfeasibleModel"
	case KindNonIntegralSolution:
		return "NonIntegralSolution"
	case KindSolverError:
		return "SolverError"
	case KindSolverTimeout:
		return "SolverTimeout"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// OptError is the error type internal/milp, its backends, and
// internal/solve return: a closed failure Kind plus a human-readable
// message and an optional wrapped cause.
type OptError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *OptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *OptError) Unwrap() error { return e.Err }

// newErr constructs an OptError of the given kind.
func newErr(kind Kind, msg string, cause error) *OptError {
	return &OptError{Kind: kind, Msg: msg, Err: cause}
}

// ConfigError reports a problem with the model's own inputs.
func ConfigError(msg string, cause error) *OptError {
	return newErr(KindConfig, msg, cause)
}

// InfeasibleModelError reports a backend-proven infeasibility.
func InfeasibleModelError(msg string) *OptError {
	return newErr(KindInfeasibleModel, msg, nil)
}

// NonIntegralSolutionError reports a solution that failed the
// integrality threshold check.
func NonIntegralSolutionError(msg string) *OptError {
	return newErr(KindNonIntegralSolution, msg, nil)
}

// SolverError reports a backend-internal failure.
func SolverError(msg string, cause error) *OptError {
	return newErr(KindSolverError, msg, cause)
}

// SolverTimeoutError reports a backend run that exhausted its time
// budget.
func SolverTimeoutError(msg string) *OptError {
	return newErr(KindSolverTimeout, msg, nil)
}
