package stats

import "fmt"

// InvalidParameterError means a distribution or model parameter is outside
// its domain (e.g. negative standard deviation, non-positive rate).
type InvalidParameterError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q = %v: %s", e.Param, e.Value, e.Reason)
}

// InsufficientDataError means a sample was too small for the requested
// computation. Stage names the computation so the caller can tell which
// input was undersized.
type InsufficientDataError struct {
	Stage string
	Size  int
	Min   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: got %d values, need at least %d", e.Stage, e.Size, e.Min)
}

// ModelDivergenceError means the posterior sampler hit a non-finite density
// after warmup. It is a modeling signal, never retried.
type ModelDivergenceError struct {
	Chain     int
	Iteration int
	Detail    string
}

func (e *ModelDivergenceError) Error() string {
	return fmt.Sprintf("posterior sampler diverged on chain %d iteration %d: %s", e.Chain, e.Iteration, e.Detail)
}
