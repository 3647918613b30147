package dataset

import "fmt"

// ConfigError reports an invalid build parameter: a window length no
// window can be produced for, or a horizon index outside the benchmark's
// label columns. It marks a programming fault, never a condition to retry.
type ConfigError struct {
	Param  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %d: %s", e.Param, e.Value, e.Reason)
}
