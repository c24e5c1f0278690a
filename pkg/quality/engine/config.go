package engine

import "fmt"

const (
	// DefaultMaxFailedIndices bounds the failing-record positions kept per
	// rule so a rule that fails everywhere cannot balloon the report.
	DefaultMaxFailedIndices = 1000

	// DefaultParallelThreshold is the dataset size below which batch
	// evaluation stays single-goroutine. Small batches are not worth the
	// fan-out.
	DefaultParallelThreshold = 10000
)

// Config tunes batch evaluation. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// MaxFailedIndices caps how many failing record positions each
	// RuleResult retains.
	MaxFailedIndices int `yaml:"max_failed_indices" json:"max_failed_indices"`

	// Parallelism is the number of worker goroutines for large batches.
	// Zero or one disables parallel evaluation.
	Parallelism int `yaml:"parallelism" json:"parallelism"`

	// ParallelThreshold is the minimum record count before a batch is
	// sharded across workers.
	ParallelThreshold int `yaml:"parallel_threshold" json:"parallel_threshold"`
}

// DefaultConfig returns the tuning used when configuration says nothing.
func DefaultConfig() Config {
	return Config{
		MaxFailedIndices:  DefaultMaxFailedIndices,
		Parallelism:       1,
		ParallelThreshold: DefaultParallelThreshold,
	}
}

// Validate rejects settings that would corrupt evaluation.
func (c Config) Validate() error {
	if c.MaxFailedIndices < 0 {
		return fmt.Errorf("max_failed_indices must be >= 0, got %d", c.MaxFailedIndices)
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism must be >= 0, got %d", c.Parallelism)
	}
	if c.ParallelThreshold < 0 {
		return fmt.Errorf("parallel_threshold must be >= 0, got %d", c.ParallelThreshold)
	}
	return nil
}
