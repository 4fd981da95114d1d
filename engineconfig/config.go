// Package engineconfig implements engine-wide tunables via functional
// options, the idiomatic Go translation of the teacher's scope builder
// chain (scope.go's NewScope().AppendVars(...).AddProtocolImpl(...)).
package engineconfig

// AggregationPolicy resolves spec.md §9's open question: strict vs.
// lenient aggregation on type mismatch. Made an explicit per-plan
// configuration rather than guessed, per the spec's instruction.
type AggregationPolicy int

const (
	// Lenient degrades a group's aggregate result to NULL on a type
	// mismatch rather than aborting the query (spec.md §7).
	Lenient AggregationPolicy = iota
	// Strict fails the query with TYPE_MISMATCH on the first
	// offending row.
	Strict
)

// Config bundles the tunables referenced across spec.md: max row
// count per block (§3), max concurrent async tasks (§4.8), the
// aggregation type-mismatch policy (§9), and the resource monitor's
// ceiling (§5).
type Config struct {
	MaxBlockSize       int
	MaxAsyncTasks      int
	AggregationPolicy  AggregationPolicy
	ResourceLimitBytes int64
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithMaxBlockSize overrides the per-block row cap (default 1000, per
// spec.md §3's "typical 1000").
func WithMaxBlockSize(n int) Option {
	return func(c *Config) { c.MaxBlockSize = n }
}

// WithMaxAsyncTasks bounds concurrent async-executor tasks (spec.md
// §4.8's "numTasks <= maxTasks").
func WithMaxAsyncTasks(n int) Option {
	return func(c *Config) { c.MaxAsyncTasks = n }
}

// WithAggregationPolicy sets the strict/lenient type-mismatch policy.
func WithAggregationPolicy(p AggregationPolicy) Option {
	return func(c *Config) { c.AggregationPolicy = p }
}

// WithResourceLimitBytes sets the resource monitor's ceiling (spec.md
// §5's "resource monitor is a process-wide ledger").
func WithResourceLimitBytes(n int64) Option {
	return func(c *Config) { c.ResourceLimitBytes = n }
}

// New builds a Config with sane defaults, then applies opts in order -
// composing the same way vars/protocols/plugins compose onto a
// teacher Scope.
func New(opts ...Option) *Config {
	c := &Config{
		MaxBlockSize:       1000,
		MaxAsyncTasks:      4,
		AggregationPolicy:  Lenient,
		ResourceLimitBytes: 1 << 30, // 1 GiB
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
