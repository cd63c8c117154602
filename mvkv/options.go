package mvkv

import "go.uber.org/zap"

// defaultShardCount matches concurrent-map/v2's own SHARD_COUNT default;
// WithShardCount exists for callers whose workload's key distribution or
// goroutine count warrants a different cross-key parallelism factor.
const defaultShardCount = 32

type config struct {
	logger     *zap.Logger
	shardCount int
}

func defaultConfig() config {
	return config{
		logger:     zap.NewNop(),
		shardCount: defaultShardCount,
	}
}

// Option configures an MVKV at construction time.
type Option func(*config)

// WithLogger installs a structured logger. All log calls are at Debug:
// MarkEstimate logs each estimate mark, and Read logs dependency crossings
// and a failed delta merge that reaches a base write. A failed ApplyTo is
// not logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithShardCount overrides the number of shards the top-level concurrent
// map is split into. Higher counts reduce cross-key lock contention at the
// cost of more bookkeeping; n must be positive or New panics.
func WithShardCount(n int) Option {
	return func(c *config) { c.shardCount = n }
}
