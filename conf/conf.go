package conf

// LenStackBuf defines the length of the stack buffer captured for observer faults.
var (
	LenStackBuf = 4096

	// event dispatch configuration
	EventThreadPoolSize int    // worker count for the lazily created pool, 0 means unset
	EventStatusCron     string // cron expression for periodic dispatcher status output
)

const (
	// KeyEventThreadPoolSize is the well-known key for the event dispatch thread pool size.
	KeyEventThreadPoolSize = "event.thread_pool_size"

	// DefaultEventThreadPoolSize is used when no source provides a pool size.
	DefaultEventThreadPoolSize = 3
)
