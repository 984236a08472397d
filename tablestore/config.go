package tablestore

import "time"

// Config holds the recognised client-wide options from spec.md §6.
// Construct it with NewConfig and zero or more Option values; the zero
// Config is never used directly because the defaults matter.
type Config struct {
	InstanceName        string
	MaxConnections      int
	ConnectTimeout      time.Duration
	RequestTimeout      time.Duration
	EnableKeepAlive     bool
	RetryMaxTimes       int
	RetryIntervalInMS   time.Duration
	CheckResponseDigest bool
	TraceThreshold      time.Duration
	RetryStrategy       RetryStrategy
}

// Option configures a Config.
type Option func(*Config)

// NewConfig returns a Config with every recognised option defaulted per
// spec.md §6, then applies opts in order.
func NewConfig(opts ...Option) Config {
	c := Config{
		MaxConnections:      5000,
		ConnectTimeout:      2 * time.Second,
		RequestTimeout:      10 * time.Second,
		EnableKeepAlive:     true,
		RetryMaxTimes:       3,
		RetryIntervalInMS:   100 * time.Millisecond,
		CheckResponseDigest: false,
		TraceThreshold:      100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.RetryStrategy == nil {
		c.RetryStrategy = NewDefaultRetryStrategy(c.RetryMaxTimes, c.RetryIntervalInMS, 0)
	}
	return c
}

func WithInstanceName(name string) Option { return func(c *Config) { c.InstanceName = name } }
func WithMaxConnections(n int) Option     { return func(c *Config) { c.MaxConnections = n } }
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Config) { c.ConnectTimeout = d }
}
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Config) { c.RequestTimeout = d }
}
func WithKeepAlive(enabled bool) Option { return func(c *Config) { c.EnableKeepAlive = enabled } }
func WithRetryMaxTimes(n int) Option    { return func(c *Config) { c.RetryMaxTimes = n } }
func WithRetryInterval(d time.Duration) Option {
	return func(c *Config) { c.RetryIntervalInMS = d }
}
func WithCheckResponseDigest(enabled bool) Option {
	return func(c *Config) { c.CheckResponseDigest = enabled }
}
func WithTraceThreshold(d time.Duration) Option {
	return func(c *Config) { c.TraceThreshold = d }
}

// WithRetryStrategy plugs in a custom strategy, replacing the default
// one built from RetryMaxTimes/RetryIntervalInMS.
func WithRetryStrategy(s RetryStrategy) Option {
	return func(c *Config) { c.RetryStrategy = s }
}
