package config

import "time"

// DefaultTimeouts returns the built-in timings.
//
// Every wait defaults to 10s and every loop is unbounded; operators add
// ceilings through the config file or these environment variables:
//   - ORGBASELINE_POLL_INTERVAL (default: 10s)
//   - ORGBASELINE_SETTLE_TIME (default: 10s)
//   - ORGBASELINE_SUBMIT_RETRY_INTERVAL (default: 10s)
//   - ORGBASELINE_MAX_POLL_ATTEMPTS (default: 0, unbounded)
//   - ORGBASELINE_MAX_SUBMIT_ATTEMPTS (default: 0, unbounded)
//   - ORGBASELINE_TIMEOUT (default: 0, no deadline)
func DefaultTimeouts() Timeouts {
	return Timeouts{
		PollInterval:        10 * time.Second,
		SettleTime:          10 * time.Second,
		SubmitRetryInterval: 10 * time.Second,
	}
}
