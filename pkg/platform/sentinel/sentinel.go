package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Backends return these (optionally wrapped)
// so callers can branch with errors.Is without knowing which backend is configured.
//
//   - ErrCommitFailed: a write batch was rejected as a whole; nothing was applied
//   - ErrInvalidState: backend used after Close, or misconfigured
//   - ErrUnavailable: backend temporarily unreachable
var (
	ErrCommitFailed = errors.New("commit failed")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
