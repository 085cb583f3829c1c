package httpx

import (
	"context"
	"errors"
	"net"
)

// IsUnavailableStatus classifies an HTTP status as "the upstream could
// not serve the request at all" as opposed to an explicit rejection of
// the request itself.
func IsUnavailableStatus(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

// IsTransportError reports whether err is a network-level failure
// (dial, timeout, reset) rather than an application response.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
