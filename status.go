package devicecache

import "strings"

// Status represents the current condition of a device.
//
// The set of statuses is closed: values outside the declared constants are
// rejected by the cache rather than silently creating a new bucket.
type Status int

const (
	StatusNeedsAttention Status = iota
	StatusWorkingNormally
	StatusUnreachable
	StatusEnabled
	StatusDisabled

	statusCount // sentinel, keep last
)

// String returns the canonical name of the status.
func (s Status) String() string {
	switch s {
	case StatusNeedsAttention:
		return "needs_attention"
	case StatusWorkingNormally:
		return "working_normally"
	case StatusUnreachable:
		return "unreachable"
	case StatusEnabled:
		return "enabled"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the declared status constants.
func (s Status) Valid() bool {
	return s >= 0 && s < statusCount
}

// Statuses returns all declared statuses in declaration order.
func Statuses() []Status {
	all := make([]Status, 0, statusCount)
	for s := Status(0); s < statusCount; s++ {
		all = append(all, s)
	}
	return all
}

// ParseStatus parses a status from its canonical name. Matching is
// case-insensitive, so "ENABLED" and "enabled" both parse to StatusEnabled.
func ParseStatus(name string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "needs_attention":
		return StatusNeedsAttention, nil
	case "working_normally":
		return StatusWorkingNormally, nil
	case "unreachable":
		return StatusUnreachable, nil
	case "enabled":
		return StatusEnabled, nil
	case "disabled":
		return StatusDisabled, nil
	default:
		return 0, &InvalidStatusError{Name: name}
	}
}
