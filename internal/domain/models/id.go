package models

import (
	"strconv"
	"time"
)

// TimeID returns the wall-clock-millisecond identifier used for users,
// products and agriculturists. Two records created in the same millisecond
// collide; the original system accepts that risk and so do we.
func TimeID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// OrderID returns "ORD" followed by the last six digits of the current
// epoch-millisecond clock.
func OrderID() string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return "ORD" + millis[len(millis)-6:]
}

// Timestamp returns the ISO-8601 creation stamp stored on every record.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
