package models

import (
	"fmt"
	"strings"
)

// Queue is the scheduler job class a grid cell is routed to.
type Queue string

const (
	QueueShort Queue = "short"
	QueueLong  Queue = "long"
)

// LongQueueThreshold is the requested walltime, in seconds, from which
// steps are routed to the long queue (3 days).
const LongQueueThreshold int64 = 3 * 24 * 60 * 60

func (q Queue) String() string {
	return string(q)
}

// ParseQueue parses a queue class name, case insensitive.
func ParseQueue(s string) (Queue, error) {
	switch Queue(strings.ToLower(strings.TrimSpace(s))) {
	case QueueShort:
		return QueueShort, nil
	case QueueLong:
		return QueueLong, nil
	default:
		return "", fmt.Errorf("unknown queue class %q", s)
	}
}
