// Package walltime turns a per-step duration into the walltime fields and
// queue class a batch scheduler expects.
package walltime

import (
	"fmt"
	"time"

	"github.com/tcpspsuite/gridsubmit/pkg/models"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// Encode splits totalSeconds into days, hours, minutes and seconds and picks
// the queue class. Each field is taken modulo its own period of the input
// total, which is exact for any non-negative total.
func Encode(totalSeconds int64) (models.WalltimeDuration, models.Queue) {
	w := models.WalltimeDuration{
		Seconds: totalSeconds % secondsPerMinute,
		Minutes: (totalSeconds % secondsPerHour) / secondsPerMinute,
		Hours:   (totalSeconds % secondsPerDay) / secondsPerHour,
		Days:    totalSeconds / secondsPerDay,
	}
	return w, QueueFor(totalSeconds)
}

// EncodeChecked is Encode for untrusted input.
func EncodeChecked(totalSeconds int64) (models.WalltimeDuration, models.Queue, error) {
	if totalSeconds <= 0 {
		return models.WalltimeDuration{}, "", fmt.Errorf("time per step must be positive, got %ds", totalSeconds)
	}
	w, q := Encode(totalSeconds)
	return w, q, nil
}

// EncodeDuration is Encode for a time.Duration, truncated to whole seconds.
func EncodeDuration(d time.Duration) (models.WalltimeDuration, models.Queue) {
	return Encode(int64(d / time.Second))
}

// QueueFor routes steps of three days or more to the long queue.
func QueueFor(totalSeconds int64) models.Queue {
	if totalSeconds >= models.LongQueueThreshold {
		return models.QueueLong
	}
	return models.QueueShort
}
