package rabbitmq

import (
	"testing"
	"time"
)

func TestNextDelayBacksOffToCap(t *testing.T) {
	delays := []time.Duration{time.Second}
	for i := 0; i < 6; i++ {
		delays = append(delays, nextDelay(delays[len(delays)-1]))
	}

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second, // capped
		30 * time.Second, // stays capped
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %s, want %s", i, delays[i], want[i])
		}
	}
}
