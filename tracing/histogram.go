package tracing

import (
	"fmt"
	"math/bits"
	"strings"
	"sync"
	"time"
)

// maxBuckets covers durations up to about 2^62 ns.
const maxBuckets = 63

// A DurationHistogram counts durations in power-of-two nanosecond buckets,
// the same shape a DTrace quantize() aggregation produces.
type DurationHistogram struct {
	mu     sync.Mutex
	counts [maxBuckets]uint64
	total  time.Duration
	n      uint64
}

// Observe adds one sample.
func (h *DurationHistogram) Observe(d time.Duration) {
	if d < 0 {
		d = 0
	}

	idx := bits.Len64(uint64(d))
	if idx >= maxBuckets {
		idx = maxBuckets - 1
	}

	h.mu.Lock()
	h.counts[idx]++
	h.total += d
	h.n++
	h.mu.Unlock()
}

// Count returns the number of samples observed.
func (h *DurationHistogram) Count() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.n
}

// Mean returns the mean sample, or zero with no samples.
func (h *DurationHistogram) Mean() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.n == 0 {
		return 0
	}

	return h.total / time.Duration(h.n)
}

// A Bucket is one non-empty histogram row: samples with Low <= d < High.
type Bucket struct {
	Low   time.Duration
	High  time.Duration
	Count uint64
}

// Buckets returns the non-empty buckets in ascending order.
func (h *DurationHistogram) Buckets() []Bucket {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []Bucket
	for i, c := range h.counts {
		if c == 0 {
			continue
		}

		out = append(out, Bucket{
			Low:   bucketLow(i),
			High:  bucketHigh(i),
			Count: c,
		})
	}

	return out
}

func bucketLow(i int) time.Duration {
	if i == 0 {
		return 0
	}

	return time.Duration(uint64(1) << (i - 1))
}

func bucketHigh(i int) time.Duration {
	return time.Duration(uint64(1) << i)
}

// String renders the histogram as an ASCII table.
func (h *DurationHistogram) String() string {
	buckets := h.Buckets()
	if len(buckets) == 0 {
		return "(no samples)\n"
	}

	var max uint64
	for _, b := range buckets {
		if b.Count > max {
			max = b.Count
		}
	}

	var sb strings.Builder
	for _, b := range buckets {
		bar := strings.Repeat("#", int(b.Count*40/max))
		fmt.Fprintf(&sb, "%12v - %-12v |%-40s %d\n",
			b.Low, b.High, bar, b.Count)
	}

	return sb.String()
}
