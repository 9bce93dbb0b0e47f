package tracing

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DurationHistogram", func() {
	var hist *DurationHistogram

	BeforeEach(func() {
		hist = &DurationHistogram{}
	})

	It("should place samples into power-of-two buckets", func() {
		hist.Observe(5 * time.Millisecond)

		buckets := hist.Buckets()
		Expect(buckets).To(HaveLen(1))
		Expect(buckets[0].Low).To(Equal(time.Duration(1 << 22)))
		Expect(buckets[0].High).To(Equal(time.Duration(1 << 23)))
		Expect(buckets[0].Count).To(Equal(uint64(1)))
	})

	It("should respect bucket boundaries", func() {
		// 2^10 ns is the first sample of its bucket; 2^10 - 1 the last of
		// the one below.
		hist.Observe(time.Duration(1 << 10))
		hist.Observe(time.Duration(1<<10 - 1))

		buckets := hist.Buckets()
		Expect(buckets).To(HaveLen(2))
		Expect(buckets[0].High).To(Equal(time.Duration(1 << 10)))
		Expect(buckets[1].Low).To(Equal(time.Duration(1 << 10)))
	})

	It("should count a zero sample in the lowest bucket", func() {
		hist.Observe(0)

		buckets := hist.Buckets()
		Expect(buckets).To(HaveLen(1))
		Expect(buckets[0].Low).To(Equal(time.Duration(0)))
		Expect(buckets[0].High).To(Equal(time.Duration(1)))
	})

	It("should clamp a negative sample to zero", func() {
		hist.Observe(-time.Second)

		Expect(hist.Count()).To(Equal(uint64(1)))
		Expect(hist.Mean()).To(Equal(time.Duration(0)))
	})

	It("should report the mean over all samples", func() {
		hist.Observe(2 * time.Millisecond)
		hist.Observe(4 * time.Millisecond)

		Expect(hist.Count()).To(Equal(uint64(2)))
		Expect(hist.Mean()).To(Equal(3 * time.Millisecond))
	})

	It("should render non-empty buckets only", func() {
		Expect(hist.String()).To(Equal("(no samples)\n"))

		hist.Observe(5 * time.Millisecond)
		Expect(hist.String()).To(ContainSubstring("|"))
	})
})
