package tabconv

import (
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Null policy", func() {
	It("should use a sentinel for integers only", func() {
		Expect(NullStrategyFor(Integer)).To(Equal(Sentinel(NullInt)))
		for _, t := range []SemanticType{Double, String, Date, DateTime, Raw, Logical} {
			Expect(NullStrategyFor(t).Kind).To(Equal(MaskNulls), t.String())
		}
	})

	Context("IsNullDouble", func() {
		It("should recognise the null double", func() {
			Expect(IsNullDouble(NullDouble)).To(BeTrue())
			Expect(math.IsNaN(NullDouble)).To(BeTrue())
		})

		It("should not treat other NaNs or zero as null", func() {
			Expect(IsNullDouble(math.NaN())).To(BeFalse())
			Expect(IsNullDouble(0)).To(BeFalse())
			Expect(IsNullDouble(math.Inf(1))).To(BeFalse())
		})
	})

	Context("doubleNullMask", func() {
		It("should flag null doubles by bit pattern", func() {
			mask := doubleNullMask([]float64{1, NullDouble, math.NaN(), 0, NullDouble})
			Expect(mask).To(Equal([]bool{false, true, false, false, true}))
		})
	})
})
