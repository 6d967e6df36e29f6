package expense

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("VAT arithmetic", func() {
	DescribeTable("NetFromGross",
		func(gross string, rate int, net string) {
			Expect(NetFromGross(dec(gross), rate).StringFixed(2)).To(Equal(net))
		},
		Entry("21%", "121.00", 21, "100.00"),
		Entry("9%", "10.90", 9, "10.00"),
		Entry("rounds to cents", "10.00", 21, "8.26"),
		Entry("no VAT", "5.00", 0, "5.00"),
	)

	DescribeTable("GrossFromNet",
		func(net string, rate int, gross string) {
			Expect(GrossFromNet(dec(net), rate).StringFixed(2)).To(Equal(gross))
		},
		Entry("21%", "100.00", 21, "121.00"),
		Entry("23%", "8.13", 23, "10.00"),
		Entry("rounds half up", "0.50", 9, "0.55"),
	)
})
