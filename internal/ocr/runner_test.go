package ocr

import (
	"context"
	"os/exec"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("execRunner", func() {
	var (
		runner execRunner
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("should pipe stdin to the program", func() {
		if _, err := exec.LookPath("cat"); err != nil {
			Skip("cat not available")
		}
		stdout, _, err := runner.Run(ctx, []byte("TOTAAL 12.00"), "cat")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(stdout)).To(Equal("TOTAAL 12.00"))
	})

	It("should report a missing program", func() {
		_, _, err := runner.Run(ctx, nil, "expense-scanner-no-such-binary")
		Expect(err).To(MatchError(exec.ErrNotFound))
		Expect(err).To(MatchError(ContainSubstring("is not installed")))
	})

	It("should report the context error when cancelled", func() {
		if _, err := exec.LookPath("sleep"); err != nil {
			Skip("sleep not available")
		}
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := runner.Run(cancelled, nil, "sleep", "5")
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("truncate", func() {
	It("should keep short strings", func() {
		Expect(truncate("abc", 5)).To(Equal("abc"))
	})

	It("should mark cut strings", func() {
		Expect(truncate(strings.Repeat("x", 10), 4)).To(Equal("xxxx...(truncated)"))
	})
})
