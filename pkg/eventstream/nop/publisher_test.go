package nop_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/greenlog/pkg/eventstream"
	"github.com/papercomputeco/greenlog/pkg/eventstream/nop"
)

var _ = Describe("Publisher", func() {
	var pub *nop.Publisher

	BeforeEach(func() {
		pub = nop.NewPublisher()
	})

	It("accepts events and does nothing", func() {
		err := pub.PublishEntry(context.Background(), &eventstream.EntryPersistedEvent{EntryID: 1})
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a nil event", func() {
		err := pub.PublishEntry(context.Background(), nil)
		Expect(err).To(MatchError(eventstream.ErrNilEntryEvent))
	})

	It("closes without error", func() {
		Expect(pub.Close()).To(Succeed())
	})
})
