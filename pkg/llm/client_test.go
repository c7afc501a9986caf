package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/greenlog/pkg/llm"
)

var _ = Describe("Client", func() {
	var (
		ctx      context.Context
		upstream *httptest.Server
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if upstream != nil {
			upstream.Close()
			upstream = nil
		}
	})

	completionResponse := func(text string) map[string]any {
		return map[string]any{
			"choices": []map[string]any{
				{
					"message":       map[string]any{"role": "assistant", "content": text},
					"finish_reason": "stop",
				},
			},
		}
	}

	Context("on a successful completion", func() {
		var gotRequest map[string]any
		var gotAuth string

		BeforeEach(func() {
			upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				Expect(r.URL.Path).To(Equal("/chat/completions"))
				Expect(json.NewDecoder(r.Body).Decode(&gotRequest)).To(Succeed())
				Expect(json.NewEncoder(w).Encode(completionResponse("  >be me\n>test passes  "))).To(Succeed())
			}))
		})

		It("returns the trimmed completion text", func() {
			client := llm.NewClient(llm.Config{BaseURL: upstream.URL, APIKey: "test-key"})
			text, err := client.Generate(ctx, "prompt text")
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal(">be me\n>test passes"))
		})

		It("sends a single user message with the prompt and bearer auth", func() {
			client := llm.NewClient(llm.Config{BaseURL: upstream.URL, APIKey: "test-key"})
			_, err := client.Generate(ctx, "prompt text")
			Expect(err).NotTo(HaveOccurred())

			Expect(gotAuth).To(Equal("Bearer test-key"))

			messages := gotRequest["messages"].([]any)
			Expect(messages).To(HaveLen(1))
			msg := messages[0].(map[string]any)
			Expect(msg["role"]).To(Equal("user"))
			Expect(msg["content"]).To(Equal("prompt text"))
		})

		It("applies the default model, temperature, and token budget", func() {
			client := llm.NewClient(llm.Config{BaseURL: upstream.URL})
			_, err := client.Generate(ctx, "p")
			Expect(err).NotTo(HaveOccurred())

			Expect(gotRequest["model"]).To(Equal(llm.DefaultModel))
			Expect(gotRequest["temperature"]).To(BeNumerically("==", llm.DefaultTemperature))
			Expect(gotRequest["max_tokens"]).To(BeNumerically("==", llm.DefaultMaxTokens))
		})
	})

	Context("on a non-success status", func() {
		BeforeEach(func() {
			upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte("rate limited"))
			}))
		})

		It("returns a GenerationError carrying the status and body", func() {
			client := llm.NewClient(llm.Config{BaseURL: upstream.URL})
			_, err := client.Generate(ctx, "p")

			var genErr llm.GenerationError
			Expect(errors.As(err, &genErr)).To(BeTrue())
			Expect(genErr.Status).To(Equal(http.StatusTooManyRequests))
			Expect(genErr.Body).To(Equal("rate limited"))
		})
	})

	Context("on a transport failure", func() {
		It("returns a GenerationError wrapping the transport error", func() {
			server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
			server.Close() // refuse connections

			client := llm.NewClient(llm.Config{BaseURL: server.URL})
			_, err := client.Generate(ctx, "p")

			var genErr llm.GenerationError
			Expect(errors.As(err, &genErr)).To(BeTrue())
			Expect(genErr.Status).To(BeZero())
			Expect(genErr.Err).To(HaveOccurred())
		})
	})

	Context("on an empty choices list", func() {
		BeforeEach(func() {
			upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				Expect(json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})).To(Succeed())
			}))
		})

		It("returns a GenerationError", func() {
			client := llm.NewClient(llm.Config{BaseURL: upstream.URL})
			_, err := client.Generate(ctx, "p")

			var genErr llm.GenerationError
			Expect(errors.As(err, &genErr)).To(BeTrue())
		})
	})
})
