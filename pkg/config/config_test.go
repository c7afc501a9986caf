package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/greenlog/pkg/config"
)

var _ = Describe("Config", func() {
	Describe("NewDefaultConfig", func() {
		It("fills in sane defaults for every section", func() {
			cfg := config.NewDefaultConfig()

			Expect(cfg.API.Listen).To(Equal(":8080"))
			Expect(cfg.API.RateLimit.Enabled).To(BeFalse())
			Expect(cfg.API.RateLimit.Max).To(Equal(30))
			Expect(cfg.API.RateLimit.WindowSeconds).To(Equal(60))

			Expect(cfg.Storage.Driver).To(Equal("sqlite"))
			Expect(cfg.Storage.SQLitePath).To(Equal(":memory:"))

			Expect(cfg.Generation.Upstream).To(Equal("https://api.groq.com/openai/v1"))
			Expect(cfg.Generation.Model).To(Equal("llama-3.3-70b-versatile"))
			Expect(cfg.Generation.Temperature).To(Equal(0.8))
			Expect(cfg.Generation.MaxTokens).To(Equal(1800))
			Expect(cfg.Generation.TimeoutSeconds).To(Equal(30))

			Expect(cfg.EventStream.Provider).To(Equal("nop"))
			Expect(cfg.EventStream.Topic).To(Equal("greenlog.entries"))
		})
	})

	Describe("InitViper and FromViper", func() {
		It("resolves defaults when no file or environment is present", func() {
			v, err := config.InitViper("")
			Expect(err).NotTo(HaveOccurred())

			cfg, err := config.FromViper(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("reads values from a config.toml in the config directory", func() {
			dir := GinkgoT().TempDir()
			toml := `[api]
listen = ":9999"

[storage]
driver = "postgres"
postgres_dsn = "postgres://localhost/greenlog"

[eventstream]
provider = "kafka"
brokers = ["localhost:9092"]
`
			Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644)).To(Succeed())

			v, err := config.InitViper(dir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := config.FromViper(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.API.Listen).To(Equal(":9999"))
			Expect(cfg.Storage.Driver).To(Equal("postgres"))
			Expect(cfg.Storage.PostgresDSN).To(Equal("postgres://localhost/greenlog"))
			Expect(cfg.EventStream.Provider).To(Equal("kafka"))
			Expect(cfg.EventStream.Brokers).To(Equal([]string{"localhost:9092"}))

			// Unset keys still resolve to defaults.
			Expect(cfg.Generation.Model).To(Equal("llama-3.3-70b-versatile"))
		})

		It("lets environment variables override the config file", func() {
			dir := GinkgoT().TempDir()
			toml := `[api]
listen = ":9999"
`
			Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644)).To(Succeed())

			GinkgoT().Setenv("GREENLOG_API_LISTEN", ":7777")
			GinkgoT().Setenv("GREENLOG_GENERATION_API_KEY", "secret-key")

			v, err := config.InitViper(dir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := config.FromViper(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.API.Listen).To(Equal(":7777"))
			Expect(cfg.Generation.APIKey).To(Equal("secret-key"))
		})

		It("fails on a malformed config file", func() {
			dir := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0o644)).To(Succeed())

			_, err := config.InitViper(dir)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("flag registry", func() {
		It("registers flags with defaults from the registry", func() {
			cmd := &cobra.Command{Use: "test"}
			var listen string
			config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &listen)

			f := cmd.Flags().Lookup("listen")
			Expect(f).NotTo(BeNil())
			Expect(f.Shorthand).To(Equal("l"))
			Expect(f.DefValue).To(Equal(":8080"))
		})

		It("ignores unknown registry keys", func() {
			cmd := &cobra.Command{Use: "test"}
			var target string
			config.AddStringFlag(cmd, config.ServeFlags, "no-such-flag", &target)

			Expect(cmd.Flags().HasFlags()).To(BeFalse())
		})

		It("binds set flags above environment and file values", func() {
			cmd := &cobra.Command{Use: "test"}
			var listen string
			var rateLimit bool
			var rateLimitMax int
			config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &listen)
			config.AddBoolFlag(cmd, config.ServeFlags, config.FlagRateLimit, &rateLimit)
			config.AddIntFlag(cmd, config.ServeFlags, config.FlagRateLimitMax, &rateLimitMax)

			Expect(cmd.Flags().Set("listen", ":5555")).To(Succeed())
			Expect(cmd.Flags().Set("rate-limit", "true")).To(Succeed())
			Expect(cmd.Flags().Set("rate-limit-max", "5")).To(Succeed())

			GinkgoT().Setenv("GREENLOG_API_LISTEN", ":7777")

			v, err := config.InitViper("")
			Expect(err).NotTo(HaveOccurred())
			config.BindRegisteredFlags(v, cmd, config.ServeFlags, []string{
				config.FlagListen,
				config.FlagRateLimit,
				config.FlagRateLimitMax,
			})

			cfg, err := config.FromViper(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.API.Listen).To(Equal(":5555"))
			Expect(cfg.API.RateLimit.Enabled).To(BeTrue())
			Expect(cfg.API.RateLimit.Max).To(Equal(5))
		})
	})
})
