package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/ai/deepseek"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/ai/gemini"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/ai/openai"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/logger"
)

const (
	app = "cv-scoring"
)

type Config struct {
	Provider     string            `mapstructure:"provider" yaml:"provider"`
	APIKey       string            `mapstructure:"api-key" yaml:"api-key,omitempty"`
	APIKeyFile   string            `mapstructure:"api-key-file" yaml:"api-key-file,omitempty"`
	LogMaxLength int               `mapstructure:"log-max-length" yaml:"log-max-length"`
	DeepSeek     *DeepSeekConfig   `mapstructure:"deepseek" yaml:"deepseek"`
	OpenAI       *OpenAIConfig     `mapstructure:"openai" yaml:"openai"`
	Gemini       *GeminiConfig     `mapstructure:"gemini" yaml:"gemini"`
	HeadHunter   *HeadHunterConfig `mapstructure:"headhunter" yaml:"headhunter"`
	Serve        *ServeConfig      `mapstructure:"serve" yaml:"serve"`
}

type DeepSeekConfig struct {
	URL   string `mapstructure:"url" yaml:"url"`
	Model string `mapstructure:"model" yaml:"model"`
}

type OpenAIConfig struct {
	BaseURL     string  `mapstructure:"base-url" yaml:"base-url"`
	Model       string  `mapstructure:"model" yaml:"model"`
	MaxTokens   int     `mapstructure:"max-tokens" yaml:"max-tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key" yaml:"api-key,omitempty"`
	APIKeyFile string `mapstructure:"api-key-file" yaml:"api-key-file,omitempty"`
	Model      string `mapstructure:"model" yaml:"model"`
}

type HeadHunterConfig struct {
	UserAgent string        `mapstructure:"user-agent" yaml:"user-agent"`
	UseAPI    bool          `mapstructure:"use-api" yaml:"use-api"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-scoring scores how well a candidate CV fits a job description using an LLM",
		Long: "cv-scoring sends a job description and a CV (plain text or hh.ru links) to an LLM\n" +
			"and shows its assessment. Without a subcommand it starts the terminal UI.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd)
		},
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("api-key", "PROXY_API_KEY"); err != nil {
		log.Fatalf("binding PROXY_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-scoring.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file (the terminal UI discards logs otherwise)")
	rootCmd.PersistentFlags().StringP("provider", "p", "", "LLM provider: deepseek, openai or gemini (default from config)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", deepseek.ProviderName)
	v.SetDefault("log-max-length", 200)
	v.SetDefault("deepseek.url", deepseek.DefaultURL)
	v.SetDefault("deepseek.model", deepseek.DefaultModel)
	v.SetDefault("openai.base-url", openai.DefaultBaseURL)
	v.SetDefault("openai.model", openai.DefaultModel)
	v.SetDefault("openai.max-tokens", openai.DefaultMaxTokens)
	v.SetDefault("openai.temperature", 0)
	v.SetDefault("gemini.model", gemini.DefaultModel)
	v.SetDefault("headhunter.use-api", true)
	v.SetDefault("headhunter.timeout", "15s")
	v.SetDefault("serve.addr", ":8080")
}

func initConfig() {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit config must exist; the default one is optional.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.DeepSeek == nil {
		config.DeepSeek = &DeepSeekConfig{}
	}
	if config.OpenAI == nil {
		config.OpenAI = &OpenAIConfig{}
	}
	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}
	if config.HeadHunter == nil {
		config.HeadHunter = &HeadHunterConfig{}
	}
	if config.Serve == nil {
		config.Serve = &ServeConfig{}
	}

	return config, nil
}

// newLogger builds the command logger. Logs go to --log-file when set, else to fallback.
func newLogger(fallback string) (*zap.Logger, error) {
	output := viper.GetString("log-file")
	if output == "" {
		output = fallback
	}
	return logger.New(viper.GetBool("json"), viper.GetBool("debug"), output)
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
