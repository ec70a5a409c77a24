package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/job-assistant/internal/docs"
	"github.com/spigell/job-assistant/internal/filtering"
	"github.com/spigell/job-assistant/internal/logger"
)

const (
	app = "job-assistant"
)

type Config struct {
	Session string            `mapstructure:"session"`
	Log     logger.Config     `mapstructure:"log"`
	AI      *AIConfig         `mapstructure:"ai"`
	Search  *SearchConfig     `mapstructure:"search"`
	Filter  *filtering.Config `mapstructure:"filter"`
	Storage *StorageConfig    `mapstructure:"storage"`
	S3      docs.S3Config     `mapstructure:"s3"`
	Server  *ServerConfig     `mapstructure:"server"`
}

type AIConfig struct {
	// Provider is gemini, ollama or none. With none every narrative comes
	// from the rule-based generators.
	Provider     string        `mapstructure:"provider"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
	Ollama       *OllamaConfig `mapstructure:"ollama"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type OllamaConfig struct {
	BaseURL string `mapstructure:"base-url"`
	Model   string `mapstructure:"model"`
	Retries int    `mapstructure:"retries"`
}

type SearchConfig struct {
	APIKey     string        `mapstructure:"api-key"`
	APIKeyFile string        `mapstructure:"api-key-file"`
	UserAgent  string        `mapstructure:"user-agent"`
	Location   string        `mapstructure:"location"`
	Platforms  []string      `mapstructure:"platforms"`
	Count      int           `mapstructure:"count"`
	Recency    string        `mapstructure:"recency"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RedisURL   string        `mapstructure:"redis-url"`
	CacheTTL   time.Duration `mapstructure:"cache-ttl"`
}

type StorageConfig struct {
	// Driver is file or sqlite.
	Driver        string `mapstructure:"driver"`
	SavedJobs     string `mapstructure:"saved-jobs"`
	SQLiteDSN     string `mapstructure:"sqlite-dsn"`
	InterviewsDir string `mapstructure:"interviews-dir"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-assistant analyses resumes, searches jobs and prepares interviews",
		// usage is noise for runtime failures
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"search.api-key":         "SERPAPI_API_KEY",
		"search.api-key-file":    "JOB_ASSISTANT_SERPAPI_KEY_FILE",
		"search.redis-url":       "JOB_ASSISTANT_REDIS_URL",
		"ai.gemini.api-key":      "GEMINI_API_KEY",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"s3.access-key":          "AWS_ACCESS_KEY_ID",
		"s3.secret-key":          "AWS_SECRET_ACCESS_KEY",
		"s3.region":              "AWS_REGION",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-assistant.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("session", "", "session file keeping state between commands")

	viper.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("session", rootCmd.PersistentFlags().Lookup("session"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("session", ".job-assistant-session.json")
	v.SetDefault("log.format", logger.FormatConsole)
	v.SetDefault("ai.provider", "none")
	v.SetDefault("ai.timeout", "60s")
	v.SetDefault("search.count", 5)
	v.SetDefault("search.recency", "1 week")
	v.SetDefault("search.timeout", "20s")
	v.SetDefault("search.cache-ttl", "1h")
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.saved-jobs", "saved_jobs.json")
	v.SetDefault("storage.sqlite-dsn", "job-assistant.db")
	v.SetDefault("storage.interviews-dir", "saved_interviews")
	v.SetDefault("server.addr", ":8080")
}

func initConfig() {
	// .env is optional
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
		// without an explicit --config every setting has a default
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if config == nil {
		config = &Config{}
	}

	if viper.GetBool("json") {
		config.Log.Format = logger.FormatJSON
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.Search == nil {
		config.Search = &SearchConfig{}
	}
	if config.Filter == nil {
		config.Filter = &filtering.Config{}
	}
	if config.Storage == nil {
		config.Storage = &StorageConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	return config, nil
}
