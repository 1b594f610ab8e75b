// README: Config loader; env vars (optionally seeded from a .env file) with defaults for HTTP, DB, AI, Maps, search and planner settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingCredential is returned when a required API credential is not configured.
var ErrMissingCredential = errors.New("missing credential")

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	EngineDuckDuckGo = "duckduckgo"
	EnginePlaces     = "places"
)

type AIConfig struct {
	Provider      string
	GeminiKey     string
	GeminiModel   string
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	Temperature   float32
	MaxSteps      int
}

type MapsConfig struct {
	APIKey   string
	Language string
	Region   string
}

type SearchConfig struct {
	Engine     string
	MaxResults int
	// Region is the DuckDuckGo kl parameter, e.g. "jp-jp". Empty means no region.
	Region string
}

type PlannerConfig struct {
	OutputLanguage string
	NoRouteMessage string
	Timeout        time.Duration
}

// Config is built once at start-up and handed to constructors by value.
type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN          string
		MonthlyPlans int
	}
	AI      AIConfig
	Maps    MapsConfig
	Search  SearchConfig
	Planner PlannerConfig
}

// Load reads the environment. envFile, when non-empty and present on disk, is read first;
// real environment variables always win over values from the file.
func Load(envFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read %s: %w", envFile, err)
			}
		}
	}

	var cfg Config
	cfg.HTTP.Addr = v.GetString("DAYTRIP_HTTP_ADDR")
	cfg.DB.DSN = v.GetString("DAYTRIP_DB_DSN")
	cfg.DB.MonthlyPlans = v.GetInt("DAYTRIP_MONTHLY_PLANS")

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(v.GetString("DAYTRIP_LLM_PROVIDER")))
	cfg.AI.GeminiKey = v.GetString("GEMINI_API_KEY")
	cfg.AI.GeminiModel = v.GetString("DAYTRIP_GEMINI_MODEL")
	cfg.AI.OpenAIKey = firstNonEmpty(v.GetString("HUGGINGFACE_TOKEN"), v.GetString("OPENAI_API_KEY"))
	cfg.AI.OpenAIBaseURL = v.GetString("DAYTRIP_OPENAI_BASE_URL")
	cfg.AI.OpenAIModel = v.GetString("DAYTRIP_OPENAI_MODEL")
	cfg.AI.Temperature = float32(v.GetFloat64("DAYTRIP_TEMPERATURE"))
	cfg.AI.MaxSteps = v.GetInt("DAYTRIP_AGENT_MAX_STEPS")

	cfg.Maps.APIKey = v.GetString("GOOGLE_API_KEY")
	cfg.Maps.Language = v.GetString("DAYTRIP_MAPS_LANGUAGE")
	cfg.Maps.Region = v.GetString("DAYTRIP_MAPS_REGION")

	cfg.Search.Engine = strings.ToLower(strings.TrimSpace(v.GetString("DAYTRIP_SEARCH_ENGINE")))
	cfg.Search.MaxResults = v.GetInt("DAYTRIP_SEARCH_MAX_RESULTS")
	cfg.Search.Region = v.GetString("DAYTRIP_SEARCH_REGION")

	cfg.Planner.OutputLanguage = v.GetString("DAYTRIP_OUTPUT_LANGUAGE")
	cfg.Planner.NoRouteMessage = v.GetString("DAYTRIP_NO_ROUTE_MESSAGE")
	cfg.Planner.Timeout = v.GetDuration("DAYTRIP_PLAN_TIMEOUT")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DAYTRIP_HTTP_ADDR", ":8080")
	v.SetDefault("DAYTRIP_DB_DSN", "")
	v.SetDefault("DAYTRIP_MONTHLY_PLANS", 30)
	v.SetDefault("DAYTRIP_LLM_PROVIDER", ProviderGemini)
	v.SetDefault("DAYTRIP_GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("DAYTRIP_OPENAI_BASE_URL", "https://router.huggingface.co/v1")
	v.SetDefault("DAYTRIP_OPENAI_MODEL", "Qwen/Qwen2.5-72B-Instruct")
	v.SetDefault("DAYTRIP_TEMPERATURE", 0.7)
	v.SetDefault("DAYTRIP_AGENT_MAX_STEPS", 12)
	v.SetDefault("DAYTRIP_MAPS_LANGUAGE", "en")
	v.SetDefault("DAYTRIP_MAPS_REGION", "")
	v.SetDefault("DAYTRIP_SEARCH_ENGINE", EngineDuckDuckGo)
	v.SetDefault("DAYTRIP_SEARCH_MAX_RESULTS", 10)
	v.SetDefault("DAYTRIP_SEARCH_REGION", "")
	v.SetDefault("DAYTRIP_OUTPUT_LANGUAGE", "English")
	v.SetDefault("DAYTRIP_NO_ROUTE_MESSAGE", "No route was found between these places for the given transportation mode.")
	v.SetDefault("DAYTRIP_PLAN_TIMEOUT", "3m")

	// Credentials have no default but must be known to viper so AutomaticEnv
	// and the .env reader resolve them through the same keys.
	for _, key := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "HUGGINGFACE_TOKEN", "OPENAI_API_KEY"} {
		v.SetDefault(key, "")
	}
}

func (c Config) validate() error {
	if c.Maps.APIKey == "" {
		return fmt.Errorf("%w: GOOGLE_API_KEY is required", ErrMissingCredential)
	}
	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.GeminiKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required for provider %q", ErrMissingCredential, c.AI.Provider)
		}
	case ProviderOpenAI:
		if c.AI.OpenAIKey == "" {
			return fmt.Errorf("%w: HUGGINGFACE_TOKEN or OPENAI_API_KEY is required for provider %q", ErrMissingCredential, c.AI.Provider)
		}
	default:
		return fmt.Errorf("unknown DAYTRIP_LLM_PROVIDER %q", c.AI.Provider)
	}
	switch c.Search.Engine {
	case EngineDuckDuckGo, EnginePlaces:
	default:
		return fmt.Errorf("unknown DAYTRIP_SEARCH_ENGINE %q", c.Search.Engine)
	}
	if c.AI.MaxSteps <= 0 {
		return fmt.Errorf("DAYTRIP_AGENT_MAX_STEPS must be positive, got %d", c.AI.MaxSteps)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
