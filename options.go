package dishscout

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*clientConfig)

type openAIConfig struct {
	apiKey  string
	baseURL string
	model   string
}

type clientConfig struct {
	addrs    []string
	password string

	analyzer         Analyzer
	openAI           *openAIConfig
	analysisCacheTTL time.Duration
	maxImageBytes    int64

	defaultRadiusKm      float64
	maxRadiusKm          float64
	defaultMinSimilarity int
	historyLimit         int

	logger *zap.Logger
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		maxImageBytes:        8 << 20,
		defaultRadiusKm:      10,
		maxRadiusKm:          100,
		defaultMinSimilarity: 30,
		historyLimit:         50,
	}
}

// WithRedis connects to Redis at the given address.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithRedisCluster connects to a Redis cluster.
func WithRedisCluster(addrs []string, password string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	}
}

// WithAnalyzer plugs in a caller-supplied dish analyzer. Takes
// precedence over WithOpenAI.
func WithAnalyzer(a Analyzer) Option {
	return func(c *clientConfig) {
		c.analyzer = a
	}
}

// WithOpenAI enables dish analysis through an OpenAI-compatible
// provider. baseURL may be empty for the default endpoint.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return func(c *clientConfig) {
		c.openAI = &openAIConfig{apiKey: apiKey, baseURL: baseURL, model: model}
	}
}

// WithAnalysisCache caches text-analysis results for ttl.
func WithAnalysisCache(ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.analysisCacheTTL = ttl
	}
}

// WithMaxImageBytes caps the accepted image size for analysis.
func WithMaxImageBytes(n int64) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxImageBytes = n
		}
	}
}

// WithMatchDefaults overrides the search radius defaults and the
// similarity floor applied when a query leaves them unset.
func WithMatchDefaults(defaultRadiusKm, maxRadiusKm float64, minSimilarity int) Option {
	return func(c *clientConfig) {
		if defaultRadiusKm > 0 {
			c.defaultRadiusKm = defaultRadiusKm
		}
		if maxRadiusKm > 0 {
			c.maxRadiusKm = maxRadiusKm
		}
		if minSimilarity > 0 {
			c.defaultMinSimilarity = minSimilarity
		}
	}
}

// WithHistoryLimit sets how many searches are kept per user.
func WithHistoryLimit(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.historyLimit = n
		}
	}
}

// WithLogger sets the logger used by the embedded services.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
