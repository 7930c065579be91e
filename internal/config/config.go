package config

import (
	"log"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type MainConfig struct {
	AppName          string   `toml:"appName"`
	Host             string   `toml:"host"`
	Port             int      `toml:"port"`
	EnableTLS        bool     `toml:"enableTLS"`
	TenantID         string   `toml:"tenantID"`
	AdminAPIKey      string   `toml:"adminAPIKey"`
	CorsAllowOrigins []string `toml:"corsAllowOrigins"`
}

type PostgresConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
	SSLMode      string `toml:"sslMode"`
}

type LogConfig struct {
	LogPath string `toml:"logPath"`
}

type MilvusConfig struct {
	Address        string `toml:"address"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	DBName         string `toml:"dbName"`
	CollectionName string `toml:"collectionName"`
	VectorDim      int    `toml:"vectorDim"`
	MetricType     string `toml:"metricType"`
}

type AIEmbeddingConfig struct {
	Provider       string `toml:"provider"`
	APIKey         string `toml:"apiKey"`
	BaseURL        string `toml:"baseURL"`
	Model          string `toml:"model"`
	Dimensions     int    `toml:"dimensions"`
	TimeoutSeconds int    `toml:"timeoutSeconds"`
}

type AIChatModelConfig struct {
	Provider        string `toml:"provider"`
	APIKey          string `toml:"apiKey"`
	AccessKey       string `toml:"accessKey"`
	SecretKey       string `toml:"secretKey"`
	BaseURL         string `toml:"baseURL"`
	Region          string `toml:"region"`
	Model           string `toml:"model"`
	TimeoutSeconds  int    `toml:"timeoutSeconds"`
	ByAzure         bool   `toml:"byAzure"`
	AzureAPIVersion string `toml:"azureApiVersion"`
}

type AIConfig struct {
	Embedding AIEmbeddingConfig `toml:"embedding"`
	ChatModel AIChatModelConfig `toml:"chatModel"`
}

// RagConfig tunes retrieval. MaxContextChars bounds how much retrieved text
// is stitched into the prompt; later matches are dropped once it is hit.
type RagConfig struct {
	TopK            int `toml:"topK"`
	MaxContextChars int `toml:"maxContextChars"`
}

type Config struct {
	MainConfig     `toml:"mainConfig"`
	PostgresConfig `toml:"postgresConfig"`
	MilvusConfig   `toml:"milvusConfig"`
	AIConfig       `toml:"aiConfig"`
	RagConfig      `toml:"ragConfig"`
	LogConfig      `toml:"logConfig"`
}

var config *Config

func LoadConfig() error {
	configPath := os.Getenv("CAFFINATE_CONFIG")
	if configPath == "" {
		configPath = "configs/config_local.toml"
	}
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Printf("failed to load config file %s: %v, falling back to defaults", configPath, err)
	}
	applyDefaults(config)
	applyEnvOverrides(config)
	return nil
}

func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
	}
	return config
}

func applyDefaults(c *Config) {
	if c.MainConfig.TenantID == "" {
		c.MainConfig.TenantID = "demo"
	}
	if len(c.MainConfig.CorsAllowOrigins) == 0 {
		c.MainConfig.CorsAllowOrigins = []string{"*"}
	}
	if c.PostgresConfig.Host == "" {
		c.PostgresConfig.Host = "postgres"
	}
	if c.PostgresConfig.Port == 0 {
		c.PostgresConfig.Port = 5432
	}
	if c.PostgresConfig.User == "" {
		c.PostgresConfig.User = "caffinate"
	}
	if c.PostgresConfig.DatabaseName == "" {
		c.PostgresConfig.DatabaseName = "caffinate"
	}
	if c.PostgresConfig.SSLMode == "" {
		c.PostgresConfig.SSLMode = "disable"
	}
	if c.MilvusConfig.VectorDim <= 0 {
		c.MilvusConfig.VectorDim = 768
	}
	if c.MilvusConfig.MetricType == "" {
		c.MilvusConfig.MetricType = "COSINE"
	}
	if c.RagConfig.TopK <= 0 {
		c.RagConfig.TopK = 6
	}
	if c.RagConfig.MaxContextChars <= 0 {
		c.RagConfig.MaxContextChars = 4000
	}
}

// applyEnvOverrides lets deployments inject secrets without editing the toml
// file. Environment always wins over the file.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("TENANT_ID"); v != "" {
		c.MainConfig.TenantID = v
	}
	if v := os.Getenv("ADMIN_API_KEY"); v != "" {
		c.MainConfig.AdminAPIKey = v
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		c.PostgresConfig.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.PostgresConfig.Port = p
		}
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		c.PostgresConfig.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		c.PostgresConfig.Password = v
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		c.PostgresConfig.DatabaseName = v
	}
	if v := os.Getenv("MILVUS_ADDRESS"); v != "" {
		c.MilvusConfig.Address = v
	}
	if v := os.Getenv("MILVUS_COLLECTION"); v != "" {
		c.MilvusConfig.CollectionName = v
	}
	if v := os.Getenv("AI_API_KEY"); v != "" {
		if c.AIConfig.Embedding.APIKey == "" {
			c.AIConfig.Embedding.APIKey = v
		}
		if c.AIConfig.ChatModel.APIKey == "" {
			c.AIConfig.ChatModel.APIKey = v
		}
	}
	if v := os.Getenv("RAG_TOP_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil && k > 0 {
			c.RagConfig.TopK = k
		}
	}
	if v := os.Getenv("RAG_MAX_CONTEXT_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RagConfig.MaxContextChars = n
		}
	}
}
