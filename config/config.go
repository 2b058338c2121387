// Package config resolves runtime settings for the fieldlens CLI from,
// in ascending precedence, built-in defaults, an optional YAML file and
// environment variables. A .env file is honoured when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend names the graph store adapter an invocation runs against.
const (
	BackendMemory   = "memory"
	BackendNeo4j    = "neo4j"
	BackendPostgres = "postgres"
)

// Config carries every setting the CLI needs for one invocation.
type Config struct {
	Backend  string         `yaml:"backend"`
	GraphURL string         `yaml:"graphURL"` // artifact location for the memory backend
	LogLevel string         `yaml:"logLevel"`
	Neo4j    Neo4jConfig    `yaml:"neo4j"`
	Postgres PostgresConfig `yaml:"postgres"`
	Upload   UploadConfig   `yaml:"upload"`
}

// Neo4jConfig holds bolt connection settings for the neo4j backend.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig holds the DSN for the postgres backend.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// UploadConfig holds object-storage settings for report publishing.
type UploadConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSSL"`
}

// Load builds the configuration. path names an optional YAML file; an
// empty path skips the file layer. Environment variables always win.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Backend:  BackendMemory,
		LogLevel: "info",
		Neo4j: Neo4jConfig{
			URI:      "bolt://localhost:7687",
			Username: "neo4j",
			Database: "neo4j",
		},
		Upload: UploadConfig{
			Region: "us-east-1",
			Bucket: "fieldlens-reports",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %v: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %v: %w", path, err)
		}
	}

	applyEnv(cfg)

	switch cfg.Backend {
	case BackendMemory, BackendNeo4j, BackendPostgres:
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Backend, "FIELDLENS_BACKEND")
	setString(&cfg.GraphURL, "FIELDLENS_GRAPH_URL")
	setString(&cfg.LogLevel, "FIELDLENS_LOG_LEVEL")

	setString(&cfg.Neo4j.URI, "FIELDLENS_NEO4J_URI")
	setString(&cfg.Neo4j.Username, "FIELDLENS_NEO4J_USERNAME")
	setString(&cfg.Neo4j.Password, "FIELDLENS_NEO4J_PASSWORD")
	setString(&cfg.Neo4j.Database, "FIELDLENS_NEO4J_DATABASE")

	setString(&cfg.Postgres.DSN, "FIELDLENS_POSTGRES_DSN")

	setString(&cfg.Upload.Endpoint, "FIELDLENS_UPLOAD_ENDPOINT")
	setString(&cfg.Upload.Region, "FIELDLENS_UPLOAD_REGION")
	setString(&cfg.Upload.AccessKey, "FIELDLENS_UPLOAD_ACCESS_KEY")
	setString(&cfg.Upload.SecretKey, "FIELDLENS_UPLOAD_SECRET_KEY")
	setString(&cfg.Upload.Bucket, "FIELDLENS_UPLOAD_BUCKET")
	setBool(&cfg.Upload.UseSSL, "FIELDLENS_UPLOAD_USE_SSL")
}

func setString(dest *string, name string) {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		*dest = value
	}
}

func setBool(dest *bool, name string) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return
	}
	if value, err := strconv.ParseBool(raw); err == nil {
		*dest = value
	}
}
