// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
)

// Defaults
const (
	DefaultTimestampCacheSize = 4096
	DefaultRecordBuffer       = 64
	DefaultMaxRecordBytes     = 16 << 20
	DefaultMaxToolRecords     = 10000
	DefaultSchemaStoreSize    = 64
)

// Config holds all configuration for the CLI and the MCP server.
type Config struct {
	// Inference
	TimestampCacheSize int // TIMESTAMP_CACHE_SIZE, default 4096 (<= 0 disables)
	RecordBuffer       int // RECORD_BUFFER, default 64
	MaxRecordBytes     int // MAX_RECORD_BYTES, default 16 MiB
	MaxToolRecords     int // MAX_TOOL_RECORDS, default 10000
	SchemaStoreSize    int // SCHEMA_STORE_SIZE, default 64

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		TimestampCacheSize: getEnvInt("TIMESTAMP_CACHE_SIZE", DefaultTimestampCacheSize),
		RecordBuffer:       getEnvInt("RECORD_BUFFER", DefaultRecordBuffer),
		MaxRecordBytes:     getEnvInt("MAX_RECORD_BYTES", DefaultMaxRecordBytes),
		MaxToolRecords:     getEnvInt("MAX_TOOL_RECORDS", DefaultMaxToolRecords),
		SchemaStoreSize:    getEnvInt("SCHEMA_STORE_SIZE", DefaultSchemaStoreSize),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
