package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration for the venue.
type Config struct {
	Port            int
	LogLevel        string
	Books           []string
	TickSize        int64
	PriceBandLow    int64
	PriceBandHigh   int64
	QuotePolicy     string
	CommandBuffer   int
	TapeDepth       int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	books := getList("BOOKS", []string{"XBT-EUR"})
	if len(books) == 0 {
		return nil, fmt.Errorf("BOOKS must name at least one instrument")
	}

	tickSize, err := getInt64("TICK_SIZE", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid TICK_SIZE: %w", err)
	}
	if tickSize < 1 {
		return nil, fmt.Errorf("invalid TICK_SIZE: must be >= 1, got %d", tickSize)
	}

	bandLow, err := getInt64("PRICE_BAND_LOW", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_BAND_LOW: %w", err)
	}
	bandHigh, err := getInt64("PRICE_BAND_HIGH", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_BAND_HIGH: %w", err)
	}
	if bandLow < 0 || bandHigh < 0 {
		return nil, fmt.Errorf("price band bounds must be non-negative")
	}
	if bandHigh != 0 && bandLow > bandHigh {
		return nil, fmt.Errorf("PRICE_BAND_LOW %d exceeds PRICE_BAND_HIGH %d", bandLow, bandHigh)
	}

	quotePolicy := getStr("QUOTE_POLICY", "cross")
	if quotePolicy != "cross" && quotePolicy != "protect" {
		return nil, fmt.Errorf("invalid QUOTE_POLICY: %q, must be cross or protect", quotePolicy)
	}

	commandBuffer, err := getInt("COMMAND_BUFFER", 128)
	if err != nil {
		return nil, fmt.Errorf("invalid COMMAND_BUFFER: %w", err)
	}
	if commandBuffer < 1 {
		return nil, fmt.Errorf("invalid COMMAND_BUFFER: must be >= 1, got %d", commandBuffer)
	}

	tapeDepth, err := getInt("TAPE_DEPTH", 1000)
	if err != nil {
		return nil, fmt.Errorf("invalid TAPE_DEPTH: %w", err)
	}
	if tapeDepth < 1 {
		return nil, fmt.Errorf("invalid TAPE_DEPTH: must be >= 1, got %d", tapeDepth)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:            port,
		LogLevel:        logLevel,
		Books:           books,
		TickSize:        tickSize,
		PriceBandLow:    bandLow,
		PriceBandHigh:   bandHigh,
		QuotePolicy:     quotePolicy,
		CommandBuffer:   commandBuffer,
		TapeDepth:       tapeDepth,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getInt64(key string, defaultVal int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// Rules-facing accessors keep string config out of the engine.

// QuotePolicyProtect reports whether quotes may only rest.
func (c *Config) QuotePolicyProtect() bool {
	return c.QuotePolicy == "protect"
}
