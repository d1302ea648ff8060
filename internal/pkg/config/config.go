package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving duration configuration values.
// Values are stored as plain integers and interpreted in the named unit.
type TimeConfig interface {
	// GetSecond retrieves the configuration value for key as a duration in seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the configuration value for key as a duration in minutes.
	GetMinute(key string) time.Duration

	// GetHour retrieves the configuration value for key as a duration in hours.
	GetHour(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of
// various types. Implementations handle retrieval and type conversion,
// returning zero values when a key is missing or malformed.
type Config interface {
	io.Closer
	TimeConfig

	// GetInt retrieves the configuration value for key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the configuration value for key as an int32.
	GetInt32(key string) int32

	// GetInt64 retrieves the configuration value for key as an int64.
	GetInt64(key string) int64

	// GetFloat64 retrieves the configuration value for key as a float64.
	GetFloat64(key string) float64

	// GetBool retrieves the configuration value for key as a bool.
	GetBool(key string) bool

	// GetString retrieves the configuration value for key as a string.
	GetString(key string) string

	// GetBinary retrieves the configuration value for key as a byte slice.
	// The value is stored base64 encoded.
	GetBinary(key string) []byte

	// GetArray retrieves the configuration value for key as a slice of strings.
	// The value is stored with format <element1>,<element2>,...
	GetArray(key string) []string
}
