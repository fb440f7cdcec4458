package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	internal "github.com/ZanzyTHEbar/shatag-go/shatag"
	"github.com/ZanzyTHEbar/shatag-go/shatag/hashing"
	"github.com/ZanzyTHEbar/shatag-go/shatag/metadata"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config stores all configuration of the application.
// The values are read by viper from a config file, environment variables
// and command line flags, in increasing order of precedence.
type Config struct {
	Hash   HashConfig   `mapstructure:"hash"`
	Xattr  XattrConfig  `mapstructure:"xattr"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
	DryRun bool         `mapstructure:"dryRun"`
}

// HashConfig selects the content digest
type HashConfig struct {
	Algorithm string `mapstructure:"algorithm"`
	ChunkSize int    `mapstructure:"chunkSize"`
}

// XattrConfig names the extended attributes. Empty names are derived from
// the hash algorithm.
type XattrConfig struct {
	DigestKey    string `mapstructure:"digestKey"`
	TimestampKey string `mapstructure:"timestampKey"`
}

// OutputConfig controls the status lines on stdout.
// 0 prints everything, 1 hides <ok>, 2 prints only <corrupt>.
type OutputConfig struct {
	Quiet int `mapstructure:"quiet"`
}

// LogConfig controls diagnostics on stderr
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// flagKeys maps command line flag names to config keys
var flagKeys = map[string]string{
	"algorithm":  "hash.algorithm",
	"chunk-size": "hash.chunkSize",
	"dry-run":    "dryRun",
	"log-level":  "log.level",
}

// LoadConfig reads configuration from file, environment variables and the
// given flag set (which may be nil).
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(internal.DefaultConfigPath)
		v.AddConfigPath(internal.DefaultSystemConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Set default values
	v.SetDefault("hash.algorithm", internal.DefaultHashAlgorithm)
	v.SetDefault("hash.chunkSize", internal.DefaultChunkSize)
	v.SetDefault("xattr.digestKey", "")
	v.SetDefault("xattr.timestampKey", "")
	v.SetDefault("output.quiet", 0)
	v.SetDefault("log.level", internal.DefaultLogLevel)
	v.SetDefault("dryRun", false)

	v.SetEnvPrefix(internal.DefaultAppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // hash.algorithm becomes SHATAG_HASH_ALGORITHM
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file in the search path; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and fills in derived attribute names
func (c *Config) Validate() error {
	c.Hash.Algorithm = strings.ToLower(strings.TrimSpace(c.Hash.Algorithm))
	if !slices.Contains(hashing.Algorithms(), c.Hash.Algorithm) {
		return fmt.Errorf("%w: hash.algorithm %q (want one of %s)",
			ErrInvalidConfig, c.Hash.Algorithm, strings.Join(hashing.Algorithms(), ", "))
	}
	if c.Hash.ChunkSize < internal.MinChunkSize {
		return fmt.Errorf("%w: hash.chunkSize %d is below %d", ErrInvalidConfig, c.Hash.ChunkSize, internal.MinChunkSize)
	}
	if c.Output.Quiet < 0 || c.Output.Quiet > 2 {
		return fmt.Errorf("%w: output.quiet %d (want 0, 1 or 2)", ErrInvalidConfig, c.Output.Quiet)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}

	defaults := DefaultKeys(c.Hash.Algorithm)
	if c.Xattr.DigestKey == "" {
		c.Xattr.DigestKey = defaults.Digest
	}
	if c.Xattr.TimestampKey == "" {
		c.Xattr.TimestampKey = defaults.Timestamp
	}
	if c.Xattr.DigestKey == c.Xattr.TimestampKey {
		return fmt.Errorf("%w: digest and timestamp attributes must differ (%q)", ErrInvalidConfig, c.Xattr.DigestKey)
	}
	return nil
}

// Keys returns the attribute names for the codec
func (c *Config) Keys() metadata.Keys {
	return metadata.Keys{Digest: c.Xattr.DigestKey, Timestamp: c.Xattr.TimestampKey}
}

// LogLevel returns the parsed log level, falling back to warn
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.WarnLevel
	}
	return level
}

// DefaultKeys returns the attribute names used for algorithm. SHA-256 uses
// the names cshatag has always used so existing records stay valid.
func DefaultKeys(algorithm string) metadata.Keys {
	if algorithm == hashing.SHA256 {
		return metadata.Keys{
			Digest:    internal.DefaultAttrPrefix + ".sha256",
			Timestamp: internal.DefaultAttrPrefix + ".ts",
		}
	}
	return metadata.Keys{
		Digest:    internal.DefaultAttrPrefix + "." + algorithm,
		Timestamp: internal.DefaultAttrPrefix + "." + algorithm + ".ts",
	}
}
