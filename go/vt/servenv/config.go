/*
Copyright 2026 The Vitess Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package servenv holds the process configuration of the polystore tools.
// Every setting can come from a flag, a POLYSTORE_* environment variable
// or a YAML config file, in that order of precedence.
package servenv

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vitess.io/polystore/go/vt/log"
	"vitess.io/polystore/go/vt/plancache"
	"vitess.io/polystore/go/vt/vterrors"
)

// EnvPrefix prefixes the environment variables read by LoadConfig.
const EnvPrefix = "POLYSTORE"

// Configuration keys. They double as flag names.
const (
	KeyCatalog                  = "catalog"
	KeyPlanCacheEnabled         = "plan-cache-enabled"
	KeyPlanCacheTTL             = "plan-cache-ttl"
	KeyPlanCacheCleanupInterval = "plan-cache-cleanup-interval"
	KeyLikePatternCacheTTL      = "like-pattern-cache-ttl"
	KeyBatchParallelism         = "batch-parallelism"
	KeyMetricsNamespace         = "metrics-namespace"
)

// Config is the resolved configuration. It is a plain value: packages that
// need a setting receive it from the caller.
type Config struct {
	CatalogPath              string
	PlanCacheEnabled         bool
	PlanCacheTTL             time.Duration
	PlanCacheCleanupInterval time.Duration
	LikePatternCacheTTL      time.Duration
	BatchParallelism         int
	MetricsNamespace         string
}

var defaults = map[string]any{
	KeyCatalog:                  "",
	KeyPlanCacheEnabled:         true,
	KeyPlanCacheTTL:             10 * time.Minute,
	KeyPlanCacheCleanupInterval: time.Minute,
	KeyLikePatternCacheTTL:      10 * time.Minute,
	KeyBatchParallelism:         4,
	KeyMetricsNamespace:         "polystore",
}

// RegisterFlags installs the configuration and logging flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	log.RegisterFlags(fs)
	fs.String(KeyCatalog, defaults[KeyCatalog].(string), "path of the YAML catalog snapshot")
	fs.Bool(KeyPlanCacheEnabled, defaults[KeyPlanCacheEnabled].(bool), "cache compiled plans per catalog version")
	fs.Duration(KeyPlanCacheTTL, defaults[KeyPlanCacheTTL].(time.Duration), "how long a compiled plan stays cached")
	fs.Duration(KeyPlanCacheCleanupInterval, defaults[KeyPlanCacheCleanupInterval].(time.Duration), "how often expired plans are removed from the cache")
	fs.Duration(KeyLikePatternCacheTTL, defaults[KeyLikePatternCacheTTL].(time.Duration), "how long a compiled LIKE pattern stays cached")
	fs.Int(KeyBatchParallelism, defaults[KeyBatchParallelism].(int), "maximum number of queries compiled concurrently by batch")
	fs.String(KeyMetricsNamespace, defaults[KeyMetricsNamespace].(string), "prefix of the exported prometheus metrics")
}

// LoadConfig resolves the configuration from the flags of fs, the
// environment and, when configFile is set, a YAML config file. Flags that
// were not set on the command line do not override the other sources.
func LoadConfig(fs *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		if fs == nil {
			continue
		}
		if flag := fs.Lookup(key); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, vterrors.Wrapf(err, "binding flag --%s", key)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, vterrors.Errorf(vterrors.InvalidArgument, "reading config file %s: %v", configFile, err)
		}
	}

	cfg := &Config{
		CatalogPath:              v.GetString(KeyCatalog),
		PlanCacheEnabled:         v.GetBool(KeyPlanCacheEnabled),
		PlanCacheTTL:             v.GetDuration(KeyPlanCacheTTL),
		PlanCacheCleanupInterval: v.GetDuration(KeyPlanCacheCleanupInterval),
		LikePatternCacheTTL:      v.GetDuration(KeyLikePatternCacheTTL),
		BatchParallelism:         v.GetInt(KeyBatchParallelism),
		MetricsNamespace:         v.GetString(KeyMetricsNamespace),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.BatchParallelism < 1 {
		return vterrors.Errorf(vterrors.InvalidArgument, "%s must be at least 1, got %d", KeyBatchParallelism, cfg.BatchParallelism)
	}
	if cfg.PlanCacheEnabled && cfg.PlanCacheTTL < 0 {
		return vterrors.Errorf(vterrors.InvalidArgument, "%s must not be negative, got %v", KeyPlanCacheTTL, cfg.PlanCacheTTL)
	}
	if cfg.LikePatternCacheTTL <= 0 {
		return vterrors.Errorf(vterrors.InvalidArgument, "%s must be positive, got %v", KeyLikePatternCacheTTL, cfg.LikePatternCacheTTL)
	}
	return nil
}

// PlanCache returns the plan cache configuration.
func (cfg *Config) PlanCache() plancache.Config {
	return plancache.Config{
		Enabled:         cfg.PlanCacheEnabled,
		TTL:             cfg.PlanCacheTTL,
		CleanupInterval: cfg.PlanCacheCleanupInterval,
	}
}
