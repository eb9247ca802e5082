package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Settings:          "default",
			NonNetworkSchemes: DefaultNonNetworkSchemes(),
			MatchFrame:        true,
		},
		Cache: CacheConfig{
			MaxEntries: 256,
		},
		History: HistoryConfig{
			Enabled:       true,
			RetentionDays: 90,
		},
		Storage: StorageConfig{
			Path:       "~/.config/lcpbreakdown",
			SQLiteFile: "lcpbreakdown.db",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
			JSON:  false,
		},
	}
}
