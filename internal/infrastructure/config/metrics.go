package config

// MetricsConfig holds metrics collection and export configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Namespace prefixes every metric name
	Namespace string `mapstructure:"namespace" validate:"required"`

	// TextfilePath is where metrics are written after each command,
	// in the node exporter textfile collector format. Empty disables the export.
	TextfilePath string `mapstructure:"textfile_path"`
}
