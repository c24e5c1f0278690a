// Package config loads and validates the ceres configuration from YAML
// files with environment variable overrides.
//
// Loading applies defaults first, then CERES_SECTION_FIELD environment
// overrides, then validates the final result, so a partially specified
// file always yields a complete configuration or a precise error.
package config
