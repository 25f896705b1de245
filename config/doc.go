// Package config loads container configuration from YAML files, .env files
// and environment variables.
//
// It uses Viper to read the file and overlay environment variables. Keys are
// taken from the target struct's mapstructure tags, so a field at
// di.scope_capacity is overridden by DI_SCOPE_CAPACITY (or
// <PREFIX>_DI_SCOPE_CAPACITY when WithEnvPrefix is set).
//
// # Usage
//
//	var cfg AppConfig
//	err := config.Load("orders", &cfg)
//
// When cfg implements Defaulter and Validatable, Load applies defaults and
// validates after unmarshaling.
package config
