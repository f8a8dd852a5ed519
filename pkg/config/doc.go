// Package config provides configuration loading, defaults, and validation
// for Lexgate.
//
// Configuration is read from a YAML file, defaults are applied for unset
// fields, and environment variables with the LEXGATE_ prefix override file
// values. The final configuration is validated before use; validation
// collects every failing field rather than stopping at the first.
//
//	cfg, err := config.LoadConfigWithEnvOverrides("lexgate.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
package config
