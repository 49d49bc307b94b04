// Package config loads the gymctl CLI configuration from a YAML file.
//
// Example ~/.gymctl/config.yaml:
//
//	output_format: table   # table, json or yaml
//	currency_symbol: "$"
//	log_level: warn        # debug, info, warn or error
package config
