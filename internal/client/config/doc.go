// Package config provides configuration loading for the postboard CLI.
//
// Values are resolved in this order, later sources winning:
//
//  1. Defaults (LoadDefaults)
//  2. JSON file named by -c / -config
//  3. Command-line flags (-a, -t)
package config
