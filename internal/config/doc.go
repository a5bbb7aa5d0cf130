// Package config loads valiblox settings with koanf and validates them.
package config
