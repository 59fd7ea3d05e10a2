// Package config loads and validates application configuration from
// config.yml. A missing file is not an error; everything has a usable
// default so the extraction core can run inside a host that provides
// no filesystem conveniences.
package config
