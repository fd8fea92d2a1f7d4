// Package config loads runtime configuration for billarchive.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (see parseFile) selected via flags: -c or -config.
//     Files ending in .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-c string   config file
//	-d string   output directory shared by all backends
//	-s string   metadata storage DSN
//	-S string   metadata storage driver (sqlite or postgres)
//	-l string   log level (debug, info, warn, error)
//	-m string   write Prometheus metrics to this textfile after each run
//
// Arguments after the flags form the command to run.
//
// # File schema
//
//	dir: ~/bills
//	log_level: info
//	storage:
//	  driver: sqlite
//	  dsn: ~/.local/share/billarchive/metadata.db
//	options:
//	  accepted_types: bill
//	backends:
//	  minio:
//	    module: s3
//	    params:
//	      bucket: invoices
//	      secret_key: ${MINIO_SECRET}
//	    options:
//	      sync_until: 3 months
//
// Option values may be written as strings, booleans or numbers; they are
// kept as strings. Backend params may reference ${VAR} from the env file
// (default ".env", see LoadEnv) or the process environment.
package config
