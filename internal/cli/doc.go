// Package cli provides the billarchive command-line front end.
//
// It wires configuration, the metadata store, the configured backends and
// the sync engine. Commands can be given on the command line or typed into
// an interactive loop started when no command is given:
//
//	download [backend...]  archive new documents (all backends by default)
//	status [backend...]    show what the metadata store knows per backend
//	backends               list configured backends and available modules
//	version                print build information
//	help, exit | quit
//
// A failing backend does not stop the others; Download reports every
// failed backend once all of them have run.
package cli
