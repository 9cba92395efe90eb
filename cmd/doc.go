// Package cmd implements the command-line interface of pxbench. It provides a
// small command tree for talking to a proxima search engine and for running
// a local in-memory one.
//
// The package is organized into several subpackages:
//
//   - bench: collection commands (create, drop, describe, stats, list, get) and
//     the benchmark commands (insert, update, delete, search, recall)
//   - serve: starts the in-memory search engine
//   - util: shared utilities for flags, environment and connection settings (internal use)
//
// Flags can also be given as environment variables with the PXBENCH_ prefix,
// .env and .env.local in the working directory are read first.
//
// See pxbench -help for a list of all commands.
package cmd
