// Package schema holds the resolved type information the marshalling core
// consumes: type tags, parameter directions, signatures with their size
// pairings, attributes, constants and interfaces.
//
// Interfaces are registered with a Resolver, either built in Go, decoded
// from a YAML document (LoadYAML) or derived from WIT function declarations
// (ParseWIT). After Freeze, a Resolver is read-only and safe for
// concurrent use without locking.
package schema
