// Package registry provides a generic, goroutine-safe catalog of items
// looked up by name. fanout uses it to resolve sink factories from the
// names given on the command line or in the config file.
package registry
