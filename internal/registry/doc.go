// Package registry provides the central "glue" for the block kinds.
//
// The Registry maps the kind names used in workflow documents and the editor
// palette (e.g., "threshold") to the compiled Go parts that implement them:
// port layout, parameter schema and defaults, and the process function.
//
// During application startup every module registers its kind and the
// registry is then validated, so the Go parameter structs and the declared
// schemas are known to be in sync before any block is created.
package registry
