// Package config defines the format-agnostic workflow document, along with
// the Codec interface for reading and writing it in a concrete syntax.
//
// The Document is the single source of truth for the workflow package, which
// snapshots a graph into a Document and restores a graph from one. Concrete
// codecs, such as for JSON and HCL, are provided in separate packages.
package config
