package config

import "context"

// Codec is the interface for a format-specific document syntax.
type Codec interface {
	// Decode parses src, read from filename, into a Document.
	Decode(ctx context.Context, filename string, src []byte) (*Document, error)
	// Encode renders doc in the codec's syntax.
	Encode(ctx context.Context, doc *Document) ([]byte, error)
	// Extensions lists the file extensions the codec handles, with the dot.
	Extensions() []string
}
