// Package workflow saves graphs to documents and restores graphs from them.
//
// Restoring is forgiving: entries naming an unknown kind, an unknown block,
// an out-of-range port or an already-occupied input are skipped with a
// warning instead of failing the whole document. Restoring never processes
// anything, so every block starts without an image until the user edits a
// parameter or draws a connection.
package workflow
