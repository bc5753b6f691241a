// Package connectors provides implementations of the TextSource
// interface for document text suppliers. Each connector knows how to
// read already-extracted text artifacts from a specific backing store.
package connectors
