// Package settings defines the key-value settings capability an editor
// host exposes per view, plus reference implementations.
//
// Store is the narrow interface the reconciliation code consumes: get with
// default, set, and named on-change listeners. MemoryStore is an
// in-process implementation suitable for embedding and for tests.
// Document wraps a MemoryStore with JSON persistence, since editor
// settings files are JSON documents.
package settings
