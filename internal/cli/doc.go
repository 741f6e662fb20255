// Package cli implements the rewind command line.
//
// Every command loads a snapshot from the store, rebuilds an engine from it,
// runs one operation and saves the result, so a document's history survives
// between invocations.
package cli
