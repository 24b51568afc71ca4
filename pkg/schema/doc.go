// Package schema defines the schema tree edited by go-schemabuilder: an
// ordered, recursively nested list of field nodes where every node carries a
// key name and a type drawn from a closed set (String, Number, Nested).
//
// Nodes are addressed structurally by Path, a sequence of sibling indices from
// the root. The package is purely a data model; mutation lives in pkg/store and
// the JSON projection in pkg/projection.
package schema
