// Package extract builds the feature index from a tree of markdown feature
// documents.
//
// Documents are discovered with doublestar patterns and parsed in parallel.
// Each document that carries both a title and a "Feature Identity" FAJ code
// becomes one feature.Record; the rest are counted as skipped. The records
// are then written as features.json together with derived lookup files
// (acronym, CXC, parameter, counter and release indexes) and the exported
// dependency graph.
package extract
