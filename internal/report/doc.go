// Package report derives whole-catalog views from a dependency graph: the
// side-by-side comparison of a few features and the data-quality audit of
// the entire snapshot.
package report
