// Package logging wraps log/slog with the subsystem convention used across
// ranfeat.
//
// Every record carries a "subsystem" attribute naming the component that
// emitted it (FeatureStore, GraphBuilder, Extractor, Catalog, ...):
//
//	logging.InitForCLI(logging.LevelDebug, os.Stderr)
//	logging.Info("Extractor", "parsed %d documents", n)
//	logging.Error("Catalog", err, "reload of %s failed", path)
//
// Logs always go to the writer passed to Init (stderr for the CLI) so that
// command output on stdout stays machine readable.
package logging
