package cli

import "ranfeat/internal/config"

// ResolveSnapshotDir picks the feature index location using the precedence
// order:
// 1. Explicit directory (from --snapshot-dir)
// 2. snapshot.dir from config, which RANFEAT_SNAPSHOT_DIR already overrides
// 3. The built-in default
func ResolveSnapshotDir(explicit string, cfg config.RanfeatConfig) string {
	if explicit != "" {
		return explicit
	}
	if cfg.Snapshot.Dir != "" {
		return cfg.Snapshot.Dir
	}
	return config.DefaultSnapshotDir
}
