// Package config loads ranfeat's configuration.
//
// Configuration lives in a single directory, ~/.config/ranfeat by default or
// the directory given with --config-path, as config.yaml:
//
//	snapshot:
//	  dir: /data/ran/references
//	  watch: true
//	  debounce: 500ms
//	output:
//	  format: table
//	  color: true
//	search:
//	  limit: 20
//	  fuzzyThreshold: 0.4
//	  acronymThreshold: 0.6
//	cmedit:
//	  site: LTE01ERBS00001
//	build:
//	  sourceDir: /data/ran/docs
//	  outputDir: /data/ran/references
//	  workers: 8
//	  exclude: ["**/drafts/**"]
//	logging:
//	  level: info
//	  format: text
//
// Every key is optional; missing keys keep the values of GetDefaultConfig.
// The RANFEAT_SNAPSHOT_DIR environment variable overrides snapshot.dir.
// Command line flags override the loaded values in the cmd package.
package config
