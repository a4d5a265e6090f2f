// Package config loads and validates envseed plan files.
//
// # Plan File
//
// A plan is named envseed.yaml (or .toml, .json) and is searched in the
// current directory and then in ~/.config/envseed, or in the directory
// named by ENVSEED_CONFIG_DIR. Top-level scalar settings can be overridden
// from the environment (ENVSEED_WORKERS, ENVSEED_TASK_TIMEOUT).
//
//	version: 1
//	workers: 4
//	task_timeout: 30s
//	batches:
//	  - name: directories
//	    tasks:
//	      - name: app-data
//	        type: directory
//	        path: ~/.local/share/myapp
//	        platforms: [unix, mac]
//
// Viper treats keys case-insensitively, so keys inside a file task's
// structured content are lowercased. Use a raw string content when case
// matters.
//
// # Loading
//
//	config.Init()
//	cfg, err := config.Load(path)
//	if errors.Is(err, errors.ErrInvalidConfig) {
//	    // err is a *ValidationError listing every problem
//	}
//
// # Validation
//
// [Validate] returns every problem it finds as [TaskError] and [PathError]
// values wrapping the sentinel errors of this package.
package config
