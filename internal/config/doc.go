// Package config loads statebind configuration.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Arguments  │  ← applied by cmd/statebind
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← STATEBIND_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← .toml, .yaml or .yml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// A Watcher reloads the file when it changes on disk so the initial state
// of the demo can be edited live.
package config
