// Package config resolves rewind configuration.
//
// Values are layered with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← REWIND_*, highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← --config rewind.toml / rewind.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The merged map is decoded into Config and validated before use.
//
// # Environment Variables
//
// REWIND_SECTION_KEY sets section.key, for example
// REWIND_HISTORY_AUTO_ARCHIVE=false. A few shorthands are also read:
// REWIND_MAX_HISTORY, REWIND_LOG_LEVEL, REWIND_LOG_FORMAT and REWIND_STORE.
//
// # Sub-packages
//
//   - loader: file and environment loading, layer merging
package config
