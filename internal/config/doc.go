// SPDX-License-Identifier: MPL-2.0

// Package config handles jsbundle tool settings using Viper with CUE as the file format.
//
// Settings are loaded from ~/.config/jsbundle/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/jsbundle/config.cue on macOS, %APPDATA%\jsbundle\config.cue
// on Windows), falling back to ./jsbundle.config.cue. Environment variables prefixed
// with JSBUNDLE_ override file values, e.g. JSBUNDLE_ENTRY_POINT or JSBUNDLE_UI_COLOR.
//
// Settings files are validated against an embedded CUE schema (config_schema.cue).
package config
