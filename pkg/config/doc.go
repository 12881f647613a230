// Package config loads dotlink's configuration from layered sources:
// built-in defaults, the per-user config file, the manifest in the
// dotfiles repository and DOTLINK_* environment variables, in that order
// of increasing precedence.
//
// The manifest lists the managed resources and the set-diff jobs. Once
// loaded, a Config is resolved into absolute ManagedResources and
// setdiff.Jobs for the engine.
package config
