// Package config provides configuration management for hostcmd.
//
// Package: config
// Title: hostcmd Configuration Management
// Description: This package implements loading and validation of hostcmd
//              configuration from TOML (default) and YAML files, with
//              format auto-detection from the file extension and
//              HOSTCMD_* environment variable overrides.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-18
// Modified: 2026-08-18
//
// Change History:
// - 2026-08-18 v0.1.0: Initial implementation
//
// Usage:
//   cfg, err := config.Load("hostcmd.toml")
//   if err != nil {
//     // handle coded config error
//   }
package config
