// SPDX-License-Identifier: MPL-2.0

// Package tool resolves tool-binding references from flow definitions
// against the merged tools configuration. A binding describes how to reach
// an external EDA tool: its installation path, licensing and environment
// variables, known versions, and an optional container identity. Resolution
// is pure lookup plus a single deterministic ${VAR} expansion pass.
package tool
