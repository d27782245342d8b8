// SPDX-License-Identifier: MPL-2.0

// Package hostcheck validates host prerequisites before the resolution
// pipeline runs: the external build engine's version must be compatible and
// every executable the selected flow relies on must be reachable on PATH.
// All checks fail fast and report everything they can in a single pass so
// the user fixes the host once, not error by error.
package hostcheck
