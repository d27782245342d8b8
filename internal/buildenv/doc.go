// SPDX-License-Identifier: MPL-2.0

// Package buildenv assembles the immutable build environment handed to the
// external engine: the resolved flow and its dependents, every tool binding
// they reference, the merged theme, and the process settings. Assembly is
// all-or-nothing, and the assembled environment is published exactly once
// per process.
package buildenv
