// SPDX-License-Identifier: MPL-2.0

// Package engine hands a published build environment off to the external
// build engine. chain never builds anything itself: it locates the engine
// binary, checks its version, shapes the invocation (working directory,
// arguments, environment), and surfaces the engine's exit code unchanged.
package engine
