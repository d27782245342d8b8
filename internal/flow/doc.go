// SPDX-License-Identifier: MPL-2.0

// Package flow resolves the requested build flow name against the merged
// flows configuration. A flow binds exactly one tool and carries an open set
// of parameters; flows may also depend on other flows, whose definitions are
// pulled into the same invocation.
package flow
