// SPDX-License-Identifier: MPL-2.0

// Package planner runs the full configuration stage for one project: discover
// config documents, merge them, resolve module paths and bundle dependencies,
// and emit the bundle plan.
//
// Failures are returned as *issue.ActionableError values carrying the catalog
// id that explains them, while the typed cause from the plan or discovery
// packages stays reachable through errors.Is and errors.As.
package planner
