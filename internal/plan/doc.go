// SPDX-License-Identifier: MPL-2.0

// Package plan resolves loaded bundle definitions into a concrete build plan.
//
// The pipeline has four stages, each operating on a single Configuration:
//
//  1. Load: config documents are merged into the Configuration with
//     first-wins semantics for the entry point, path aliases and bundle names.
//  2. ResolvePaths: every declared bundle item is stamped with the physical
//     path of its source file (one level of alias substitution, existence checked).
//  3. Resolve: the layered fixpoint merges each bundle's included parents into
//     it, parents first, deduplicating by physical path (first occurrence wins).
//  4. Emit: virtual bundles are dropped and the remaining bundles become
//     output records with their final output paths.
//
// Every failure is fatal. A Configuration that failed any stage must not be
// emitted.
package plan
