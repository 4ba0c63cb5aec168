// Package unionfind provides a slice-backed disjoint-set forest over the
// integers 0..n-1 with union by rank and an iterative, path-compressing Find.
//
// What & Why
//
//   - Lane generation merges star systems joined by two-way jumps into
//     connectivity components; each component then gets exactly one anchor
//     vertex. The anchor is derived from the component's ROOT, so root
//     selection must be reproducible: Union attaches the lower-rank root
//     under the higher-rank one and, on equal rank, attaches the second
//     argument's root under the first argument's root.
//
//   - Find is iterative (path halving), so deep chains never grow the stack.
//
// Complexity
//
//   - New: O(n). Find/Union: O(α(n)) amortized. Roots/Components: O(n α(n)).
package unionfind
