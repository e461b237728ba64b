// Package apps partitions requested application names into the Core and
// Portal categories.
//
// Classification is driven by a single rule: a name ending in the literal
// "-portal" suffix is a Portal application, everything else is Core.
// Duplicates are removed within each category while preserving the order
// in which names were first seen.
package apps
