// Package grouping finds duplicate products in a catalog snapshot.
//
// A grouping pass maps every product to zero or more matching keys under one
// Criterion, then turns every key shared by at least two products into a
// Group whose Original is the oldest product. Matching is exact after
// trimming and lower-casing; there is no fuzzy matching.
//
// Groups are values. Nothing here holds state between calls: Find is a pure
// function of (products, criterion), and Reconcile is a pure function of
// (group, deleted id).
//
//	groups, err := grouping.Find(products, grouping.BySKU)
//	if err != nil {
//	    return err
//	}
//	stats := grouping.Summarize(len(products), groups)
package grouping
