// Package cart holds the storefront cart's domain state: an ordered
// collection of line items, unique by product ID, with the pure state
// transitions the storefront applies to it (add, remove, set-quantity,
// clear) and the derived totals.
//
// All transitions are value-semantic: they take an Items slice and return a
// new one, leaving the input untouched. Callers that need mutation-in-place
// (the cart store) assign the result back under their own lock.
//
// INVARIANTS:
//   - ProductID values are unique within Items
//   - every Quantity is >= 1
//   - insertion order is preserved (display stability; order carries no
//     other meaning)
package cart
