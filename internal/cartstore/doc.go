// Package cartstore owns the authoritative in-memory cart for the running
// storefront session and keeps two external copies eventually consistent
// with it: the local durable snapshot (written synchronously on every
// mutation) and the Remote Cart Service (pushed after a debounce window of
// quiescence, for authenticated sessions only).
//
// The external copies are caches to reconcile against, never sources of
// truth once the in-memory copy has items. Every network failure degrades
// to "remote copy may be stale"; no mutation ever fails from the caller's
// perspective.
package cartstore
