// Package core defines the shared language of binfinder.
//
// This package contains:
//   - Inventory entities as the backend serves them (Container, Item, Advert)
//   - Derived views built on the client (EnrichedItem)
//   - The foreign-key join that turns items into enriched items
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
