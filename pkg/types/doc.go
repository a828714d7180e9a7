// Package types defines the shared vocabulary of the resource updater:
// resource identity (type, name-or-id, language), the in-memory resource
// set of one container, overwrite policies, and typed errors.
//
// Design goals:
//   - Identity is a small comparable value (Key) usable as a map key.
//   - A container's resources are owned by exactly one Tree.
//   - Typed errors with stable categories (invalid spec/not found/parse/...).
//
// This package has no dependencies beyond the standard library.
package types
