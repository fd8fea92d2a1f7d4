// Package domain holds the data model shared by the sync engine and its
// collaborators: subscriptions and documents as listed by a backend, the
// tagged field values the filename formatter renders, and the key paths and
// record shape persisted in the metadata store.
//
// Entities expose their attributes through Field, a typed lookup that
// returns a Value. Missing optional attributes come back as NotAvailable
// (or NotLoaded for extra attributes a backend declared without loading),
// never as an empty string, so templates can tell them apart.
package domain
