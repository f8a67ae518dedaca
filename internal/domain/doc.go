// Package domain contains the core data types of the partner rental API:
// partners, vehicles, clients, blacklist entries, and contracts, together
// with the sentinel errors every layer wraps.
// It imports no other internal package.
package domain
