// Package repository holds the storage-level sentinel errors shared by the
// domain services and their SQLite implementations. The repository
// interfaces themselves live next to the services that consume them.
package repository
