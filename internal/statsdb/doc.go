// Package statsdb persists a run's metadata and per-redshift
// statistics rows to SQLite, so completed runs can be queried and
// compared after the fact without re-running a propagation. It is an
// optional collaborator (spec.md §1's "thin CLI, file I/O, and
// statistical post-processing are collaborators").
package statsdb
