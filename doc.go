// Package memlog is the composition root for a project journal kept in two
// plain files next to the code: a terse record store with one line per unit
// of work, and a narrative snapshot store of numbered blocks.
//
// Features:
//
//   - **Lock-guarded appends**: every mutation runs under a sentinel lock with
//     stale reclamation, so independent processes can share the stores.
//   - **Atomic rewrites**: stores are replaced through a synced temp file and
//     rename; readers never see a partial write.
//   - **Rotation and archival**: stores are trimmed with timestamped backups,
//     and aged backups are gzipped.
//   - **Merge**: records from another copy (another branch) are unioned with
//     local entries winning on conflict.
//   - **Verification**: the stores are cross-checked against each other and
//     against git history.
//
// Usage:
//
//	svc, err := memlog.New(".", memlog.WithLogger(logger))
//
//	rec, entry, err := svc.Append(ctx, core.AppendRequest{
//		Hash:    "a1b2c3d",
//		Summary: "add retry to fetcher",
//	})
package memlog
