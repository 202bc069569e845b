// Package backup saves local-only files to a dedicated branch and restores
// them.
//
// The branch shares no history with the project: it starts from an empty
// tree and only ever holds the files listed by the ignore manifest. Backup
// switches to it for the duration of one commit. Every step that changes the
// repository registers a compensating action, and a failure unwinds them in
// reverse so the user ends up on the original branch with their files and
// stashed changes back in place.
//
// Restore never switches branches. It reads blobs straight from the branch.
package backup
