// Package prompt provides the interactive prompts forkflow uses in place of
// external pickers.
//
// Available prompts:
//   - [Confirm]: yes/no, optionally with "all" answers for per-file loops
//   - [TextInput]: single-line text input with validation and a preview line
//   - [Select]: single selection with hints and digit shortcuts (menus)
//   - [MultiSelect]: checkbox list with preselection (backup/restore files)
//   - [Fuzzy]: fuzzy-filtered single selection (branch picker)
//
// Every prompt renders to stderr so stdout stays usable for data, and
// refuses to start with [ErrNotInteractive] when stdin is not a terminal.
package prompt
