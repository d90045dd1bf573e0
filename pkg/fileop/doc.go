// Package fileop batches file operations and hands them to the operating
// system's file operation service in one commit.
//
// A Session queues moves, copies, renames, deletes and new items, then
// Commit performs them as a single batch and reports where every item ended
// up. On Windows the batch runs through the shell's IFileOperation service,
// which owns undo history, the recycle bin, progress dialogs and collision
// prompts. Elsewhere a portable engine performs the same requests with plain
// filesystem calls; it cannot offer undo or progress UI.
//
// Typical use:
//
//	res, err := fileop.Run(fileop.Options{Flags: flags.Undo, CommitOnExit: true},
//		func(s *fileop.Session) error {
//			return s.Move("/x/a.txt", "/x/dest", "b.txt")
//		})
//
// Sessions are single use. After Commit or Close every further call fails
// with a SESSION_CLOSED error, and requests left uncommitted at Close are
// discarded with an UNCOMMITTED error.
package fileop
