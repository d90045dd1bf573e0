// Package portable implements the batch engine on platforms without a native
// file operation service.
//
// Requests are carried out one item at a time with plain filesystem calls
// through filesystem.FS. The engine honors the operation flags that have a
// meaning without a shell: collision handling, creation of missing
// destination folders, recycling and early failure. Undo history and
// progress dialogs belong to the native service and are not reproduced;
// the flags that request them are accepted and ignored.
//
// Deleted items are recycled through a trash.Trasher when the flags ask for
// it. Without one, or when the desktop trash refuses an item and
// WantNukeWarning is not set, items are removed permanently, as the Windows
// shell does on volumes without a recycle bin.
package portable
