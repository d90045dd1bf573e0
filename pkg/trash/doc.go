// Package trash moves items to the desktop's trash.
//
// The platform trash is reached through wastebasket, which implements the
// FreeDesktop trash specification natively and uses the system services on
// macOS and Windows. The trash commands of the desktop environments (gio,
// kioclient5, trash-put, Finder through osascript) remain available when a
// configuration names one.
//
// Nothing here reimplements a trash of its own. When recycling is disabled
// or the trash refuses an item, callers fall back to permanent deletion.
package trash
