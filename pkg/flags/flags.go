package flags

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/fileop/pkg/errors"
)

// OperationFlags is the bitset passed to the engine.
type OperationFlags uint32

const (
	// Silent does not display a progress dialog box.
	Silent OperationFlags = 0x4
	// RenameOnCollision gives the item a new name in a move, copy or rename
	// if an item with the target name already exists.
	RenameOnCollision OperationFlags = 0x8
	// NoConfirmation responds "Yes to All" to any dialog box.
	NoConfirmation OperationFlags = 0x10
	// AllowUndo preserves undo information and recycles deleted items.
	AllowUndo OperationFlags = 0x40
	// FilesOnly operates on files only, not folders, when a wildcard is used.
	FilesOnly OperationFlags = 0x80
	// NoConfirmMkdir creates missing destination folders without asking.
	NoConfirmMkdir OperationFlags = 0x200
	// NoErrorUI does not display a message when an error occurs.
	NoErrorUI OperationFlags = 0x400
	// NoCopySecurityAttribs does not copy the security attributes.
	NoCopySecurityAttribs OperationFlags = 0x800
	// WantNukeWarning warns when an item is destroyed rather than recycled.
	WantNukeWarning OperationFlags = 0x1000
	// NoConnectedElements does not move connected elements as a group.
	NoConnectedElements OperationFlags = 0x2000
	// NoRecursion only operates in the local folder.
	NoRecursion OperationFlags = 0x8000
	// NoSkipJunctions walks into shell namespace junctions.
	NoSkipJunctions OperationFlags = 0x10000
	// PreferHardLink creates a hard link rather than a copy when possible.
	PreferHardLink OperationFlags = 0x20000
	// ShowElevationPrompt shows a UAC prompt even when NoErrorUI is set.
	ShowElevationPrompt OperationFlags = 0x40000
	// RecycleOnDelete sends deleted items to the recycle bin.
	RecycleOnDelete OperationFlags = 0x80000
	// EarlyFailure stops the whole batch at the first error when combined
	// with NoErrorUI.
	EarlyFailure OperationFlags = 0x100000
	// PreserveFileExtensions keeps extensions when renaming on collision.
	PreserveFileExtensions OperationFlags = 0x200000
	// KeepNewerFile keeps the newer item on collision, without prompting.
	KeepNewerFile OperationFlags = 0x400000
	// NoCopyHooks does not use copy hooks.
	NoCopyHooks OperationFlags = 0x800000
	// NoMinimizeBox does not allow the progress dialog to be minimized.
	NoMinimizeBox OperationFlags = 0x1000000
	// MoveACLsAcrossVolumes copies security attributes on cross-volume moves.
	MoveACLsAcrossVolumes OperationFlags = 0x2000000
	// DontDisplaySourcePath hides the source path in the progress dialog.
	DontDisplaySourcePath OperationFlags = 0x4000000
	// DontDisplayDestPath hides the destination path in the progress dialog.
	DontDisplayDestPath OperationFlags = 0x8000000
	// RequireElevation expects elevation and skips the confirmation dialog.
	RequireElevation OperationFlags = 0x10000000
	// AddUndoRecord places the operation on the undo stack.
	AddUndoRecord OperationFlags = 0x20000000
	// CopyAsDownload shows "Downloading" instead of "Copying".
	CopyAsDownload OperationFlags = 0x40000000
	// DontDisplayLocations hides the location line in the progress dialog.
	DontDisplayLocations OperationFlags = 0x80000000
)

// Presets.
const (
	// Default behaves as if the user had performed the operation in Explorer
	// with no modifier keys.
	Default OperationFlags = 0

	// Undo allows the operations to be undone with Ctrl+Z.
	Undo = AddUndoRecord | AllowUndo | RecycleOnDelete

	// SemiSilent suppresses progress dialogs but still asks about name
	// collisions and transient errors.
	SemiSilent = WantNukeWarning | Silent | NoConfirmMkdir

	// FullSilent suppresses every dialog except an elevation prompt, and
	// fails immediately on errors.
	FullSilent = Silent | NoConfirmation | NoErrorUI | EarlyFailure | NoConfirmMkdir | ShowElevationPrompt
)

var flagNames = map[string]OperationFlags{
	"silent":                   Silent,
	"rename_on_collision":      RenameOnCollision,
	"no_confirmation":          NoConfirmation,
	"allow_undo":               AllowUndo,
	"files_only":               FilesOnly,
	"no_confirm_mkdir":         NoConfirmMkdir,
	"no_error_ui":              NoErrorUI,
	"no_copy_security_attribs": NoCopySecurityAttribs,
	"want_nuke_warning":        WantNukeWarning,
	"no_connected_elements":    NoConnectedElements,
	"no_recursion":             NoRecursion,
	"no_skip_junctions":        NoSkipJunctions,
	"prefer_hard_link":         PreferHardLink,
	"show_elevation_prompt":    ShowElevationPrompt,
	"recycle_on_delete":        RecycleOnDelete,
	"early_failure":            EarlyFailure,
	"preserve_file_extensions": PreserveFileExtensions,
	"keep_newer_file":          KeepNewerFile,
	"no_copy_hooks":            NoCopyHooks,
	"no_minimize_box":          NoMinimizeBox,
	"move_acls_across_volumes": MoveACLsAcrossVolumes,
	"dont_display_source_path": DontDisplaySourcePath,
	"dont_display_dest_path":   DontDisplayDestPath,
	"require_elevation":        RequireElevation,
	"add_undo_record":          AddUndoRecord,
	"copy_as_download":         CopyAsDownload,
	"dont_display_locations":   DontDisplayLocations,
}

var presetNames = map[string]OperationFlags{
	"default":     Default,
	"undo":        Undo,
	"semi_silent": SemiSilent,
	"full_silent": FullSilent,
}

// Has reports whether every bit of f is set.
func (o OperationFlags) Has(f OperationFlags) bool {
	return o&f == f
}

// Any reports whether at least one bit of f is set.
func (o OperationFlags) Any(f OperationFlags) bool {
	return o&f != 0
}

// PrefersRecycle reports whether deletes should go to the recycle bin.
func (o OperationFlags) PrefersRecycle() bool {
	return o.Any(RecycleOnDelete | AllowUndo)
}

// StopsOnError reports whether the batch stops at the first failure.
func (o OperationFlags) StopsOnError() bool {
	return o.Has(EarlyFailure)
}

// CreatesMissingDirs reports whether missing destination folders are created
// without confirmation.
func (o OperationFlags) CreatesMissingDirs() bool {
	return o.Any(NoConfirmMkdir | NoConfirmation)
}

// Names returns the sorted names of the bits set in o.
func (o OperationFlags) Names() []string {
	var names []string
	for name, f := range flagNames {
		if o.Has(f) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (o OperationFlags) String() string {
	if o == 0 {
		return "default"
	}
	return strings.Join(o.Names(), "|")
}

// Parse turns flag or preset names into a bitset. Names are case-insensitive
// and accept '-' in place of '_'.
func Parse(names ...string) (OperationFlags, error) {
	var out OperationFlags
	for _, raw := range names {
		name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
		if name == "" {
			continue
		}
		if f, ok := flagNames[name]; ok {
			out |= f
			continue
		}
		if f, ok := presetNames[name]; ok {
			out |= f
			continue
		}
		return 0, errors.Newf(errors.ErrInvalidInput, "unknown operation flag: %s", raw).
			WithDetail("flag", raw)
	}
	return out, nil
}

// Preset returns the named preset.
func Preset(name string) (OperationFlags, error) {
	f, ok := presetNames[strings.ReplaceAll(strings.ToLower(name), "-", "_")]
	if !ok {
		return 0, errors.Newf(errors.ErrInvalidInput, "unknown flag preset: %s", name)
	}
	return f, nil
}

// TransferSourceFlags are reported back per item by the engine.
type TransferSourceFlags uint32

const (
	TransferNormal            TransferSourceFlags = 0x0
	TransferRenameExist       TransferSourceFlags = 0x1
	TransferOverwriteExist    TransferSourceFlags = 0x2
	TransferAllowDecryption   TransferSourceFlags = 0x4
	TransferNoSecurity        TransferSourceFlags = 0x8
	TransferCopyCreationTime  TransferSourceFlags = 0x10
	TransferCopyWriteTime     TransferSourceFlags = 0x20
	TransferUseFullAccess     TransferSourceFlags = 0x40
	TransferDeleteRecycle     TransferSourceFlags = 0x80
	TransferCopyHardLink      TransferSourceFlags = 0x100
	TransferCopyLocalizedName TransferSourceFlags = 0x200
	TransferMoveAsCopyDelete  TransferSourceFlags = 0x400
)

func (t TransferSourceFlags) String() string {
	return fmt.Sprintf("0x%X", uint32(t))
}

// Has reports whether every bit of f is set.
func (t TransferSourceFlags) Has(f TransferSourceFlags) bool {
	return t&f == f
}
