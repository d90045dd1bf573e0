// Package flags defines the option bitset handed to the file operation engine.
//
// Values are the platform's documented FOF_* and FOFX_* flags and are passed
// through verbatim to the Windows shell. The portable engine interprets the
// subset that has a meaning without a UI (collisions, recycling, early
// failure, directory creation).
package flags
