// Package shell drives the Windows shell's IFileOperation service.
//
// Every engine owns one IFileOperation object living on a dedicated goroutine
// locked to an OS thread that entered a single-threaded COM apartment. All
// COM calls for the engine are marshalled onto that goroutine. Progress is
// reported through an IFileOperationProgressSink implemented in Go, which
// forwards the post-item notifications to the session's types.Sink.
//
// The service owns undo history, recycling, progress dialogs and collision
// prompts. This package only queues the calls and reports what the service
// did. On other platforms New reports ErrNotSupported.
package shell
