// Package capture coordinates how a publish panel obtains its media: either
// a selected file or a live recording, never both. It is a small state
// machine over opaque device resources.
//
// STATES:
//
//	Idle            → nothing selected, nothing recording
//	UploadSelected  → a file has been read into an embeddable payload
//	Recording       → a device stream is open and chunks are buffering
//	RecordedReady   → the stream is closed and the chunks were assembled
//
// The two invariants the whole package exists to protect:
//  1. At most one of {upload payload, recorded payload} is set at any time.
//     Choosing one path always clears the other.
//  2. Any transition that leaves Recording releases the device stream
//     exactly once — no double-release, no leaked camera handle.
package capture

import (
	"context"
)

// State identifies where the controller is in its lifecycle.
type State string

const (
	StateIdle           State = "idle"
	StateUploadSelected State = "upload-selected"
	StateRecording      State = "recording"
	StateRecordedReady  State = "recorded-ready"
)

// Device grants access to the capture hardware (camera + microphone on a
// desktop). Acquire may be refused by the environment — that surfaces
// to the user as a denied-access status, and the controller stays put.
type Device interface {
	Acquire(ctx context.Context) (Stream, error)
}

// Stream is one live capture session. Chunks delivers recorded data in
// arrival order and is closed by the device after Stop. Stop must be safe
// to call exactly once per stream; the controller guarantees it never calls
// it twice.
type Stream interface {
	Chunks() <-chan []byte
	Stop()
}

// FileOpener reads a selected file into memory. Injected so tests (and the
// HTTP layer, which already holds the uploaded bytes) can supply their own.
type FileOpener func(name string) ([]byte, error)
