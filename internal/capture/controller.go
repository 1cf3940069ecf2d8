package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"sync"

	"github.com/sakif/clipfeed/internal/apperror"
)

// recordedMIME is the container the assembled recording is labelled with.
const recordedMIME = "video/webm"

// Controller owns the capture state for one publish panel. All methods are
// safe for concurrent use; in practice events arrive one at a time from the
// UI, but the chunk collector runs on its own goroutine and shares the
// buffer.
type Controller struct {
	device Device
	open   FileOpener
	logger *slog.Logger

	mu              sync.Mutex
	state           State
	uploadName      string
	uploadPayload   string
	recordedPayload string
	chunks          [][]byte
	stream          Stream
	streamReleased  bool
	collectDone     chan struct{}
}

// NewController creates an idle Controller.
func NewController(device Device, open FileOpener, logger *slog.Logger) *Controller {
	return &Controller{
		device: device,
		open:   open,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the current machine state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Payload returns the single embeddable media payload ready for publish —
// the upload if a file was selected, the assembled recording if one was
// made, or "" when neither exists. By invariant at most one is set.
func (c *Controller) Payload() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.uploadPayload != "" {
		return c.uploadPayload
	}
	return c.recordedPayload
}

// SelectFile reads the named file into an embeddable payload and moves to
// UploadSelected, discarding any previous recording. Selecting while a
// recording is live is rejected — the UI disables the picker, but the
// machine enforces it too.
func (c *Controller) SelectFile(name string) error {
	c.mu.Lock()
	if c.state == StateRecording {
		c.mu.Unlock()
		return apperror.ValidationFailed("media", "stop the recording before choosing a file")
	}
	c.mu.Unlock()

	// Read outside the lock — file IO can be slow and a failed read must
	// leave the previous state untouched.
	data, err := c.open(name)
	if err != nil {
		return apperror.UnreadableMedia(name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Re-check: a recording may have started while the file was being
	// read, and the live stream must not be clobbered.
	if c.state == StateRecording {
		return apperror.ValidationFailed("media", "stop the recording before choosing a file")
	}
	c.uploadName = name
	c.uploadPayload = dataURL(mimeForFile(name), data)
	c.recordedPayload = ""
	c.chunks = nil
	c.state = StateUploadSelected

	c.logger.Info("media file selected",
		slog.String("name", name),
		slog.Int("bytes", len(data)),
	)
	return nil
}

// StartRecording acquires the capture device and begins buffering chunks.
// A prior upload selection is discarded. If the device refuses access the
// controller resets to Idle and the caller gets a denied-access error.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateRecording {
		c.mu.Unlock()
		return apperror.ValidationFailed("media", "a recording is already in progress")
	}
	c.mu.Unlock()

	stream, err := c.device.Acquire(ctx)
	if err != nil {
		c.mu.Lock()
		// Leave a recording another start established alone.
		if c.state != StateRecording {
			c.resetLocked()
		}
		c.mu.Unlock()
		c.logger.Warn("capture device refused", slog.String("error", err.Error()))
		return apperror.DeviceAccessDenied(err)
	}

	c.mu.Lock()
	// Re-check: another start may have won the race while this one was
	// waiting on the device. The extra stream is drained and released so
	// nothing leaks; the caller gets the same already-recording error.
	if c.state == StateRecording {
		c.mu.Unlock()
		go func() {
			for range stream.Chunks() {
			}
		}()
		stream.Stop()
		return apperror.ValidationFailed("media", "a recording is already in progress")
	}
	c.uploadName = ""
	c.uploadPayload = ""
	c.recordedPayload = ""
	c.chunks = nil
	c.stream = stream
	c.streamReleased = false
	c.collectDone = make(chan struct{})
	c.state = StateRecording
	done := c.collectDone
	c.mu.Unlock()

	// Collector goroutine: drains the chunk channel until the device
	// closes it (which happens after Stop). Mirrors how the recorder's
	// dataavailable events keep arriving until the stop event fires.
	go func() {
		defer close(done)
		for chunk := range stream.Chunks() {
			c.mu.Lock()
			c.chunks = append(c.chunks, chunk)
			c.mu.Unlock()
		}
	}()

	c.logger.Info("recording started")
	return nil
}

// StopRecording stops the stream, waits for the buffered chunks to settle,
// and assembles them into one payload. An empty recording resets to Idle
// and reports the failure; a non-empty one moves to RecordedReady.
func (c *Controller) StopRecording() (string, error) {
	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return "", apperror.ValidationFailed("media", "no recording in progress")
	}
	c.releaseStreamLocked()
	done := c.collectDone
	c.mu.Unlock()

	// Wait for the collector to finish draining. The channel closes once
	// the device has flushed its final chunks after Stop.
	<-done

	c.mu.Lock()
	defer c.mu.Unlock()

	var buf bytes.Buffer
	for _, chunk := range c.chunks {
		buf.Write(chunk)
	}

	if buf.Len() == 0 {
		c.resetLocked()
		c.logger.Warn("recording stopped with no data")
		return "", apperror.EmptyRecording()
	}

	c.recordedPayload = dataURL(recordedMIME, buf.Bytes())
	c.uploadName = ""
	c.uploadPayload = ""
	c.chunks = nil
	c.state = StateRecordedReady

	c.logger.Info("recording assembled", slog.Int("bytes", buf.Len()))
	return c.recordedPayload, nil
}

// Clear releases any live resources and returns the controller to Idle.
// Called on panel close, explicit discard, and after a successful publish.
func (c *Controller) Clear() {
	c.mu.Lock()
	done := c.collectDone
	c.releaseStreamLocked()
	c.mu.Unlock()

	if done != nil {
		<-done
	}

	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
}

// releaseStreamLocked stops the device stream if it is still held. The
// streamReleased flag makes release idempotent, which is what keeps the
// exactly-once invariant when Stop/Clear overlap. Caller holds c.mu.
func (c *Controller) releaseStreamLocked() {
	if c.stream != nil && !c.streamReleased {
		c.stream.Stop()
		c.streamReleased = true
	}
}

// resetLocked wipes every field back to the Idle zero state. Caller holds
// c.mu and has already released the stream.
func (c *Controller) resetLocked() {
	c.uploadName = ""
	c.uploadPayload = ""
	c.recordedPayload = ""
	c.chunks = nil
	c.stream = nil
	c.streamReleased = false
	c.collectDone = nil
	c.state = StateIdle
}

// dataURL encodes data as an embeddable base64 data URL, the same shape a
// browser FileReader produces.
func dataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// mimeForFile guesses the MIME type from the file extension, defaulting to
// a generic video container.
func mimeForFile(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "video/mp4"
}
