package capture

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// chunkSize matches the coarse granularity a media recorder delivers data
// in — the exact size is irrelevant to the state machine.
const chunkSize = 64 * 1024

// ReaderDevice adapts any byte source into a capture Device. The daemon
// uses it with a configured file or named pipe standing in for the camera;
// tests use it with in-memory readers.
//
// Each Acquire opens a fresh source, so one device can serve many
// record/stop cycles.
type ReaderDevice struct {
	// Open returns the byte source for one capture session.
	Open func(ctx context.Context) (io.ReadCloser, error)
}

// FileDevice returns a ReaderDevice that captures from the file at path.
// A missing or unreadable file surfaces as a denied-access failure, the
// same way a browser surfaces a refused permission prompt.
func FileDevice(path string) *ReaderDevice {
	return &ReaderDevice{
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("opening capture source: %w", err)
			}
			return f, nil
		},
	}
}

// Acquire opens the source and starts pumping chunks. The returned stream's
// channel closes when the source is exhausted or the stream is stopped.
func (d *ReaderDevice) Acquire(ctx context.Context) (Stream, error) {
	src, err := d.Open(ctx)
	if err != nil {
		return nil, err
	}

	s := &readerStream{
		src:    src,
		chunks: make(chan []byte),
		stop:   make(chan struct{}),
	}
	go s.pump()
	return s, nil
}

type readerStream struct {
	src     io.ReadCloser
	srcOnce sync.Once
	chunks  chan []byte
	stop    chan struct{}
}

func (s *readerStream) Chunks() <-chan []byte {
	return s.chunks
}

// Stop ends the session. Closing the source is what unblocks a pump stuck
// in Read — a named pipe with a quiet writer would otherwise hold the
// goroutine (and the whole stop path) forever. The pump then closes the
// chunk channel so the collector can drain whatever was already read.
func (s *readerStream) Stop() {
	close(s.stop)
	s.closeSrc()
}

// closeSrc closes the source at most once; both Stop and the pump's exit
// path reach for it.
func (s *readerStream) closeSrc() {
	s.srcOnce.Do(func() { s.src.Close() })
}

func (s *readerStream) pump() {
	defer close(s.chunks)
	defer s.closeSrc()

	for {
		buf := make([]byte, chunkSize)
		n, err := s.src.Read(buf)
		if n > 0 {
			select {
			case s.chunks <- buf[:n]:
			case <-s.stop:
				// Flush the final chunk before closing. The collector
				// keeps draining until the channel closes, so this send
				// cannot block forever.
				s.chunks <- buf[:n]
				return
			}
		}
		if err != nil {
			// io.EOF, Stop closing the source under a blocked Read, or a
			// real failure — either way the session is over and the
			// buffered chunks are what we have.
			return
		}
		select {
		case <-s.stop:
			return
		default:
		}
	}
}
