// Package nativehost speaks the browser native messaging protocol on a
// pair of streams: each message is a 32-bit little-endian length followed
// by that many bytes of UTF-8 JSON.
package nativehost

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ppiankov/intentgate/internal/message"
)

// MaxMessageSize is the largest frame accepted in either direction.
const MaxMessageSize = 1 << 20

// Request is the envelope sent by the extension.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response echoes the request id and channel.
type Response struct {
	ID      string        `json:"id,omitempty"`
	Channel string        `json:"channel"`
	Reply   message.Reply `json:"reply"`
}

// Dispatcher handles one decoded message.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg message.Message) (message.Reply, error)
}

// ReadFrame reads one length-prefixed frame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n > MaxMessageSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit %d", n, MaxMessageSize)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("short frame: %w", err)
	}
	return buf, nil
}

// WriteFrame writes data as one length-prefixed frame.
func WriteFrame(w io.Writer, data []byte) error {
	if len(data) > MaxMessageSize {
		return fmt.Errorf("frame of %d bytes exceeds limit %d", len(data), MaxMessageSize)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// Host serves native messaging requests against a Dispatcher.
type Host struct {
	d      Dispatcher
	logger *slog.Logger
	wmu    sync.Mutex
}

// New creates a Host.
func New(d Dispatcher, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{d: d, logger: logger}
}

// Serve reads requests from r until EOF or ctx is cancelled and writes one
// response per request to w. Requests are handled in arrival order. A
// clean EOF between frames returns nil.
func (h *Host) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	frames := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(frames)
		for {
			data, err := ReadFrame(br)
			if err != nil {
				errc <- err
				return
			}
			select {
			case frames <- data:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, ok := <-frames:
			if !ok {
				err := <-errc
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
			if err := h.write(w, h.handle(ctx, data)); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

func (h *Host) handle(ctx context.Context, data []byte) Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Response{Reply: message.Reply{Error: fmt.Sprintf("%v: %v", message.ErrInvalid, err)}}
	}
	resp := Response{ID: req.ID, Channel: req.Channel}

	ch, err := message.ParseChannel(req.Channel)
	if err != nil {
		resp.Reply = message.Reply{Error: err.Error()}
		return resp
	}
	msg, err := message.Decode(ch, req.Payload)
	if err != nil {
		resp.Reply = message.Reply{Error: err.Error()}
		return resp
	}

	reply, err := h.d.Dispatch(ctx, msg)
	if err != nil {
		h.logger.Warn("native message failed", "channel", ch, "error", err)
	}
	resp.Reply = reply
	return resp
}

func (h *Host) write(w io.Writer, resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	h.wmu.Lock()
	defer h.wmu.Unlock()
	return WriteFrame(w, data)
}
