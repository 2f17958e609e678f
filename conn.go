// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package dtlsrec

import (
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/seqguard/dtlsrec/pkg/crypto/ciphersuite"
	"github.com/seqguard/dtlsrec/pkg/protocol"
	"github.com/seqguard/dtlsrec/pkg/protocol/alert"
	"github.com/seqguard/dtlsrec/pkg/protocol/recordlayer"
)

// inboundBufferSize fits any single full-sized record.
const inboundBufferSize = recordlayer.HeaderSize + recordlayer.MaxCiphertextLen

// Conn adapts a datagram net.Conn into a record-protected byte stream.
// Keys are installed by the handshake layer through InstallReadEpoch and
// InstallWriteEpoch; Conn itself performs no handshake and owns no
// timers beyond the deadlines of the underlying connection.
type Conn struct {
	nextConn net.Conn
	rec      *RecordLayer

	readMu   sync.Mutex
	leftover []byte
	inbound  []byte
	peerEOF  bool

	writeMu sync.Mutex

	closeOnce sync.Once
	closed    bool
	closedMu  sync.RWMutex
}

// NewConn wraps nextConn, which must preserve datagram boundaries. The
// connection starts in the unencrypted epoch 0 state.
func NewConn(nextConn net.Conn, config *Config) *Conn {
	return &Conn{
		nextConn: nextConn,
		rec:      NewRecordLayer(config),
		inbound:  make([]byte, inboundBufferSize),
	}
}

// RecordLayer exposes the record layer for epoch and version management.
// It must not be used concurrently with Read, Write or Close.
func (c *Conn) RecordLayer() *RecordLayer { return c.rec }

// InstallReadEpoch installs the AEAD context protecting inbound records.
func (c *Conn) InstallReadEpoch(epoch uint16, cipher ciphersuite.AEAD) error {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	return c.rec.InstallReadEpoch(epoch, cipher)
}

// InstallWriteEpoch installs the AEAD context protecting outbound records.
func (c *Conn) InstallWriteEpoch(epoch uint16, cipher ciphersuite.AEAD) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.rec.InstallWriteEpoch(epoch, cipher)
}

func (c *Conn) isClosed() bool {
	c.closedMu.RLock()
	defer c.closedMu.RUnlock()

	return c.closed
}

// Read reads application data, blocking until a record is delivered, the
// peer closes or the read deadline passes. Data left over from a record
// larger than p is returned by subsequent calls.
func (c *Conn) Read(p []byte) (int, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	if len(c.leftover) > 0 {
		n := copy(p, c.leftover)
		c.leftover = c.leftover[n:]

		return n, nil
	}
	if c.peerEOF {
		return 0, io.EOF
	}

	for {
		if c.isClosed() {
			return 0, ErrConnClosed
		}

		n, err := c.nextConn.Read(c.inbound)
		if err != nil {
			return 0, err
		}

		datagram := c.inbound[:n]
		for len(datagram) > 0 {
			consumed, result := c.rec.OpenRecord(datagram)
			if consumed == 0 {
				break
			}
			datagram = datagram[consumed:]

			switch result.Kind {
			case ResultDiscard:
				continue
			case ResultCloseNotify:
				c.peerEOF = true

				return 0, io.EOF
			case ResultRecord:
			}
			switch {
			case result.ContentType == protocol.ContentTypeApplicationData:
				out := copy(p, result.Plaintext)
				if out < len(result.Plaintext) {
					c.leftover = append(c.leftover[:0], result.Plaintext[out:]...)
				}

				return out, nil
			case result.Alert != nil && result.Alert.Level == alert.Fatal:
				return 0, &protocol.FatalError{Err: fmt.Errorf("fatal alert: %s", result.Alert.Description)} //nolint:err113
			default:
				// Warning alerts and non-application records are not
				// ours to deliver.
				continue
			}
		}
	}
}

// Write seals p as application data records under the current write
// epoch. Payloads larger than one record's plaintext limit are split
// across records, each sent as its own datagram.
func (c *Conn) Write(p []byte) (int, error) {
	if c.isClosed() {
		return 0, ErrConnClosed
	}
	if len(p) == 0 {
		return 0, nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	written := 0
	for written < len(p) {
		chunk := p[written:]
		if len(chunk) > recordlayer.MaxPlaintextLen {
			chunk = chunk[:recordlayer.MaxPlaintextLen]
		}

		if err := c.sendRecord(protocol.ContentTypeApplicationData, chunk); err != nil {
			return written, err
		}
		written += len(chunk)
	}

	return written, nil
}

func (c *Conn) sendRecord(contentType protocol.ContentType, payload []byte) error {
	epoch := c.rec.WriteEpoch()
	buf := make([]byte, len(payload)+c.rec.MaxSealOverhead(epoch))
	n, err := c.rec.SealRecord(buf, contentType, payload, epoch)
	if err != nil {
		return err
	}
	_, err = c.nextConn.Write(buf[:n])

	return err
}

// Close sends a close_notify alert to the peer and closes the underlying
// connection. It is safe to call multiple times.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		closeNotify, marshalErr := (&alert.Alert{Level: alert.Warning, Description: alert.CloseNotify}).Marshal()
		if marshalErr == nil {
			// Best effort; the transport may already be gone.
			_ = c.sendRecord(protocol.ContentTypeAlert, closeNotify)
		}
		c.writeMu.Unlock()

		c.closedMu.Lock()
		c.closed = true
		c.closedMu.Unlock()

		err = c.nextConn.Close()
	})

	return err
}

// LocalAddr returns the local address of the underlying connection.
func (c *Conn) LocalAddr() net.Addr { return c.nextConn.LocalAddr() }

// RemoteAddr returns the remote address of the underlying connection.
func (c *Conn) RemoteAddr() net.Addr { return c.nextConn.RemoteAddr() }

// SetDeadline sets both deadlines on the underlying connection.
func (c *Conn) SetDeadline(t time.Time) error { return c.nextConn.SetDeadline(t) }

// SetReadDeadline sets the read deadline on the underlying connection.
func (c *Conn) SetReadDeadline(t time.Time) error { return c.nextConn.SetReadDeadline(t) }

// SetWriteDeadline sets the write deadline on the underlying connection.
func (c *Conn) SetWriteDeadline(t time.Time) error { return c.nextConn.SetWriteDeadline(t) }
