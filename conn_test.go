// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package dtlsrec

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/pion/transport/v3/dpipe"
	"github.com/pion/transport/v3/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqguard/dtlsrec/pkg/crypto/ciphersuite"
	"github.com/seqguard/dtlsrec/pkg/crypto/hkdf13"
	"github.com/seqguard/dtlsrec/pkg/protocol"
)

func installDirection(t *testing.T, secret []byte, writer, reader *Conn) {
	t.Helper()

	keys, err := hkdf13.DeriveTrafficKeys(sha256.New, secret, 16, 12)
	require.NoError(t, err)
	sealCipher, err := ciphersuite.NewGCM13(keys)
	require.NoError(t, err)
	openCipher, err := ciphersuite.NewGCM13(keys)
	require.NoError(t, err)
	require.NoError(t, writer.InstallWriteEpoch(1, sealCipher))
	require.NoError(t, reader.InstallReadEpoch(1, openCipher))
}

// pipeProtected builds two connected Conns with epoch 1 keys installed in
// both directions, standing in for a completed handshake.
func pipeProtected(t *testing.T) (*Conn, *Conn) {
	t.Helper()

	ca, cb := dpipe.Pipe()
	config := &Config{Version: protocol.Version1_3}
	c1 := NewConn(ca, config)
	c2 := NewConn(cb, config)

	installDirection(t, bytes.Repeat([]byte{0x01}, 32), c1, c2)
	installDirection(t, bytes.Repeat([]byte{0x02}, 32), c2, c1)

	return c1, c2
}

func TestConnReadWrite(t *testing.T) {
	defer test.CheckRoutines(t)()
	lim := test.TimeOut(10 * time.Second)
	defer lim.Stop()

	c1, c2 := pipeProtected(t)
	defer func() {
		_ = c1.Close()
		_ = c2.Close()
	}()

	_, err := c1.Write([]byte("ping"))
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, err := c2.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), buf[:n])

	_, err = c2.Write([]byte("pong"))
	require.NoError(t, err)

	n, err = c1.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("pong"), buf[:n])
}

func TestConnPartialRead(t *testing.T) {
	defer test.CheckRoutines(t)()
	lim := test.TimeOut(10 * time.Second)
	defer lim.Stop()

	c1, c2 := pipeProtected(t)
	defer func() {
		_ = c1.Close()
		_ = c2.Close()
	}()

	payload := bytes.Repeat([]byte{0xab}, 1000)
	_, err := c1.Write(payload)
	require.NoError(t, err)

	// A record larger than the read buffer is drained over several
	// calls.
	var got []byte
	buf := make([]byte, 64)
	for len(got) < len(payload) {
		n, err := c2.Read(buf)
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}
	assert.Equal(t, payload, got)
}

func TestConnClose(t *testing.T) {
	defer test.CheckRoutines(t)()
	lim := test.TimeOut(10 * time.Second)
	defer lim.Stop()

	c1, c2 := pipeProtected(t)
	defer func() {
		_ = c2.Close()
	}()

	require.NoError(t, c1.Close())
	require.NoError(t, c1.Close()) // idempotent

	buf := make([]byte, 64)
	_, err := c2.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
	_, err = c2.Read(buf)
	assert.ErrorIs(t, err, io.EOF)

	_, err = c1.Write([]byte("after close"))
	assert.ErrorIs(t, err, ErrConnClosed)
}

func TestConnIgnoresGarbage(t *testing.T) {
	defer test.CheckRoutines(t)()
	lim := test.TimeOut(10 * time.Second)
	defer lim.Stop()

	ca, cb := dpipe.Pipe()
	config := &Config{Version: protocol.Version1_3}
	c1 := NewConn(ca, config)
	c2 := NewConn(cb, config)
	installDirection(t, bytes.Repeat([]byte{0x03}, 32), c1, c2)
	installDirection(t, bytes.Repeat([]byte{0x04}, 32), c2, c1)
	defer func() {
		_ = c1.Close()
		_ = c2.Close()
	}()

	// Junk before a valid record is silently dropped.
	_, err := ca.Write([]byte{0xff, 0xfe, 0xfd, 0xfc})
	require.NoError(t, err)
	_, err = c1.Write([]byte("still here"))
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, err := c2.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("still here"), buf[:n])
}

func TestConnReadDeadline(t *testing.T) {
	defer test.CheckRoutines(t)()
	lim := test.TimeOut(10 * time.Second)
	defer lim.Stop()

	c1, c2 := pipeProtected(t)
	defer func() {
		_ = c1.Close()
		_ = c2.Close()
	}()

	require.NoError(t, c2.SetReadDeadline(time.Now().Add(20 * time.Millisecond)))
	_, err := c2.Read(make([]byte, 64))
	var netErr interface{ Timeout() bool }
	require.True(t, errors.As(err, &netErr))
	assert.True(t, netErr.Timeout())
}
