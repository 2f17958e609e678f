// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

// Package dtlsrec implements the DTLS record layer: framing, AEAD
// protection, epoch and sequence number reconstruction and anti-replay
// for records carried over an unreliable transport.
package dtlsrec

import (
	"encoding/binary"

	"github.com/pion/logging"

	"github.com/seqguard/dtlsrec/internal/replaydetector"
	"github.com/seqguard/dtlsrec/internal/seqnum"
	"github.com/seqguard/dtlsrec/pkg/crypto/ciphersuite"
	"github.com/seqguard/dtlsrec/pkg/protocol"
	"github.com/seqguard/dtlsrec/pkg/protocol/alert"
	"github.com/seqguard/dtlsrec/pkg/protocol/recordlayer"
)

// ResultKind classifies the outcome of OpenRecord.
type ResultKind int

// OpenRecord outcomes.
const (
	// ResultDiscard means the bytes did not yield a deliverable record:
	// malformed, replayed, stale, forged or oversized. Never fatal.
	ResultDiscard ResultKind = iota

	// ResultRecord means an authenticated record was delivered.
	ResultRecord

	// ResultCloseNotify means an authenticated close_notify alert was
	// received; the record layer refuses further reads.
	ResultCloseNotify
)

// OpenResult is the outcome of opening one record.
type OpenResult struct {
	Kind        ResultKind
	ContentType protocol.ContentType
	Plaintext   []byte
	Alert       *alert.Alert
}

type readState struct {
	epoch  uint16
	cipher ciphersuite.AEAD
	replay replaydetector.ReplayDetector
}

type writeState struct {
	epoch  uint16
	cipher ciphersuite.AEAD
	seq    uint64
}

// RecordLayer frames and protects DTLS records for one connection. The
// handshake layer installs per-epoch AEAD contexts; everything else is
// driven through OpenRecord and SealRecord.
//
// A RecordLayer is not safe for concurrent use. The caller serializes
// access per connection; independent connections are independent.
type RecordLayer struct {
	log     logging.LeveledLogger
	version protocol.Version

	windowSize   uint
	alertHandler func(alert.Alert)

	read      readState
	write     *writeState
	prevWrite *writeState

	closed bool
}

// NewRecordLayer creates a record layer in the unencrypted state: epoch 0
// with null ciphers in both directions.
func NewRecordLayer(config *Config) *RecordLayer {
	if config == nil {
		config = &Config{}
	}
	windowSize := config.replayProtectionWindow()

	return &RecordLayer{
		log:          config.loggerFactory().NewLogger("dtlsrec"),
		version:      config.version(),
		windowSize:   windowSize,
		alertHandler: config.AlertHandler,
		read: readState{
			cipher: ciphersuite.NullCipher{},
			replay: replaydetector.New(windowSize, recordlayer.MaxSequenceNumber),
		},
		write: &writeState{cipher: ciphersuite.NullCipher{}},
	}
}

// SetVersion records the negotiated protocol version. Until it is
// Version1_3, all records use the 13-byte header format.
func (r *RecordLayer) SetVersion(v protocol.Version) {
	r.version = v
}

// InstallReadEpoch replaces the read context. The replay window resets;
// records from earlier epochs are discarded from here on.
func (r *RecordLayer) InstallReadEpoch(epoch uint16, cipher ciphersuite.AEAD) error {
	if epoch < r.read.epoch {
		return errEpochRegression
	}
	r.read = readState{
		epoch:  epoch,
		cipher: cipher,
		replay: replaydetector.New(r.windowSize, recordlayer.MaxSequenceNumber),
	}

	return nil
}

// InstallWriteEpoch installs a write context for a new epoch. The
// previous epoch's context is retained so in-flight retransmissions can
// still be sealed; anything older is dropped.
func (r *RecordLayer) InstallWriteEpoch(epoch uint16, cipher ciphersuite.AEAD) error {
	switch {
	case epoch < r.write.epoch:
		return errEpochRegression
	case epoch == r.write.epoch:
		r.write.cipher = cipher
	default:
		r.prevWrite = r.write
		r.write = &writeState{epoch: epoch, cipher: cipher}
	}

	return nil
}

// ReadEpoch returns the current read epoch.
func (r *RecordLayer) ReadEpoch() uint16 { return r.read.epoch }

// WriteEpoch returns the current write epoch.
func (r *RecordLayer) WriteEpoch() uint16 { return r.write.epoch }

func (r *RecordLayer) writeStateFor(epoch uint16) *writeState {
	if r.write.epoch == epoch {
		return r.write
	}
	if r.prevWrite != nil && r.prevWrite.epoch == epoch {
		return r.prevWrite
	}

	return nil
}

// HeaderWriteLen returns the header size SealRecord writes for an epoch:
// 13 bytes for the legacy format, 5 for the unified header (a 16-bit
// sequence number and an explicit length are always written).
func (r *RecordLayer) HeaderWriteLen(epoch uint16) int {
	if r.useUnified(epoch) {
		return 1 + 2 + 2
	}

	return recordlayer.HeaderSize
}

// MaxSealOverhead returns the worst-case difference between plaintext
// length and SealRecord output length for an epoch.
func (r *RecordLayer) MaxSealOverhead(epoch uint16) int {
	ws := r.writeStateFor(epoch)
	if ws == nil {
		return 0
	}
	overhead := r.HeaderWriteLen(epoch) + ws.cipher.MaxOverhead()
	if r.useUnified(epoch) {
		overhead++ // inner content type byte
	}

	return overhead
}

func (r *RecordLayer) useUnified(epoch uint16) bool {
	return r.version.Equal(protocol.Version1_3) && epoch > 0
}

func (r *RecordLayer) discard(consumed int, reason string) (int, OpenResult) {
	r.log.Tracef("discarding record: %s", reason)

	return consumed, OpenResult{Kind: ResultDiscard}
}

// OpenRecord parses, authenticates and decrypts the record at the start
// of datagram. It reports the bytes consumed so the caller can scan a
// datagram holding several records. Failures of any kind consume bytes
// and return ResultDiscard; they are never connection-fatal. The returned
// plaintext aliases datagram, which OpenRecord may modify in place.
func (r *RecordLayer) OpenRecord(datagram []byte) (int, OpenResult) {
	if r.closed {
		return r.discard(len(datagram), "close_notify already received")
	}
	if len(datagram) == 0 {
		return r.discard(0, "empty datagram")
	}

	if protocol.IsDTLS13Ciphertext(protocol.ContentType(datagram[0])) &&
		!r.read.cipher.IsNullCipher() && r.version.Equal(protocol.Version1_3) {
		return r.openUnified(datagram)
	}

	return r.openLegacy(datagram)
}

func (r *RecordLayer) openLegacy(datagram []byte) (int, OpenResult) {
	var header recordlayer.Header
	if err := header.Unmarshal(datagram); err != nil {
		return r.discard(len(datagram), err.Error())
	}
	if r.read.cipher.IsNullCipher() {
		// Before a version is negotiated only the major byte is
		// meaningful, so that version negotiation alerts get through.
		if header.Version.Major != protocol.Version1_2.Major {
			return r.discard(len(datagram), "record version mismatch")
		}
	} else if !header.Version.Equal(r.read.cipher.RecordVersion()) {
		return r.discard(len(datagram), "record version mismatch")
	}
	if int(header.ContentLen) > recordlayer.MaxCiphertextLen {
		return r.discard(len(datagram), "declared length exceeds maximum ciphertext size")
	}
	if recordlayer.HeaderSize+int(header.ContentLen) > len(datagram) {
		return r.discard(len(datagram), "record body truncated")
	}
	consumed := recordlayer.HeaderSize + int(header.ContentLen)
	body := datagram[recordlayer.HeaderSize:consumed]

	if header.Epoch != r.read.epoch {
		return r.discard(consumed, "epoch mismatch")
	}
	accept, ok := r.read.replay.Check(header.SequenceNumber)
	if !ok {
		return r.discard(consumed, "duplicate or stale sequence number")
	}

	recordNumber := uint64(header.Epoch)<<48 | header.SequenceNumber
	plaintext, err := r.read.cipher.Open(nil, recordNumber, datagram[:recordlayer.HeaderSize], body)
	if err != nil {
		return r.discard(consumed, err.Error())
	}
	if len(plaintext) > recordlayer.MaxPlaintextLen {
		return r.discard(consumed, "plaintext exceeds maximum size")
	}
	accept()

	return consumed, r.deliver(header.ContentType, plaintext)
}

func (r *RecordLayer) openUnified(datagram []byte) (int, OpenResult) {
	var header recordlayer.UnifiedHeader
	if err := header.Unmarshal(datagram); err != nil {
		return r.discard(len(datagram), err.Error())
	}

	headerLen := header.Size()
	consumed := len(datagram)
	end := len(datagram)
	if header.LengthPresent {
		if int(header.Length) > recordlayer.MaxCiphertextLen {
			return r.discard(len(datagram), "declared length exceeds maximum ciphertext size")
		}
		end = headerLen + int(header.Length)
		if end > len(datagram) {
			return r.discard(len(datagram), "record body truncated")
		}
		consumed = end
	}
	body := datagram[headerLen:end]

	// The mask depends only on the ciphertext, so it can be removed
	// before the record is authenticated. The header used as associated
	// data must hold the unmasked bytes.
	mask, err := r.read.cipher.GenerateRecordNumberMask(body)
	if err != nil {
		return r.discard(consumed, err.Error())
	}
	seqBytes := datagram[recordlayer.UnifiedHeaderSeqOffset : recordlayer.UnifiedHeaderSeqOffset+header.SequenceNumberLen]
	for i := range seqBytes {
		seqBytes[i] ^= mask[i]
	}
	if header.SequenceNumberLen == 2 {
		header.SequenceNumber = binary.BigEndian.Uint16(seqBytes)
	} else {
		header.SequenceNumber = uint16(seqBytes[0])
	}

	epoch := seqnum.ReconstructEpoch(header.EpochLow, r.read.epoch)
	if epoch != r.read.epoch {
		return r.discard(consumed, "epoch mismatch")
	}

	seqMask := uint64(1)<<(8*header.SequenceNumberLen) - 1
	seq := seqnum.ReconstructSequence(uint64(header.SequenceNumber), seqMask, r.read.replay.Latest()+1)
	accept, ok := r.read.replay.Check(seq)
	if !ok {
		return r.discard(consumed, "duplicate or stale sequence number")
	}

	plaintext, err := r.read.cipher.Open(nil, seq, datagram[:headerLen], body)
	if err != nil {
		return r.discard(consumed, err.Error())
	}
	if len(plaintext) > recordlayer.MaxPlaintextLen+1 {
		return r.discard(consumed, "plaintext exceeds maximum size")
	}

	var inner recordlayer.InnerPlaintext
	if err := inner.Unmarshal(plaintext); err != nil {
		return r.discard(consumed, err.Error())
	}
	accept()

	return consumed, r.deliver(inner.RealType, inner.Content)
}

func (r *RecordLayer) deliver(contentType protocol.ContentType, plaintext []byte) OpenResult {
	if contentType != protocol.ContentTypeAlert {
		return OpenResult{Kind: ResultRecord, ContentType: contentType, Plaintext: plaintext}
	}

	var a alert.Alert
	if err := a.Unmarshal(plaintext); err != nil {
		r.log.Tracef("discarding record: %s", err.Error())

		return OpenResult{Kind: ResultDiscard}
	}
	r.log.Debugf("received alert: %s", a.String())
	if r.alertHandler != nil {
		r.alertHandler(a)
	}
	if a.Description == alert.CloseNotify {
		r.closed = true

		return OpenResult{Kind: ResultCloseNotify, ContentType: contentType, Plaintext: plaintext, Alert: &a}
	}

	return OpenResult{Kind: ResultRecord, ContentType: contentType, Plaintext: plaintext, Alert: &a}
}

// SealRecord protects plaintext as one record under the given epoch and
// writes it to buf, returning the number of bytes written. Encrypted
// DTLS 1.3 epochs use the unified header with the record number mask
// applied; everything else uses the 13-byte format. The sequence counter
// advances on success. When the counter would exceed 48 bits the record
// is refused with ErrSequenceNumberOverflow and the epoch must be
// rekeyed.
func (r *RecordLayer) SealRecord(buf []byte, contentType protocol.ContentType, plaintext []byte, epoch uint16) (int, error) {
	ws := r.writeStateFor(epoch)
	if ws == nil {
		return 0, ErrUnknownWriteEpoch
	}
	if len(plaintext) > recordlayer.MaxPlaintextLen {
		return 0, errRecordTooLarge
	}
	if ws.seq > recordlayer.MaxSequenceNumber {
		return 0, ErrSequenceNumberOverflow
	}

	if r.useUnified(epoch) {
		return r.sealUnified(buf, ws, contentType, plaintext)
	}

	return r.sealLegacy(buf, ws, contentType, plaintext)
}

func (r *RecordLayer) sealLegacy(buf []byte, ws *writeState, contentType protocol.ContentType, plaintext []byte) (int, error) {
	bodyLen := ws.cipher.CiphertextLen(len(plaintext))
	total := recordlayer.HeaderSize + bodyLen
	if len(buf) < total {
		return 0, errBufferTooSmall
	}

	header := recordlayer.Header{
		ContentType:    contentType,
		Version:        ws.cipher.RecordVersion(),
		Epoch:          ws.epoch,
		SequenceNumber: ws.seq,
		ContentLen:     uint16(bodyLen), //nolint:gosec
	}
	headerBytes, err := header.Marshal()
	if err != nil {
		return 0, err
	}
	copy(buf, headerBytes)

	recordNumber := uint64(ws.epoch)<<48 | ws.seq
	body, err := ws.cipher.Seal(buf[recordlayer.HeaderSize:recordlayer.HeaderSize], recordNumber, buf[:recordlayer.HeaderSize], plaintext, nil)
	if err != nil {
		return 0, err
	}
	ws.seq++

	return recordlayer.HeaderSize + len(body), nil
}

func (r *RecordLayer) sealUnified(buf []byte, ws *writeState, contentType protocol.ContentType, plaintext []byte) (int, error) {
	bodyLen := ws.cipher.CiphertextLen(len(plaintext) + 1)
	headerLen := r.HeaderWriteLen(ws.epoch)
	if len(buf) < headerLen+bodyLen {
		return 0, errBufferTooSmall
	}

	header := recordlayer.UnifiedHeader{
		SequenceNumber:    uint16(ws.seq), //nolint:gosec // low 16 bits by construction
		SequenceNumberLen: 2,
		Length:            uint16(bodyLen), //nolint:gosec
		LengthPresent:     true,
		EpochLow:          uint8(ws.epoch & recordlayer.TwoLowBitsMask), //nolint:gosec
	}
	headerBytes, err := header.Marshal()
	if err != nil {
		return 0, err
	}
	copy(buf, headerBytes)

	body, err := ws.cipher.Seal(buf[headerLen:headerLen], ws.seq, buf[:headerLen], plaintext, []byte{byte(contentType)})
	if err != nil {
		return 0, err
	}

	// The mask depends on the ciphertext, so it is applied to the
	// already-written header after sealing.
	mask, err := ws.cipher.GenerateRecordNumberMask(body)
	if err != nil {
		return 0, err
	}
	for i := 0; i < header.SequenceNumberLen; i++ {
		buf[recordlayer.UnifiedHeaderSeqOffset+i] ^= mask[i]
	}
	ws.seq++

	return headerLen + len(body), nil
}
