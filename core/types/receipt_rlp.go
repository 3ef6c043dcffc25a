package types

import (
	"fmt"

	"github.com/ethcoreengine/ethcoreengine/rlp"
)

// EncodeRLP returns the consensus RLP encoding of a receipt:
// [PostStateOrStatus, CumulativeGasUsed, Bloom, Logs]. Pre-Byzantium
// receipts carry a 32-byte PostState root; later receipts carry a
// Status value of 0 or 1.
func (r *Receipt) EncodeRLP() ([]byte, error) {
	var statusPayload []byte
	var err error
	if len(r.PostState) > 0 {
		statusPayload, err = rlp.EncodeToBytes(r.PostState)
	} else {
		statusPayload, err = rlp.EncodeToBytes(r.Status)
	}
	if err != nil {
		return nil, fmt.Errorf("receipt: encode status: %w", err)
	}

	gasPayload, err := rlp.EncodeToBytes(r.CumulativeGasUsed)
	if err != nil {
		return nil, fmt.Errorf("receipt: encode cumulative gas: %w", err)
	}

	bloomPayload, err := rlp.EncodeToBytes(r.Bloom[:])
	if err != nil {
		return nil, fmt.Errorf("receipt: encode bloom: %w", err)
	}

	var logsPayload []byte
	for _, l := range r.Logs {
		enc, err := EncodeLogRLP(l)
		if err != nil {
			return nil, fmt.Errorf("receipt: encode log: %w", err)
		}
		logsPayload = append(logsPayload, enc...)
	}

	var payload []byte
	payload = append(payload, statusPayload...)
	payload = append(payload, gasPayload...)
	payload = append(payload, bloomPayload...)
	payload = append(payload, rlp.WrapList(logsPayload)...)
	return rlp.WrapList(payload), nil
}

// DecodeReceiptRLP decodes a receipt from its consensus RLP encoding.
func DecodeReceiptRLP(data []byte) (*Receipt, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, fmt.Errorf("receipt: decode outer list: %w", err)
	}

	r := &Receipt{}

	statusBytes, err := s.Bytes()
	if err != nil {
		return nil, fmt.Errorf("receipt: decode status: %w", err)
	}
	if len(statusBytes) == HashLength {
		r.PostState = append([]byte(nil), statusBytes...)
	} else {
		var v uint64
		for _, b := range statusBytes {
			v = v<<8 | uint64(b)
		}
		r.Status = v
	}

	gasBytes, err := s.Bytes()
	if err != nil {
		return nil, fmt.Errorf("receipt: decode cumulative gas: %w", err)
	}
	var gas uint64
	for _, b := range gasBytes {
		gas = gas<<8 | uint64(b)
	}
	r.CumulativeGasUsed = gas

	bloomBytes, err := s.Bytes()
	if err != nil {
		return nil, fmt.Errorf("receipt: decode bloom: %w", err)
	}
	if len(bloomBytes) != BloomLength {
		return nil, fmt.Errorf("receipt: invalid bloom length: %d", len(bloomBytes))
	}
	copy(r.Bloom[:], bloomBytes)

	if _, err := s.List(); err != nil {
		return nil, fmt.Errorf("receipt: decode logs list: %w", err)
	}
	for !s.AtListEnd() {
		if _, err := s.List(); err != nil {
			return nil, fmt.Errorf("receipt: decode log outer list: %w", err)
		}
		l, err := decodeLogFromStream(s)
		if err != nil {
			return nil, fmt.Errorf("receipt: decode log: %w", err)
		}
		if err := s.ListEnd(); err != nil {
			return nil, fmt.Errorf("receipt: decode log outer list end: %w", err)
		}
		r.Logs = append(r.Logs, l)
	}
	if err := s.ListEnd(); err != nil {
		return nil, fmt.Errorf("receipt: decode logs list end: %w", err)
	}

	if err := s.ListEnd(); err != nil {
		return nil, fmt.Errorf("receipt: decode outer list end: %w", err)
	}
	return r, nil
}
