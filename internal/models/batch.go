package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// FaultBatch is one evaluation cycle from the PLC gateway: a local-zone
// timestamp plus the fault codes currently reading abnormal. Not persisted.
type FaultBatch struct {
	Timestamp string
	Codes     []int // deduplicated, ascending
}

type rawBatch struct {
	Timestamp string   `json:"timestamp"`
	Error     []string `json:"error"` // PLC sends codes as strings
}

// ParseFaultBatch decodes the gateway payload, converting and deduplicating
// the fault codes. A payload with no codes is a valid, empty batch.
func ParseFaultBatch(payload []byte) (*FaultBatch, error) {
	var raw rawBatch
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("malformed fault batch: %w", err)
	}

	seen := make(map[int]bool, len(raw.Error))
	codes := make([]int, 0, len(raw.Error))
	for _, s := range raw.Error {
		code, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("malformed fault code %q: %w", s, err)
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	sort.Ints(codes)

	return &FaultBatch{Timestamp: raw.Timestamp, Codes: codes}, nil
}

// IsEmpty reports whether the batch carries no fault codes.
func (b *FaultBatch) IsEmpty() bool {
	return len(b.Codes) == 0
}

// CodeSet returns the batch codes as a membership set.
func (b *FaultBatch) CodeSet() map[int]bool {
	set := make(map[int]bool, len(b.Codes))
	for _, c := range b.Codes {
		set[c] = true
	}
	return set
}

// StatusMessage is the per-fault-code status published each cycle to that
// code's topic. Downstream state logic expects every value as a string.
type StatusMessage struct {
	Timestamp string `json:"timestamp"`
	IsNormal  string `json:"isNormal"`
	ErrorCode string `json:"error"`
}

// NewStatusMessage builds the wire form of a status message.
func NewStatusMessage(timestampUTC string, errorCode int, isNormal bool) StatusMessage {
	return StatusMessage{
		Timestamp: timestampUTC,
		IsNormal:  strconv.FormatBool(isNormal),
		ErrorCode: strconv.Itoa(errorCode),
	}
}
