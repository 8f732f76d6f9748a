package types

import (
	"crypto/sha1"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HaystackID is a Git-style SHA-1 content hash (20 bytes) of a searched text.
type HaystackID [20]byte

// ComputeHaystackID computes SHA-1("blob {len}\0{content}"), the same value
// `git hash-object` reports for the content.
func ComputeHaystackID(content []byte) HaystackID {
	header := fmt.Sprintf("blob %d\x00", len(content))
	h := sha1.New()
	h.Write([]byte(header))
	h.Write(content)

	var id HaystackID
	copy(id[:], h.Sum(nil))
	return id
}

// Hex returns the 40-character hex form.
func (id HaystackID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id HaystackID) String() string {
	return id.Hex()
}

// ParseHaystackID parses a 40-char hex string.
func ParseHaystackID(hexStr string) (HaystackID, error) {
	if len(hexStr) != 40 {
		return HaystackID{}, fmt.Errorf("invalid haystack ID length: expected 40, got %d", len(hexStr))
	}

	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return HaystackID{}, fmt.Errorf("invalid hex string: %w", err)
	}

	var id HaystackID
	copy(id[:], decoded)
	return id, nil
}

// MarshalJSON implements json.Marshaler.
func (id HaystackID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *HaystackID) UnmarshalJSON(data []byte) error {
	var hexStr string
	if err := json.Unmarshal(data, &hexStr); err != nil {
		return err
	}

	parsed, err := ParseHaystackID(hexStr)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value implements driver.Valuer.
func (id HaystackID) Value() (driver.Value, error) {
	return id.Hex(), nil
}

// Scan implements sql.Scanner.
func (id *HaystackID) Scan(value interface{}) error {
	var hexStr string
	switch v := value.(type) {
	case string:
		hexStr = v
	case []byte:
		hexStr = string(v)
	case nil:
		return fmt.Errorf("cannot scan nil into HaystackID")
	default:
		return fmt.Errorf("cannot scan type %T into HaystackID", value)
	}

	parsed, err := ParseHaystackID(hexStr)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
