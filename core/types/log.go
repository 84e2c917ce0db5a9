// log.go implements the EVM log event emitted by LOG0..LOG4.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// MaxTopicsPerLog is the maximum number of indexed topics a single log
// event may carry. EVM LOG0..LOG4 opcodes allow 0-4 topics.
const MaxTopicsPerLog = 4

// Log represents a single contract log event accumulated during one
// interpreter invocation: an ordered sequence of topic words plus an
// opaque data payload copied from memory at LOGn time.
type Log struct {
	Topics []Hash
	Data   []byte
}

// jsonLog is the JSON-serializable representation of a Log, using the
// same 0x-prefixed hex encoding convention as the rest of the package.
type jsonLog struct {
	Topics []string `json:"topics"`
	Data   string   `json:"data"`
}

// MarshalJSON implements json.Marshaler.
func (l Log) MarshalJSON() ([]byte, error) {
	if len(l.Topics) > MaxTopicsPerLog {
		return nil, fmt.Errorf("log: too many topics: %d > %d", len(l.Topics), MaxTopicsPerLog)
	}
	topics := make([]string, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = fmt.Sprintf("0x%s", hex.EncodeToString(t[:]))
	}
	return json.Marshal(jsonLog{
		Topics: topics,
		Data:   fmt.Sprintf("0x%s", hex.EncodeToString(l.Data)),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Log) UnmarshalJSON(data []byte) error {
	var jl jsonLog
	if err := json.Unmarshal(data, &jl); err != nil {
		return fmt.Errorf("log: json unmarshal: %w", err)
	}
	for _, ts := range jl.Topics {
		b, err := decodeHexField(ts)
		if err != nil {
			return fmt.Errorf("log: parse topic: %w", err)
		}
		l.Topics = append(l.Topics, BytesToHash(b))
	}
	data2, err := decodeHexField(jl.Data)
	if err != nil {
		return fmt.Errorf("log: parse data: %w", err)
	}
	l.Data = data2
	return nil
}

// decodeHexField strips an optional "0x" prefix and hex-decodes a string.
func decodeHexField(s string) ([]byte, error) {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}
