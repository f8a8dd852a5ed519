package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Canonicalization errors.
var (
	errUnsupportedType = errors.New("unsupported type for canonical encoding")
	errKeyCollision    = errors.New("normalized map key collision")
)

// canonicalize encodes a record body map as canonical JSON. The encoding is
// deterministic: object keys sorted bytewise after NFC normalization, strings
// NFC-normalized, nil map values stripped, integers only. Two semantically
// identical bodies always produce identical bytes, so the chain hash is
// stable across processes and platforms.
func canonicalize(body map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch value := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case string:
		return writeString(buf, value)
	case bool:
		if value {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case int:
		buf.WriteString(strconv.FormatInt(int64(value), 10))
		return nil
	case int64:
		buf.WriteString(strconv.FormatInt(value, 10))
		return nil
	case map[string]any:
		return writeMap(buf, value)
	case map[string]string:
		converted := make(map[string]any, len(value))
		for k, s := range value {
			converted[k] = s
		}
		return writeMap(buf, converted)
	case []any:
		return writeSlice(buf, value)
	case []string:
		converted := make([]any, len(value))
		for i, s := range value {
			converted[i] = s
		}
		return writeSlice(buf, converted)
	default:
		return errUnsupportedType
	}
}

func writeString(buf *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(norm.NFC.String(s))
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}

type mapEntry struct {
	key   string
	value any
}

func writeMap(buf *bytes.Buffer, m map[string]any) error {
	entries := make([]mapEntry, 0, len(m))
	seen := make(map[string]struct{}, len(m))
	for key, value := range m {
		normalized := norm.NFC.String(key)
		if _, ok := seen[normalized]; ok {
			return errKeyCollision
		}
		seen[normalized] = struct{}{}
		if value == nil {
			continue
		}
		entries = append(entries, mapEntry{key: normalized, value: value})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	buf.WriteByte('{')
	for i, entry := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, entry.key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeValue(buf, entry.value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeSlice(buf *bytes.Buffer, s []any) error {
	buf.WriteByte('[')
	for i, value := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(buf, value); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}
