package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Field is a single named value of a feed record.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// InputRecord is one feed row keyed by column name, in original column order.
// It is immutable once constructed.
type InputRecord struct {
	fields []Field
	index  map[string]int
	folded map[string]int
}

// NewInputRecord zips header names with row values. Missing trailing values are
// treated as empty; empty and duplicate names are skipped (first occurrence wins).
func NewInputRecord(names, values []string) InputRecord {
	fields := make([]Field, 0, len(names))
	for i, name := range names {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		fields = append(fields, Field{Name: name, Value: v})
	}
	return NewInputRecordFromFields(fields)
}

// NewInputRecordFromFields builds a record from ordered fields.
func NewInputRecordFromFields(fields []Field) InputRecord {
	r := InputRecord{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
		folded: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		if _, dup := r.index[name]; dup {
			continue
		}
		r.index[name] = len(r.fields)
		if _, ok := r.folded[normalizeKey(name)]; !ok {
			r.folded[normalizeKey(name)] = len(r.fields)
		}
		r.fields = append(r.fields, Field{Name: name, Value: f.Value})
	}
	return r
}

// Len returns the number of fields.
func (r InputRecord) Len() int { return len(r.fields) }

// Get returns the value for an exact field name.
func (r InputRecord) Get(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.fields[i].Value, true
}

// Lookup returns the value for name, trying an exact match first and then a
// case-insensitive one.
func (r InputRecord) Lookup(name string) (string, bool) {
	if v, ok := r.Get(name); ok {
		return v, true
	}
	i, ok := r.folded[normalizeKey(name)]
	if !ok {
		return "", false
	}
	return r.fields[i].Value, true
}

// Has reports whether the record has a field matching name case-insensitively.
func (r InputRecord) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Value returns the value for name (case-insensitive), or "" when absent.
func (r InputRecord) Value(name string) string {
	v, _ := r.Lookup(name)
	return v
}

// Keys returns the field names in column order.
func (r InputRecord) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Name
	}
	return keys
}

// Values returns the field values in column order.
func (r InputRecord) Values() []string {
	vals := make([]string, len(r.fields))
	for i, f := range r.fields {
		vals[i] = f.Value
	}
	return vals
}

// Fields returns a copy of the ordered fields.
func (r InputRecord) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// MarshalJSON encodes the record as a JSON object preserving column order.
func (r InputRecord) MarshalJSON() ([]byte, error) {
	return marshalOrdered(r.fields)
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (r *InputRecord) UnmarshalJSON(data []byte) error {
	fields, err := unmarshalOrdered(data)
	if err != nil {
		return err
	}
	*r = NewInputRecordFromFields(fields)
	return nil
}

// AttributeMap is an insertion-ordered key→value map of gap-filled and invented attributes.
type AttributeMap struct {
	keys   []string
	values map[string]string
}

// NewAttributeMap creates an empty AttributeMap.
func NewAttributeMap() AttributeMap {
	return AttributeMap{values: map[string]string{}}
}

// Set stores value under key. An existing key keeps its original position.
func (m *AttributeMap) Set(key, value string) {
	if m.values == nil {
		m.values = map[string]string{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m AttributeMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m AttributeMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m AttributeMap) Len() int { return len(m.keys) }

// MarshalJSON encodes the map as a JSON object preserving insertion order.
func (m AttributeMap) MarshalJSON() ([]byte, error) {
	fields := make([]Field, len(m.keys))
	for i, k := range m.keys {
		fields[i] = Field{Name: k, Value: m.values[k]}
	}
	return marshalOrdered(fields)
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (m *AttributeMap) UnmarshalJSON(data []byte) error {
	fields, err := unmarshalOrdered(data)
	if err != nil {
		return err
	}
	*m = NewAttributeMap()
	for _, f := range fields {
		m.Set(f.Name, f.Value)
	}
	return nil
}

func marshalOrdered(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// unmarshalOrdered reads a flat JSON object in key order. Non-string scalar values
// are kept in their JSON text form; null becomes "".
func unmarshalOrdered(data []byte) ([]Field, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}
	var fields []Field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding value for %q: %w", key, err)
		}
		fields = append(fields, Field{Name: key, Value: rawToString(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// NormalizeKey is the canonical form used to compare attribute keys across rows.
func NormalizeKey(key string) string {
	return normalizeKey(key)
}

// RecordsFromTable converts a raw table into records keyed by its header row.
// Rows whose cells are all blank are skipped.
func RecordsFromTable(table [][]string) []InputRecord {
	if len(table) == 0 {
		return nil
	}
	header := table[0]
	records := make([]InputRecord, 0, len(table)-1)
	for _, row := range table[1:] {
		if isBlankRow(row) {
			continue
		}
		records = append(records, NewInputRecord(header, row))
	}
	return records
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
