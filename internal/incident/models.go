package incident

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	// IssueNumberField is the document key that carries the sequential identifier.
	IssueNumberField = "issue_number"
	// StorageIDField is the store-assigned identifier key (Mongo _id).
	StorageIDField = "_id"
)

// Incident is a schemaless incident record. IssueNumber is assigned by the
// sequence allocator; Attributes holds every other caller-supplied field.
type Incident struct {
	IssueNumber int64
	Attributes  map[string]interface{}
}

// New builds an incident from caller fields. Any issue_number or _id inside
// fields is discarded.
func New(issueNumber int64, fields map[string]interface{}) *Incident {
	attrs := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if k == IssueNumberField || k == StorageIDField {
			continue
		}
		attrs[k] = v
	}
	return &Incident{IssueNumber: issueNumber, Attributes: attrs}
}

// FromDocument splits a flat stored document into an Incident.
// Keys other than issue_number, including _id, are kept as attributes.
func FromDocument(doc map[string]interface{}) (*Incident, error) {
	raw, ok := doc[IssueNumberField]
	if !ok {
		return nil, fmt.Errorf("document has no %s field", IssueNumberField)
	}
	n, err := toInt64(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", IssueNumberField, err)
	}
	attrs := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k == IssueNumberField {
			continue
		}
		attrs[k] = v
	}
	return &Incident{IssueNumber: n, Attributes: attrs}, nil
}

// FromStoredDocument is FromDocument for rows read back from the store. A
// missing or non-integer issue_number does not fail: IssueNumber stays 0 and
// the raw value, if any, is kept in Attributes so it round-trips unchanged.
func FromStoredDocument(doc map[string]interface{}) *Incident {
	if inc, err := FromDocument(doc); err == nil && inc.IssueNumber != 0 {
		return inc
	}
	attrs := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		attrs[k] = v
	}
	return &Incident{Attributes: attrs}
}

// Document returns the flat representation persisted to the store and
// serialized to clients. An assigned issue_number wins over an attribute of
// the same name; an unassigned one (0) leaves the attribute as stored.
func (i *Incident) Document() map[string]interface{} {
	out := make(map[string]interface{}, len(i.Attributes)+1)
	for k, v := range i.Attributes {
		out[k] = v
	}
	if i.IssueNumber != 0 {
		out[IssueNumberField] = i.IssueNumber
	}
	return out
}

// Clone returns a copy whose attribute map can be mutated independently.
// Nested maps and slices are shared.
func (i *Incident) Clone() *Incident {
	attrs := make(map[string]interface{}, len(i.Attributes))
	for k, v := range i.Attributes {
		attrs[k] = v
	}
	return &Incident{IssueNumber: i.IssueNumber, Attributes: attrs}
}

func (i *Incident) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Document())
}

func (i *Incident) UnmarshalJSON(b []byte) error {
	var doc map[string]interface{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	parsed, err := FromDocument(doc)
	if err != nil {
		return err
	}
	*i = *parsed
	return nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("non-integer value %v", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
