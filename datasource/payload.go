package datasource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CorrelationToken ties a runtime response back to the fetch request that
// asked for it. Hosts are loose about the JSON type here, so both "101" and
// 101 decode; the engine always emits the string form.
type CorrelationToken struct {
	value   int
	present bool
}

// Correlation returns a token wrapping an engine-issued correlation number.
func Correlation(n int) CorrelationToken {
	return CorrelationToken{value: n, present: true}
}

// Present reports whether the payload carried a correlation token at all.
// Updates without one are unsolicited pushes and attach by page token.
func (t CorrelationToken) Present() bool { return t.present }

// Value returns the numeric token. Only meaningful when Present is true.
func (t CorrelationToken) Value() int { return t.value }

func (t CorrelationToken) String() string {
	if !t.present {
		return ""
	}
	return strconv.Itoa(t.value)
}

func (t CorrelationToken) MarshalJSON() ([]byte, error) {
	if !t.present {
		return []byte("null"), nil
	}
	return json.Marshal(strconv.Itoa(t.value))
}

func (t *CorrelationToken) UnmarshalJSON(data []byte) error {
	*t = CorrelationToken{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("correlation token %q is not numeric", v)
		}
		*t = Correlation(n)
	case float64:
		*t = Correlation(int(v))
	default:
		return fmt.Errorf("correlation token has unsupported type %T", raw)
	}
	return nil
}

// FetchRequestValue is the body of the fetch event the engine emits when a
// list needs more data. The host forwards it to whatever backs the list and
// eventually answers with an update payload echoing the correlation token.
type FetchRequestValue struct {
	ListID           string `json:"listId"`
	CorrelationToken string `json:"correlationToken"`

	// PageToken is set for token-addressed fetches.
	PageToken string `json:"pageToken,omitempty"`

	// StartIndex and Count are set for index-addressed fetches.
	StartIndex *int `json:"startIndex,omitempty"`
	Count      *int `json:"count,omitempty"`
}

// SeedPayload is the document-supplied declaration of a dynamic list: the
// initially present items plus whatever addressing the source kind needs.
// Token-addressed lists read the page tokens, index-addressed lists read the
// index fields, and unknown extras are ignored.
type SeedPayload struct {
	Type   string `json:"type"`
	ListID string `json:"listId"`
	Items  []any  `json:"items"`

	BackwardPageToken string `json:"backwardPageToken,omitempty"`
	ForwardPageToken  string `json:"pageToken,omitempty"`

	StartIndex            *int `json:"startIndex,omitempty"`
	MinimumInclusiveIndex *int `json:"minimumInclusiveIndex,omitempty"`
	MaximumExclusiveIndex *int `json:"maximumExclusiveIndex,omitempty"`
	ListVersion           *int `json:"listVersion,omitempty"`
}

// UpdatePayload is a runtime response or push for a token-addressed list.
// A nil Items means the key was absent, which is a malformed payload; an
// empty non-nil Items is the retryable "backend had nothing yet" case. A nil
// NextPageToken or an empty one both mark the fetched side exhausted.
type UpdatePayload struct {
	ListID           string           `json:"listId"`
	CorrelationToken CorrelationToken `json:"correlationToken,omitempty"`
	PageToken        string           `json:"pageToken"`
	NextPageToken    *string          `json:"nextPageToken,omitempty"`
	Items            []any            `json:"items"`
}

// IndexUpdatePayload is a runtime response or directive for an
// index-addressed list. Lazy load responses carry StartIndex and Items;
// directive updates carry ListVersion and Operations. Bounds fields may ride
// along on either to move the addressable range.
type IndexUpdatePayload struct {
	ListID           string           `json:"listId"`
	CorrelationToken CorrelationToken `json:"correlationToken,omitempty"`

	StartIndex *int  `json:"startIndex,omitempty"`
	Items      []any `json:"items,omitempty"`

	ListVersion *int        `json:"listVersion,omitempty"`
	Operations  []Operation `json:"operations,omitempty"`

	MinimumInclusiveIndex *int `json:"minimumInclusiveIndex,omitempty"`
	MaximumExclusiveIndex *int `json:"maximumExclusiveIndex,omitempty"`
}

// Operation kinds accepted in an index-addressed directive update.
const (
	OpInsertItem          = "InsertListItem"
	OpInsertMultipleItems = "InsertMultipleItems"
	OpReplaceItem         = "ReplaceListItem"
	OpDeleteItem          = "DeleteListItem"
	OpDeleteMultipleItems = "DeleteMultipleItems"
)

// Operation is one edit inside a versioned directive update. Index is the
// logical list index the edit applies at; Count is only read by the
// multi-item delete and Items only by the multi-item insert.
type Operation struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Count int    `json:"count,omitempty"`
	Item  any    `json:"item,omitempty"`
	Items []any  `json:"items,omitempty"`
}
