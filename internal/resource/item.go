package resource

import (
	"fmt"
	"maps"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
)

// Item is one record of the remote collection. ID and Title are lifted
// out for display; the record itself is kept as received.
type Item struct {
	ID    string
	Title string // set only when the record's title is a string
	// Extra holds every field except id, and except title when it was
	// lifted into Title.
	Extra map[string]any

	raw map[string]any
}

// itemHead is the part of a record the decoder looks at. Keys match
// exactly; "ID" or "Title" are ordinary extra fields.
type itemHead struct {
	ID    any            `mapstructure:"id"`
	Title any            `mapstructure:"title"`
	Rest  map[string]any `mapstructure:",remain"`
}

// DisplayTitle returns the title, falling back to the id.
func (i Item) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.ID
}

// Fields returns the record as a flat map, the shape it arrived in.
func (i Item) Fields() map[string]any {
	if i.raw != nil {
		return maps.Clone(i.raw)
	}
	m := make(map[string]any, len(i.Extra)+2)
	maps.Copy(m, i.Extra)
	m["id"] = i.ID
	if i.Title != "" {
		m["title"] = i.Title
	}
	return m
}

// MarshalJSON emits the record with its extra fields inlined.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Fields())
}

// MarshalYAML emits the record with its extra fields inlined.
func (i Item) MarshalYAML() (any, error) {
	return i.Fields(), nil
}

// decodeItems converts a decoded JSON array into items, enforcing that
// every element is an object with an id unique within the collection.
// Fields other than id never fail the collection.
func decodeItems(raw []any) ([]Item, error) {
	items := make([]Item, 0, len(raw))
	seen := make(map[string]int, len(raw))

	for idx, elem := range raw {
		obj, ok := elem.(map[string]any)
		if !ok {
			return nil, &DecodeError{Reason: fmt.Sprintf("item %d is not an object", idx)}
		}

		var head itemHead
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			MatchName: func(mapKey, fieldName string) bool { return mapKey == fieldName },
			Result:    &head,
		})
		if err != nil {
			return nil, &DecodeError{Reason: "building decoder", Cause: err}
		}
		if err := dec.Decode(obj); err != nil {
			return nil, &DecodeError{Reason: fmt.Sprintf("item %d", idx), Cause: err}
		}

		id, err := itemID(head.ID)
		if err != nil {
			return nil, &DecodeError{Reason: fmt.Sprintf("item %d %s", idx, err)}
		}
		if prev, dup := seen[id]; dup {
			return nil, &DecodeError{Reason: fmt.Sprintf("items %d and %d share id %q", prev, idx, id)}
		}
		seen[id] = idx

		item := Item{ID: id, Extra: head.Rest, raw: obj}
		if item.Extra == nil {
			item.Extra = map[string]any{}
		}
		if title, ok := head.Title.(string); ok {
			item.Title = title
		} else if v, present := obj["title"]; present {
			item.Extra["title"] = v
		}
		items = append(items, item)
	}
	return items, nil
}

// itemID accepts a non-empty string or a number, numbers in their
// shortest decimal form.
func itemID(v any) (string, error) {
	switch id := v.(type) {
	case nil:
		return "", fmt.Errorf("has no id")
	case string:
		if id == "" {
			return "", fmt.Errorf("has no id")
		}
		return id, nil
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	case json.Number:
		return id.String(), nil
	default:
		return "", fmt.Errorf("has id of type %T, want string or number", v)
	}
}
