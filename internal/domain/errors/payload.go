package errors

import (
	"strings"

	"github.com/tidwall/gjson"
)

// PayloadKind tells which shape an error body had.
type PayloadKind int

const (
	// PayloadNone is an empty or unusable body.
	PayloadNone PayloadKind = iota
	// PayloadText is a plain string body.
	PayloadText
	// PayloadMessage is an object carrying a non-empty "message" field.
	PayloadMessage
	// PayloadFields is an object without a message, typically a field-to-error map.
	PayloadFields
)

const fieldSeparator = ". "

// Field is one entry of an object payload. Nested objects are flattened with dotted names.
type Field struct {
	Name    string
	Message string
}

// Payload is the parsed body of an error response.
type Payload struct {
	Kind    PayloadKind
	Text    string
	Message string
	Fields  []Field
}

// ParsePayload classifies a raw response body.
func ParsePayload(body []byte) Payload {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return Payload{Kind: PayloadNone}
	}
	if !gjson.Valid(trimmed) {
		return Payload{Kind: PayloadText, Text: trimmed}
	}

	result := gjson.Parse(trimmed)
	switch {
	case result.Type == gjson.String:
		if result.Str == "" {
			return Payload{Kind: PayloadNone}
		}

		return Payload{Kind: PayloadText, Text: result.Str}
	case result.IsObject():
		fields := flatten("", result, nil)
		if msg := result.Get("message"); msg.Exists() && msg.String() != "" {
			return Payload{Kind: PayloadMessage, Message: msg.String(), Fields: fields}
		}
		if len(fields) == 0 {
			return Payload{Kind: PayloadNone}
		}

		return Payload{Kind: PayloadFields, Fields: fields}
	default:
		return Payload{Kind: PayloadText, Text: trimmed}
	}
}

// flatten walks an object in document order collecting leaf values.
func flatten(prefix string, value gjson.Result, out []Field) []Field {
	value.ForEach(func(key, v gjson.Result) bool {
		name := key.String()
		if prefix != "" {
			name = prefix + "." + name
		}

		switch {
		case v.IsObject():
			out = flatten(name, v, out)
		case v.IsArray():
			for _, item := range v.Array() {
				if item.IsObject() {
					out = flatten(name, item, out)
				} else if s := item.String(); s != "" {
					out = append(out, Field{Name: name, Message: s})
				}
			}
		case v.Type == gjson.Null:
		default:
			if s := v.String(); s != "" {
				out = append(out, Field{Name: name, Message: s})
			}
		}

		return true
	})

	return out
}

// Normalize returns the human-readable message of the payload: the message field,
// else the plain text, else every field value joined with ". ", else fallback.
func (p Payload) Normalize(fallback string) string {
	switch p.Kind {
	case PayloadMessage:
		return p.Message
	case PayloadText:
		return p.Text
	case PayloadFields:
		msgs := make([]string, 0, len(p.Fields))
		for _, f := range p.Fields {
			msgs = append(msgs, f.Message)
		}
		if joined := strings.Join(msgs, fieldSeparator); joined != "" {
			return joined
		}
	}

	return fallback
}

// FieldMap returns the fields as a name-to-message map, for display next to inputs.
func (p Payload) FieldMap() map[string]string {
	if len(p.Fields) == 0 {
		return nil
	}

	m := make(map[string]string, len(p.Fields))
	for _, f := range p.Fields {
		m[f.Name] = f.Message
	}

	return m
}
