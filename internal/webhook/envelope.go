// Package webhook models the messaging-platform delivery envelope and serves
// the intake endpoints.
package webhook

import "encoding/json"

// Envelope is one webhook delivery:
// entry -> changes -> value -> messages. Status change notifications arrive
// in the same shape under value.statuses and are ignored.
type Envelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	MessagingProduct string          `json:"messaging_product"`
	Metadata         Metadata        `json:"metadata"`
	Contacts         json.RawMessage `json:"contacts,omitempty"`
	Messages         []Message       `json:"messages,omitempty"`
	Statuses         json.RawMessage `json:"statuses,omitempty"`
}

// Metadata identifies the receiving business number. PhoneNumberID doubles as
// the origination id for media retrieval.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Message is one user message inside a delivery. Unknown fields are retained
// in raw form so persisted records keep the payload exactly as delivered.
type Message struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *Text  `json:"text,omitempty"`
	Audio     *Audio `json:"audio,omitempty"`

	raw json.RawMessage
}

type Text struct {
	Body string `json:"body"`
}

type Audio struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256,omitempty"`
	Voice    bool   `json:"voice,omitempty"`
}

func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Message(a)
	m.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Raw returns the message exactly as delivered, falling back to re-encoding
// for messages constructed in code.
func (m *Message) Raw() json.RawMessage {
	if m.raw != nil {
		return m.raw
	}
	type alias Message
	data, _ := json.Marshal((*alias)(m))
	return data
}

// Walk feeds every message to visit, in payload order, together with the
// metadata of its enclosing value block. It stops at the first visit error.
func (e *Envelope) Walk(visit func(msg *Message, meta Metadata) error) error {
	for i := range e.Entry {
		for j := range e.Entry[i].Changes {
			value := &e.Entry[i].Changes[j].Value
			for k := range value.Messages {
				if err := visit(&value.Messages[k], value.Metadata); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
