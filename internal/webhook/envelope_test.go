package webhook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inboundEnvelope = `{
  "object": "whatsapp_business_account",
  "entry": [
    {
      "id": "999999999999999",
      "changes": [
        {
          "field": "messages",
          "value": {
            "messaging_product": "whatsapp",
            "metadata": {
              "display_phone_number": "+1 555-0100",
              "phone_number_id": "111111111111111"
            },
            "contacts": [{"profile": {"name": "Janine Melnitz"}, "wa_id": "12125552368"}],
            "messages": [
              {
                "from": "12125552368",
                "id": "wamid.first",
                "timestamp": "1700000000",
                "type": "text",
                "text": {"body": "hola"},
                "context": {"group_id": "120363040377656518@g.us"}
              },
              {
                "from": "12095550176",
                "id": "wamid.second",
                "timestamp": "1700000001",
                "type": "audio",
                "audio": {"id": "media-1", "mime_type": "audio/ogg; codecs=opus", "voice": true}
              }
            ]
          }
        }
      ]
    }
  ]
}`

const statusEnvelope = `{
  "object": "whatsapp_business_account",
  "entry": [
    {
      "id": "999999999999999",
      "changes": [
        {
          "field": "messages",
          "value": {
            "messaging_product": "whatsapp",
            "metadata": {"display_phone_number": "+1 555-0100", "phone_number_id": "111111111111111"},
            "statuses": [{"id": "wamid.sent", "status": "delivered", "timestamp": "1700000002", "recipient_id": "0000000000"}]
          }
        }
      ]
    }
  ]
}`

func TestWalkVisitsMessagesInOrder(t *testing.T) {
	var envelope Envelope
	require.NoError(t, json.Unmarshal([]byte(inboundEnvelope), &envelope))

	var ids []string
	err := envelope.Walk(func(msg *Message, meta Metadata) error {
		ids = append(ids, msg.ID)
		assert.Equal(t, "111111111111111", meta.PhoneNumberID)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"wamid.first", "wamid.second"}, ids)
}

func TestWalkIgnoresStatuses(t *testing.T) {
	var envelope Envelope
	require.NoError(t, json.Unmarshal([]byte(statusEnvelope), &envelope))

	visited := 0
	err := envelope.Walk(func(msg *Message, meta Metadata) error {
		visited++
		return nil
	})

	require.NoError(t, err)
	assert.Zero(t, visited)
}

func TestWalkStopsOnVisitError(t *testing.T) {
	var envelope Envelope
	require.NoError(t, json.Unmarshal([]byte(inboundEnvelope), &envelope))

	visited := 0
	err := envelope.Walk(func(msg *Message, meta Metadata) error {
		visited++
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, visited)
}

func TestMessageFields(t *testing.T) {
	var envelope Envelope
	require.NoError(t, json.Unmarshal([]byte(inboundEnvelope), &envelope))

	msgs := envelope.Entry[0].Changes[0].Value.Messages
	require.Len(t, msgs, 2)

	text := msgs[0]
	assert.Equal(t, "text", text.Type)
	require.NotNil(t, text.Text)
	assert.Equal(t, "hola", text.Text.Body)
	assert.Nil(t, text.Audio)

	audio := msgs[1]
	assert.Equal(t, "audio", audio.Type)
	require.NotNil(t, audio.Audio)
	assert.Equal(t, "media-1", audio.Audio.ID)
	assert.Equal(t, "audio/ogg; codecs=opus", audio.Audio.MimeType)
}

func TestMessageRawKeepsUnknownFields(t *testing.T) {
	var envelope Envelope
	require.NoError(t, json.Unmarshal([]byte(inboundEnvelope), &envelope))

	raw := envelope.Entry[0].Changes[0].Value.Messages[0].Raw()

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	ctx := fields["context"].(map[string]interface{})
	assert.Equal(t, "120363040377656518@g.us", ctx["group_id"])
}
