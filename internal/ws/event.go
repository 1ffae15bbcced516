package ws

import "encoding/json"

// Event names consumed from and emitted to clients. Names and payload shapes
// match what the React client speaks.
const (
	EventJoinRoom       = "join_room"
	EventSendMessage    = "send_message"
	EventHistory        = "history"
	EventReceiveMessage = "receive_message"
)

// Envelope is the wire frame for every event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SendPayload is the body of a send_message event. Author may be empty; the
// server substitutes a default before the message is stored or delivered.
type SendPayload struct {
	Room    string `json:"room"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

func encode(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
