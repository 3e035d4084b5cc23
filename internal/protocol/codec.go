package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/rocketscienceinc/holdem-client/internal/apperror"
)

// Encode spreads payload into a Request for action and serializes it.
// The payload shape is not validated; the server decides what it accepts.
func Encode(action Action, payload map[string]any) ([]byte, error) {
	req, err := requestFromMap(payload)
	if err != nil {
		return nil, err
	}

	req.Action = action

	return EncodeRequest(req)
}

// EncodeRequest stamps the request with a timestamp and trace id when missing.
func EncodeRequest(req Request) ([]byte, error) {
	if req.Timestamp == "" {
		req.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}

	if req.TraceID == "" {
		req.TraceID = uuid.NewString()
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	return data, nil
}

// DecodeRequest parses an outbound frame back into a Request.
func DecodeRequest(data []byte) (Request, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return Request{}, fmt.Errorf("%w: %w", apperror.ErrMalformedFrame, err)
	}

	return requestFromMap(fields)
}

func requestFromMap(fields map[string]any) (Request, error) {
	var req Request

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Request{}, fmt.Errorf("failed to create request decoder: %w", err)
	}

	if err = decoder.Decode(fields); err != nil {
		return Request{}, fmt.Errorf("failed to decode request payload: %w", err)
	}

	return req, nil
}

// EncodeResponse builds a server envelope, mostly useful for fakes and replays.
func EncodeResponse(eventType EventType, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	data, err := json.Marshal(Response{
		Type:      eventType,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}

	return data, nil
}

// Decode parses a text frame into a typed Event. Malformed envelopes and
// payloads fail with apperror.ErrMalformedFrame; an unlisted type yields an
// *UnknownEvent and no error.
func Decode(data []byte) (Event, error) {
	var res Response
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedFrame, err)
	}

	if res.Type == "" {
		return nil, fmt.Errorf("%w: missing type", apperror.ErrMalformedFrame)
	}

	meta := Meta{
		EventType: res.Type,
		Timestamp: res.Timestamp,
		TraceID:   res.TraceID,
	}

	switch res.Type {
	case EventTableState:
		if isEmptyPayload(res.Payload) {
			return nil, fmt.Errorf("%w: empty table state", apperror.ErrMalformedFrame)
		}
		event := &TableStateEvent{Meta: meta}
		if err := unmarshalPayload(res.Payload, &event.Table); err != nil {
			return nil, err
		}
		return event, nil
	case EventHandStart:
		return decodeAs(res.Payload, &HandStartEvent{Meta: meta})
	case EventHoleCards:
		return decodeAs(res.Payload, &HoleCardsEvent{Meta: meta})
	case EventBlindsPosted:
		return decodeAs(res.Payload, &BlindsPostedEvent{Meta: meta})
	case EventYourTurn:
		return decodeAs(res.Payload, &YourTurnEvent{Meta: meta})
	case EventPlayerAction:
		return decodeAs(res.Payload, &PlayerActionEvent{Meta: meta})
	case EventCommunityCards:
		return decodeAs(res.Payload, &CommunityCardsEvent{Meta: meta})
	case EventShowdownResult:
		return decodeAs(res.Payload, &ShowdownResultEvent{Meta: meta})
	case EventWinByFold:
		return decodeAs(res.Payload, &WinByFoldEvent{Meta: meta})
	case EventHandEnd:
		return decodeAs(res.Payload, &HandEndEvent{Meta: meta})
	case EventActionTimeout:
		return decodeAs(res.Payload, &ActionTimeoutEvent{Meta: meta})
	case EventError:
		return decodeAs(res.Payload, &ErrorEvent{Meta: meta})
	case EventBuyInSuccess, EventCashOutSuccess, EventBalanceInfo:
		return decodeAs(res.Payload, &BalanceEvent{Meta: meta})
	case EventJoinTableSuccess, EventLeaveTableSuccess, EventSitDownSuccess, EventStandUpSuccess:
		return decodeAs(res.Payload, &MembershipEvent{Meta: meta})
	default:
		return &UnknownEvent{Meta: meta}, nil
	}
}

func decodeAs[T Event](payload json.RawMessage, event T) (Event, error) {
	if err := unmarshalPayload(payload, event); err != nil {
		return nil, err
	}

	return event, nil
}

func isEmptyPayload(payload json.RawMessage) bool {
	return len(payload) == 0 || string(payload) == "null"
}

func unmarshalPayload(payload json.RawMessage, target any) error {
	if isEmptyPayload(payload) {
		return nil
	}

	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrMalformedFrame, err)
	}

	return nil
}
