package nakama

import (
	"encoding/json"

	"collapsization/internal/domain"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// payloadToBytes encodes an event payload as a protobuf Struct. The payload
// goes through its JSON form first so the domain types keep their one wire
// shape (hexes as "x,y,z" strings, roles and suits as defined).
func payloadToBytes(payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(st)
}

// bytesToMap decodes a client message into loose fields. Numbers come back
// as float64, per Struct value semantics.
func bytesToMap(data []byte) (map[string]interface{}, error) {
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		return nil, err
	}
	return st.AsMap(), nil
}

func intField(fields map[string]interface{}, key string) (int, bool) {
	v, ok := fields[key].(float64)
	if !ok {
		return 0, false
	}
	return int(v), true
}

func int32Field(fields map[string]interface{}, key string) (int32, bool) {
	v, ok := fields[key].(float64)
	if !ok {
		return 0, false
	}
	return int32(v), true
}

func stringField(fields map[string]interface{}, key string) (string, bool) {
	v, ok := fields[key].(string)
	return v, ok
}

// hexField parses an "x,y,z" cube coordinate field.
func hexField(fields map[string]interface{}, key string) (domain.Hex, bool) {
	s, ok := fields[key].(string)
	if !ok {
		return domain.Hex{}, false
	}
	var h domain.Hex
	if err := h.UnmarshalText([]byte(s)); err != nil {
		return domain.Hex{}, false
	}
	return h, true
}
