package schema

import (
	"encoding/json"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestRawFortuneRequestValidate(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		want  string
		valid bool
	}{
		{name: "plain name", body: `{"name":"Alex"}`, want: "Alex", valid: true},
		{name: "whitespace only is non-empty", body: `{"name":"   "}`, want: "   ", valid: true},
		{name: "markup passes verbatim", body: `{"name":"<b>Bo</b>"}`, want: "<b>Bo</b>", valid: true},
		{name: "empty string", body: `{"name":""}`},
		{name: "missing field", body: `{}`},
		{name: "null", body: `{"name":null}`},
		{name: "number", body: `{"name":42}`},
		{name: "bool", body: `{"name":true}`},
		{name: "array", body: `{"name":["Alex"]}`},
		{name: "object", body: `{"name":{"first":"Alex"}}`},
		{name: "title case key", body: `{"Name":"Alex"}`},
		{name: "upper case key", body: `{"NAME":"Alex"}`},
		{name: "exact key wins over case twin", body: `{"name":"","NAME":"Alex"}`},
		{name: "exact key with case twin", body: `{"NAME":"x","name":"Bo"}`, want: "Bo", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw RawFortuneRequest
			if err := json.Unmarshal([]byte(tt.body), &raw); err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}

			req, ok := raw.Validate()
			if ok != tt.valid {
				t.Fatalf("expected valid=%v, got %v", tt.valid, ok)
			}
			if req.Name != tt.want {
				t.Fatalf("expected name %q, got %q", tt.want, req.Name)
			}
		})
	}
}

func TestRawFortuneRequestMsgpack(t *testing.T) {
	data, err := msgpack.Marshal(map[string]interface{}{"name": "Alex"})
	if err != nil {
		t.Fatalf("failed to marshal to msgpack: %v", err)
	}

	var raw RawFortuneRequest
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal msgpack: %v", err)
	}

	req, ok := raw.Validate()
	if !ok || req.Name != "Alex" {
		t.Fatalf("expected Alex, got %q (valid=%v)", req.Name, ok)
	}

	data, err = msgpack.Marshal(map[string]interface{}{"name": 7})
	if err != nil {
		t.Fatalf("failed to marshal to msgpack: %v", err)
	}
	raw = RawFortuneRequest{}
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal msgpack: %v", err)
	}
	if _, ok := raw.Validate(); ok {
		t.Fatalf("expected numeric name to be rejected")
	}
}

func TestResponsePayloadsAreExclusive(t *testing.T) {
	ok, err := json.Marshal(FortuneResponse{Fortune: "big W's"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(ok) != `{"fortune":"big W's"}` {
		t.Fatalf("unexpected success payload %s", ok)
	}

	failed, err := json.Marshal(ErrorResponse{Error: MessageInvalidName})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(failed) != `{"error":"Invalid name provided"}` {
		t.Fatalf("unexpected error payload %s", failed)
	}
}
