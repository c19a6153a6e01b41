package schema

import "encoding/json"

const (
	// MessageInvalidName is returned when the submitted name is missing, empty or not a string.
	MessageInvalidName = "Invalid name provided"
	// MessageGenerationFailed is returned for every upstream or generation failure.
	MessageGenerationFailed = "An error occurred while fetching your fortune. Please try again later."
	// MessageUnsupportedContentType is returned for bodies that are neither JSON nor MessagePack.
	MessageUnsupportedContentType = "Unsupported content type"
)

// FortuneRequest is the validated request body.
type FortuneRequest struct {
	Name string `json:"name" msgpack:"name"`
}

// RawFortuneRequest keeps the name undecoded so a non-string value
// is distinguishable from a missing one.
type RawFortuneRequest struct {
	Name interface{} `json:"name" msgpack:"name"`
}

// UnmarshalJSON reads exactly the "name" key. encoding/json would otherwise
// fold "Name" or "NAME" onto the field.
func (r *RawFortuneRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	r.Name = fields["name"]
	return nil
}

// Validate returns the typed request when name is a non-empty string.
// Whitespace-only names are accepted.
func (r RawFortuneRequest) Validate() (FortuneRequest, bool) {
	name, ok := r.Name.(string)
	if !ok || name == "" {
		return FortuneRequest{}, false
	}
	return FortuneRequest{Name: name}, true
}

// FortuneResponse is the success payload.
type FortuneResponse struct {
	Fortune string `json:"fortune" msgpack:"fortune"`
}
