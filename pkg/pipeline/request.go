package pipeline

import "strings"

// Kind tags a submission with the behavior it triggers. The sentinel values
// in the options/subject fields are resolved once here, at the boundary,
// instead of being string-sniffed throughout the handler.
type Kind int

const (
	// KindCreate is a normal diary post that runs the generation flow.
	KindCreate Kind = iota

	// KindClear bulk-deletes all entries and memories for the device.
	KindClear

	// KindRecall renders a greentext dump of the device's memories without
	// persisting anything.
	KindRecall
)

// Request is a routed submission.
type Request struct {
	Kind     Kind
	Content  string
	Name     string
	Sub      string
	DeviceID string
}

// ValidationError rejects an empty or malformed submission. It maps to a
// 400-class response and causes no state mutation.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

// ParseSubmission routes raw submitted fields into a tagged Request.
// Sentinels are matched case-insensitively after trimming: options "clear"
// clears the device, and "memory" in either the subject or options field
// requests a memory dump. An entirely empty submission is rejected.
func ParseSubmission(content, options, name, sub, deviceID string) (Request, error) {
	if strings.TrimSpace(content) == "" && strings.TrimSpace(options) == "" && strings.TrimSpace(sub) == "" {
		return Request{}, ValidationError{Reason: "content is required"}
	}

	req := Request{
		Kind:     KindCreate,
		Content:  strings.TrimSpace(content),
		Name:     name,
		Sub:      sub,
		DeviceID: deviceID,
	}
	if req.Name == "" {
		req.Name = "Anonymous"
	}

	switch sentinel(options) {
	case "clear":
		req.Kind = KindClear
		return req, nil
	case "memory":
		req.Kind = KindRecall
		return req, nil
	}

	if sentinel(sub) == "memory" {
		req.Kind = KindRecall
		return req, nil
	}

	if req.Content == "" {
		return Request{}, ValidationError{Reason: "content is required"}
	}

	return req, nil
}

func sentinel(field string) string {
	return strings.ToLower(strings.TrimSpace(field))
}
