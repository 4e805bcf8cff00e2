package parsers

import "strings"

// Reply is the three-part structured answer of the response oracle.
type Reply struct {
	Response  string
	Rationale string
	NextStep  string
}

// ParseReply extracts {response, rationale, next_step} from a reply. Missing
// or non-string fields come back empty so the caller can apply defaults.
func ParseReply(content string) (*Reply, error) {
	obj, err := decodeFirstObject(content)
	if err != nil {
		return nil, err
	}
	field := func(key string) string {
		s, _ := obj[key].(string)
		return strings.TrimSpace(s)
	}
	return &Reply{
		Response:  field("response"),
		Rationale: field("rationale"),
		NextStep:  field("next_step"),
	}, nil
}
