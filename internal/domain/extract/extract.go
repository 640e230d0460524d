// Package extract parses raw LLM output into a canonical CV record.
// Parsing is tolerant about transport noise (markdown code fences,
// missing or mistyped fields) but never attempts semantic repair of
// malformed JSON and never fails on low content quality: a field the
// model could not determine degrades to the empty string.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/withtahmid/cv-agent/internal/domain/fault"
	"github.com/withtahmid/cv-agent/internal/domain/model"
	"github.com/withtahmid/cv-agent/internal/domain/normalize"
)

// StripFence removes leading and trailing markdown code-fence markers
// from an LLM response. The content between the fences is untouched.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseRecord defences raw, parses it as JSON, and coerces the result
// into a normalized CVRecord. Malformed JSON yields a response-format
// fault; a JSON value that is not an object yields a schema-validation
// fault. Fields that are absent or not strings coerce to "" before
// normalization, so a record full of empty strings is the only way the
// upstream model signals "nothing extractable".
func ParseRecord(raw string) (model.CVRecord, error) {
	clean := StripFence(raw)

	var payload any
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return model.CVRecord{}, fault.Wrap(fault.KindResponseFormat, "model response is not valid JSON", err)
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return model.CVRecord{}, fault.New(fault.KindSchemaValidation, "model response is not a JSON object")
	}

	return model.CVRecord{
		Name:           normalize.Name(stringField(obj, "name")),
		Gender:         normalize.Gender(stringField(obj, "gender")),
		DateOfBirth:    normalize.DateOfBirth(stringField(obj, "date_of_birth")),
		NIDNumber:      normalize.NIDNumber(stringField(obj, "nid_number")),
		Phone:          normalize.Phone(stringField(obj, "phone")),
		Education:      normalize.Education(stringField(obj, "education")),
		FathersName:    normalize.Name(stringField(obj, "fathers_name")),
		MothersName:    normalize.Name(stringField(obj, "mothers_name")),
		PresentAddress: normalize.Address(stringField(obj, "present_address")),
	}, nil
}

// stringField reads key from obj, treating absent or non-string values
// as empty.
func stringField(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
