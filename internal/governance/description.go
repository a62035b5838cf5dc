package governance

import (
	"encoding/json"

	"github.com/Tribo-Hackathon/Tribo/internal/model"
)

// ParseProposalDescription extracts the metadata document embedded in a
// proposal description. Plain text, legacy and malformed descriptions are
// expected input: the raw text becomes the title and the body. JSON that is
// not an object carries no metadata fields.
func ParseProposalDescription(raw string) model.ProposalMetadata {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed == nil {
		title := raw
		if title == "" {
			title = untitledProposal
		}
		return model.ProposalMetadata{
			Title:       title,
			Description: raw,
			Type:        model.ProposalTextOnly,
		}
	}

	doc, _ := parsed.(map[string]any)
	meta := model.ProposalMetadata{
		Title:       stringField(doc, "title"),
		Summary:     stringField(doc, "summary"),
		Description: stringField(doc, "description"),
		Type:        model.ProposalTextOnly,
	}
	if meta.Title == "" {
		meta.Title = untitledProposal
	}
	if meta.Description == "" {
		meta.Description = raw
	}
	if t := stringField(doc, "type"); t != "" {
		meta.Type = model.ParseProposalType(t)
	}
	return meta
}

// EncodeProposalDescription is the inverse of ParseProposalDescription for
// well formed metadata.
func EncodeProposalDescription(meta model.ProposalMetadata) (string, error) {
	if meta.Type == "" {
		meta.Type = model.ProposalTextOnly
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func stringField(doc map[string]any, key string) string {
	v, _ := doc[key].(string)
	return v
}
