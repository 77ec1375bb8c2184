package jsonapi

type LinksDTO struct {
	Self string `json:"self"`
	JSON string `json:"json,omitempty"`
}

type PeopleDTO struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

type EditionDTO struct {
	Contributor PeopleDTO `json:"contributor"`
	On          string    `json:"on"`
}

// ResourceDTO is one letter, publication or transcription. Attribute and
// relationship keys differ per type.
type ResourceDTO struct {
	Type          string         `json:"type"`
	ID            uint           `json:"id"`
	Attributes    map[string]any `json:"attributes"`
	Links         LinksDTO       `json:"links"`
	Relationships map[string]any `json:"relationships"`
}

type CollectionLinksDTO struct {
	Self string `json:"self"`
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}

type MetaDTO struct {
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

type CollectionDTO struct {
	Links CollectionLinksDTO `json:"links"`
	Data  []ResourceDTO      `json:"data"`
	Meta  MetaDTO            `json:"meta"`
}
