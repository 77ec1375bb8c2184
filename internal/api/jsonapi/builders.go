package jsonapi

import (
	"fmt"
	"time"

	"correspondance-app/internal/domain/catalog"
)

// builder renders resources with absolute links rooted at base.
type builder struct {
	base     string
	apiRoute string
	idx      *catalog.ContributionIndex
}

func (b builder) link(path string, id uint) string {
	return fmt.Sprintf("%s%s/%d", b.base, path, id)
}

func (b builder) editions(in []catalog.Contribution) []EditionDTO {
	out := make([]EditionDTO, 0, len(in))
	for _, c := range in {
		out = append(out, EditionDTO{
			Contributor: PeopleDTO{Type: "people", Attributes: map[string]string{"name": c.User.Name}},
			On:          c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func (b builder) letter(l catalog.Letter) ResourceDTO {
	sources := make([]ResourceDTO, 0, len(l.Publications))
	for _, p := range l.Publications {
		sources = append(sources, b.publication(p))
	}
	transcriptions := make([]ResourceDTO, 0, len(l.Transcriptions))
	for _, t := range l.Transcriptions {
		transcriptions = append(transcriptions, b.transcription(t))
	}

	return ResourceDTO{
		Type: "Lettre",
		ID:   l.ID,
		Attributes: map[string]any{
			"numero": l.Number,
			"auteur": l.Author,
			"lieu":   l.Place,
			"date":   l.Date,
		},
		Links: LinksDTO{
			Self: b.link("/lettres", l.ID),
			JSON: b.link(b.apiRoute+"/lettres", l.ID),
		},
		Relationships: map[string]any{
			"editions":      b.editions(b.idx.Letters[l.ID]),
			"source":        sources,
			"transcription": transcriptions,
		},
	}
}

func (b builder) publication(p catalog.Publication) ResourceDTO {
	return ResourceDTO{
		Type: "Publication",
		ID:   p.ID,
		Attributes: map[string]any{
			"Titre":  p.Title,
			"Volume": p.Volume,
		},
		Links: LinksDTO{
			Self: b.link("/publications", p.ID),
			JSON: b.link(b.apiRoute+"/publications", p.ID),
		},
		Relationships: map[string]any{
			"editions": b.editions(b.idx.Publications[p.ID]),
		},
	}
}

func (b builder) transcription(t catalog.Transcription) ResourceDTO {
	return ResourceDTO{
		Type: "Transcription",
		ID:   t.ID,
		Attributes: map[string]any{
			"ID lettre transcrite": t.LetterID,
			"Texte":                t.Text,
		},
		Links: LinksDTO{
			Self: b.link("/transcriptions", t.ID),
			JSON: b.link(b.apiRoute+"/transcriptions", t.ID),
		},
		Relationships: map[string]any{
			"editions": b.editions(b.idx.Transcriptions[t.ID]),
		},
	}
}

// letterIDs lists every record id reachable from letters, for the
// contribution index.
func letterIDs(letters []catalog.Letter) (lids, pids, tids []uint) {
	for _, l := range letters {
		lids = append(lids, l.ID)
		for _, p := range l.Publications {
			pids = append(pids, p.ID)
		}
		for _, t := range l.Transcriptions {
			tids = append(tids, t.ID)
		}
	}
	return
}
