package catalog

import (
	"time"

	"correspondance-app/internal/domain/catalog"
)

type ContributionView struct {
	User   string    `json:"user"`
	Action string    `json:"action"`
	On     time.Time `json:"on"`
}

type LetterPage struct {
	Letter        catalog.Letter        `json:"letter"`
	Contributions []ContributionView    `json:"contributions"`
	Available     []catalog.Publication `json:"available_publications"`
}

type TranscriptionPage struct {
	Transcription catalog.Transcription `json:"transcription"`
	Paragraphs    []string              `json:"paragraphs"`
	Contributions []ContributionView    `json:"contributions"`
}

type PublicationPage struct {
	Publication   catalog.Publication `json:"publication"`
	Contributions []ContributionView  `json:"contributions"`
}

type SearchPage struct {
	Keyword string `json:"keyword"`
	*catalog.Page[catalog.Letter]
}

func toContributionViews(in []catalog.Contribution) []ContributionView {
	out := make([]ContributionView, 0, len(in))
	for _, c := range in {
		out = append(out, ContributionView{User: c.User.Name, Action: c.Action, On: c.CreatedAt})
	}
	return out
}

// notLinked returns the publications not yet sources of the letter.
func notLinked(all []catalog.Publication, linked []catalog.Publication) []catalog.Publication {
	seen := make(map[uint]struct{}, len(linked))
	for _, p := range linked {
		seen[p.ID] = struct{}{}
	}
	out := make([]catalog.Publication, 0, len(all))
	for _, p := range all {
		if _, ok := seen[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}
