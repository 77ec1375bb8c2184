package users

import (
	"fmt"

	"correspondance-app/internal/domain/catalog"
	"correspondance-app/internal/domain/users"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Login:        u.Login,
		Email:        u.Email,
		Name:         u.Name,
		AuthProvider: u.AuthProvider,
		HasPassword:  u.HasPassword(),
	}
}

func BuildContributionsDTO(s *catalog.ContributionSummary) ContributionsDTO {
	out := ContributionsDTO{Total: s.Total, ByAction: s.ByAction, Recent: make([]RecentDTO, 0, len(s.Recent))}
	for _, c := range s.Recent {
		out.Recent = append(out.Recent, RecentDTO{
			Kind:   c.Kind(),
			Action: c.Action,
			Target: targetPath(c),
			On:     c.CreatedAt,
		})
	}
	return out
}

// targetPath links to the page of the record a contribution touched. Records
// may since have been deleted.
func targetPath(c catalog.Contribution) *string {
	var p string
	switch {
	case c.TranscriptionID != nil:
		p = fmt.Sprintf("/transcriptions/%d", *c.TranscriptionID)
	case c.LetterID != nil:
		p = fmt.Sprintf("/lettres/%d", *c.LetterID)
	case c.PublicationID != nil:
		p = fmt.Sprintf("/publications/%d", *c.PublicationID)
	default:
		return nil
	}
	return &p
}
