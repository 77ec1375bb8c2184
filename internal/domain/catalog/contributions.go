package catalog

import (
	"context"

	"correspondance-app/internal/domain"
)

// Contributions returns the attribution history of a record, oldest first.
func (s *Service) Contributions(ctx context.Context, t Target) ([]Contribution, error) {
	out := []Contribution{}
	if t.empty() {
		return out, nil
	}

	q := s.db.WithContext(ctx).Preload("User")
	if t.LetterID != nil {
		q = q.Where("letter_id = ?", *t.LetterID)
	}
	if t.PublicationID != nil {
		q = q.Where("publication_id = ?", *t.PublicationID)
	}
	if t.TranscriptionID != nil {
		q = q.Where("transcription_id = ?", *t.TranscriptionID)
	}
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}
	return out, nil
}

// ContributionSummary counts the contributions of one user per action.
type ContributionSummary struct {
	Total    int64            `json:"total"`
	ByAction map[string]int64 `json:"by_action"`
	Recent   []Contribution   `json:"recent"`
}

// UserContributions summarizes what a user has done, newest first.
func (s *Service) UserContributions(ctx context.Context, userID uint, limit int) (*ContributionSummary, error) {
	db := s.db.WithContext(ctx)
	out := ContributionSummary{ByAction: map[string]int64{}, Recent: []Contribution{}}

	var rows []struct {
		Action string
		N      int64
	}
	err := db.Model(&Contribution{}).
		Select("action, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("action").
		Scan(&rows).Error
	if err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}
	for _, r := range rows {
		out.ByAction[r.Action] = r.N
		out.Total += r.N
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if err := db.Where("user_id = ?", userID).Order("id DESC").Limit(limit).Find(&out.Recent).Error; err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}
	return &out, nil
}

// ContributionIndex groups contributions by the record they reference. A
// source contribution is listed under both its letter and its publication.
type ContributionIndex struct {
	Letters        map[uint][]Contribution
	Publications   map[uint][]Contribution
	Transcriptions map[uint][]Contribution
}

// IndexContributions loads in one query the contributions of every listed record.
func (s *Service) IndexContributions(ctx context.Context, letterIDs, publicationIDs, transcriptionIDs []uint) (*ContributionIndex, error) {
	idx := &ContributionIndex{
		Letters:        map[uint][]Contribution{},
		Publications:   map[uint][]Contribution{},
		Transcriptions: map[uint][]Contribution{},
	}
	if len(letterIDs)+len(publicationIDs)+len(transcriptionIDs) == 0 {
		return idx, nil
	}

	q := s.db.WithContext(ctx).Preload("User").Where("1 = 0")
	if len(letterIDs) > 0 {
		q = q.Or("letter_id IN ?", letterIDs)
	}
	if len(publicationIDs) > 0 {
		q = q.Or("publication_id IN ?", publicationIDs)
	}
	if len(transcriptionIDs) > 0 {
		q = q.Or("transcription_id IN ?", transcriptionIDs)
	}

	var rows []Contribution
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}
	for _, c := range rows {
		if c.LetterID != nil {
			idx.Letters[*c.LetterID] = append(idx.Letters[*c.LetterID], c)
		}
		if c.PublicationID != nil {
			idx.Publications[*c.PublicationID] = append(idx.Publications[*c.PublicationID], c)
		}
		if c.TranscriptionID != nil {
			idx.Transcriptions[*c.TranscriptionID] = append(idx.Transcriptions[*c.TranscriptionID], c)
		}
	}
	return idx, nil
}
