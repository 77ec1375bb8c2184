package catalog

import (
	"context"

	"correspondance-app/internal/domain"

	"gorm.io/gorm"
)

const overviewSize = 5

// matching filters letters on keyword. An empty keyword matches everything.
// The keyword is used as is inside the LIKE pattern, so % and _ act as
// wildcards.
func matching(keyword string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if keyword == "" {
			return db
		}
		pattern := "%" + keyword + "%"
		return db.Where(
			`letters.number LIKE ? OR letters.date LIKE ? OR letters.author LIKE ? OR letters.place LIKE ? OR EXISTS (
				SELECT 1 FROM sources
				JOIN publications ON publications.id = sources.publication_id
				WHERE sources.letter_id = letters.id AND publications.title LIKE ?)`,
			pattern, pattern, pattern, pattern, pattern,
		)
	}
}

func (s *Service) ListLetters(ctx context.Context, page, pageSize int) (*Page[Letter], error) {
	return s.Search(ctx, "", page, pageSize)
}

// Search pages through the letters whose number, date, author, place or
// source titles contain keyword, in id order.
func (s *Service) Search(ctx context.Context, keyword string, page, pageSize int) (*Page[Letter], error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&Letter{}).Scopes(matching(keyword)).Count(&total).Error; err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}

	p := NewPage(total, page, pageSize)
	letters := []Letter{}
	err := s.db.WithContext(ctx).
		Scopes(matching(keyword)).
		Preload("Publications", func(db *gorm.DB) *gorm.DB { return db.Order("publications.id ASC") }).
		Preload("Transcriptions", func(db *gorm.DB) *gorm.DB { return db.Order("transcriptions.id ASC") }).
		Order("letters.id ASC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&letters).Error
	if err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}
	return &Page[Letter]{Items: letters, Pagination: p}, nil
}

func (s *Service) ListTranscriptions(ctx context.Context, page, pageSize int) (*Page[Transcription], error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&Transcription{}).Count(&total).Error; err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}

	p := NewPage(total, page, pageSize)
	items := []Transcription{}
	err := s.db.WithContext(ctx).
		Preload("Letter").
		Order("id ASC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}
	return &Page[Transcription]{Items: items, Pagination: p}, nil
}

// Overview is the landing page summary.
type Overview struct {
	LatestLetters        []Letter        `json:"latest_letters"`
	LatestTranscriptions []Transcription `json:"latest_transcriptions"`
	Letters              int64           `json:"letters"`
	Publications         int64           `json:"publications"`
	Transcriptions       int64           `json:"transcriptions"`
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	db := s.db.WithContext(ctx)
	ov := Overview{LatestLetters: []Letter{}, LatestTranscriptions: []Transcription{}}

	counts := []struct {
		model any
		dst   *int64
	}{
		{&Letter{}, &ov.Letters},
		{&Publication{}, &ov.Publications},
		{&Transcription{}, &ov.Transcriptions},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, &domain.PersistenceError{Cause: err}
		}
	}

	if err := db.Order("id DESC").Limit(overviewSize).Find(&ov.LatestLetters).Error; err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}
	if err := db.Preload("Letter").Order("id DESC").Limit(overviewSize).Find(&ov.LatestTranscriptions).Error; err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}
	return &ov, nil
}
