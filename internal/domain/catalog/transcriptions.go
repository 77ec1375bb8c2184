package catalog

import (
	"context"
	"strings"

	"correspondance-app/internal/domain"

	"gorm.io/gorm"
)

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &domain.ValidationError{Messages: []string{"Il n'y a pas de transcription"}}
	}
	return nil
}

// CreateTranscription attaches a new transcription to an existing letter.
func (s *Service) CreateTranscription(ctx context.Context, actor uint, letterID uint, text string) (*Transcription, error) {
	var tr Transcription
	_, err := s.attributed(ctx, actor, "create_transcription", func(tx *gorm.DB) (*Contribution, error) {
		var letter Letter
		if err := tx.Select("id").First(&letter, letterID).Error; err != nil {
			return nil, findErr(err, "letter")
		}
		if err := validateText(text); err != nil {
			return nil, err
		}

		tr = Transcription{Text: text, LetterID: letter.ID}
		if err := tx.Create(&tr).Error; err != nil {
			return nil, err
		}
		return &Contribution{TranscriptionID: idPtr(tr.ID), Action: ActionCreate}, nil
	})
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func (s *Service) UpdateTranscription(ctx context.Context, actor uint, id uint, text string) (*Transcription, error) {
	var tr Transcription
	_, err := s.attributed(ctx, actor, "update_transcription", func(tx *gorm.DB) (*Contribution, error) {
		if err := tx.First(&tr, id).Error; err != nil {
			return nil, findErr(err, "transcription")
		}
		if err := validateText(text); err != nil {
			return nil, err
		}
		if err := tx.Model(&tr).Update("text", text).Error; err != nil {
			return nil, err
		}
		return &Contribution{TranscriptionID: idPtr(tr.ID), Action: ActionUpdate}, nil
	})
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func (s *Service) DeleteTranscription(ctx context.Context, actor uint, id uint) error {
	_, err := s.attributed(ctx, actor, "delete_transcription", func(tx *gorm.DB) (*Contribution, error) {
		var tr Transcription
		if err := tx.First(&tr, id).Error; err != nil {
			return nil, findErr(err, "transcription")
		}
		if err := tx.Delete(&tr).Error; err != nil {
			return nil, err
		}
		return &Contribution{TranscriptionID: idPtr(tr.ID), Action: ActionDelete}, nil
	})
	return err
}

// GetTranscription loads a transcription with its parent letter.
func (s *Service) GetTranscription(ctx context.Context, id uint) (*Transcription, error) {
	var tr Transcription
	if err := s.db.WithContext(ctx).Preload("Letter").First(&tr, id).Error; err != nil {
		return nil, findErr(err, "transcription")
	}
	return &tr, nil
}

// Paragraphs splits a transcription into trimmed lines for display, dropping
// blank ones.
func Paragraphs(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
