package catalog

import (
	"context"
	"strings"
	"unicode/utf8"

	"correspondance-app/internal/domain"

	"gorm.io/gorm"
)

const msgLetterExists = "Cette lettre est déjà enregistré dans la base de donnée"

// LetterInput carries the editable fields of a letter, bound from the
// creation and edition forms.
type LetterInput struct {
	Number string `form:"lettre_numero" json:"numero"`
	Author string `form:"lettre_redacteur" json:"auteur"`
	Place  string `form:"lettre_lieu" json:"lieu"`
	Date   string `form:"lettre_date" json:"date"`
}

func (in LetterInput) normalized() LetterInput {
	return LetterInput{
		Number: strings.TrimSpace(in.Number),
		Author: strings.TrimSpace(in.Author),
		Place:  strings.TrimSpace(in.Place),
		Date:   strings.TrimSpace(in.Date),
	}
}

func (in LetterInput) validate() error {
	var errs []string
	if in.Number == "" {
		errs = append(errs, "Le champ numero de lettre est vide, si la lettre n'est pas éditée, mettre 0")
	}
	if in.Author == "" {
		errs = append(errs, "Le champ auteur est vide")
	}
	if in.Place == "" {
		errs = append(errs, "Le champ lieu est vide")
	}
	if utf8.RuneCountInString(in.Date) < 4 {
		errs = append(errs, "Le champ date d'envoi doit au moins contenir une année")
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Messages: errs}
	}
	return nil
}

// letterTaken reports whether another letter already holds the identity tuple.
func letterTaken(tx *gorm.DB, in LetterInput, exceptID uint) (bool, error) {
	q := tx.Model(&Letter{}).Where(
		"number = ? AND author = ? AND place = ? AND date = ?",
		in.Number, in.Author, in.Place, in.Date,
	)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Service) CreateLetter(ctx context.Context, actor uint, in LetterInput) (*Letter, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	letter := Letter{Number: in.Number, Author: in.Author, Place: in.Place, Date: in.Date}
	_, err := s.attributed(ctx, actor, "create_letter", func(tx *gorm.DB) (*Contribution, error) {
		taken, err := letterTaken(tx, in, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &domain.ConflictError{Message: msgLetterExists}
		}
		if err := tx.Create(&letter).Error; err != nil {
			return nil, storeErr(err, msgLetterExists)
		}
		return &Contribution{LetterID: idPtr(letter.ID), Action: ActionCreate}, nil
	})
	if err != nil {
		return nil, err
	}
	return &letter, nil
}

func (s *Service) UpdateLetter(ctx context.Context, actor uint, id uint, in LetterInput) (*Letter, error) {
	in = in.normalized()

	var letter Letter
	_, err := s.attributed(ctx, actor, "update_letter", func(tx *gorm.DB) (*Contribution, error) {
		if err := tx.First(&letter, id).Error; err != nil {
			return nil, findErr(err, "letter")
		}
		if err := in.validate(); err != nil {
			return nil, err
		}
		taken, err := letterTaken(tx, in, letter.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &domain.ConflictError{Message: msgLetterExists}
		}

		letter.Number, letter.Author, letter.Place, letter.Date = in.Number, in.Author, in.Place, in.Date
		if err := tx.Save(&letter).Error; err != nil {
			return nil, storeErr(err, msgLetterExists)
		}
		return &Contribution{LetterID: idPtr(letter.ID), Action: ActionUpdate}, nil
	})
	if err != nil {
		return nil, err
	}
	return &letter, nil
}

// DeleteLetter removes a letter with its transcriptions and source links.
// Its contributions are kept.
func (s *Service) DeleteLetter(ctx context.Context, actor uint, id uint) error {
	_, err := s.attributed(ctx, actor, "delete_letter", func(tx *gorm.DB) (*Contribution, error) {
		var letter Letter
		if err := tx.First(&letter, id).Error; err != nil {
			return nil, findErr(err, "letter")
		}
		if err := tx.Where("letter_id = ?", letter.ID).Delete(&Transcription{}).Error; err != nil {
			return nil, err
		}
		if err := tx.Model(&letter).Association("Publications").Clear(); err != nil {
			return nil, err
		}
		if err := tx.Delete(&letter).Error; err != nil {
			return nil, err
		}
		return &Contribution{LetterID: idPtr(letter.ID), Action: ActionDelete}, nil
	})
	return err
}

// GetLetter loads a letter with its publications and transcriptions.
func (s *Service) GetLetter(ctx context.Context, id uint) (*Letter, error) {
	var letter Letter
	err := s.db.WithContext(ctx).
		Preload("Publications", func(db *gorm.DB) *gorm.DB { return db.Order("publications.id ASC") }).
		Preload("Transcriptions", func(db *gorm.DB) *gorm.DB { return db.Order("transcriptions.id ASC") }).
		First(&letter, id).Error
	if err != nil {
		return nil, findErr(err, "letter")
	}
	return &letter, nil
}
