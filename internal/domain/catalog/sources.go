package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// resolvePair loads both ends of a source link. ok is false when either id
// does not resolve.
func resolvePair(tx *gorm.DB, letterID, publicationID uint) (letter Letter, pub Publication, ok bool, err error) {
	if err = tx.First(&letter, letterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return letter, pub, false, nil
		}
		return
	}
	if err = tx.First(&pub, publicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return letter, pub, false, nil
		}
		return
	}
	return letter, pub, true, nil
}

func linked(tx *gorm.DB, letterID, publicationID uint) (bool, error) {
	var n int64
	err := tx.Table("sources").
		Where("letter_id = ? AND publication_id = ?", letterID, publicationID).
		Count(&n).Error
	return n > 0, err
}

// AddSource records publicationID as a source of letterID. Unknown ids and
// existing links are a no-op and report false.
func (s *Service) AddSource(ctx context.Context, actor uint, letterID, publicationID uint) (bool, error) {
	c, err := s.attributed(ctx, actor, "add_source", func(tx *gorm.DB) (*Contribution, error) {
		letter, pub, ok, err := resolvePair(tx, letterID, publicationID)
		if err != nil || !ok {
			return nil, err
		}
		exists, err := linked(tx, letter.ID, pub.ID)
		if err != nil || exists {
			return nil, err
		}
		if err := tx.Model(&letter).Association("Publications").Append(&pub); err != nil {
			return nil, err
		}
		return &Contribution{LetterID: idPtr(letter.ID), PublicationID: idPtr(pub.ID), Action: ActionSource}, nil
	})
	return c != nil, err
}

// RemoveSource is the inverse of AddSource.
func (s *Service) RemoveSource(ctx context.Context, actor uint, letterID, publicationID uint) (bool, error) {
	c, err := s.attributed(ctx, actor, "remove_source", func(tx *gorm.DB) (*Contribution, error) {
		letter, pub, ok, err := resolvePair(tx, letterID, publicationID)
		if err != nil || !ok {
			return nil, err
		}
		exists, err := linked(tx, letter.ID, pub.ID)
		if err != nil || !exists {
			return nil, err
		}
		if err := tx.Model(&letter).Association("Publications").Delete(&pub); err != nil {
			return nil, err
		}
		return &Contribution{LetterID: idPtr(letter.ID), PublicationID: idPtr(pub.ID), Action: ActionUnsource}, nil
	})
	return c != nil, err
}
