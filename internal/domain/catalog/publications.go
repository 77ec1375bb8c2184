package catalog

import (
	"context"
	"strings"

	"correspondance-app/internal/domain"

	"gorm.io/gorm"
)

const msgPublicationExists = "Ce volume est déjà enregistré dans la base de donnée"

type PublicationInput struct {
	Title  string `form:"publication_titre" json:"titre"`
	Volume string `form:"publication_volume" json:"volume"`
}

func (in PublicationInput) normalized() PublicationInput {
	return PublicationInput{Title: strings.TrimSpace(in.Title), Volume: strings.TrimSpace(in.Volume)}
}

func (in PublicationInput) validate() error {
	if in.Title == "" {
		return &domain.ValidationError{Messages: []string{"Le champ titre est vide"}}
	}
	return nil
}

func publicationTaken(tx *gorm.DB, in PublicationInput, exceptID uint) (bool, error) {
	q := tx.Model(&Publication{}).Where("title = ? AND volume = ?", in.Title, in.Volume)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Service) CreatePublication(ctx context.Context, actor uint, in PublicationInput) (*Publication, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	pub := Publication{Title: in.Title, Volume: in.Volume}
	_, err := s.attributed(ctx, actor, "create_publication", func(tx *gorm.DB) (*Contribution, error) {
		taken, err := publicationTaken(tx, in, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &domain.ConflictError{Message: msgPublicationExists}
		}
		if err := tx.Create(&pub).Error; err != nil {
			return nil, storeErr(err, msgPublicationExists)
		}
		return &Contribution{PublicationID: idPtr(pub.ID), Action: ActionCreate}, nil
	})
	if err != nil {
		return nil, err
	}
	return &pub, nil
}

func (s *Service) UpdatePublication(ctx context.Context, actor uint, id uint, in PublicationInput) (*Publication, error) {
	in = in.normalized()

	var pub Publication
	_, err := s.attributed(ctx, actor, "update_publication", func(tx *gorm.DB) (*Contribution, error) {
		if err := tx.First(&pub, id).Error; err != nil {
			return nil, findErr(err, "publication")
		}
		if err := in.validate(); err != nil {
			return nil, err
		}
		taken, err := publicationTaken(tx, in, pub.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &domain.ConflictError{Message: msgPublicationExists}
		}

		pub.Title, pub.Volume = in.Title, in.Volume
		if err := tx.Save(&pub).Error; err != nil {
			return nil, storeErr(err, msgPublicationExists)
		}
		return &Contribution{PublicationID: idPtr(pub.ID), Action: ActionUpdate}, nil
	})
	if err != nil {
		return nil, err
	}
	return &pub, nil
}

// DeletePublication removes a publication and unlinks it from every letter.
func (s *Service) DeletePublication(ctx context.Context, actor uint, id uint) error {
	_, err := s.attributed(ctx, actor, "delete_publication", func(tx *gorm.DB) (*Contribution, error) {
		var pub Publication
		if err := tx.First(&pub, id).Error; err != nil {
			return nil, findErr(err, "publication")
		}
		if err := tx.Model(&pub).Association("Letters").Clear(); err != nil {
			return nil, err
		}
		if err := tx.Delete(&pub).Error; err != nil {
			return nil, err
		}
		return &Contribution{PublicationID: idPtr(pub.ID), Action: ActionDelete}, nil
	})
	return err
}

// GetPublication loads a publication with the letters it is a source for.
func (s *Service) GetPublication(ctx context.Context, id uint) (*Publication, error) {
	var pub Publication
	err := s.db.WithContext(ctx).
		Preload("Letters", func(db *gorm.DB) *gorm.DB { return db.Order("letters.id ASC") }).
		First(&pub, id).Error
	if err != nil {
		return nil, findErr(err, "publication")
	}
	return &pub, nil
}

func (s *Service) ListPublications(ctx context.Context) ([]Publication, error) {
	var pubs []Publication
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&pubs).Error; err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}
	return pubs, nil
}
