package catalog

import (
	"time"

	"correspondance-app/internal/domain/users"
)

// Contribution actions.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionSource   = "source"
	ActionUnsource = "unsource"
)

type Publication struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Title  string `gorm:"type:text;not null;uniqueIndex:idx_publications_title_volume,priority:1" json:"title"`
	Volume string `gorm:"type:text;not null;default:'';uniqueIndex:idx_publications_title_volume,priority:2" json:"volume"`

	Letters []Letter `gorm:"many2many:sources;joinForeignKey:PublicationID;joinReferences:LetterID" json:"letters,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Letter struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Number string `gorm:"type:text;not null;uniqueIndex:idx_letters_identity,priority:1" json:"number"`
	Author string `gorm:"type:text;not null;uniqueIndex:idx_letters_identity,priority:2" json:"author"`
	Place  string `gorm:"type:text;not null;uniqueIndex:idx_letters_identity,priority:3" json:"place"`
	// Free text, at least a year.
	Date string `gorm:"type:text;not null;uniqueIndex:idx_letters_identity,priority:4" json:"date"`

	Publications   []Publication   `gorm:"many2many:sources;joinForeignKey:LetterID;joinReferences:PublicationID" json:"publications,omitempty"`
	Transcriptions []Transcription `gorm:"constraint:OnDelete:CASCADE;" json:"transcriptions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Transcription struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Text     string  `gorm:"type:text;not null" json:"text"`
	LetterID uint    `gorm:"not null;index" json:"letter_id"`
	Letter   *Letter `json:"letter,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contribution attributes one mutation to a user. Target ids are plain
// columns without foreign keys so the row outlives the record it names.
type Contribution struct {
	ID uint `gorm:"primaryKey" json:"id"`

	LetterID        *uint `gorm:"index" json:"letter_id,omitempty"`
	PublicationID   *uint `gorm:"index" json:"publication_id,omitempty"`
	TranscriptionID *uint `gorm:"index" json:"transcription_id,omitempty"`

	UserID uint       `gorm:"not null;index" json:"user_id"`
	User   users.User `json:"-"`

	Action    string    `gorm:"type:varchar(16);not null" json:"action"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Kind names the record kind the contribution is about.
func (c Contribution) Kind() string {
	switch {
	case c.LetterID != nil && c.PublicationID != nil:
		return "source"
	case c.TranscriptionID != nil:
		return "transcription"
	case c.LetterID != nil:
		return "letter"
	case c.PublicationID != nil:
		return "publication"
	}
	return "unknown"
}

// Target selects the contributions of one record (or one source pair).
type Target struct {
	LetterID        *uint
	PublicationID   *uint
	TranscriptionID *uint
}

func LetterTarget(id uint) Target        { return Target{LetterID: &id} }
func PublicationTarget(id uint) Target   { return Target{PublicationID: &id} }
func TranscriptionTarget(id uint) Target { return Target{TranscriptionID: &id} }

func SourceTarget(letterID, publicationID uint) Target {
	return Target{LetterID: &letterID, PublicationID: &publicationID}
}

func (t Target) empty() bool {
	return t.LetterID == nil && t.PublicationID == nil && t.TranscriptionID == nil
}
