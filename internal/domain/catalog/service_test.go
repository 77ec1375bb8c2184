package catalog_test

import (
	"context"
	"errors"
	"testing"

	"correspondance-app/database"
	"correspondance-app/internal/domain"
	"correspondance-app/internal/domain/catalog"
	"correspondance-app/internal/domain/users"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*catalog.Service, *gorm.DB, uint) {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	u, err := users.Register(context.Background(), db, users.RegisterInput{
		Login: "ricci", Email: "ricci@example.org", Name: "Matteo", Password: "secret1",
	})
	require.NoError(t, err)
	return catalog.NewService(db, zerolog.Nop()), db, u.ID
}

var ricci = catalog.LetterInput{Number: "12", Author: "Ricci", Place: "Pékin", Date: "1610"}

func countContributions(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&catalog.Contribution{}).Where("action = ?", action).Count(&n).Error)
	return n
}

func TestCreateLetter(t *testing.T) {
	svc, db, actor := setup(t)
	ctx := context.Background()

	letter, err := svc.CreateLetter(ctx, actor, ricci)
	require.NoError(t, err)
	assert.NotZero(t, letter.ID)

	contribs, err := svc.Contributions(ctx, catalog.LetterTarget(letter.ID))
	require.NoError(t, err)
	require.Len(t, contribs, 1)
	assert.Equal(t, catalog.ActionCreate, contribs[0].Action)
	assert.Equal(t, actor, contribs[0].UserID)
	assert.Equal(t, "Matteo", contribs[0].User.Name)

	_, err = svc.CreateLetter(ctx, actor, ricci)
	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "déjà enregistré")
	assert.Equal(t, int64(1), countContributions(t, db, catalog.ActionCreate))
}

func TestCreateLetterValidation(t *testing.T) {
	svc, db, actor := setup(t)

	_, err := svc.CreateLetter(context.Background(), actor, catalog.LetterInput{Number: "", Author: "", Place: "Rome", Date: "161"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Messages, 3)
	assert.Contains(t, ve.Messages, "Le champ auteur est vide")
	assert.Contains(t, ve.Messages, "Le champ date d'envoi doit au moins contenir une année")

	var n int64
	require.NoError(t, db.Model(&catalog.Letter{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateLetterRequiresActor(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.CreateLetter(context.Background(), 0, ricci)
	assert.ErrorIs(t, err, domain.ErrAnonymous)
}

func TestContributionFailureRollsBack(t *testing.T) {
	svc, db, actor := setup(t)

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("fail_contributions", func(tx *gorm.DB) {
		if tx.Statement.Table == "contributions" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := svc.CreateLetter(context.Background(), actor, ricci)
	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "disk full")

	var n int64
	require.NoError(t, db.Model(&catalog.Letter{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdateLetter(t *testing.T) {
	svc, db, actor := setup(t)
	ctx := context.Background()

	a, err := svc.CreateLetter(ctx, actor, ricci)
	require.NoError(t, err)
	b, err := svc.CreateLetter(ctx, actor, catalog.LetterInput{Number: "13", Author: "Ricci", Place: "Pékin", Date: "1610"})
	require.NoError(t, err)

	_, err = svc.UpdateLetter(ctx, actor, b.ID, ricci)
	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)

	// same tuple on the same letter is not a conflict
	updated, err := svc.UpdateLetter(ctx, actor, a.ID, catalog.LetterInput{Number: "12", Author: "Ricci", Place: "Nankin", Date: "1610"})
	require.NoError(t, err)
	assert.Equal(t, "Nankin", updated.Place)

	_, err = svc.UpdateLetter(ctx, actor, 999, ricci)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, int64(1), countContributions(t, db, catalog.ActionUpdate))
}

func TestDeleteLetterCascadesAndKeepsContributions(t *testing.T) {
	svc, db, actor := setup(t)
	ctx := context.Background()

	letter, err := svc.CreateLetter(ctx, actor, ricci)
	require.NoError(t, err)
	pub, err := svc.CreatePublication(ctx, actor, catalog.PublicationInput{Title: "Opere storiche", Volume: "II"})
	require.NoError(t, err)
	_, err = svc.AddSource(ctx, actor, letter.ID, pub.ID)
	require.NoError(t, err)
	_, err = svc.CreateTranscription(ctx, actor, letter.ID, "Molto Reverendo Padre")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLetter(ctx, actor, letter.ID))

	_, err = svc.GetLetter(ctx, letter.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var n int64
	require.NoError(t, db.Model(&catalog.Transcription{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Table("sources").Count(&n).Error)
	assert.Zero(t, n)

	contribs, err := svc.Contributions(ctx, catalog.LetterTarget(letter.ID))
	require.NoError(t, err)
	actions := make([]string, 0, len(contribs))
	for _, c := range contribs {
		actions = append(actions, c.Action)
	}
	assert.Equal(t, []string{catalog.ActionCreate, catalog.ActionSource, catalog.ActionDelete}, actions)

	// the publication survives
	_, err = svc.GetPublication(ctx, pub.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteLetter(ctx, actor, letter.ID), domain.ErrNotFound)
}

func TestSources(t *testing.T) {
	svc, db, actor := setup(t)
	ctx := context.Background()

	letter, err := svc.CreateLetter(ctx, actor, ricci)
	require.NoError(t, err)
	pub, err := svc.CreatePublication(ctx, actor, catalog.PublicationInput{Title: "Fonti Ricciane"})
	require.NoError(t, err)

	added, err := svc.AddSource(ctx, actor, letter.ID, pub.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.AddSource(ctx, actor, letter.ID, pub.ID)
	require.NoError(t, err)
	assert.False(t, added)

	added, err = svc.AddSource(ctx, actor, letter.ID, 999)
	require.NoError(t, err)
	assert.False(t, added)

	got, err := svc.GetLetter(ctx, letter.ID)
	require.NoError(t, err)
	require.Len(t, got.Publications, 1)
	assert.Equal(t, "Fonti Ricciane", got.Publications[0].Title)

	removed, err := svc.RemoveSource(ctx, actor, letter.ID, pub.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveSource(ctx, actor, letter.ID, pub.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	var n int64
	require.NoError(t, db.Table("sources").Count(&n).Error)
	assert.Zero(t, n)

	pair, err := svc.Contributions(ctx, catalog.SourceTarget(letter.ID, pub.ID))
	require.NoError(t, err)
	require.Len(t, pair, 2)
	assert.Equal(t, catalog.ActionSource, pair[0].Action)
	assert.Equal(t, catalog.ActionUnsource, pair[1].Action)
	assert.Equal(t, "source", pair[0].Kind())
}

func TestPublications(t *testing.T) {
	svc, _, actor := setup(t)
	ctx := context.Background()

	_, err := svc.CreatePublication(ctx, actor, catalog.PublicationInput{Title: "  "})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"Le champ titre est vide"}, ve.Messages)

	first, err := svc.CreatePublication(ctx, actor, catalog.PublicationInput{Title: "Lettere", Volume: "I"})
	require.NoError(t, err)
	second, err := svc.CreatePublication(ctx, actor, catalog.PublicationInput{Title: "Lettere", Volume: "II"})
	require.NoError(t, err)

	_, err = svc.CreatePublication(ctx, actor, catalog.PublicationInput{Title: "Lettere", Volume: "I"})
	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Ce volume est déjà enregistré dans la base de donnée", ce.Message)

	_, err = svc.UpdatePublication(ctx, actor, second.ID, catalog.PublicationInput{Title: "Lettere", Volume: "I"})
	require.ErrorAs(t, err, &ce)

	renamed, err := svc.UpdatePublication(ctx, actor, second.ID, catalog.PublicationInput{Title: "Lettere", Volume: "III"})
	require.NoError(t, err)
	assert.Equal(t, "III", renamed.Volume)

	require.NoError(t, svc.DeletePublication(ctx, actor, first.ID))
	pubs, err := svc.ListPublications(ctx)
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, second.ID, pubs[0].ID)
}

func TestTranscriptions(t *testing.T) {
	svc, db, actor := setup(t)
	ctx := context.Background()

	_, err := svc.CreateTranscription(ctx, actor, 42, "texte")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	letter, err := svc.CreateLetter(ctx, actor, ricci)
	require.NoError(t, err)

	_, err = svc.CreateTranscription(ctx, actor, letter.ID, "")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"Il n'y a pas de transcription"}, ve.Messages)

	tr, err := svc.CreateTranscription(ctx, actor, letter.ID, "Pax Christi\n  Molto Reverendo  \n\n")
	require.NoError(t, err)

	contribs, err := svc.Contributions(ctx, catalog.TranscriptionTarget(tr.ID))
	require.NoError(t, err)
	require.Len(t, contribs, 1)
	assert.Equal(t, tr.ID, *contribs[0].TranscriptionID)

	updated, err := svc.UpdateTranscription(ctx, actor, tr.ID, "Pax Christi")
	require.NoError(t, err)
	assert.Equal(t, "Pax Christi", updated.Text)

	got, err := svc.GetTranscription(ctx, tr.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Letter)
	assert.Equal(t, "Ricci", got.Letter.Author)

	require.NoError(t, svc.DeleteTranscription(ctx, actor, tr.ID))
	_, err = svc.GetTranscription(ctx, tr.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(1), countContributions(t, db, catalog.ActionDelete))
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"Pax Christi", "Molto Reverendo"}, catalog.Paragraphs("Pax Christi\r\n  Molto Reverendo  \n\n"))
	assert.Empty(t, catalog.Paragraphs("   "))
}

func TestObserverSeesCommittedContributions(t *testing.T) {
	svc, _, actor := setup(t)
	var seen []string
	svc.OnContribution(func(c catalog.Contribution) { seen = append(seen, c.Kind()+":"+c.Action) })

	_, err := svc.CreateLetter(context.Background(), actor, ricci)
	require.NoError(t, err)
	_, err = svc.CreateLetter(context.Background(), actor, ricci)
	require.Error(t, err)

	assert.Equal(t, []string{"letter:create"}, seen)
}

func TestUserContributions(t *testing.T) {
	svc, _, actor := setup(t)
	ctx := context.Background()

	letter, err := svc.CreateLetter(ctx, actor, ricci)
	require.NoError(t, err)
	_, err = svc.UpdateLetter(ctx, actor, letter.ID, catalog.LetterInput{Number: "12", Author: "Ricci", Place: "Nankin", Date: "1610"})
	require.NoError(t, err)
	tr, err := svc.CreateTranscription(ctx, actor, letter.ID, "Pax Christi")
	require.NoError(t, err)

	summary, err := svc.UserContributions(ctx, actor, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Total)
	assert.Equal(t, int64(2), summary.ByAction[catalog.ActionCreate])
	assert.Equal(t, int64(1), summary.ByAction[catalog.ActionUpdate])
	require.Len(t, summary.Recent, 2)
	assert.Equal(t, tr.ID, *summary.Recent[0].TranscriptionID)

	idx, err := svc.IndexContributions(ctx, []uint{letter.ID}, nil, []uint{tr.ID})
	require.NoError(t, err)
	assert.Len(t, idx.Letters[letter.ID], 2)
	assert.Len(t, idx.Transcriptions[tr.ID], 1)
	assert.Empty(t, idx.Publications)
}

type callbackRegistrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// insertBehind registers a callback that writes a duplicate row on the
// transaction's own connection after the existence check has passed.
func insertBehind(t *testing.T, at callbackRegistrar, table, query string, args ...any) {
	t.Helper()
	fired := false
	require.NoError(t, at.Register("insert_behind_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table || fired {
			return
		}
		fired = true
		_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context, query, args...)
		require.NoError(t, err)
	}))
}

func TestCreateLetterUniqueIndexConflict(t *testing.T) {
	svc, db, actor := setup(t)

	insertBehind(t, db.Callback().Create().Before("gorm:create"), "letters",
		"INSERT INTO letters (number, author, place, date) VALUES (?, ?, ?, ?)",
		ricci.Number, ricci.Author, ricci.Place, ricci.Date)

	_, err := svc.CreateLetter(context.Background(), actor, ricci)
	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "déjà enregistré")

	var n int64
	require.NoError(t, db.Model(&catalog.Letter{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&catalog.Contribution{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdatePublicationUniqueIndexConflict(t *testing.T) {
	svc, db, actor := setup(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, actor, catalog.PublicationInput{Title: "Lettere", Volume: "I"})
	require.NoError(t, err)

	insertBehind(t, db.Callback().Update().Before("gorm:update"), "publications",
		"INSERT INTO publications (title, volume) VALUES (?, ?)", "Lettere", "II")

	_, err = svc.UpdatePublication(ctx, actor, pub.ID, catalog.PublicationInput{Title: "Lettere", Volume: "II"})
	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)

	got, err := svc.GetPublication(ctx, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, "I", got.Volume)

	var n int64
	require.NoError(t, db.Model(&catalog.Publication{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
	assert.Zero(t, countContributions(t, db, catalog.ActionUpdate))
}
