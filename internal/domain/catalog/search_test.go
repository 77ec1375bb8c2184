package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"correspondance-app/internal/domain/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	cases := []struct {
		name             string
		total            int64
		page, size       int
		pages            int
		hasNext, hasPrev bool
		expectedPage     int
		expectedPageSize int
	}{
		{"empty", 0, 1, 10, 0, false, false, 1, 10},
		{"single page", 7, 1, 10, 1, false, false, 1, 10},
		{"first of three", 25, 1, 10, 3, true, false, 1, 10},
		{"middle", 25, 2, 10, 3, true, true, 2, 10},
		{"last", 25, 3, 10, 3, false, true, 3, 10},
		{"beyond last", 25, 9, 10, 3, false, true, 9, 10},
		{"clamped page", 25, 0, 10, 3, true, false, 1, 10},
		{"default size", 25, 1, 0, 3, true, false, 1, catalog.DefaultPageSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := catalog.NewPage(tc.total, tc.page, tc.size)
			assert.Equal(t, tc.pages, p.Pages)
			assert.Equal(t, tc.hasNext, p.HasNext)
			assert.Equal(t, tc.hasPrev, p.HasPrev)
			assert.Equal(t, tc.expectedPage, p.Page)
			assert.Equal(t, tc.expectedPageSize, p.PageSize)
		})
	}
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, catalog.ParsePage(""))
	assert.Equal(t, 1, catalog.ParsePage("abc"))
	assert.Equal(t, 1, catalog.ParsePage("-3"))
	assert.Equal(t, 1, catalog.ParsePage("0"))
	assert.Equal(t, 4, catalog.ParsePage("4"))
}

func TestSearch(t *testing.T) {
	svc, _, actor := setup(t)
	ctx := context.Background()

	pekin, err := svc.CreateLetter(ctx, actor, ricci)
	require.NoError(t, err)
	macao, err := svc.CreateLetter(ctx, actor, catalog.LetterInput{Number: "3", Author: "Valignano", Place: "Macao", Date: "1598"})
	require.NoError(t, err)
	_, err = svc.CreateLetter(ctx, actor, catalog.LetterInput{Number: "7", Author: "Pasio", Place: "Goa", Date: "1602"})
	require.NoError(t, err)

	pub, err := svc.CreatePublication(ctx, actor, catalog.PublicationInput{Title: "Documenta Indica"})
	require.NoError(t, err)
	_, err = svc.AddSource(ctx, actor, macao.ID, pub.ID)
	require.NoError(t, err)

	byPlace, err := svc.Search(ctx, "Pék", 1, 10)
	require.NoError(t, err)
	require.Len(t, byPlace.Items, 1)
	assert.Equal(t, pekin.ID, byPlace.Items[0].ID)

	byTitle, err := svc.Search(ctx, "Indica", 1, 10)
	require.NoError(t, err)
	require.Len(t, byTitle.Items, 1)
	assert.Equal(t, macao.ID, byTitle.Items[0].ID)

	byDate, err := svc.Search(ctx, "16", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byDate.Total)

	none, err := svc.Search(ctx, "Nagasaki", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.Zero(t, none.Pages)

	all, err := svc.Search(ctx, "", 1, 10)
	require.NoError(t, err)
	listed, err := svc.ListLetters(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, listed, all)
	assert.Len(t, all.Items, 3)
}

func TestListLettersPaginates(t *testing.T) {
	svc, _, actor := setup(t)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		_, err := svc.CreateLetter(ctx, actor, catalog.LetterInput{
			Number: fmt.Sprint(i), Author: "Ricci", Place: "Pékin", Date: "1605",
		})
		require.NoError(t, err)
	}

	first, err := svc.ListLetters(ctx, 1, 5)
	require.NoError(t, err)
	assert.Len(t, first.Items, 5)
	assert.Equal(t, "1", first.Items[0].Number)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	last, err := svc.ListLetters(ctx, 3, 5)
	require.NoError(t, err)
	assert.Len(t, last.Items, 2)
	assert.Equal(t, "12", last.Items[1].Number)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrev)
}

func TestOverview(t *testing.T) {
	svc, _, actor := setup(t)
	ctx := context.Background()

	var lastID uint
	for i := 1; i <= 6; i++ {
		l, err := svc.CreateLetter(ctx, actor, catalog.LetterInput{
			Number: fmt.Sprint(i), Author: "Ricci", Place: "Pékin", Date: "1605",
		})
		require.NoError(t, err)
		lastID = l.ID
	}
	_, err := svc.CreateTranscription(ctx, actor, lastID, "Pax Christi")
	require.NoError(t, err)

	ov, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), ov.Letters)
	assert.Equal(t, int64(1), ov.Transcriptions)
	assert.Zero(t, ov.Publications)
	require.Len(t, ov.LatestLetters, 5)
	assert.Equal(t, lastID, ov.LatestLetters[0].ID)
	require.Len(t, ov.LatestTranscriptions, 1)
	assert.Equal(t, lastID, ov.LatestTranscriptions[0].Letter.ID)
}
