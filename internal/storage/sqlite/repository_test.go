package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mo-legislators/internal/checksum"
	"mo-legislators/internal/legislator"
	"mo-legislators/internal/observability"
	"mo-legislators/internal/storage"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(":memory:", 5*time.Second, observability.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleRepresentative() *legislator.Legislator {
	leg := legislator.New("2013-2014", legislator.Lower, "12", "John Smith", legislator.PartyDemocratic,
		"http://www.house.mo.gov/member.aspx?year=2014")
	leg.SetNameParts("John", "Smith")
	leg.SetEmail("john.smith@house.mo.gov")
	leg.SetOffice(legislator.NewCapitolOffice("201 West Capitol Avenue 301, Jefferson City, MO 65101", "573-751-1111", nil))
	leg.AddSource("http://www.house.mo.gov/member.aspx?year=2014")
	leg.AddSource("http://www.house.mo.gov/member.aspx?year=2014&district=12")
	return leg
}

func TestSinkWritesThroughRepository(t *testing.T) {
	repo := newTestRepo(t)
	sink := storage.NewSink(repo, observability.NewNopLogger())
	ctx := context.Background()

	leg := sampleRepresentative()
	require.NoError(t, sink.SaveLegislator(ctx, leg))
	// повторное сохранение той же записи не создаёт дубликат
	require.NoError(t, sink.SaveLegislator(ctx, sampleRepresentative()))

	count, err := repo.CountByTerm(ctx, "2013-2014", "lower")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	row := storage.ToRow(leg, checksum.NewGenerator())
	stored, err := repo.Get(ctx, row.CheckSum)
	require.NoError(t, err)
	assert.Equal(t, row, stored)
}

func TestInsertLegislatorReportsNew(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	row := storage.ToRow(sampleRepresentative(), checksum.NewGenerator())

	isNew, err := repo.InsertLegislator(ctx, row)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = repo.InsertLegislator(ctx, row)
	require.NoError(t, err)
	assert.False(t, isNew)

	exists, err := repo.ExistsByCheckSum(ctx, row.CheckSum)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCheckSum(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestChangedRecordIsStoredSeparately(t *testing.T) {
	repo := newTestRepo(t)
	sink := storage.NewSink(repo, observability.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, sink.SaveLegislator(ctx, sampleRepresentative()))

	changed := sampleRepresentative()
	changed.SetPhotoURL("http://www.house.mo.gov/MemberPhoto.aspx?id=12")
	require.NoError(t, sink.SaveLegislator(ctx, changed))

	count, err := repo.CountByTerm(ctx, "2013-2014", "lower")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
