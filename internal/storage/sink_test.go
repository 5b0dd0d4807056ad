package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mo-legislators/internal/legislator"
	"mo-legislators/internal/observability"
)

type memRepo struct {
	rows map[string]*LegislatorRow
	err  error
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]*LegislatorRow{}}
}

func (m *memRepo) InsertLegislator(_ context.Context, row *LegislatorRow) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.rows[row.CheckSum]; ok {
		return false, nil
	}
	m.rows[row.CheckSum] = row
	return true, nil
}

func (m *memRepo) ExistsByCheckSum(_ context.Context, sum string) (bool, error) {
	_, ok := m.rows[sum]
	return ok, nil
}

func (m *memRepo) CountByTerm(_ context.Context, term, chamber string) (int, error) {
	n := 0
	for _, r := range m.rows {
		if r.Term == term && r.Chamber == chamber {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) Close() error { return nil }

func sampleLegislator() *legislator.Legislator {
	leg := legislator.New("2013-2014", legislator.Upper, "07", "Jane Doe", legislator.PartyDemocratic, "http://example.test/mem07.htm")
	leg.AddSource("http://example.test/roster.htm")
	leg.SetEmail("mailto:jane@senate.mo.gov")
	email := "mailto:jane@senate.mo.gov"
	leg.SetOffice(legislator.NewCapitolOffice("201 W Capitol Ave Room 101", "573-751-0000", &email))
	return leg
}

func TestSinkSavesOncePerChecksum(t *testing.T) {
	repo := newMemRepo()
	sink := NewSink(repo, observability.NewNopLogger())

	require.NoError(t, sink.SaveLegislator(context.Background(), sampleLegislator()))
	require.NoError(t, sink.SaveLegislator(context.Background(), sampleLegislator()))

	n, err := repo.CountByTerm(context.Background(), "2013-2014", string(legislator.Upper))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSinkWrapsRepositoryError(t *testing.T) {
	boom := errors.New("connection reset")
	repo := newMemRepo()
	repo.err = boom
	sink := NewSink(repo, observability.NewNopLogger())

	err := sink.SaveLegislator(context.Background(), sampleLegislator())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "insert legislator")
}

func TestToRowFlattensOptionalFields(t *testing.T) {
	repo := newMemRepo()
	sink := NewSink(repo, observability.NewNopLogger())

	leg := legislator.New("2014", legislator.Lower, "20", " Vacant", "", "http://example.test/roster")
	row := ToRow(leg, sink.gen)

	assert.Empty(t, row.PhotoURL)
	assert.Empty(t, row.Email)
	assert.Empty(t, row.OfficeName)
	assert.Equal(t, "http://example.test/roster", row.URL)
	assert.NotEmpty(t, row.CheckSum)

	full := ToRow(sampleLegislator(), sink.gen)
	assert.Equal(t, legislator.CapitolOfficeName, full.OfficeName)
	assert.Equal(t, "573-751-0000", full.OfficePhone)
	assert.Equal(t, "http://example.test/roster.htm", full.Sources)
	assert.NotEqual(t, row.CheckSum, full.CheckSum)
}

func TestVacantCollectorRecordsIsCopy(t *testing.T) {
	c := NewVacantCollector()
	leg := legislator.New("2014", legislator.Lower, "20", " Vacant", "", "http://example.test/roster")
	require.NoError(t, c.SaveVacant(context.Background(), leg))

	got := c.Records()
	require.Len(t, got, 1)
	got[0] = nil

	assert.Same(t, leg, c.Records()[0])
}
