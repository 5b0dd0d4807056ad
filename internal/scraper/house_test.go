package scraper

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mo-legislators/internal/htmltree"
	"mo-legislators/internal/legislator"
	"mo-legislators/internal/normalize"
)

const (
	houseRoster   = "http://www.house.mo.gov/member.aspx?year=2014"
	houseMember12 = "http://www.house.mo.gov/member.aspx?year=2014&district=12"
	houseMember33 = "http://www.house.mo.gov/member.aspx?year=2014&district=33"
)

func housePages(t *testing.T) map[string]string {
	return map[string]string{
		houseRoster:   fixture(t, "house_roster.htm"),
		houseMember12: fixture(t, "house_member12.htm"),
		houseMember33: fixture(t, "house_member33.htm"),
	}
}

func TestScrapeReps(t *testing.T) {
	h := newHarness(housePages(t))

	stats, err := h.scraper.ScrapeReps(context.Background(), legislator.Lower, "2014", testTerm)
	require.NoError(t, err)

	assert.Equal(t, &SessionStats{Rows: 3, Saved: 2, Vacant: 1}, stats)
	// страница вакантного округа не запрашивается
	assert.Equal(t, []string{houseRoster, houseMember12, houseMember33}, h.fetcher.requested)

	want := []*legislator.Legislator{
		{
			Term:      testTerm,
			Chamber:   legislator.Lower,
			District:  "12",
			FullName:  "John Smith",
			FirstName: "John",
			LastName:  "Smith",
			Party:     legislator.PartyDemocratic,
			URL:       houseRoster,
			PhotoURL:  strPtr("http://www.house.mo.gov/MemberPhoto.aspx?id=12&year=2014"),
			Email:     strPtr("john.smith@house.mo.gov"),
			Office: &legislator.Office{
				Name:    legislator.CapitolOfficeName,
				Address: "201 West Capitol Avenue 301, Jefferson City, MO 65101",
				Phone:   strPtr("573-751-1111"),
			},
			Sources: []string{houseRoster, houseMember12},
		},
		{
			Term:      testTerm,
			Chamber:   legislator.Lower,
			District:  "33",
			FullName:  "Jane Roe",
			FirstName: "Jane",
			LastName:  "Roe",
			Party:     "Republican",
			URL:       houseRoster,
			Office: &legislator.Office{
				Name:    legislator.CapitolOfficeName,
				Address: "201 West Capitol Avenue 115A, Jefferson City, MO 65101",
			},
			Sources: []string{houseRoster, houseMember33},
		},
	}

	if diff := cmp.Diff(want, h.saver.saved); diff != "" {
		t.Errorf("saved representatives mismatch (-want +got):\n%s", diff)
	}
}

func TestScrapeRepsRoutesVacantSeatsSeparately(t *testing.T) {
	h := newHarness(housePages(t))

	_, err := h.scraper.ScrapeReps(context.Background(), legislator.Lower, "2014", testTerm)
	require.NoError(t, err)

	for _, leg := range h.saver.saved {
		assert.NotEqual(t, "Vacant", leg.LastName, "vacant seat leaked into main save path")
	}

	vacant := h.vacant.Records()
	require.Len(t, vacant, 1)

	want := &legislator.Legislator{
		Term:      testTerm,
		Chamber:   legislator.Lower,
		District:  "20",
		FullName:  " Vacant",
		FirstName: "",
		LastName:  "Vacant",
		Party:     "",
		URL:       houseRoster,
		Office: &legislator.Office{
			Name:    legislator.CapitolOfficeName,
			Address: "201 West Capitol Avenue , Jefferson City, MO 65101",
		},
		Sources: []string{houseRoster},
	}
	if diff := cmp.Diff(want, vacant[0]); diff != "" {
		t.Errorf("vacant record mismatch (-want +got):\n%s", diff)
	}
}

func TestScrapeRepsDiscardsCommitteesAndTerms(t *testing.T) {
	h := newHarness(housePages(t))

	details, err := h.scraper.fetchMemberDetails(context.Background(), houseMember12)
	require.NoError(t, err)

	// данные страницы доступны, но в запись не переносятся
	assert.Equal(t, []string{"Budget", "Rules"}, details.committees)
	assert.Equal(t, "Elected 2012, 2014", details.elected)
}

const badDistrictRoster = `<html><body>
<table id="ContentPlaceHolder1_gridMembers_DXMainTable">
<tr><td>Last</td><td>First</td><td>District</td><td>Party</td><td>Phone</td><td>Room</td></tr>
<tr><td><a href="#">Smith</a></td><td>John</td><td>At-large</td><td>Democrat</td><td></td><td></td></tr>
</table></body></html>`

func TestScrapeRepsBadDistrictIsFatal(t *testing.T) {
	h := newHarness(map[string]string{houseRoster: badDistrictRoster})

	_, err := h.scraper.ScrapeReps(context.Background(), legislator.Lower, "2014", testTerm)
	require.ErrorIs(t, err, normalize.ErrData)
	assert.Empty(t, h.saver.saved)
}

func TestScrapeRepsMissingGridIsFatal(t *testing.T) {
	h := newHarness(map[string]string{houseRoster: "<html><body><table><tr><td>x</td></tr></table></body></html>"})

	_, err := h.scraper.ScrapeReps(context.Background(), legislator.Lower, "2014", testTerm)
	assert.ErrorIs(t, err, htmltree.ErrNotFound)
}

const noLinkRoster = `<html><body>
<table id="ContentPlaceHolder1_gridMembers_DXMainTable">
<tr><td>Last</td><td>First</td><td>District</td><td>Party</td><td>Phone</td><td>Room</td></tr>
<tr><td>Smith</td><td>John</td><td>12</td><td>Democrat</td><td></td><td></td></tr>
</table></body></html>`

func TestScrapeRepsMissingMemberLinkIsFatal(t *testing.T) {
	h := newHarness(map[string]string{houseRoster: noLinkRoster})

	_, err := h.scraper.ScrapeReps(context.Background(), legislator.Lower, "2014", testTerm)
	require.ErrorIs(t, err, htmltree.ErrNotFound)
	assert.Equal(t, []string{houseRoster}, h.fetcher.requested)
}

func TestScrapeRepsMalformedEmail(t *testing.T) {
	pages := housePages(t)
	pages[houseMember12] = `<html><body><span id="ContentPlaceHolder1_lblAddresses"><table>
<tr><td>a</td></tr><tr><td>b</td></tr><tr><td>c</td></tr>
<tr><td><a href="john.smith-at-house">john</a></td></tr>
</table></span></body></html>`
	h := newHarness(pages)

	_, err := h.scraper.ScrapeReps(context.Background(), legislator.Lower, "2014", testTerm)
	assert.ErrorIs(t, err, normalize.ErrData)
}
