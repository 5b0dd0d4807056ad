package htmltree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><body>
<div id="container"><div><img src="/photos/s01.jpg"></div></div>
<table id="grid">
	<tr><th>Name</th><th>District</th></tr>
	<tr><td><a href="?district=1">Smith</a></td><td> 001 </td></tr>
	<tr><td><a href="?district=2">Jones</a></td><td>2</td></tr>
</table>
<ul id="list"><li><a>Budget</a></li><li><a>Rules</a></li></ul>
</body></html>`

func mustParse(t *testing.T, raw string) Node {
	t.Helper()
	doc, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	return doc
}

func TestQueryAllInsertsTbody(t *testing.T) {
	doc := mustParse(t, samplePage)

	// HTML5-парсер вставляет tbody, прямой путь table/tr ничего не находит
	direct, err := doc.QueryAll(`//table[@id='grid']/tr`)
	require.NoError(t, err)
	assert.Empty(t, direct)

	rows, err := doc.QueryAll(`//table[@id='grid']/tbody/tr`)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	cells, err := rows[1].QueryAll("td")
	require.NoError(t, err)
	require.Len(t, cells, 2)
	assert.Equal(t, "Smith", cells[0].Text())
	assert.Equal(t, " 001 ", cells[1].Text())
}

func TestFirstAndRequireAttr(t *testing.T) {
	doc := mustParse(t, samplePage)

	img, err := First(doc, `//div[@id='container']/div[1]/img`)
	require.NoError(t, err)
	src, err := RequireAttr(img, "src")
	require.NoError(t, err)
	assert.Equal(t, "/photos/s01.jpg", src)

	_, err = RequireAttr(img, "alt")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = First(doc, `//div[@id='missing']/img`)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFind(t *testing.T) {
	doc := mustParse(t, samplePage)

	items := doc.Find("#list > li > a")
	require.Len(t, items, 2)
	assert.Equal(t, "Budget", items[0].Text())

	assert.Empty(t, doc.Find("#nothing"))
}

func TestFirstText(t *testing.T) {
	doc := mustParse(t, samplePage)

	text, err := FirstText(doc, `//table[@id='grid']/tbody/tr[2]/td[2]`)
	require.NoError(t, err)
	assert.Equal(t, "001", text)
}

func TestInvalidXPath(t *testing.T) {
	doc := mustParse(t, samplePage)

	_, err := doc.QueryAll(`//table[`)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestAttrs(t *testing.T) {
	doc := mustParse(t, samplePage)

	links, err := doc.QueryAll(`//a`)
	require.NoError(t, err)
	assert.Equal(t, []string{"?district=1", "?district=2"}, Attrs(links, "href"))
}

func TestNth(t *testing.T) {
	_, err := Nth(nil, 0, "td")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "td[0]")
}
