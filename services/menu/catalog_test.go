package menu

import (
	"os"
	"path/filepath"
	"testing"

	"tableorder/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() models.MenuDocument {
	return models.MenuDocument{
		Items: []models.MenuItem{
			{ID: "p1", Name: "Paneer Tikka Pizza", Price: 349, Aliases: []string{" PT Pizza ", "paneer tikka pizza"}},
			{ID: "c1", Name: "Cold Coffee", Price: 149},
		},
	}
}

func TestNewCatalog_ResolvesNamesAndAliases(t *testing.T) {
	c, err := NewCatalog(testDocument())
	require.NoError(t, err)

	item, ok := c.Lookup("  paneer TIKKA   pizza ")
	require.True(t, ok)
	assert.Equal(t, "p1", item.ID)

	item, ok = c.Lookup("pt pizza")
	require.True(t, ok)
	assert.Equal(t, "p1", item.ID)

	_, ok = c.Lookup("margherita")
	assert.False(t, ok)

	item, ok = c.GetItem("c1")
	require.True(t, ok)
	assert.Equal(t, "Cold Coffee", item.Name)

	// The alias equal to the name is not indexed twice.
	assert.Len(t, c.Terms(), 3)
	assert.Equal(t, []string{"pt pizza"}, c.ListItems()[0].Aliases)
}

func TestNewCatalog_RejectsAmbiguousTerms(t *testing.T) {
	doc := testDocument()
	doc.Items[1].Aliases = []string{"PT pizza"}

	_, err := NewCatalog(doc)
	require.Error(t, err)

	var catErr *CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, "duplicateTerm", catErr.Code)
}

func TestNewCatalog_RejectsDuplicateIDs(t *testing.T) {
	doc := testDocument()
	doc.Items[1].ID = "p1"

	_, err := NewCatalog(doc)
	require.Error(t, err)
}

func TestNewCatalog_GenericHeads(t *testing.T) {
	c, err := NewCatalog(testDocument())
	require.NoError(t, err)
	assert.Equal(t, DefaultGenericHeads, c.GenericHeads())

	doc := testDocument()
	doc.GenericHeads = []string{" Naan ", ""}
	c, err = NewCatalog(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"naan"}, c.GenericHeads())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	body := `{"items":[{"id":"d1","name":"Masala Dosa","price":120,"aliases":["dosa masala"]}],"generic_heads":["dosa"]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)

	item, ok := c.Lookup("dosa masala")
	require.True(t, ok)
	assert.Equal(t, "d1", item.ID)
	assert.Equal(t, []string{"Masala Dosa"}, Names(c))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadFile_ShippedMenu(t *testing.T) {
	c, err := LoadFile(filepath.Join("..", "..", "data", "menu.json"))
	require.NoError(t, err)

	assert.Len(t, c.ListItems(), 20)
	assert.Equal(t, DefaultGenericHeads, c.GenericHeads())

	item, ok := c.Lookup("Chai")
	require.True(t, ok)
	assert.Equal(t, "Masala Tea", item.Name)
}
