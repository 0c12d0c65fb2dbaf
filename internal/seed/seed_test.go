package seed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInventoryCSVSemicolon(t *testing.T) {
	input := "\ufeffArtikelnummer;Bezeichnung;Kategorie;Bestand;Mindestbestand;Einheit;Lieferant;Letzte Bestellung;Bemerkungen;Ablaufdatum\n" +
		"A-100;Carprofen 50mg;Schmerzmittel;12;20;Tabletten;Vetoquinol;01.02.2025;;30.04.2025\n" +
		"A-101;Kochsalz 0,9%;Infusion;3;0;Beutel;;;Kühlschrank;\n"

	items, err := ParseInventoryCSV(strings.NewReader(input), 7)
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, int64(7), first.OwnerID)
	assert.Equal(t, "A-100", first.ArticleNumber)
	assert.Equal(t, int32(12), first.Stock)
	require.NotNil(t, first.MinStock)
	assert.Equal(t, int32(20), *first.MinStock)
	require.NotNil(t, first.Supplier)
	assert.Equal(t, "Vetoquinol", *first.Supplier)
	require.NotNil(t, first.ExpiresAt)
	assert.True(t, first.ExpiresAt.Equal(time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, first.Remarks)

	second := items[1]
	assert.Equal(t, "Kochsalz 0,9%", second.Name)
	assert.Nil(t, second.MinStock, "最低库存为 0 视为未设置")
	assert.Nil(t, second.Supplier)
	assert.Nil(t, second.LastOrderedAt)
	require.NotNil(t, second.Remarks)
	assert.Equal(t, "Kühlschrank", *second.Remarks)
}

func TestParseInventoryCSVComma(t *testing.T) {
	input := "Artikelnummer,Bezeichnung,Kategorie,Bestand,Einheit\n" +
		"B-1,Amoxicillin,Antibiotika,5,Flaschen\n" +
		"\n"

	items, err := ParseInventoryCSV(strings.NewReader(input), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Antibiotika", items[0].Category)
	assert.Nil(t, items[0].ExpiresAt)
}

func TestParseInventoryCSVMissingColumn(t *testing.T) {
	_, err := ParseInventoryCSV(strings.NewReader("Artikelnummer,Bezeichnung,Bestand,Einheit\n"), 1)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestParseInventoryCSVBadRows(t *testing.T) {
	header := "Artikelnummer,Bezeichnung,Kategorie,Bestand,Einheit,Ablaufdatum\n"

	cases := map[string]string{
		"negative stock": "C-1,X,Y,-1,Stk,\n",
		"text stock":     "C-1,X,Y,viele,Stk,\n",
		"empty name":     "C-1,,Y,1,Stk,\n",
		"iso date":       "C-1,X,Y,1,Stk,2025-04-30\n",
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseInventoryCSV(strings.NewReader(header+row), 1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "第 2 行")
		})
	}
}
