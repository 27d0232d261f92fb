package seed

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadStockCSV_ConCabeceraYUbicacion(t *testing.T) {
	in := "productId,quantity,location\n12,100,Bodega A\n7, 5 ,\n"
	rows, err := ReadStockCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, int64(12), rows[0].ProductID)
	assert.Equal(t, int64(100), rows[0].Quantity)
	require.NotNil(t, rows[0].Location)
	assert.Equal(t, "Bodega A", *rows[0].Location)
	assert.Nil(t, rows[1].Location)
	assert.Equal(t, int64(5), rows[1].Quantity)
}

func TestReadStockCSV_Latin1PuntoYComa(t *testing.T) {
	utf := "producto;cantidad;ubicación\n3;40;Almacén Norte\n"
	latin, err := charmap.ISO8859_1.NewEncoder().String(utf)
	require.NoError(t, err)

	rows, err := ReadStockCSV(strings.NewReader(latin))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Almacén Norte", *rows[0].Location)
}

func TestReadStockCSV_Errores(t *testing.T) {
	cases := map[string]string{
		"producto repetido": "1,10\n1,5\n",
		"cantidad no entera": "1,10\n2,x\n",
		"producto cero":      "0,10\n",
		"columnas faltantes": "1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadStockCSV(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestWriteStockSQL_EscapaComillas(t *testing.T) {
	loc := "O'Brien"
	rows, err := ReadStockCSV(strings.NewReader("5,3," + loc + "\n9,1\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteStockSQL(&buf, rows))
	out := buf.String()
	assert.Contains(t, out, "VALUES (5, 3, 'O''Brien')")
	assert.Contains(t, out, "VALUES (9, 1, NULL)")
	assert.Equal(t, 2, strings.Count(out, "ON CONFLICT (product_id) DO NOTHING;"))
}
