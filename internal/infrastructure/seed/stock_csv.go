// Package seed lee el stock inicial desde CSV heredados (UTF-8 o ISO-8859-1)
// y lo convierte en filas de entity.Stock o en INSERTs SQL.
package seed

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Columnas: productId, quantity, location (opcional). La primera fila puede ser cabecera.
const (
	colProduct = iota
	colQuantity
	colLocation
)

// decodeReader devuelve un reader UTF-8; si el contenido no es UTF-8 válido se asume ISO-8859-1
// (exportaciones de hojas de cálculo en Windows).
func decodeReader(data []byte) io.Reader {
	if utf8.Valid(data) {
		return bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	}
	return transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder())
}

// ReadStockCSV parsea el CSV. Separador ',' o ';' (detectado en la primera línea).
// Un producto repetido es un error: el stock tiene una fila por producto.
func ReadStockCSV(r io.Reader) ([]entity.Stock, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	cr := csv.NewReader(decodeReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if first, _, _ := strings.Cut(string(data), "\n"); strings.Count(first, ";") > strings.Count(first, ",") {
		cr.Comma = ';'
	}

	var rows []entity.Stock
	seen := make(map[int64]int)
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV: %w", err)
		}
		line++
		if len(rec) < 2 {
			return nil, fmt.Errorf("CSV línea %d: se esperan al menos productId y quantity", line)
		}
		pid, errP := strconv.ParseInt(strings.TrimSpace(rec[colProduct]), 10, 64)
		qty, errQ := strconv.ParseInt(strings.TrimSpace(rec[colQuantity]), 10, 64)
		if errP != nil || errQ != nil {
			if line == 1 {
				continue // cabecera
			}
			return nil, fmt.Errorf("CSV línea %d: productId y quantity deben ser enteros", line)
		}
		if pid <= 0 {
			return nil, fmt.Errorf("CSV línea %d: productId debe ser positivo", line)
		}
		if prev, dup := seen[pid]; dup {
			return nil, fmt.Errorf("CSV línea %d: producto %d repetido (línea %d)", line, pid, prev)
		}
		seen[pid] = line
		st := entity.Stock{ID: int64(len(rows) + 1), ProductID: pid, Quantity: qty}
		if len(rec) > colLocation {
			if loc := strings.TrimSpace(rec[colLocation]); loc != "" {
				st.Location = &loc
			}
		}
		rows = append(rows, st)
	}
	return rows, nil
}

// WriteStockSQL escribe INSERTs idempotentes para la tabla stock (PostgreSQL y SQLite).
// El id lo asigna la base de datos en el orden del CSV.
func WriteStockSQL(w io.Writer, rows []entity.Stock) error {
	if _, err := fmt.Fprintf(w, "-- Stock inicial (%d productos)\n", len(rows)); err != nil {
		return err
	}
	for _, s := range rows {
		loc := "NULL"
		if s.Location != nil {
			loc = "'" + escapeSQL(*s.Location) + "'"
		}
		if _, err := fmt.Fprintf(w,
			"INSERT INTO stock (product_id, quantity, location) VALUES (%d, %d, %s)\nON CONFLICT (product_id) DO NOTHING;\n",
			s.ProductID, s.Quantity, loc,
		); err != nil {
			return err
		}
	}
	return nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
