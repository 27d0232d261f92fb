// seed_stock genera un script SQL con el stock inicial a partir de un CSV heredado
// (productId, quantity, location). Acepta UTF-8 o ISO-8859-1 y separador ',' o ';'.
//
// Uso: go run ./cmd/seed_stock [ruta/stock.csv] [salida.sql]
// Por defecto lee stock.csv y escribe internal/infrastructure/postgres/migrations/900_seed_stock.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/seed"
)

func main() {
	csvPath := "stock.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "900_seed_stock.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := seed.ReadStockCSV(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer stock: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := seed.WriteStockSQL(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos\n", outPath, len(rows))
}

// findModuleRoot sube directorios hasta encontrar go.mod; si no, usa el directorio actual.
func findModuleRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}
