// seed_catalog genera un script SQL para poblar bodegas, productos y stock por bodega
// a partir de un CSV (warehouse,product,brand,unit,purchase_cost,quantity).
//
// Uso: go run ./cmd/seed_catalog [-latin1] [-out archivo.sql] catalogo.csv
// Sin -out escribe en stdout. El CSV puede venir en UTF-8 o ISO-8859-1.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	latin1 := flag.Bool("latin1", false, "forzar lectura ISO-8859-1")
	outPath := flag.String("out", "", "archivo SQL de salida (stdout por defecto)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog [-latin1] [-out archivo.sql] catalogo.csv")
		os.Exit(2)
	}
	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	rows, err := parseCatalog(decodeInput(raw, *latin1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := writeSeed(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	if *outPath != "" {
		fmt.Printf("Generado %s: %d filas de stock\n", *outPath, len(rows))
	}
}
