package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var catalogHeader = []string{"warehouse", "product", "brand", "unit", "purchase_cost", "quantity"}

type catalogRow struct {
	Warehouse    string
	Product      string
	Brand        string
	Unit         string
	PurchaseCost decimal.Decimal
	Quantity     int64
}

// decodeInput devuelve un reader UTF-8. latin1 fuerza ISO-8859-1; si no, se detecta por bytes inválidos.
func decodeInput(raw []byte, latin1 bool) io.Reader {
	if latin1 || !utf8.Valid(raw) {
		return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
	}
	return bytes.NewReader(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")))
}

// parseCatalog lee el CSV warehouse,product,brand,unit,purchase_cost,quantity (con encabezado).
// Acepta "," o ";" como separador. Filas repetidas (bodega, producto, marca) suman cantidad.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(256)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	cr := csv.NewReader(br)
	if line, _, _ := strings.Cut(string(first), "\n"); strings.Count(line, ";") > strings.Count(line, ",") {
		cr.Comma = ';'
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	for i, want := range catalogHeader {
		if i >= len(header) || !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("encabezado esperado %s", strings.Join(catalogHeader, ","))
		}
	}

	index := map[string]int{}
	var rows []catalogRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		key := row.Warehouse + "\x00" + row.Product + "\x00" + row.Brand
		if i, ok := index[key]; ok {
			rows[i].Quantity += row.Quantity
			continue
		}
		index[key] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (catalogRow, error) {
	if len(rec) < len(catalogHeader) {
		return catalogRow{}, fmt.Errorf("se esperaban %d columnas, hay %d", len(catalogHeader), len(rec))
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	row := catalogRow{Warehouse: rec[0], Product: rec[1], Brand: rec[2], Unit: rec[3]}
	switch {
	case row.Warehouse == "":
		return row, fmt.Errorf("warehouse vacío")
	case row.Product == "":
		return row, fmt.Errorf("product vacío")
	case row.Brand == "":
		return row, fmt.Errorf("brand vacío")
	}
	cost := strings.ReplaceAll(rec[4], ",", ".")
	if cost == "" {
		cost = "0"
	}
	pc, err := decimal.NewFromString(cost)
	if err != nil || pc.IsNegative() {
		return row, fmt.Errorf("purchase_cost inválido: %q", rec[4])
	}
	row.PurchaseCost = pc.Round(2)
	qty, err := strconv.ParseInt(rec[5], 10, 64)
	if err != nil || qty < 0 {
		return row, fmt.Errorf("quantity inválido: %q", rec[5])
	}
	row.Quantity = qty
	return row, nil
}

// writeSeed escribe el SQL idempotente: bodegas, productos, filas de ledger (cantidad absoluta)
// y recálculo de products.available_qty como suma del ledger.
func writeSeed(w io.Writer, rows []catalogRow) error {
	bw := bufio.NewWriter(w)

	warehouses := map[string]bool{}
	type productKey struct{ name, brand string }
	products := map[productKey]catalogRow{}
	for _, r := range rows {
		warehouses[r.Warehouse] = true
		products[productKey{r.Product, r.Brand}] = r
	}
	names := make([]string, 0, len(warehouses))
	for n := range warehouses {
		names = append(names, n)
	}
	sort.Strings(names)
	keys := make([]productKey, 0, len(products))
	for k := range products {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].brand < keys[j].brand
	})

	bw.WriteString("-- Catálogo inicial: bodegas, productos y stock por bodega\n")
	bw.WriteString("-- Generado por cmd/seed_catalog\n\n")
	bw.WriteString("BEGIN;\n\n")

	if len(names) > 0 {
		bw.WriteString("-- 1. Bodegas\n")
		bw.WriteString("INSERT INTO warehouses (name) VALUES\n")
		for i, n := range names {
			fmt.Fprintf(bw, "  ('%s')%s\n", escapeSQL(n), sep(i, len(names)))
		}
		bw.WriteString("ON CONFLICT (name) DO NOTHING;\n\n")
	}

	if len(keys) > 0 {
		bw.WriteString("-- 2. Productos\n")
		bw.WriteString("INSERT INTO products (name, brand, unit, purchase_cost) VALUES\n")
		for i, k := range keys {
			p := products[k]
			fmt.Fprintf(bw, "  ('%s', '%s', '%s', %s)%s\n",
				escapeSQL(p.Product), escapeSQL(p.Brand), escapeSQL(p.Unit), p.PurchaseCost.StringFixed(2), sep(i, len(keys)))
		}
		bw.WriteString("ON CONFLICT (name, brand) DO UPDATE SET unit = EXCLUDED.unit, purchase_cost = EXCLUDED.purchase_cost, updated_at = NOW();\n\n")
	}

	if len(rows) > 0 {
		bw.WriteString("-- 3. Stock por bodega\n")
		for _, r := range rows {
			fmt.Fprintf(bw, "INSERT INTO warehouse_products (warehouse_id, product_id, quantity)\n")
			fmt.Fprintf(bw, "SELECT w.id, p.id, %d FROM warehouses w, products p WHERE w.name = '%s' AND p.name = '%s' AND p.brand = '%s'\n",
				r.Quantity, escapeSQL(r.Warehouse), escapeSQL(r.Product), escapeSQL(r.Brand))
			bw.WriteString("ON CONFLICT (warehouse_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW();\n")
		}
		bw.WriteString("\n")
	}

	bw.WriteString("-- 4. available_qty = suma del stock por bodega\n")
	bw.WriteString("UPDATE products p SET available_qty = COALESCE((SELECT SUM(wp.quantity) FROM warehouse_products wp WHERE wp.product_id = p.id), 0), updated_at = NOW();\n\n")
	bw.WriteString("COMMIT;\n")
	return bw.Flush()
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
