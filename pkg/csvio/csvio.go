// Package csvio lee y escribe las planillas CSV intercambiadas con Excel:
// separador ";", todos los campos entre comillas y filas terminadas en CRLF.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Column columna de una planilla: Key es el campo interno y Label el encabezado visible.
type Column struct {
	Key   string
	Label string
}

// Write escribe el encabezado y las filas. Cada fila es un mapa Key → valor; las claves
// ausentes se escriben vacías.
func Write(w io.Writer, columns []Column, rows []map[string]string) error {
	bw := bufio.NewWriter(w)
	labels := make([]string, len(columns))
	for i, c := range columns {
		labels[i] = c.Label
	}
	if err := writeLine(bw, labels); err != nil {
		return err
	}
	values := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			values[i] = row[c.Key]
		}
		if err := writeLine(bw, values); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(';'); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

// Row fila leída: valores por Key más el número de línea (1 = encabezado).
type Row struct {
	Line   int
	Values map[string]string
}

// Read interpreta una planilla. El encabezado se compara con los Label de columns sin
// distinguir mayúsculas ni espacios; las columnas sin correspondencia se ignoran y las
// filas vacías se descartan. Acepta ";" o "," (se detecta en el encabezado) y entradas
// en UTF-8 (con o sin BOM) o Windows-1252.
func Read(r io.Reader, columns []Column) ([]Row, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csv: leer: %w", err)
	}
	text, err := toUTF8(raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = sniffDelimiter(text)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: encabezado: %w", err)
	}
	index := make(map[int]string)
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, c := range columns {
			if strings.EqualFold(h, c.Label) {
				index[i] = c.Key
				break
			}
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		values := make(map[string]string, len(index))
		for i, key := range index {
			if i < len(rec) {
				values[key] = strings.TrimSpace(rec[i])
			} else {
				values[key] = ""
			}
		}
		rows = append(rows, Row{Line: line, Values: values})
	}
	return rows, nil
}

func toUTF8(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("csv: codificación no soportada: %w", err)
	}
	return string(decoded), nil
}

func sniffDelimiter(text string) rune {
	first := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		first = text[:i]
	}
	if strings.Contains(first, ";") {
		return ';'
	}
	return ','
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
