package xlsx

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// TableWriter escribe una tabla fila a fila con el StreamWriter de excelize y la vuelca
// a out en Close. Las filas se acumulan en el archivo temporal de excelize, no en memoria.
type TableWriter struct {
	out  io.Writer
	file *excelize.File
	sw   *excelize.StreamWriter
	bold int
	row  int
}

// NewTableWriter abre un libro con una hoja llamada sheet.
func NewTableWriter(out io.Writer, sheet string) (*TableWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: stream: %w", err)
	}
	return &TableWriter{out: out, file: f, sw: sw, bold: bold}, nil
}

// WriteHeader primera fila en negrita con la fila congelada. Debe llamarse antes de WriteRow.
func (w *TableWriter) WriteHeader(headers []string) error {
	if w.row != 0 {
		return fmt.Errorf("xlsx: cabecera después de filas")
	}
	if len(headers) > 0 {
		if err := w.sw.SetColWidth(1, len(headers), 18); err != nil {
			return fmt.Errorf("xlsx: ancho columnas: %w", err)
		}
	}
	if err := w.sw.SetPanes(&excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("xlsx: panes: %w", err)
	}
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = excelize.Cell{StyleID: w.bold, Value: h}
	}
	return w.write(cells)
}

// WriteRow agrega una fila de texto.
func (w *TableWriter) WriteRow(values []string) error {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return w.write(cells)
}

func (w *TableWriter) write(cells []any) error {
	w.row++
	if err := w.sw.SetRow(cell(1, w.row), cells); err != nil {
		return fmt.Errorf("xlsx: fila %d: %w", w.row, err)
	}
	return nil
}

// Close cierra el stream, serializa el libro en out y libera los temporales.
func (w *TableWriter) Close() error {
	defer w.file.Close()
	if err := w.sw.Flush(); err != nil {
		return fmt.Errorf("xlsx: flush: %w", err)
	}
	if _, err := w.file.WriteTo(w.out); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}
