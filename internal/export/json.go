package export

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/san-kum/diskrot/internal/storage"
)

type ExportData struct {
	Run     *storage.RunMetadata `json:"run"`
	Columns []string             `json:"columns"`
	Rows    [][]*float64         `json:"rows"`
}

// NewExportData pairs run metadata with its table. Non-finite cells become
// null since JSON has no NaN.
func NewExportData(meta *storage.RunMetadata, table *storage.Table) *ExportData {
	data := &ExportData{
		Run:     meta,
		Columns: table.Columns,
		Rows:    make([][]*float64, len(table.Rows)),
	}
	for i, row := range table.Rows {
		out := make([]*float64, len(row))
		for j := range row {
			v := row[j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			out[j] = &v
		}
		data.Rows[i] = out
	}
	return data
}

func WriteJSON(w io.Writer, meta *storage.RunMetadata, table *storage.Table) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, table))
}

func ExportJSON(path string, meta *storage.RunMetadata, table *storage.Table) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeInto(file, &err)

	return WriteJSON(file, meta, table)
}

func closeInto(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
