package export

import (
	"encoding/csv"
	"io"

	"cloudpico-analyzer/internal/modules/weather/store"
)

// WriteCSV writes the augmented export for every record in s.
func WriteCSV(path string, s *store.Store) error {
	return writeFile(path, func(w io.Writer) error {
		return EncodeCSV(w, s)
	})
}

// EncodeCSV writes the header and one row per record to w.
func EncodeCSV(w io.Writer, s *store.Store) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i := 0; i < s.Len(); i++ {
		if err := cw.Write(Row(s.At(i))); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
