package generator

import (
	"fmt"

	"MarketForge/internal/csvfile"
	"MarketForge/internal/model"
)

// WriteCSV 按市场的列顺序写出记录
func WriteCSV(path string, v *Variant, records []*model.SyntheticRecord) error {
	w, err := csvfile.Create(path, v.Header())
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	for _, r := range records {
		if err := w.Write(v.Encode(r)); err != nil {
			w.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return w.Close()
}
