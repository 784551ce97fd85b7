// photosync ⸻ internal/descriptor/csv.go
// tabular scan imports and the CSV→JSON converter

package descriptor

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// expected header columns, any order
const (
	colName    = "name"
	colTakenAt = "taken_at"
	colCaption = "caption"
)

func (l *Loader) loadCSV(path string) (*Batch, error) {
	if l.DataRoot == "" {
		return nil, fmt.Errorf("data volume not configured: CSV imports compose paths under it")
	}

	rows, index, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	batch := &Batch{}
	for i, row := range rows {
		for _, col := range []string{colName, colTakenAt, colCaption} {
			if index[col] >= len(row) {
				return nil, &FormatError{Index: i, Field: col}
			}
		}

		name := row[index[colName]]
		takenAt, err := l.Norm.FromCSVDate(row[index[colTakenAt]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		batch.Photos = append(batch.Photos, Record{
			Path:    fmt.Sprintf("%s/%s.jpg", l.DataRoot, name),
			Caption: row[index[colCaption]],
			TakenAt: takenAt,
		})
	}

	return batch, nil
}

// ConvertCSV turns a tabular import into a social-shaped JSON descriptor
// next to the source file and returns the new filename. The output reloads
// through Load like any other descriptor.
func (l *Loader) ConvertCSV(path string) (string, error) {
	batch, err := l.loadCSV(path)
	if err != nil {
		return "", err
	}

	type outRecord struct {
		Caption string `json:"caption"`
		TakenAt string `json:"taken_at"`
		Path    string `json:"path"`
	}
	out := struct {
		Photos []outRecord `json:"photos"`
	}{Photos: []outRecord{}}

	for _, rec := range batch.Photos {
		out.Photos = append(out.Photos, outRecord{
			Caption: rec.Caption,
			TakenAt: rec.TakenAt,
			Path:    rec.Path,
		})
	}

	encoded, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode descriptor: %w", err)
	}

	jsonPath := strings.TrimSuffix(path, ".csv") + ".json"
	if err := os.WriteFile(jsonPath, encoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write descriptor: %w", err)
	}

	return jsonPath, nil
}

// reads all rows and maps the required header columns to indices
func readCSV(path string) ([][]string, map[string]int, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer fh.Close()

	reader := csv.NewReader(fh)
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("CSV file is empty: %s", path)
	}

	index := make(map[string]int)
	for i, col := range all[0] {
		index[strings.TrimSpace(strings.ToLower(col))] = i
	}
	for _, col := range []string{colName, colTakenAt, colCaption} {
		if _, ok := index[col]; !ok {
			return nil, nil, &FormatError{Index: 0, Field: col}
		}
	}

	return all[1:], index, nil
}
