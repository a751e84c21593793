// Package modelio reads and writes structural models as CSV files.
// Points and elements live in separate files so they can be edited in
// a spreadsheet and re-imported.
package modelio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/p-astudillo/nifes-strucs/pkg/geometry"
	"github.com/p-astudillo/nifes-strucs/pkg/model"
)

// PointRecord is one row of a points CSV file. The ID is the id used
// in the source file, not necessarily the id assigned on import.
type PointRecord struct {
	ID       int64
	Position geometry.Vector3
}

// ElementRecord is one row of an elements CSV file. Start and End
// reference point ids from the same export.
type ElementRecord struct {
	ID    int64
	Start int64
	End   int64
}

// ReadPoints parses a points CSV file with columns id, x, y, z.
// A header row is detected and skipped. Rows with missing or
// non-numeric fields are rejected with the line number.
func ReadPoints(r io.Reader) ([]PointRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var records []PointRecord
	line := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line++

		if line == 1 && isHeader(row) {
			continue
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("line %d: expected 4 columns, got %d", line, len(row))
		}

		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid id %q", line, row[0])
		}

		var coords [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid coordinate %q", line, row[i+1])
			}
			coords[i] = v
		}

		records = append(records, PointRecord{
			ID:       id,
			Position: geometry.NewVector3(coords[0], coords[1], coords[2]),
		})
	}

	return records, nil
}

// ReadElements parses an elements CSV file with columns id, start, end.
func ReadElements(r io.Reader) ([]ElementRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var records []ElementRecord
	line := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line++

		if line == 1 && isHeader(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 columns, got %d", line, len(row))
		}

		var fields [3]int64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseInt(row[i], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid value %q", line, row[i])
			}
			fields[i] = v
		}

		records = append(records, ElementRecord{ID: fields[0], Start: fields[1], End: fields[2]})
	}

	return records, nil
}

// isHeader reports whether the first row looks like column names
// rather than data.
func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(row[0], 64)
	return err != nil
}

// WritePoints writes points as CSV with a header row.
func WritePoints(w io.Writer, points []model.Point) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"id", "x", "y", "z"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, p := range points {
		row := []string{
			strconv.FormatInt(int64(p.ID), 10),
			formatCoord(p.Position.X),
			formatCoord(p.Position.Y),
			formatCoord(p.Position.Z),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write point %d: %w", p.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteElements writes elements as CSV with a header row.
func WriteElements(w io.Writer, elements []model.Element) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"id", "start", "end"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, e := range elements {
		row := []string{
			strconv.FormatInt(int64(e.ID), 10),
			strconv.FormatInt(int64(e.StartPointID), 10),
			strconv.FormatInt(int64(e.EndPointID), 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write element %d: %w", e.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Import loads point and element CSV files into a store. File ids are
// remapped to the ids assigned by the store; elements referencing
// unknown point ids are rejected. Returns the number of points and
// elements created.
func Import(ctx context.Context, mutator model.Mutator, pointsPath, elementsPath string) (int, int, error) {
	pointRecords, err := readPointsFile(pointsPath)
	if err != nil {
		return 0, 0, err
	}

	var elementRecords []ElementRecord
	if elementsPath != "" {
		elementRecords, err = readElementsFile(elementsPath)
		if err != nil {
			return 0, 0, err
		}
	}

	idMap := make(map[int64]model.PointID, len(pointRecords))
	for _, rec := range pointRecords {
		if _, ok := idMap[rec.ID]; ok {
			return 0, 0, fmt.Errorf("duplicate point id %d in %s", rec.ID, pointsPath)
		}
		created, err := mutator.CreatePoint(ctx, rec.Position)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to create point %d: %w", rec.ID, err)
		}
		idMap[rec.ID] = created
	}

	createdElements := 0
	for _, rec := range elementRecords {
		start, ok := idMap[rec.Start]
		if !ok {
			return len(idMap), createdElements, fmt.Errorf("element %d references unknown point %d", rec.ID, rec.Start)
		}
		end, ok := idMap[rec.End]
		if !ok {
			return len(idMap), createdElements, fmt.Errorf("element %d references unknown point %d", rec.ID, rec.End)
		}
		if _, err := mutator.CreateElement(ctx, start, end); err != nil {
			return len(idMap), createdElements, fmt.Errorf("failed to create element %d: %w", rec.ID, err)
		}
		createdElements++
	}

	return len(idMap), createdElements, nil
}

// Export writes the store contents to point and element CSV files.
func Export(ctx context.Context, reader model.Reader, pointsPath, elementsPath string) error {
	points, err := reader.ListPoints(ctx)
	if err != nil {
		return fmt.Errorf("failed to list points: %w", err)
	}
	elements, err := reader.ListElements(ctx)
	if err != nil {
		return fmt.Errorf("failed to list elements: %w", err)
	}

	if err := writeFile(pointsPath, func(w io.Writer) error {
		return WritePoints(w, points)
	}); err != nil {
		return err
	}

	return writeFile(elementsPath, func(w io.Writer) error {
		return WriteElements(w, elements)
	})
}

func readPointsFile(path string) ([]PointRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return ReadPoints(file)
}

func readElementsFile(path string) ([]ElementRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return ReadElements(file)
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
