// Package ingestion reads the list of user identifiers the pipeline works on.
package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/user-news-etl/internal/types"
)

// DefaultColumn is the header of the identifier column in the input file
const DefaultColumn = "UserID"

// utf8BOM is stripped from the first header cell (spreadsheet exports add it)
const utf8BOM = "\ufeff"

// ReadIdentifiers reads the named column of a CSV file with a header row.
// Order and duplicates are preserved; blank cells are skipped.
func ReadIdentifiers(path, column string) ([]types.Identifier, error) {
	if column == "" {
		column = DefaultColumn
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &InputFormatError{
			Path:    path,
			Message: "failed to open file",
			Cause:   err,
		}
	}
	defer func() { _ = f.Close() }()

	return parseIdentifiers(f, path, column)
}

// parseIdentifiers does the CSV work for ReadIdentifiers; path is only used in errors
func parseIdentifiers(r io.Reader, path, column string) ([]types.Identifier, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated as long as the column exists
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &InputFormatError{Path: path, Message: "file is empty"}
	}
	if err != nil {
		return nil, &InputFormatError{
			Path:    path,
			Message: "failed to read header",
			Cause:   err,
		}
	}

	index := columnIndex(header, column)
	if index < 0 {
		return nil, &InputFormatError{
			Path:    path,
			Message: fmt.Sprintf("column %q not found in header %v", column, header),
		}
	}

	var ids []types.Identifier
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &InputFormatError{
				Path:    path,
				Message: fmt.Sprintf("failed to read line %d", line),
				Cause:   err,
			}
		}
		if index >= len(record) {
			continue
		}
		id := types.ParseIdentifier(record[index])
		if id.IsZero() {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// columnIndex finds the header cell equal to column, ignoring surrounding space
func columnIndex(header []string, column string) int {
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		if strings.TrimSpace(name) == column {
			return i
		}
	}
	return -1
}
