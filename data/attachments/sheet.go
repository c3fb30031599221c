package attachments

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"attendance-app/data/models"
)

var (
	ErrEmptySheet   = errors.New("csv file has no header row")
	ErrFileTooLarge = errors.New("file exceeds the upload limit")
)

// Sheet is a parsed CSV attendance sheet together with the file it came from.
type Sheet struct {
	Columns []string
	Rows    []map[string]string
	File    *models.Attachment
}

// ReadSheet reads a whole CSV file, using its first row as column names.
// The delimiter is ',' unless the header line has more ';' than ','.
func ReadSheet(name, contentType string, r io.Reader, maxBytes int64) (*Sheet, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrFileTooLarge
	}

	body := bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(body))
	reader.Comma = detectDelimiter(body)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptySheet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", name, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record from %s: %w", name, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	if contentType == "" {
		contentType = "text/csv"
	}

	return &Sheet{
		Columns: columns,
		Rows:    rows,
		File: &models.Attachment{
			Name:        name,
			ContentType: contentType,
			Size:        int64(len(data)),
			Data:        data,
		},
	}, nil
}

func detectDelimiter(body []byte) rune {
	firstLine, _, _ := bytes.Cut(body, []byte("\n"))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		return ';'
	}
	return ','
}
