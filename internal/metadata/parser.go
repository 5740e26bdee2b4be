// Package metadata parses the tabular metadata describing which model each
// image belongs to. The input is CSV with a header row; the four required
// columns are matched by name so extra columns are tolerated.
package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"curator/internal/services"
)

type columnIndex struct {
	filename  int
	baseModel int
	modelName int
	modelType int
	width     int
}

// Parser streams records from a metadata source. Rows whose field count does
// not match the header, or whose filename is empty, are skipped and counted
// rather than failing the run.
type Parser struct {
	reader    *csv.Reader
	columns   columnIndex
	malformed int
}

// NewParser reads and validates the header row. A missing required column is
// an input error; nothing else about the header is fatal.
func NewParser(r io.Reader) (*Parser, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, services.Wrap(services.ErrInput, "metadata", "read header", "metadata source is empty", nil)
		}
		return nil, services.Wrap(services.ErrInput, "metadata", "read header", "unreadable header row", err)
	}

	columns, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	return &Parser{reader: cr, columns: columns}, nil
}

// Open opens a metadata file and wraps it in a Parser. The returned closer
// must be released by the caller.
func Open(path string) (*Parser, io.Closer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrInput, "metadata", "open", fmt.Sprintf("cannot open metadata file %s", path), err)
	}
	parser, err := NewParser(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return parser, file, nil
}

// Next returns the next well-formed record, skipping and counting malformed
// rows. It returns io.EOF when the input is exhausted.
func (p *Parser) Next() (Record, error) {
	for {
		row, err := p.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Record{}, io.EOF
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				p.malformed++
				continue
			}
			return Record{}, services.Wrap(services.ErrInput, "metadata", "read row", "unreadable metadata row", err)
		}
		if len(row) != p.columns.width {
			p.malformed++
			continue
		}

		filename := strings.TrimSpace(row[p.columns.filename])
		if filename == "" {
			p.malformed++
			continue
		}

		return Record{
			Filename:  filename,
			BaseModel: cleanLabel(row[p.columns.baseModel]),
			ModelName: cleanLabel(row[p.columns.modelName]),
			ModelType: cleanLabel(row[p.columns.modelType]),
		}, nil
	}
}

// ReadAll drains the parser into a slice.
func (p *Parser) ReadAll() ([]Record, error) {
	var records []Record
	for {
		record, err := p.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// Malformed returns the number of rows skipped so far.
func (p *Parser) Malformed() int {
	return p.malformed
}

func resolveColumns(header []string) (columnIndex, error) {
	idx := columnIndex{filename: -1, baseModel: -1, modelName: -1, modelType: -1, width: len(header)}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "filename":
			idx.filename = i
		case "base_model":
			idx.baseModel = i
		case "model_name":
			idx.modelName = i
		case "model_type":
			idx.modelType = i
		}
	}

	var missing []string
	if idx.filename < 0 {
		missing = append(missing, "filename")
	}
	if idx.baseModel < 0 {
		missing = append(missing, "base_model")
	}
	if idx.modelName < 0 {
		missing = append(missing, "model_name")
	}
	if idx.modelType < 0 {
		missing = append(missing, "model_type")
	}
	if len(missing) > 0 {
		return columnIndex{}, services.Wrap(
			services.ErrInput,
			"metadata",
			"parse header",
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
			nil,
		)
	}
	return idx, nil
}
