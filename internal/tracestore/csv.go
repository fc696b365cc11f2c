package tracestore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/roimine/internal/roi/ndgrid"
	"github.com/banshee-data/roimine/internal/roi/space"
)

// ErrCSVFormat indicates a trace CSV that cannot be parsed.
var ErrCSVFormat = errors.New("tracestore: malformed trace csv")

// ReadCSV parses rows of the form entity_id,c0,c1[,c2...] into traces. Rows
// for one entity are appended in file order. A first row whose coordinates
// are not numeric is treated as a header. Every row must carry the same
// number of coordinates.
func ReadCSV(r io.Reader) (space.Traces, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	traces := space.Traces{}
	dims := -1
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCSVFormat, err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d has %d fields, need an id and at least one coordinate",
				ErrCSVFormat, line, len(record))
		}

		point := make([]float64, len(record)-1)
		var parseErr error
		for i, field := range record[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				parseErr = err
				break
			}
			point[i] = v
		}
		if parseErr != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("%w: line %d: %v", ErrCSVFormat, line, parseErr)
		}

		if dims < 0 {
			dims = len(point)
		} else if len(point) != dims {
			return nil, fmt.Errorf("%w: line %d has %d coordinates, want %d",
				ErrCSVFormat, line, len(point), dims)
		}
		id := strings.TrimSpace(record[0])
		traces[id] = append(traces[id], point)
	}
	if len(traces) == 0 {
		return nil, space.ErrNoTraces
	}
	return traces, nil
}

// WriteCSV writes traces in the layout ReadCSV accepts, with a header and
// entities in ascending id order.
func WriteCSV(w io.Writer, traces space.Traces) error {
	dims := traces.Dims()
	if dims <= 0 {
		return space.ErrNoTraces
	}
	writer := csv.NewWriter(w)
	header := []string{"entity_id"}
	for i := 0; i < dims; i++ {
		header = append(header, fmt.Sprintf("c%d", i))
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, id := range traces.EntityIDs() {
		for _, p := range traces[id] {
			if len(p) != dims {
				return fmt.Errorf("trace %q: %w", id, ndgrid.ErrDimensionMismatch)
			}
			row := make([]string, 0, dims+1)
			row = append(row, id)
			for _, v := range p {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}
