package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"meridian-data/ceres/pkg/quality/compiler"
)

// loadRecords reads a dataset from a JSON array file or an NDJSON file.
// The path "-" reads standard input. Format detection is by the first
// non-whitespace byte: '[' means one JSON array, anything else means one
// JSON object per line.
func loadRecords(path string) ([]compiler.Record, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %q: %w", path, err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var records []compiler.Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to parse JSON array dataset %q: %w", path, err)
		}
		return records, nil
	}

	var records []compiler.Record
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	for {
		var rec compiler.Record
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to parse NDJSON dataset %q at record %d: %w",
				path, len(records)+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
