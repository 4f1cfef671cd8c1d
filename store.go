package shopfeed

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/shopfeed/shopfeed/domain/model"
)

// AppendDataset appends the dataset's rows to the delimited text file
// at path, creating the file and writing the column header if the
// destination is empty. Pre-existing content is never truncated or
// reordered: running the pipeline twice against the same destination
// yields the union of both runs' rows. This deliberately differs from
// the remote sync's replace semantics.
func AppendDataset(dataset *Dataset, path string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrDestinationUnwritable, path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrDestinationUnwritable, path, err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(dataset.Header()); err != nil {
			return fmt.Errorf("%w: write header to %s: %w", ErrDestinationUnwritable, path, err)
		}
	}
	for _, record := range dataset.Records() {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("%w: write record to %s: %w", ErrDestinationUnwritable, path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %w", ErrDestinationUnwritable, path, err)
	}
	return nil
}

// WriteArchive writes the dataset as a complete file (header plus all
// rows) at path, optionally compressed. Unlike AppendDataset this
// replaces any existing file: archives are per-run exports, not the
// growing history.
func WriteArchive(dataset *Dataset, path string, compression CompressionType) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrDestinationUnwritable, path, err)
	}
	defer file.Close()

	writer, closeCompression, err := newCompressionWriter(file, compression)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDestinationUnwritable, path, err)
	}

	csvWriter := csv.NewWriter(writer)
	if err := csvWriter.Write(dataset.Header()); err != nil {
		return fmt.Errorf("%w: write header to %s: %w", ErrDestinationUnwritable, path, err)
	}
	for _, record := range dataset.Records() {
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("%w: write record to %s: %w", ErrDestinationUnwritable, path, err)
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %w", ErrDestinationUnwritable, path, err)
	}
	if err := closeCompression(); err != nil {
		return fmt.Errorf("%w: finalize %s: %w", ErrDestinationUnwritable, path, err)
	}
	return nil
}

// ReadDataset loads a previously appended delimited file back into a
// dataset. The first line is taken as the header.
func ReadDataset(name, path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("shopfeed: open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("shopfeed: read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDataset, path)
	}

	dataset := NewDataset(name, model.NewHeader(rows[0]))
	for _, row := range rows[1:] {
		dataset.Append(model.NewRecord(row))
	}
	return dataset, nil
}
