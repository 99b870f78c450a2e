// Package sheet converts tabular data between csv and xlsx.
//
// CSV sources are decoded by walking a fixed list of text encodings, most
// common first (utf-8, windows-1251, latin-1), before a final permissive pass
// that drops invalid bytes. Excel workbooks are read and written through
// excelize. Conversion is a straight re-serialization of the cell grid; any
// source/target pairing outside csv and xlsx is unsupported.
package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"morph/internal/convert"
	"morph/internal/registry"
)

// Converter implements the spreadsheet leg of the dispatcher.
type Converter struct{}

// New constructs a spreadsheet converter.
func New() *Converter {
	return &Converter{}
}

// Convert reads the source grid and re-serializes it in the target format.
func (c *Converter) Convert(ctx context.Context, job convert.Job) (string, error) {
	rows, err := readGrid(job.InputPath, job.SourceExt)
	if err != nil {
		return "", err
	}
	if err := writeGrid(rows, job.OutputPath, job.TargetExt); err != nil {
		return "", err
	}
	if err := convert.VerifyOutput(job.OutputPath); err != nil {
		return "", err
	}
	return job.OutputPath, nil
}

func readGrid(path, sourceExt string) ([][]string, error) {
	switch registry.NormalizeExtension(sourceExt) {
	case "xlsx", "xls":
		return readWorkbook(path)
	case "csv":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, convert.Wrap(convert.ErrToolFailure, "sheet", "read csv", err)
		}
		return decodeCSV(data)
	default:
		return nil, convert.Wrap(convert.ErrUnsupportedType, "sheet", "source "+sourceExt, nil)
	}
}

func readWorkbook(path string) ([][]string, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, convert.Wrap(convert.ErrToolFailure, "sheet", "open workbook", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, convert.Wrap(convert.ErrToolFailure, "sheet", "workbook has no sheets", nil)
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, convert.Wrap(convert.ErrToolFailure, "sheet", "read rows", err)
	}
	return rows, nil
}

// decodeCSV walks the fixed encoding list and falls back to a lossy utf-8
// pass so a readable grid always wins over a decode error.
func decodeCSV(data []byte) ([][]string, error) {
	attempts := []struct {
		name    string
		decoder *encoding.Decoder
	}{
		{name: "utf-8"},
		{name: "windows-1251", decoder: charmap.Windows1251.NewDecoder()},
		{name: "latin-1", decoder: charmap.ISO8859_1.NewDecoder()},
	}

	for _, attempt := range attempts {
		text := data
		if attempt.decoder == nil {
			if !utf8.Valid(data) {
				continue
			}
		} else {
			decoded, err := attempt.decoder.Bytes(data)
			if err != nil {
				continue
			}
			// Charmap decoders substitute U+FFFD for undefined bytes instead
			// of failing, so a replacement rune means the attempt picked the
			// wrong encoding and the next one should get a chance.
			if bytes.ContainsRune(decoded, utf8.RuneError) {
				continue
			}
			text = decoded
		}
		if rows, err := parseCSV(text); err == nil {
			return rows, nil
		}
	}

	rows, err := parseCSV([]byte(strings.ToValidUTF8(string(data), "")))
	if err != nil {
		return nil, convert.Wrap(convert.ErrToolFailure, "sheet", "parse csv", err)
	}
	return rows, nil
}

func parseCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func writeGrid(rows [][]string, path, targetExt string) error {
	switch registry.NormalizeExtension(targetExt) {
	case "csv":
		return writeCSV(rows, path)
	case "xlsx":
		return writeWorkbook(rows, path)
	default:
		return convert.Wrap(convert.ErrUnsupportedType, "sheet", "target "+targetExt, nil)
	}
}

func writeCSV(rows [][]string, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return convert.Wrap(convert.ErrToolFailure, "sheet", "create csv", err)
	}
	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		file.Close()
		os.Remove(path)
		return convert.Wrap(convert.ErrToolFailure, "sheet", "write csv", err)
	}
	if err := file.Close(); err != nil {
		return convert.Wrap(convert.ErrToolFailure, "sheet", "close csv", err)
	}
	return nil
}

func writeWorkbook(rows [][]string, path string) error {
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return convert.Wrap(convert.ErrToolFailure, "sheet", fmt.Sprintf("row %d", i+1), err)
		}
		cells := make([]any, len(row))
		for j, value := range row {
			cells[j] = value
		}
		if err := book.SetSheetRow(sheet, cell, &cells); err != nil {
			return convert.Wrap(convert.ErrToolFailure, "sheet", fmt.Sprintf("write row %d", i+1), err)
		}
	}
	if err := book.SaveAs(path); err != nil {
		return convert.Wrap(convert.ErrToolFailure, "sheet", "save workbook", err)
	}
	return nil
}
