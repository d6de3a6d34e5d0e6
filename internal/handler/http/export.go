package http

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
	timecardsvc "github.com/shifttrack/timecard-backend-go/internal/service/timecard"
	"github.com/xuri/excelize/v2"
)

const (
	csvBufferSize   = 32 * 1024
	exportSheetName = "Timecards"
)

func writeCSV(w io.Writer, rows []timecard.ExportRow) error {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true

	if err := writer.Write(timecardsvc.ExportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(timecardsvc.Values(row)); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return buf.Flush()
}

func writeXLSX(w io.Writer, rows []timecard.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, timecardsvc.ExportHeader); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, i+2, timecardsvc.Values(row)); err != nil {
			return err
		}
	}

	if err := f.SetPanes(exportSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	return f.Write(w)
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(exportSheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
