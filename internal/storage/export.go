package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"Technology", "Question", "Answer"}

// BuildRows projects questions and answers into export rows, technology order
// first and ascending question index within each technology.
func BuildRows(questions QuestionSet, answers AnswerSet) []ExportRow {
	rows := make([]ExportRow, 0, questions.Total())
	for _, tq := range questions {
		for i, q := range tq.Questions {
			rows = append(rows, ExportRow{
				Technology: tq.Technology,
				Question:   q.Question,
				Answer:     answers.Get(tq.Technology, i+1),
			})
		}
	}
	return rows
}

// ExportCSV renders rows with a Technology,Question,Answer header.
func ExportCSV(rows []ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("error writing csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Technology, row.Question, row.Answer}); err != nil {
			return nil, fmt.Errorf("error writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportJSON renders rows as an indented JSON array. No rows gives "[]".
func ExportJSON(rows []ExportRow) ([]byte, error) {
	if rows == nil {
		rows = []ExportRow{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshaling json export: %w", err)
	}
	return data, nil
}

const xlsxSheet = "Answers"

// ExportXLSX renders rows into a single-sheet workbook.
func ExportXLSX(rows []ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("error naming sheet: %w", err)
	}

	write := func(rowNum int, values []string) error {
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(xlsxSheet, cell, value); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write(1, exportHeader); err != nil {
		return nil, fmt.Errorf("error writing xlsx header: %w", err)
	}
	for i, row := range rows {
		if err := write(i+2, []string{row.Technology, row.Question, row.Answer}); err != nil {
			return nil, fmt.Errorf("error writing xlsx row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
