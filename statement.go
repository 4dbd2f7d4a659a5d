/*
Copyright 2025 Reckon Ledger Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package reckon

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/reckon-ledger/reckon/config"
	"github.com/reckon-ledger/reckon/internal/apierror"
	"github.com/reckon-ledger/reckon/internal/audit"
	"github.com/reckon-ledger/reckon/model"
)

// Descriptions this close (Levenshtein distance as a share of the longer
// string) count as the same statement line.
const descriptionDriftPercent = 20.0

// UploadStatement parses an uploaded bank statement into entries, creating
// unreconciled items on the report for every entry that does not already have
// a matching item. Re-uploading the same statement is idempotent in effect:
// entries matched against existing items are skipped, not duplicated.
func (r *Reckon) UploadStatement(ctx context.Context, reportID string, reader io.Reader, filename, actor string) ([]model.ReconciliationItem, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Failed to read statement upload", err)
	}

	entries, err := ParseStatement(data, filename)
	if err != nil {
		return nil, err
	}

	locker, err := r.acquireReportLock(ctx, reportID)
	if err != nil {
		return nil, err
	}
	defer r.releaseLock(ctx, locker)

	report, err := r.hydrateReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !report.Mutable() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("Cannot import a statement into a %s reconciliation", report.Status), nil)
	}

	unmatched := SuggestItems(entries, report.Items)
	created, err := r.importStatementItems(ctx, report, unmatched)
	if err != nil {
		return nil, err
	}

	audit.Record(audit.NewEvent("reconciliation.statement_imported", "reconciliation_report", reportID, actor, map[string]interface{}{
		"entries": len(entries),
		"created": len(created),
	}))

	return created, nil
}

// ParseStatement decodes statement bytes into entries, detecting the format
// by filename extension first and by content sniffing second.
func ParseStatement(data []byte, filename string) ([]model.StatementEntry, error) {
	conf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	fileType, err := detectFileType(data, filename)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Unable to detect statement format", err)
	}

	var entries []model.StatementEntry
	switch {
	case strings.Contains(fileType, "text/csv"):
		entries, err = parseStatementCSV(bytes.NewReader(data))
	case strings.Contains(fileType, "application/json"):
		entries, err = parseStatementJSON(bytes.NewReader(data))
	default:
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unsupported statement format %s", fileType), nil)
	}
	if err != nil {
		return nil, err
	}

	if len(entries) > *conf.Reconciliation.MaxStatementRows {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("Statement exceeds the maximum of %d rows", *conf.Reconciliation.MaxStatementRows), nil)
	}

	return entries, nil
}

// detectFileType detects the statement's MIME type, extension first, content
// second.
func detectFileType(data []byte, filename string) (string, error) {
	if mimeType := detectByExtension(filename); mimeType != "" {
		return mimeType, nil
	}
	return detectByContent(data)
}

func detectByExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return mime.TypeByExtension(ext)
}

func detectByContent(data []byte) (string, error) {
	mimeType := http.DetectContentType(data)

	switch mimeType {
	case "application/octet-stream", "text/plain; charset=utf-8":
		return analyzeTextContent(data)
	case "text/csv; charset=utf-8":
		return "text/csv", nil
	default:
		return mimeType, nil
	}
}

func analyzeTextContent(data []byte) (string, error) {
	if looksLikeCSV(data) {
		return "text/csv", nil
	}
	if json.Valid(data) {
		return "application/json", nil
	}
	return "text/plain", nil
}

// looksLikeCSV requires at least two lines with a consistent field count.
func looksLikeCSV(data []byte) bool {
	lines := bytes.Split(data, []byte("\n"))
	if len(lines) < 2 {
		return false
	}

	fields := bytes.Count(lines[0], []byte(",")) + 1
	for _, line := range lines[1:] {
		if len(line) == 0 {
			continue
		}
		if bytes.Count(line, []byte(","))+1 != fields {
			return false
		}
	}

	return fields > 1
}

// parseStatementCSV reads a header-mapped CSV statement. Description, Amount
// and Date columns are required; Reference is optional.
func parseStatementCSV(reader io.Reader) ([]model.StatementEntry, error) {
	csvReader := csv.NewReader(reader)

	headers, err := csvReader.Read()
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Error reading statement CSV headers", err)
	}

	columnMap, err := createColumnMap(headers)
	if err != nil {
		return nil, err
	}

	var entries []model.StatementEntry
	rowNum := 1
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Error reading statement row %d", rowNum+1), err)
		}
		rowNum++

		entry, err := parseStatementRecord(record, columnMap)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Error parsing statement row %d", rowNum), err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// createColumnMap maps lowercased header names to their indices and checks
// the required columns are present.
func createColumnMap(headers []string) (map[string]int, error) {
	requiredColumns := []string{"Description", "Amount", "Date"}
	columnMap := make(map[string]int)

	for i, header := range headers {
		columnMap[strings.ToLower(strings.TrimSpace(header))] = i
	}

	for _, col := range requiredColumns {
		if _, exists := columnMap[strings.ToLower(col)]; !exists {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
				fmt.Sprintf("Required column '%s' not found in statement", col), nil)
		}
	}

	return columnMap, nil
}

func parseStatementRecord(record []string, columnMap map[string]int) (model.StatementEntry, error) {
	if len(record) < len(columnMap) {
		return model.StatementEntry{}, fmt.Errorf("incorrect number of fields in record")
	}

	description := strings.TrimSpace(record[columnMap["description"]])
	if description == "" {
		return model.StatementEntry{}, fmt.Errorf("empty description")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[columnMap["amount"]]))
	if err != nil {
		return model.StatementEntry{}, fmt.Errorf("invalid amount: %w", err)
	}

	entry := model.StatementEntry{
		Description: description,
		Amount:      amount,
		Date:        parseStatementTime(strings.TrimSpace(record[columnMap["date"]])),
	}
	if idx, ok := columnMap["reference"]; ok {
		entry.Reference = strings.TrimSpace(record[idx])
	}
	return entry, nil
}

// parseStatementTime accepts RFC3339 and plain dates; anything else yields
// the zero time.
func parseStatementTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

func parseStatementJSON(reader io.Reader) ([]model.StatementEntry, error) {
	var entries []model.StatementEntry
	if err := json.NewDecoder(reader).Decode(&entries); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Error parsing statement JSON", err)
	}
	return entries, nil
}

// SuggestItems filters imported entries down to the ones with no matching
// existing item. An entry matches an item when the amounts are equal and the
// descriptions agree within the allowable drift. Reconciled items count as
// matches too: re-uploading a statement after its items were reconciled must
// not create duplicates.
func SuggestItems(entries []model.StatementEntry, existing []model.ReconciliationItem) []model.StatementEntry {
	var unmatched []model.StatementEntry
	for _, entry := range entries {
		matched := false
		for _, item := range existing {
			if entry.Amount.Equal(item.Amount) && partialMatch(entry.Description, item.Description, descriptionDriftPercent) {
				matched = true
				break
			}
		}
		if !matched {
			unmatched = append(unmatched, entry)
		}
	}
	return unmatched
}

// partialMatch compares two descriptions, allowing a Levenshtein drift
// expressed as a percentage of the longer string.
func partialMatch(str1, str2 string, allowableDrift float64) bool {
	str1 = strings.ToLower(str1)
	str2 = strings.ToLower(str2)

	if strings.Contains(str1, str2) || strings.Contains(str2, str1) {
		return true
	}

	distance := levenshtein.DistanceForStrings([]rune(str1), []rune(str2), levenshtein.DefaultOptions)

	maxLength := float64(max(len(str1), len(str2)))
	maxAllowedDistance := int(maxLength * (allowableDrift / 100))

	return distance <= maxAllowedDistance
}

// importStatementItems creates timing-difference items for the unmatched
// entries. The caller holds the report lock.
func (r *Reckon) importStatementItems(ctx context.Context, report *model.ReconciliationReport, entries []model.StatementEntry) ([]model.ReconciliationItem, error) {
	created := []model.ReconciliationItem{}
	for _, entry := range entries {
		item := model.ReconciliationItem{
			ItemID:      model.GenerateUUIDWithSuffix("itm"),
			ReportID:    report.ReportID,
			Description: entry.Description,
			Amount:      entry.Amount,
			Type:        model.ItemTimingDifference,
			Notes:       entry.Reference,
			CreatedAt:   time.Now(),
		}
		if err := r.datasource.RecordReconciliationItem(ctx, &item); err != nil {
			return nil, err
		}
		created = append(created, item)
	}
	return created, nil
}
