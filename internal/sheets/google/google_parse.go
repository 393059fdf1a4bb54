package google

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"apbdes/internal/core"
)

// Seed sheet columns, matched case-insensitively against the first row.
var seedColumns = []string{"Kind", "Section", "Color", "ID", "Description", "Initial", "Final"}

// parseSeed converts a values matrix (as returned by Sheets API) into a
// document. Every row after the header is one of:
//
//	header         | <field>  |         |      | <value>
//	revenue        |          |         | [id] | <description> | <initial> | <final>
//	expenditure    | <title>  | <color> | [id] | <description> | <initial> | <final>
//	financing-in   |          |         | [id] | ...
//	financing-out  |          |         | [id] | ...
//
// Sections appear in order of their first row. Missing ids are derived from
// the row position so reloading the same sheet yields the same ids.
func parseSeed(values [][]interface{}) (core.Document, error) {
	var doc core.Document
	if len(values) == 0 {
		return doc, fmt.Errorf("empty seed sheet")
	}
	headers := toStrings(values[0])
	col := make(map[string]int, len(seedColumns))
	var missing []string
	for _, name := range seedColumns {
		idx := indexOf(headers, name)
		if idx == -1 {
			missing = append(missing, name)
		}
		col[name] = idx
	}
	if len(missing) > 0 {
		return doc, fmt.Errorf("unexpected seed header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	sections := map[string]int{}
	for i := 1; i < len(values); i++ {
		line := i + 1
		raw := values[i]
		row := toStrings(raw)
		kind := strings.ToLower(strings.TrimSpace(safeGet(row, col["Kind"])))
		if kind == "" || strings.HasPrefix(kind, "#") {
			continue
		}

		if kind == "header" {
			field, err := core.ParseHeaderField(safeGet(row, col["Section"]))
			if err != nil {
				return doc, fmt.Errorf("row %d: %w", line, err)
			}
			if doc, err = core.UpdateHeader(doc, field, strings.TrimSpace(safeGet(row, col["Description"]))); err != nil {
				return doc, fmt.Errorf("row %d: %w", line, err)
			}
			continue
		}

		group, err := core.ParseGroup(kind)
		if err != nil {
			return doc, fmt.Errorf("row %d: %w", line, err)
		}
		item := core.LineItem{
			ID:          strings.TrimSpace(safeGet(row, col["ID"])),
			Description: strings.TrimSpace(safeGet(row, col["Description"])),
		}
		if item.Initial, err = cellAmount(raw, col["Initial"]); err != nil {
			return doc, fmt.Errorf("row %d initial: %w", line, err)
		}
		if item.Final, err = cellAmount(raw, col["Final"]); err != nil {
			return doc, fmt.Errorf("row %d final: %w", line, err)
		}

		switch group {
		case core.GroupRevenue:
			doc.Revenue = appendItem(doc.Revenue, item, "pendapatan-")
		case core.GroupFinancingIn:
			doc.Financing.In = appendItem(doc.Financing.In, item, "penerimaan-")
		case core.GroupFinancingOut:
			doc.Financing.Out = appendItem(doc.Financing.Out, item, "pengeluaran-")
		case core.GroupExpenditure:
			title := strings.TrimSpace(safeGet(row, col["Section"]))
			if title == "" {
				return doc, fmt.Errorf("row %d: expenditure row without section title", line)
			}
			idx, ok := sections[title]
			if !ok {
				idx = len(doc.Expenditure)
				sections[title] = idx
				doc.Expenditure = append(doc.Expenditure, core.Section{
					ID:    "b" + strconv.Itoa(idx+1),
					Title: title,
					Color: core.Color(strings.ToLower(strings.TrimSpace(safeGet(row, col["Color"])))),
				})
			}
			s := &doc.Expenditure[idx]
			s.Rows = appendItem(s.Rows, item, s.ID+"r")
		}
	}
	if err := doc.Validate(); err != nil {
		return doc, err
	}
	return doc, nil
}

func appendItem(rows []core.LineItem, item core.LineItem, idPrefix string) []core.LineItem {
	if item.ID == "" {
		item.ID = idPrefix + strconv.Itoa(len(rows)+1)
	}
	return append(rows, item)
}

// cellAmount reads an unformatted numeric cell. Text cells go through the
// same parser as the editor form.
func cellAmount(row []interface{}, idx int) (core.Amount, error) {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return 0, nil
	}
	switch v := row[idx].(type) {
	case float64:
		if math.IsNaN(v) || math.Abs(v) > math.MaxInt64/2 {
			return 0, fmt.Errorf("%w: %v", core.ErrInvalidAmount, v)
		}
		return core.Amount(math.Round(v)), nil
	case string:
		return core.ParseAmount(v)
	}
	return core.ParseAmount(fmt.Sprint(row[idx]))
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		if v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			out[i] = t
		case float64:
			out[i] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx >= 0 && idx < len(arr) {
		return arr[idx]
	}
	return ""
}
