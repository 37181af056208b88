// Package stats scrapes team game logs, stores them per team and season and
// summarizes them on read.
package stats

// Columns decodes a flat token stream into rows of stride tokens each. Token
// i of a row is keyed by names[i]; names past the stride are absent from the
// row and tokens past the last name are dropped. A trailing partial row is
// discarded.
func Columns(tokens []string, stride int, names []string) []map[string]string {
	if stride <= 0 {
		return nil
	}
	width := min(stride, len(names))

	n := len(tokens) / stride
	rows := make([]map[string]string, 0, n)
	for r := 0; r < n; r++ {
		row := make(map[string]string, width)
		for i := 0; i < width; i++ {
			row[names[i]] = tokens[r*stride+i]
		}
		rows = append(rows, row)
	}
	return rows
}
