package tui

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// selfView is a personal view of a teacher or student.
type selfView struct {
	view    string
	loading bool
	data    interface{}
	err     error
}

func (v *selfView) render(st Styles, title, spin string) string {
	if v.loading {
		title += " " + spin
	}
	lines := []string{st.Title.Render(title)}
	if v.err != nil {
		lines = append(lines, st.Error.Render(userMessage(v.err)))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	switch data := v.data.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(data))
		width := 0
		for k := range data {
			keys = append(keys, k)
			if len(k) > width {
				width = len(k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, st.Label.Width(width+2).Render(k)+FormatValue(data[k]))
		}
	case []interface{}:
		if len(data) == 0 {
			lines = append(lines, st.Muted.Render("Sin registros"))
			break
		}
		if headers, rows, ok := Tabulate(data); ok {
			header := st.Label.Foreground(st.Title.GetForeground())
			lines = append(lines, table.New().
				Border(lipgloss.RoundedBorder()).
				Headers(headers...).
				Rows(rows...).
				StyleFunc(func(row, _ int) lipgloss.Style {
					if row == table.HeaderRow {
						return header.Padding(0, 1)
					}
					return lipgloss.NewStyle().Padding(0, 1)
				}).
				String())
			break
		}
		lines = append(lines, FormatValue(data))
	case nil:
	default:
		lines = append(lines, FormatValue(data))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// FormatValue renders a decoded JSON value on one line.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if val == "" {
			return "-"
		}
		return val
	case bool:
		if val {
			return "sí"
		}
		return "no"
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return "?"
		}
		return string(raw)
	}
}

// Tabulate lays out a list of JSON objects as table rows, with the sorted union of their
// keys as headers. ok is false when some element is not an object.
func Tabulate(list []interface{}) (headers []string, rows [][]string, ok bool) {
	seen := make(map[string]bool)
	objs := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		obj, isObj := item.(map[string]interface{})
		if !isObj {
			return nil, nil, false
		}
		objs = append(objs, obj)
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)
	// the id goes first
	for i, h := range headers {
		if strings.EqualFold(h, "id") && i > 0 {
			copy(headers[1:i+1], headers[:i])
			headers[0] = h
			break
		}
	}

	rows = make([][]string, 0, len(objs))
	for _, obj := range objs {
		row := make([]string, 0, len(headers))
		for _, h := range headers {
			row = append(row, FormatValue(obj[h]))
		}
		rows = append(rows, row)
	}
	return headers, rows, true
}
