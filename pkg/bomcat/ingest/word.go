package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	docx "github.com/fumiama/go-docx"
	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat/enrich"
	"github.com/promtech/bomcat/pkg/bomcat/internalerr"
)

// WordAdapter reads tables out of modern word-processor documents,
// tracking group headers across rows, and falls back to loose
// paragraph text for rows living outside any table.
type WordAdapter struct {
	logger *zap.Logger
}

// NewWordAdapter returns a word-table adapter.
func NewWordAdapter(logger *zap.Logger) *WordAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WordAdapter{logger: logger}
}

func (a *WordAdapter) Ingest(path string) ([]RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrUnreadableDocument, path, err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrUnreadableDocument, path, err)
	}
	doc, err := docx.Parse(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrUnreadableDocument, path, err)
	}

	base := filepath.Base(path)
	var out []RawRow
	for _, item := range doc.Document.Body.Items {
		tbl, ok := item.(*docx.Table)
		if !ok {
			continue
		}
		grid := tableGrid(tbl)
		rows := wordRowsFromGrid(grid, base)
		out = append(out, rows...)
	}

	// Loose paragraphs carry rows that never made it into a table.
	for _, item := range doc.Document.Body.Items {
		p, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := normalizeCell(p.String())
		if text == "" || isServiceText(text) {
			continue
		}
		if r, ok := rowFromTextLine(text, base, ""); ok {
			out = append(out, r)
		}
	}

	a.logger.Debug("word document ingested", zap.String("file", base), zap.Int("rows", len(out)))
	return out, nil
}

func tableGrid(tbl *docx.Table) [][]string {
	var grid [][]string
	for _, tr := range tbl.TableRows {
		var row []string
		for _, tc := range tr.TableCells {
			var parts []string
			for _, p := range tc.Paragraphs {
				if t := normalizeCell(p.String()); t != "" {
					parts = append(parts, t)
				}
			}
			row = append(row, strings.Join(parts, " "))
		}
		grid = append(grid, row)
	}
	return grid
}

// Header keywords scored while hunting for the true header row.
var wordHeaderKeywords = []string{"наимен", "обознач", "кол.", "кол ", "кол", "примеч"}

// Canonical column names emitted for resolved word-table rows.
const (
	colZone      = "зона"
	colReference = "обозначение"
	colName      = "наименование"
	colQuantity  = "кол."
	colNote      = "примечание"
)

var wordColumns = []string{colZone, colReference, colName, colQuantity, colNote}

var serviceRowKeywords = []string{
	"изм.", "изме-ненных", "заме-ненных", "аннули-рован", "всего листов",
	"номер докум", "входя-щий", "сопрово-дитель", "подп.",
	"лист регистрации", "регистрации изменений",
}

func isServiceText(s string) bool {
	low := strings.ToLower(strings.TrimSpace(s))
	for _, kw := range serviceRowKeywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}

// Group-header section names checked anywhere in the row text.
var sectionNames = []string{
	"конденсаторы", "конденсаторов", "резисторы", "резисторов",
	"микросхемы", "микросхем", "дроссели", "дросселей",
	"индуктивности", "индуктивностей", "разъемы", "разъемов",
	"диоды", "диодов", "транзисторы", "транзисторов",
	"кабели", "кабелей", "модули", "модулей",
	"набор резисторов", "набор конденсаторов", "набор микросхем",
	"трансформаторы", "реле", "предохранители", "предохранителей",
	"оптопары", "оптроны", "светодиоды", "стабилитроны",
	"переключатели", "кнопки", "тумблеры", "фильтры", "антенны",
	"платы", "прочие элементы",
}

var manufacturerRef = regexp.MustCompile(`ф\.\s*(.+)`)

// guessHeaderIndex scans up to five leading rows for one scoring at
// least two header-keyword hits.
func guessHeaderIndex(grid [][]string) int {
	max := len(grid)
	if max > 5 {
		max = 5
	}
	for i := 0; i < max; i++ {
		hits := 0
		for _, cell := range grid[i] {
			low := strings.ToLower(cell)
			for _, hk := range wordHeaderKeywords {
				if strings.Contains(low, hk) {
					hits++
					break
				}
			}
		}
		if hits >= 2 {
			return i
		}
	}
	return 0
}

func findColumnIndex(headers []string, candidates ...string) int {
	for i, h := range headers {
		low := strings.ToLower(h)
		for _, c := range candidates {
			if strings.Contains(low, c) {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// wordRowsFromGrid runs the group-header state machine over one table.
func wordRowsFromGrid(grid [][]string, sourceFile string) []RawRow {
	if len(grid) == 0 {
		return nil
	}
	headerIdx := guessHeaderIndex(grid)
	headers := grid[headerIdx]

	idxZone := findColumnIndex(headers, "зона")
	idxRef := findColumnIndex(headers, "поз", "обозн")
	idxName := findColumnIndex(headers, "наимен")
	idxQty := findColumnIndex(headers, "кол.", "кол ", "кол", "количество")
	idxNote := findColumnIndex(headers, "примеч")

	var (
		groupSpecCode string
		groupType     string
		out           []RawRow
		lastExplicit  bool // last emitted row carried an explicit quantity
	)

	for _, row := range grid[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		zone := cellAt(row, idxZone)
		ref := cellAt(row, idxRef)
		name := cellAt(row, idxName)
		qtyRaw := cellAt(row, idxQty)
		note := cellAt(row, idxNote)

		if isGroupHeader(ref, name, qtyRaw) {
			groupSpecCode, groupType = groupContext(name)
			continue
		}

		// Continuation: bare note extends the previous row's note.
		if ref == "" && name == "" && note != "" && len(out) > 0 {
			last := &out[len(out)-1]
			if prev := last.Cells[colNote]; prev != "" {
				last.Cells[colNote] = prev + " " + note
			} else {
				last.Cells[colNote] = note
			}
			continue
		}

		// Continuation: a refless row carrying the quantity completes
		// a wrapped description.
		if ref == "" && (name != "" || note != "") && qtyRaw != "" && len(out) > 0 && !lastExplicit {
			last := &out[len(out)-1]
			extra := name
			if extra == "" {
				extra = note
			}
			if d := last.Cells[colName]; d != "" {
				last.Cells[colName] = d + " " + extra
			} else {
				last.Cells[colName] = extra
			}
			if q, ok := parseDigits(qtyRaw); ok {
				last.Cells[colQuantity] = strconv.Itoa(q)
				lastExplicit = true
			}
			continue
		}

		if ref == "" && name == "" {
			continue
		}
		if isServiceText(name) {
			continue
		}

		// Manufacturer annotation for the previous part.
		if ref == "" && strings.HasPrefix(strings.TrimSpace(name), "ф.") && len(out) > 0 {
			if m := manufacturerRef.FindStringSubmatch(name); m != nil {
				last := &out[len(out)-1]
				if prev := last.Cells[colNote]; prev != "" {
					last.Cells[colNote] = prev + " | " + strings.TrimSpace(m[1])
				} else {
					last.Cells[colNote] = strings.TrimSpace(m[1])
				}
			}
			continue
		}

		qty, explicit := parseDigits(qtyRaw)
		if !explicit || qty == 0 {
			qty = CountFromReference(ref)
		}

		name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), ","))
		if name == "" {
			name = note
		}

		cells := map[string]string{
			colZone:      zone,
			colReference: ref,
			colName:      name,
			colQuantity:  strconv.Itoa(qty),
			colNote:      noteForRow(note, groupSpecCode, ref, groupType),
		}
		out = append(out, RawRow{
			Cells:         cells,
			Columns:       wordColumns,
			SourceFile:    sourceFile,
			GroupSpecCode: effectiveGroupCode(groupSpecCode, groupType, ref),
			GroupType:     effectiveGroupType(groupType, ref),
		})
		lastExplicit = explicit
	}
	return out
}

// isGroupHeader reports whether a row introduces a component group: no
// position code, and either a known section name plus a specification
// code (or no quantity), or a short cell that is just the code.
func isGroupHeader(ref, name, qtyRaw string) bool {
	if strings.TrimSpace(ref) != "" {
		return false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	low := strings.ToLower(name)
	_, code := enrich.ExtractSpecCode(name)
	for _, section := range sectionNames {
		if strings.Contains(low, section) {
			return code != "" || strings.TrimSpace(qtyRaw) == ""
		}
	}
	if code != "" && len([]rune(name)) < 30 && strings.TrimSpace(qtyRaw) == "" {
		return true
	}
	return false
}

// groupContext pulls the specification code and canonical type out of
// a group-header row. Headers without a code may still carry a
// manufacturer annotation that serves the same role for imports.
func groupContext(name string) (specCode, groupType string) {
	_, specCode = enrich.ExtractSpecCode(name)
	if specCode == "" {
		if m := manufacturerRef.FindStringSubmatch(name); m != nil {
			specCode = strings.TrimSpace(m[1])
		}
	}
	groupType = enrich.GroupTypeFromHeader(name)
	if groupType == "" {
		clean, _ := enrich.ExtractSpecCode(name)
		groupType = strings.TrimSpace(clean)
	}
	return specCode, groupType
}

// Group context stops applying when the position-code prefix
// contradicts the group's component type.
var groupPrefixGuards = []struct {
	typeWord string
	prefixes []string
}{
	{"резистор", []string{"R"}},
	{"конденсатор", []string{"C"}},
	{"микросхем", []string{"DA", "DD", "U", "IC"}},
	{"дроссел", []string{"L"}},
	{"индуктивност", []string{"L"}},
	{"разъем", []string{"X", "J", "P"}},
}

func refPrefix(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	first := strings.Fields(ref)[0]
	for i, r := range first {
		if r >= '0' && r <= '9' {
			return strings.ToUpper(first[:i])
		}
	}
	return strings.ToUpper(first)
}

func groupMatchesRef(groupType, ref string) bool {
	prefix := refPrefix(ref)
	if prefix == "" || groupType == "" {
		return true
	}
	low := strings.ToLower(groupType)
	for _, g := range groupPrefixGuards {
		if !strings.Contains(low, g.typeWord) {
			continue
		}
		for _, p := range g.prefixes {
			if strings.HasPrefix(prefix, p) {
				return true
			}
		}
		return false
	}
	return true
}

func effectiveGroupCode(code, groupType, ref string) string {
	if !groupMatchesRef(groupType, ref) {
		return ""
	}
	return code
}

func effectiveGroupType(groupType, ref string) string {
	if !groupMatchesRef(groupType, ref) {
		return ""
	}
	return groupType
}

// noteForRow prefers the group specification code over a blank or
// service-phrase note cell.
func noteForRow(note, groupCode, ref, groupType string) string {
	trimmed := strings.TrimSpace(note)
	service := false
	low := strings.ToLower(trimmed)
	for _, phrase := range []string{"допускается отсутствие", "справ.", "см. примечание"} {
		if strings.Contains(low, phrase) {
			service = true
			break
		}
	}
	if (trimmed == "" || service) && groupCode != "" && groupMatchesRef(groupType, ref) {
		return groupCode
	}
	if service {
		return ""
	}
	return trimmed
}

var digitsRe = regexp.MustCompile(`\d+`)

func parseDigits(s string) (int, bool) {
	m := digitsRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

var refRange = regexp.MustCompile(`^([A-Za-zА-ЯЁа-яё]+)(\d+)\s*[-–—]\s*([A-Za-zА-ЯЁа-яё]+)?(\d+)`)

// CountFromReference counts parts named by a position designator:
// "R1" is one part, "R1, R2" two, "R1-R6" six. Ranges with mismatched
// prefixes collapse to two.
func CountFromReference(ref string) int {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 1
	}
	total := 0
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := refRange.FindStringSubmatch(part)
		if m == nil {
			total++
			continue
		}
		p1, p2 := m[1], m[3]
		if p2 == "" {
			p2 = p1
		}
		n1, _ := strconv.Atoi(m[2])
		n2, _ := strconv.Atoi(m[4])
		if p1 == p2 && n2 >= n1 {
			total += n2 - n1 + 1
		} else {
			total += 2
		}
	}
	if total < 1 {
		return 1
	}
	return total
}
