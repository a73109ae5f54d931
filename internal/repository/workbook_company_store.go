package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"BuyBio/internal/domain/models"
	domrepo "BuyBio/internal/domain/repository"
	"BuyBio/pkg/logger"
	"BuyBio/pkg/util"
)

// Column headers of the metadata workbook.
const (
	colTags            = "추가 태그"
	colCompanyName     = "기업명"
	colSummary         = "한 줄 요약"
	colBioIndustryCode = "바이오산업 분류코드"
	colMainProducts    = "주력 상품/기술"
	colBiotechCode     = "생명공학기술 분류코드"
	colAdditionalDesc  = "추가설명"
)

// Column headers of the code workbook.
const (
	colCodeCompanyName = "회사명"
	colCode            = "종목코드"
)

const codeWidth = 6

// WorkbookCompanyStore reads analyst metadata from two xlsx workbooks.
// Workbooks are read on every call so edits are picked up without a restart.
type WorkbookCompanyStore struct {
	companyPath string
	codePath    string
	l           *logger.Logger
}

var _ domrepo.CompanyStore = (*WorkbookCompanyStore)(nil)

func NewWorkbookCompanyStore(companyPath, codePath string, l *logger.Logger) *WorkbookCompanyStore {
	if l == nil {
		l = logger.Nop()
	}
	return &WorkbookCompanyStore{companyPath: companyPath, codePath: codePath, l: l}
}

// Companies returns one record per distinct company name. A repeated name keeps
// the position of its first row and the data of its last.
func (s *WorkbookCompanyStore) Companies(ctx context.Context) ([]models.Company, error) {
	sheet, err := readSheet(ctx, s.companyPath)
	if err != nil {
		return nil, fmt.Errorf("read company workbook: %w", err)
	}
	if !sheet.has(colCompanyName) {
		return nil, fmt.Errorf("company workbook %s: missing column %q", s.companyPath, colCompanyName)
	}

	out := make([]models.Company, 0, len(sheet.rows))
	index := make(map[string]int, len(sheet.rows))
	for i, row := range sheet.rows {
		name := sheet.cell(row, colCompanyName)
		if name == "" {
			continue
		}
		c := models.Company{
			Name: name,
			Tags: s.parseTags(sheet.cell(row, colTags), name, i+2),
			Info: models.CompanyInfo{
				Summary:         sheet.cell(row, colSummary),
				BioIndustryCode: sheet.cell(row, colBioIndustryCode),
				MainProducts:    sheet.cell(row, colMainProducts),
				BiotechCode:     sheet.cell(row, colBiotechCode),
				AdditionalDesc:  sheet.cell(row, colAdditionalDesc),
			},
		}
		if pos, ok := index[name]; ok {
			out[pos] = c
			continue
		}
		index[name] = len(out)
		out = append(out, c)
	}

	s.l.Debug("company workbook loaded",
		logger.String("path", s.companyPath),
		logger.Int("companies", len(out)),
	)
	return out, nil
}

// Codes returns the name to code mapping in workbook order. Codes are left-padded
// with zeros to six digits; rows without a name or a usable code are skipped.
func (s *WorkbookCompanyStore) Codes(ctx context.Context) ([]models.CodeEntry, error) {
	sheet, err := readSheet(ctx, s.codePath)
	if err != nil {
		return nil, fmt.Errorf("read code workbook: %w", err)
	}
	for _, col := range []string{colCodeCompanyName, colCode} {
		if !sheet.has(col) {
			return nil, fmt.Errorf("code workbook %s: missing column %q", s.codePath, col)
		}
	}

	out := make([]models.CodeEntry, 0, len(sheet.rows))
	index := make(map[string]int, len(sheet.rows))
	for _, row := range sheet.rows {
		name := sheet.cell(row, colCodeCompanyName)
		code := NormalizeCode(sheet.cell(row, colCode))
		if name == "" || code == "" {
			continue
		}
		e := models.CodeEntry{Name: name, Code: code}
		if pos, ok := index[name]; ok {
			out[pos] = e
			continue
		}
		index[name] = len(out)
		out = append(out, e)
	}

	s.l.Debug("code workbook loaded",
		logger.String("path", s.codePath),
		logger.Int("codes", len(out)),
	)
	return out, nil
}

// parseTags splits a comma separated tag cell. Tokens that are not positive
// integers are dropped with a warning.
func (s *WorkbookCompanyStore) parseTags(raw, company string, line int) []int {
	if raw == "" {
		return nil
	}
	var tags []int
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, ok := parseTag(tok)
		if !ok {
			s.l.Warn("malformed tag skipped",
				logger.String("company", company),
				logger.String("token", tok),
				logger.Int("row", line),
			)
			continue
		}
		tags = append(tags, n)
	}
	return tags
}

func parseTag(tok string) (int, bool) {
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// NormalizeCode left-pads a market code to six digits. A numeric cell rendered
// with a trailing ".0" is accepted. Empty and all-zero codes normalize to "".
func NormalizeCode(raw string) string {
	code := strings.TrimSpace(raw)
	if whole, frac, ok := strings.Cut(code, "."); ok && strings.Trim(frac, "0") == "" {
		code = whole
	}
	if code == "" || strings.Trim(code, "0") == "" {
		return ""
	}
	return util.ZeroPad(code, codeWidth)
}

type sheetRows struct {
	header map[string]int
	rows   [][]string
}

func (s sheetRows) has(col string) bool {
	_, ok := s.header[col]
	return ok
}

// cell returns the trimmed value of col in row, or "" when the row is short.
func (s sheetRows) cell(row []string, col string) string {
	i, ok := s.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[i])
	if strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

// readSheet loads the first sheet of path. The first row is the header.
func readSheet(ctx context.Context, path string) (sheetRows, error) {
	if err := ctx.Err(); err != nil {
		return sheetRows{}, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return sheetRows{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return sheetRows{}, fmt.Errorf("%s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return sheetRows{}, fmt.Errorf("rows %s: %w", path, err)
	}
	if len(rows) == 0 {
		return sheetRows{header: map[string]int{}}, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if _, dup := header[h]; h != "" && !dup {
			header[h] = i
		}
	}
	return sheetRows{header: header, rows: rows[1:]}, nil
}
