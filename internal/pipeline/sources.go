package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	"github.com/xuri/excelize/v2"

	"codexnova/internal"
)

// LoadSheet reads the source spreadsheet from a local path or an http(s)
// URL and parses it according to format. Format "auto" resolves from the
// file extension; raw CSV text defaults to the delimited parser.
func LoadSheet(input, format string, delimiter rune, fetchTimeout time.Duration) (internal.ParsedSheet, error) {
	var blob []byte
	var err error

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		blob, err = FetchSheet(input, fetchTimeout)
	} else {
		blob, err = os.ReadFile(input)
	}
	if err != nil {
		return internal.ParsedSheet{}, err
	}

	if format == "" || format == "auto" {
		format = formatFromName(input)
	}

	switch format {
	case "csv":
		return ParseDelimited(string(blob), delimiter), nil
	case "xlsx":
		return parseXLSXSheet(blob)
	case "html":
		return parseHTMLSheet(string(blob))
	case "eml":
		return parseEMLSheet(blob, delimiter)
	default:
		return internal.ParsedSheet{}, fmt.Errorf("unsupported sheet format: %s", format)
	}
}

// FetchSheet downloads the source sheet. The original tool fetched its CSV
// from the app server on every run; this keeps that path available.
func FetchSheet(url string, timeout time.Duration) ([]byte, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch sheet: status %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

func formatFromName(name string) string {
	switch strings.ToLower(filepath.Ext(strings.TrimRight(name, "/"))) {
	case ".xlsx", ".xls":
		return "xlsx"
	case ".html", ".htm":
		return "html"
	case ".eml":
		return "eml"
	default:
		return "csv"
	}
}

// parseXLSXSheet reads the first sheet of a workbook. The first non-empty
// row is the header; numbering matches the delimited parser so diagnostics
// line up with what the sheet owner sees.
func parseXLSXSheet(content []byte) (internal.ParsedSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return internal.ParsedSheet{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return internal.ParsedSheet{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return internal.ParsedSheet{}, err
	}

	out := internal.ParsedSheet{}
	for _, cells := range rows {
		trimmed := make([]string, len(cells))
		allBlank := true
		for i, c := range cells {
			trimmed[i] = strings.TrimSpace(c)
			if trimmed[i] != "" {
				allBlank = false
			}
		}
		if allBlank {
			continue
		}
		if out.Headers == nil {
			out.Headers = trimmed
			continue
		}
		out.Rows = append(out.Rows, rowFromCells(out.Headers, trimmed, len(out.Rows)+2))
	}
	return out, nil
}

// parseHTMLSheet reads the first table of an HTML document, for sheets
// published or saved as a web page. The first tr is the header row.
func parseHTMLSheet(html string) (internal.ParsedSheet, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return internal.ParsedSheet{}, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return internal.ParsedSheet{}, fmt.Errorf("no table found in html input")
	}

	out := internal.ParsedSheet{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := []string{}
		allBlank := true
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			v := strings.TrimSpace(cell.Text())
			cells = append(cells, v)
			if v != "" {
				allBlank = false
			}
		})
		if len(cells) == 0 || allBlank {
			return
		}
		if out.Headers == nil {
			out.Headers = cells
			return
		}
		out.Rows = append(out.Rows, rowFromCells(out.Headers, cells, len(out.Rows)+2))
	})

	if out.Headers == nil {
		return internal.ParsedSheet{}, fmt.Errorf("html table has no header row")
	}
	return out, nil
}

// parseEMLSheet pulls the sheet out of a mail message, for runs where the
// updated export arrives as an attachment. The first .csv or .xlsx
// attachment wins.
func parseEMLSheet(raw []byte, delimiter rune) (internal.ParsedSheet, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return internal.ParsedSheet{}, err
	}

	for _, att := range env.Attachments {
		lower := strings.ToLower(strings.TrimSpace(att.FileName))
		if strings.HasSuffix(lower, ".csv") {
			return ParseDelimited(string(att.Content), delimiter), nil
		}
		if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls") {
			return parseXLSXSheet(att.Content)
		}
	}
	return internal.ParsedSheet{}, fmt.Errorf("no csv or xlsx attachment in mail message")
}
