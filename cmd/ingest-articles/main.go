// Command ingest-articles appends statements scraped from article pages
// to the corpus CSV. Each argument is a URL or a local HTML file; the
// page body is reduced to plain text and stored under the chosen
// language column, leaving the other variant empty for later
// translation.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"
)

var skipTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "nav": {}, "footer": {}, "header": {},
}

func main() {
	var (
		dataPath = flag.String("data", "statements_clean.csv", "Corpus CSV path")
		speaker  = flag.String("speaker", "", "Speaker attribution (required)")
		date     = flag.String("date", time.Now().Format("2006-01-02"), "Statement date (YYYY-MM-DD)")
		lang     = flag.String("lang", "sq", "Language column for the text: sq or en")
	)
	flag.Parse()

	if *speaker == "" {
		log.Fatal("--speaker required")
	}
	if *lang != "sq" && *lang != "en" {
		log.Fatal("--lang must be sq or en")
	}
	if flag.NArg() == 0 {
		log.Fatal("at least one URL or HTML file required")
	}

	var rows []statementRow
	for _, src := range flag.Args() {
		text, err := extractText(src)
		if err != nil {
			log.Printf("skipping %s: %v", src, err)
			continue
		}
		if text == "" {
			log.Printf("skipping %s: no text extracted", src)
			continue
		}

		row := statementRow{Date: *date, Speaker: *speaker, TextSQ: text}
		if *lang == "en" {
			row.TextEN, row.TextSQ = text, ""
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		log.Fatal("nothing extracted")
	}

	if err := appendRows(*dataPath, rows); err != nil {
		log.Fatal(err)
	}
	log.Printf("appended %d statements to %s", len(rows), *dataPath)
}

func extractText(src string) (string, error) {
	var r io.ReadCloser
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		resp, err := http.Get(src)
		if err != nil {
			return "", err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return "", fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(src)
		if err != nil {
			return "", err
		}
		r = f
	}
	defer r.Close()

	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skipTags[n.Data]; skip {
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if buf.Len() > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(buf.String()), " "), nil
}

// statementRow is one scraped statement awaiting append.
type statementRow struct {
	Date    string
	Speaker string
	TextEN  string
	TextSQ  string
}

func (r statementRow) field(column string) string {
	switch column {
	case "Date":
		return r.Date
	case "Speaker":
		return r.Speaker
	case "Speech":
		return r.TextEN
	case "Speech_SQ":
		return r.TextSQ
	}
	return ""
}

// appendRows writes rows to the corpus CSV, creating it with a header
// when missing. An existing file keeps its own column order; values
// are placed by header name so the loader attributes them correctly.
func appendRows(path string, rows []statementRow) error {
	header, err := existingHeader(path)
	if err != nil {
		return err
	}
	newFile := header == nil
	if newFile {
		header = []string{"Date", "Speech", "Speech_SQ", "Speaker"}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, column := range header {
			record[i] = row.field(column)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// existingHeader returns the first CSV record of path, or nil when the
// file is missing or empty.
func existingHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return header, nil
}
