// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog loads the engine's input snapshots: the posting
// corpus CSV produced by the collectors, and the course catalog and
// student profiles maintained alongside the curriculum.
// See docs/ARCHITECTURE § Inputs.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/skillcast/pkg/types"
)

// Posting corpus CSV columns, as written by the collectors' master
// dataset builder.
const (
	colSource      = "source"
	colCategory    = "category"
	colTitle       = "title"
	colURL         = "url"
	colPostedDate  = "posted_date"
	colScrapedDate = "scraped_date"
	colDescription = "description"
)

const dateFmt = "2006-01-02"

// LoadPostings reads the posting corpus CSV. Rows without a URL or a
// parsable date are skipped with a diagnostic; duplicate URLs keep the
// first occurrence. The loader never fails on individual rows — only on
// an unreadable file or header.
func LoadPostings(path string) ([]types.Posting, []types.Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening corpus %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading corpus header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{colURL, colTitle} {
		if _, ok := col[required]; !ok {
			return nil, nil, fmt.Errorf("corpus %s: missing column %q", path, required)
		}
	}

	var (
		postings []types.Posting
		diags    []types.Diagnostic
		seen     = make(map[string]bool)
		line     = 1
	)

	for {
		line++
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			diags = append(diags, types.Diagnostic{
				Stage:    "corpus",
				EntityID: fmt.Sprintf("line %d", line),
				Reason:   err.Error(),
			})
			continue
		}

		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		url := field(colURL)
		if url == "" {
			diags = append(diags, types.Diagnostic{
				Stage:    "corpus",
				EntityID: fmt.Sprintf("line %d", line),
				Reason:   "missing url",
			})
			continue
		}
		if seen[url] {
			continue
		}

		ts, ok := parseDate(field(colPostedDate))
		if !ok {
			// Fall back to the scrape date before giving up on the row.
			ts, ok = parseDate(field(colScrapedDate))
		}
		if !ok {
			diags = append(diags, types.Diagnostic{
				Stage:    "corpus",
				EntityID: url,
				Reason:   "no parsable posted_date or scraped_date",
			})
			continue
		}

		seen[url] = true
		postings = append(postings, types.Posting{
			RecordID:  url,
			RawText:   strings.TrimSpace(field(colTitle) + " " + field(colDescription)),
			Timestamp: ts,
			Category:  field(colCategory),
		})
	}

	return postings, diags, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{dateFmt, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
