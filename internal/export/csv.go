// Package export renders the idea listings of an academic year for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"
)

// IdeaRow is one idea as it appears in the CSV report.
type IdeaRow struct {
	ID            uint
	Content       string
	CreatedAt     time.Time
	FirstName     string
	LastName      string
	Department    string
	Categories    []string
	ViewCount     int64
	ReactionScore int64
}

var ideaHeader = []string{
	"id", "content", "created_at", "first_name", "last_name",
	"department", "categories", "view_count", "reaction_score",
}

// WriteIdeasCSV emits one header line followed by a line per row.
func WriteIdeasCSV(w io.Writer, rows []IdeaRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(ideaHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Content,
			row.CreatedAt.UTC().Format(time.RFC3339),
			row.FirstName,
			row.LastName,
			row.Department,
			strings.Join(row.Categories, ";"),
			strconv.FormatInt(row.ViewCount, 10),
			strconv.FormatInt(row.ReactionScore, 10),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
