package sheets

import (
	"context"

	"gagyebu/internal/core"
)

// Ports for the backing spreadsheet document.
type (
	// TableFetcher retrieves the raw records of one tab, keyed by the
	// tab's header row. A missing or unreadable tab is an error here;
	// the dataset layer decides that it degrades to an empty table.
	TableFetcher interface {
		FetchTable(ctx context.Context, tab string) ([]core.RawRecord, error)
	}

	// RowAppender appends one row to a tab in the tab's fixed column order.
	RowAppender interface {
		AppendRow(ctx context.Context, tab string, row []any) error
	}

	// RowCounter reports the number of non-empty rows in a tab. Used for
	// read-after-write confirmation on the append path.
	RowCounter interface {
		CountRows(ctx context.Context, tab string) (int, error)
	}
)
