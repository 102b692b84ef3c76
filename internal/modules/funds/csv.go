package funds

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/corgilabs/bufferscope/internal/utils"
)

// CSVFilename is the default download name for screener exports.
const CSVFilename = "corgi-buffer-etf-screener.csv"

var csvHeaders = []string{
	"Ticker",
	"Fund Name",
	"Reference Asset",
	"Buffer Type",
	"Series",
	"Starting Cap (Net)",
	"Remaining Cap (Net)",
	"Remaining Buffer (Net)",
	"Downside Before Buffer",
	"Fund Return PTD",
	"Ref Asset Return PTD",
	"Days Remaining",
	"Period End",
}

// WriteCSV streams the screener export for the given snapshots.
func WriteCSV(w io.Writer, snapshots []Snapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeaders); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, s := range snapshots {
		row := []string{
			s.Ticker,
			s.Name,
			s.ReferenceAssetTicker,
			string(s.BufferType),
			s.SeriesMonth,
			fmt.Sprintf("%.2f%%", s.OutcomePeriod.StartingCapNet),
			fmt.Sprintf("%.2f%%", s.CurrentValues.RemainingCapNet),
			fmt.Sprintf("%.2f%%", s.CurrentValues.RemainingBufferNet),
			fmt.Sprintf("%.2f%%", s.CurrentValues.DownsideBeforeBuffer),
			utils.FormatPercent(s.CurrentValues.FundReturnPTD),
			utils.FormatPercent(s.CurrentValues.RefAssetReturnPTD),
			strconv.Itoa(s.CurrentValues.RemainingOutcomePeriodDays),
			utils.FormatDateUS(s.OutcomePeriod.EndDate),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", s.Ticker, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
