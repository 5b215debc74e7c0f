package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON 输出完整结果记录（缩进 JSON）。
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

var ledgerHeader = []string{
	"step", "type", "pairNumber", "level", "price", "fee", "volume",
	"targetSellPrice", "profit", "profitExcludingFee",
}

// WriteLedgerCSV 按步序输出账本，不适用的列留空。
func WriteLedgerCSV(w io.Writer, entries []TradeEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ledgerHeader); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			fmt.Sprintf("%d", e.Step),
			e.Type,
			fmt.Sprintf("%d", e.PairNumber),
			fmt.Sprintf("%d", e.Level),
			e.Price,
			e.Fee,
			e.Volume,
			e.TargetSellPrice,
			e.Profit,
			e.ProfitExcludingFee,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
