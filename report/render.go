package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/posttrade"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/sim"
)

// RenderOptions 控制文本报告。
type RenderOptions struct {
	MaxPairs int // 交易对表格最多显示多少行，0 表示全部
}

const notAvailable = "N/A"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headStyle   = lipgloss.NewStyle().Bold(true)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2).MarginRight(2)
	gridCard    = cardStyle.BorderForeground(lipgloss.Color("34"))
	holdCard    = cardStyle.BorderForeground(lipgloss.Color("33"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true)
	mutedStyle  = cellStyle.Foreground(lipgloss.Color("245"))
	gainStyle   = cellStyle.Foreground(lipgloss.Color("42"))
	lossStyle   = cellStyle.Foreground(lipgloss.Color("196"))
)

var printer = message.NewPrinter(language.English)

// FormatUSD 把 8 位定点字符串格式化为 "$1,222.22222222" / "-$4,569.50000000"。
func FormatUSD(fixed string) string {
	d, err := decimal.NewFromString(fixed)
	if err != nil {
		return fixed
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	s := d.StringFixed(8)
	intPart, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + "$" + s
	}
	return sign + "$" + printer.Sprintf("%d", n) + "." + frac
}

// RenderText 输出对比卡片与交易对表格，未成交的买单显示为 N/A。
func RenderText(w io.Writer, res *sim.Result, opts RenderOptions) error {
	s := FromResult(res)
	pairs := posttrade.GroupPairs(res.Trades)
	stats := posttrade.Summarize(pairs)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Grid Bot vs Buy and Hold"))
	b.WriteString("\n\n")

	grid := gridCard.Render(strings.Join([]string{
		headStyle.Render("Grid Bot Strategy"),
		"Total Profit: " + FormatUSD(s.GridBot.TotalProfit),
		"Total Investment + Profit: " + FormatUSD(s.GridBot.TotalInvestmentPlusProfit),
		"Investment per Grid: " + FormatUSD(s.GridBot.InvestmentPerGrid),
		fmt.Sprintf("Buy Trades: %d", s.GridBot.BuyTrades),
		fmt.Sprintf("Sell Trades: %d", s.GridBot.SellTrades),
		fmt.Sprintf("Total Trades: %d", s.GridBot.TotalTrades),
	}, "\n"))
	hold := holdCard.Render(strings.Join([]string{
		headStyle.Render("Buy and Hold Strategy"),
		"Total Profit: " + FormatUSD(s.BuyAndHold.TotalProfit),
		"Total Investment + Profit: " + FormatUSD(s.BuyAndHold.TotalInvestmentPlusProfit),
	}, "\n"))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, grid, hold))
	b.WriteString("\n\n")

	outcome := "reached buy-and-hold"
	if !s.Run.Converged {
		outcome = fmt.Sprintf("stopped at %d-step ceiling", sim.MaxSteps)
	}
	fmt.Fprintf(&b, "%s | grid size %s | %d steps, %s | unmatched sells %d | open pairs %d | win rate %.2f%%\n\n",
		s.Run.Strategy, s.Run.GridSize, s.Run.Steps, outcome,
		s.Run.UnmatchedSells, stats.OpenPairs, stats.WinRate*100)

	shown := pairs
	if opts.MaxPairs > 0 && len(shown) > opts.MaxPairs {
		shown = shown[:opts.MaxPairs]
	}
	if len(shown) > 0 {
		b.WriteString(titleStyle.Render("Trade History"))
		b.WriteString("\n")
		b.WriteString(pairTable(shown).String())
		b.WriteString("\n")
		if rest := len(pairs) - len(shown); rest > 0 {
			fmt.Fprintf(&b, "... %d more pairs\n", rest)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func pairTable(pairs []posttrade.Pair) *table.Table {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		profit, gross := notAvailable, notAvailable
		sellPrice, sellFee := notAvailable, notAvailable
		if p.Sell != nil {
			profit = FormatUSD(Fixed(p.Sell.Profit))
			gross = FormatUSD(Fixed(p.Sell.ProfitExcludingFee))
			sellPrice = FormatUSD(Fixed(p.Sell.Price))
			sellFee = FormatUSD(Fixed(p.Sell.Fee))
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", p.PairNumber),
			profit,
			"Buy: " + FormatUSD(Fixed(p.Buy.Price)) + "\nSell: " + sellPrice,
			gross,
			"Buy: " + FormatUSD(Fixed(p.Buy.Fee)) + "\nSell: " + sellFee,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Profit USD", "Price USD", "Profit (Excl. Fee) USD", "Fee").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || row < 0 || row >= len(pairs) {
				return headerStyle
			}
			p := pairs[row]
			if p.Sell == nil {
				return mutedStyle
			}
			if col == 1 {
				if p.Sell.Profit >= 0 {
					return gainStyle
				}
				return lossStyle
			}
			return cellStyle
		})
}
