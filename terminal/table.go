// Package terminal prints the derived market view as a text table.
package terminal

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/market"
)

const EmptyMessage = "No cryptocurrencies found"

var header = table.Row{"#", "Name", "Symbol", "Price", "24h %", "Market Cap", "Volume", "Supply"}

type TableOptions struct {
	// Style defaults to NewDefaultTableStyle
	Style *table.Style
	// Color enables up/down colouring of the 24h column
	Color bool
	// Limit caps the number of printed rows, 0 prints all
	Limit int
	// Total is the size of the unfiltered listing, shown in the caption when set
	Total int
}

func NewDefaultTableStyle() *table.Style {
	style := table.Style{
		Name:    "StyleRounded",
		Box:     table.StyleBoxRounded,
		Format:  table.FormatOptionsDefault,
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Title:   table.TitleOptionsDefault,
		Color:   table.ColorOptionsDefault,
	}
	style.Format.Header = text.FormatUpper
	return &style
}

// RenderTable writes rows in view order
func RenderTable(w io.Writer, rows []dashboard.Row, opts TableOptions) {
	style := opts.Style
	if style == nil {
		style = NewDefaultTableStyle()
	}

	up := color.New(color.FgGreen)
	down := color.New(color.FgRed)
	if opts.Color {
		up.EnableColor()
		down.EnableColor()
	} else {
		up.DisableColor()
		down.DisableColor()
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(*style)
	t.AppendHeader(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: 28, WidthMaxEnforcer: text.Trim},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})

	if len(rows) == 0 {
		t.AppendRow(table.Row{EmptyMessage, EmptyMessage, EmptyMessage, EmptyMessage,
			EmptyMessage, EmptyMessage, EmptyMessage, EmptyMessage}, table.RowConfig{AutoMerge: true})
		t.Render()
		return
	}

	shown := rows
	if opts.Limit > 0 && len(shown) > opts.Limit {
		shown = shown[:opts.Limit]
	}

	for _, row := range shown {
		name := row.Coin.Name
		if row.Watchlisted {
			name += " *"
		}

		change := row.Display.Change
		switch pct := market.Value(row.Coin.PriceChangePercentage24h); {
		case pct > 0:
			change = up.Sprint(change)
		case pct < 0:
			change = down.Sprint(change)
		}

		rank := "-"
		if row.Coin.Rank != nil {
			rank = strconv.Itoa(*row.Coin.Rank)
		}

		t.AppendRow(table.Row{
			rank,
			name,
			row.Coin.Symbol,
			row.Display.Price,
			change,
			row.Display.MarketCap,
			row.Display.Volume,
			row.Display.Supply,
		})
	}

	if opts.Total > 0 {
		t.SetCaption(fmt.Sprintf("Showing %d of %d", len(shown), opts.Total))
	}
	t.Render()
}
