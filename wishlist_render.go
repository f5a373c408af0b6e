package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"steamlibrarian/core"
)

var currencySymbols = map[string]string{
	"BR": "R$",
	"US": "$",
	"GB": "£",
	"DE": "€",
	"FR": "€",
	"AU": "A$",
}

var (
	wishlistTitleStyle  = lipgloss.NewStyle().Bold(true)
	wishlistFooterStyle = lipgloss.NewStyle().Faint(true)
	wishlistTagStyles   = map[core.DealTag]lipgloss.Style{
		core.DealSteamAllTimeLow: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		core.DealCrossStoreLow:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		core.DealMatchingLowest:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		core.DealOnSale:          lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func renderWishlistTable(deals []core.Deal, country string, sortBy string) string {
	sym := currencySymbols[strings.ToUpper(country)]

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Game", "Sale", "Price", "Regular", "Discount", "Steam Low", "All-Store Low")

	for _, d := range deals {
		t.Row(
			d.Name,
			wishlistTagStyles[d.Tag].Render(d.Tag.Label()),
			formatPrice(sym, &d.CurrentPrice),
			formatPrice(sym, &d.RegularPrice),
			fmt.Sprintf("-%d%%", d.DiscountPercent),
			formatPrice(sym, d.StoreLow),
			formatPrice(sym, d.HistoricalLow),
		)
	}

	title := wishlistTitleStyle.Render(fmt.Sprintf("Steam Wishlist - Current Sales (sorted by: %v)", sortBy))
	footer := wishlistFooterStyle.Render(
		fmt.Sprintf("%d games on sale | country: %v | sorted by: %v", len(deals), strings.ToUpper(country), sortBy))

	return title + "\n" + t.Render() + "\n" + footer
}

func formatPrice(sym string, amount *float64) string {
	if amount == nil {
		return "N/A"
	}
	return fmt.Sprintf("%v%.2f", sym, *amount)
}
