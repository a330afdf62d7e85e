// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatPrice formats a price in US dollars.
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// Truncate shortens a string to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// DirectionArrow returns an up or down marker for a signed change.
func DirectionArrow(change float64) string {
	if change >= 0 {
		return "▲"
	}
	return "▼"
}

// BuildAlertMessage formats the outbound notification body for an alert.
func BuildAlertMessage(symbol, name string, change, threshold float64, before, after *float64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s (%s): %s\n", DirectionArrow(change), symbol, name, FormatPercent(change)))
	sb.WriteString(fmt.Sprintf("Threshold: %.2f%%\n", threshold))
	if before != nil && after != nil {
		sb.WriteString(fmt.Sprintf("Close: %s -> %s", FormatPrice(*before), FormatPrice(*after)))
	} else if after != nil {
		sb.WriteString(fmt.Sprintf("Close: %s", FormatPrice(*after)))
	}
	return sb.String()
}

// BuildHeadlines formats up to three article titles for a report section.
func BuildHeadlines(titles []string, urls []string) string {
	if len(titles) == 0 {
		return "No recent news found."
	}
	var sb strings.Builder
	max := 3
	if len(titles) < max {
		max = len(titles)
	}
	for i := 0; i < max; i++ {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, Truncate(titles[i], 100)))
		if i < len(urls) && urls[i] != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", urls[i]))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
