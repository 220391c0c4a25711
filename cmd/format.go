package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// won renders an amount with thousands separators and no fraction.
func won(v float64) string {
	return printer.Sprintf("%.0f 원", v)
}

func percent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

func banner(title string) {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("  %s\n", title)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

func section(title string) {
	fmt.Printf("=== %s ===\n", title)
}

// outputJSON prints v as indented JSON.
func outputJSON(v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
