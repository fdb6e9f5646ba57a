package main

import (
	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed)
)

// riskColor highlights a non-zero amount at risk.
func riskColor(v int64) *color.Color {
	if v > 0 {
		return red
	}
	return green
}
