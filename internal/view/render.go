// Package view renders manager snapshots as text for the terminal.
package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/farminvest/internal/apperrors"
	"github.com/sheikh-saqib/farminvest/internal/models"
	"github.com/sheikh-saqib/farminvest/internal/optimistic"
)

const (
	Title    = "FarmInvest Lite"
	Subtitle = "Track your agricultural investments"

	dateLayout = "Jan 2, 2006"
)

var (
	colorGreen = lipgloss.Color("#10b981")
	colorGray  = lipgloss.Color("#6b7280")
	colorRed   = lipgloss.Color("#dc2626")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorGray)
	pendingStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// Render writes the header, any status banner and the list.
func Render(w io.Writer, s optimistic.Snapshot) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(Title) + "\n")
	b.WriteString(mutedStyle.Render(Subtitle) + "\n\n")

	switch s.Phase {
	case optimistic.PhaseLoading:
		if len(s.Records) == 0 {
			b.WriteString(mutedStyle.Render("Loading investments...") + "\n")
			_, err := io.WriteString(w, b.String())
			return err
		}
	case optimistic.PhaseRefreshing:
		b.WriteString(mutedStyle.Render("Refreshing...") + "\n")
	case optimistic.PhaseLoadFailed:
		b.WriteString(errorStyle.Render("Failed to Load") + "\n")
		if s.LoadErr != nil {
			b.WriteString(apperrors.Message(s.LoadErr) + "\n")
		}
		b.WriteString(mutedStyle.Render("Try again with refresh.") + "\n")
	}

	if s.Submitting {
		b.WriteString(pendingStyle.Render("Saving investment...") + "\n")
	}

	if s.CreateErr != nil {
		b.WriteString(errorStyle.Render("Error: ") + apperrors.Message(s.CreateErr) + "\n")
	}

	if len(s.Records) == 0 {
		if s.Phase != optimistic.PhaseLoadFailed {
			b.WriteString("No Investments Yet\n")
			b.WriteString(mutedStyle.Render("Start by creating your first investment") + "\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	}

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, r := range s.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.FarmerName, r.Crop, FormatAmount(r.Amount), r.RecordedAt.Format(dateLayout), status(r))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func status(r models.Record) string {
	if r.Pending {
		return pendingStyle.Render("(saving...)")
	}
	return ""
}

// FormatAmount renders a currency amount with two decimals and thousands
// separators, e.g. $5,000.00.
func FormatAmount(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(c)
	}
	return sign + "$" + grouped.String() + "." + frac
}
