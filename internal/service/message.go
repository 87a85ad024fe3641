package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/pharmops/mrep/backend-go/internal/domain"
)

// FormatSummaryMessage renders an executive summary as the WhatsApp text the
// daily cycle distributes.
func FormatSummaryMessage(company string, s *domain.Summary) string {
	month := time.Month(s.Month + 1)

	var b strings.Builder
	fmt.Fprintf(&b, "*%s %s Report*\n", company, s.Department)
	fmt.Fprintf(&b, "%s %d (day %d of %d)\n\n", month, s.Year, s.DaysElapsed, s.DaysInMonth)

	fmt.Fprintf(&b, "Target: %s\n", formatAmount(s.TotalTarget))
	fmt.Fprintf(&b, "Achieved: %s (%.1f%%)\n", formatAmount(s.TotalAchieved), s.Achievement)
	fmt.Fprintf(&b, "Pro-rata: %.1f%% (%s)\n", s.ProRataPct, strings.ToUpper(s.Status))
	if s.RequiredRunRate > 0 {
		fmt.Fprintf(&b, "Needed per day: %s\n", formatAmount(s.RequiredRunRate))
	}
	fmt.Fprintf(&b, "Month-end projection: %s\n", formatAmount(s.Projection))

	if len(s.Teams) > 0 {
		b.WriteString("\n*Teams*\n")
		for _, t := range s.Teams {
			fmt.Fprintf(&b, "%s %s: %.1f%%\n", statusIcon(t.Status), t.Team, t.Percentage)
		}
	}

	if len(s.Underperformers) > 0 {
		b.WriteString("\n*Needs attention*\n")
		for _, u := range s.Underperformers {
			fmt.Fprintf(&b, "- %s (%s): %.1f%%\n", u.Metric, u.Team, u.Percentage)
		}
	}

	return b.String()
}

func statusIcon(status string) string {
	switch status {
	case domain.StatusOnTrack:
		return "✅"
	case domain.StatusBehind:
		return "⚠️"
	default:
		return "🔴"
	}
}

// formatAmount renders with thousands separators, matching how the source
// sheets present figures.
func formatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
