package notifier

import (
	"fmt"
	"strings"

	"PricePulse/internal/model"
)

// FormatRunSummary formats a finished run's predictions into a Telegram message.
func FormatRunSummary(prices *model.PricesDocument, prediction *model.PredictionDocument) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>PricePulse run</b> | %s\n", prediction.GeneratedAtUTC))
	b.WriteString(fmt.Sprintf("period %s, interval %s\n\n", prices.Period, prices.Interval))

	for _, ticker := range prediction.Predictions.Tickers {
		sig := prediction.Predictions.Signals[ticker]
		line := fmt.Sprintf("%s: %s", ticker, sig)
		if latest, ok := prices.Latest.Latest[ticker]; ok {
			line += fmt.Sprintf(" ($%.2f @ %s)", latest.LastClose, latest.LastTsUTC)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
