// Package sink writes the finished run documents to their destination.
package sink

import "PricePulse/internal/model"

// Sink persists both documents of one run. Implementations must either
// persist both or leave previous output untouched.
type Sink interface {
	Write(prices *model.PricesDocument, prediction *model.PredictionDocument) error
}
