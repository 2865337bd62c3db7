package book

// StockState classifies a stock level for colour-coding in the book table.
type StockState string

const (
	StockCritical StockState = "critical"
	StockLow      StockState = "low"
	StockHealthy  StockState = "healthy"
)

// LowStockThreshold is the first stock level considered healthy.
const LowStockThreshold = 10

// StockStateOf maps a stock quantity to its state. Negative stock is not
// rejected by the store, so it is reported as critical like zero.
func StockStateOf(stock int) StockState {
	switch {
	case stock <= 0:
		return StockCritical
	case stock < LowStockThreshold:
		return StockLow
	default:
		return StockHealthy
	}
}

// ValueState is the UI value-state name of s ("Error", "Warning", "Success").
func (s StockState) ValueState() string {
	switch s {
	case StockCritical:
		return "Error"
	case StockLow:
		return "Warning"
	case StockHealthy:
		return "Success"
	default:
		return "None"
	}
}
