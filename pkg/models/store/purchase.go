package store

// PurchaseRecord is a purchases table row. Amount keeps the decimal text form.
type PurchaseRecord struct {
	RowID      int64
	CustomerID string
	Age        int
	Gender     string
	Category   string
	Item       string
	Amount     string
	Season     string
	Extra      map[string]string
}

// GroupTotal is a grouped COUNT(*) and SUM(amount) result.
type GroupTotal struct {
	Key   string
	Count int
	Sum   string
}
