package usage

// CountResponse reports how many readings have been served so far.
type CountResponse struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}
