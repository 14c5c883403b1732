package domain

// ReservationRequestLine is a cart line stripped down to what the inventory
// system needs; it is price-agnostic.
type ReservationRequestLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type ReservationLineResult struct {
	ProductID    int64  `json:"product_id"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error,omitempty"`
}

// ReservationOutcome is the per-line result of a batch reservation.
// Invariant: Success is true iff every line succeeded; a mixed batch is an
// overall failure with per-line detail.
type ReservationOutcome struct {
	Success bool                    `json:"success"`
	Lines   []ReservationLineResult `json:"items"`
}

// FailedLines returns the lines that could not be reserved.
func (o *ReservationOutcome) FailedLines() []ReservationLineResult {
	var failed []ReservationLineResult
	for _, line := range o.Lines {
		if !line.Success {
			failed = append(failed, line)
		}
	}
	return failed
}
