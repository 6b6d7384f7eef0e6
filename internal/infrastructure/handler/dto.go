package handler

// ConversionResponse represents the response for the convert endpoint
type ConversionResponse struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	Amount          float64 `json:"amount"`
	ConvertedAmount float64 `json:"converted_amount"`
	Rate            float64 `json:"rate"`
}

// RateResponse is one entry of the rates listing
type RateResponse struct {
	Code string  `json:"code"`
	Rate float64 `json:"rate"`
}

// RatesResponse represents the response for the rates endpoint
type RatesResponse struct {
	Rates []RateResponse `json:"rates"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
