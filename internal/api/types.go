package api

// PlaceOrderRequest is the JSON body for POST /api/v1/orders. Numeric
// fields travel as strings so the front end never loses decimal precision.
type PlaceOrderRequest struct {
	Symbol         string `json:"symbol"`
	Side           string `json:"side"`
	Type           string `json:"type"`
	Quantity       string `json:"quantity"`
	Price          string `json:"price,omitempty"`
	StopPrice      string `json:"stop_price,omitempty"`
	LimitPrice     string `json:"limit_price,omitempty"`
	StopLimitPrice string `json:"stop_limit_price,omitempty"`
}
