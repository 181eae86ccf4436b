package binance

// USDT-M futures REST endpoints.
const (
	pathOrder   = "/fapi/v1/order"
	pathAccount = "/fapi/v2/account"
)

// apiError is the exchange's uniform error body, e.g.
// {"code":-2013,"msg":"Order does not exist."}
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
