package dto

// ChartResponse は Yahoo Finance の /v8/finance/chart API のレスポンス構造体です。
// 値が欠けている足（休場日など）は null になるため、ポインタで受け取ります。
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *ChartError   `json:"error"`
	} `json:"chart"`
}

// ChartResult は1銘柄分の結果です。
type ChartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		Currency           string  `json:"currency"`
		ExchangeName       string  `json:"exchangeName"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []Quote `json:"quote"`
	} `json:"indicators"`
}

// Quote は OHLCV の列データです。
type Quote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// ChartError は API がエラーを返したときの本文です。
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
