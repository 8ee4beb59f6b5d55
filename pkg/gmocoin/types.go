package gmocoin

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

type Side string
type ExecutionType string
type TimeInForce string
type SettleType string
type TransferType string
type Interval string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"

	ExecutionTypeMarket ExecutionType = "MARKET"
	ExecutionTypeLimit  ExecutionType = "LIMIT"
	ExecutionTypeStop   ExecutionType = "STOP"

	TimeInForceFAK TimeInForce = "FAK"
	TimeInForceFAS TimeInForce = "FAS"
	TimeInForceFOK TimeInForce = "FOK"
	TimeInForceSOK TimeInForce = "SOK"

	SettleTypeOpen  SettleType = "OPEN"
	SettleTypeClose SettleType = "CLOSE"

	TransferTypeDeposit    TransferType = "DEPOSIT"
	TransferTypeWithdrawal TransferType = "WITHDRAWAL"

	Interval1Min   Interval = "1min"
	Interval5Min   Interval = "5min"
	Interval10Min  Interval = "10min"
	Interval15Min  Interval = "15min"
	Interval30Min  Interval = "30min"
	Interval1Hour  Interval = "1hour"
	Interval4Hour  Interval = "4hour"
	Interval8Hour  Interval = "8hour"
	Interval12Hour Interval = "12hour"
	Interval1Day   Interval = "1day"
	Interval1Week  Interval = "1week"
	Interval1Month Interval = "1month"
)

// StatusUnrecognized marks a Response whose body is valid JSON but not the
// usual {"status":...} object, e.g. an error page from a proxy. Body keeps
// the payload.
const StatusUnrecognized = -1

// Response is the envelope every GMO Coin endpoint answers with. HTTP error
// statuses and status != 0 payloads are returned as-is.
type Response struct {
	Status       int             `json:"status"`
	Data         json.RawMessage `json:"data,omitempty"`
	Messages     []Message       `json:"messages,omitempty"`
	ResponseTime string          `json:"responsetime"`

	StatusCode int    `json:"-"`
	Body       []byte `json:"-"`
}

type Message struct {
	Code string `json:"message_code"`
	Text string `json:"message_string"`
}

// Decode unmarshals the data field into v.
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("Пустое поле data (status=%d)", r.Status)
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return &ParseError{StatusCode: r.StatusCode, Body: r.Data, Err: err}
	}
	return nil
}

// Err returns an *APIError when the exchange reported a failure, nil otherwise.
func (r *Response) Err() error {
	if r.Status == 0 {
		return nil
	}
	return &APIError{Status: r.Status, Messages: r.Messages}
}

// Page selects a page of a list endpoint. Zero values are not sent.
type Page struct {
	Page  int
	Count int
}

func (p Page) apply(params url.Values) {
	setInt(params, "page", int64(p.Page))
	setInt(params, "count", int64(p.Count))
}

// ExecutionsQuery filters /v1/executions. Zero OrderID and empty
// ExecutionIDs are not sent.
type ExecutionsQuery struct {
	OrderID int64
	// ExecutionIDs are sent comma-joined as one executionId parameter.
	ExecutionIDs []int64
}

type OrderParams struct {
	Symbol        string           `json:"symbol" validate:"required"`
	Side          Side             `json:"side" validate:"required,oneof=BUY SELL"`
	ExecutionType ExecutionType    `json:"executionType" validate:"required,oneof=MARKET LIMIT STOP"`
	TimeInForce   TimeInForce      `json:"timeInForce,omitempty" validate:"omitempty,oneof=FAK FAS FOK SOK"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	LosscutPrice  *decimal.Decimal `json:"losscutPrice,omitempty"`
	Size          decimal.Decimal  `json:"size"`
	CancelBefore  *bool            `json:"cancelBefore,omitempty"`
}

type SettlePosition struct {
	PositionID int64           `json:"positionId" validate:"gt=0"`
	Size       decimal.Decimal `json:"size"`
}

type CloseOrderParams struct {
	Symbol         string           `json:"symbol" validate:"required"`
	Side           Side             `json:"side" validate:"required,oneof=BUY SELL"`
	ExecutionType  ExecutionType    `json:"executionType" validate:"required,oneof=MARKET LIMIT STOP"`
	TimeInForce    TimeInForce      `json:"timeInForce,omitempty" validate:"omitempty,oneof=FAK FAS FOK SOK"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	SettlePosition []SettlePosition `json:"settlePosition" validate:"len=1,dive"`
	CancelBefore   *bool            `json:"cancelBefore,omitempty"`
}

type CloseBulkOrderParams struct {
	Symbol        string           `json:"symbol" validate:"required"`
	Side          Side             `json:"side" validate:"required,oneof=BUY SELL"`
	ExecutionType ExecutionType    `json:"executionType" validate:"required,oneof=MARKET LIMIT STOP"`
	TimeInForce   TimeInForce      `json:"timeInForce,omitempty" validate:"omitempty,oneof=FAK FAS FOK SOK"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Size          decimal.Decimal  `json:"size"`
}

type CancelBulkParams struct {
	Symbols    []string   `json:"symbols" validate:"min=1,dive,required"`
	Side       Side       `json:"side,omitempty" validate:"omitempty,oneof=BUY SELL"`
	SettleType SettleType `json:"settleType,omitempty" validate:"omitempty,oneof=OPEN CLOSE"`
	Desc       *bool      `json:"desc,omitempty"`
}

type changeOrderBody struct {
	OrderID      int64            `json:"orderId"`
	Price        decimal.Decimal  `json:"price"`
	LosscutPrice *decimal.Decimal `json:"losscutPrice,omitempty"`
}

type cancelOrderBody struct {
	OrderID int64 `json:"orderId"`
}

type cancelOrdersBody struct {
	OrderIDs []int64 `json:"orderIds"`
}

type transferBody struct {
	Amount       decimal.Decimal `json:"amount"`
	TransferType TransferType    `json:"transferType"`
}

type changeLosscutBody struct {
	PositionID   int64           `json:"positionId"`
	LosscutPrice decimal.Decimal `json:"losscutPrice"`
}

type wsTokenBody struct {
	Token string `json:"token,omitempty"`
}

// Price is a convenience for optional decimal fields.
func Price(v decimal.Decimal) *decimal.Decimal {
	return &v
}

func Bool(v bool) *bool {
	return &v
}

func setString(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

func setInt(params url.Values, key string, value int64) {
	if value != 0 {
		params.Set(key, strconv.FormatInt(value, 10))
	}
}

func joinIDs(ids []int64) string {
	out := make([]byte, 0, len(ids)*10)
	for i, id := range ids {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendInt(out, id, 10)
	}
	return string(out)
}
