package gmocoin

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		return &ValidationError{Field: field, Reason: reason}
	}

	return &ValidationError{Field: "", Reason: err.Error()}
}

func checkPositive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return &ValidationError{Field: field, Reason: "должно быть больше нуля"}
	}
	return nil
}

// checkPrice: LIMIT and STOP need a price, MARKET must not carry one.
func checkPrice(execType ExecutionType, price *decimal.Decimal) error {
	switch execType {
	case ExecutionTypeMarket:
		if price != nil {
			return &ValidationError{Field: "price", Reason: "не допускается для MARKET"}
		}
	case ExecutionTypeLimit, ExecutionTypeStop:
		if price == nil {
			return &ValidationError{Field: "price", Reason: "обязательна для " + string(execType)}
		}
		return checkPositive("price", *price)
	}
	return nil
}

func checkTimeInForce(execType ExecutionType, tif TimeInForce) error {
	if tif == TimeInForceSOK && execType != ExecutionTypeLimit {
		return &ValidationError{Field: "timeInForce", Reason: "SOK допускается только для LIMIT"}
	}
	return nil
}

func (p OrderParams) Validate() error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if err := checkPositive("size", p.Size); err != nil {
		return err
	}
	if err := checkPrice(p.ExecutionType, p.Price); err != nil {
		return err
	}
	if p.LosscutPrice != nil {
		if err := checkPositive("losscutPrice", *p.LosscutPrice); err != nil {
			return err
		}
	}
	return checkTimeInForce(p.ExecutionType, p.TimeInForce)
}

func (p CloseOrderParams) Validate() error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if err := checkPositive("settlePosition.size", p.SettlePosition[0].Size); err != nil {
		return err
	}
	if err := checkPrice(p.ExecutionType, p.Price); err != nil {
		return err
	}
	return checkTimeInForce(p.ExecutionType, p.TimeInForce)
}

func (p CloseBulkOrderParams) Validate() error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if err := checkPositive("size", p.Size); err != nil {
		return err
	}
	if err := checkPrice(p.ExecutionType, p.Price); err != nil {
		return err
	}
	return checkTimeInForce(p.ExecutionType, p.TimeInForce)
}

func (p CancelBulkParams) Validate() error {
	return validateStruct(p)
}
