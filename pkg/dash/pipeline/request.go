package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/komsit37/tickerdash/pkg/dash/types"
)

var (
	validate = validator.New()

	// Yahoo symbols: AAPL, BRK-B, 7203.T, ^GSPC, EURUSD=X.
	tickerPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^]*$`)
)

func init() {
	_ = validate.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
		return tickerPattern.MatchString(fl.Field().String())
	})
}

// MsgInvalidTicker is shown for a blank or malformed ticker.
const MsgInvalidTicker = "Please provide a valid stock ticker."

// InputError describes a request rejected before any fetch.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string { return e.Message }

// NewRequest normalizes raw user input into a Request. Period and interval
// accept codes or labels; empty values take the defaults.
func NewRequest(symbol, period, interval string, showSMA bool, tables []string) (types.Request, error) {
	r := types.Request{
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		Period:   types.DefaultPeriod,
		Interval: types.DefaultInterval,
		ShowSMA:  showSMA,
		Tables:   tables,
	}
	if strings.TrimSpace(period) != "" {
		p, err := types.ParsePeriod(period)
		if err != nil {
			return r, &InputError{Field: "period", Message: fmt.Sprintf("Unknown time frame %q.", period)}
		}
		r.Period = p
	}
	if strings.TrimSpace(interval) != "" {
		i, err := types.ParseInterval(interval)
		if err != nil {
			return r, &InputError{Field: "interval", Message: fmt.Sprintf("Unknown time interval %q.", interval)}
		}
		r.Interval = i
	}
	return r, Validate(r)
}

// Validate checks a request. A blank ticker is reported the same way as a
// malformed one.
func Validate(r types.Request) error {
	r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InputError{Message: err.Error()}
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Symbol":
		return &InputError{Field: "symbol", Message: MsgInvalidTicker}
	case "Period":
		return &InputError{Field: "period", Message: fmt.Sprintf("Unknown time frame %q.", fe.Value())}
	case "Interval":
		return &InputError{Field: "interval", Message: fmt.Sprintf("Unknown time interval %q.", fe.Value())}
	default:
		return &InputError{Field: strings.ToLower(fe.Field()), Message: fe.Error()}
	}
}
