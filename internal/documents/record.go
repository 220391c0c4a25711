// Package documents reads the accounting exports consumed by the engine:
// journal ledgers, the card-transaction feed and the income statement.
//
// All three are JSON. Records keep their raw keys; typed accessors coerce
// values at the boundary so business logic never sees a parse failure.
package documents

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Journal document keys.
const (
	KeyDate        = "da_date"
	KeyDebit       = "mn_bungae1"
	KeyCredit      = "mn_bungae2"
	KeyAccountCode = "cd_acctit"
	KeyAccountName = "nm_acctit"
	KeyMerchant    = "nm_trade"
	KeyRemark      = "nm_remark"
	KeyEntryType   = "nm_gubun_prn"
)

// Card feed keys.
const (
	KeySettlementDate    = "da_sbook"
	KeyTotalAmount       = "mn_total"
	KeyStatus            = "ty_jungstat"
	KeyBusinessCondition = "bizcond"
	KeyBusinessCategory  = "bizcate"
	KeySuggestedAccount  = "nm_acctit_cha"
)

// Income statement keys.
const (
	KeyPriorPeriodTotal = "mn_btotal2"
)

// Record is one row of a document with its original keys.
type Record map[string]interface{}

// Has reports whether the key is present and non-null.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the value as text. Missing and null values yield "".
// Numbers are rendered without exponent so a numeric date such as
// 20250105 reads back as "20250105".
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Number returns the value as a float64. Missing, null and empty values
// yield 0 with no error; anything non-numeric yields 0 and a *FieldError
// wrapping ErrMalformedField.
func (r Record) Number(key string) (float64, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, nil
	}

	var (
		f   float64
		err error
	)
	switch val := v.(type) {
	case float64:
		f = val
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		f, err = strconv.ParseFloat(val.String(), 64)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, nil
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		err = fmt.Errorf("unexpected type %T", v)
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &FieldError{Key: key, Value: v, Err: ErrMalformedField}
	}
	return f, nil
}

// Int returns the value truncated to an integer, with the same coercion
// rules as Number.
func (r Record) Int(key string) (int, error) {
	f, err := r.Number(key)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
