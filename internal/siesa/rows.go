package siesa

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexNumber decodes a JSON value that the ERP emits either as a number or
// as a numeric string. Empty strings and nulls decode to zero.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = FlexNumber(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = FlexNumber(f)
	return nil
}

// FlexString decodes a JSON value that may arrive as a string, a number, or
// null. Numbers keep their literal representation.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(data)
	return nil
}

// PriceRow is one row of the price list query. Column names follow the ERP
// schema verbatim.
type PriceRow struct {
	CompanyID *FlexNumber `json:"f126_id_cia"`
	PriceList FlexString  `json:"f126_id_lista_precio"`
	Unit      FlexString  `json:"f126_id_unidad_medida"`
	Price     FlexNumber  `json:"f126_precio"`
	UpdatedAt FlexString  `json:"f126_fecha_ts_actualizacion"`
	CreatedAt FlexString  `json:"f126_fecha_ts_creacion"`
}

// timestamp prefers the update stamp and falls back to creation.
func (r PriceRow) timestamp() string {
	if r.UpdatedAt != "" {
		return string(r.UpdatedAt)
	}
	return string(r.CreatedAt)
}

// companyID treats a missing company column as company 1.
func (r PriceRow) companyID() int {
	if r.CompanyID == nil {
		return 1
	}
	return int(*r.CompanyID)
}

// StockRow is one row of the warehouse inventory query.
type StockRow struct {
	CompanyID *FlexNumber `json:"f120_id_cia"`
	Sede      FlexString  `json:"f150_id"`
	OnHand    FlexNumber  `json:"f400_cant_existencia_1"`
	Committed FlexNumber  `json:"f400_cant_pos_1"`
}

func (r StockRow) companyID() int {
	if r.CompanyID == nil {
		return 1
	}
	return int(*r.CompanyID)
}
