package siesa

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexNumberDecodesMixedShapes(t *testing.T) {
	var row struct {
		A FlexNumber `json:"a"`
		B FlexNumber `json:"b"`
		C FlexNumber `json:"c"`
		D FlexNumber `json:"d"`
	}
	payload := `{"a": 12.5, "b": "1500.75", "c": null, "d": "  "}`
	require.NoError(t, json.Unmarshal([]byte(payload), &row))

	assert.Equal(t, FlexNumber(12.5), row.A)
	assert.Equal(t, FlexNumber(1500.75), row.B)
	assert.Equal(t, FlexNumber(0), row.C)
	assert.Equal(t, FlexNumber(0), row.D)
}

func TestFlexNumberRejectsGarbage(t *testing.T) {
	var n FlexNumber
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &n))
}

func TestFlexStringDecodesNumbers(t *testing.T) {
	var row struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	payload := `{"a": "PV001", "b": 201, "c": null}`
	require.NoError(t, json.Unmarshal([]byte(payload), &row))

	assert.Equal(t, FlexString("PV001"), row.A)
	assert.Equal(t, FlexString("201"), row.B)
	assert.Equal(t, FlexString(""), row.C)
}
