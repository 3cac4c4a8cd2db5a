package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthCountJSON(t *testing.T) {
	data, err := json.Marshal(PossibleMonths(27))
	require.NoError(t, err)
	assert.Equal(t, "27", string(data))

	data, err = json.Marshal(NoBreakEven())
	require.NoError(t, err)
	assert.Equal(t, `"not_possible"`, string(data))

	var m MonthCount
	require.NoError(t, json.Unmarshal([]byte("27"), &m))
	assert.Equal(t, PossibleMonths(27), m)
	require.NoError(t, json.Unmarshal([]byte(`"not_possible"`), &m))
	assert.Equal(t, NoBreakEven(), m)

	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &m))
}

func TestRateValueJSON(t *testing.T) {
	data, err := json.Marshal(PossibleRate(0.0412))
	require.NoError(t, err)
	assert.Equal(t, "0.0412", string(data))

	data, err = json.Marshal(NoRate())
	require.NoError(t, err)
	assert.Equal(t, `"not_possible"`, string(data))

	var r RateValue
	require.NoError(t, json.Unmarshal([]byte("0.0412"), &r))
	assert.Equal(t, PossibleRate(0.0412), r)
	require.NoError(t, json.Unmarshal([]byte(`"not_possible"`), &r))
	assert.Equal(t, NoRate(), r)
}

func TestRecoupResultJSON(t *testing.T) {
	result := RecoupResult{
		SimpleBreakEvenMonths:   PossibleMonths(8),
		InterestBreakEvenMonths: NoBreakEven(),
		LifetimeInterestDelta:   -1234.56,
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"simple_break_even_months": 8,
		"interest_break_even_months": "not_possible",
		"lifetime_interest_delta": -1234.56
	}`, string(data))
}
