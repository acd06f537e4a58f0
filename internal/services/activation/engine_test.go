package activation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/cryptofolio/internal/models"
)

func ptr(v float64) *float64 { return &v }

var testStables = NewStables([]string{"USDT", "Tether", "BCC"})

func TestComputeFraction_StableAlwaysFull(t *testing.T) {
	pos := models.Position{Token: "usdt", TargetPercent: 50, Entry1: ptr(1.0), Entry2: ptr(0.5)}

	// Price, thresholds, even a missing price are all irrelevant.
	assert.Equal(t, 1.0, ComputeFraction(pos, ptr(999.0), testStables))
	assert.Equal(t, 1.0, ComputeFraction(pos, nil, testStables))

	assert.Equal(t, 1.0, ComputeFraction(models.Position{Token: "TETHER"}, nil, testStables))
	assert.Equal(t, 1.0, ComputeFraction(models.Position{Token: "bcc"}, nil, testStables))
}

func TestComputeFraction_SingleThresholdBinary(t *testing.T) {
	pos := models.Position{Token: "BTC", Entry1: ptr(60000.0)}

	assert.Equal(t, 1.0, ComputeFraction(pos, ptr(59000.0), testStables))
	assert.Equal(t, 1.0, ComputeFraction(pos, ptr(60000.0), testStables)) // at the threshold counts
	assert.Equal(t, 0.0, ComputeFraction(pos, ptr(61000.0), testStables))
	assert.Equal(t, 0.0, ComputeFraction(pos, nil, testStables)) // unknown price never triggers
}

func TestComputeFraction_TwoThresholdHalfCredit(t *testing.T) {
	pos := models.Position{Token: "ETH", Entry1: ptr(3000.0), Entry2: ptr(2500.0)}

	// Each half contributes independently: only {0, 0.5, 1} are possible.
	assert.Equal(t, 0.0, ComputeFraction(pos, ptr(3500.0), testStables))
	assert.Equal(t, 0.5, ComputeFraction(pos, ptr(2800.0), testStables))
	assert.Equal(t, 1.0, ComputeFraction(pos, ptr(2400.0), testStables))
	assert.Equal(t, 0.0, ComputeFraction(pos, nil, testStables))
}

func TestComputeFraction_NoThresholdsNotStable(t *testing.T) {
	pos := models.Position{Token: "SOL", TargetPercent: 10}
	assert.Equal(t, 0.0, ComputeFraction(pos, ptr(100.0), testStables))
}

func TestComputeRecord_OverrideSupersedes(t *testing.T) {
	pos := models.Position{Token: "BTC", TargetPercent: 40, Entry1: ptr(60000.0)}

	rec := ComputeRecord(pos, "bitcoin", ptr(61000.0), ptr(0.75), testStables)
	assert.True(t, rec.Overridden)
	assert.Equal(t, 0.75, rec.ActivatedFraction)
	assert.Equal(t, 30.0, rec.ActivatedPercent)

	// Without the override the computed default applies.
	rec = ComputeRecord(pos, "bitcoin", ptr(61000.0), nil, testStables)
	assert.False(t, rec.Overridden)
	assert.Equal(t, 0.0, rec.ActivatedFraction)
}

func TestComputeRecord_OverrideClamped(t *testing.T) {
	pos := models.Position{Token: "BTC", TargetPercent: 40}

	rec := ComputeRecord(pos, "", nil, ptr(1.5), testStables)
	assert.Equal(t, 1.0, rec.ActivatedFraction)

	rec = ComputeRecord(pos, "", nil, ptr(-0.2), testStables)
	assert.Equal(t, 0.0, rec.ActivatedFraction)
}

func TestActiveAlloc(t *testing.T) {
	records := []models.ActivationRecord{
		{ActivatedPercent: 50},
		{ActivatedPercent: 25.5},
		{ActivatedPercent: 0},
	}
	assert.Equal(t, 75.5, ActiveAlloc(records))
}

func TestParseThreshold(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"60000", ptr(60000)},
		{"$60,000", ptr(60000)},
		{" $1,234.56 ", ptr(1234.56)},
		{"", nil},
		{"   ", nil},
		{"abc", nil},
		{"$", nil},
		{"0", nil},      // non-positive degrades to unset
		{"-500", nil},
	}

	for _, c := range cases {
		got := ParseThreshold(c.in)
		if c.want == nil {
			assert.Nil(t, got, "input %q", c.in)
		} else {
			if assert.NotNil(t, got, "input %q", c.in) {
				assert.Equal(t, *c.want, *got, "input %q", c.in)
			}
		}
	}
}
