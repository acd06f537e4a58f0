package sheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FullSheet(t *testing.T) {
	csv := "Token,Target Allocation,entry/%(50%),entry2/%(50%)\n" +
		"BTC,50,\"$60,000\",\"$55,000\"\n" +
		"ETH,30,2500,\n" +
		"USDT,20,,\n"

	sheet, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, sheet.Positions, 3)

	btc := sheet.Positions[0]
	assert.Equal(t, "BTC", btc.Token)
	assert.Equal(t, 50.0, btc.TargetPercent)
	require.NotNil(t, btc.Entry1)
	assert.Equal(t, 60000.0, *btc.Entry1)
	require.NotNil(t, btc.Entry2)
	assert.Equal(t, 55000.0, *btc.Entry2)

	eth := sheet.Positions[1]
	require.NotNil(t, eth.Entry1)
	assert.Equal(t, 2500.0, *eth.Entry1)
	assert.Nil(t, eth.Entry2)

	usdt := sheet.Positions[2]
	assert.Nil(t, usdt.Entry1)
	assert.Nil(t, usdt.Entry2)
}

func TestParse_EqualSplitWithoutTargetColumn(t *testing.T) {
	csv := "Token\nBTC\nETH\nSOL\n"

	sheet, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, sheet.Positions, 3)
	for _, p := range sheet.Positions {
		assert.Equal(t, 33.33, p.TargetPercent)
	}
}

func TestParse_DropsEmptyTokensAndDuplicates(t *testing.T) {
	csv := "Token,Target Allocation\n" +
		"BTC,50\n" +
		",10\n" +
		"   ,10\n" +
		"BTC,25\n" +
		"ETH,30\n"

	sheet, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, sheet.Positions, 2)

	// Duplicates collapse to the first occurrence.
	assert.Equal(t, "BTC", sheet.Positions[0].Token)
	assert.Equal(t, 50.0, sheet.Positions[0].TargetPercent)
	assert.Equal(t, "ETH", sheet.Positions[1].Token)
}

func TestParse_MalformedThresholdDegradesToUnset(t *testing.T) {
	csv := "Token,entry/%(50%)\nBTC,not-a-number\n"

	sheet, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Nil(t, sheet.Positions[0].Entry1)
}

func TestParse_HeaderWhitespaceTrimmed(t *testing.T) {
	csv := " Token , Target Allocation \nBTC,40\n"

	sheet, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 40.0, sheet.Positions[0].TargetPercent)
}

func TestParse_MissingTokenColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("Symbol,Target\nBTC,50\n"))
	assert.Error(t, err)
}

func TestParse_EmptySheet(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("Token\n"))
	assert.Error(t, err)
}
