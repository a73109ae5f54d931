package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroPad(t *testing.T) {
	assert.Equal(t, "005930", ZeroPad("5930", 6))
	assert.Equal(t, "068270", ZeroPad("068270", 6))
	assert.Equal(t, "1234567", ZeroPad("1234567", 6))
	assert.Equal(t, "000000", ZeroPad("", 6))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 8080, ParseIntDefault(" 8080 ", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
	assert.Equal(t, 1, ParseIntDefault("x", 1))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitList(" a:9092, ,b:9092 "))
	assert.Nil(t, SplitList(""))
}
