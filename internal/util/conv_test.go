package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUint(t *testing.T) {
	id, err := ParseUint(" 12 ")
	assert.NoError(t, err)
	assert.Equal(t, uint(12), id)

	_, err = ParseUint("-1")
	assert.Error(t, err)
	_, err = ParseUint("abc")
	assert.Error(t, err)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"go", "sql"}, SplitCSV(" go, ,sql ,"))
	assert.Nil(t, SplitCSV(""))
}
