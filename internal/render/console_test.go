package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_Plain(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	require.False(t, c.Styled, "buffers are not terminals")

	torque := 85.0
	require.NoError(t, Print(c, testTable(), []item{
		{Name: "Bosch Performance Line CX", Rating: 8, Torque: &torque},
		{Name: "Brose"},
	}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Modello"))
	assert.True(t, strings.HasPrefix(lines[1], strings.Repeat("-", 25)+"  "))
	assert.Contains(t, lines[2], "8.0")
	assert.Contains(t, lines[2], "85 Nm")
	assert.Contains(t, lines[3], "N/D")
	assert.Equal(t, strings.Index(lines[0], "Valutazione"), strings.Index(lines[2], "8.0"))
}

func TestConsole_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(NewConsole(&buf), testTable(), nil))
	assert.Equal(t, NoData+"\n", buf.String())
}

func TestConsole_Styled(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{Out: &buf, Styled: true}
	require.NoError(t, Print(c, testTable(), []item{{Name: "Shimano EP801", Rating: 7.5}}))
	assert.Contains(t, buf.String(), "Shimano EP801")
	assert.Contains(t, buf.String(), "7.5")
}

func TestConsole_Truncate(t *testing.T) {
	c := &Console{MaxWidth: 5}
	assert.Equal(t, "abcd…", c.truncate("abcdefgh"))
	assert.Equal(t, "abc", c.truncate("abc"))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcd", padRight("abcd", 2))
	assert.Equal(t, "日本", padRight("日本", 4))
}
