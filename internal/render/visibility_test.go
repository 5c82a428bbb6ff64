package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibility_FirstColumnFixed(t *testing.T) {
	v := NewVisibility(4)
	assert.ErrorIs(t, v.Hide(0), ErrFixedColumn)
	assert.ErrorIs(t, v.Toggle(0), ErrFixedColumn)
	assert.ErrorIs(t, v.Show(0), ErrFixedColumn)
	assert.False(t, v.Hidden(0))
}

func TestVisibility_Range(t *testing.T) {
	v := NewVisibility(3)
	assert.ErrorIs(t, v.Hide(3), ErrColumnRange)
	assert.ErrorIs(t, v.Hide(-1), ErrColumnRange)
}

func TestVisibility_Toggle(t *testing.T) {
	v := NewVisibility(4)
	require.NoError(t, v.Toggle(2))
	assert.True(t, v.Hidden(2))
	require.NoError(t, v.Toggle(2))
	assert.False(t, v.Hidden(2))

	require.NoError(t, v.Hide(3))
	require.NoError(t, v.Hide(1))
	assert.Equal(t, []int{1, 3}, v.HiddenColumns())
	assert.Equal(t, "1,3", v.String())

	require.NoError(t, v.Show(1))
	assert.Equal(t, "3", v.String())
}

func TestParseVisibility(t *testing.T) {
	v, err := ParseVisibility(5, " 2, 4,,")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, v.HiddenColumns())

	_, err = ParseVisibility(5, "0")
	assert.ErrorIs(t, err, ErrFixedColumn)

	_, err = ParseVisibility(5, "x")
	assert.ErrorIs(t, err, ErrColumnRange)
}

func TestParseShown(t *testing.T) {
	v, err := ParseShown(5, []string{"1", " 3"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, v.HiddenColumns())

	// An empty submission hides everything but the first column.
	v, err = ParseShown(4, nil)
	require.NoError(t, err)
	assert.Equal(t, "1,2,3", v.String())

	// The first column is always shown, checked or not.
	v, err = ParseShown(3, []string{"0", "2"})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, v.HiddenColumns())

	_, err = ParseShown(3, []string{"3"})
	assert.ErrorIs(t, err, ErrColumnRange)
	_, err = ParseShown(3, []string{"x"})
	assert.ErrorIs(t, err, ErrColumnRange)
}

func TestVisibility_Stylesheet(t *testing.T) {
	v := NewVisibility(4)
	assert.Empty(t, string(v.Stylesheet("t")))

	require.NoError(t, v.Hide(2))
	assert.Equal(t, "#t th:nth-child(3), #t td:nth-child(3) { display: none; }\n", string(v.Stylesheet("t")))
}

func TestVisibility_WriteToggles(t *testing.T) {
	v := NewVisibility(3)
	require.NoError(t, v.Hide(2))

	var buf bytes.Buffer
	require.NoError(t, v.WriteToggles(&buf, "t", []string{"Modello", "Marca", "Valutazione"}))
	out := buf.String()

	assert.NotContains(t, out, "Modello")
	assert.Contains(t, out, `name="show" value="1" data-column="1" checked> Marca`)
	assert.Contains(t, out, `name="show" value="2" data-column="2"> Valutazione`)
}
