package datagrid

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringConverter(t *testing.T) {
	c := NewStringConverter("q")

	t.Run("absent parameter decodes to nil", func(t *testing.T) {
		value, err := c.Decode(url.Values{})
		require.NoError(t, err)
		assert.Nil(t, value)
		assert.False(t, c.ExistsIn(url.Values{}))
	})

	t.Run("empty value still exists", func(t *testing.T) {
		params := url.Values{"q": {""}}
		assert.True(t, c.ExistsIn(params))

		value, err := c.Decode(params)
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("value passes through", func(t *testing.T) {
		value, err := c.Decode(url.Values{"q": {"alice"}})
		require.NoError(t, err)
		assert.Equal(t, "alice", value)
	})

	t.Run("encode", func(t *testing.T) {
		wire, ok := c.Encode("alice")
		assert.True(t, ok)
		assert.Equal(t, "alice", wire)

		_, ok = c.Encode(nil)
		assert.False(t, ok)
	})
}

func TestComboConverter(t *testing.T) {
	c := NewComboConverter("label")

	tests := []struct {
		name string
		wire string
		want any
	}{
		{"empty means no selection", "", nil},
		{"trailing wildcard stripped", "eng*", "eng"},
		{"plain value passes through", "eng", "eng"},
		{"only final wildcard stripped", "a*b*", "a*b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := c.Decode(url.Values{"label": {tt.wire}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestDateTimeConverter(t *testing.T) {
	c := NewDateTimeConverter("seen", time.UTC)

	t.Run("accepts space separated layout", func(t *testing.T) {
		value, err := c.Decode(url.Values{"seen": {"2011-03-04 10:11:12"}})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2011, 3, 4, 10, 11, 12, 0, time.UTC), value)
	})

	t.Run("accepts RFC3339", func(t *testing.T) {
		value, err := c.Decode(url.Values{"seen": {"2011-03-04T10:11:12Z"}})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2011, 3, 4, 10, 11, 12, 0, time.UTC), value)
	})

	t.Run("interprets naive input in converter location", func(t *testing.T) {
		loc, err := time.LoadLocation("Europe/Prague")
		require.NoError(t, err)

		local := NewDateTimeConverter("seen", loc)
		value, err := local.Decode(url.Values{"seen": {"2011-03-04T10:11:12"}})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2011, 3, 4, 10, 11, 12, 0, loc), value)
	})

	t.Run("unparsable input is a decode error", func(t *testing.T) {
		_, err := c.Decode(url.Values{"seen": {"not-a-time"}})
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "seen", decodeErr.Name)
		assert.Equal(t, "not-a-time", decodeErr.Wire)
	})

	t.Run("encode is RFC3339", func(t *testing.T) {
		wire, ok := c.Encode(time.Date(2011, 3, 4, 10, 11, 12, 0, time.UTC))
		assert.True(t, ok)
		assert.Equal(t, "2011-03-04T10:11:12Z", wire)
	})
}

func TestDateConverter(t *testing.T) {
	c := NewDateConverter("day")

	t.Run("valid date", func(t *testing.T) {
		value, err := c.Decode(url.Values{"day": {"2011-03-04"}})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2011, 3, 4, 0, 0, 0, 0, time.UTC), value)
	})

	t.Run("malformed input decodes to nil", func(t *testing.T) {
		for _, wire := range []string{"nonsense", "2011-03", "2011-0x-04"} {
			value, err := c.Decode(url.Values{"day": {wire}})
			require.NoError(t, err, wire)
			assert.Nil(t, value, wire)
		}
	})

	t.Run("impossible calendar date fails", func(t *testing.T) {
		_, err := c.Decode(url.Values{"day": {"2011-13-40"}})
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})

	t.Run("encode", func(t *testing.T) {
		wire, ok := c.Encode(time.Date(2011, 3, 4, 0, 0, 0, 0, time.UTC))
		assert.True(t, ok)
		assert.Equal(t, "2011-03-04", wire)
	})
}

func TestBooleanConverter(t *testing.T) {
	c := NewBooleanConverter("active")

	t.Run("only literal true decodes to true", func(t *testing.T) {
		tests := []struct {
			wire string
			want bool
		}{
			{"true", true},
			{"false", false},
			{"True", false},
			{"1", false},
			{"", false},
		}
		for _, tt := range tests {
			value, err := c.Decode(url.Values{"active": {tt.wire}})
			require.NoError(t, err, tt.wire)
			assert.Equal(t, tt.want, value, tt.wire)
		}
	})

	t.Run("encode is three-valued", func(t *testing.T) {
		wire, ok := c.Encode(nil)
		assert.True(t, ok)
		assert.Equal(t, "null", wire)

		wire, ok = c.Encode(true)
		assert.True(t, ok)
		assert.Equal(t, "true", wire)

		wire, ok = c.Encode(false)
		assert.True(t, ok)
		assert.Equal(t, "false", wire)
	})
}

func TestIntegerConverter(t *testing.T) {
	t.Run("parses decimal integers", func(t *testing.T) {
		c := NewIntegerConverter("n")
		value, err := c.Decode(url.Values{"n": {"42"}})
		require.NoError(t, err)
		assert.Equal(t, 42, value)
	})

	t.Run("unparsable decodes to nil", func(t *testing.T) {
		c := NewIntegerConverter("n")
		value, err := c.Decode(url.Values{"n": {"abc"}})
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("out of range decodes to nil without clamping", func(t *testing.T) {
		c := NewIntegerConverter("n", WithMin(0), WithMax(10))

		value, err := c.Decode(url.Values{"n": {"-1"}})
		require.NoError(t, err)
		assert.Nil(t, value)

		value, err = c.Decode(url.Values{"n": {"11"}})
		require.NoError(t, err)
		assert.Nil(t, value)

		value, err = c.Decode(url.Values{"n": {"10"}})
		require.NoError(t, err)
		assert.Equal(t, 10, value)
	})

	t.Run("encode", func(t *testing.T) {
		c := NewIntegerConverter("n")
		wire, ok := c.Encode(42)
		assert.True(t, ok)
		assert.Equal(t, "42", wire)

		_, ok = c.Encode("42")
		assert.False(t, ok)
	})
}
