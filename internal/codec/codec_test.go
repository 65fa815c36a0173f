package codec

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase32_RoundTrip(t *testing.T) {
	for n := 0; n <= 64; n++ {
		b := make([]byte, n)
		_, err := rand.Read(b)
		require.NoError(t, err)

		got := DecodeBase32(EncodeBase32(b))
		if n == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, b, got, "length %d", n)
	}
}

func TestDecodeBase32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{name: "rfc vector", in: "MZXW6YTBOI", want: []byte("foobar")},
		{name: "padded", in: "MZXW6YTBOI======", want: []byte("foobar")},
		{name: "lower case", in: "mzxw6ytboi", want: []byte("foobar")},
		{name: "grouped", in: "mzxw 6ytb-oi", want: []byte("foobar")},
		{name: "invalid symbol", in: "MZXW1YTBOI", want: nil},
		{name: "garbage", in: "!!!", want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DecodeBase32(tt.in))
		})
	}
}

func TestEncodeBase32_NoPadding(t *testing.T) {
	assert.Equal(t, "MZXW6", EncodeBase32([]byte("foo")))
}
