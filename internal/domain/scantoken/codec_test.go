//go:build unit

package scantoken_test

import (
	"encoding/base64"
	"testing"
	"time"

	"coffee-loyalty/internal/domain/scantoken"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	issuedAt := time.UnixMilli(1767225600123).UTC()

	t.Run("round trip preserves all three fields", func(t *testing.T) {
		cases := []struct {
			storeID   string
			issuedAt  time.Time
			signature string
		}{
			{"waters-edge", issuedAt, "abc123"},
			{"store 42", time.UnixMilli(0).UTC(), "f00d"},
			{"café ☕", issuedAt.Add(time.Hour), "deadbeef"},
		}
		for _, c := range cases {
			encoded, err := scantoken.Encode(c.storeID, c.issuedAt, c.signature)
			require.NoError(t, err)

			decoded, err := scantoken.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, c.storeID, decoded.StoreID)
			assert.True(t, c.issuedAt.Equal(decoded.IssuedAt), "issued_at %v != %v", c.issuedAt, decoded.IssuedAt)
			assert.Equal(t, c.signature, decoded.Signature)
		}
	})

	t.Run("encoded token is url safe", func(t *testing.T) {
		encoded, err := scantoken.Encode("s?t/o+r=e", issuedAt, "sig")
		require.NoError(t, err)
		assert.NotContains(t, encoded, "+")
		assert.NotContains(t, encoded, "/")
		assert.NotContains(t, encoded, "=")
	})

	t.Run("issued_at is truncated to milliseconds", func(t *testing.T) {
		precise := issuedAt.Add(999 * time.Microsecond)
		encoded, err := scantoken.Encode("s", precise, "sig")
		require.NoError(t, err)
		decoded, err := scantoken.Decode(encoded)
		require.NoError(t, err)
		assert.True(t, issuedAt.Equal(decoded.IssuedAt))
	})

	t.Run("padded and whitespace wrapped tokens decode", func(t *testing.T) {
		raw := base64.URLEncoding.EncodeToString([]byte("store|1000|sig"))
		decoded, err := scantoken.Decode("  " + raw + "\n")
		require.NoError(t, err)
		assert.Equal(t, "store", decoded.StoreID)
		assert.Equal(t, int64(1000), decoded.IssuedAt.UnixMilli())
	})

	t.Run("encode rejects delimiter in fields", func(t *testing.T) {
		_, err := scantoken.Encode("a|b", issuedAt, "sig")
		assert.ErrorIs(t, err, scantoken.ErrInvalidStoreID)

		_, err = scantoken.Encode("", issuedAt, "sig")
		assert.ErrorIs(t, err, scantoken.ErrInvalidStoreID)

		_, err = scantoken.Encode("store", issuedAt, "")
		assert.ErrorIs(t, err, scantoken.ErrMalformedToken)
	})
}

func TestDecodeMalformed(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	cases := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "whitespace only", token: "   "},
		{name: "invalid charset", token: "not*base64!"},
		{name: "two fields", token: enc("store|1000")},
		{name: "four fields", token: enc("store|1000|sig|extra")},
		{name: "empty store", token: enc("|1000|sig")},
		{name: "empty timestamp", token: enc("store||sig")},
		{name: "empty signature", token: enc("store|1000|")},
		{name: "non numeric timestamp", token: enc("store|yesterday|sig")},
		{name: "negative timestamp", token: enc("store|-5|sig")},
		{name: "plus signed timestamp", token: enc("store|+1000|sig")},
		{name: "zero padded timestamp", token: enc("store|01000|sig")},
		{name: "signed zero padded timestamp", token: enc("store|+01000|sig")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := scantoken.Decode(c.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, scantoken.ErrMalformedToken)
		})
	}
}
