package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(in)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", in)
	}
}

func TestMonotonicWithinSameInstant(t *testing.T) {
	tm := time.Unix(1700000000, 0)
	a := idx.NewAt(tm)
	b := idx.NewAt(tm)

	require.Less(t, a.String(), b.String())
}
