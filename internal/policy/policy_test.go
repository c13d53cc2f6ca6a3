package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	t.Run("owner is allowed", func(t *testing.T) {
		assert.NoError(t, Authorize(7, 7, KindList))
	})

	t.Run("denial reasons are exact per kind", func(t *testing.T) {
		cases := []struct {
			kind   Kind
			reason string
		}{
			{KindUser, "you are not the requested user"},
			{KindList, "you are not the owner of the requested list"},
			{KindItem, "you are not the list owner"},
		}
		for _, tc := range cases {
			err := Authorize(7, 8, tc.kind)
			require.Error(t, err)
			denied, ok := err.(*DeniedError)
			require.True(t, ok)
			assert.Equal(t, tc.reason, denied.Reason)
			assert.Equal(t, tc.reason, denied.Error())
		}
	})
}
