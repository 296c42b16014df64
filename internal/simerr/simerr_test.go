package simerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategory_StringNamesEachValue(t *testing.T) {
	require.Equal(t, "programming", Programming.String())
	require.Equal(t, "soft", Soft.String())
	require.Equal(t, "roll", Roll.String())
	require.Equal(t, "external_io", ExternalIO.String())
	require.Equal(t, "unknown", Category(255).String())
}

func TestNew_FormatsWithoutWrappedCause(t *testing.T) {
	err := New(Soft, "target unavailable")
	require.Equal(t, "soft: target unavailable", err.Error())
	require.Nil(t, err.Unwrap())
}

func TestWrap_FormatsWithCauseAndUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ExternalIO, "snapshot write failed", cause)
	require.Equal(t, "external_io: snapshot write failed: disk full", err.Error())
	require.ErrorIs(t, err, cause)
}
