package errors

import (
	stderrors "errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MessageIncludesOperationAndCause(t *testing.T) {
	err := NewError(KindBind, "ERROR on binding").Base(syscall.EADDRINUSE)

	assert.Equal(t, "ERROR on binding: address already in use", err.Error())
	assert.Equal(t, err.Error(), err.String())
	assert.Equal(t, KindBind, err.Kind())
}

func TestError_WithoutCause(t *testing.T) {
	err := NewError(KindUsage, "ERROR, no port provided")
	assert.Equal(t, "ERROR, no port provided", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestError_UnwrapReachesOSError(t *testing.T) {
	err := NewError(KindRead, "ERROR reading from socket").Base(syscall.ECONNRESET)

	assert.True(t, stderrors.Is(err, syscall.ECONNRESET))

	var errno syscall.Errno
	require.True(t, stderrors.As(err, &errno))
	assert.Equal(t, syscall.ECONNRESET, errno)
}

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("run: %w", NewError(KindAccept, "ERROR on accept").Base(syscall.EINVAL))

	assert.True(t, stderrors.Is(err, NewError(KindAccept)))
	assert.False(t, stderrors.Is(err, NewError(KindWrite)))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindUnknown},
		{name: "plain error", err: stderrors.New("boom"), want: KindUnknown},
		{name: "direct", err: NewError(KindWrite, "ERROR writing to socket"), want: KindWrite},
		{name: "wrapped", err: fmt.Errorf("outer: %w", NewError(KindConfig, "bad")), want: KindConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "resource-creation", KindResourceCreation.String())
	assert.Equal(t, "bind", KindBind.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
