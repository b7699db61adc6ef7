package infra

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func caller() Frame {
	var PCs [3]uintptr
	n := runtime.Callers(2, PCs[:])
	frames := runtime.CallersFrames(PCs[:n])
	frame, _ := frames.Next()
	return Frame(frame.PC)
}

func TestFrameFormat(t *testing.T) {
	frame := caller()
	require.Equal(t, "err_stack_test.go", fmt.Sprintf("%s", frame))
	require.Equal(t, "TestFrameFormat", fmt.Sprintf("%n", frame))
	require.Equal(t, "err_stack_test.go:22", fmt.Sprintf("%v", frame))

	unknown := Frame(0)
	require.Equal(t, "unknownFile", fmt.Sprintf("%s", unknown))
	require.Equal(t, "0", fmt.Sprintf("%d", unknown))
}

func TestFrameMarshal(t *testing.T) {
	frame := caller()
	txt, err := frame.MarshalText()
	require.NoError(t, err)
	require.Contains(t, string(txt), "TestFrameMarshal")

	data, err := json.Marshal(frame)
	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Contains(t, decoded["func"], "TestFrameMarshal")

	unknown, err := Frame(0).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "unknownFrame", string(unknown))
}

func TestErrorStackWrap(t *testing.T) {
	sentinel := errors.New("sentinel")

	err := WrapErrorStack(sentinel)
	require.Error(t, err)
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, "sentinel", err.Error())

	err = WrapErrorStackWithMessage(sentinel, "more context")
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, "more context: sentinel", err.Error())

	err = NewErrorStack("standalone")
	require.Equal(t, "standalone", err.Error())

	require.Nil(t, WrapErrorStack(nil))
	require.Equal(t, "fallback", WrapErrorStackWithMessage(nil, "fallback").Error())
}

func TestErrorStackFramesRecorded(t *testing.T) {
	err := WrapErrorStack(errors.New("boom"))
	es, ok := err.(*errorStack)
	require.True(t, ok)
	require.NotEmpty(t, es.frames)
	txt, merr := es.frames[0].MarshalText()
	require.NoError(t, merr)
	require.Contains(t, string(txt), "TestErrorStackFramesRecorded")
}
