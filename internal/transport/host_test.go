// internal/transport/host_test.go
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// echoDispatcher records every envelope and answers with its request id.
type echoDispatcher struct {
	envelopes []*CommandEnvelope
}

func (d *echoDispatcher) Dispatch(_ context.Context, env *CommandEnvelope) *ResponseEnvelope {
	d.envelopes = append(d.envelopes, env)
	return &ResponseEnvelope{
		RequestID: env.RequestID,
		Success:   true,
		Message:   "ok",
	}
}

func encodeCommand(t *testing.T, env *CommandEnvelope) []byte {
	t.Helper()

	payload, err := json.Marshal(env)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, payload))
	return buf.Bytes()
}

func decodeResponses(t *testing.T, wire []byte) []*ResponseEnvelope {
	t.Helper()

	reader := NewFrameReader()
	frames, err := reader.Feed(wire)
	require.NoError(t, err)
	require.Zero(t, reader.Pending())

	responses := make([]*ResponseEnvelope, 0, len(frames))
	for _, frame := range frames {
		var resp ResponseEnvelope
		require.NoError(t, json.Unmarshal(frame, &resp))
		responses = append(responses, &resp)
	}
	return responses
}

func TestHost_EchoesRequestIDs(t *testing.T) {
	input := append(
		encodeCommand(t, &CommandEnvelope{RequestID: "req-1", Command: CommandStatus}),
		encodeCommand(t, &CommandEnvelope{RequestID: "req-2", Command: CommandListPrinters})...,
	)

	dispatcher := &echoDispatcher{}
	var out bytes.Buffer
	host := NewHost(bytes.NewReader(input), &out, dispatcher, zap.NewNop())

	require.NoError(t, host.Run(context.Background()))

	require.Len(t, dispatcher.envelopes, 2)
	assert.Equal(t, CommandStatus, dispatcher.envelopes[0].Command)
	assert.Equal(t, CommandListPrinters, dispatcher.envelopes[1].Command)

	responses := decodeResponses(t, out.Bytes())
	require.Len(t, responses, 2)
	assert.Equal(t, "req-1", responses[0].RequestID)
	assert.Equal(t, "req-2", responses[1].RequestID)
	assert.True(t, responses[0].Success)
	assert.True(t, responses[1].Success)
}

func TestHost_CleanShutdownOnEOF(t *testing.T) {
	host := NewHost(bytes.NewReader(nil), &bytes.Buffer{}, &echoDispatcher{}, zap.NewNop())

	assert.NoError(t, host.Run(context.Background()))
}

func TestHost_MalformedFrameWithRecoverableID(t *testing.T) {
	// Valid JSON, wrong envelope shape: command must be a string.
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte(`{"requestId":"req-bad","command":7}`)))

	dispatcher := &echoDispatcher{}
	var out bytes.Buffer
	host := NewHost(bytes.NewReader(buf.Bytes()), &out, dispatcher, zap.NewNop())

	require.NoError(t, host.Run(context.Background()))
	assert.Empty(t, dispatcher.envelopes)

	responses := decodeResponses(t, out.Bytes())
	require.Len(t, responses, 1)
	assert.Equal(t, "req-bad", responses[0].RequestID)
	assert.False(t, responses[0].Success)
	assert.Equal(t, "malformed request", responses[0].Error)
}

func TestHost_UnrecoverableFrameIsDropped(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte(`not json at all`)))
	buf.Write(encodeCommand(t, &CommandEnvelope{RequestID: "req-ok", Command: CommandStatus}))

	dispatcher := &echoDispatcher{}
	var out bytes.Buffer
	host := NewHost(bytes.NewReader(buf.Bytes()), &out, dispatcher, zap.NewNop())

	require.NoError(t, host.Run(context.Background()))

	// The garbage frame yields no response; the next frame still works.
	responses := decodeResponses(t, out.Bytes())
	require.Len(t, responses, 1)
	assert.Equal(t, "req-ok", responses[0].RequestID)
}

func TestHost_CorruptedPrefixStopsLoop(t *testing.T) {
	// A length prefix beyond the frame limit means the stream position is
	// lost; the host must return the error instead of reading on.
	input := []byte{0xFF, 0xFF, 0xFF, 0xFF}

	host := NewHost(bytes.NewReader(input), &bytes.Buffer{}, &echoDispatcher{}, zap.NewNop())

	err := host.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")
}
