package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/npezzotti/go-social/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestChatFrame(t *testing.T) {
	ts := Now()
	f := ChatFrame(types.User{Id: 1, Username: "alice"}, "hello", ts)

	assert.Equal(t, FrameChat, f.Type, "expected chat frame type")
	assert.Equal(t, 1, f.From, "expected sender id to be set")
	assert.Equal(t, "alice", f.Username, "expected sender username to be set")
	assert.Equal(t, "hello", f.Text, "expected text to be set")
	assert.Equal(t, ts, f.Timestamp, "expected timestamp to be set")
}

func TestGroupChatFrame(t *testing.T) {
	ts := Now()
	f := GroupChatFrame(types.User{Id: 1, Username: "alice"}, 5, "hello", ts)

	assert.Equal(t, FrameGroupChat, f.Type, "expected group chat frame type")
	assert.Equal(t, 5, f.GroupId, "expected group id to be set")
	assert.Equal(t, 1, f.From, "expected sender id to be set")
}

func TestErrorFrame(t *testing.T) {
	f := ErrorFrame(FrameChat, "message is empty")

	assert.Equal(t, FrameError, f.Type, "expected error frame type")
	assert.Equal(t, FrameChat, f.Kind, "expected kind to name the rejected frame")
	assert.Equal(t, "message is empty", f.Error, "expected error message to be set")
	assert.False(t, f.Timestamp.IsZero(), "expected timestamp to be stamped")
}

func Test_frameSerialization(t *testing.T) {
	ts := Now()
	f := ChatFrame(types.User{Id: 1, Username: "alice"}, "hello", ts)

	expected := `{"type":"chat","from":1,"username":"alice","text":"hello","timestamp":"` +
		ts.Format(time.RFC3339Nano) + `"}`

	bytes, err := json.Marshal(f)
	assert.NoError(t, err, "expected no error during serialization")
	assert.Equal(t, expected, string(bytes), "expected serialized frame to match the expected format")
}

func Test_clientFrameDeserialization(t *testing.T) {
	raw := `{"type":"group-chat","group_id":5,"text":"hello group"}`

	var f ClientFrame
	err := json.Unmarshal([]byte(raw), &f)
	assert.NoError(t, err, "expected no error during deserialization")
	assert.Equal(t, FrameGroupChat, f.Type, "expected frame type to be parsed")
	assert.Equal(t, 5, f.GroupId, "expected group id to be parsed")
	assert.Equal(t, "hello group", f.Text, "expected text to be parsed")
}
