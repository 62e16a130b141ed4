package server

import (
	"testing"

	"github.com/npezzotti/go-social/internal/database"
	"github.com/npezzotti/go-social/internal/stats"
	"github.com/npezzotti/go-social/internal/testutil"
	"github.com/npezzotti/go-social/internal/types"
	"github.com/stretchr/testify/assert"
)

func Test_queueMessage(t *testing.T) {
	t.Run("successful queue", func(t *testing.T) {
		c := &Client{
			send: make(chan *ServerFrame, 1),
			log:  testutil.TestLogger(t),
		}

		res := c.queueMessage(&ServerFrame{})
		assert.True(t, res, "expected queueMessage to return true when channel is not full")

		select {
		case frame := <-c.send:
			assert.NotNil(t, frame, "expected a frame to be queued for the client")
		default:
			t.Error("expected a frame to be queued for the client, but none was")
		}
	})
	t.Run("channel full", func(t *testing.T) {
		c := &Client{
			send: make(chan *ServerFrame, 1),
			log:  testutil.TestLogger(t),
		}

		c.send <- &ServerFrame{} // pre-fill the send channel to simulate a full buffer
		res := c.queueMessage(&ServerFrame{})
		assert.False(t, res, "expected queueMessage to return false when channel is full")
	})
}

func Test_close(t *testing.T) {
	c := &Client{
		stop: make(chan struct{}),
	}

	c.close()
	c.close() // second close must not panic

	select {
	case <-c.stop:
		// channel is closed as expected
	default:
		t.Error("expected stop channel to be closed")
	}
}

func Test_handleFrame(t *testing.T) {
	t.Run("unknown frame type is dropped", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		c := newTestClient(t, ms, types.User{Id: 1, Username: "alice"})

		c.handleFrame(&ClientFrame{Type: "presence"})
		assert.Empty(t, drainFrames(c), "expected no response to an unknown frame type")
	})

	t.Run("chat frame is routed", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		c := newTestClient(t, ms, types.User{Id: 1, Username: "alice"})

		// invalid text keeps the router from touching the repository, which
		// is enough to prove dispatch
		c.handleFrame(&ClientFrame{Type: FrameChat, To: 2, Text: ""})

		frames := drainFrames(c)
		assert.Len(t, frames, 1, "expected an error frame from the router")
		assert.Equal(t, FrameError, frames[0].Type, "expected an error frame")
		assert.Equal(t, FrameChat, frames[0].Kind, "expected error frame to name the chat frame kind")
	})
}

func TestNewClient(t *testing.T) {
	ms := newTestMessagingServer(t, &database.MockSocialRepository{}, &stats.MockStatsUpdater{})

	user := types.User{Id: 1, Username: "alice"}
	c, err := NewClient(user, nil, ms, testutil.TestLogger(t))
	assert.NoError(t, err, "expected no error creating client")
	assert.Equal(t, user, c.user, "expected user to be set")
	assert.NotEmpty(t, c.sessionId, "expected session id to be generated")
	assert.NotNil(t, c.send, "expected send channel to be initialized")
	assert.NotNil(t, c.stop, "expected stop channel to be initialized")

	c2, err := NewClient(user, nil, ms, testutil.TestLogger(t))
	assert.NoError(t, err, "expected no error creating second client")
	assert.NotEqual(t, c.sessionId, c2.sessionId, "expected each connection to get its own session id")
}
