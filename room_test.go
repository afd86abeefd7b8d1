package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		bind: "127.0.0.1",
		port: 63007,
	}
}

func newTestClient() *Client {
	return &Client{
		send: make(chan any, 16),
		slot: -1,
	}
}

// nextMessage pops the oldest queued outbound message, failing the test
// if none is waiting.
func nextMessage(t *testing.T, c *Client) any {
	t.Helper()

	select {
	case msg := <-c.send:
		return msg
	default:
		t.Fatal("expected a queued message")
		return nil
	}
}

// drain discards any queued outbound messages.
func drain(c *Client) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

func TestCreateRoom(t *testing.T) {
	reg := NewRegistry(testConfig())
	c := newTestClient()

	require.NoError(t, reg.CreateRoom(c))

	msg, ok := nextMessage(t, c).(RoomCreatedMessage)
	require.True(t, ok)
	assert.Equal(t, "room_created", msg.Type)
	assert.Len(t, msg.Code, codeLength)
	assert.Equal(t, 0, msg.PlayerIndex)

	assert.Equal(t, msg.Code, c.code)
	assert.Equal(t, 0, c.slot)
	assert.True(t, reg.HasRoom(msg.Code))
}

func TestCreateRoomRetriesOnCollision(t *testing.T) {
	reg := NewRegistry(testConfig())

	codes := []string{"AAAA", "AAAA", "BBBB"}
	reg.newCode = func() string {
		code := codes[0]
		codes = codes[1:]
		return code
	}

	first := newTestClient()
	require.NoError(t, reg.CreateRoom(first))

	second := newTestClient()
	require.NoError(t, reg.CreateRoom(second))

	assert.Equal(t, "AAAA", first.code)
	assert.Equal(t, "BBBB", second.code)
}

func TestCreateRoomCodeSpaceExhausted(t *testing.T) {
	reg := NewRegistry(testConfig())
	reg.newCode = func() string { return "AAAA" }

	require.NoError(t, reg.CreateRoom(newTestClient()))

	c := newTestClient()
	err := reg.CreateRoom(c)
	require.ErrorIs(t, err, ErrCodeSpaceExhausted)

	// Only that creation attempt fails; the existing room is untouched.
	assert.True(t, reg.HasRoom("AAAA"))
	assert.Empty(t, c.code)
}

func TestJoinRoom(t *testing.T) {
	reg := NewRegistry(testConfig())

	creator := newTestClient()
	require.NoError(t, reg.CreateRoom(creator))
	code := creator.code
	drain(creator)

	joiner := newTestClient()
	require.NoError(t, reg.JoinRoom(joiner, code))

	joined, ok := nextMessage(t, joiner).(RoomJoinedMessage)
	require.True(t, ok)
	assert.Equal(t, code, joined.Code)
	assert.Equal(t, 1, joined.PlayerIndex)

	notified, ok := nextMessage(t, creator).(OpponentJoinedMessage)
	require.True(t, ok)
	assert.Equal(t, code, notified.Code)

	assert.Equal(t, 1, joiner.slot)
}

func TestJoinRoomNotFound(t *testing.T) {
	reg := NewRegistry(testConfig())

	c := newTestClient()
	require.ErrorIs(t, reg.JoinRoom(c, "ZZZZ"), ErrRoomNotFound)
	assert.Empty(t, c.code)
}

func TestJoinRoomFull(t *testing.T) {
	reg := NewRegistry(testConfig())

	creator := newTestClient()
	require.NoError(t, reg.CreateRoom(creator))
	require.NoError(t, reg.JoinRoom(newTestClient(), creator.code))

	third := newTestClient()
	require.ErrorIs(t, reg.JoinRoom(third, creator.code), ErrRoomFull)
	assert.Empty(t, third.code)
}

func TestJoinOwnRoomRejected(t *testing.T) {
	reg := NewRegistry(testConfig())

	creator := newTestClient()
	require.NoError(t, reg.CreateRoom(creator))

	require.Error(t, reg.JoinRoom(creator, creator.code))
	assert.Equal(t, 0, creator.slot)
}

func TestLeaveNotifiesSurvivorAndResetsReady(t *testing.T) {
	reg := NewRegistry(testConfig())

	creator := newTestClient()
	require.NoError(t, reg.CreateRoom(creator))
	code := creator.code

	joiner := newTestClient()
	require.NoError(t, reg.JoinRoom(joiner, code))

	require.NoError(t, reg.Ready(creator))
	require.NoError(t, reg.Ready(joiner))
	drain(creator)
	drain(joiner)

	require.NoError(t, reg.Leave(creator))

	_, ok := nextMessage(t, joiner).(OpponentLeftMessage)
	require.True(t, ok)

	room := reg.rooms[code]
	require.NotNil(t, room)
	assert.Equal(t, [2]bool{false, false}, room.ready)
	assert.Nil(t, room.clients[0])
	assert.Same(t, joiner, room.clients[1])
	assert.Empty(t, creator.code)
}

func TestLeaveLastOccupantDeletesRoom(t *testing.T) {
	reg := NewRegistry(testConfig())

	c := newTestClient()
	require.NoError(t, reg.CreateRoom(c))
	code := c.code

	require.NoError(t, reg.Leave(c))
	assert.False(t, reg.HasRoom(code))
	assert.Empty(t, reg.rooms)
}

func TestLeaveUnassociated(t *testing.T) {
	reg := NewRegistry(testConfig())

	require.ErrorIs(t, reg.Leave(newTestClient()), ErrNotInRoom)
}

func TestRejoinAfterLeaveFillsFreeSlot(t *testing.T) {
	reg := NewRegistry(testConfig())

	creator := newTestClient()
	require.NoError(t, reg.CreateRoom(creator))
	code := creator.code

	joiner := newTestClient()
	require.NoError(t, reg.JoinRoom(joiner, code))

	// Slot 0 leaves; the survivor keeps slot 1 and a newcomer takes
	// the vacancy.
	require.NoError(t, reg.Leave(creator))

	newcomer := newTestClient()
	require.NoError(t, reg.JoinRoom(newcomer, code))
	drain(newcomer)

	assert.Equal(t, 0, newcomer.slot)
	assert.Equal(t, 1, joiner.slot)
	assert.Equal(t, 2, reg.rooms[code].occupantCount())
}

func TestOpenRooms(t *testing.T) {
	reg := NewRegistry(testConfig())

	first := newTestClient()
	require.NoError(t, reg.CreateRoom(first))

	second := newTestClient()
	require.NoError(t, reg.CreateRoom(second))

	// Fill the first room; only the second should be listed.
	require.NoError(t, reg.JoinRoom(newTestClient(), first.code))

	open := reg.OpenRooms()
	require.Len(t, open, 1)
	assert.Equal(t, second.code, open[0].Code)
	assert.Equal(t, 1, open[0].Count)
}

func TestListRoomsMessage(t *testing.T) {
	reg := NewRegistry(testConfig())

	creator := newTestClient()
	require.NoError(t, reg.CreateRoom(creator))
	drain(creator)

	asker := newTestClient()
	reg.ListRooms(asker)

	msg, ok := nextMessage(t, asker).(RoomListMessage)
	require.True(t, ok)
	assert.Equal(t, "room_list", msg.Type)
	require.Len(t, msg.Rooms, 1)
	assert.Equal(t, creator.code, msg.Rooms[0].Code)
}

func TestAutoMatchJoinsWaitingRoom(t *testing.T) {
	reg := NewRegistry(testConfig())

	creator := newTestClient()
	require.NoError(t, reg.CreateRoom(creator))
	drain(creator)

	matched := newTestClient()
	require.NoError(t, reg.AutoMatch(matched))

	joined, ok := nextMessage(t, matched).(RoomJoinedMessage)
	require.True(t, ok)
	assert.Equal(t, creator.code, joined.Code)
	assert.Len(t, reg.rooms, 1)
}

func TestAutoMatchCreatesWhenNobodyWaiting(t *testing.T) {
	reg := NewRegistry(testConfig())

	c := newTestClient()
	require.NoError(t, reg.AutoMatch(c))

	msg, ok := nextMessage(t, c).(RoomCreatedMessage)
	require.True(t, ok)
	assert.Equal(t, 0, msg.PlayerIndex)
	assert.Len(t, reg.rooms, 1)
}

func TestAutoMatchSkipsOwnRoom(t *testing.T) {
	reg := NewRegistry(testConfig())

	c := newTestClient()
	require.NoError(t, reg.CreateRoom(c))

	// The only waiting room is the client's own, so auto-match opens a
	// fresh one instead of pairing the client with itself.
	require.NoError(t, reg.AutoMatch(c))

	assert.Len(t, reg.rooms, 1)
	assert.Equal(t, 0, c.slot)
	assert.Equal(t, 1, reg.rooms[c.code].occupantCount())
}
