package main

import (
	"sync"
)

type roomPhase int

const (
	phaseWaiting roomPhase = iota // one occupant, waiting for an opponent
	phasePaired                   // two occupants, not both ready
	phaseBattle                   // both ready, turn is live
	phaseFinished                 // a win was reported; rematch needs both to re-ready
)

// Room pairs up to two clients under a shared code. Slot 0 belongs to
// the creator, slot 1 to the joiner; slots are fixed for as long as a
// client stays in the room.
type Room struct {
	code    string
	clients [2]*Client
	ready   [2]bool
	phase   roomPhase
	turn    int // 1-based slot of the player entitled to shoot
}

func (r *Room) occupantCount() int {
	count := 0
	for _, c := range r.clients {
		if c != nil {
			count++
		}
	}
	return count
}

func (r *Room) opponentOf(slot int) *Client {
	return r.clients[1-slot]
}

func (r *Room) contains(c *Client) bool {
	return r.clients[0] == c || r.clients[1] == c
}

func (r *Room) firstOccupant() *Client {
	for _, c := range r.clients {
		if c != nil {
			return c
		}
	}
	return nil
}

func (r *Room) broadcast(msg any) {
	for _, c := range r.clients {
		if c != nil {
			c.trySend(msg)
		}
	}
}

// maxCodeAttempts bounds the collision-retry loop during room creation.
// With four characters over a 31-symbol alphabet the space holds ~900k
// codes, so hitting the ceiling means something is badly wrong.
const maxCodeAttempts = 100

// Registry owns every live room, keyed by code. A single mutex guards
// all room state: every message is handled to completion under it, which
// keeps the turn and readiness invariants safe without per-room locks.
type Registry struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	cfg     *Config
	newCode func() string
}

func NewRegistry(cfg *Config) *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		cfg:     cfg,
		newCode: generateCode,
	}
}

// CreateRoom allocates a fresh room with the client in slot 0.
func (reg *Registry) CreateRoom(c *Client) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return reg.createLocked(c)
}

func (reg *Registry) createLocked(c *Client) error {
	// A client occupies at most one room at a time.
	_ = reg.leaveLocked(c)

	for i := 0; i < maxCodeAttempts; i++ {
		code := reg.newCode()
		if _, taken := reg.rooms[code]; taken {
			continue
		}

		room := &Room{code: code}
		room.clients[0] = c
		reg.rooms[code] = room

		c.code = code
		c.slot = 0

		c.trySend(RoomCreatedMessage{
			Type:        "room_created",
			Code:        code,
			PlayerIndex: 0,
		})

		logf(reg.cfg, "ROOMS: Created room %s", code)

		return nil
	}

	return ErrCodeSpaceExhausted
}

// JoinRoom puts the client into the room's free slot and notifies the
// existing occupant.
func (reg *Registry) JoinRoom(c *Client, code string) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return reg.joinLocked(c, code)
}

func (reg *Registry) joinLocked(c *Client, code string) error {
	room, ok := reg.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}
	if room.occupantCount() >= 2 || room.contains(c) {
		return ErrRoomFull
	}

	_ = reg.leaveLocked(c)

	slot := 1
	if room.clients[1] != nil {
		slot = 0
	}

	other := room.firstOccupant()

	room.clients[slot] = c
	room.phase = phasePaired

	c.code = code
	c.slot = slot

	c.trySend(RoomJoinedMessage{
		Type:        "room_joined",
		Code:        code,
		PlayerIndex: slot,
	})
	other.trySend(OpponentJoinedMessage{
		Type: "opponent_joined",
		Code: code,
	})

	logf(reg.cfg, "ROOMS: Player joined room %s as slot %d", code, slot)

	return nil
}

// AutoMatch joins the first room with a single occupant, or opens a new
// one when nobody is waiting. First-found is the whole policy.
func (reg *Registry) AutoMatch(c *Client) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, room := range reg.rooms {
		if room.occupantCount() == 1 && !room.contains(c) {
			return reg.joinLocked(c, room.code)
		}
	}

	return reg.createLocked(c)
}

// ListRooms sends the client a snapshot of rooms with a free slot.
func (reg *Registry) ListRooms(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	c.trySend(RoomListMessage{
		Type:  "room_list",
		Rooms: reg.openRoomsLocked(),
	})
}

func (reg *Registry) openRoomsLocked() []RoomInfo {
	list := make([]RoomInfo, 0, len(reg.rooms))
	for code, room := range reg.rooms {
		count := room.occupantCount()
		if count < 2 {
			list = append(list, RoomInfo{Code: code, Count: count})
		}
	}
	return list
}

// OpenRooms is the HTTP-facing variant of ListRooms.
func (reg *Registry) OpenRooms() []RoomInfo {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return reg.openRoomsLocked()
}

// HasRoom reports whether a room with this code is live.
func (reg *Registry) HasRoom(code string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	_, ok := reg.rooms[code]
	return ok
}

// Leave detaches the client from its room, if any. An empty room is
// deleted on the spot; otherwise the survivor is notified and both
// readiness flags are voided so a rematch must be re-confirmed.
func (reg *Registry) Leave(c *Client) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return reg.leaveLocked(c)
}

func (reg *Registry) leaveLocked(c *Client) error {
	if c.code == "" {
		return ErrNotInRoom
	}

	room, ok := reg.rooms[c.code]
	if !ok || !room.contains(c) {
		c.code = ""
		c.slot = -1
		return ErrNotInRoom
	}

	room.clients[c.slot] = nil
	c.code = ""
	c.slot = -1

	if room.occupantCount() == 0 {
		delete(reg.rooms, room.code)
		logf(reg.cfg, "ROOMS: Deleted empty room %s", room.code)
		return nil
	}

	room.ready = [2]bool{}
	room.phase = phaseWaiting

	room.firstOccupant().trySend(OpponentLeftMessage{
		Type: "opponent_left",
	})

	return nil
}
