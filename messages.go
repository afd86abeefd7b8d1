package main

// Messages coming from clients. A single struct covers every inbound
// type; Type selects which fields are meaningful.
type ClientMessage struct {
	Type   string `json:"type"`             // "create_room", "join_room", "auto_match", "list_rooms", "leave_room", "ready", "shot", "shot_result"
	Code   string `json:"code,omitempty"`   // join_room
	Row    int    `json:"row,omitempty"`    // shot / shot_result
	Col    int    `json:"col,omitempty"`    // shot / shot_result
	Result string `json:"result,omitempty"` // shot_result: "hit", "miss", "sunk", ...
	Win    bool   `json:"win,omitempty"`    // shot_result
}

// RoomCreatedMessage confirms room creation to the creator.
type RoomCreatedMessage struct {
	Type        string `json:"type"` // "room_created"
	Code        string `json:"code"`
	PlayerIndex int    `json:"playerIndex"`
}

// RoomJoinedMessage confirms a successful join to the joiner.
type RoomJoinedMessage struct {
	Type        string `json:"type"` // "room_joined"
	Code        string `json:"code"`
	PlayerIndex int    `json:"playerIndex"`
}

// OpponentJoinedMessage tells the creator their room is now paired.
type OpponentJoinedMessage struct {
	Type string `json:"type"` // "opponent_joined"
	Code string `json:"code"`
}

// RoomInfo is one entry in a room listing.
type RoomInfo struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// RoomListMessage lists rooms that still have a free slot.
type RoomListMessage struct {
	Type  string     `json:"type"` // "room_list"
	Rooms []RoomInfo `json:"rooms"`
}

// ErrorMessage is sent only to the offending client.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// OpponentLeftMessage notifies the remaining occupant.
type OpponentLeftMessage struct {
	Type string `json:"type"` // "opponent_left"
}

// OpponentReadyMessage notifies the other occupant that the sender is ready.
type OpponentReadyMessage struct {
	Type string `json:"type"` // "opponent_ready"
}

// StartBattleMessage is broadcast once both occupants are ready.
type StartBattleMessage struct {
	Type          string `json:"type"` // "start_battle"
	CurrentPlayer int    `json:"currentPlayer"`
}

// IncomingShotMessage relays a shot to the defender.
type IncomingShotMessage struct {
	Type          string `json:"type"` // "incoming_shot"
	Row           int    `json:"row"`
	Col           int    `json:"col"`
	AttackerIndex int    `json:"attackerIndex"`
}

// ShotResultMessage relays the defender's verdict back to the attacker.
type ShotResultMessage struct {
	Type          string `json:"type"` // "shot_result"
	Row           int    `json:"row"`
	Col           int    `json:"col"`
	Result        string `json:"result"`
	AttackerIndex int    `json:"attackerIndex"`
	Win           bool   `json:"win"`
}

// TurnMessage announces the new current player to both occupants.
type TurnMessage struct {
	Type          string `json:"type"` // "turn"
	CurrentPlayer int    `json:"currentPlayer"`
}
