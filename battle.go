package main

// The relay never judges shots itself. The attacker fires blind, the
// defender reports the verdict, and the turn moves (or stays) based on
// that verdict alone.

// Ready marks the sender as ready. Once both occupants are ready the
// battle starts with player 1 to move.
func (reg *Registry) Ready(c *Client) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room := reg.roomOfLocked(c)
	if room == nil {
		return ErrNotInRoom
	}

	room.ready[c.slot] = true

	if opponent := room.opponentOf(c.slot); opponent != nil {
		opponent.trySend(OpponentReadyMessage{
			Type: "opponent_ready",
		})
	}

	if room.phase != phaseBattle && room.occupantCount() == 2 && room.ready[0] && room.ready[1] {
		room.phase = phaseBattle
		room.turn = 1

		room.broadcast(StartBattleMessage{
			Type:          "start_battle",
			CurrentPlayer: room.turn,
		})

		logf(reg.cfg, "BATTLE: Started in room %s", room.code)
	}

	return nil
}

// Shot relays the sender's shot to the defender. The turn does not move
// yet; it is pending the defender's verdict.
func (reg *Registry) Shot(c *Client, row, col int) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room := reg.roomOfLocked(c)
	if room == nil {
		return ErrNotInRoom
	}

	if room.phase != phaseBattle || room.turn != c.slot+1 {
		return ErrNotYourTurn
	}

	opponent := room.opponentOf(c.slot)
	if opponent == nil {
		return nil
	}

	opponent.trySend(IncomingShotMessage{
		Type:          "incoming_shot",
		Row:           row,
		Col:           col,
		AttackerIndex: c.slot,
	})

	return nil
}

// ShotResult takes the defender's verdict on the most recent shot,
// relays it to the attacker and moves the turn: a miss hands it to the
// defender, anything else keeps it with the attacker. A win resets both
// readiness flags but keeps the room alive for a rematch.
func (reg *Registry) ShotResult(c *Client, row, col int, result string, win bool) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room := reg.roomOfLocked(c)
	if room == nil {
		return ErrNotInRoom
	}

	attackerSlot := 1 - c.slot

	if attacker := room.clients[attackerSlot]; attacker != nil {
		attacker.trySend(ShotResultMessage{
			Type:          "shot_result",
			Row:           row,
			Col:           col,
			Result:        result,
			AttackerIndex: attackerSlot,
			Win:           win,
		})
	}

	if result == "miss" {
		room.turn = c.slot + 1
	} else {
		room.turn = attackerSlot + 1
	}

	room.broadcast(TurnMessage{
		Type:          "turn",
		CurrentPlayer: room.turn,
	})

	if win {
		room.ready = [2]bool{}
		room.phase = phaseFinished

		logf(reg.cfg, "BATTLE: Won by slot %d in room %s", attackerSlot, room.code)
	}

	return nil
}

// roomOfLocked resolves the client's current room, or nil when the
// client is unassociated or its room is gone.
func (reg *Registry) roomOfLocked(c *Client) *Room {
	if c.code == "" {
		return nil
	}

	room, ok := reg.rooms[c.code]
	if !ok || !room.contains(c) {
		return nil
	}

	return room
}
