package game

// Turn order is the literal order of a street snapshot's active players.
// The player to act is the first entry that has not folded; after acting
// the entry moves to the back of the list.

// Advance moves the actor's entry to the end of the list. The input slice
// is not modified.
func Advance(players []ActivePlayer, actorID string) []ActivePlayer {
	out := make([]ActivePlayer, 0, len(players))
	var actor *ActivePlayer
	for i := range players {
		if players[i].ID == actorID && actor == nil {
			a := players[i]
			actor = &a
			continue
		}
		out = append(out, players[i])
	}
	if actor != nil {
		out = append(out, *actor)
	}
	return out
}

// IsLastActor reports whether actorID is the id of the final element.
func IsLastActor(players []ActivePlayer, actorID string) bool {
	if len(players) == 0 {
		return false
	}
	return players[len(players)-1].ID == actorID
}

// NextToAct returns the first entry that has not folded.
func NextToAct(players []ActivePlayer) (ActivePlayer, bool) {
	for _, p := range players {
		if !p.IsInactive {
			return p, true
		}
	}
	return ActivePlayer{}, false
}

// NormalizeSeating moves the two blind seats (positions 0 and 1) to the
// back when more than two players are seated. Heads-up order is kept.
func NormalizeSeating(players []ActivePlayer) []ActivePlayer {
	out := make([]ActivePlayer, 0, len(players))
	if len(players) <= 2 {
		return append(out, players...)
	}
	out = append(out, players[2:]...)
	return append(out, players[:2]...)
}

// RotateSeating moves the first seat to the back for the next hand.
func RotateSeating(seats []PlayerInput) []PlayerInput {
	out := make([]PlayerInput, 0, len(seats))
	if len(seats) == 0 {
		return out
	}
	out = append(out, seats[1:]...)
	return append(out, seats[0])
}

// isClosingActor checks the actor against a reference order, skipping
// entries that have folded since that snapshot was taken.
func isClosingActor(reference []ActivePlayer, current []ActivePlayer, actorID string) bool {
	folded := make(map[string]bool, len(current))
	for _, p := range current {
		folded[p.ID] = p.IsInactive
	}
	order := make([]ActivePlayer, 0, len(reference))
	for _, p := range reference {
		if p.ID == actorID || !folded[p.ID] {
			order = append(order, p)
		}
	}
	return IsLastActor(order, actorID)
}

// openStreet prepares the snapshot for a new street type: folded players
// are dropped and street bets start over.
func openStreet(players []ActivePlayer) []ActivePlayer {
	out := make([]ActivePlayer, 0, len(players))
	for _, p := range players {
		if p.IsInactive {
			continue
		}
		p.Bet = 0
		out = append(out, p)
	}
	return out
}

func inPlayCount(players []ActivePlayer) int {
	count := 0
	for _, p := range players {
		if !p.IsInactive {
			count++
		}
	}
	return count
}

func indexOfActive(players []ActivePlayer, id string) int {
	for i := range players {
		if players[i].ID == id {
			return i
		}
	}
	return -1
}
