package test

import (
	"github.com/MarshHawk/unlimited-poker/game"
)

// GameScript drives one table from the first deal through the scripted
// actions and checks the outcome.
type GameScript struct {
	Disabled    bool           `yaml:"disabled"`
	Description string         `yaml:"description"`
	Table       string         `yaml:"table"`
	Blinds      *game.Blinds   `yaml:"blinds"`
	Players     []ScriptPlayer `yaml:"players"`
	Board       ScriptBoard    `yaml:"board"`
	FailDealer  bool           `yaml:"fail-next-deal"`
	Actions     []ScriptAction `yaml:"actions"`
	Result      *ScriptResult  `yaml:"result"`

	filename string
	result   *ScriptTestResult
}

type ScriptPlayer struct {
	ID    string   `yaml:"id"`
	Stack float64  `yaml:"stack"`
	Score float64  `yaml:"score"`
	Cards []string `yaml:"cards"`
}

type ScriptBoard struct {
	Flop  []string `yaml:"flop"`
	Turn  string   `yaml:"turn"`
	River string   `yaml:"river"`
}

type ScriptAction struct {
	Player string       `yaml:"player"`
	Action string       `yaml:"action"`
	Amount float64      `yaml:"amount"`
	Verify *ActionCheck `yaml:"verify"`
}

// ActionCheck is verified after an action. Empty fields are not checked.
type ActionCheck struct {
	Error  string   `yaml:"error"`
	Street string   `yaml:"street"`
	Pot    *float64 `yaml:"pot"`
	Order  []string `yaml:"order"`
	Next   string   `yaml:"next"`
}

type ScriptResult struct {
	Winner      string             `yaml:"winner"`
	Showdown    bool               `yaml:"showdown"`
	Pot         float64            `yaml:"pot"`
	Stacks      map[string]float64 `yaml:"stacks"`
	NextSeating []SeatStack        `yaml:"next-seating"`
	NextHand    bool               `yaml:"next-hand"`
	Error       string             `yaml:"error"`
}

type SeatStack struct {
	ID    string  `yaml:"id"`
	Stack float64 `yaml:"stack"`
}
