package domain

import "time"

// Player represents a player in a room. A player belongs to exactly one room
// for its lifetime and is removed on disconnect.
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewPlayer creates a new player with the given ID and display name
func NewPlayer(id, name string, now time.Time) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Score:    0,
		JoinedAt: now,
	}
}

// PlayerScore is the score-table view of a player used in broadcasts
type PlayerScore struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
}

// ToScore converts a player to its score-table view
func (p *Player) ToScore() PlayerScore {
	return PlayerScore{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Score:      p.Score,
	}
}
