package game

const (
	// MinPlayers is the minimum number of players required to start a game
	MinPlayers = 4

	// MinCapacity is the floor for a room's capacity
	MinCapacity = 4

	// AbstainTarget is the ballot target that denotes a skip vote
	AbstainTarget = 0
)

// MafiaCount returns how many mafia are dealt to n players. The
// distribution keeps mafia a strict minority of the non-mafia count
// for every n >= MinPlayers.
func MafiaCount(n int) int {
	return 1 + (n-MinPlayers)/2
}
