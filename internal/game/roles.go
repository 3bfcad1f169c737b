package game

import "math/rand"

// AssignRoles deals a uniformly shuffled role distribution to the given
// player ids: MafiaCount(n) mafia, exactly one detective, citizens for
// the remainder.
func AssignRoles(ids []int64) map[int64]Role {
	shuffled := make([]int64, len(ids))
	copy(shuffled, ids)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	roles := make(map[int64]Role, len(shuffled))
	mafia := MafiaCount(len(shuffled))
	for i, id := range shuffled {
		switch {
		case i < mafia:
			roles[id] = RoleMafia
		case i == mafia:
			roles[id] = RoleDetective
		default:
			roles[id] = RoleCitizen
		}
	}
	return roles
}
