package storage

// rankNames in ascending order. A player moves up a rank every ten games;
// past the last entry everyone is a Nutter.
var rankNames = []string{
	"Newbie",
	"Beginner",
	"Amateur",
	"Professional",
	"Expert",
	"Junkie",
}

// RankName returns the rank name for a games-played count.
func RankName(gamesPlayed int) string {
	idx := gamesPlayed / 10
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rankNames) {
		return "Nutter"
	}
	return rankNames[idx]
}
