package session

// PlayerScore is one player's score as claimed by one report.
type PlayerScore struct {
	PlayerID int64
	Score    int
}

// reconcile folds the per-client end-of-game reports into one authoritative
// result set. The first report fixes the player roster and its order; each
// player's score is decided by majority vote across all reports, with ties
// broken in favour of the value observed first. The count of players whose
// reports did not agree unanimously is returned alongside.
func reconcile(reports [][]PlayerScore) (results []PlayerScore, discrepancies int) {
	if len(reports) == 0 {
		return nil, 0
	}
	for _, entry := range reports[0] {
		votes := make([]scoreVote, 0, len(reports))
		for _, report := range reports {
			votes = tally(votes, scoreFor(report, entry.PlayerID))
		}
		best := votes[0]
		for _, v := range votes[1:] {
			if v.count > best.count {
				best = v
			}
		}
		if len(votes) > 1 {
			discrepancies++
		}
		results = append(results, PlayerScore{PlayerID: entry.PlayerID, Score: best.score})
	}
	return results, discrepancies
}

type scoreVote struct {
	score int
	count int
}

// tally records one vote, keeping distinct values in observation order so
// that tie-breaking favours the earliest.
func tally(votes []scoreVote, score int) []scoreVote {
	for i := range votes {
		if votes[i].score == score {
			votes[i].count++
			return votes
		}
	}
	return append(votes, scoreVote{score: score, count: 1})
}

// scoreFor extracts a player's score from one report, or -1 when the report
// omits the player.
func scoreFor(report []PlayerScore, playerID int64) int {
	for _, entry := range report {
		if entry.PlayerID == playerID {
			return entry.Score
		}
	}
	return -1
}

// winnerOf picks the player with the highest authoritative score, the
// earliest listed winning on a tie. An empty result set has no winner and
// yields -1.
func winnerOf(results []PlayerScore) int64 {
	if len(results) == 0 {
		return -1
	}
	best := results[0]
	for _, entry := range results[1:] {
		if entry.Score > best.Score {
			best = entry
		}
	}
	return best.PlayerID
}
