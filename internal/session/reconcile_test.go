package session

import "testing"

func TestReconcileUnanimous(t *testing.T) {
	report := []PlayerScore{{PlayerID: 1, Score: 40}, {PlayerID: 2, Score: 25}}
	results, discrepancies := reconcile([][]PlayerScore{report, report})
	if discrepancies != 0 {
		t.Fatalf("discrepancies = %d, want 0", discrepancies)
	}
	if len(results) != 2 || results[0].Score != 40 || results[1].Score != 25 {
		t.Fatalf("results = %v", results)
	}
}

func TestReconcileMajorityWins(t *testing.T) {
	reports := [][]PlayerScore{
		{{PlayerID: 1, Score: 5}, {PlayerID: 2, Score: 30}},
		{{PlayerID: 1, Score: 5}, {PlayerID: 2, Score: 30}},
		{{PlayerID: 1, Score: 999}, {PlayerID: 2, Score: 30}},
	}
	results, discrepancies := reconcile(reports)
	if results[0].Score != 5 {
		t.Fatalf("player 1 score = %d, want majority value 5", results[0].Score)
	}
	if results[1].Score != 30 {
		t.Fatalf("player 2 score = %d, want 30", results[1].Score)
	}
	if discrepancies != 1 {
		t.Fatalf("discrepancies = %d, want 1", discrepancies)
	}
}

func TestReconcileTieKeepsFirstObserved(t *testing.T) {
	reports := [][]PlayerScore{
		{{PlayerID: 1, Score: 10}},
		{{PlayerID: 1, Score: 20}},
	}
	results, _ := reconcile(reports)
	if results[0].Score != 10 {
		t.Fatalf("tied vote resolved to %d, want first observed 10", results[0].Score)
	}
}

func TestReconcileRosterFixedByFirstReport(t *testing.T) {
	reports := [][]PlayerScore{
		{{PlayerID: 1, Score: 10}},
		{{PlayerID: 1, Score: 10}, {PlayerID: 7, Score: 500}},
	}
	results, _ := reconcile(reports)
	if len(results) != 1 || results[0].PlayerID != 1 {
		t.Fatalf("results = %v, want player 1 only", results)
	}
}

func TestReconcileMissingEntryVotesMinusOne(t *testing.T) {
	reports := [][]PlayerScore{
		{{PlayerID: 1, Score: 10}, {PlayerID: 2, Score: 20}},
		{{PlayerID: 1, Score: 10}},
		{{PlayerID: 1, Score: 10}},
	}
	results, _ := reconcile(reports)
	if results[1].Score != -1 {
		t.Fatalf("player 2 score = %d, want -1 from the majority of silent reports", results[1].Score)
	}
}

func TestWinnerOf(t *testing.T) {
	if got := winnerOf(nil); got != -1 {
		t.Fatalf("winner of no results = %d, want -1", got)
	}
	results := []PlayerScore{{PlayerID: 3, Score: 50}, {PlayerID: 8, Score: 50}, {PlayerID: 5, Score: 40}}
	if got := winnerOf(results); got != 3 {
		t.Fatalf("winner = %d, want first of the tied leaders (3)", got)
	}
}
