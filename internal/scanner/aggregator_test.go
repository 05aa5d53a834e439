package scanner_test

import (
	"context"
	"testing"

	"nexus/internal/library"
	"nexus/internal/scanner"
)

var testPriority = []library.Mechanism{
	library.MechanismSteam,
	library.MechanismEpic,
	library.MechanismRiot,
	library.MechanismBattleNet,
	library.MechanismStandalone,
}

func TestAggregatePriorityWinsCrossChannelDuplicates(t *testing.T) {
	results := map[library.Mechanism][]scanner.Candidate{
		library.MechanismSteam: {
			{Title: "Rocket League", Mechanism: library.MechanismSteam, MechanismID: "252950"},
		},
		library.MechanismEpic: {
			{Title: "Rocket League", Mechanism: library.MechanismEpic, MechanismID: "Sugar"},
			{Title: "Alan Wake 2", Mechanism: library.MechanismEpic, MechanismID: "Ghost"},
		},
	}

	agg := scanner.NewAggregator(testPriority, nil)
	accepted, err := agg.Aggregate(context.Background(), results, nil)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(accepted) != 2 {
		t.Fatalf("expected 2 accepted candidates, got %d", len(accepted))
	}
	if accepted[0].Mechanism != library.MechanismSteam {
		t.Errorf("expected steam copy of Rocket League to win, got %q", accepted[0].Mechanism)
	}
	if accepted[1].Title != "Alan Wake 2" {
		t.Errorf("expected Alan Wake 2 second, got %q", accepted[1].Title)
	}
}

func TestAggregateDedupesEditionVariants(t *testing.T) {
	results := map[library.Mechanism][]scanner.Candidate{
		library.MechanismSteam: {
			{Title: "Hades Complete Edition", Mechanism: library.MechanismSteam, MechanismID: "1145360"},
		},
		library.MechanismEpic: {
			{Title: "Hades", Mechanism: library.MechanismEpic, MechanismID: "Min"},
		},
	}

	agg := scanner.NewAggregator(testPriority, nil)
	accepted, err := agg.Aggregate(context.Background(), results, nil)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(accepted) != 1 {
		t.Fatalf("expected edition variants to dedupe, got %#v", accepted)
	}
	if accepted[0].MechanismID != "1145360" {
		t.Errorf("expected steam variant kept, got %#v", accepted[0])
	}
}

func TestAggregateDropsIgnoredTitles(t *testing.T) {
	results := map[library.Mechanism][]scanner.Candidate{
		library.MechanismSteam: {
			{Title: "Celeste", Mechanism: library.MechanismSteam, MechanismID: "504230"},
			{Title: "Hades", Mechanism: library.MechanismSteam, MechanismID: "1145360"},
		},
	}
	ignored := map[string]struct{}{"celeste": {}}

	agg := scanner.NewAggregator(testPriority, nil)
	accepted, err := agg.Aggregate(context.Background(), results, ignored)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(accepted) != 1 || accepted[0].Title != "Hades" {
		t.Fatalf("expected ignored title dropped, got %#v", accepted)
	}
}

func TestAggregateSkipsEmptyTitles(t *testing.T) {
	results := map[library.Mechanism][]scanner.Candidate{
		library.MechanismSteam: {
			{Title: "  ", Mechanism: library.MechanismSteam, MechanismID: "0"},
		},
	}

	agg := scanner.NewAggregator(testPriority, nil)
	accepted, err := agg.Aggregate(context.Background(), results, nil)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(accepted) != 0 {
		t.Fatalf("expected empty-title candidate skipped, got %#v", accepted)
	}
}

func TestAggregateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := map[library.Mechanism][]scanner.Candidate{
		library.MechanismSteam: {
			{Title: "Celeste", Mechanism: library.MechanismSteam, MechanismID: "504230"},
		},
	}

	agg := scanner.NewAggregator(testPriority, nil)
	if _, err := agg.Aggregate(ctx, results, nil); err == nil {
		t.Fatal("expected context error")
	}
}
