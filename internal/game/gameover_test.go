package game

import (
	"testing"

	"github.com/soliade/codenames/internal/event"
)

func TestCheckGameOver_Assassin(t *testing.T) {
	revealed := []RevealedWord{{WordIndex: 0, CardType: event.CardBlack}}
	results := []event.CardType{event.CardBlack, event.CardRed, event.CardBlue}

	out := CheckGameOver(revealed, results, event.SideRed)

	if !out.IsOver {
		t.Fatal("expected game over on assassin")
	}
	if out.LosingSide == nil || *out.LosingSide != event.SideRed {
		t.Errorf("expected red to lose, got %v", out.LosingSide)
	}
	if out.WinningSide == nil || *out.WinningSide != event.SideBlue {
		t.Errorf("expected blue to win, got %v", out.WinningSide)
	}
}

func TestCheckGameOver_AssassinBeatsFullReveal(t *testing.T) {
	// Black is checked first even if a team also completed its cards.
	revealed := []RevealedWord{
		{WordIndex: 1, CardType: event.CardRed},
		{WordIndex: 0, CardType: event.CardBlack},
	}
	results := []event.CardType{event.CardBlack, event.CardRed, event.CardBlue}

	out := CheckGameOver(revealed, results, event.SideRed)

	if out.LosingSide == nil || *out.LosingSide != event.SideRed {
		t.Errorf("assassin should decide the loser, got %v", out.LosingSide)
	}
}

func TestCheckGameOver_FullReveal(t *testing.T) {
	results := []event.CardType{event.CardRed, event.CardRed, event.CardBlue, event.CardBlue, event.CardNeutral}

	partial := CheckGameOver([]RevealedWord{{WordIndex: 0, CardType: event.CardRed}}, results, event.SideRed)
	if partial.IsOver {
		t.Error("one of two red cards should not end the game")
	}

	out := CheckGameOver([]RevealedWord{
		{WordIndex: 0, CardType: event.CardRed},
		{WordIndex: 1, CardType: event.CardRed},
	}, results, event.SideRed)

	if !out.IsOver {
		t.Fatal("expected game over once all red cards revealed")
	}
	if out.WinningSide == nil || *out.WinningSide != event.SideRed {
		t.Errorf("expected red win, got %v", out.WinningSide)
	}
	if out.LosingSide != nil {
		t.Errorf("full-reveal branch should not set a loser, got %v", out.LosingSide)
	}
}

func TestCheckGameOver_NotOver(t *testing.T) {
	results := []event.CardType{event.CardRed, event.CardBlue, event.CardNeutral}

	out := CheckGameOver(nil, results, event.SideBlue)

	if out.IsOver {
		t.Error("expected game to continue with nothing revealed")
	}
	if out.WinningSide != nil || out.LosingSide != nil {
		t.Error("expected no winner/loser while game continues")
	}
}
