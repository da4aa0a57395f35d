package fetch

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRunPrimaryWins(t *testing.T) {
	alternateCalled := false
	sources := []Source[[]string]{
		{Tier: TierPrimary, Query: func(context.Context) ([]string, error) {
			return []string{"live"}, nil
		}},
		{Tier: TierAlternate, Query: func(context.Context) ([]string, error) {
			alternateCalled = true
			return []string{"other"}, nil
		}},
	}

	res := Run(context.Background(), sources, func(s []string) bool { return len(s) > 0 }, []string{"demo"}, "unavailable", nil)

	if res.Tier != TierPrimary {
		t.Fatalf("tier mismatch: got %s, want %s", res.Tier, TierPrimary)
	}
	if res.Warning != "" {
		t.Fatalf("unexpected warning: %q", res.Warning)
	}
	if !reflect.DeepEqual(res.Data, []string{"live"}) {
		t.Fatalf("data mismatch: %v", res.Data)
	}
	if alternateCalled {
		t.Fatalf("alternate tier must not run when primary is valid")
	}
}

func TestRunAdvancesOnErrorAndInvalid(t *testing.T) {
	attempts := map[Tier]int{}
	sources := []Source[[]string]{
		{Tier: TierPrimary, Query: func(context.Context) ([]string, error) {
			attempts[TierPrimary]++
			return nil, errors.New("boom")
		}},
		{Tier: TierAlternate, Query: func(context.Context) ([]string, error) {
			attempts[TierAlternate]++
			return []string{"filtered"}, nil
		}},
	}

	res := Run(context.Background(), sources, func(s []string) bool { return len(s) > 0 }, nil, "unavailable", nil)

	if res.Tier != TierAlternate {
		t.Fatalf("tier mismatch: got %s, want %s", res.Tier, TierAlternate)
	}
	if attempts[TierPrimary] != 1 || attempts[TierAlternate] != 1 {
		t.Fatalf("each tier should run exactly once: %v", attempts)
	}
}

func TestRunAllTiersExhausted(t *testing.T) {
	sources := []Source[[]string]{
		{Tier: TierPrimary, Query: func(context.Context) ([]string, error) {
			return nil, errors.New("down")
		}},
		{Tier: TierAlternate, Query: func(context.Context) ([]string, error) {
			return []string{}, nil
		}},
	}
	placeholder := []string{"demo-a", "demo-b"}

	res := Run(context.Background(), sources, func(s []string) bool { return len(s) > 0 }, placeholder, "indexer unavailable", nil)

	if res.Tier != TierPlaceholder {
		t.Fatalf("tier mismatch: got %s, want %s", res.Tier, TierPlaceholder)
	}
	if res.Warning == "" {
		t.Fatalf("placeholder result must carry a warning")
	}
	if !reflect.DeepEqual(res.Data, placeholder) {
		t.Fatalf("placeholder data mismatch: %v", res.Data)
	}
}

func TestRunDefaultWarning(t *testing.T) {
	res := Run(context.Background(), nil, nil, 42, "", nil)
	if res.Tier != TierPlaceholder || res.Warning == "" {
		t.Fatalf("empty cascade must yield placeholder with a warning, got %+v", res)
	}
}

func TestDecodeEnvelope(t *testing.T) {
	var rows []struct {
		Hash string `json:"hash"`
	}
	body := []byte(`{"status":"1","message":"OK","result":[{"hash":"0xabc"}]}`)
	if err := decodeEnvelope(body, &rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Hash != "0xabc" {
		t.Fatalf("decoded rows mismatch: %+v", rows)
	}

	if err := decodeEnvelope([]byte(`{"status":"0","message":"No token transfers found","result":null}`), &rows); err == nil {
		t.Fatalf("status 0 must be an error")
	}
	if err := decodeEnvelope([]byte(`{"status":"1","message":"OK","result":null}`), &rows); err == nil {
		t.Fatalf("null result must be an error")
	}
	if err := decodeEnvelope([]byte(`not json`), &rows); err == nil {
		t.Fatalf("malformed body must be an error")
	}
}
