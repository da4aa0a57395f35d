package dashboard

import (
	"testing"

	"carbondash/internal/model"
)

func TestShapeHoldersFiltersSortsAndCaps(t *testing.T) {
	input := []model.Holder{
		{Address: "0xa", Value: "5"},
		{Address: "0xb", Value: "0"},
		{Address: "0xc", Value: "100"},
		{Address: "0xd", Value: "not-a-number"},
		{Address: "0xe", Value: "20"},
	}

	shaped := shapeHolders(input)

	want := []string{"0xc", "0xe", "0xa"}
	if len(shaped) != len(want) {
		t.Fatalf("holder count mismatch: %+v", shaped)
	}
	for i, addr := range want {
		if shaped[i].Address != addr {
			t.Fatalf("holder %d mismatch: got %s, want %s", i, shaped[i].Address, addr)
		}
	}
}

func TestShapeHoldersCapsPageSize(t *testing.T) {
	input := make([]model.Holder, 0, maxHolders+20)
	for i := 0; i < maxHolders+20; i++ {
		input = append(input, model.Holder{Address: "0x1", Value: "1"})
	}
	if got := len(shapeHolders(input)); got != maxHolders {
		t.Fatalf("holder list must cap at %d, got %d", maxHolders, got)
	}
}

func TestHoldersFromTransfers(t *testing.T) {
	const zero = "0x0000000000000000000000000000000000000000"
	transfers := []model.Transfer{
		{From: zero, To: "0xAA", Value: "100"},
		{From: "0xAA", To: "0xBB", Value: "30"},
		{From: "0xAA", To: "0xBB", Value: "10"},
	}

	holders := shapeHolders(holdersFromTransfers(transfers))

	if len(holders) != 2 {
		t.Fatalf("expected two holders, got %+v", holders)
	}
	if holders[0].Address != "0xaa" || holders[0].Value != "60" {
		t.Fatalf("top holder mismatch: %+v", holders[0])
	}
	if holders[1].Address != "0xbb" || holders[1].Value != "40" {
		t.Fatalf("second holder mismatch: %+v", holders[1])
	}
}

func TestFilterByContract(t *testing.T) {
	transfers := []model.Transfer{
		{Hash: "0x1", ContractAddress: "0xToKeN"},
		{Hash: "0x2", ContractAddress: "0xother"},
		{Hash: "0x3", ContractAddress: "0xtoken"},
	}
	filtered := filterByContract(transfers, "0xtoken")
	if len(filtered) != 2 || filtered[0].Hash != "0x1" || filtered[1].Hash != "0x3" {
		t.Fatalf("filter mismatch: %+v", filtered)
	}
}

func TestInfoFromTransfers(t *testing.T) {
	transfers := []model.Transfer{
		{Hash: "0x1"},
		{Hash: "0x2", TokenName: "Carbon Credit Token", TokenSymbol: "CCT", TokenDecimal: "18"},
	}
	info := infoFromTransfers(transfers)
	if info.Name != "Carbon Credit Token" || info.Symbol != "CCT" || info.Decimals != "18" {
		t.Fatalf("info mismatch: %+v", info)
	}
	if empty := infoFromTransfers(nil); empty.Name != "" {
		t.Fatalf("no transfers should yield empty info: %+v", empty)
	}
}

func TestPlaceholderDatasetsAreValid(t *testing.T) {
	if len(placeholderTransfers()) == 0 || len(placeholderHolders()) == 0 {
		t.Fatalf("placeholder datasets must be non-empty")
	}
	info := placeholderTokenInfo()
	if info.Name == "" || info.Symbol == "" {
		t.Fatalf("placeholder token info must pass the validity predicate: %+v", info)
	}
	for _, h := range placeholderHolders() {
		if holderValue(h).Sign() <= 0 {
			t.Fatalf("placeholder holder %s must have positive balance", h.Address)
		}
	}
}
