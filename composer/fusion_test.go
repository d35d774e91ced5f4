package composer

import (
	"testing"

	"github.com/wrkzcoin/wrkzcoin-sub002/subwallet"
)

func subwalletCandidateWithAmount(amount uint64) candidateInput {
	return candidateInput{input: subwallet.SpendableInput{Input: subwallet.TransactionInput{Amount: amount}}}
}

func TestFusionOutputsPiecesArePretty(t *testing.T) {
	outputs := fusionOutputs(1234567, 4, 0)
	if len(outputs) == 0 {
		t.Fatalf("expected at least one output")
	}
	var sum uint64
	for _, o := range outputs {
		if !IsPretty(o) {
			t.Errorf("fusionOutputs produced a non-pretty piece: %d", o)
		}
		sum += o
	}
	if sum != 1234567 {
		t.Fatalf("fusionOutputs must conserve the total, got %d want 1234567", sum)
	}
}

func TestFusionOutputsRespectsOptimizeTarget(t *testing.T) {
	outputs := fusionOutputs(1000000, 8, 50000)
	found := false
	for _, o := range outputs {
		if o == 50000 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected at least one output biased toward the optimize target 50000, got %v", outputs)
	}
}

func TestSelectFusionSetRequiresRatioAndCount(t *testing.T) {
	var candidates []candidateInput
	for i := 0; i < 20; i++ {
		candidates = append(candidates, subwalletCandidateWithAmount(uint64(i+1)))
	}

	selected, outputs, err := selectFusionSet(candidates, 0, 3)
	if err != nil {
		t.Fatalf("selectFusionSet: %v", err)
	}
	if len(selected) < FusionTxMinInputCount {
		t.Fatalf("expected at least %d inputs selected, got %d", FusionTxMinInputCount, len(selected))
	}
	if len(selected)/len(outputs) < FusionTxMinInOutRatio {
		t.Fatalf("expected the input:output ratio to be at least %d, got %d:%d", FusionTxMinInOutRatio, len(selected), len(outputs))
	}
}

func TestSelectFusionSetErrorsWhenNoSetQualifies(t *testing.T) {
	candidates := []candidateInput{
		subwalletCandidateWithAmount(1),
		subwalletCandidateWithAmount(2),
	}
	_, _, err := selectFusionSet(candidates, 0, 3)
	if err == nil {
		t.Fatalf("expected ErrNotAFusionSet when fewer than FusionTxMinInputCount candidates exist")
	}
}
