package composer

import (
	"context"
	"time"

	"github.com/wrkzcoin/wrkzcoin-sub002/walleterrors"
)

// SendFusionBasic implements send_fusion_basic: consolidate dust from
// every subwallet back into the primary address, with no optimize
// target bias.
func (c *Composer) SendFusionBasic(ctx context.Context) ([32]byte, error) {
	return c.SendFusionAdvanced(ctx, nil, "", 0)
}

// SendFusionAdvanced implements send_fusion_advanced: a fee == 0
// consolidation transaction drawing from sourceAddresses (or every
// subwallet), paying destinationAddress (or the primary address), with
// an optional optimizeTarget denomination bias (spec §9's Open Question:
// rounded to the nearest pretty denomination, ties to the lower).
func (c *Composer) SendFusionAdvanced(ctx context.Context, sourceAddresses []string, destinationAddress string, optimizeTarget uint64) ([32]byte, error) {
	height := c.status.LastKnownHeight()
	now := time.Now().Unix()

	destAddr, destSw, err := c.resolveChangeAddress(destinationAddress)
	if err != nil {
		return [32]byte{}, err
	}

	mixin := c.defaultMixin()
	candidates := sortSelectedByAmountAscending(c.gatherCandidates(sourceAddresses, height, now))

	selected, outputs, err := selectFusionSet(candidates, optimizeTarget, mixin)
	if err != nil {
		return [32]byte{}, err
	}

	plans := make([]outputPlan, len(outputs))
	for i, amt := range outputs {
		plans[i] = outputPlan{address: destAddr, amount: amt}
	}

	r, R, txOutputs := deriveOutputs(plans)

	inputs, err := buildInputs(ctx, c.client, selected, mixin)
	if err != nil {
		return [32]byte{}, err
	}

	extra, err := encodeExtra(height, R, nil, nil)
	if err != nil {
		return [32]byte{}, err
	}

	tx := Transaction{Version: 1, Inputs: inputs, Outputs: txOutputs, Extra: extra}

	if Size(tx) > FusionTxMaxSize {
		return [32]byte{}, walleterrors.Balance("composer.SendFusionAdvanced", ErrTooManyInputsForBlock)
	}
	for _, out := range tx.Outputs {
		if !IsPretty(out.Amount) {
			return [32]byte{}, walleterrors.Consensus("composer.SendFusionAdvanced", ErrInvalidFee)
		}
	}

	tx, err = signTransaction(tx)
	if err != nil {
		return [32]byte{}, err
	}

	hash := Hash(tx)

	owners := make([]inputOwner, len(selected))
	var total uint64
	for i, s := range selected {
		owners[i] = inputOwner{subwalletKey: s.owner.PublicSpendKey.Bytes(), identity: s.owner.Identity(s.input.Input)}
		total += s.input.Input.Amount
	}

	transfers := map[[32]byte]int64{}
	if destSw != nil {
		transfers[destSw.PublicSpendKey.Bytes()] = int64(total)
	}

	prepared := PreparedTransaction{
		Hash:         hash,
		Tx:           tx,
		TxSecretKey:  r,
		InputOwners:  owners,
		Fee:          0,
		Transfers:    transfers,
		SubmitHeight: height,
	}

	return c.submit(ctx, prepared)
}

// selectFusionSet grows a prefix of the smallest-amount candidates
// until the fusion count/ratio/size requirements of spec §4.7 are met,
// producing the consolidated output amounts to pay.
func selectFusionSet(candidatesAscending []candidateInput, optimizeTarget uint64, mixin uint64) ([]candidateInput, []uint64, error) {
	for count := FusionTxMinInputCount; count <= len(candidatesAscending); count++ {
		selected := candidatesAscending[:count]
		var total uint64
		for _, c := range selected {
			total += c.input.Input.Amount
		}

		maxOutputs := count / FusionTxMinInOutRatio
		if maxOutputs < 1 {
			maxOutputs = 1
		}
		outputs := fusionOutputs(total, maxOutputs, optimizeTarget)

		size := estimatedSize(count, mixin+1, len(outputs), 33)
		if size > FusionTxMaxSize {
			break
		}
		if len(outputs) == 0 || count/len(outputs) < FusionTxMinInOutRatio {
			continue
		}
		return selected, outputs, nil
	}
	return nil, nil, walleterrors.Balance("composer.selectFusionSet", ErrNotAFusionSet)
}

// fusionOutputs splits total into up to desiredCount-1 equal chunks plus
// the normal pretty-denomination split of the remainder, so the result can
// hold more than desiredCount pieces. The chunk is optimizeTarget, or
// total/desiredCount if no target was given, passed through
// roundToPrettyDenomination.
func fusionOutputs(total uint64, desiredCount int, optimizeTarget uint64) []uint64 {
	if desiredCount < 1 {
		desiredCount = 1
	}

	chunk := optimizeTarget
	if chunk == 0 && desiredCount > 0 {
		chunk = roundToPrettyDenomination(total / uint64(desiredCount))
	} else {
		chunk = roundToPrettyDenomination(chunk)
	}
	if chunk == 0 {
		return SplitBounded(total)
	}

	var outputs []uint64
	remaining := total
	for len(outputs) < desiredCount-1 && remaining > chunk {
		outputs = append(outputs, chunk)
		remaining -= chunk
	}
	outputs = append(outputs, SplitBounded(remaining)...)
	return outputs
}
