// Package composer implements C7: the transaction composer from spec
// §4.7 — preflight validation, input selection, output denomination,
// stealth output derivation, ring construction, LSAG signing, fusion
// transactions, and the prepared-transaction lifecycle. Grounded on the
// teacher's dependency-injected, no-global-state construction idiom
// (modules/wallet and modules/consensus both take every collaborator as
// a constructor argument), enriched with the ring/derivation math from
// original_source/src/CryptoNoteCore/TransactionApi.cpp and
// original_source/src/WalletBackend's sendTransactionBasic /
// sendFusionTransactionBasic shape (dust consolidation via a
// denomination-aware output budget rather than a 1:1 input:output
// split).
package composer

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/NebulousLabs/fastrand"
	"github.com/sirupsen/logrus"

	"github.com/wrkzcoin/wrkzcoin-sub002/address"
	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/encoding"
	"github.com/wrkzcoin/wrkzcoin-sub002/history"
	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
	"github.com/wrkzcoin/wrkzcoin-sub002/subwallet"
	"github.com/wrkzcoin/wrkzcoin-sub002/syncstatus"
	"github.com/wrkzcoin/wrkzcoin-sub002/walleterrors"
)

// Destination is one payment a send operation is asked to make.
type Destination struct {
	Address string
	Amount  uint64
}

// FeeMode selects between a fixed atomic fee and a per-byte rate, per
// spec §4.7. If both fields are set, Fixed wins; if neither is set the
// height's flat minimum fee is used. In every case the fee is then raised
// to the size-based minimum for the transaction's estimated size.
type FeeMode struct {
	Fixed       *uint64
	PerByteRate *float64
}

// AdvancedParams is the full parameter set for SendAdvanced.
type AdvancedParams struct {
	Destinations    []Destination
	Mixin           uint64
	Fee             FeeMode
	PaymentID       *[32]byte
	SourceAddresses []string // empty means every non-view-only subwallet
	ChangeAddress   string   // empty means the primary subwallet's address
	UnlockTime      uint64
	ExtraData       []byte
	SendAll         bool
	SendNow         bool
}

// PreparedTransaction is a fully built and signed, but not yet
// submitted, transaction: spec §4.7's "the composer MUST mark the
// selected inputs as locked at submission, not at preparation".
type PreparedTransaction struct {
	Hash          [32]byte
	Tx            Transaction
	TxSecretKey   crypto.Scalar
	InputOwners   []inputOwner
	Fee           uint64
	PaymentID     *[32]byte
	Transfers     map[[32]byte]int64
	SubmitHeight  uint64
}

type inputOwner struct {
	subwalletKey [32]byte
	identity     [32]byte
}

// Composer implements send_basic/send_advanced/send_fusion_basic/
// send_fusion_advanced/send_prepared/remove_prepared.
type Composer struct {
	client     *nodeclient.Client
	subwallets *subwallet.Set
	history    *history.Store
	status     *syncstatus.Status
	addrPrefix uint64
	log        *logrus.Entry

	mu       sync.Mutex
	prepared map[[32]byte]PreparedTransaction
	txKeys   map[[32]byte]crypto.Scalar
}

// New constructs a Composer against its collaborators, per the
// borrowed-handle ownership strategy of spec §9: the wallet container
// owns subwallets/history/status and lends them here.
func New(client *nodeclient.Client, subwallets *subwallet.Set, hist *history.Store, status *syncstatus.Status, addrPrefix uint64, log *logrus.Entry) *Composer {
	return &Composer{
		client:     client,
		subwallets: subwallets,
		history:    hist,
		status:     status,
		addrPrefix: addrPrefix,
		log:        log,
		prepared:   make(map[[32]byte]PreparedTransaction),
		txKeys:     make(map[[32]byte]crypto.Scalar),
	}
}

type resolvedAddress struct {
	spend     crypto.Point
	view      crypto.Point
	paymentID *[32]byte
}

func resolveAddress(s string) (resolvedAddress, error) {
	if addr, err := address.Decode(s); err == nil {
		return resolvedAddress{spend: addr.PublicSpend, view: addr.PublicView}, nil
	}
	ia, err := address.DecodeIntegrated(s)
	if err != nil {
		return resolvedAddress{}, err
	}
	pid := ia.PaymentID
	return resolvedAddress{spend: ia.PublicSpend, view: ia.PublicView, paymentID: &pid}, nil
}

// preflight implements spec §4.7's numbered preflight validation list.
// It never has a side effect.
func preflight(destinations []Destination, mixin uint64, height uint64, explicitPaymentID *[32]byte, resolved []resolvedAddress) (*[32]byte, error) {
	if len(destinations) == 0 {
		return nil, walleterrors.Input("composer.preflight", ErrNoDestinations)
	}

	var sum uint64
	for _, d := range destinations {
		if d.Amount == 0 {
			return nil, walleterrors.Input("composer.preflight", ErrZeroAmount)
		}
		if d.Amount > MaxOutputSizeClient {
			return nil, walleterrors.Input("composer.preflight", ErrOutputTooLarge)
		}
		newSum := sum + d.Amount
		if newSum < sum {
			return nil, walleterrors.Input("composer.preflight", ErrAmountOverflow)
		}
		sum = newSum
	}

	min, max, _ := MixinBounds(height)
	if mixin < min || mixin > max {
		return nil, walleterrors.Input("composer.preflight", ErrMixinOutOfRange)
	}

	paymentID := explicitPaymentID
	for _, r := range resolved {
		if r.paymentID == nil {
			continue
		}
		if paymentID == nil {
			paymentID = r.paymentID
			continue
		}
		if *paymentID != *r.paymentID {
			return nil, walleterrors.Input("composer.preflight", ErrPaymentIDConflict)
		}
	}

	return paymentID, nil
}

// candidateInput pairs a spendable input with the subwallet that owns
// it, so selection can record which subwallet to lock/spend from later.
type candidateInput struct {
	owner *subwallet.Subwallet
	input subwallet.SpendableInput
}

func (c *Composer) gatherCandidates(sourceAddresses []string, currentHeight uint64, now int64) []candidateInput {
	c.subwallets.Mu.RLock()
	defer c.subwallets.Mu.RUnlock()

	var wallets []*subwallet.Subwallet
	if len(sourceAddresses) == 0 {
		for _, sw := range c.subwallets.All() {
			if !sw.IsViewOnly {
				wallets = append(wallets, sw)
			}
		}
	} else {
		want := make(map[string]bool, len(sourceAddresses))
		for _, a := range sourceAddresses {
			want[a] = true
		}
		for _, sw := range c.subwallets.All() {
			if want[sw.Address] && !sw.IsViewOnly {
				wallets = append(wallets, sw)
			}
		}
	}

	var out []candidateInput
	for _, sw := range wallets {
		for _, in := range sw.GetSpendableInputs(currentHeight, now) {
			out = append(out, candidateInput{owner: sw, input: in})
		}
	}
	return out
}

// estimatedSize heuristically predicts the encoded size of a transaction
// with the given shape, for the per-byte fee convergence loop described
// in spec §4.7. It is deliberately conservative (an overestimate skews
// toward too much fee, never too little).
func estimatedSize(numInputs int, ringSize uint64, numOutputs int, extraLen int) uint64 {
	perInput := uint64(16) + 10*ringSize + 32 + 64*ringSize
	perOutput := uint64(40)
	return uint64(numInputs)*perInput + uint64(numOutputs)*perOutput + uint64(extraLen) + 16
}

func computeFee(height uint64, mode FeeMode, size uint64) uint64 {
	var fee uint64
	switch {
	case mode.Fixed != nil:
		fee = *mode.Fixed
	case mode.PerByteRate != nil:
		fee = uint64(math.Ceil(float64(size) * (*mode.PerByteRate)))
	default:
		fee = MinFee(height)
	}
	if floor := MinFeeForSize(height, size); fee < floor {
		fee = floor
	}
	return fee
}

// selectInputs implements spec §4.7's shuffle-then-greedy selection,
// re-estimating the fee after each input is added so the loop converges
// on the true required sum (strictly increasing selection size; size is
// monotone non-decreasing in input count, so this terminates).
func selectInputs(candidates []candidateInput, destinationTotal, nodeFee uint64, mixin uint64, outputCountGuess int, extraLen int, height uint64, mode FeeMode) ([]candidateInput, uint64, error) {
	order := fastrand.Perm(len(candidates))

	var selected []candidateInput
	var sum uint64
	var fee uint64
	i := 0
	for {
		size := estimatedSize(len(selected), mixin+1, outputCountGuess, extraLen)
		fee = computeFee(height, mode, size)
		required := destinationTotal + nodeFee + fee
		if sum >= required {
			return selected, fee, nil
		}
		if i >= len(order) {
			return nil, 0, walleterrors.Balance("composer.selectInputs", ErrInsufficientBalance)
		}
		c := candidates[order[i]]
		i++
		selected = append(selected, c)
		sum += c.input.Input.Amount
	}
}

// selectAllInputs is send_all's input set: every spendable candidate.
func selectAllInputs(candidates []candidateInput) ([]candidateInput, uint64) {
	var sum uint64
	for _, c := range candidates {
		sum += c.input.Input.Amount
	}
	return candidates, sum
}

type outputPlan struct {
	address resolvedAddress
	amount  uint64
}

// planOutputs denominates every destination (and, if positive, a change
// output) into pretty pieces per spec §4.7.
func planOutputs(destinations []Destination, resolved []resolvedAddress, change uint64, changeAddr resolvedAddress) []outputPlan {
	var plans []outputPlan
	for i, d := range destinations {
		for _, piece := range SplitBounded(d.Amount) {
			plans = append(plans, outputPlan{address: resolved[i], amount: piece})
		}
	}
	if change > 0 {
		for _, piece := range SplitBounded(change) {
			plans = append(plans, outputPlan{address: changeAddr, amount: piece})
		}
	}
	return plans
}

// deriveOutputs implements spec §4.7's stealth output derivation: a
// fresh transaction keypair (r, R), and per-destination
// D = mul8(r·A), P = derive_public_key(D, i, B).
func deriveOutputs(plans []outputPlan) (crypto.Scalar, crypto.Point, []TxOutput) {
	r, R := crypto.GenerateKeyPair()
	outputs := make([]TxOutput, len(plans))
	for i, p := range plans {
		d := crypto.KeyDerivation(p.address.view, r)
		pub := crypto.DerivePublicKey(d, uint64(i), p.address.spend)
		outputs[i] = TxOutput{Amount: p.amount, Key: pub}
	}
	return r, R, outputs
}

// buildInputs constructs one TxInput per selected candidate: the ring
// (real output plus fetched decoys, sorted ascending), the signer
// index, and the key image, per spec §4.7's ring construction.
func buildInputs(ctx context.Context, client *nodeclient.Client, selected []candidateInput, mixin uint64) ([]TxInput, error) {
	inputs := make([]TxInput, len(selected))
	for i, c := range selected {
		indices, keys, signerIndex, err := buildRing(ctx, client, c.input.Input.Amount, c.input.Input.GlobalOutputIndex, c.input.Input.Key, mixin)
		if err != nil {
			return nil, err
		}
		inputs[i] = TxInput{
			Amount:              c.input.Input.Amount,
			RingAbsoluteIndices: indices,
			RingPubKeys:         keys,
			SignerIndex:         signerIndex,
			KeyImage:            c.input.Input.KeyImage,
			PrivateEphemeral:    c.input.Input.PrivateEphemeral,
		}
	}
	return inputs, nil
}

// signTransaction computes the LSAG ring signature for every input over
// the transaction's prefix hash, per spec §4.1/§4.7.
func signTransaction(tx Transaction) (Transaction, error) {
	message := PrefixHash(tx)
	tx.Signatures = make([]crypto.RingSignature, len(tx.Inputs))
	for i, in := range tx.Inputs {
		sig, err := crypto.RingSign(message, in.RingPubKeys, in.KeyImage, in.SignerIndex, in.PrivateEphemeral)
		if err != nil {
			return Transaction{}, walleterrors.Crypto("composer.signTransaction", err)
		}
		tx.Signatures[i] = sig
	}
	return tx, nil
}

func encodeExtra(height uint64, txPublic crypto.Point, paymentID *[32]byte, data []byte) ([]byte, error) {
	e := encoding.Extra{TxPublicKey: txPublic, Data: data}
	if paymentID != nil {
		e.HasPaymentID = true
		e.PaymentID = *paymentID
	}
	raw, err := encoding.EncodeExtra(e, MaxExtraSize(height))
	if err != nil {
		return nil, walleterrors.Input("composer.encodeExtra", err)
	}
	return raw, nil
}

func sortSelectedByAmountAscending(candidates []candidateInput) []candidateInput {
	out := append([]candidateInput(nil), candidates...)
	sort.Slice(out, func(i, j int) bool { return out[i].input.Input.Amount < out[j].input.Input.Amount })
	return out
}

// roundToPrettyDenomination implements the Open Question decision of
// spec §9: round target to the nearest pretty denomination, ties to the
// lower.
func roundToPrettyDenomination(target uint64) uint64 {
	if target == 0 {
		return 0
	}
	pow := uint64(1)
	for pow*10 <= target {
		pow *= 10
	}
	lowerDigit := target / pow
	lower := lowerDigit * pow
	var upper uint64
	if lowerDigit == 9 {
		upper = 10 * pow
	} else {
		upper = (lowerDigit + 1) * pow
	}
	if upper-target < target-lower {
		return upper
	}
	return lower
}
