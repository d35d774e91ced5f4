package composer

import "errors"

// Sentinel causes wrapped by walleterrors.* constructors at each call
// site, matching the named failure modes of spec §4.7/§7.
var (
	ErrNoDestinations        = errors.New("composer: no destinations given")
	ErrZeroAmount            = errors.New("composer: destination amount is zero")
	ErrOutputTooLarge        = errors.New("composer: destination amount exceeds MAX_OUTPUT_SIZE_CLIENT")
	ErrMixinOutOfRange       = errors.New("composer: mixin outside the allowed range for this height")
	ErrAmountOverflow        = errors.New("composer: sum of required inputs overflows u64")
	ErrPaymentIDConflict     = errors.New("composer: integrated address payment ID conflicts with explicit payment ID")
	ErrChangeAddressNotOurs  = errors.New("composer: change address does not belong to this wallet")
	ErrInsufficientBalance   = errors.New("composer: not enough unlocked balance")
	ErrNotEnoughOutputs      = errors.New("composer: node returned fewer decoys than requested")
	ErrTooManyInputsForBlock = errors.New("composer: transaction exceeds max_tx_size at this height")
	ErrInvalidFee            = errors.New("composer: constructed fee does not satisfy the minimum-fee invariant")
	ErrNotAFusionSet         = errors.New("composer: selected inputs do not satisfy the fusion ratio/count requirement")
	ErrViewOnlyWallet        = errors.New("composer: cannot send from a view-only wallet")
	ErrUnknownPreparedTx     = errors.New("composer: no prepared transaction with that hash")
)
