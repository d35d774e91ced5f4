package wallet

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/wrkzcoin/wrkzcoin-sub002/composer"
	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/history"
	"github.com/wrkzcoin/wrkzcoin-sub002/persist"
	"github.com/wrkzcoin/wrkzcoin-sub002/subwallet"
	"github.com/wrkzcoin/wrkzcoin-sub002/syncstatus"
	"github.com/wrkzcoin/wrkzcoin-sub002/walleterrors"
)

// This file implements C9's plaintext schema (spec §4.9): a canonical
// JSON object serialized, then handed to persist.Seal/SaveFile for the
// authenticated-encryption envelope. crypto.Point/Scalar/[32]byte values
// are encoded as lowercase hex strings rather than JSON number arrays,
// matching the original CryptoNote wallet file's own hex-string
// convention for key material (original_source has no wallet-file
// serializer to ground this on directly, since WalletBackend's
// save/load path was filtered out of the retrieval pack, but every hash/
// key the node-facing JSON API itself uses, per nodeclient's RawBlock/
// RawTransaction tags, is hex — this keeps one convention across the
// whole wire/file surface instead of introducing a second one here).

// The plaintext schema carries no version number of its own: the only
// version is the one persist.Seal writes into the envelope
// (persist.CurrentVersion), since migrate() in the persist package is the
// single place schema upgrades are handled.

type fileInput struct {
	KeyImage              string `json:"keyImage"`
	Amount                uint64 `json:"amount"`
	BlockHeight           uint64 `json:"blockHeight"`
	TransactionPublicKey  string `json:"transactionPublicKey"`
	TransactionIndex      int    `json:"transactionIndex"`
	GlobalOutputIndex     uint64 `json:"globalOutputIndex"`
	Key                   string `json:"key"`
	UnlockTime            uint64 `json:"unlockTime"`
	ParentTransactionHash string `json:"parentTransactionHash"`
	PrivateEphemeral      string `json:"privateEphemeral"`
	SpendHeight           uint64 `json:"spendHeight"`
}

func toFileInput(in subwallet.TransactionInput) fileInput {
	return fileInput{
		KeyImage:              hexEnc(in.KeyImage.Bytes()),
		Amount:                in.Amount,
		BlockHeight:           in.BlockHeight,
		TransactionPublicKey:  hexEnc(in.TransactionPublicKey.Bytes()),
		TransactionIndex:      in.TransactionIndex,
		GlobalOutputIndex:     in.GlobalOutputIndex,
		Key:                   hexEnc(in.Key.Bytes()),
		UnlockTime:            in.UnlockTime,
		ParentTransactionHash: hexEnc(in.ParentTransactionHash),
		PrivateEphemeral:      hexEnc(in.PrivateEphemeral.Bytes()),
		SpendHeight:           in.SpendHeight,
	}
}

func fromFileInput(f fileInput) (subwallet.TransactionInput, error) {
	var in subwallet.TransactionInput
	var err error
	if in.KeyImage, err = pointFromHex(f.KeyImage); err != nil {
		return in, err
	}
	in.Amount = f.Amount
	in.BlockHeight = f.BlockHeight
	if in.TransactionPublicKey, err = pointFromHex(f.TransactionPublicKey); err != nil {
		return in, err
	}
	in.TransactionIndex = f.TransactionIndex
	in.GlobalOutputIndex = f.GlobalOutputIndex
	if in.Key, err = pointFromHex(f.Key); err != nil {
		return in, err
	}
	in.UnlockTime = f.UnlockTime
	if in.ParentTransactionHash, err = hexDec(f.ParentTransactionHash); err != nil {
		return in, err
	}
	if in.PrivateEphemeral, err = scalarFromHex(f.PrivateEphemeral); err != nil {
		return in, err
	}
	in.SpendHeight = f.SpendHeight
	return in, nil
}

type fileSubwallet struct {
	PublicSpendKey     string `json:"publicSpendKey"`
	PrivateSpendKey    string `json:"privateSpendKey"`
	PublicViewKey      string `json:"publicViewKey"`
	PrivateViewKey     string `json:"privateViewKey"`
	Address            string `json:"address"`
	IsPrimary          bool   `json:"isPrimary"`
	IsViewOnly         bool   `json:"isViewOnly"`
	SyncStartHeight    uint64 `json:"syncStartHeight"`
	SyncStartTimestamp uint64 `json:"syncStartTimestamp"`
	WalletIndex        uint64 `json:"walletIndex"`

	Unspent             []fileInput `json:"unspent"`
	Locked              []fileInput `json:"locked"`
	Spent               []fileInput `json:"spent"`
	UnconfirmedIncoming []fileInput `json:"unconfirmedIncoming"`
}

func toFileSubwallet(sw *subwallet.Subwallet) fileSubwallet {
	snap := sw.Snapshot()
	f := fileSubwallet{
		PublicSpendKey:     hexEnc(sw.PublicSpendKey.Bytes()),
		PrivateSpendKey:    hexEnc(sw.PrivateSpendKey.Bytes()),
		PublicViewKey:      hexEnc(sw.PublicViewKey.Bytes()),
		PrivateViewKey:     hexEnc(sw.PrivateViewKey.Bytes()),
		Address:            sw.Address,
		IsPrimary:          sw.IsPrimary,
		IsViewOnly:         sw.IsViewOnly,
		SyncStartHeight:    sw.SyncStartHeight,
		SyncStartTimestamp: sw.SyncStartTimestamp,
		WalletIndex:        sw.WalletIndex,
	}
	for _, in := range snap.Unspent {
		f.Unspent = append(f.Unspent, toFileInput(in))
	}
	for _, in := range snap.Locked {
		f.Locked = append(f.Locked, toFileInput(in))
	}
	for _, in := range snap.Spent {
		f.Spent = append(f.Spent, toFileInput(in))
	}
	for _, in := range snap.UnconfirmedIncoming {
		f.UnconfirmedIncoming = append(f.UnconfirmedIncoming, toFileInput(in))
	}
	return f
}

func fromFileSubwallet(f fileSubwallet) (*subwallet.Subwallet, error) {
	publicSpend, err := pointFromHex(f.PublicSpendKey)
	if err != nil {
		return nil, err
	}
	privateSpend, err := scalarFromHex(f.PrivateSpendKey)
	if err != nil {
		return nil, err
	}
	publicView, err := pointFromHex(f.PublicViewKey)
	if err != nil {
		return nil, err
	}
	privateView, err := scalarFromHex(f.PrivateViewKey)
	if err != nil {
		return nil, err
	}

	sw := subwallet.New(publicSpend, privateSpend, publicView, privateView, f.Address, f.IsPrimary, f.IsViewOnly, f.SyncStartHeight, f.SyncStartTimestamp, f.WalletIndex, nil)

	snap := subwallet.InputSnapshot{}
	for _, fi := range f.Unspent {
		in, err := fromFileInput(fi)
		if err != nil {
			return nil, err
		}
		snap.Unspent = append(snap.Unspent, in)
	}
	for _, fi := range f.Locked {
		in, err := fromFileInput(fi)
		if err != nil {
			return nil, err
		}
		snap.Locked = append(snap.Locked, in)
	}
	for _, fi := range f.Spent {
		in, err := fromFileInput(fi)
		if err != nil {
			return nil, err
		}
		snap.Spent = append(snap.Spent, in)
	}
	for _, fi := range f.UnconfirmedIncoming {
		in, err := fromFileInput(fi)
		if err != nil {
			return nil, err
		}
		snap.UnconfirmedIncoming = append(snap.UnconfirmedIncoming, in)
	}
	sw.Restore(snap)
	return sw, nil
}

type fileTransaction struct {
	Hash        string           `json:"hash"`
	PaymentID   string           `json:"paymentId,omitempty"`
	Transfers   map[string]int64 `json:"transfers"`
	Fee         uint64           `json:"fee"`
	BlockHeight uint64           `json:"blockHeight"`
	Timestamp   int64            `json:"timestamp"`
	UnlockTime  uint64           `json:"unlockTime"`
	IsCoinbase  bool             `json:"isCoinbase"`
}

func toFileTransaction(tx history.Transaction) fileTransaction {
	f := fileTransaction{
		Hash:        hexEnc(tx.Hash),
		Transfers:   map[string]int64{},
		Fee:         tx.Fee,
		BlockHeight: tx.BlockHeight,
		Timestamp:   tx.Timestamp,
		UnlockTime:  tx.UnlockTime,
		IsCoinbase:  tx.IsCoinbase,
	}
	if tx.PaymentID != nil {
		f.PaymentID = hexEnc(*tx.PaymentID)
	}
	for k, v := range tx.Transfers {
		f.Transfers[hexEnc(k)] = v
	}
	return f
}

func fromFileTransaction(f fileTransaction) (history.Transaction, error) {
	var tx history.Transaction
	hash, err := hexDec(f.Hash)
	if err != nil {
		return tx, err
	}
	tx.Hash = hash
	if f.PaymentID != "" {
		pid, err := hexDec(f.PaymentID)
		if err != nil {
			return tx, err
		}
		tx.PaymentID = &pid
	}
	tx.Transfers = map[[32]byte]int64{}
	for k, v := range f.Transfers {
		key, err := hexDec(k)
		if err != nil {
			return tx, err
		}
		tx.Transfers[key] = v
	}
	tx.Fee = f.Fee
	tx.BlockHeight = f.BlockHeight
	tx.Timestamp = f.Timestamp
	tx.UnlockTime = f.UnlockTime
	tx.IsCoinbase = f.IsCoinbase
	return tx, nil
}

type fileHashHeight struct {
	Hash   string `json:"hash"`
	Height uint64 `json:"height"`
}

type fileSyncStatus struct {
	BlockHashCheckpoints []fileHashHeight `json:"blockHashCheckpoints"`
	LastKnownBlockHashes []fileHashHeight `json:"lastKnownBlockHashes"`
	LastKnownBlockHeight uint64           `json:"lastKnownBlockHeight"`
}

func toFileSyncStatus(s *syncstatus.Status) fileSyncStatus {
	snap := s.Snapshot()
	f := fileSyncStatus{LastKnownBlockHeight: snap.LastKnownHeight}
	for _, e := range snap.Checkpoints {
		f.BlockHashCheckpoints = append(f.BlockHashCheckpoints, fileHashHeight{Hash: hexEnc(e.Hash), Height: e.Height})
	}
	for _, e := range snap.RecentBlockHashes {
		f.LastKnownBlockHashes = append(f.LastKnownBlockHashes, fileHashHeight{Hash: hexEnc(e.Hash), Height: e.Height})
	}
	return f
}

func fromFileSyncStatus(f fileSyncStatus) (syncstatus.Snapshot, error) {
	var snap syncstatus.Snapshot
	snap.LastKnownHeight = f.LastKnownBlockHeight
	for _, e := range f.BlockHashCheckpoints {
		h, err := hexDec(e.Hash)
		if err != nil {
			return snap, err
		}
		snap.Checkpoints = append(snap.Checkpoints, syncstatus.HashHeight{Hash: h, Height: e.Height})
	}
	for _, e := range f.LastKnownBlockHashes {
		h, err := hexDec(e.Hash)
		if err != nil {
			return snap, err
		}
		snap.RecentBlockHashes = append(snap.RecentBlockHashes, syncstatus.HashHeight{Hash: h, Height: e.Height})
	}
	return snap, nil
}

// filePreparedTx is the persisted form of a PreparedTransaction (spec
// §3's {transaction_hash, raw_transaction_bytes, fee, inputs_used,
// destinations}). composer.PreparedTransaction.InputOwners carries an
// unexported element type by design (spec §4.7/§9's "the composer
// borrows the subwallet set ... mutably (briefly) to record newly-sent
// outputs"), so it cannot be serialized directly. Instead, on open(),
// rebuildPreparedFromFile decodes the raw transaction and re-derives
// InputOwners by matching each input's key image back against the live
// subwallet set (see composer.Composer.RebuildPrepared). If scanning
// has moved an input out from under a saved prepared transaction since
// it was written, the entry is dropped rather than re-armed: send_prepared
// on its hash then correctly returns ErrUnknownPreparedTx.
type filePreparedTx struct {
	TransactionHash     string           `json:"transactionHash"`
	RawTransactionBytes string           `json:"rawTransactionBytes"`
	TxSecretKey         string           `json:"txSecretKey"`
	Fee                 uint64           `json:"fee"`
	PaymentID           string           `json:"paymentId,omitempty"`
	InputsUsed          []string         `json:"inputsUsed"`
	Destinations        map[string]int64 `json:"destinations"`
	SubmitHeight        uint64           `json:"submitHeight"`
}

func toFilePreparedTx(p composer.PreparedTransaction) filePreparedTx {
	f := filePreparedTx{
		TransactionHash:     hexEnc(p.Hash),
		RawTransactionBytes: hex.EncodeToString(composer.Encode(p.Tx)),
		TxSecretKey:         hexEnc(p.TxSecretKey.Bytes()),
		Fee:                 p.Fee,
		Destinations:        map[string]int64{},
		SubmitHeight:        p.SubmitHeight,
	}
	if p.PaymentID != nil {
		f.PaymentID = hexEnc(*p.PaymentID)
	}
	for _, in := range p.Tx.Inputs {
		f.InputsUsed = append(f.InputsUsed, hexEnc(in.KeyImage.Bytes()))
	}
	for k, v := range p.Transfers {
		f.Destinations[hexEnc(k)] = v
	}
	return f
}

// rebuildPreparedFromFile decodes a persisted prepared-transaction entry
// and hands it to c.RebuildPrepared, which re-derives InputOwners against
// the live subwallet set. It returns an error if the raw bytes or any
// hex field don't decode, and reports false (doing nothing) if the
// inputs no longer resolve.
func rebuildPreparedFromFile(c *composer.Composer, f filePreparedTx) (bool, error) {
	raw, err := hex.DecodeString(f.RawTransactionBytes)
	if err != nil {
		return false, fmt.Errorf("wallet: invalid prepared transaction bytes: %w", err)
	}
	tx, err := composer.Decode(raw)
	if err != nil {
		return false, fmt.Errorf("wallet: corrupt prepared transaction: %w", err)
	}
	txSecretKey, err := scalarFromHex(f.TxSecretKey)
	if err != nil {
		return false, err
	}
	var paymentID *[32]byte
	if f.PaymentID != "" {
		pid, err := hexDec(f.PaymentID)
		if err != nil {
			return false, err
		}
		paymentID = &pid
	}
	transfers := map[[32]byte]int64{}
	for k, v := range f.Destinations {
		key, err := hexDec(k)
		if err != nil {
			return false, err
		}
		transfers[key] = v
	}
	return c.RebuildPrepared(tx, txSecretKey, f.Fee, paymentID, transfers, f.SubmitHeight), nil
}

type walletFile struct {
	SubWallets            []fileSubwallet   `json:"subWallets"`
	PublicSpendKeys       []string          `json:"publicSpendKeys"`
	PrivateViewKey        string            `json:"privateViewKey"`
	IsViewWallet          bool              `json:"isViewWallet"`
	Transactions          []fileTransaction `json:"transactions"`
	LockedTransactions    []fileTransaction `json:"lockedTransactions"`
	SynchronizationStatus fileSyncStatus    `json:"synchronizationStatus"`
	PreparedTransactions  []filePreparedTx  `json:"preparedTransactions"`
	TxPrivateKeys         map[string]string `json:"txPrivateKeys"`
}

// Save implements save() (spec §4.8/§4.9): serializes the wallet's full
// state to canonical JSON, seals it with the password-derived AES-256-
// CBC/HMAC envelope, and writes it atomically to w.filename.
func (w *Wallet) Save() error {
	plaintext, err := w.marshalState()
	if err != nil {
		return walleterrors.Persistence("wallet.Save", err)
	}
	if err := persist.SaveFile(w.filename, plaintext, w.password); err != nil {
		return walleterrors.Persistence("wallet.Save", err)
	}
	return nil
}

func (w *Wallet) marshalState() ([]byte, error) {
	w.subwallets.Mu.RLock()
	all := w.subwallets.All()
	f := walletFile{
		PrivateViewKey: hexEnc(w.subwallets.PrivateViewKey().Bytes()),
		IsViewWallet:   w.isViewWallet,
	}
	for _, sw := range all {
		f.SubWallets = append(f.SubWallets, toFileSubwallet(sw))
		f.PublicSpendKeys = append(f.PublicSpendKeys, hexEnc(sw.PublicSpendKey.Bytes()))
	}
	w.subwallets.Mu.RUnlock()

	for _, tx := range w.history.All() {
		ft := toFileTransaction(tx)
		if tx.BlockHeight == 0 {
			f.LockedTransactions = append(f.LockedTransactions, ft)
		} else {
			f.Transactions = append(f.Transactions, ft)
		}
	}

	f.SynchronizationStatus = toFileSyncStatus(w.status)

	for _, p := range w.compose.PreparedSnapshot() {
		f.PreparedTransactions = append(f.PreparedTransactions, toFilePreparedTx(p))
	}

	f.TxPrivateKeys = map[string]string{}
	for hash, key := range w.compose.TxSecretKeys() {
		f.TxPrivateKeys[hexEnc(hash)] = hexEnc(key.Bytes())
	}

	return json.MarshalIndent(f, "", "  ")
}

// Open implements open(file, password, daemon): decrypts, validates the
// envelope, and deserializes every component's state.
func Open(file, password, daemonURL string, cfg Config) (*Wallet, error) {
	plaintext, err := persist.OpenFile(file, password)
	if err != nil {
		return nil, walleterrors.Persistence("wallet.Open", err)
	}

	var f walletFile
	if err := json.Unmarshal(plaintext, &f); err != nil {
		return nil, walleterrors.Persistence("wallet.Open", fmt.Errorf("wallet: corrupt plaintext: %w", err))
	}

	client, err := newNodeClient(daemonURL, cfg)
	if err != nil {
		return nil, err
	}
	w := newWallet(file, password, cfg, client, f.IsViewWallet)

	w.subwallets.Mu.Lock()
	for _, fsw := range f.SubWallets {
		sw, err := fromFileSubwallet(fsw)
		if err != nil {
			w.subwallets.Mu.Unlock()
			return nil, walleterrors.Persistence("wallet.Open", err)
		}
		if err := w.subwallets.Add(sw); err != nil {
			w.subwallets.Mu.Unlock()
			return nil, walleterrors.Persistence("wallet.Open", err)
		}
	}
	w.subwallets.Mu.Unlock()

	var txs []history.Transaction
	for _, ft := range f.Transactions {
		tx, err := fromFileTransaction(ft)
		if err != nil {
			return nil, walleterrors.Persistence("wallet.Open", err)
		}
		txs = append(txs, tx)
	}
	for _, ft := range f.LockedTransactions {
		tx, err := fromFileTransaction(ft)
		if err != nil {
			return nil, walleterrors.Persistence("wallet.Open", err)
		}
		txs = append(txs, tx)
	}
	w.history.Restore(txs)

	statusSnap, err := fromFileSyncStatus(f.SynchronizationStatus)
	if err != nil {
		return nil, walleterrors.Persistence("wallet.Open", err)
	}
	w.status.Restore(statusSnap)

	txKeys := map[[32]byte]crypto.Scalar{}
	for hashHex, keyHex := range f.TxPrivateKeys {
		hash, err := hexDec(hashHex)
		if err != nil {
			return nil, walleterrors.Persistence("wallet.Open", err)
		}
		key, err := scalarFromHex(keyHex)
		if err != nil {
			return nil, walleterrors.Persistence("wallet.Open", err)
		}
		txKeys[hash] = key
	}
	w.compose.RestoreTxSecretKeys(txKeys)

	for _, fp := range f.PreparedTransactions {
		rebuilt, err := rebuildPreparedFromFile(w.compose, fp)
		if err != nil {
			return nil, walleterrors.Persistence("wallet.Open", err)
		}
		if !rebuilt && w.log != nil {
			w.log.WithField("hash", fp.TransactionHash).Warn("dropping prepared transaction whose inputs no longer resolve")
		}
	}

	return w, nil
}

func hexEnc(b [32]byte) string { return hex.EncodeToString(b[:]) }

func hexDec(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("wallet: invalid hex %q: %w", s, err)
	}
	if len(b) != 32 {
		return out, fmt.Errorf("wallet: expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

func pointFromHex(s string) (crypto.Point, error) {
	b, err := hexDec(s)
	if err != nil {
		return crypto.Point{}, err
	}
	p, err := crypto.PointFromBytes(b)
	if err != nil {
		return crypto.Point{}, fmt.Errorf("wallet: invalid point %q: %w", s, err)
	}
	return p, nil
}

func scalarFromHex(s string) (crypto.Scalar, error) {
	b, err := hexDec(s)
	if err != nil {
		return crypto.Scalar{}, err
	}
	return crypto.ScalarFromCanonicalBytes(b), nil
}
