// Package wallet implements C8: the top-level facade from spec §4.8
// that owns every other component and exposes the lifecycle operations
// (create_new, open, import_from_seed, import_from_keys,
// import_view_only, add_subwallet, delete_subwallet, save). Grounded on
// the teacher's modules/wallet.Wallet, which is likewise the single
// struct a caller constructs and holds: a persistDir/filename, a
// send-serializing lock (the teacher's Wallet.unlocked/scan state is
// guarded the same way its subwallet.Mu/composer.mu is built here), and
// borrowed handles to every collaborator rather than reimplementing
// their state locally.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/NebulousLabs/fastrand"
	"github.com/sirupsen/logrus"

	"github.com/wrkzcoin/wrkzcoin-sub002/address"
	"github.com/wrkzcoin/wrkzcoin-sub002/blockdownloader"
	"github.com/wrkzcoin/wrkzcoin-sub002/build"
	"github.com/wrkzcoin/wrkzcoin-sub002/composer"
	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/history"
	"github.com/wrkzcoin/wrkzcoin-sub002/mnemonic"
	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
	"github.com/wrkzcoin/wrkzcoin-sub002/subwallet"
	"github.com/wrkzcoin/wrkzcoin-sub002/syncengine"
	"github.com/wrkzcoin/wrkzcoin-sub002/syncstatus"
	"github.com/wrkzcoin/wrkzcoin-sub002/walleterrors"
)

// Config carries every knob the wallet core exposes as a plain Go
// struct, per SPEC_FULL.md §1.3: no package-level globals, no config
// file (that is the out-of-scope CLI's concern). Zero values fall back
// to the defaults named in spec §4.4/§5.
type Config struct {
	AddressPrefix uint64
	UserAgent     string

	// WorkerCount is the sync engine's scan worker pool size; <=0
	// defaults to runtime.NumCPU(), per spec §4.4.
	WorkerCount int

	// SkipCoinbase mirrors spec §4.2's get_wallet_sync_data parameter:
	// true omits coinbase outputs from the scan entirely.
	SkipCoinbase bool

	// LockedCheckInterval and CancelledGrace configure the sync
	// engine's pending-transaction reconciliation loop (spec §4.4).
	LockedCheckInterval time.Duration
	CancelledGrace      time.Duration

	// Log, if nil, defaults to a discard logger (SPEC_FULL.md §1.1).
	Log *logrus.Entry
}

func (c Config) withDefaults() Config {
	if c.WorkerCount <= 0 {
		c.WorkerCount = runtime.NumCPU()
	}
	if c.UserAgent == "" {
		c.UserAgent = "wrkzwallet/1.0"
	}
	if c.Log == nil {
		c.Log = build.DiscardLogger("wallet")
	}
	return c
}

// ErrViewOnlyWallet is returned by operations that require a private
// spend key (e.g. add_subwallet) against a wallet imported view-only.
var ErrViewOnlyWallet = walleterrors.State("wallet", errors.New("wallet: operation requires spend keys, wallet is view-only"))

// ErrPrimaryHasOtherSubwallets is returned by delete_subwallet when
// asked to remove the primary address while other subwallets still
// exist, per spec §4.8's explicit prohibition.
var ErrPrimaryHasOtherSubwallets = walleterrors.Input("wallet", errors.New("wallet: cannot delete the primary subwallet while other subwallets exist"))

// ErrUnknownSubwallet is returned by delete_subwallet for an address the
// wallet does not hold.
var ErrUnknownSubwallet = walleterrors.Input("wallet", errors.New("wallet: no subwallet with that address"))

// Wallet is the C8 top-level facade: it exclusively owns the subwallet
// set, transaction history, sync status, daemon client handle, and the
// prepared-transaction map (the last of these lives inside composer,
// which the wallet owns), per spec §3's ownership summary. The sync
// engine and composer are handed borrowed pointers to these, never
// copies.
type Wallet struct {
	filename string
	password string
	cfg      Config

	client     *nodeclient.Client
	downloader *blockdownloader.Downloader
	sync       *syncengine.Engine
	subwallets *subwallet.Set
	history    *history.Store
	status     *syncstatus.Status
	compose    *composer.Composer

	isViewWallet bool

	sendMu sync.Mutex

	log *logrus.Entry
}

// Config returns a copy of the wallet's configuration.
func (w *Wallet) Config() Config { return w.cfg }

// IsViewOnly reports whether this wallet was opened/imported without
// spend keys.
func (w *Wallet) IsViewOnly() bool { return w.isViewWallet }

// Subwallets exposes the borrowed subwallet set for read access (balance
// queries, address listings); mutation outside this package's own
// lifecycle methods is not supported.
func (w *Wallet) Subwallets() *subwallet.Set { return w.subwallets }

// History exposes the borrowed transaction history store.
func (w *Wallet) History() *history.Store { return w.history }

// SyncStatus exposes the borrowed synchronization status ledger.
func (w *Wallet) SyncStatus() *syncstatus.Status { return w.status }

// Composer exposes the borrowed transaction composer, guarded against
// concurrent sends by the caller-visible LockSend/UnlockSend pair so a
// front-end can serialize calls that must not interleave (spec §4.8's
// "only one send may be in flight at a time").
func (w *Wallet) Composer() *composer.Composer { return w.compose }

// LockSend and UnlockSend implement spec §4.8's send_mutex: exactly one
// send operation may be composing/submitting a transaction at a time;
// scanning proceeds independently since C5 operations are individually
// atomic under their own locking.
func (w *Wallet) LockSend()   { w.sendMu.Lock() }
func (w *Wallet) UnlockSend() { w.sendMu.Unlock() }

// newWallet wires every component together from already-derived
// key material, the shape shared by every lifecycle constructor below.
func newWallet(filename, password string, cfg Config, client *nodeclient.Client, isViewWallet bool) *Wallet {
	cfg = cfg.withDefaults()

	subwallets := subwallet.NewSet()
	hist := history.New()
	status := syncstatus.New()

	downloader := blockdownloader.New(client, status, cfg.Log.WithField("subcomponent", "blockdownloader"), cfg.SkipCoinbase,
		subwallets.MinSyncStartHeight, subwallets.MinSyncStartTimestamp)

	engine := syncengine.New(client, downloader, subwallets, hist, status, cfg.Log.WithField("subcomponent", "syncengine"), syncengine.Config{
		WorkerCount:         cfg.WorkerCount,
		SkipCoinbase:        cfg.SkipCoinbase,
		LockedCheckInterval: cfg.LockedCheckInterval,
		CancelledGrace:      cfg.CancelledGrace,
	})

	comp := composer.New(client, subwallets, hist, status, cfg.AddressPrefix, cfg.Log.WithField("subcomponent", "composer"))

	return &Wallet{
		filename:     filename,
		password:     password,
		cfg:          cfg,
		client:       client,
		downloader:   downloader,
		sync:         engine,
		subwallets:   subwallets,
		history:      hist,
		status:       status,
		compose:      comp,
		isViewWallet: isViewWallet,
		log:          cfg.Log,
	}
}

func newNodeClient(daemonURL string, cfg Config) (*nodeclient.Client, error) {
	client, err := nodeclient.New(daemonURL, cfg.UserAgent, cfg.Log.WithField("subcomponent", "nodeclient"))
	if err != nil {
		return nil, walleterrors.Network("wallet.newNodeClient", err)
	}
	return client, nil
}

// CreateNew implements create_new(file, password, daemon): generates a
// fresh deterministic primary keypair, persists the new wallet, and
// returns it along with its 25-word mnemonic seed so the caller can back
// it up.
func CreateNew(file, password, daemonURL string, cfg Config) (*Wallet, mnemonic.Phrase, error) {
	client, err := newNodeClient(daemonURL, cfg)
	if err != nil {
		return nil, nil, err
	}

	var seed [32]byte
	fastrand.Read(seed[:])

	w, phrase, err := fromSeedBytes(seed, file, password, 0, 0, cfg, client)
	if err != nil {
		return nil, nil, err
	}
	if err := w.Save(); err != nil {
		return nil, nil, err
	}
	return w, phrase, nil
}

// ImportFromSeed implements import_from_seed(mnemonic, file, password,
// scan_height, daemon): the mnemonic's checksum is validated by
// mnemonic.Decode itself.
func ImportFromSeed(phrase mnemonic.Phrase, file, password string, scanHeight, scanTimestamp uint64, daemonURL string, cfg Config) (*Wallet, error) {
	seed, err := mnemonic.Decode(phrase)
	if err != nil {
		return nil, walleterrors.Input("wallet.ImportFromSeed", err)
	}
	client, err := newNodeClient(daemonURL, cfg)
	if err != nil {
		return nil, err
	}
	w, _, err := fromSeedBytes(seed, file, password, scanHeight, scanTimestamp, cfg, client)
	if err != nil {
		return nil, err
	}
	if err := w.Save(); err != nil {
		return nil, err
	}
	return w, nil
}

// fromSeedBytes builds the primary subwallet deterministically from a
// 32-byte seed: the seed is itself the private spend key (matching
// mnemonic.Encode/Decode's own convention), and the private view key is
// derived from it via crypto.DeriveViewSecret.
func fromSeedBytes(seed [32]byte, file, password string, scanHeight, scanTimestamp uint64, cfg Config, client *nodeclient.Client) (*Wallet, mnemonic.Phrase, error) {
	privSpend := crypto.ScalarFromCanonicalBytes(seed)
	privView := crypto.DeriveViewSecret(privSpend)

	w, err := buildFromKeys(privSpend, privView, false, file, password, scanHeight, scanTimestamp, cfg, client)
	if err != nil {
		return nil, nil, err
	}
	return w, mnemonic.Encode(seed), nil
}

// ImportFromKeys implements import_from_keys(spend_secret, view_secret,
// file, password, scan_height, daemon).
func ImportFromKeys(spendSecret, viewSecret crypto.Scalar, file, password string, scanHeight, scanTimestamp uint64, daemonURL string, cfg Config) (*Wallet, error) {
	client, err := newNodeClient(daemonURL, cfg)
	if err != nil {
		return nil, err
	}
	w, err := buildFromKeys(spendSecret, viewSecret, false, file, password, scanHeight, scanTimestamp, cfg, client)
	if err != nil {
		return nil, err
	}
	if err := w.Save(); err != nil {
		return nil, err
	}
	return w, nil
}

// ImportViewOnly implements import_view_only(view_secret, address, file,
// password, scan_height, daemon): the primary subwallet has no private
// spend key and can never sign, only observe.
func ImportViewOnly(viewSecret crypto.Scalar, addr string, file, password string, scanHeight, scanTimestamp uint64, daemonURL string, cfg Config) (*Wallet, error) {
	decoded, err := address.Decode(addr)
	if err != nil {
		return nil, walleterrors.Input("wallet.ImportViewOnly", err)
	}
	if decoded.Prefix != cfg.AddressPrefix {
		return nil, walleterrors.Input("wallet.ImportViewOnly", errAddressWrongPrefix)
	}

	client, err := newNodeClient(daemonURL, cfg)
	if err != nil {
		return nil, err
	}

	w := newWallet(file, password, cfg, client, true)
	publicView := crypto.ScalarMulBase(viewSecret)
	primary := subwallet.New(decoded.PublicSpend, crypto.ScalarZero(), publicView, viewSecret, addr, true, true, scanHeight, scanTimestamp, 0, w.log.WithField("subcomponent", "subwallet"))
	if err := w.subwallets.Add(primary); err != nil {
		return nil, walleterrors.State("wallet.ImportViewOnly", err)
	}

	if err := w.Save(); err != nil {
		return nil, err
	}
	return w, nil
}

var errAddressWrongPrefix = errors.New("wallet: address does not match this wallet's network prefix")

func buildFromKeys(privSpend, privView crypto.Scalar, viewOnly bool, file, password string, scanHeight, scanTimestamp uint64, cfg Config, client *nodeclient.Client) (*Wallet, error) {
	w := newWallet(file, password, cfg, client, viewOnly)

	publicSpend := crypto.ScalarMulBase(privSpend)
	publicView := crypto.ScalarMulBase(privView)
	addr := address.Encode(cfg.AddressPrefix, publicSpend, publicView)

	primary := subwallet.New(publicSpend, privSpend, publicView, privView, addr, true, viewOnly, scanHeight, scanTimestamp, 0, w.log.WithField("subcomponent", "subwallet"))
	if err := w.subwallets.Add(primary); err != nil {
		return nil, walleterrors.State("wallet.buildFromKeys", err)
	}
	return w, nil
}

// AddSubwallet implements add_subwallet(): derives a new deterministic
// spend keypair from the primary subwallet's private spend key, sharing
// the wallet-wide view key, per spec §4.8. Not available on a view-only
// wallet (there is no primary private spend key to derive from).
func (w *Wallet) AddSubwallet() (*subwallet.Subwallet, error) {
	if w.isViewWallet {
		return nil, ErrViewOnlyWallet
	}

	w.subwallets.Mu.Lock()
	defer w.subwallets.Mu.Unlock()

	primary := w.subwallets.Primary()
	if primary == nil {
		return nil, walleterrors.State("wallet.AddSubwallet", errors.New("wallet: no primary subwallet"))
	}

	nextIndex := uint64(w.subwallets.Len())
	privSpend := crypto.DeriveSubwalletSpendSecret(primary.PrivateSpendKey, nextIndex)
	publicSpend := crypto.ScalarMulBase(privSpend)
	addr := address.Encode(w.cfg.AddressPrefix, publicSpend, primary.PublicViewKey)

	sw := subwallet.New(publicSpend, privSpend, primary.PublicViewKey, primary.PrivateViewKey, addr, false, false, 0, 0, nextIndex, w.log.WithField("subcomponent", "subwallet"))
	if err := w.subwallets.Add(sw); err != nil {
		return nil, walleterrors.State("wallet.AddSubwallet", err)
	}
	return sw, nil
}

// DeleteSubwallet implements delete_subwallet(address): forbidden on the
// primary address while other subwallets exist, per spec §4.8.
func (w *Wallet) DeleteSubwallet(addr string) error {
	w.subwallets.Mu.Lock()
	defer w.subwallets.Mu.Unlock()

	var target *subwallet.Subwallet
	for _, sw := range w.subwallets.All() {
		if sw.Address == addr {
			target = sw
			break
		}
	}
	if target == nil {
		return ErrUnknownSubwallet
	}
	if target.IsPrimary && w.subwallets.Len() > 1 {
		return ErrPrimaryHasOtherSubwallets
	}
	w.subwallets.Remove(target.PublicSpendKey.Bytes())
	return nil
}

// Start launches the block downloader and sync engine, per spec §4.4.
// Start must be called at most once per Wallet.
func (w *Wallet) Start(ctx context.Context) {
	w.client.StartBackgroundRefresh(ctx)
	w.sync.Start()
}

// Stop shuts down the sync engine, the block downloader, and the node
// client's background refresh loop, in that order (the engine must stop
// pulling from the downloader before the downloader itself stops).
func (w *Wallet) Stop() error {
	err := w.sync.Stop()
	w.downloader.Stop()
	w.client.Stop()
	return err
}

// String implements fmt.Stringer for diagnostic logging.
func (w *Wallet) String() string {
	return fmt.Sprintf("wallet(file=%s subwallets=%d height=%d)", w.filename, w.subwallets.Len(), w.status.LastKnownHeight())
}
