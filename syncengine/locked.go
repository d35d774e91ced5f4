package syncengine

import (
	"context"
	"time"
)

// lockedTransactionsLoop implements spec §4.4's periodic locked-
// transactions check: poll get_transactions_status on unconfirmed
// outgoing transaction hashes, and cancel any hash reported unknown for
// longer than CancelledGrace.
func (e *Engine) lockedTransactionsLoop() {
	defer e.tg.Done()

	ticker := time.NewTicker(e.lockedCheckInterval)
	defer ticker.Stop()

	firstSeenUnknown := make(map[[32]byte]time.Time)

	for {
		select {
		case <-e.tg.StopChan():
			return
		case <-ticker.C:
		}

		hashes := e.pendingOutgoingHashes()
		if len(hashes) == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		status, err := e.client.GetTransactionsStatus(ctx, hashes)
		cancel()
		if err != nil {
			e.log.WithError(err).Warn("locked transactions check failed")
			continue
		}

		now := time.Now()
		unknown := make(map[[32]byte]bool, len(status.Unknown))
		for _, h := range status.Unknown {
			unknown[h] = true
		}

		var cancelled [][32]byte
		seen := make(map[[32]byte]bool, len(hashes))
		for _, h := range hashes {
			seen[h] = true
			if !unknown[h] {
				delete(firstSeenUnknown, h)
				continue
			}
			first, ok := firstSeenUnknown[h]
			if !ok {
				firstSeenUnknown[h] = now
				continue
			}
			if now.Sub(first) > e.cancelledGrace {
				cancelled = append(cancelled, h)
				delete(firstSeenUnknown, h)
			}
		}
		for h := range firstSeenUnknown {
			if !seen[h] {
				delete(firstSeenUnknown, h)
			}
		}

		if len(cancelled) == 0 {
			continue
		}
		cancelledSet := make(map[[32]byte]bool, len(cancelled))
		for _, h := range cancelled {
			cancelledSet[h] = true
		}

		e.subwallets.Mu.Lock()
		for _, sw := range e.subwallets.All() {
			sw.RemoveCancelledTransactions(cancelledSet)
		}
		e.subwallets.Mu.Unlock()

		for _, h := range cancelled {
			e.history.RemoveUnconfirmed(h)
		}
	}
}

// pendingOutgoingHashes returns the hashes of unconfirmed history
// entries with at least one negative (debit) transfer — the outgoing
// transactions this wallet is still waiting to see confirmed.
func (e *Engine) pendingOutgoingHashes() [][32]byte {
	var out [][32]byte
	for _, tx := range e.history.Unconfirmed() {
		for _, v := range tx.Transfers {
			if v < 0 {
				out = append(out, tx.Hash)
				break
			}
		}
	}
	return out
}
