// Package store is the Entity Store: the single in-memory owner of every
// collection the simulated apps share (contacts, conversations, mail,
// ledger, cart, calendar, the active ride, music, installed apps).
//
// All reads return copies. All writes go through Update, which runs the
// caller's function against a cloned state and commits only when the
// function returns nil, so a multi-entity mutation is never half-applied.
// Committed changes are published on the events bus after the lock is
// released.
//
// Example Usage:
//
//	s := store.New(bus)
//	err := s.Update(ctx, func(tx *store.Tx) error {
//	    item, err := tx.RemoveCartItem(itemID)
//	    if err != nil {
//	        return err
//	    }
//	    _, err = tx.AppendTransaction(types.Transaction{
//	        Merchant: item.Store,
//	        Amount:   item.Price.Neg(),
//	    })
//	    return err
//	})
package store
