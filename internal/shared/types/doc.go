// Package types provides the shared data structures for the PhoneSim backend.
//
// Every component (store, registry, navigation, router, API) speaks in
// these types so that no package has to import another component's
// internals.
//
// Domain Entities:
//   - Contact, Conversation, Message: Messages/Phone apps
//   - Email: Mail app
//   - Transaction, CartItem: Wallet and Shopping apps
//   - CalendarEvent: Calendar app
//   - ActiveRide: rideshare singleton
//   - MusicPlayer: music app state
//
// Shell Types:
//   - Skin: one selectable simulated OS
//   - AppKind, Capability, AppDescriptor: static app catalog
//   - NavigationState: per-skin lock/page/foreground position
//
// Errors:
//   - ValidationError, NotFoundError, ConflictError, UnknownAppError
//
// Example Usage:
//
//	amount, err := types.ParseAmount(19.99)
//	if err != nil {
//	    return err // *types.ValidationError
//	}
//	item := types.CartItem{Title: "Headphones", Price: amount, Store: "Shopr"}
package types
