package registry

import "github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"

// KindSpec is the per-kind behavior shared by every app of that kind
type KindSpec struct {
	Capabilities []types.Capability
	// Replies marks kinds whose outgoing messages schedule a generated reply
	Replies bool
	// Singleton kinds may be registered at most once
	Singleton bool
}

var kindTable = map[types.AppKind]KindSpec{
	types.KindMessages: {
		Capabilities: []types.Capability{types.CapContacts, types.CapConversations},
		Replies:      true,
		Singleton:    true,
	},
	types.KindPhone: {
		Capabilities: []types.Capability{types.CapContacts},
		Singleton:    true,
	},
	types.KindMail: {
		Capabilities: []types.Capability{types.CapEmails, types.CapContacts},
		Singleton:    true,
	},
	types.KindMusic: {
		Capabilities: []types.Capability{types.CapMusic},
	},
	types.KindRideshare: {
		Capabilities: []types.Capability{types.CapRide, types.CapCalendar},
		Singleton:    true,
	},
	types.KindShopping: {
		Capabilities: []types.Capability{types.CapCart, types.CapTransactions},
	},
	types.KindWallet: {
		Capabilities: []types.Capability{types.CapTransactions},
		Singleton:    true,
	},
	types.KindCalendar: {
		Capabilities: []types.Capability{types.CapCalendar, types.CapRide, types.CapConversations},
		Singleton:    true,
	},
	types.KindAppStore: {
		Capabilities: []types.Capability{types.CapInstalledApps},
		Singleton:    true,
	},
	types.KindSettings: {
		Singleton: true,
	},
	types.KindUtility: {},
}

// SpecFor returns the behavior of a kind
func SpecFor(kind types.AppKind) (KindSpec, bool) {
	spec, ok := kindTable[kind]
	return spec, ok
}

// gridSize is the number of home-grid slots per page on each skin
var gridSize = map[types.Skin]int{
	types.SkinTouch:   16,
	types.SkinFeature: 9,
	types.SkinRotary:  6,
	types.SkinPDA:     12,
	types.SkinFlip:    9,
}

// GridSize returns the slots per home page for a skin
func GridSize(skin types.Skin) int {
	if n, ok := gridSize[skin]; ok {
		return n
	}
	return 9
}
