package types

// AppKind is the tag of the app descriptor variant
type AppKind string

const (
	KindMessages  AppKind = "messages"
	KindPhone     AppKind = "phone"
	KindMail      AppKind = "mail"
	KindMusic     AppKind = "music"
	KindRideshare AppKind = "rideshare"
	KindShopping  AppKind = "shopping"
	KindWallet    AppKind = "wallet"
	KindCalendar  AppKind = "calendar"
	KindAppStore  AppKind = "appstore"
	KindSettings  AppKind = "settings"
	KindUtility   AppKind = "utility" // camera, clock, notes... nothing shared
)

// Capability names an entity collection an app reads or writes
type Capability string

const (
	CapContacts      Capability = "contacts"
	CapConversations Capability = "conversations"
	CapEmails        Capability = "emails"
	CapTransactions  Capability = "transactions"
	CapCart          Capability = "cart"
	CapCalendar      Capability = "calendar"
	CapRide          Capability = "ride"
	CapMusic         Capability = "music"
	CapInstalledApps Capability = "installed_apps"
)

// Well-known app identifiers used by cross-app rules
const (
	AppMessages  = "messages"
	AppPhone     = "phone"
	AppMail      = "mail"
	AppMusic     = "music"
	AppRideshare = "rideshare"
	AppShopping  = "shopping"
	AppWallet    = "wallet"
	AppCalendar  = "calendar"
	AppStore     = "appstore"
	AppSettings  = "settings"
)

// AppDescriptor is the static description of one simulated app
type AppDescriptor struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Kind         AppKind      `json:"kind" yaml:"kind"`
	Icon         string       `json:"icon,omitempty" yaml:"icon"`
	Capabilities []Capability `json:"capabilities" yaml:"capabilities"`
	Installable  bool         `json:"installable" yaml:"installable"`
	Skins        []Skin       `json:"skins" yaml:"skins"`
	Dock         bool         `json:"dock" yaml:"dock"`
	Page         int          `json:"page" yaml:"page"`
}

// On reports whether the app is available on the given skin
func (d AppDescriptor) On(skin Skin) bool {
	for _, s := range d.Skins {
		if s == skin {
			return true
		}
	}
	return false
}

// Needs reports whether the app declared the given capability
func (d AppDescriptor) Needs(c Capability) bool {
	for _, have := range d.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// Skin identifies one simulated operating system
type Skin string

const (
	SkinTouch   Skin = "touch"
	SkinFeature Skin = "feature"
	SkinRotary  Skin = "rotary"
	SkinPDA     Skin = "pda"
	SkinFlip    Skin = "flip"
)

// PrimarySkin is the skin that re-locks when it is switched to
const PrimarySkin = SkinTouch

// AllSkins lists every selectable skin in menu order
func AllSkins() []Skin {
	return []Skin{SkinTouch, SkinFeature, SkinRotary, SkinPDA, SkinFlip}
}

// ParseSkin validates a skin identifier
func ParseSkin(s string) (Skin, bool) {
	for _, skin := range AllSkins() {
		if string(skin) == s {
			return skin, true
		}
	}
	return "", false
}

// ScreenMode is the coarse navigation state of a skin
type ScreenMode string

const (
	ModeLocked     ScreenMode = "locked"
	ModeHome       ScreenMode = "home"
	ModeForeground ScreenMode = "app"
)

// NavigationState is the UI position of one skin
type NavigationState struct {
	Skin       Skin   `json:"skin"`
	Locked     bool   `json:"locked"`
	Page       int    `json:"page"`
	PageCount  int    `json:"page_count"`
	Foreground string `json:"foreground,omitempty"`
}

// Mode derives the state-machine state from the flags
func (n NavigationState) Mode() ScreenMode {
	switch {
	case n.Locked:
		return ModeLocked
	case n.Foreground != "":
		return ModeForeground
	default:
		return ModeHome
	}
}
