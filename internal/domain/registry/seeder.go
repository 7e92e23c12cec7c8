package registry

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

// Seeder fills the registry at startup
type Seeder struct {
	registry *Registry
	log      *logging.Logger
}

// NewSeeder creates a seeder for reg. logger may be nil.
func NewSeeder(reg *Registry, logger *logging.Logger) *Seeder {
	return &Seeder{
		registry: reg,
		log:      logger.Named("registry"),
	}
}

// catalogFile is the layout of a YAML catalog
type catalogFile struct {
	Apps []types.AppDescriptor `yaml:"apps"`
}

// SeedDefaults registers the built-in apps
func (s *Seeder) SeedDefaults() error {
	for _, d := range BuiltinApps() {
		if err := s.registry.Register(d); err != nil {
			return fmt.Errorf("register built-in %s: %w", d.ID, err)
		}
	}
	s.log.Info("Seeded built-in apps", zap.Int("count", s.registry.Len()))
	return nil
}

// LoadCatalog registers apps from every YAML file matching pattern.
// Bad files are logged and skipped; a bad pattern is an error.
func (s *Seeder) LoadCatalog(pattern string) (loaded, failed int, err error) {
	if pattern == "" {
		return 0, 0, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return 0, 0, fmt.Errorf("invalid catalog pattern %q", pattern)
	}

	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return 0, 0, fmt.Errorf("glob catalog %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		s.log.Warn("No catalog files matched", zap.String("pattern", pattern))
		return 0, 0, nil
	}

	for _, path := range paths {
		n, err := s.loadFile(path)
		loaded += n
		if err != nil {
			s.log.Warn("Failed to load catalog file", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}
		s.log.Debug("Loaded catalog file", zap.String("path", path), zap.Int("apps", n))
	}

	s.log.Info("Catalog loading complete", zap.Int("loaded", loaded), zap.Int("failed_files", failed))
	return loaded, failed, nil
}

func (s *Seeder) loadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	var n int
	for _, d := range file.Apps {
		if err := s.registry.Register(d); err != nil {
			return n, fmt.Errorf("app %q: %w", d.ID, err)
		}
		n++
	}
	return n, nil
}

// BuiltinApps is the stock app set shipped with every skin
func BuiltinApps() []types.AppDescriptor {
	all := types.AllSkins()
	return []types.AppDescriptor{
		{ID: types.AppPhone, Name: "Phone", Kind: types.KindPhone, Icon: "phone", Skins: all, Dock: true},
		{ID: types.AppMessages, Name: "Messages", Kind: types.KindMessages, Icon: "bubble", Skins: all, Dock: true},
		{ID: types.AppMail, Name: "Mail", Kind: types.KindMail, Icon: "envelope",
			Skins: []types.Skin{types.SkinTouch, types.SkinPDA}, Dock: true},
		{ID: types.AppMusic, Name: "Music", Kind: types.KindMusic, Icon: "note",
			Skins: []types.Skin{types.SkinTouch, types.SkinFeature, types.SkinPDA, types.SkinFlip}, Dock: true},
		{ID: types.AppCalendar, Name: "Calendar", Kind: types.KindCalendar, Icon: "calendar",
			Skins: []types.Skin{types.SkinTouch, types.SkinFeature, types.SkinPDA, types.SkinFlip}},
		{ID: types.AppWallet, Name: "Wallet", Kind: types.KindWallet, Icon: "card",
			Skins: []types.Skin{types.SkinTouch, types.SkinPDA}},
		{ID: types.AppRideshare, Name: "Rides", Kind: types.KindRideshare, Icon: "car",
			Skins: []types.Skin{types.SkinTouch}},
		{ID: types.AppShopping, Name: "Shop", Kind: types.KindShopping, Icon: "bag",
			Skins: []types.Skin{types.SkinTouch}},
		{ID: types.AppStore, Name: "App Store", Kind: types.KindAppStore, Icon: "store",
			Skins: []types.Skin{types.SkinTouch}},
		{ID: types.AppSettings, Name: "Settings", Kind: types.KindSettings, Icon: "gear", Skins: all},
		{ID: "camera", Name: "Camera", Kind: types.KindUtility, Icon: "camera",
			Skins: []types.Skin{types.SkinTouch, types.SkinFlip}},
		{ID: "clock", Name: "Clock", Kind: types.KindUtility, Icon: "clock", Skins: all},
		{ID: "notes", Name: "Notes", Kind: types.KindUtility, Icon: "pad",
			Skins: []types.Skin{types.SkinTouch, types.SkinPDA}},
		{ID: "weather", Name: "Weather", Kind: types.KindUtility, Icon: "sun",
			Skins: []types.Skin{types.SkinTouch}, Page: 1},
		{ID: "podcasts", Name: "Podcasts", Kind: types.KindMusic, Icon: "mic",
			Skins: []types.Skin{types.SkinTouch}, Installable: true, Page: 1},
		{ID: "news", Name: "News", Kind: types.KindUtility, Icon: "paper",
			Skins: []types.Skin{types.SkinTouch}, Installable: true, Page: 1},
		{ID: "fitness", Name: "Fitness", Kind: types.KindUtility, Icon: "heart",
			Skins: []types.Skin{types.SkinTouch}, Installable: true, Page: 1},
	}
}
