// Package registry holds the static catalog of simulated apps.
//
// Each app is an AppDescriptor tagged with a Kind. The kind table supplies
// default capabilities and tells the router which apps can produce
// generated replies. The catalog is filled once at startup by the Seeder
// (built-ins plus optional YAML catalog files) and then frozen.
//
// Components:
//   - Registry: descriptor lookup, launch checks, home-grid layout
//   - Seeder: registers built-in apps and loads catalog files by glob
//
// Example Usage:
//
//	reg := registry.New()
//	seeder := registry.NewSeeder(reg, logger)
//	seeder.SeedDefaults()
//	seeder.LoadCatalog("catalog/**/*.yaml")
//	reg.Freeze()
//
//	app, err := reg.Resolve("wallet")
package registry
