package config

// App carries the engine-level settings that do not belong to any single
// infrastructure package.
type App struct {
	// Environment selects logger defaults: "development", "staging" or "production".
	Environment string `env:"APP_ENV" envDefault:"development"`
	// PlansFile points at the YAML plan catalog loaded at startup.
	PlansFile string `env:"PLANS_FILE" envDefault:"plans.yml"`
}
