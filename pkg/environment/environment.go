package environment

// Environment represents the deployment environment.
type Environment string

const (
	// Development for local development.
	Development Environment = "development"
	// Production for production deployments.
	Production Environment = "production"
	// Staging for pre-production deployments.
	Staging Environment = "staging"
)

// Parse normalizes an environment name, accepting the common short aliases.
// Unrecognized values resolve to Development.
func Parse(s string) Environment {
	switch s {
	case string(Production), "prod":
		return Production
	case string(Staging), "stage":
		return Staging
	default:
		return Development
	}
}

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool { return e == Production }

// IsDevelopment reports whether e is the development environment.
func (e Environment) IsDevelopment() bool { return e == Development }

// Config carries the deployment environment, resolved from APP_ENV.
type Config struct {
	Environment Environment `env:"APP_ENV" envDefault:"development"`
}
