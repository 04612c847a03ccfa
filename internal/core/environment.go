package core

import "strings"

// Environment selects logging format and gin mode for the storefront processes.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

var environmentAliases = map[string]Environment{
	"dev":   Development,
	"stage": Staging,
	"test":  Testing,
	"prod":  Production,
}

// IsProduction turns on JSON logs and gin release mode.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment reads STOREFRONT_ENVIRONMENT. Case and short forms such as
// "prod" are accepted; anything unrecognised runs as Development.
func ParseEnvironment(v string) Environment {
	v = strings.ToLower(strings.TrimSpace(v))
	if e, ok := environmentAliases[v]; ok {
		return e
	}
	switch e := Environment(v); e {
	case Development, Staging, Testing, Production:
		return e
	}
	return Development
}
