package payment

import "strings"

const DefaultProvider = "razorpay"

var countryProvider = map[string]string{
	"IN": "razorpay",
	"QA": "dibsy",
	"AE": "telr",
	"SA": "moyasar",
	"OM": "omannet",
}

type Registry struct {
	providers map[string]Provider
	order     []string
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if _, dup := r.providers[p.Name()]; !dup {
			r.order = append(r.order, p.Name())
		}
		r.providers[p.Name()] = p
	}
	return r
}

// ForCountry picks the gateway for a shipping country; unknown countries use Razorpay.
func (r *Registry) ForCountry(country string) Provider {
	name, ok := countryProvider[strings.ToUpper(strings.TrimSpace(country))]
	if !ok {
		name = DefaultProvider
	}
	if p, ok := r.providers[name]; ok {
		return p
	}
	return r.providers[DefaultProvider]
}

func (r *Registry) ByName(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
