package exchange

import "math/rand"

// seedSecurity is a security listed at process start.
type seedSecurity struct {
	ticker      string
	description string
}

var seedSecurities = []seedSecurity{
	{"NVDA", "NVIDIA Corporation Common Stock"},
	{"PLTR", "Palantir Technologies Inc. Class A Common Stock"},
	{"WMT", "Walmart Inc. Common Stock"},
}

// Seed lists the initial securities with a random opening price between
// $80.00 and $119.00 in $1.00 steps.
func Seed(r Registry) error {
	for _, s := range seedSecurities {
		if err := r.TryInsert(s.ticker, s.description, randPrice()); err != nil {
			return err
		}
	}
	return nil
}

func randPrice() int {
	return (rand.Intn(40) + 80) * 100
}
