package params

import (
	"fmt"
	"strings"
)

// Kyber512 returns the NIST level 1 parameter set.
func Kyber512() Set {
	return Set{Name: "Kyber512", K: 2, Eta1: 3, Eta2: Eta2, DU: 10, DV: 4}
}

// Kyber768 returns the NIST level 3 parameter set.
func Kyber768() Set {
	return Set{Name: "Kyber768", K: 3, Eta1: 2, Eta2: Eta2, DU: 10, DV: 4}
}

// Kyber1024 returns the NIST level 5 parameter set.
func Kyber1024() Set {
	return Set{Name: "Kyber1024", K: 4, Eta1: 2, Eta2: Eta2, DU: 11, DV: 5}
}

// All lists the presets from smallest to largest.
func All() []Set {
	return []Set{Kyber512(), Kyber768(), Kyber1024()}
}

// ByName resolves a preset. Accepted spellings include "Kyber768",
// "kyber-768", "kyber_768" and "768".
func ByName(name string) (Set, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	key = strings.TrimPrefix(key, "kyber")
	for _, s := range All() {
		if strings.TrimPrefix(strings.ToLower(s.Name), "kyber") == key {
			return s, nil
		}
	}
	return Set{}, fmt.Errorf("%w: %q", ErrUnknownParamSet, name)
}
