package common

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

func Max(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func FormatRoutes(ginRoutes gin.RoutesInfo) (routes []string) {
	var maxM, maxP int
	for _, r := range ginRoutes {
		maxM = Max(maxM, len(r.Method))
		maxP = Max(maxP, len(r.Path))
	}

	for _, r := range ginRoutes {
		routes = append(routes, fmt.Sprintf(
			fmt.Sprintf("%%-%ds %%-%ds -> %%s", maxM, maxP),
			r.Method,
			r.Path,
			r.Handler,
		))
	}

	return
}

func SatToMsat(sat uint64) uint64 { return sat * MsatPerSat }

// MsatToSat floors.
func MsatToSat(msat uint64) uint64 { return msat / MsatPerSat }

// AmountMsat resolves a sat/msat pair. The msat value wins when both are set,
// so no precision is lost; zero means neither was given.
func AmountMsat(sat, msat uint64) uint64 {
	if msat > 0 {
		return msat
	}

	return SatToMsat(sat)
}

// ParseNetwork maps the network names used by lnd, CLN and Eclair. Unknown
// names are returned unchanged.
func ParseNetwork(name string) Network {
	switch name {
	case "bitcoin", "mainnet":
		return NetworkMainnet
	case "testnet":
		return NetworkTestnet
	case "regtest":
		return NetworkRegtest
	default:
		return Network(name)
	}
}

// ToUint64 converts a wire-level signed amount, rejecting negatives.
func ToUint64(field string, v int64) (uint64, error) {
	if v < 0 {
		return 0, &Error{Kind: KindConversion, Message: fmt.Sprintf("negative %s: %d", field, v)}
	}

	return uint64(v), nil
}
