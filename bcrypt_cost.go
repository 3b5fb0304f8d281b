//go:build !race

package storeauth

func passwordHashCost() int {
	return 14
}
