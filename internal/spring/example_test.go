package spring_test

import (
	"fmt"

	"github.com/san-kum/springsim/internal/spring"
)

func Example() {
	coeffs := spring.New(1.0, 10.0, 10.0)
	var pos, vel float64
	for i := 0; i < 10; i++ {
		coeffs.Update(&pos, &vel, 100.0)
		fmt.Printf("%.4f\n", pos)
	}
	// Output:
	// 39.2705
	// 63.2119
	// 77.7149
	// 86.5004
	// 91.8224
	// 95.0462
	// 96.9992
	// 98.1822
	// 98.8988
	// 99.3329
}
