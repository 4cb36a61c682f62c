package mc

import (
	"fmt"
	"math/rand"
	"testing"
)

func BenchmarkStep(b *testing.B) {
	for _, n := range []int{36, 100, 400} {
		p := DefaultParams()
		p.N = n
		s, err := New(p, rand.New(rand.NewSource(1)))
		if err != nil {
			b.Fatalf("new sampler failed: %v", err)
		}

		b.Run(fmt.Sprintf("N%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if err := s.Step(); err != nil {
					b.Fatalf("step failed: %v", err)
				}
			}
		})
	}
}
