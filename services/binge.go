package services

import "math/rand"

// PickBinge chooses the "binge of the day" uniformly from movies. intn
// defaults to math/rand's Intn; tests pass a deterministic one.
func PickBinge(movies []Movie, intn func(int) int) *Movie {
	if len(movies) == 0 {
		return nil
	}
	if intn == nil {
		intn = rand.Intn
	}
	m := movies[intn(len(movies))]
	return &m
}
