package model

import "fmt"

// scaler is a fitted standard scaler: z = (x - mean) / scale per slot.
type scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *scaler) validate(n int) error {
	if len(s.Mean) != n || len(s.Scale) != n {
		return fmt.Errorf("scaler has %d/%d mean/scale entries, want %d", len(s.Mean), len(s.Scale), n)
	}
	return nil
}

func (s *scaler) transform(vec []float64) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		sc := s.Scale[i]
		if sc == 0 {
			// Constant feature at fit time; the trainer exports scale 1
			// for those, but guard anyway.
			sc = 1
		}
		out[i] = (v - s.Mean[i]) / sc
	}
	return out
}

// forest is a random-forest regressor exported as flat node arrays, one
// tree per entry. Leaf nodes have Left == -1.
type forest struct {
	Trees []tree `json:"trees"`
}

type tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"children_left"`
	Right     []int     `json:"children_right"`
	Value     []float64 `json:"value"`
}

func (f *forest) validate(nFeatures int) error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for ti, t := range f.Trees {
		n := len(t.Feature)
		if n == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
			return fmt.Errorf("tree %d has inconsistent node array lengths", ti)
		}
		for i := 0; i < n; i++ {
			if t.Left[i] == -1 {
				continue // leaf
			}
			if t.Left[i] < 0 || t.Left[i] >= n || t.Right[i] < 0 || t.Right[i] >= n {
				return fmt.Errorf("tree %d node %d has out-of-range children", ti, i)
			}
			if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
				return fmt.Errorf("tree %d node %d splits on unknown feature %d", ti, i, t.Feature[i])
			}
		}
	}
	return nil
}

// predict averages the per-tree regression outputs.
func (f *forest) predict(vec []float64) (float64, error) {
	var sum float64
	for ti := range f.Trees {
		v, err := f.Trees[ti].predict(vec)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", ti, err)
		}
		sum += v
	}
	return sum / float64(len(f.Trees)), nil
}

// predict walks one tree from the root to a leaf.
func (t *tree) predict(vec []float64) (float64, error) {
	node := 0
	for steps := 0; steps <= len(t.Feature); steps++ {
		if t.Left[node] == -1 {
			return t.Value[node], nil
		}
		if vec[t.Feature[node]] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return 0, fmt.Errorf("cycle detected during traversal")
}
