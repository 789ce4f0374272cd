package pipeline

import "errors"

// KNN is a k-nearest-neighbor classifier over encoded feature vectors.
// Fitting stores the training rows; prediction is a majority vote among
// the K closest rows by squared euclidean distance.
type KNN struct {
	K      int         `msgpack:"k"`
	Points [][]float64 `msgpack:"points"`
	Labels []int       `msgpack:"labels"`
}

// NewKNN returns an unfitted classifier.
func NewKNN(k int) *KNN {
	return &KNN{K: k}
}

// Fit stores the training vectors and their class labels.
func (m *KNN) Fit(points [][]float64, labels []int) error {
	if m.K <= 0 {
		return errors.New("k must be positive")
	}
	if len(points) == 0 {
		return errors.New("training set is empty")
	}
	if len(points) != len(labels) {
		return errors.New("number of vectors must match number of labels")
	}
	m.Points = points
	m.Labels = labels
	return nil
}

type neighbor struct {
	dist  float64
	label int
}

// Predict returns the majority class among the K nearest training rows.
func (m *KNN) Predict(x []float64) (int, error) {
	nbrs, err := m.nearest(x)
	if err != nil {
		return 0, err
	}
	class, _ := vote(nbrs)
	return class, nil
}

// PredictProba returns the majority class and the share of neighbors that
// voted for it, a value in (0, 1].
func (m *KNN) PredictProba(x []float64) (int, float64, error) {
	nbrs, err := m.nearest(x)
	if err != nil {
		return 0, 0, err
	}
	class, votes := vote(nbrs)
	return class, float64(votes) / float64(len(nbrs)), nil
}

// nearest keeps a small sorted window of the K best candidates, which beats
// sorting the full training set for the K values this service uses.
func (m *KNN) nearest(x []float64) ([]neighbor, error) {
	if len(m.Points) == 0 {
		return nil, errors.New("classifier is not fitted")
	}
	if len(x) != len(m.Points[0]) {
		return nil, errors.New("feature vector width does not match training data")
	}

	k := m.K
	if k > len(m.Points) {
		k = len(m.Points)
	}

	nbrs := make([]neighbor, 0, k)
	for i, p := range m.Points {
		d := sqDist(x, p)
		if len(nbrs) < k {
			nbrs = insertSorted(nbrs, neighbor{dist: d, label: m.Labels[i]})
		} else if d < nbrs[len(nbrs)-1].dist {
			nbrs = insertSorted(nbrs[:len(nbrs)-1], neighbor{dist: d, label: m.Labels[i]})
		}
	}
	return nbrs, nil
}

func insertSorted(nbrs []neighbor, n neighbor) []neighbor {
	i := len(nbrs)
	nbrs = append(nbrs, n)
	for i > 0 && nbrs[i-1].dist > n.dist {
		nbrs[i] = nbrs[i-1]
		i--
	}
	nbrs[i] = n
	return nbrs
}

func vote(nbrs []neighbor) (class, votes int) {
	counts := map[int]int{}
	for _, n := range nbrs {
		counts[n.label]++
	}
	votes = -1
	for label, c := range counts {
		if c > votes || (c == votes && label < class) {
			class, votes = label, c
		}
	}
	return class, votes
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
