// Package split produces a seeded, stratified train/test partition of a
// feature table and its label column.
package split

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// Defaults used when the caller does not set a fraction or seed.
const (
	DefaultTestFraction = 0.2
	DefaultSeed         = 42
)

// Options controls the partition.
type Options struct {
	TestFraction float64
	Seed         uint64
}

// Shape is a numpy-style shape: (rows, columns) for tables, (rows,) for
// label vectors.
type Shape []int

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	if len(s) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Shapes holds the shapes of the four partitions.
type Shapes struct {
	TrainFeatures Shape `json:"x_train" yaml:"x_train"`
	TestFeatures  Shape `json:"x_test" yaml:"x_test"`
	TrainLabels   Shape `json:"y_train" yaml:"y_train"`
	TestLabels    Shape `json:"y_test" yaml:"y_test"`
}

// Partition is the result of Stratified. TrainRows and TestRows are the
// source row indices, in emitted order.
type Partition struct {
	TrainFeatures *frame.Table
	TestFeatures  *frame.Table
	TrainLabels   *frame.Column
	TestLabels    *frame.Column
	TrainRows     []int
	TestRows      []int
}

// Shapes reports the four partition shapes.
func (p *Partition) Shapes() Shapes {
	return Shapes{
		TrainFeatures: Shape{p.TrainFeatures.Rows(), p.TrainFeatures.Width()},
		TestFeatures:  Shape{p.TestFeatures.Rows(), p.TestFeatures.Width()},
		TrainLabels:   Shape{p.TrainLabels.Len()},
		TestLabels:    Shape{p.TestLabels.Len()},
	}
}

type class struct {
	key  string
	rows []int
	take int
	rem  int
}

// Stratified splits features and labels into train and test partitions.
//
// The test partition holds ceil(TestFraction*n) rows. Each class receives
// the floor of its exact share of test rows, and the remaining rows go to
// the classes with the largest remainders, ties broken by class order
// (classes are ordered by their formatted label value). Every class count is
// therefore within one row of its exact share, which bounds the proportion
// error by 1/n_test in test and 1/n_train in train.
//
// Rows within a class are shuffled with a PCG generator seeded by
// (Seed, Seed), and each partition is emitted in a shuffled order drawn from
// the same generator. Identical inputs and seed give identical partitions.
func Stratified(features *frame.Table, labels *frame.Column, opts Options) (*Partition, error) {
	n := features.Rows()
	if labels.Len() != n {
		return nil, fmt.Errorf("%w: %d feature rows but %d labels", core.ErrPartition, n, labels.Len())
	}
	f := opts.TestFraction
	if math.IsNaN(f) || f <= 0 || f >= 1 {
		return nil, fmt.Errorf("%w: test fraction %v is outside (0, 1)", core.ErrPartition, f)
	}

	classes, err := groupByLabel(labels)
	if err != nil {
		return nil, err
	}
	for _, c := range classes {
		if len(c.rows) < 2 {
			return nil, fmt.Errorf("%w: class %q has %d member; at least 2 are needed to stratify",
				core.ErrPartition, c.key, len(c.rows))
		}
	}

	nTest := int(math.Ceil(f * float64(n)))
	nTrain := n - nTest
	if nTest < len(classes) || nTrain < len(classes) {
		return nil, fmt.Errorf("%w: %d test and %d train rows cannot hold %d classes",
			core.ErrPartition, nTest, nTrain, len(classes))
	}

	allocate(classes, n, nTest)

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	train := make([]int, 0, nTrain)
	test := make([]int, 0, nTest)
	for _, c := range classes {
		rows := append([]int(nil), c.rows...)
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		test = append(test, rows[:c.take]...)
		train = append(train, rows[c.take:]...)
	}
	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })

	return &Partition{
		TrainFeatures: features.Take(train),
		TestFeatures:  features.Take(test),
		TrainLabels:   takeColumn(labels, train),
		TestLabels:    takeColumn(labels, test),
		TrainRows:     train,
		TestRows:      test,
	}, nil
}

func groupByLabel(labels *frame.Column) ([]*class, error) {
	byKey := make(map[string]*class)
	var classes []*class
	for i, v := range labels.Values {
		if v.IsNull() {
			return nil, fmt.Errorf("%w: label %q is null at row %d", core.ErrPartition, labels.Name, i)
		}
		k := v.Format()
		c, ok := byKey[k]
		if !ok {
			c = &class{key: k}
			byKey[k] = c
			classes = append(classes, c)
		}
		c.rows = append(c.rows, i)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].key < classes[j].key })
	return classes, nil
}

// allocate sets take on every class by the largest remainder method.
func allocate(classes []*class, n, nTest int) {
	left := nTest
	for _, c := range classes {
		share := len(c.rows) * nTest
		c.take = share / n
		c.rem = share % n
		left -= c.take
	}
	order := make([]*class, len(classes))
	copy(order, classes)
	sort.SliceStable(order, func(i, j int) bool { return order[i].rem > order[j].rem })
	for i := 0; i < left; i++ {
		order[i].take++
	}
}

func takeColumn(c *frame.Column, rows []int) *frame.Column {
	vals := make([]frame.Value, len(rows))
	for i, r := range rows {
		vals[i] = c.Values[r]
	}
	return frame.NewColumn(c.Name, c.Type, vals)
}
