package generator

import (
	"math"
	"math/rand"
	"sync"
)

const (
	ExponentialPercentileDefault = "95"
	ExponentialFractionDefault   = "0.8571428571" // 6/7
)

// random is shared by every generator in this package, including the
// Phase mix selection and Worker keying/think-time sleeps, both of which
// are called from many worker goroutines concurrently. math/rand.Rand is
// not safe for concurrent use on its own, so every access goes through
// randMu.
var (
	random *rand.Rand
	randMu sync.Mutex
)

func init() {
	random = rand.New(rand.NewSource(rand.Int63()))
}

func NextInt64(n int64) int64 {
	randMu.Lock()
	defer randMu.Unlock()
	return random.Int63n(n)
}

func NextFloat64() float64 {
	randMu.Lock()
	defer randMu.Unlock()
	return random.Float64()
}

type ExponentialGenerator struct {
	*IntegerGeneratorBase
	gamma float64
}

func NewExponentialGeneratorByMean(mean float64) *ExponentialGenerator {
	return &ExponentialGenerator{
		IntegerGeneratorBase: NewIntegerGeneratorBase(0),
		gamma:                1.0 / mean,
	}
}

func NewExponentialGenerator(percentile, theRange float64) *ExponentialGenerator {
	return &ExponentialGenerator{
		IntegerGeneratorBase: NewIntegerGeneratorBase(0),
		gamma:                -math.Log(1.0-percentile/100.0) / theRange, // 1.0/mean
	}
}

func (self *ExponentialGenerator) NextInt() int64 {
	return self.NextLong()
}

func (self *ExponentialGenerator) NextLong() int64 {
	next := int64(-math.Log(NextFloat64()) / self.gamma)
	self.SetLastInt(next)
	return next
}

func (self *ExponentialGenerator) NextString() string {
	return self.IntegerGeneratorBase.NextString(self)
}

func (self *ExponentialGenerator) Mean() float64 {
	return 1.0 / self.gamma
}
