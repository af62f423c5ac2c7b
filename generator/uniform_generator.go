package generator

// UniformIntegerGenerator generates integers uniformly distributed over
// [lowerBound, upperBound], inclusive on both ends.
type UniformIntegerGenerator struct {
	*IntegerGeneratorBase
	lowerBound int64
	upperBound int64
}

func NewUniformIntegerGenerator(lowerBound, upperBound int64) *UniformIntegerGenerator {
	return &UniformIntegerGenerator{
		IntegerGeneratorBase: NewIntegerGeneratorBase(0),
		lowerBound:           lowerBound,
		upperBound:           upperBound,
	}
}

func (self *UniformIntegerGenerator) NextInt() int64 {
	next := self.lowerBound + NextInt64(self.upperBound-self.lowerBound+1)
	self.SetLastInt(next)
	return next
}

func (self *UniformIntegerGenerator) NextString() string {
	return self.IntegerGeneratorBase.NextString(self)
}

func (self *UniformIntegerGenerator) Mean() float64 {
	return float64(self.lowerBound+self.upperBound) / 2.0
}
